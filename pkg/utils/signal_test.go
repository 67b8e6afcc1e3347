// SPDX-License-Identifier: MIT
package utils

import (
	"errors"
	"math"
	"testing"
)

func TestMockTransport(t *testing.T) {
	mt := &MockTransport{}
	if mt.Last() != nil {
		t.Fatalf("Last() on empty transport = %v, want nil", mt.Last())
	}

	for i := range 3 {
		if err := mt.Send(i); err != nil {
			t.Fatalf("Send(%d) error = %v", i, err)
		}
	}
	if mt.Count() != 3 {
		t.Errorf("Count() = %d, want 3", mt.Count())
	}
	if mt.Last() != 2 {
		t.Errorf("Last() = %v, want 2", mt.Last())
	}

	mt.Err = errors.New("boom")
	if err := mt.Send(4); err == nil {
		t.Error("Send() with Err set returned nil")
	}
	if mt.Count() != 3 {
		t.Errorf("failed Send was recorded, Count() = %d", mt.Count())
	}

	_ = mt.Close()
	if !mt.Closed {
		t.Error("Close() did not mark transport closed")
	}
}

func TestGenerateSineWave(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		sampleRate float64
		frequency  float64
	}{
		{"A4 Note", 1024, 44100, 440.0},
		{"Middle C", 1024, 44100, 261.63},
		{"Low Sample Rate", 1024, 8000, 440.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateSineWave(tt.size, tt.sampleRate, tt.frequency, 0.5)
			if len(result) != tt.size {
				t.Fatalf("buffer size = %d, want %d", len(result), tt.size)
			}

			for i, v := range result {
				if math.Abs(float64(v)) > 0.5+1e-6 {
					t.Fatalf("sample %d = %f exceeds amplitude", i, v)
				}
			}

			samplesPerCycle := tt.sampleRate / tt.frequency
			crossCount := 0
			for i := 1; i < tt.size; i++ {
				if (result[i-1] < 0) != (result[i] < 0) {
					crossCount++
				}
			}
			expected := float64(tt.size) / (samplesPerCycle / 2)
			if math.Abs(float64(crossCount)-expected) > 0.2*expected {
				t.Errorf("zero crossings = %d, expected approximately %.1f", crossCount, expected)
			}
		})
	}
}

func TestFilledFrame(t *testing.T) {
	frame := FilledFrame(128, 255)
	if len(frame) != 128 {
		t.Fatalf("len = %d, want 128", len(frame))
	}
	for i, v := range frame {
		if v != 255 {
			t.Fatalf("frame[%d] = %d, want 255", i, v)
		}
	}
}

func TestFindPeakBin(t *testing.T) {
	frame := make([]byte, 64)
	frame[10] = 200
	frame[40] = 120

	tests := []struct {
		name     string
		frame    []byte
		start    int
		end      int
		expected int
	}{
		{"Full Range", frame, 0, 63, 10},
		{"After Peak", frame, 11, 63, 40},
		{"Negative Start", frame, -5, 63, 10},
		{"Out of Range End", frame, 0, 500, 10},
		{"Empty Slice", []byte{}, 0, 10, 0},
		{"Single Value", []byte{7}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindPeakBin(tt.frame, tt.start, tt.end); got != tt.expected {
				t.Errorf("FindPeakBin() = %d, want %d", got, tt.expected)
			}
		})
	}
}
