// SPDX-License-Identifier: MIT

// Package utils holds signal generators and fakes shared by the package tests.
package utils

import (
	"math"
	"sync"
)

// MockTransport implements the transport.Transport interface for testing.
// It records every payload instead of transmitting it.
type MockTransport struct {
	mu     sync.Mutex
	Sent   []any
	Closed bool
	Err    error // returned from Send when set
}

// Send stores the payload for later inspection.
func (m *MockTransport) Send(data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, data)
	return nil
}

// Close marks the transport as closed.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
	return nil
}

// Count returns the number of payloads received so far.
func (m *MockTransport) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Last returns the most recent payload, or nil.
func (m *MockTransport) Last() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	return m.Sent[len(m.Sent)-1]
}

// GenerateSineWave returns size mono samples of a sine at frequency Hz with
// the given peak amplitude.
func GenerateSineWave(size int, sampleRate, frequency, amplitude float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = float32(math.Sin(2*math.Pi*frequency*t) * amplitude)
	}
	return buffer
}

// FilledFrame returns a frequency frame of n bins all set to v.
func FilledFrame(n int, v byte) []byte {
	frame := make([]byte, n)
	for i := range frame {
		frame[i] = v
	}
	return frame
}

// FindPeakBin returns the index of the largest value in frame[startBin:endBin]
// (inclusive), clamping the range to the frame.
func FindPeakBin(frame []byte, startBin, endBin int) int {
	if len(frame) == 0 {
		return 0
	}
	if startBin < 0 {
		startBin = 0
	}
	if endBin >= len(frame) {
		endBin = len(frame) - 1
	}

	peakBin := startBin
	for bin := startBin + 1; bin <= endBin; bin++ {
		if frame[bin] > frame[peakBin] {
			peakBin = bin
		}
	}
	return peakBin
}
