// SPDX-License-Identifier: MIT
package audio

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gordonklaus/portaudio"
)

var mockDevices = []*portaudio.DeviceInfo{
	{
		Name:                    "Built-in Microphone",
		MaxInputChannels:        1,
		DefaultSampleRate:       48000,
		DefaultLowInputLatency:  3 * time.Millisecond,
		DefaultHighInputLatency: 12 * time.Millisecond,
	},
	{
		Name:              "Built-in Output",
		MaxOutputChannels: 2,
		DefaultSampleRate: 44100,
	},
	{
		Name:              "USB Interface",
		MaxInputChannels:  2,
		MaxOutputChannels: 2,
		DefaultSampleRate: 96000,
	},
}

// withMockPortAudio replaces every PortAudio entry point for the test.
func withMockPortAudio(t *testing.T, devices []*portaudio.DeviceInfo) {
	t.Helper()

	origInit, origTerm := paLibInitialize, paLibTerminate
	origDevices, origDefault := paLibDevicesFunc, paLibDefaultInputDeviceFunc
	origPaDevices := paDevicesFunc
	t.Cleanup(func() {
		paLibInitialize, paLibTerminate = origInit, origTerm
		paLibDevicesFunc, paLibDefaultInputDeviceFunc = origDevices, origDefault
		paDevicesFunc = origPaDevices
	})

	paLibInitialize = func() error { return nil }
	paLibTerminate = func() error { return nil }
	paLibDevicesFunc = func() ([]*portaudio.DeviceInfo, error) { return devices, nil }
	paLibDefaultInputDeviceFunc = func() (*portaudio.DeviceInfo, error) {
		for _, d := range devices {
			if d.MaxInputChannels > 0 {
				return d, nil
			}
		}
		return nil, fmt.Errorf("no default input device")
	}
	paDevicesFunc = paDevices
}

func TestHostDevices(t *testing.T) {
	withMockPortAudio(t, mockDevices)

	devices, err := HostDevices()
	if err != nil {
		t.Fatalf("HostDevices error: %v", err)
	}
	if len(devices) != len(mockDevices) {
		t.Fatalf("got %d devices, want %d", len(devices), len(mockDevices))
	}
	for i, d := range devices {
		if d.ID != i {
			t.Errorf("Device ID mismatch: got %d, want %d", d.ID, i)
		}
		if d.Name != mockDevices[i].Name {
			t.Errorf("Device %d name = %q, want %q", i, d.Name, mockDevices[i].Name)
		}
	}
	if !devices[0].IsDefaultInput || devices[2].IsDefaultInput {
		t.Error("expected only the first device to be marked as default input")
	}
}

func TestHostDevices_paDevicesError(t *testing.T) {
	withMockPortAudio(t, mockDevices)
	paDevicesFunc = func() ([]*portaudio.DeviceInfo, error) {
		return nil, fmt.Errorf("mock error")
	}

	_, err := HostDevices()
	if err == nil || !strings.Contains(err.Error(), "mock error") {
		t.Errorf("expected mock error, got %v", err)
	}
}

func TestDeviceType(t *testing.T) {
	tests := []struct {
		device   Device
		expected string
	}{
		{Device{MaxInputChannels: 1}, "Input"},
		{Device{MaxOutputChannels: 2}, "Output"},
		{Device{MaxInputChannels: 2, MaxOutputChannels: 2}, "Input/Output"},
		{Device{}, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.device.Type(); got != tt.expected {
			t.Errorf("Type() = %q, want %q", got, tt.expected)
		}
	}
}

func TestInputDevice(t *testing.T) {
	withMockPortAudio(t, mockDevices)

	t.Run("Default input device", func(t *testing.T) {
		dev, err := InputDevice(-1)
		if err != nil {
			t.Fatalf("InputDevice(-1) error: %v", err)
		}
		if dev.Name != "Built-in Microphone" {
			t.Errorf("default device = %q", dev.Name)
		}
	})

	t.Run("Valid input device", func(t *testing.T) {
		dev, err := InputDevice(2)
		if err != nil {
			t.Fatalf("InputDevice(2) error: %v", err)
		}
		if dev.Name != "USB Interface" {
			t.Errorf("device = %q", dev.Name)
		}
	})

	tests := []struct {
		name   string
		id     int
		substr string
	}{
		{"Negative ID", -2, "invalid device ID"},
		{"Too high ID", len(mockDevices) + 10, "invalid device ID"},
		{"Non-input device", 1, "does not support input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InputDevice(tt.id)
			if err == nil {
				t.Errorf("Expected error for ID %d", tt.id)
			} else if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("Error = %q, want substring %q", err.Error(), tt.substr)
			}
		})
	}
}

func TestInputDevice_paDefaultInputDeviceError(t *testing.T) {
	withMockPortAudio(t, mockDevices)
	paLibDefaultInputDeviceFunc = func() (*portaudio.DeviceInfo, error) {
		return nil, fmt.Errorf("mock default input error")
	}

	_, err := InputDevice(-1)
	if err == nil || !strings.Contains(err.Error(), "mock default input error") {
		t.Errorf("expected mock error, got %v", err)
	}
}

func TestListDevices(t *testing.T) {
	withMockPortAudio(t, mockDevices)

	var buf bytes.Buffer
	if err := ListDevices(&buf); err != nil {
		t.Fatalf("ListDevices error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"[0] Built-in Microphone (Input)",
		"[1] Built-in Output (Output)",
		"[2] USB Interface (Input/Output)",
		"Default sample rate: 96000 Hz",
		"Latency: Low=3.00ms, High=12.00ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInputDevices(t *testing.T) {
	withMockPortAudio(t, mockDevices)

	inputs, err := InputDevices()
	if err != nil {
		t.Fatalf("InputDevices error: %v", err)
	}
	if len(inputs) != 2 || inputs[0].ID != 0 || inputs[1].ID != 2 {
		t.Errorf("InputDevices() = %+v, want devices 0 and 2", inputs)
	}
}

func TestErrorInitialize(t *testing.T) {
	orig := paLibInitialize
	defer func() { paLibInitialize = orig }()

	paLibInitialize = func() error { return nil }
	if err := Initialize(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	paLibInitialize = func() error { return fmt.Errorf("mock init error") }
	if err := Initialize(); err == nil || !strings.Contains(err.Error(), "mock init error") {
		t.Errorf("expected mock init error, got %v", err)
	}
}

func TestErrorTerminate(t *testing.T) {
	orig := paLibTerminate
	defer func() { paLibTerminate = orig }()

	paLibTerminate = func() error { return nil }
	if err := Terminate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	paLibTerminate = func() error { return fmt.Errorf("mock term error") }
	if err := Terminate(); err == nil || !strings.Contains(err.Error(), "mock term error") {
		t.Errorf("expected mock term error, got %v", err)
	}
}

func TestNilDevices(t *testing.T) {
	withMockPortAudio(t, nil)

	devices, err := paDevices()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if devices == nil {
		t.Errorf("expected empty slice, got nil")
	}
	if len(devices) != 0 {
		t.Errorf("expected length 0, got %d", len(devices))
	}
}

func TestPortAudioNotInitialized(t *testing.T) {
	orig := paLibDevicesFunc
	defer func() { paLibDevicesFunc = orig }()
	paLibDevicesFunc = func() ([]*portaudio.DeviceInfo, error) {
		return nil, fmt.Errorf("PortAudio not initialized")
	}

	devices, err := paDevices()
	if err == nil || !strings.Contains(err.Error(), "PortAudio not initialized") {
		t.Errorf("expected 'PortAudio not initialized' error, got %v", err)
	}
	if devices != nil {
		t.Errorf("expected devices to be nil on error, got %v", devices)
	}
}
