// SPDX-License-Identifier: MIT
package audio

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"visualizer/internal/config"
	"visualizer/internal/fft"
	"visualizer/internal/log"

	"github.com/gordonklaus/portaudio"
)

// MicSource captures a mono PortAudio input stream.
type MicSource struct {
	feed
	config config.AudioConfig
	log    *log.Logger

	mu          sync.Mutex
	initialized bool
	active      paStream
	block       []float32

	// replaced in tests
	openStream func(portaudio.StreamParameters, func([]float32)) (paStream, error)
}

// paStream is the subset of *portaudio.Stream the source drives.
type paStream interface {
	Start() error
	Stop() error
	Close() error
}

// NewMicSource returns a microphone source writing into analyser. Nothing
// is opened until Start.
func NewMicSource(cfg config.AudioConfig, analyser *fft.Analyser) *MicSource {
	return &MicSource{
		feed:   newFeed(analyser, cfg.GateThreshold),
		config: cfg,
		log:    log.Named("audio"),
		block:  make([]float32, max(cfg.FramesPerBuffer, 1)),
		openStream: func(p portaudio.StreamParameters, cb func([]float32)) (paStream, error) {
			stream, err := portaudio.OpenStream(p, cb)
			if err != nil {
				return nil, err
			}
			return stream, nil
		},
	}
}

// Start requests the microphone. Failure is logged and the source stays
// silent.
func (m *MicSource) Start(ctx context.Context) error {
	if err := m.RequestMicrophone(ctx); err != nil {
		m.log.Errorf("error accessing microphone: %v", err)
	}
	return nil
}

// Active reports whether a capture stream is running.
func (m *MicSource) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil
}

// RequestMicrophone opens and starts the configured input device.
func (m *MicSource) RequestMicrophone(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return errors.New("microphone already started")
	}

	if err := Initialize(); err != nil {
		return err
	}
	m.initialized = true

	device, err := InputDevice(m.config.InputDevice)
	if err != nil {
		return err
	}

	latency := device.DefaultHighInputLatency
	if m.config.LowLatency {
		latency = device.DefaultLowInputLatency
	}

	sampleRate := m.config.SampleRate
	if sampleRate <= 0 {
		sampleRate = device.DefaultSampleRate
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: 1,
			Device:   device,
			Latency:  latency,
		},
		FramesPerBuffer: m.config.FramesPerBuffer,
		SampleRate:      sampleRate,
	}

	stream, err := m.openStream(params, m.process)
	if err != nil {
		return fmt.Errorf("failed to open input stream on %q: %w", device.Name, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start input stream on %q: %w", device.Name, err)
	}
	m.active = stream

	m.log.Infof("capturing %q at %.0f Hz, %d frames per buffer, latency %s",
		device.Name, sampleRate, m.config.FramesPerBuffer, latency.Round(time.Microsecond))
	return nil
}

// process is the PortAudio callback. It runs on the host audio thread.
func (m *MicSource) process(in []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if cap(m.block) < len(in) {
		m.block = make([]float32, len(in))
	}
	block := m.block[:len(in)]
	copy(block, in)
	m.push(block)
}

// Close stops the stream and releases PortAudio.
func (m *MicSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	if m.active != nil {
		if err := m.active.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop input stream: %w", err))
		}
		if err := m.active.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close input stream: %w", err))
		}
		m.active = nil
	}
	if m.initialized {
		if err := Terminate(); err != nil {
			errs = append(errs, err)
		}
		m.initialized = false
	}
	return errors.Join(errs...)
}
