// SPDX-License-Identifier: MIT

// Package audio turns a host audio input into frequency frames. A Source
// pushes time-domain samples into an fft.Analyser from its own goroutine
// (the PortAudio callback or a file pump) and hands the frame loop the
// analyser's byte spectrum on demand.
package audio

import (
	"context"

	"visualizer/internal/analysis"
	"visualizer/internal/config"
	"visualizer/internal/fft"
)

// Source produces frequency frames for the frame loop.
type Source interface {
	// Start acquires the input once. A denied or broken input is logged and
	// the source keeps producing silent frames; no retry is attempted.
	Start(ctx context.Context) error
	// FrequencyFrame refreshes and returns the source's frame buffer. The
	// same slice is returned on every call.
	FrequencyFrame() []byte
	Close() error
}

// feed is the part shared by every source: gate, analyser and the frame
// buffer the analyser fills.
type feed struct {
	analyser *fft.Analyser
	sink     analysis.AudioProcessor
	spectrum analysis.SpectrumProvider
	gate     *Gate
	frame    []byte
}

func newFeed(analyser *fft.Analyser, gateThreshold float64) feed {
	return feed{
		analyser: analyser,
		sink:     analyser,
		spectrum: analyser,
		gate:     NewGate(gateThreshold),
		frame:    make([]byte, analyser.BinCount()),
	}
}

// push gates block in place and hands it to the analyser.
func (f *feed) push(block []float32) {
	f.gate.Apply(block)
	f.sink.Write(block)
}

func (f *feed) FrequencyFrame() []byte {
	f.spectrum.ByteFrequencyData(f.frame)
	return f.frame
}

// NewSource picks the file source when an input file is configured and the
// microphone otherwise.
func NewSource(cfg config.AudioConfig) (Source, error) {
	window, err := fft.ParseWindowFunc(cfg.FFTWindow)
	if err != nil {
		return nil, err
	}
	analyser, err := fft.NewAnalyser(fft.DefaultFFTSize, window)
	if err != nil {
		return nil, err
	}

	if cfg.InputFile != "" {
		return NewFileSource(cfg, analyser), nil
	}
	return NewMicSource(cfg, analyser), nil
}
