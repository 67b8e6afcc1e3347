// SPDX-License-Identifier: MIT

// Package fft turns the live sample stream into the byte magnitude spectrum
// the visualizer animates from. It reproduces the browser analyser node
// contract: a fixed power-of-two window, temporal smoothing, and decibels
// mapped linearly onto 0..255.
package fft

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"visualizer/pkg/bitint"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	DefaultFFTSize     = 256
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
)

// workspace holds the buffers reused on every analysis pass.
type workspace struct {
	input    []float64    // windowed samples in chronological order
	coeffs   []complex128 // transform output, fftSize/2+1 values
	smoothed []float64    // smoothed linear magnitudes, fftSize/2 values
	window   []float64
}

// Analyser keeps the last fftSize samples and computes their spectrum on
// demand. Write is called from the audio callback, the Data methods from the
// frame loop; only the sample ring is shared between them.
type Analyser struct {
	fftSize int
	fftObj  *fourier.FFT

	mu   sync.Mutex
	ring []float64
	pos  int

	smoothing   float64
	minDecibels float64
	maxDecibels float64

	ws workspace
}

// NewAnalyser creates an analyser over a window of fftSize samples.
func NewAnalyser(fftSize int, windowType WindowFunc) (*Analyser, error) {
	if !bitint.IsPowerOfTwo(fftSize) || fftSize < 32 {
		return nil, fmt.Errorf("fft size must be a power of 2 >= 32, got %d", fftSize)
	}

	return &Analyser{
		fftSize:     fftSize,
		fftObj:      fourier.NewFFT(fftSize),
		ring:        make([]float64, fftSize),
		smoothing:   DefaultSmoothing,
		minDecibels: DefaultMinDecibels,
		maxDecibels: DefaultMaxDecibels,
		ws: workspace{
			input:    make([]float64, fftSize),
			coeffs:   make([]complex128, fftSize/2+1),
			smoothed: make([]float64, bitint.BinCount(fftSize)),
			window:   windowType.coefficients(fftSize),
		},
	}, nil
}

// FFTSize returns the window length in samples.
func (a *Analyser) FFTSize() int { return a.fftSize }

// BinCount returns the number of magnitude bins, half the window size.
func (a *Analyser) BinCount() int { return len(a.ws.smoothed) }

// setSmoothing sets the time constant in [0,1); 0 disables smoothing.
func (a *Analyser) setSmoothing(tau float64) error {
	if tau < 0 || tau >= 1 {
		return fmt.Errorf("smoothing must be within [0, 1), got %g", tau)
	}
	a.smoothing = tau
	return nil
}

// setDecibelRange sets the range mapped onto 0..255.
func (a *Analyser) setDecibelRange(minDB, maxDB float64) error {
	if minDB >= maxDB {
		return fmt.Errorf("min decibels %g must be below max decibels %g", minDB, maxDB)
	}
	a.minDecibels = minDB
	a.maxDecibels = maxDB
	return nil
}

// Write appends mono samples to the analysis ring, overwriting the oldest.
func (a *Analyser) Write(samples []float32) {
	a.mu.Lock()
	if len(samples) >= a.fftSize {
		samples = samples[len(samples)-a.fftSize:]
	}
	for _, s := range samples {
		a.ring[a.pos] = float64(s)
		a.pos++
		if a.pos == a.fftSize {
			a.pos = 0
		}
	}
	a.mu.Unlock()
}

// Reset clears the sample ring and the smoothing history.
func (a *Analyser) Reset() {
	a.mu.Lock()
	clear(a.ring)
	a.pos = 0
	a.mu.Unlock()
	clear(a.ws.smoothed)
}

// analyse runs one windowed transform and folds it into the smoothed
// magnitudes. Each call advances the smoothing by one step.
func (a *Analyser) analyse() {
	a.mu.Lock()
	n := copy(a.ws.input, a.ring[a.pos:])
	copy(a.ws.input[n:], a.ring[:a.pos])
	a.mu.Unlock()

	for i := range a.ws.input {
		a.ws.input[i] *= a.ws.window[i]
	}

	a.fftObj.Coefficients(a.ws.coeffs, a.ws.input)

	scale := 1.0 / float64(a.fftSize)
	tau := a.smoothing
	for k := range a.ws.smoothed {
		mag := cmplx.Abs(a.ws.coeffs[k]) * scale
		s := tau*a.ws.smoothed[k] + (1-tau)*mag
		if math.IsNaN(s) || math.IsInf(s, 0) {
			s = 0
		}
		a.ws.smoothed[k] = s
	}
}

// ByteFrequencyData refreshes the spectrum and writes it into dst as bytes:
// decibels clamped to the configured range and scaled to 0..255. It fills
// min(len(dst), BinCount()) entries and leaves the rest untouched.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.analyse()

	rangeScale := 255.0 / (a.maxDecibels - a.minDecibels)
	n := min(len(dst), len(a.ws.smoothed))
	for k := range n {
		db := linearToDecibels(a.ws.smoothed[k])
		v := (db - a.minDecibels) * rangeScale
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		dst[k] = byte(v)
	}
}

// floatFrequencyData refreshes the spectrum and writes the smoothed
// magnitudes in decibels. Silent bins are -Inf.
func (a *Analyser) floatFrequencyData(dst []float64) {
	a.analyse()

	n := min(len(dst), len(a.ws.smoothed))
	for k := range n {
		dst[k] = linearToDecibels(a.ws.smoothed[k])
	}
}

// frequencyForBin returns the centre frequency of bin k at sampleRate.
func (a *Analyser) frequencyForBin(k int, sampleRate float64) float64 {
	if k < 0 || k >= len(a.ws.coeffs) {
		return 0
	}
	return a.fftObj.Freq(k) * sampleRate
}

func linearToDecibels(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
