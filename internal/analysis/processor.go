// SPDX-License-Identifier: MIT
package analysis

// AudioProcessor consumes mono sample blocks. Implementations are called
// from the real-time audio callback and must not block.
type AudioProcessor interface {
	Write(samples []float32)
}

// SpectrumProvider fills a frequency frame with the latest byte magnitudes.
// The frame loop calls it once per frame; each call refreshes the spectrum.
type SpectrumProvider interface {
	ByteFrequencyData(dst []byte)
	BinCount() int
}
