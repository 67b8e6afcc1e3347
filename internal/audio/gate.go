// SPDX-License-Identifier: MIT
package audio

import (
	"math"
	"sync/atomic"
)

// Gate silences blocks whose peak amplitude stays below a threshold.
// The threshold lives in [0,1]; 0 leaves the gate open.
type Gate struct {
	threshold atomic.Uint64 // float64 bits
}

// NewGate returns a gate with the given threshold, clamped to [0,1].
func NewGate(threshold float64) *Gate {
	g := &Gate{}
	g.SetThreshold(threshold)
	return g
}

// SetThreshold adjusts the noise gate threshold.
// The value is in the range of 0.0-1.0 where 0=always open, 1=always closed.
func (g *Gate) SetThreshold(threshold float64) {
	if threshold < 0.0 || math.IsNaN(threshold) {
		threshold = 0.0
	}
	if threshold > 1.0 {
		threshold = 1.0
	}
	g.threshold.Store(math.Float64bits(threshold))
}

// Threshold returns the current noise gate threshold.
func (g *Gate) Threshold() float64 {
	return math.Float64frombits(g.threshold.Load())
}

// Enabled reports whether the gate can close at all.
func (g *Gate) Enabled() bool {
	return g.Threshold() > 0
}

// Apply zeroes block in place when its peak is below the threshold and
// reports whether the block passed.
func (g *Gate) Apply(block []float32) bool {
	threshold := g.Threshold()
	if threshold == 0 {
		return true
	}
	if float64(Peak(block)) >= threshold {
		return true
	}
	clear(block)
	return false
}

// Peak returns the largest absolute sample in block.
func Peak(block []float32) float32 {
	var peak float32
	for _, s := range block {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}
