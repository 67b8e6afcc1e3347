// SPDX-License-Identifier: MIT

// Package analysis reduces a byte frequency frame to the three band energies
// that drive the scene.
package analysis

import (
	"fmt"
	"math"
)

// MaxMagnitude is the largest byte magnitude a frame can hold.
const MaxMagnitude = 255.0

// Band is an end-exclusive range of bin indices.
type Band struct {
	Name  string
	Start int
	End   int
}

// The bands the scene reacts to. High extends past a 128-bin frame; its
// range is clamped to the frame when averaged.
var (
	LowBand  = Band{Name: "low", Start: 1, End: 8}
	MidBand  = Band{Name: "mid", Start: 8, End: 46}
	HighBand = Band{Name: "high", Start: 46, End: 232}
)

// BandEnergies are normalized band averages in [0,1].
type BandEnergies struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// Composite is the mean of the three bands.
func (b BandEnergies) Composite() float64 {
	return (b.Low + b.Mid + b.High) / 3
}

func (b BandEnergies) String() string {
	return fmt.Sprintf("low=%.3f mid=%.3f high=%.3f", b.Low, b.Mid, b.High)
}

// Average returns the arithmetic mean of frame[start:end). The range is
// clamped to the frame and the divisor is the clamped width, so a range
// reaching past the end of the frame averages only the bins that exist.
// An empty range yields 0.
func Average(frame []byte, start, end int) float64 {
	start = max(start, 0)
	end = min(end, len(frame))
	if start >= end {
		return 0
	}

	var sum int
	for _, v := range frame[start:end] {
		sum += int(v)
	}
	return float64(sum) / float64(end-start)
}

// Energy returns the band average normalized to [0,1].
func (b Band) Energy(frame []byte) float64 {
	return math.Min(Average(frame, b.Start, b.End)/MaxMagnitude, 1)
}

// Extract computes the low, mid and high energies of one frame.
func Extract(frame []byte) BandEnergies {
	return BandEnergies{
		Low:  LowBand.Energy(frame),
		Mid:  MidBand.Energy(frame),
		High: HighBand.Energy(frame),
	}
}
