// SPDX-License-Identifier: MIT

// Package scene holds the animated objects and the per-frame mapping from
// band energies to their transform and color.
package scene

import (
	"fmt"
	"math"

	"visualizer/internal/analysis"
	"visualizer/internal/color"
	"visualizer/internal/geometry"
)

// Animation constants. The frame step is nominal: the scene advances the
// same amount every frame regardless of how long the frame actually took.
const (
	FrameStep       = 1.0 / 60.0
	SpeedGain       = 30.0
	ScaleGain       = 0.12
	BlinkRate       = 0.2
	HueSpeed        = 0.3
	HueSaturation   = 0.9
	HueValue        = 1.0
	MaterialOpacity = 0.8
)

// Kind selects an object's color rule.
type Kind int

const (
	// Blinking objects pulse in grayscale with their accumulated angle.
	Blinking Kind = iota
	// HueRotating objects cycle hue at a constant rate.
	HueRotating
)

func (k Kind) String() string {
	switch k {
	case Blinking:
		return "blinking"
	case HueRotating:
		return "hue-rotating"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Object is one animated solid. Its shape is fixed at construction; only
// Angle and ColorPhase change afterwards.
type Object struct {
	Kind       Kind
	BaseSize   float64
	BaseSpeed  float64
	Angle      float64 // accumulated, never decreases
	ColorPhase float64 // in [0,1); advanced only for HueRotating
	Mesh       *geometry.Mesh
	Edges      []geometry.Edge
}

// NewCube returns a blinking cube with edge length size.
func NewCube(size, speed float64) *Object {
	mesh := geometry.Box(size)
	return &Object{
		Kind:      Blinking,
		BaseSize:  size,
		BaseSpeed: speed,
		Mesh:      mesh,
		Edges:     mesh.Wireframe(),
	}
}

// NewDodecahedron returns a hue-rotating dodecahedron of the given radius.
func NewDodecahedron(radius, speed float64) *Object {
	mesh := geometry.Dodecahedron(radius)
	return &Object{
		Kind:      HueRotating,
		BaseSize:  radius,
		BaseSpeed: speed,
		Mesh:      mesh,
		Edges:     mesh.Wireframe(),
	}
}

// ObjectState is the renderable snapshot of an object after an update.
type ObjectState struct {
	Index     int       `json:"index"`
	Kind      Kind      `json:"kind"`
	Amplitude float64   `json:"amplitude"`
	Scale     float64   `json:"scale"`
	RotationX float64   `json:"rotationX"`
	RotationY float64   `json:"rotationY"`
	Color     color.RGB `json:"-"`
	Object    *Object   `json:"-"`
}

// Advance moves the object one frame forward under amplitude amp and
// returns its new state.
func (o *Object) Advance(index int, amp float64) ObjectState {
	o.Angle += (o.BaseSpeed + SpeedGain*amp) * FrameStep

	var c color.RGB
	switch o.Kind {
	case HueRotating:
		o.ColorPhase = math.Mod(o.ColorPhase+FrameStep*HueSpeed, 1.0)
		c = color.HSVToRGB(o.ColorPhase, HueSaturation, HueValue)
	default:
		blink := (math.Sin(o.Angle*BlinkRate) + 1) / 2
		c = color.Gray(blink)
	}

	return ObjectState{
		Index:     index,
		Kind:      o.Kind,
		Amplitude: amp,
		Scale:     o.BaseSize * (1.0 + ScaleGain*amp),
		RotationX: o.Angle,
		RotationY: o.Angle,
		Color:     c,
		Object:    o,
	}
}

// ObjectCount is the fixed number of objects in a Set.
const ObjectCount = 3

// Set is the ordered object collection. Position is significant: index 0
// follows the low band, 1 the mid band, 2 the mean of all three.
type Set struct {
	Objects [ObjectCount]*Object
	states  [ObjectCount]ObjectState
}

// NewSet builds the default scene: a large and a small cube and a
// dodecahedron, all at base speed 2.
func NewSet() *Set {
	return &Set{
		Objects: [ObjectCount]*Object{
			NewCube(5.0, 2.0),
			NewCube(3.5, 2.0),
			NewDodecahedron(2.0, 2.0),
		},
	}
}

// Amplitude returns the driving amplitude for the object at index.
func Amplitude(index int, bands analysis.BandEnergies) float64 {
	switch index {
	case 0:
		return bands.Low
	case 1:
		return bands.Mid
	default:
		return bands.Composite()
	}
}

// Update advances every object by one frame. The returned slice is reused
// by the next call.
func (s *Set) Update(bands analysis.BandEnergies) []ObjectState {
	for i, o := range s.Objects {
		s.states[i] = o.Advance(i, Amplitude(i, bands))
	}
	return s.states[:]
}
