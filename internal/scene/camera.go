// SPDX-License-Identifier: MIT
package scene

import (
	"visualizer/internal/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a fixed perspective camera.
type Camera struct {
	FOV      float64 // vertical field of view in degrees
	Near     float64
	Far      float64
	Position r3.Vec
	Target   r3.Vec
}

// DefaultCamera sits slightly above the axis, 12 units back, facing the
// origin.
func DefaultCamera() Camera {
	return Camera{
		FOV:      75,
		Near:     0.1,
		Far:      1000,
		Position: r3.Vec{X: 0, Y: 0.3, Z: 12},
		Target:   r3.Vec{},
	}
}

// Light is a directional light. The wireframe materials are unlit, so it
// is carried for completeness of the scene description only.
type Light struct {
	Color     color.RGB
	Intensity float64
	Direction r3.Vec
}

// DefaultLight is a white light from (1,1,1).
func DefaultLight() Light {
	return Light{
		Color:     color.Gray(1),
		Intensity: 1,
		Direction: r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1}),
	}
}
