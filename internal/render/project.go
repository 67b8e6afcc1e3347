// SPDX-License-Identifier: MIT
package render

import (
	"math"

	"visualizer/internal/scene"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	axisX   = r3.Vec{X: 1}
	axisY   = r3.Vec{Y: 1}
	worldUp = r3.Vec{Y: 1}
)

// Projector maps world space onto a pixel grid through a perspective camera.
type Projector struct {
	cam     scene.Camera
	right   r3.Vec
	up      r3.Vec
	forward r3.Vec
	focal   float64
	width   float64
	height  float64
}

// NewProjector builds a projector for a width x height pixel grid with
// square pixels. The aspect ratio follows the grid.
func NewProjector(cam scene.Camera, width, height int) Projector {
	forward := r3.Unit(r3.Sub(cam.Target, cam.Position))
	right := r3.Unit(r3.Cross(forward, worldUp))
	up := r3.Cross(right, forward)

	return Projector{
		cam:     cam,
		right:   right,
		up:      up,
		forward: forward,
		focal:   1 / math.Tan(cam.FOV*math.Pi/360),
		width:   float64(width),
		height:  float64(height),
	}
}

// Aspect returns width / height.
func (p *Projector) Aspect() float64 {
	if p.height == 0 {
		return 1
	}
	return p.width / p.height
}

// toCamera returns the point in camera space with depth along +Z.
func (p *Projector) toCamera(world r3.Vec) r3.Vec {
	d := r3.Sub(world, p.cam.Position)
	return r3.Vec{X: r3.Dot(d, p.right), Y: r3.Dot(d, p.up), Z: r3.Dot(d, p.forward)}
}

// toScreen projects a camera-space point with Z >= Near to pixel
// coordinates. Y grows downwards.
func (p *Projector) toScreen(c r3.Vec) (x, y float64) {
	ndcX := c.X * p.focal / (p.Aspect() * c.Z)
	ndcY := c.Y * p.focal / c.Z
	return (ndcX + 1) / 2 * p.width, (1 - ndcY) / 2 * p.height
}

// Segment projects the world-space segment a-b. Parts in front of the near
// plane or beyond the far plane are clipped away; ok is false when nothing
// remains.
func (p *Projector) Segment(a, b r3.Vec) (x0, y0, x1, y1 float64, ok bool) {
	ca, cb := p.toCamera(a), p.toCamera(b)

	var clipped bool
	if ca, cb, clipped = clipDepth(ca, cb, p.cam.Near, p.cam.Far); !clipped {
		return 0, 0, 0, 0, false
	}

	x0, y0 = p.toScreen(ca)
	x1, y1 = p.toScreen(cb)
	return x0, y0, x1, y1, true
}

// clipDepth keeps the part of a-b with near <= Z <= far.
func clipDepth(a, b r3.Vec, near, far float64) (r3.Vec, r3.Vec, bool) {
	for _, plane := range [2]struct {
		z     float64
		keepG bool // keep points with Z greater than the plane
	}{{near, true}, {far, false}} {
		inA := (a.Z >= plane.z) == plane.keepG
		inB := (b.Z >= plane.z) == plane.keepG
		switch {
		case inA && inB:
		case !inA && !inB:
			return a, b, false
		default:
			t := (plane.z - a.Z) / (b.Z - a.Z)
			hit := r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
			hit.Z = plane.z
			if inA {
				b = hit
			} else {
				a = hit
			}
		}
	}
	return a, b, true
}

// Transform returns the world position of model vertex v under a uniform
// scale and an X-then-Y Euler rotation, matching a mesh whose rotation.x
// and rotation.y are set and rotation.z is zero.
func Transform(v r3.Vec, scale, rotX, rotY float64) r3.Vec {
	v = r3.Scale(scale, v)
	v = r3.NewRotation(rotY, axisY).Rotate(v)
	return r3.NewRotation(rotX, axisX).Rotate(v)
}

// clipRect clips the segment to [0,w) x [0,h) (Liang-Barsky).
func clipRect(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, x0},
		{dx, w - 1 - x0},
		{-dy, y0},
		{dy, h - 1 - y0},
	}
	for _, e := range edges {
		pe, qe := e[0], e[1]
		if pe == 0 {
			if qe < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := qe / pe
		if pe < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
