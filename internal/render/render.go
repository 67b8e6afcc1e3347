// SPDX-License-Identifier: MIT

// Package render draws the scene's object states. The terminal renderer
// rasterizes the wireframes onto a braille canvas with tcell; the headless
// renderer only records frames.
package render

import (
	"errors"

	"visualizer/internal/analysis"
	"visualizer/internal/scene"
)

// ErrQuit is returned by Draw when the user asked to leave.
var ErrQuit = errors.New("render: quit requested")

// Frame is everything a renderer needs to produce one image.
type Frame struct {
	Seq     uint64
	Bands   analysis.BandEnergies
	Objects []scene.ObjectState
	Camera  scene.Camera
	Light   scene.Light
}

// Clone returns a copy whose Objects slice is not shared with the frame
// loop.
func (f Frame) Clone() Frame {
	c := f
	c.Objects = append([]scene.ObjectState(nil), f.Objects...)
	return c
}

// Renderer draws frames. Draw is called from the frame loop only.
type Renderer interface {
	Draw(frame Frame) error
	Close() error
}

// Headless keeps the most recent frame and draws nothing.
type Headless struct {
	last  Frame
	count uint64
}

// NewHeadless returns a renderer for runs without a display.
func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) Draw(frame Frame) error {
	h.last = frame.Clone()
	h.count++
	return nil
}

func (h *Headless) Close() error { return nil }

// Last returns the most recently drawn frame.
func (h *Headless) Last() Frame { return h.last }

// Count returns the number of frames drawn.
func (h *Headless) Count() uint64 { return h.count }

var (
	_ Renderer = (*Headless)(nil)
	_ Renderer = (*Terminal)(nil)
)
