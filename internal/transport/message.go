// SPDX-License-Identifier: MIT
package transport

import (
	"visualizer/internal/analysis"
	"visualizer/internal/render"
)

// MessageTypeFrame tags a per-frame broadcast.
const MessageTypeFrame = "frame"

// FrameMessage is the JSON form of one rendered frame.
type FrameMessage struct {
	Type    string                `json:"type"`
	Seq     uint64                `json:"seq"`
	Bands   analysis.BandEnergies `json:"bands"`
	Objects []ObjectMessage       `json:"objects"`
}

// ObjectMessage carries one object's transform and color. Color is a
// "#rrggbb" string.
type ObjectMessage struct {
	Index     int     `json:"index"`
	Kind      string  `json:"kind"`
	Amplitude float64 `json:"amplitude"`
	Scale     float64 `json:"scale"`
	RotationX float64 `json:"rotationX"`
	RotationY float64 `json:"rotationY"`
	Color     string  `json:"color"`
}

// NewFrameMessage copies frame into its wire form. The result shares no
// memory with the frame loop.
func NewFrameMessage(frame render.Frame) FrameMessage {
	msg := FrameMessage{
		Type:    MessageTypeFrame,
		Seq:     frame.Seq,
		Bands:   frame.Bands,
		Objects: make([]ObjectMessage, len(frame.Objects)),
	}
	for i, st := range frame.Objects {
		msg.Objects[i] = ObjectMessage{
			Index:     st.Index,
			Kind:      st.Kind.String(),
			Amplitude: st.Amplitude,
			Scale:     st.Scale,
			RotationX: st.RotationX,
			RotationY: st.RotationY,
			Color:     st.Color.Clamped().Hex(),
		}
	}
	return msg
}

// payload converts frames to messages and passes anything else through.
func payload(data any) any {
	switch v := data.(type) {
	case render.Frame:
		return NewFrameMessage(v)
	case *render.Frame:
		return NewFrameMessage(*v)
	}
	return data
}
