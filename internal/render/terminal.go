// SPDX-License-Identifier: MIT
package render

import (
	"fmt"
	"sync"

	"visualizer/internal/color"
	"visualizer/internal/log"
	"visualizer/internal/scene"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

// statusRows is the number of rows reserved above the canvas.
const statusRows = 1

var background = color.RGB{}

// Terminal draws wireframes into a tcell screen with braille dots.
type Terminal struct {
	screen  tcell.Screen
	canvas  *Canvas
	scratch []r3.Vec
	events  chan tcell.Event
	width   int
	height  int
	once    sync.Once
	log     *log.Logger
}

// NewTerminal opens the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal screen: %w", err)
	}
	return NewTerminalWithScreen(screen)
}

// NewTerminalWithScreen initializes screen and starts reading its events.
func NewTerminalWithScreen(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	screen.HideCursor()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))

	t := &Terminal{
		screen: screen,
		canvas: NewCanvas(0, 0),
		events: make(chan tcell.Event, 64),
		log:    log.Named("render"),
	}
	t.fit()

	go t.pollEvents()
	return t, nil
}

func (t *Terminal) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		default:
		}
	}
}

// fit matches the canvas to the current screen size.
func (t *Terminal) fit() {
	w, h := t.screen.Size()
	if w == t.width && h == t.height {
		return
	}
	t.width, t.height = w, h
	t.canvas.Resize(w, h-statusRows)
	t.log.Debugf("canvas resized to %dx%d cells", w, h-statusRows)
}

// handleEvents drains pending input without blocking.
func (t *Terminal) handleEvents() error {
	for {
		select {
		case ev := <-t.events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					return ErrQuit
				case tcell.KeyRune:
					if ev.Rune() == 'q' || ev.Rune() == 'Q' {
						return ErrQuit
					}
				}
			}
		default:
			return nil
		}
	}
}

func (t *Terminal) Draw(frame Frame) error {
	if err := t.handleEvents(); err != nil {
		return err
	}
	t.fit()
	t.scratch = Rasterize(t.canvas, frame, t.scratch)

	t.screen.Clear()
	cols, rows := t.canvas.Size()
	for row := range rows {
		for col := range cols {
			r, rgb, ok := t.canvas.Cell(col, row)
			if !ok {
				continue
			}
			t.screen.SetContent(col, row+statusRows, r, nil, cellStyle(rgb))
		}
	}
	t.drawStatus(frame)
	t.screen.Show()
	return nil
}

func (t *Terminal) drawStatus(frame Frame) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	text := fmt.Sprintf(" %s  frame %d  q quits", frame.Bands, frame.Seq)
	x := 0
	for _, r := range text {
		if x >= t.width {
			return
		}
		t.screen.SetContent(x, 0, r, nil, style)
		x++
	}
}

func (t *Terminal) Close() error {
	t.once.Do(t.screen.Fini)
	return nil
}

func cellStyle(c color.RGB) tcell.Style {
	r, g, b := c.RGB255()
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b))).
		Background(tcell.ColorBlack)
}

// Rasterize draws every object of frame onto c, replacing its contents.
// scratch is reused for transformed vertices and returned for the next
// call.
func Rasterize(c *Canvas, frame Frame, scratch []r3.Vec) []r3.Vec {
	c.Clear()
	w, h := c.DotSize()
	if w == 0 || h == 0 {
		return scratch
	}

	cam := frame.Camera
	if cam.FOV == 0 {
		cam = scene.DefaultCamera()
	}
	proj := NewProjector(cam, w, h)

	for _, st := range frame.Objects {
		obj := st.Object
		if obj == nil || obj.Mesh == nil {
			continue
		}

		scratch = scratch[:0]
		for _, v := range obj.Mesh.Vertices {
			scratch = append(scratch, Transform(v, st.Scale, st.RotationX, st.RotationY))
		}

		stroke := color.Blend(st.Color, background, scene.MaterialOpacity)
		for _, e := range obj.Edges {
			if x0, y0, x1, y1, ok := proj.Segment(scratch[e[0]], scratch[e[1]]); ok {
				c.Line(x0, y0, x1, y1, stroke)
			}
		}
	}
	return scratch
}
