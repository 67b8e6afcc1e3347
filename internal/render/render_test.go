// SPDX-License-Identifier: MIT
package render

import (
	"errors"
	"math"
	"testing"
	"time"

	"visualizer/internal/analysis"
	"visualizer/internal/color"
	"visualizer/internal/scene"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func sceneFrame(amp byte) Frame {
	set := scene.NewSet()
	frame := make([]byte, 128)
	for i := range frame {
		frame[i] = amp
	}
	bands := analysis.Extract(frame)
	return Frame{
		Seq:     1,
		Bands:   bands,
		Objects: set.Update(bands),
		Camera:  scene.DefaultCamera(),
		Light:   scene.DefaultLight(),
	}
}

func TestCanvasSetBits(t *testing.T) {
	c := NewCanvas(2, 1)
	white := color.Gray(1)

	c.Set(0, 0, white)
	if r, _, ok := c.Cell(0, 0); !ok || r != 0x2801 {
		t.Errorf("Cell(0,0) = %U, %v; expected U+2801", r, ok)
	}

	c.Set(3, 3, white)
	if r, _, ok := c.Cell(1, 0); !ok || r != 0x2880 {
		t.Errorf("Cell(1,0) = %U, %v; expected U+2880", r, ok)
	}

	// Out of range dots are ignored.
	c.Set(-1, 0, white)
	c.Set(4, 0, white)
	c.Set(0, 4, white)

	c.Clear()
	if _, _, ok := c.Cell(0, 0); ok {
		t.Error("expected empty cell after Clear")
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Line(0, 0, 3, 0, background)

	for col := range 2 {
		r, _, ok := c.Cell(col, 0)
		if !ok || r != 0x2809 {
			t.Errorf("Cell(%d,0) = %U; expected U+2809", col, r)
		}
	}
}

func TestCanvasLineClipsFarEndpoints(t *testing.T) {
	c := NewCanvas(5, 3)
	c.Line(-1e9, 5, 1e9, 5, background)

	cols, _ := c.Size()
	for col := range cols {
		if _, _, ok := c.Cell(col, 1); !ok {
			t.Errorf("expected cell %d on row 1 to be lit", col)
		}
	}
	for _, row := range []int{0, 2} {
		for col := range cols {
			if _, _, ok := c.Cell(col, row); ok {
				t.Errorf("expected cell (%d,%d) to stay empty", col, row)
			}
		}
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Set(0, 0, background)
	c.Resize(4, 2)

	if cols, rows := c.Size(); cols != 4 || rows != 2 {
		t.Fatalf("Size() = %dx%d, expected 4x2", cols, rows)
	}
	if w, h := c.DotSize(); w != 8 || h != 8 {
		t.Errorf("DotSize() = %dx%d, expected 8x8", w, h)
	}
	if _, _, ok := c.Cell(0, 0); ok {
		t.Error("expected Resize to clear the canvas")
	}
}

func TestProjectorCentersTarget(t *testing.T) {
	p := NewProjector(scene.DefaultCamera(), 200, 100)

	x0, y0, x1, y1, ok := p.Segment(r3.Vec{}, r3.Vec{})
	if !ok {
		t.Fatal("expected origin to be visible")
	}
	if !near(x0, 100) || !near(y0, 50) || !near(x1, 100) || !near(y1, 50) {
		t.Errorf("origin projected to (%.3f,%.3f), expected (100,50)", x0, y0)
	}
	if p.Aspect() != 2 {
		t.Errorf("Aspect() = %v, expected 2", p.Aspect())
	}
}

func TestProjectorUpIsUp(t *testing.T) {
	p := NewProjector(scene.DefaultCamera(), 100, 100)
	_, y, _, _, ok := p.Segment(r3.Vec{Y: 2}, r3.Vec{})
	if !ok {
		t.Fatal("expected point to be visible")
	}
	if y >= 50 {
		t.Errorf("point above the target projected to y=%.2f, expected < 50", y)
	}
}

func TestProjectorClipsNearPlane(t *testing.T) {
	cam := scene.DefaultCamera()
	p := NewProjector(cam, 100, 100)

	t.Run("behind camera", func(t *testing.T) {
		if _, _, _, _, ok := p.Segment(r3.Vec{Z: 20}, r3.Vec{X: 1, Z: 30}); ok {
			t.Error("expected segment behind the camera to be rejected")
		}
	})

	t.Run("crossing", func(t *testing.T) {
		x0, y0, x1, y1, ok := p.Segment(r3.Vec{Z: 20}, r3.Vec{})
		if !ok {
			t.Fatal("expected the visible part to survive")
		}
		for _, v := range []float64{x0, y0, x1, y1} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("clipped segment has non-finite coordinate %v", v)
			}
		}
	})

	t.Run("beyond far plane", func(t *testing.T) {
		if _, _, _, _, ok := p.Segment(r3.Vec{Z: -2000}, r3.Vec{Z: -3000}); ok {
			t.Error("expected segment beyond the far plane to be rejected")
		}
	})
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name       string
		v          r3.Vec
		scale      float64
		rotX, rotY float64
		expected   r3.Vec
	}{
		{"identity", r3.Vec{X: 1, Y: 2, Z: 3}, 1, 0, 0, r3.Vec{X: 1, Y: 2, Z: 3}},
		{"scale", r3.Vec{X: 1, Y: 2, Z: 3}, 2, 0, 0, r3.Vec{X: 2, Y: 4, Z: 6}},
		{"quarter turn about Y", r3.Vec{X: 1}, 2, 0, math.Pi / 2, r3.Vec{Z: -2}},
		{"quarter turn about X", r3.Vec{Y: 1}, 1, math.Pi / 2, 0, r3.Vec{Z: 1}},
		{"Y applied before X", r3.Vec{X: 1}, 1, math.Pi / 2, math.Pi / 2, r3.Vec{Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.v, tt.scale, tt.rotX, tt.rotY)
			if r3.Norm(r3.Sub(got, tt.expected)) > 1e-12 {
				t.Errorf("Transform(%v) = %v, expected %v", tt.v, got, tt.expected)
			}
		})
	}
}

func TestRasterizeDrawsScene(t *testing.T) {
	c := NewCanvas(80, 24)
	Rasterize(c, sceneFrame(0), nil)

	lit := 0
	cols, rows := c.Size()
	for row := range rows {
		for col := range cols {
			if _, _, ok := c.Cell(col, row); ok {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("expected the scene to light some cells")
	}
}

func TestRasterizeEmptyCanvas(t *testing.T) {
	c := NewCanvas(0, 0)
	scratch := Rasterize(c, sceneFrame(0), nil)
	if len(scratch) != 0 {
		t.Errorf("expected no work on an empty canvas, got %d vertices", len(scratch))
	}
}

func TestRasterizeAllocations(t *testing.T) {
	c := NewCanvas(80, 24)
	frame := sceneFrame(128)
	scratch := Rasterize(c, frame, nil)

	allocs := testing.AllocsPerRun(100, func() {
		scratch = Rasterize(c, frame, scratch)
	})
	if allocs != 0 {
		t.Errorf("expected zero allocations per Rasterize, got %.1f", allocs)
	}
}

func TestHeadless(t *testing.T) {
	h := NewHeadless()
	frame := sceneFrame(255)

	if err := h.Draw(frame); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if h.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", h.Count())
	}

	frame.Objects[0].Scale = -1
	if h.Last().Objects[0].Scale == -1 {
		t.Error("expected Headless to keep its own copy of the objects")
	}
	if err := h.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term, err := NewTerminalWithScreen(screen)
	if err != nil {
		t.Fatalf("NewTerminalWithScreen() error: %v", err)
	}
	t.Cleanup(func() { term.Close() })
	screen.SetSize(80, 24)
	return term, screen
}

func TestTerminalDraw(t *testing.T) {
	term, screen := newSimTerminal(t)

	if err := term.Draw(sceneFrame(64)); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}

	if cols, rows := term.canvas.Size(); cols != 80 || rows != 24-statusRows {
		t.Errorf("canvas = %dx%d, expected 80x%d", cols, rows, 24-statusRows)
	}

	braille := 0
	for y := statusRows; y < 24; y++ {
		for x := range 80 {
			r, _, _, _ := screen.GetContent(x, y)
			if r >= brailleBase && r <= brailleBase+0xff {
				braille++
			}
		}
	}
	if braille == 0 {
		t.Error("expected braille cells on screen")
	}

	if r, _, _, _ := screen.GetContent(1, 0); r != 'l' {
		t.Errorf("status line starts with %q, expected 'l'", r)
	}
}

func TestTerminalResize(t *testing.T) {
	term, screen := newSimTerminal(t)
	screen.SetSize(40, 10)

	if err := term.Draw(sceneFrame(0)); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if cols, rows := term.canvas.Size(); cols != 40 || rows != 10-statusRows {
		t.Errorf("canvas = %dx%d after resize, expected 40x%d", cols, rows, 10-statusRows)
	}
}

func TestTerminalQuitKeys(t *testing.T) {
	keys := []struct {
		name string
		key  tcell.Key
		r    rune
	}{
		{"q", tcell.KeyRune, 'q'},
		{"escape", tcell.KeyEscape, 0},
		{"ctrl-c", tcell.KeyCtrlC, 0},
	}

	for _, k := range keys {
		t.Run(k.name, func(t *testing.T) {
			term, screen := newSimTerminal(t)
			screen.PostEvent(tcell.NewEventKey(k.key, k.r, tcell.ModNone))

			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				err := term.Draw(sceneFrame(0))
				if errors.Is(err, ErrQuit) {
					return
				}
				if err != nil {
					t.Fatalf("Draw() error: %v", err)
				}
				time.Sleep(5 * time.Millisecond)
			}
			t.Fatal("expected Draw to report ErrQuit")
		})
	}
}

func TestTerminalCloseTwice(t *testing.T) {
	term, _ := newSimTerminal(t)
	if err := term.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := term.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
}

func BenchmarkRasterize(b *testing.B) {
	c := NewCanvas(160, 48)
	frame := sceneFrame(128)
	var scratch []r3.Vec

	b.ReportAllocs()
	for b.Loop() {
		scratch = Rasterize(c, frame, scratch)
	}
}
