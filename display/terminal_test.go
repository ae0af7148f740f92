package radial_test

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	Rd "github.com/maroda/radial/display"
	Rt "github.com/maroda/radial/types"
)

func TestScreen(t *testing.T) {
	s := mkTestScreen(t, "")
	defer s.Fini()
	s.Clear()

	t.Run("Check test screen", func(t *testing.T) {
		b, x, y := s.GetContents()
		if len(b) != x*y || x != 80 || y != 25 {
			t.Fatalf("Contents (%v, %v, %v) wrong", len(b), x, y)
		}
	})
}

func TestFaceBounds(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want Rt.Rect
	}{
		{"Square", 100, 100, Rt.Rect{Right: 100, Bottom: 100}},
		{"Wide", 80, 50, Rt.Rect{Left: 15, Right: 65, Bottom: 50}},
		{"Tall", 40, 60, Rt.Rect{Top: 10, Right: 40, Bottom: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rd.FaceBounds(tt.w, tt.h)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestView_PaintFrame(t *testing.T) {
	s := mkTestScreen(t, "")
	t.Cleanup(s.Fini)
	view := makeTestView(t, s)

	t.Run("Streamed frame is laid out at the preview size", func(t *testing.T) {
		frame := paintOnLoop(t, view)
		preview, err := view.CurrentFrame()
		assertError(t, err, nil)

		if len(frame.Ops) != len(preview.Ops) {
			t.Fatalf("got %d ops, want %d", len(frame.Ops), len(preview.Ops))
		}
		outer := Rd.FaceBounds(view.Width, view.Height)
		if frame.Ops[1].Rect != preview.Ops[1].Rect {
			t.Errorf("got outer ring %+v, want %+v", frame.Ops[1].Rect, preview.Ops[1].Rect)
		}
		if frame.Ops[1].Rect.Right > outer.Right {
			t.Errorf("outer ring %+v spills past %+v", frame.Ops[1].Rect, outer)
		}
	})

	// 80x25 cells is an 80x50 pixel canvas, the labels share the middle row
	t.Run("Interactive face shows every ring value", func(t *testing.T) {
		frame := paintOnLoop(t, view)
		if frame.Ambient {
			t.Fatalf("expected an interactive frame")
		}

		row := screenRow(s, 12)
		for _, want := range []string{"56", "34", "12", "15", "6"} {
			assertStringContains(t, row, want)
		}
	})

	t.Run("Cells are half blocks", func(t *testing.T) {
		cells, x, _ := s.GetContents()
		if r := cells[x*2].Runes; len(r) != 1 || r[0] != '▀' {
			t.Errorf("got %q, want a half block", r)
		}
	})

	t.Run("Ambient face hides labels", func(t *testing.T) {
		view.Loop.SetAmbient(true)
		frame := paintOnLoop(t, view)
		if !frame.Ambient {
			t.Fatalf("expected an ambient frame")
		}

		row := screenRow(s, 12)
		if strings.ContainsAny(row, "0123456789") {
			t.Errorf("ambient row has labels: %q", row)
		}
	})
}

func TestView_HeadlessPaint(t *testing.T) {
	view := makeTestView(t, nil)

	frame := paintOnLoop(t, view)
	if len(frame.Ops) == 0 {
		t.Fatalf("headless paint produced no ops")
	}
	assertString(t, frame.Zone, "UTC")
}

// Helpers //

func mkTestScreen(t *testing.T, charset string) tcell.SimulationScreen {
	s := tcell.NewSimulationScreen(charset)
	if s == nil {
		t.Fatalf("Failed to get SimulationScreen")
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	s.SetSize(80, 25)
	return s
}

func paintOnLoop(t *testing.T, view *Rd.View) Rt.Frame {
	t.Helper()
	var frame Rt.Frame
	var perr error
	err := view.Loop.Call(func() { frame, perr = view.PaintFrame(view.Loop.Engine) })
	assertError(t, err, nil)
	assertError(t, perr, nil)
	return frame
}

func screenRow(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r := cells[y*w+x].Runes
		if len(r) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(r[0])
	}
	return sb.String()
}
