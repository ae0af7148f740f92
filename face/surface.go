package radial

import (
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"
	Rt "github.com/maroda/radial/types"
)

// Surface is the drawing capability a host hands to the face.
// Angles are degrees clockwise from 3 o'clock.
type Surface interface {
	Clear(c colorful.Color)
	Arc(rect Rt.Rect, start, sweep float64, c colorful.Color, width float64, lineCap Rt.LineCap)
	// Circle fills a disc with a radial gradient from inner at the center
	// to outer at gradR
	Circle(cx, cy, r float64, inner, outer colorful.Color, gradR float64)
	// Text is centered horizontally on x, y is the baseline
	Text(x, y, size float64, s string, c colorful.Color)
}

// Paint replays a frame onto a surface in order
func Paint(s Surface, f Rt.Frame) {
	for _, op := range f.Ops {
		switch op.Kind {
		case Rt.OpClear:
			s.Clear(OpColor(op.Color))
		case Rt.OpArc:
			s.Arc(op.Rect, op.Start, op.Sweep, OpColor(op.Color), op.Width, op.Cap)
		case Rt.OpCircle:
			s.Circle(op.X, op.Y, op.Radius, OpColor(op.Inner), OpColor(op.Outer), op.GradR)
		case Rt.OpText:
			s.Text(op.X, op.Y, op.Size, op.Text, OpColor(op.Color))
		default:
			slog.Debug("Skipping unknown draw op", slog.String("kind", string(op.Kind)))
		}
	}
}

// OpColor parses a draw op color, anything unreadable is black
func OpColor(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return background
	}
	return c
}
