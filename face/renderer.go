package radial

import (
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	Rt "github.com/maroda/radial/types"
)

const (
	FrameVersion = 1

	defaultDamping      = 3.0
	defaultStrokeRatio  = 0.8
	defaultAmbientValue = 0.5
)

var (
	background = colorful.Color{R: 0, G: 0, B: 0}
	labelColor = colorful.Color{R: 1, G: 1, B: 1}
)

// Style is the single configuration surface for every look of the face.
// The registered variants in plugin/ differ only in these values.
type Style struct {
	Name             string
	StartAngle       float64    // 0 is 3 o'clock, 270 is 12 o'clock
	RemainderDamping float64    // HSV value divisor for the unswept arc
	StrokeCap        Rt.LineCap //
	DrawLabels       bool       // numeric value on every ring
	LabelBackdrop    bool       // gradient disc behind the label
	StrokeRatio      float64    // stroke is StrokeRatio * ringWidth / 2
	AmbientValue     float64    // HSV value of the grayscale ambient rings
}

// DefaultStyle is the first published look: flat caps from 3 o'clock,
// labels on gradient discs.
func DefaultStyle() Style {
	return Style{
		Name:             "classic",
		StartAngle:       0,
		RemainderDamping: defaultDamping,
		StrokeCap:        Rt.CapButt,
		DrawLabels:       true,
		LabelBackdrop:    true,
		StrokeRatio:      defaultStrokeRatio,
		AmbientValue:     defaultAmbientValue,
	}
}

// Renderer maps a TimeSnapshot to the ordered draw ops of one frame.
// It holds configuration only, nothing from a previous frame.
type Renderer struct {
	Style   Style
	Basis   Basis
	Hours12 bool
}

func NewRenderer(style Style, basis Basis, hours12 bool) *Renderer {
	if style.RemainderDamping <= 0 {
		style.RemainderDamping = defaultDamping
	}
	if style.StrokeRatio <= 0 {
		style.StrokeRatio = defaultStrokeRatio
	}
	if style.AmbientValue <= 0 {
		style.AmbientValue = defaultAmbientValue
	}
	return &Renderer{
		Style:   style,
		Basis:   basis,
		Hours12: hours12,
	}
}

// Render lays out the rings from the outside in: month is the largest ring,
// second the smallest. The background is always cleared first.
// In ambient mode the second ring and every label are skipped.
func (r *Renderer) Render(snap Rt.TimeSnapshot, bounds Rt.Rect, mode Rt.ModeState) Rt.Frame {
	specs := Fields(snap, r.Basis, r.Hours12)
	n := len(specs)
	ringWidth := Width(bounds) / float64(n)
	styles := RingStyles(n, mode.Ambient, ringWidth, r.Style)

	ops := make([]Rt.DrawOp, 0, 1+4*n)
	ops = append(ops, Rt.DrawOp{Kind: Rt.OpClear, Ring: -1, Color: background.Hex()})

	rect := Inset(bounds, ringWidth/4)
	for i := n - 1; i >= 0; i-- {
		if !mode.Ambient || i != 0 {
			ops = append(ops, r.ring(specs[i], styles[i], rect, mode.Ambient)...)
		}
		rect = Inset(rect, ringWidth/2)
	}

	return Rt.Frame{
		Version: FrameVersion,
		Ambient: mode.Ambient,
		Time:    snap.Time,
		Zone:    snap.Zone,
		Ops:     ops,
	}
}

// ring draws the remainder first and the elapsed fill over it,
// both measured from the style start angle
func (r *Renderer) ring(spec Rt.FieldSpec, rs Rt.RingStyle, rect Rt.Rect, ambient bool) []Rt.DrawOp {
	sweep := Sweep(spec)
	start := r.Style.StartAngle

	ops := []Rt.DrawOp{
		{
			Kind:  Rt.OpArc,
			Ring:  rs.Index,
			Rect:  rect,
			Start: math.Mod(start+sweep, 360),
			Sweep: 360 - sweep,
			Color: rs.Remainder.Hex(),
			Width: rs.StrokeWidth,
			Cap:   r.Style.StrokeCap,
		},
		{
			Kind:  Rt.OpArc,
			Ring:  rs.Index,
			Rect:  rect,
			Start: start,
			Sweep: sweep,
			Color: rs.Fill.Hex(),
			Width: rs.StrokeWidth,
			Cap:   r.Style.StrokeCap,
		},
	}

	if ambient || !r.Style.DrawLabels {
		return ops
	}

	// label sits on the ring at 3 o'clock
	x := rect.Right
	_, y := Center(rect)
	if r.Style.LabelBackdrop {
		ops = append(ops, Rt.DrawOp{
			Kind:   Rt.OpCircle,
			Ring:   rs.Index,
			X:      x,
			Y:      y,
			Radius: math.Max(0, rs.StrokeWidth/2-2),
			Inner:  background.Hex(),
			Outer:  rs.Fill.Hex(),
			GradR:  rs.StrokeWidth,
		})
	}
	ops = append(ops, Rt.DrawOp{
		Kind:  Rt.OpText,
		Ring:  rs.Index,
		X:     x - 1,
		Y:     y + rs.TextSize/2 - 1,
		Text:  strconv.Itoa(spec.Value),
		Size:  rs.TextSize,
		Color: labelColor.Hex(),
	})
	return ops
}

// Sweep is the elapsed arc in degrees, always within [0, 360].
// Current == Max is exactly 360.
func Sweep(spec Rt.FieldSpec) float64 {
	if spec.Max <= 0 {
		return 0
	}
	cur := clampInt(spec.Current, 0, spec.Max)
	return math.Min(360, 360*float64(cur)/float64(spec.Max))
}

// Hue of ring i out of n, evenly spread around the color wheel
func Hue(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return 360 * float64(i) / float64(n)
}

// RingColors returns the fill and remainder colors for ring i.
// Ambient rings are gray: no saturation and a fixed dim value.
func RingColors(i, n int, ambient bool, style Style) (colorful.Color, colorful.Color) {
	damping := style.RemainderDamping
	if damping <= 0 {
		damping = defaultDamping
	}

	h, s, v := Hue(i, n), 1.0, 1.0
	if ambient {
		s = 0
		v = style.AmbientValue
		if v <= 0 {
			v = defaultAmbientValue
		}
	}
	// Hex wraps channels above 1
	v = math.Min(v, 1)
	return colorful.Hsv(h, s, v), colorful.Hsv(h, s, math.Min(v/damping, 1))
}

// RingStyles derives every ring's paint from its index
func RingStyles(n int, ambient bool, ringWidth float64, style Style) []Rt.RingStyle {
	ratio := style.StrokeRatio
	if ratio <= 0 {
		ratio = defaultStrokeRatio
	}
	stroke := ratio * ringWidth / 2
	textSize := math.Max(0, stroke/2-2)

	styles := make([]Rt.RingStyle, n)
	for i := range styles {
		fill, rem := RingColors(i, n, ambient, style)
		styles[i] = Rt.RingStyle{
			Index:       i,
			Fill:        fill,
			Remainder:   rem,
			StrokeWidth: stroke,
			TextSize:    textSize,
		}
	}
	return styles
}
