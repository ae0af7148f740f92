package radial

import Rt "github.com/maroda/radial/types"

// Bounds returns the full drawing rectangle of a w x h surface
func Bounds(w, h int) Rt.Rect {
	return Rt.Rect{Right: float64(w), Bottom: float64(h)}
}

// Inset shrinks r by d on every side
func Inset(r Rt.Rect, d float64) Rt.Rect {
	return Rt.Rect{
		Left:   r.Left + d,
		Top:    r.Top + d,
		Right:  r.Right - d,
		Bottom: r.Bottom - d,
	}
}

func Width(r Rt.Rect) float64  { return r.Right - r.Left }
func Height(r Rt.Rect) float64 { return r.Bottom - r.Top }

// Center returns the middle of r
func Center(r Rt.Rect) (float64, float64) {
	return (r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2
}

// Radii returns the horizontal and vertical radius of the ellipse inscribed in r
func Radii(r Rt.Rect) (float64, float64) {
	return Width(r) / 2, Height(r) / 2
}
