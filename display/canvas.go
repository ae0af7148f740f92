package radial

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/lucasb-eyer/go-colorful"
	Rf "github.com/maroda/radial/face"
	Rt "github.com/maroda/radial/types"
	"golang.org/x/image/font/gofont/gobold"
)

// ImageSurface paints the face into an in-memory image
type ImageSurface struct {
	DC    *gg.Context
	font  *text.FontSource
	faces map[float64]text.Face
}

func NewImageSurface(w, h int) (*ImageSurface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("surface size must be positive, got %dx%d", w, h)
	}
	src, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("could not load label font: %w", err)
	}
	return &ImageSurface{
		DC:    gg.NewContext(w, h),
		font:  src,
		faces: make(map[float64]text.Face),
	}, nil
}

func (s *ImageSurface) Width() int  { return s.DC.Width() }
func (s *ImageSurface) Height() int { return s.DC.Height() }

func (s *ImageSurface) Clear(c colorful.Color) {
	s.DC.ClearWithColor(toRGBA(c))
}

// Arc strokes an arc of the ellipse inscribed in rect.
// Both the face and gg measure angles clockwise from 3 o'clock,
// since y grows downward.
func (s *ImageSurface) Arc(rect Rt.Rect, start, sweep float64, c colorful.Color, width float64, lineCap Rt.LineCap) {
	if sweep <= 0 || width <= 0 {
		return
	}
	cx, cy := Rf.Center(rect)
	rx, ry := Rf.Radii(rect)
	if rx <= 0 || ry <= 0 {
		return
	}
	a1 := radians(start)
	a2 := radians(start + sweep)

	s.DC.ClearPath()
	if rx == ry {
		s.DC.DrawArc(cx, cy, rx, a1, a2)
	} else {
		s.DC.DrawEllipticalArc(cx, cy, rx, ry, a1, a2)
	}
	s.DC.SetLineWidth(width)
	s.DC.SetLineCap(ggCap(lineCap))
	s.setColor(c)
	if err := s.DC.Stroke(); err != nil {
		slog.Debug("Arc stroke failed", slog.Any("Error", err))
	}
}

func (s *ImageSurface) Circle(cx, cy, r float64, inner, outer colorful.Color, gradR float64) {
	if r <= 0 {
		return
	}
	if gradR <= 0 {
		gradR = r
	}
	grad := gg.NewRadialGradientBrush(cx, cy, 0, gradR).
		AddColorStop(0, toRGBA(inner)).
		AddColorStop(1, toRGBA(outer))

	s.DC.ClearPath()
	s.DC.DrawCircle(cx, cy, r)
	s.DC.SetFillBrush(grad)
	if err := s.DC.Fill(); err != nil {
		slog.Debug("Circle fill failed", slog.Any("Error", err))
	}
}

func (s *ImageSurface) Text(x, y, size float64, str string, c colorful.Color) {
	if size <= 0 || str == "" {
		return
	}
	s.DC.SetFont(s.face(size))
	s.setColor(c)
	s.DC.DrawStringAnchored(str, x, y, 0.5, 0)
}

// face caches one font face per label size
func (s *ImageSurface) face(size float64) text.Face {
	if f, ok := s.faces[size]; ok {
		return f
	}
	f := s.font.Face(size)
	s.faces[size] = f
	return f
}

func (s *ImageSurface) setColor(c colorful.Color) {
	cl := c.Clamped()
	s.DC.SetRGB(cl.R, cl.G, cl.B)
}

func (s *ImageSurface) EncodePNG(w io.Writer) error {
	return s.DC.EncodePNG(w)
}

func (s *ImageSurface) Close() error {
	return s.DC.Close()
}

// RenderPNG paints a frame onto a fresh w x h image and encodes it
func RenderPNG(out io.Writer, f Rt.Frame, w, h int) error {
	s, err := NewImageSurface(w, h)
	if err != nil {
		return err
	}
	defer s.Close()

	Rf.Paint(s, f)
	return s.EncodePNG(out)
}

func toRGBA(c colorful.Color) gg.RGBA {
	cl := c.Clamped()
	return gg.RGB(cl.R, cl.G, cl.B)
}

func ggCap(c Rt.LineCap) gg.LineCap {
	switch c {
	case Rt.CapRound:
		return gg.LineCapRound
	case Rt.CapSquare:
		return gg.LineCapSquare
	}
	return gg.LineCapButt
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// PNGOutput writes every painted frame to an image file
type PNGOutput struct {
	Path   string
	Width  int
	Height int
	Frames int // frames written
}

func NewPNGOutput(path string, w, h int) *PNGOutput {
	return &PNGOutput{Path: path, Width: w, Height: h}
}

// WriteFrame replaces the file atomically so readers never see half an image
func (p *PNGOutput) WriteFrame(f Rt.Frame) error {
	dir := filepath.Dir(p.Path)
	tmp, err := os.CreateTemp(dir, ".radial-*.png")
	if err != nil {
		return fmt.Errorf("could not create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := RenderPNG(tmp, f, p.Width, p.Height); err != nil {
		tmp.Close()
		return fmt.Errorf("could not render image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), p.Path); err != nil {
		return fmt.Errorf("could not write %s: %w", p.Path, err)
	}

	p.Frames++
	slog.Debug("Wrote face image", slog.String("path", p.Path), slog.Int("frames", p.Frames))
	return nil
}

func (p *PNGOutput) Close() error { return nil }
func (p *PNGOutput) Type() string { return "png" }
