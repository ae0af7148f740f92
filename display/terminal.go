package radial

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	Rf "github.com/maroda/radial/face"
	Ro "github.com/maroda/radial/obvy"
	Rp "github.com/maroda/radial/plugin"
	Rt "github.com/maroda/radial/types"
)

// upperHalf is drawn with the top pixel as foreground
// and the bottom pixel as background, two pixels per cell
const upperHalf = '▀'

// View hosts one face, on a terminal or headless for the web preview
type View struct {
	MU     sync.Mutex        // guards the canvas between paints and previews
	Loop   *Loop             // the face's event loop
	Screen tcell.Screen      // nil when headless
	Stats  *Ro.StatsInternal // Internal status for prometheus
	Hub    *FrameHub         // live frames for websocket clients
	Width  int               // headless canvas and preview image size
	Height int
	canvas *ImageSurface
	server *http.Server
}

// label is a ring value waiting to be drawn as terminal cells
type label struct {
	x, y, size float64
	text       string
	c          colorful.Color
}

// cellSurface paints shapes into the canvas and keeps text
// for the cell grid, glyphs at half-block size are unreadable
type cellSurface struct {
	*ImageSurface
	labels []label
}

func (cs *cellSurface) Text(x, y, size float64, s string, c colorful.Color) {
	if s == "" {
		return
	}
	cs.labels = append(cs.labels, label{x: x, y: y, size: size, text: s, c: c})
}

// NewScreen opens the terminal
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("Could not get new screen", slog.Any("Error", err))
		return nil, err
	}
	if err := screen.Init(); err != nil {
		slog.Error("Could not initialize screen", slog.Any("Error", err))
		return nil, err
	}
	return screen, nil
}

// NewView builds the face and its loop.
// A nil screen makes a headless view painting a Width x Height canvas.
func NewView(cfg *Rf.Config, ec Rf.EngineConfig, screen tcell.Screen) (*View, error) {
	if cfg == nil {
		return nil, errors.New("no config for view")
	}

	if screen != nil {
		defStyle := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
		screen.SetStyle(defStyle)
		screen.EnableFocus()
		screen.Clear()
	}

	view := &View{
		Screen: screen,
		Stats:  Ro.NewStatsInternal(),
		Hub:    NewFrameHub(),
		Width:  cfg.Width,
		Height: cfg.Height,
	}
	view.Loop = NewLoop(ec, view, view.Stats)
	view.Loop.Outputs = []Rp.FrameOutput{view.Hub}

	return view, nil
}

// FaceBounds is the largest square centered in a w x h surface
func FaceBounds(w, h int) Rt.Rect {
	side := math.Min(float64(w), float64(h))
	left := math.Floor((float64(w) - side) / 2)
	top := math.Floor((float64(h) - side) / 2)
	return Rt.Rect{Left: left, Top: top, Right: left + side, Bottom: top + side}
}

// PaintFrame is called on the loop goroutine for every coalesced redraw.
// The returned frame, the one outputs receive, is always laid out at
// the preview size, whatever the terminal's cell grid.
func (v *View) PaintFrame(e *Rf.Engine) (Rt.Frame, error) {
	v.MU.Lock()
	defer v.MU.Unlock()

	if v.Screen == nil {
		if err := v.ensureCanvas(v.Width, v.Height); err != nil {
			return Rt.Frame{}, err
		}
		return e.OnDraw(v.canvas, FaceBounds(v.Width, v.Height)), nil
	}

	cols, rows := v.Screen.Size()
	if cols <= 0 || rows <= 0 {
		return Rt.Frame{}, fmt.Errorf("screen has no cells: %dx%d", cols, rows)
	}
	pw, ph := cols, rows*2
	if err := v.ensureCanvas(pw, ph); err != nil {
		return Rt.Frame{}, err
	}

	cells := &cellSurface{ImageSurface: v.canvas}
	frames := e.Frames(FaceBounds(pw, ph), FaceBounds(v.Width, v.Height))
	Rf.Paint(cells, frames[0])

	img := v.canvas.DC.Image()
	v.blit(img, cols, rows)
	for _, l := range cells.labels {
		v.DrawLabel(img, l, cols, rows)
	}
	v.Screen.Show()

	return frames[1], nil
}

// ensureCanvas keeps one canvas per size
func (v *View) ensureCanvas(w, h int) error {
	if v.canvas != nil && v.canvas.Width() == w && v.canvas.Height() == h {
		return nil
	}
	if v.canvas != nil {
		v.canvas.Close()
	}
	c, err := NewImageSurface(w, h)
	if err != nil {
		return err
	}
	v.canvas = c
	return nil
}

func (v *View) blit(img image.Image, cols, rows int) {
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			style := tcell.StyleDefault.
				Foreground(cellColor(img.At(col, row*2))).
				Background(cellColor(img.At(col, row*2+1)))
			v.Screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
}

// DrawLabel writes a ring value centered where the face put it
func (v *View) DrawLabel(img image.Image, l label, cols, rows int) {
	row := int((l.y - l.size/2) / 2)
	if row < 0 || row >= rows {
		return
	}
	col := int(math.Round(l.x)) - len(l.text)/2
	for i, r := range l.text {
		x := col + i
		if x < 0 || x >= cols {
			continue
		}
		style := tcell.StyleDefault.
			Foreground(colorfulCell(l.c)).
			Background(cellColor(img.At(x, row*2+1))).
			Bold(true)
		v.Screen.SetContent(x, row, r, nil, style)
	}
}

func cellColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

func colorfulCell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ResizeScreen runs on the loop after the terminal changes size
func (v *View) ResizeScreen() {
	v.Screen.Sync()
	v.Loop.Invalidate()
}

// handleEvents turns terminal events into face events until quit.
// Focus stands in for the watch's ambient signal.
func (v *View) handleEvents() {
	e := v.Loop.Engine
	for {
		ev := v.Screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			// screen finalized
			return
		case *tcell.EventResize:
			v.Loop.Post(v.ResizeScreen)
		case *tcell.EventFocus:
			v.Loop.SetAmbient(!ev.Focused)
		case *tcell.EventKey:
			// Catch quit and exit
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return
			}

			switch ev.Rune() {
			case 'a':
				v.Loop.Post(func() { e.OnAmbientModeChanged(!e.Mode().Ambient) })
			case 'v':
				v.Loop.Post(func() { e.OnVisibilityChanged(!e.Mode().Visible) })
			}
		}
	}
}

// exit stops the loop first so no paint touches a finalized screen
func (v *View) exit() {
	v.Loop.Stop()

	if v.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := v.server.Shutdown(ctx); err != nil {
			slog.Error("Preview server shutdown failed", slog.Any("Error", err))
		}
	}
	for _, out := range v.Loop.Outputs {
		if err := out.Close(); err != nil {
			slog.Error("Could not close output", slog.String("output", out.Type()), slog.Any("Error", err))
		}
	}

	v.MU.Lock()
	defer v.MU.Unlock()
	if v.canvas != nil {
		v.canvas.Close()
		v.canvas = nil
	}
	if v.Screen != nil {
		v.Screen.Fini()
	}
}

// serve runs the preview server, ListenAndServe blocks
func (v *View) serve(addr string) error {
	v.server = &http.Server{
		Addr:              addr,
		Handler:           v.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("Starting radial preview endpoint...", slog.String("Port", addr))
	if err := v.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Could not start preview endpoint", slog.Any("Error", err))
		return err
	}
	return nil
}

// StartFaceView is called by main to run the face on the terminal.
// This also starts up the preview and /metrics endpoint.
func StartFaceView(cfg *Rf.Config, ec Rf.EngineConfig) error {
	screen, err := NewScreen()
	if err != nil {
		return err
	}

	view, err := NewView(cfg, ec, screen)
	if err != nil {
		screen.Fini()
		slog.Error("Could not start face view", slog.Any("Error", err))
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	view.Loop.Start(ctx)
	view.Loop.SetVisible(true)

	go func() {
		if err := view.serve(cfg.Addr); err != nil {
			slog.Error("Preview endpoint stopped", slog.Any("Error", err))
		}
	}()

	view.handleEvents()
	view.exit()

	return nil
}

// StartWebNoTUI runs the face headless, only the preview endpoint shows it
func StartWebNoTUI(cfg *Rf.Config, ec Rf.EngineConfig) error {
	view, err := NewView(cfg, ec, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	view.Loop.Start(ctx)
	view.Loop.SetVisible(true)
	defer view.exit()

	return view.serve(cfg.Addr)
}

// RenderOnce paints the current time once into cfg.Output
func RenderOnce(cfg *Rf.Config, ec Rf.EngineConfig) error {
	view, err := NewView(cfg, ec, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	view.Loop.Start(ctx)
	defer view.exit()

	frame, err := view.CurrentFrame()
	if err != nil {
		return err
	}

	out := NewPNGOutput(cfg.Output, cfg.Width, cfg.Height)
	if err := out.WriteFrame(frame); err != nil {
		return err
	}
	slog.Info("Face rendered", slog.String("path", cfg.Output), slog.Time("time", frame.Time))
	return nil
}

// CurrentFrame renders the face on its loop at the preview size
func (v *View) CurrentFrame() (Rt.Frame, error) {
	var frame Rt.Frame
	err := v.Loop.Call(func() {
		frame = v.Loop.Engine.Frame(FaceBounds(v.Width, v.Height))
	})
	return frame, err
}
