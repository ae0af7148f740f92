package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/gogpu/gg"
	Rd "github.com/maroda/radial/display"
	Rf "github.com/maroda/radial/face"
	Ro "github.com/maroda/radial/obvy"
	Rp "github.com/maroda/radial/plugin"
)

// setupLogging writes to stderr in the tui host, stdout otherwise.
// The terminal belongs to the face while it runs.
func setupLogging(cfg *Rf.Config) {
	out := os.Stdout
	if cfg.Host == "tui" {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: Rf.ParseLevel(cfg.LogLevel)}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	gg.SetLogger(logger.With(slog.String("component", "gg")))
}

func run(ctx context.Context) error {
	cfg, err := Rf.LoadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	style, err := Rp.StyleLookup(cfg.Variant)
	if err != nil {
		slog.Error("Unknown face variant",
			slog.String("variant", cfg.Variant),
			slog.Any("known", Rp.StyleNames()))
		return err
	}

	ec, err := cfg.EngineConfig(style)
	if err != nil {
		slog.Error("Could not resolve face config", slog.Any("Error", err))
		return err
	}

	otelShutdown, err := Ro.InitOTel(ctx, cfg.OTel)
	if err != nil {
		slog.Error("Could not set up tracing", slog.Any("Error", err))
		return err
	}
	defer otelShutdown()

	slog.Info("Radial initializing",
		slog.String("host", cfg.Host),
		slog.String("variant", ec.Style.Name),
		slog.String("basis", ec.Basis.String()))

	switch cfg.Host {
	case "tui":
		return Rd.StartFaceView(cfg, ec)
	case "web":
		return Rd.StartWebNoTUI(cfg, ec)
	case "png":
		return Rd.RenderOnce(cfg, ec)
	}
	return fmt.Errorf("unknown host: %s", cfg.Host)
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Problem running radial", slog.Any("Error", err))
		os.Exit(1)
	}
}
