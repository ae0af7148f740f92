package radial

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	Rt "github.com/maroda/radial/types"
	"github.com/sethvargo/go-envconfig"
)

// Config is read from the environment at startup.
// Nothing is ever written back, the face keeps no settings.
type Config struct {
	Variant      string `env:"RADIAL_VARIANT, default=classic"`
	StyleFile    string `env:"RADIAL_STYLE_FILE"`
	Zone         string `env:"RADIAL_ZONE"`
	ZoneFallback string `env:"RADIAL_ZONE_FALLBACK, default=keep"`
	Basis        string `env:"RADIAL_BASIS, default=actual"`
	Hours12      bool   `env:"RADIAL_HOURS12, default=false"`
	Host         string `env:"RADIAL_HOST, default=tui"`
	Addr         string `env:"RADIAL_ADDR, default=:8090"`
	Width        int    `env:"RADIAL_WIDTH, default=400"`
	Height       int    `env:"RADIAL_HEIGHT, default=400"`
	Output       string `env:"RADIAL_OUTPUT, default=face.png"`
	LogLevel     string `env:"RADIAL_LOG_LEVEL, default=info"`
	LogFormat    string `env:"RADIAL_LOG_FORMAT, default=text"`
	OTel         string `env:"RADIAL_OTEL"` // "", "honeycomb" or "grafana"
}

// LoadConfig reads Config from the process environment
func LoadConfig(ctx context.Context) (*Config, error) {
	return LoadConfigWith(ctx, envconfig.OsLookuper())
}

// LoadConfigWith reads Config from any lookuper, tests use a map
func LoadConfigWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var c Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &c,
		Lookuper: l,
	}); err != nil {
		slog.Error("could not process environment", slog.Any("Error", err))
		return nil, fmt.Errorf("config: %w", err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("config: bounds must be positive, got %dx%d", c.Width, c.Height)
	}
	return &c, nil
}

// EngineConfig resolves the string settings against a base style,
// usually a variant from the plugin registry
func (c *Config) EngineConfig(style Style) (EngineConfig, error) {
	basis, err := ParseBasis(c.Basis)
	if err != nil {
		return EngineConfig{}, err
	}
	fallback, err := ParseZoneFallback(c.ZoneFallback)
	if err != nil {
		return EngineConfig{}, err
	}

	if c.StyleFile != "" {
		style, err = LoadStyleFileName(c.StyleFile, style)
		if err != nil {
			return EngineConfig{}, err
		}
	}

	return EngineConfig{
		Style:    style,
		Basis:    basis,
		Hours12:  c.Hours12,
		Zone:     c.Zone,
		Fallback: fallback,
	}, nil
}

// StyleFile is the on-disk override, only the keys present replace the base
type StyleFile struct {
	Name             *string  `json:"name"`
	StartAngle       *float64 `json:"startAngle"`
	RemainderDamping *float64 `json:"remainderDamping"`
	StrokeCap        *string  `json:"strokeCap"`
	DrawLabels       *bool    `json:"drawLabels"`
	LabelBackdrop    *bool    `json:"labelBackdrop"`
	StrokeRatio      *float64 `json:"strokeRatio"`
	AmbientValue     *float64 `json:"ambientValue"`
}

// LoadStyleFileName pulls a style override off local disk.
// Validation is performed on the file before opening.
func LoadStyleFileName(filename string, base Style) (Style, error) {
	file, err := os.Open(filename)
	if err != nil {
		return base, err
	}
	defer file.Close()

	err = validateLoad(file)
	if err != nil {
		slog.Error("Validation failed", slog.Any("Error", err))
		return base, err
	}

	var sf StyleFile
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&sf); err != nil {
		slog.Error("could not decode file", slog.String("file", filename))
		return base, fmt.Errorf("style file %s: %w", filename, err)
	}

	return sf.Apply(base)
}

func validateLoad(file *os.File) error {
	info, err := file.Stat()
	if err != nil {
		slog.Error("could not stat file")
		return err
	}

	if info.Size() == 0 {
		slog.Error("file is empty")
		return errors.New("file is empty")
	}

	return nil
}

// Apply overlays the set keys onto base
func (sf StyleFile) Apply(base Style) (Style, error) {
	s := base
	if sf.Name != nil {
		s.Name = *sf.Name
	}
	if sf.StartAngle != nil {
		s.StartAngle = *sf.StartAngle
	}
	if sf.RemainderDamping != nil {
		if *sf.RemainderDamping <= 0 {
			return base, fmt.Errorf("remainderDamping must be positive, got %v", *sf.RemainderDamping)
		}
		s.RemainderDamping = *sf.RemainderDamping
	}
	if sf.StrokeCap != nil {
		lc, err := ParseCap(*sf.StrokeCap)
		if err != nil {
			return base, err
		}
		s.StrokeCap = lc
	}
	if sf.DrawLabels != nil {
		s.DrawLabels = *sf.DrawLabels
	}
	if sf.LabelBackdrop != nil {
		s.LabelBackdrop = *sf.LabelBackdrop
	}
	if sf.StrokeRatio != nil {
		if err := unitRange("strokeRatio", *sf.StrokeRatio); err != nil {
			return base, err
		}
		s.StrokeRatio = *sf.StrokeRatio
	}
	if sf.AmbientValue != nil {
		if err := unitRange("ambientValue", *sf.AmbientValue); err != nil {
			return base, err
		}
		s.AmbientValue = *sf.AmbientValue
	}
	return s, nil
}

// unitRange accepts (0, 1]
func unitRange(key string, v float64) error {
	if v <= 0 || v > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %v", key, v)
	}
	return nil
}

// ParseCap reads a stroke cap name
func ParseCap(s string) (Rt.LineCap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "butt":
		return Rt.CapButt, nil
	case "round":
		return Rt.CapRound, nil
	case "square":
		return Rt.CapSquare, nil
	}
	return Rt.CapButt, fmt.Errorf("unknown stroke cap: %s", s)
}

// ParseLevel maps the log level setting onto slog
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
