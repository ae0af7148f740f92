package radial_test

import (
	"log/slog"
	"math"
	"os"
	"testing"
	"time"

	Rf "github.com/maroda/radial/face"
	Rt "github.com/maroda/radial/types"
	"github.com/sethvargo/go-envconfig"
)

// Temporary OS file to use for testing configurations
func createTempFile(t testing.TB, data string) (*os.File, func()) {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "style")
	if err != nil {
		t.Fatalf("could not create temp file %v", err)
	}

	tmpfile.Write([]byte(data))
	removeFile := func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
	}
	return tmpfile, removeFile
}

func TestLoadConfigWith(t *testing.T) {
	t.Run("Defaults with an empty environment", func(t *testing.T) {
		c, err := Rf.LoadConfigWith(t.Context(), envconfig.MapLookuper(nil))
		assertError(t, err, nil)
		assertString(t, c.Variant, "classic")
		assertString(t, c.Basis, "actual")
		assertString(t, c.ZoneFallback, "keep")
		assertString(t, c.Host, "tui")
		assertString(t, c.Addr, ":8090")
		assertInt(t, c.Width, 400)
		assertInt(t, c.Height, 400)
		if c.Hours12 {
			t.Errorf("24 hour ring should be the default")
		}
	})

	t.Run("Reads every setting", func(t *testing.T) {
		c, err := Rf.LoadConfigWith(t.Context(), envconfig.MapLookuper(map[string]string{
			"RADIAL_VARIANT": "future",
			"RADIAL_ZONE":    "Asia/Tokyo",
			"RADIAL_BASIS":   "count",
			"RADIAL_HOURS12": "true",
			"RADIAL_HOST":    "web",
			"RADIAL_WIDTH":   "240",
			"RADIAL_OTEL":    "grafana",
		}))
		assertError(t, err, nil)
		assertString(t, c.Variant, "future")
		assertString(t, c.Zone, "Asia/Tokyo")
		assertString(t, c.Host, "web")
		assertString(t, c.OTel, "grafana")
		assertInt(t, c.Width, 240)
		if !c.Hours12 {
			t.Errorf("expected the 12 hour ring")
		}
	})

	t.Run("Errors on a malformed value", func(t *testing.T) {
		_, err := Rf.LoadConfigWith(t.Context(), envconfig.MapLookuper(map[string]string{
			"RADIAL_WIDTH": "wide",
		}))
		assertGotError(t, err)
	})

	t.Run("Errors on empty bounds", func(t *testing.T) {
		_, err := Rf.LoadConfigWith(t.Context(), envconfig.MapLookuper(map[string]string{
			"RADIAL_HEIGHT": "0",
		}))
		assertGotError(t, err)
	})
}

func TestConfig_EngineConfig(t *testing.T) {
	t.Run("Resolves names", func(t *testing.T) {
		c := &Rf.Config{Basis: "count", ZoneFallback: "utc", Zone: "UTC", Hours12: true}
		ec, err := c.EngineConfig(Rf.DefaultStyle())
		assertError(t, err, nil)
		if ec.Basis != Rf.BasisCount || ec.Fallback != Rf.ZoneFallbackUTC || !ec.Hours12 {
			t.Errorf("got %+v", ec)
		}
		assertString(t, ec.Style.Name, "classic")
	})

	t.Run("Errors on an unknown basis", func(t *testing.T) {
		c := &Rf.Config{Basis: "moon"}
		_, err := c.EngineConfig(Rf.DefaultStyle())
		assertGotError(t, err)
	})

	t.Run("Errors on an unknown fallback", func(t *testing.T) {
		c := &Rf.Config{ZoneFallback: "nearest"}
		_, err := c.EngineConfig(Rf.DefaultStyle())
		assertGotError(t, err)
	})

	t.Run("Applies the style file over the variant", func(t *testing.T) {
		styleFile, delStyle := createTempFile(t, `{"startAngle": 270, "strokeCap": "round"}`)
		defer delStyle()

		c := &Rf.Config{StyleFile: styleFile.Name()}
		ec, err := c.EngineConfig(Rf.DefaultStyle())
		assertError(t, err, nil)
		assertFloat(t, ec.Style.StartAngle, 270)
		if ec.Style.StrokeCap != Rt.CapRound {
			t.Errorf("got cap %v, want round", ec.Style.StrokeCap)
		}
	})
}

func TestLoadStyleFileName(t *testing.T) {
	base := Rf.DefaultStyle()

	t.Run("Only present keys replace the base", func(t *testing.T) {
		styleFile, delStyle := createTempFile(t, `{
			"name": "dusk",
			"remainderDamping": 4,
			"drawLabels": false
		}`)
		defer delStyle()

		got, err := Rf.LoadStyleFileName(styleFile.Name(), base)
		assertError(t, err, nil)
		assertString(t, got.Name, "dusk")
		assertFloat(t, got.RemainderDamping, 4)
		if got.DrawLabels {
			t.Errorf("drawLabels should be off")
		}
		if !got.LabelBackdrop || got.StartAngle != base.StartAngle {
			t.Errorf("keys not in the file changed: %+v", got)
		}
	})

	t.Run("Accepts full brightness and full stroke", func(t *testing.T) {
		styleFile, delStyle := createTempFile(t, `{"ambientValue": 1, "strokeRatio": 1}`)
		defer delStyle()

		got, err := Rf.LoadStyleFileName(styleFile.Name(), base)
		assertError(t, err, nil)
		assertFloat(t, got.AmbientValue, 1)
		assertFloat(t, got.StrokeRatio, 1)
	})

	t.Run("Errors with an empty file", func(t *testing.T) {
		styleFile, delStyle := createTempFile(t, ``)
		defer delStyle()

		_, err := Rf.LoadStyleFileName(styleFile.Name(), base)
		assertGotError(t, err)
	})

	t.Run("Errors with a missing file", func(t *testing.T) {
		_, err := Rf.LoadStyleFileName("/nonexistent/style.json", base)
		assertGotError(t, err)
	})

	t.Run("Errors with malformed JSON", func(t *testing.T) {
		styleFile, delStyle := createTempFile(t, `{"startAngle": `)
		defer delStyle()

		_, err := Rf.LoadStyleFileName(styleFile.Name(), base)
		assertGotError(t, err)
	})

	t.Run("Errors with unknown keys", func(t *testing.T) {
		styleFile, delStyle := createTempFile(t, `{"glow": true}`)
		defer delStyle()

		_, err := Rf.LoadStyleFileName(styleFile.Name(), base)
		assertGotError(t, err)
	})

	t.Run("Errors with a value out of range", func(t *testing.T) {
		for _, body := range []string{
			`{"remainderDamping": 0}`,
			`{"strokeCap": "fancy"}`,
			`{"ambientValue": 2.0}`,
			`{"ambientValue": 0}`,
			`{"strokeRatio": 1.5}`,
			`{"strokeRatio": -1}`,
		} {
			styleFile, delStyle := createTempFile(t, body)
			got, err := Rf.LoadStyleFileName(styleFile.Name(), base)
			delStyle()

			assertGotError(t, err)
			if got != base {
				t.Errorf("a failed load should return the base style")
			}
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Rf.ParseLevel(tt.in); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// Helpers //

func snapshotAt(now time.Time) Rt.TimeSnapshot {
	return Rf.NewTimeSource(&manualClock{now: now}, "UTC", Rf.ZoneFallbackKeep).Snapshot()
}

func assertError(t testing.TB, got, want error) {
	t.Helper()
	if got != want {
		t.Errorf("got error %q want %q", got, want)
	}
}

func assertGotError(t testing.TB, got error) {
	t.Helper()
	if got == nil {
		t.Errorf("Expected an error but got %q", got)
	}
}

func assertInt(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func assertString(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func assertFloat(t *testing.T, got, want float64) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func assertNear(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("got %v, want about %v", got, want)
	}
}
