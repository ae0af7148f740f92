package radial

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsInternal is the face's own prometheus registry.
// Each View gets its own so tests never collide on registration.
type StatsInternal struct {
	Registry *prometheus.Registry
	Redraws  prometheus.Counter
	Painted  *prometheus.CounterVec
	Paint    prometheus.Histogram
	Wakeups  prometheus.Counter
	TZ       prometheus.Counter
	WWW      *prometheus.CounterVec
}

func NewStatsInternal() *StatsInternal {
	reg := prometheus.NewRegistry()

	s := &StatsInternal{
		Registry: reg,
		Redraws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radial_redraw_requests_total",
			Help: "Redraw requests made by the face, before coalescing",
		}),
		Painted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radial_frames_painted_total",
			Help: "Frames actually painted, by display mode",
		}, []string{"mode"}),
		Paint: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "radial_paint_seconds",
			Help:    "Time to render and paint one frame",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		Wakeups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radial_wakeups_total",
			Help: "Interactive second-boundary wake-ups",
		}),
		TZ: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radial_timezone_changes_total",
			Help: "Timezone change events delivered to the face",
		}),
		WWW: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radial_www_requests_total",
			Help: "Preview API requests by status code and method",
		}, []string{"code", "method"}),
	}

	reg.MustRegister(
		s.Redraws,
		s.Painted,
		s.Paint,
		s.Wakeups,
		s.TZ,
		s.WWW,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return s
}

// Handler serves this registry on /metrics
func (s *StatsInternal) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{Registry: s.Registry})
}

func (s *StatsInternal) RecRedraw() { s.Redraws.Inc() }
func (s *StatsInternal) RecWakeup() { s.Wakeups.Inc() }
func (s *StatsInternal) RecTZ() { s.TZ.Inc() }

// RecPaint records one painted frame, mode is "interactive" or "ambient"
func (s *StatsInternal) RecPaint(mode string, seconds float64) {
	s.Painted.WithLabelValues(mode).Inc()
	s.Paint.Observe(seconds)
}

func (s *StatsInternal) RecWWW(code, method string) {
	s.WWW.WithLabelValues(code, method).Inc()
}
