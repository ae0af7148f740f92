package radial

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SetupMux handles all data serving:
// - Prometheus metric endpoint
// - Websocket stream of painted frames
// - Version for programmatic use
// - The current frame as draw ops or as an image
// - Host events: timezone broadcast, visibility and ambient
func (v *View) SetupMux() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", v.Stats.Handler())
	r.HandleFunc("/ws", v.WebsocketHandler)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(v.StatsMiddleware)
	api.HandleFunc("/version", v.VersionHandler).Methods(http.MethodGet)
	api.HandleFunc("/frame", v.FrameHandler).Methods(http.MethodGet)
	api.HandleFunc("/face.png", v.ImageHandler).Methods(http.MethodGet)
	api.HandleFunc("/timezone", v.TimezoneHandler).Methods(http.MethodPost)
	api.HandleFunc("/mode", v.ModeHandler).Methods(http.MethodPost)

	return r
}

// Handler is the traced mux used by the server
func (v *View) Handler() http.Handler {
	return otelhttp.NewHandler(v.SetupMux(), "radial-preview")
}

var Version = "dev"

func (v *View) VersionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": Version})
}

// FrameHandler returns the current draw ops as JSON
func (v *View) FrameHandler(w http.ResponseWriter, r *http.Request) {
	frame, err := v.CurrentFrame()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(frame)
}

// ImageHandler renders the current frame as a PNG
func (v *View) ImageHandler(w http.ResponseWriter, r *http.Request) {
	frame, err := v.CurrentFrame()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := RenderPNG(&buf, frame, v.Width, v.Height); err != nil {
		slog.Error("Could not render preview image", slog.Any("Error", err))
		http.Error(w, "could not render image", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

type timezoneRequest struct {
	Zone string `json:"zone"`
}

// TimezoneHandler plays the system timezone broadcast.
// The face only hears it while visible.
func (v *View) TimezoneHandler(w http.ResponseWriter, r *http.Request) {
	var req timezoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid timezone request", http.StatusBadRequest)
		return
	}
	if req.Zone == "" {
		http.Error(w, "zone is required", http.StatusBadRequest)
		return
	}

	v.Loop.TimezoneChanged(req.Zone)
	w.WriteHeader(http.StatusAccepted)
}

type modeRequest struct {
	Visible *bool `json:"visible,omitempty"`
	Ambient *bool `json:"ambient,omitempty"`
}

// ModeHandler delivers visibility and ambient changes,
// either field may be left out
func (v *View) ModeHandler(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid mode request", http.StatusBadRequest)
		return
	}
	if req.Visible == nil && req.Ambient == nil {
		http.Error(w, "nothing to change", http.StatusBadRequest)
		return
	}

	if req.Visible != nil {
		v.Loop.SetVisible(*req.Visible)
	}
	if req.Ambient != nil {
		v.Loop.SetAmbient(*req.Ambient)
	}
	w.WriteHeader(http.StatusAccepted)
}

// RespWriter is a wrapper with StatsMiddleware, used for Prometheus
type RespWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

func (v *View) StatsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &RespWriter{
			ResponseWriter: w,
			Status:         200,
		}
		next.ServeHTTP(wrapped, r)

		v.Stats.RecWWW(strconv.Itoa(wrapped.Status), r.Method)
	})
}
