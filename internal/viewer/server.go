// Package viewer shows a rendered scene in the browser and blocks until the
// viewer window goes away.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/star/issview/internal/health"
	"github.com/star/issview/internal/metrics"
	"github.com/star/issview/internal/render"
)

// Config holds viewer settings.
type Config struct {
	Addr        string // listen address, e.g. "127.0.0.1:8089"
	OpenBrowser bool
	TrustProxy  bool
}

// Server serves one scene until its page is closed.
type Server struct {
	cfg        Config
	httpServer *http.Server
	logger     *slog.Logger
	scene      render.Scene
	places     *geojson.FeatureCollection
	open       func(url string) error

	ready     atomic.Bool
	readyCh   chan struct{}
	url       atomic.Value // string
	closed    chan struct{}
	closeOnce sync.Once
}

// NewServer builds a viewer for scene. places is the geodetic view of the
// scene's markers, served as GeoJSON. assets holds index.html, app.js and
// styles.css at its root.
func NewServer(cfg Config, logger *slog.Logger, scene render.Scene, places *geojson.FeatureCollection, assets fs.FS) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger.With("component", "viewer"),
		scene:   scene,
		places:  places,
		open:    openBrowser,
		readyCh: make(chan struct{}),
		closed:  make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(&s.ready))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/scene", s.handleScene)
	mux.HandleFunc("GET /api/v1/iss.geojson", s.handlePlaces)
	mux.HandleFunc("GET /scene.svg", s.handleSVG)
	mux.HandleFunc("POST /api/v1/viewer/close", s.handleClose)
	mux.Handle("GET /", http.FileServerFS(assets))

	// Build middleware chain: metrics -> logging -> mux.
	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger, cfg.TrustProxy)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the root handler, including middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Show serves the scene and blocks until the viewer page is closed or ctx is
// done. It fails only if the listener cannot be opened or the server dies.
func (s *Server) Show(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("viewer listen on %s: %w", s.cfg.Addr, err)
	}

	url := "http://" + ln.Addr().String() + "/"
	s.url.Store(url)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(ln)
	}()

	s.ready.Store(true)
	close(s.readyCh)
	s.logger.Info("viewer ready", "url", url)

	if s.cfg.OpenBrowser {
		if err := s.open(url); err != nil {
			s.logger.Warn("could not open browser, visit the url manually", "url", url, "error", err)
		}
	}

	var result error
	select {
	case <-s.closed:
		s.logger.Info("viewer window closed")
	case <-ctx.Done():
		s.logger.Info("viewer interrupted")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			result = fmt.Errorf("viewer server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && result == nil {
		result = fmt.Errorf("viewer shutdown: %w", err)
	}
	return result
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scene)
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	body, err := s.places.MarshalJSON()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// handleSVG renders the scene; elev and azim query parameters (degrees)
// override the default camera.
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	view := render.DefaultView()
	for name, dst := range map[string]*float64{"elev": &view.ElevationDeg, "azim": &view.AzimuthDeg} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name + " parameter"})
			return
		}
		*dst = v
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.WriteSVG(w, s.scene, view); err != nil {
		s.logger.Error("svg render failed", "error", err)
	}
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	s.closeOnce.Do(func() { close(s.closed) })
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
