package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/star/issview/internal/auth"
	"github.com/star/issview/internal/failure"
	"github.com/star/issview/internal/health"
	"github.com/star/issview/internal/metrics"
	"github.com/star/issview/internal/publish"
	"github.com/star/issview/internal/render"
	"github.com/star/issview/internal/report"
	"github.com/star/issview/internal/transform"
	"github.com/star/issview/internal/viewer"
)

// run prints the next pass over the passover location, then shows the ISS
// and the reference location over the Earth until the viewer is closed.
func (a *app) run(ctx context.Context) error {
	if err := a.passover(ctx); err != nil {
		return err
	}

	scene, places, err := a.buildScene(ctx)
	if err != nil {
		return err
	}

	srv := viewer.NewServer(a.viewer, a.logger, scene, places, a.assets)
	return a.showing(ctx, srv)
}

func (a *app) passover(ctx context.Context) error {
	list, err := a.passes.Passes(ctx, passoverLocation)
	if err != nil {
		return fmt.Errorf("passover: %w", err)
	}
	return report.WritePassover(a.stdout, list, a.loc)
}

func (a *app) astros(ctx context.Context) error {
	crew, err := a.client.Astronauts(ctx)
	if err != nil {
		return fmt.Errorf("astronauts: %w", err)
	}
	return report.WriteAstronauts(a.stdout, crew)
}

func (a *app) position(ctx context.Context) error {
	raw, err := a.client.ISSPosition(ctx)
	if err != nil {
		return fmt.Errorf("iss position: %w", err)
	}
	return report.WritePosition(a.stdout, raw, a.loc)
}

func (a *app) listPasses(ctx context.Context) error {
	list, err := a.passes.Passes(ctx, passoverLocation)
	if err != nil {
		return fmt.Errorf("passes: %w", err)
	}
	for _, p := range list {
		if _, err := fmt.Fprintln(a.stdout, report.Passover(p, a.loc)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) snapshot(ctx context.Context, path string) error {
	scene, _, err := a.buildScene(ctx)
	if err != nil {
		return err
	}

	if path == "-" {
		return render.WriteSVG(a.stdout, scene, render.DefaultView())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := render.WriteSVG(f, scene, render.DefaultView()); err != nil {
		f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	a.logger.Info("wrote snapshot", "path", path)
	return nil
}

// currentPosition fetches and parses the ISS position.
func (a *app) currentPosition(ctx context.Context) (orb.Point, time.Time, error) {
	raw, err := a.client.ISSPosition(ctx)
	if err != nil {
		return orb.Point{}, time.Time{}, fmt.Errorf("iss position: %w", err)
	}
	iss, err := transform.ParseCoordinate(raw.Longitude, raw.Latitude)
	if err != nil {
		return orb.Point{}, time.Time{}, fmt.Errorf("iss position: %w", err)
	}
	metrics.SetISSPosition(iss.Lon(), iss.Lat())

	ts := time.Now()
	if raw.Timestamp > 0 {
		ts = time.Unix(raw.Timestamp, 0)
	}
	return iss, ts, nil
}

func (a *app) buildScene(ctx context.Context) (render.Scene, *geojson.FeatureCollection, error) {
	iss, _, err := a.currentPosition(ctx)
	if err != nil {
		return render.Scene{}, nil, err
	}

	issAngles, refAngles := iss, referenceLocation
	if a.api.CoordUnits == unitsDegrees {
		issAngles, refAngles = transform.Radians(iss), transform.Radians(referenceLocation)
	}

	scene := render.NewScene(
		transform.SphereMesh(transform.EarthRadius),
		transform.GeodeticToCartesian(issAngles),
		transform.GeodeticToCartesian(refAngles),
	)
	return scene, viewer.Places(iss, referenceLocation), nil
}

// runTracker publishes a fix every interval until ctx is done. Failed polls
// are logged and skipped.
func (a *app) runTracker(ctx context.Context) error {
	pub, err := a.newPublisher()
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			a.logger.Warn("closing publisher", "error", err)
		}
	}()

	if a.track.MetricsAddr != "" {
		stop := a.serveMetrics()
		defer stop()
	}

	a.logger.Info("tracking iss", "interval_seconds", a.track.Interval.Seconds(), "backend", a.track.Backend)

	ticker := time.NewTicker(a.track.Interval)
	defer ticker.Stop()

	for {
		a.trackOnce(ctx, pub)

		select {
		case <-ctx.Done():
			a.logger.Info("tracker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (a *app) trackOnce(ctx context.Context, pub publish.Publisher) {
	iss, ts, err := a.currentPosition(ctx)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Warn("skipping fix", "error", err)
		}
		return
	}
	if err := pub.Publish(ctx, publish.Fix{Position: iss, Timestamp: ts}); err != nil && ctx.Err() == nil {
		a.logger.Warn("publish failed", "error", err)
	}
}

func (a *app) newPublisher() (publish.Publisher, error) {
	switch a.track.Backend {
	case backendMQTT:
		p, err := publish.NewMQTT(a.track.MQTT, a.logger)
		if err != nil {
			return nil, failure.Network("connect mqtt", err)
		}
		return p, nil
	case backendAMQP:
		p, err := publish.NewAMQP(a.track.AMQP, a.logger)
		if err != nil {
			return nil, failure.Network("connect amqp", err)
		}
		return p, nil
	default:
		return publish.NewLog(a.logger), nil
	}
}

// serveMetrics exposes /metrics and /healthz while tracking and returns a
// function that stops the listener. /metrics needs the bearer token when one
// is configured.
func (a *app) serveMetrics() func() {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", health.Healthz)

	srv := &http.Server{
		Addr:              a.track.MetricsAddr,
		Handler:           auth.Middleware(a.track.MetricsAuth)(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("starting metrics server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server listen error", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown error", "error", err)
		}
	}
}
