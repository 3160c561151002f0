package passes

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb"

	"github.com/star/issview/internal/failure"
	"github.com/star/issview/internal/opennotify"
	"github.com/star/issview/internal/tle"
	"github.com/star/issview/internal/transform"
)

// Config tunes local predictions.
type Config struct {
	Horizon      time.Duration
	MinElevation float64 // degrees
	MaxPasses    int
}

// DefaultConfig mirrors what the open-notify pass endpoint returned: five
// passes above 10° within the next few days.
func DefaultConfig() Config {
	return Config{Horizon: 72 * time.Hour, MinElevation: 10, MaxPasses: 5}
}

// Source predicts ISS passes locally from a freshly fetched element set. It
// answers the same question as the open-notify pass endpoint.
type Source struct {
	fetcher *tle.Fetcher
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewSource creates a Source that downloads TLE data with fetcher.
func NewSource(fetcher *tle.Fetcher, cfg Config, logger *slog.Logger) *Source {
	return &Source{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger.With("component", "passes"),
		now:     time.Now,
	}
}

// Passes returns upcoming ISS passes over loc, a (longitude, latitude) pair
// in degrees at ground level.
func (s *Source) Passes(ctx context.Context, loc orb.Point) ([]opennotify.Pass, error) {
	const op = "predict passes"

	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := tle.Parse(bytes.NewReader(data), s.logger)
	if err != nil {
		return nil, err
	}
	entry, ok := tle.Find(entries, tle.ISSNoradID)
	if !ok {
		return nil, failure.Validation(op, fmt.Errorf("no element set for NORAD %d at %s", tle.ISSNoradID, s.fetcher.SourceURL()))
	}

	start := s.now().UTC().Truncate(time.Second)
	events, err := Predict(ctx, Request{
		Observer:     transform.NewObserver(loc, 0),
		Entry:        entry,
		Start:        start,
		Horizon:      s.cfg.Horizon,
		MinElevation: s.cfg.MinElevation,
		MaxPasses:    s.cfg.MaxPasses,
	})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, failure.Validation(op, fmt.Errorf("no passes above %.0f° within %s", s.cfg.MinElevation, s.cfg.Horizon))
	}

	s.logger.Debug("predicted passes",
		"count", len(events),
		"tle_epoch", entry.Epoch.Format(time.RFC3339),
		"tle_age_hours", start.Sub(entry.Epoch).Hours(),
	)

	out := make([]opennotify.Pass, len(events))
	for i, ev := range events {
		out[i] = opennotify.Pass{
			RiseTime: ev.Rise.Unix(),
			Duration: int(ev.Duration().Seconds()),
		}
	}
	return out, nil
}
