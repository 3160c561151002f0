// Package passes predicts when a satellite rises above an observer's horizon.
package passes

import (
	"context"
	"fmt"
	"time"

	"github.com/star/issview/internal/propagation"
	"github.com/star/issview/internal/tle"
	"github.com/star/issview/internal/transform"
)

// Event is one pass over the observer.
type Event struct {
	Rise         time.Time
	Culminate    time.Time
	Set          time.Time
	MaxElevation float64 // degrees
	RiseAzimuth  float64 // degrees
	SetAzimuth   float64 // degrees

	// Culmination is the point on the ground below the satellite at
	// Culminate.
	Culmination transform.SubPoint
}

// Duration is the time between rise and set.
func (e Event) Duration() time.Duration {
	return e.Set.Sub(e.Rise)
}

// Request holds the parameters for a prediction.
type Request struct {
	Observer     transform.Observer
	Entry        tle.Entry
	Start        time.Time
	Horizon      time.Duration
	MinElevation float64 // degrees
	MaxPasses    int
}

const (
	coarseStep = 30 * time.Second
	fineStep   = time.Second
	minPassDur = 10 * time.Second
)

// Predict scans [Start, Start+Horizon) for passes above MinElevation and
// returns at most MaxPasses of them in time order. A cancelled ctx returns
// the passes found so far together with ctx's error.
func Predict(ctx context.Context, req Request) ([]Event, error) {
	prop, err := propagation.New(req.Entry)
	if err != nil {
		return nil, fmt.Errorf("sgp4 init: %w", err)
	}

	end := req.Start.Add(req.Horizon)
	var events []Event

	// Coarse scan for any sample above the threshold, then refine around it.
	t := req.Start
	for t.Before(end) && len(events) < req.MaxPasses {
		if err := ctx.Err(); err != nil {
			return events, err
		}

		h, _, err := look(prop, req.Observer, t)
		if err != nil || h.ElevationDeg < req.MinElevation {
			t = t.Add(coarseStep)
			continue
		}

		ev, setAt := refine(ctx, prop, req, t, end)
		if ev != nil && ev.Duration() >= minPassDur {
			events = append(events, *ev)
		}
		t = setAt.Add(coarseStep)
	}

	return events, nil
}

// refine walks back from a coarse hit to the rise, then forward second by
// second to the set. It returns the pass (nil if none) and where the scan
// stopped.
func refine(ctx context.Context, prop *propagation.Propagator, req Request, hit, end time.Time) (*Event, time.Time) {
	t := hit.Add(-coarseStep)
	if t.Before(req.Start) {
		t = req.Start
	}

	var (
		ev      Event
		risen   bool
		last    transform.Horizon
		culmPos transform.Point3
	)
	for ; t.Before(end); t = t.Add(fineStep) {
		if ctx.Err() != nil {
			break
		}

		h, pos, err := look(prop, req.Observer, t)
		if err != nil {
			continue
		}
		last = h
		above := h.ElevationDeg >= req.MinElevation

		switch {
		case above && !risen:
			risen = true
			ev = Event{Rise: t, Culminate: t, MaxElevation: h.ElevationDeg, RiseAzimuth: h.AzimuthDeg}
			culmPos = pos
		case above && h.ElevationDeg > ev.MaxElevation:
			ev.Culminate = t
			ev.MaxElevation = h.ElevationDeg
			culmPos = pos
		case !above && risen:
			ev.Set = t
			ev.SetAzimuth = h.AzimuthDeg
			ev.Culmination = transform.ECEFToSubPoint(culmPos)
			return &ev, t
		}
	}

	if !risen {
		return nil, t
	}
	// Still up when the window closed.
	ev.Set = t
	ev.SetAzimuth = last.AzimuthDeg
	ev.Culmination = transform.ECEFToSubPoint(culmPos)
	return &ev, t
}

func look(prop *propagation.Propagator, obs transform.Observer, t time.Time) (transform.Horizon, transform.Point3, error) {
	pos, err := prop.PositionAt(t)
	if err != nil {
		return transform.Horizon{}, transform.Point3{}, err
	}
	return obs.Look(pos), pos, nil
}
