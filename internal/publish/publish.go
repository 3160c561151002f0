// Package publish sends tracked ISS fixes to a message broker.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Fix is one observed ISS position.
type Fix struct {
	Position  orb.Point // longitude, latitude in degrees
	Timestamp time.Time
}

// Publisher delivers fixes to a backend.
type Publisher interface {
	Publish(ctx context.Context, fix Fix) error
	Close() error
}

// source identifies where fixes come from in published payloads.
const source = "open-notify"

// Encode renders fix as a GeoJSON Feature.
func Encode(fix Fix) ([]byte, error) {
	f := geojson.NewFeature(fix.Position)
	f.Properties["timestamp"] = fix.Timestamp.Unix()
	f.Properties["source"] = source

	body, err := f.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal fix: %w", err)
	}
	return body, nil
}
