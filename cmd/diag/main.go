// Command diag predicts passes from a local TLE file without touching the
// network. Useful for checking the predictor against published pass tables.
//
//	diag <tle-file> [lon lat]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"github.com/star/issview/internal/passes"
	"github.com/star/issview/internal/tle"
	"github.com/star/issview/internal/transform"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if len(os.Args) != 2 && len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <tle-file> [lon lat]\n", os.Args[0])
		os.Exit(1)
	}

	// Cincinnati unless told otherwise.
	loc := orb.Point{-84.51201, 39.103119}
	if len(os.Args) == 4 {
		lon, err1 := strconv.ParseFloat(os.Args[2], 64)
		lat, err2 := strconv.ParseFloat(os.Args[3], 64)
		if err1 != nil || err2 != nil {
			fmt.Fprintln(os.Stderr, "ERROR: lon and lat must be numbers")
			os.Exit(1)
		}
		loc = orb.Point{lon, lat}
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Println("ERROR reading TLE file:", err)
		os.Exit(1)
	}
	entries, err := tle.Parse(f, logger)
	f.Close()
	if err != nil {
		fmt.Println("ERROR parsing TLE:", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d TLE entries\n", len(entries))

	entry, ok := tle.Find(entries, tle.ISSNoradID)
	if !ok {
		entry = entries[0]
		fmt.Printf("ISS not in file, using %s (NORAD %d)\n", entry.Name, entry.NORADID)
	}
	fmt.Printf("Element set: %s epoch %v\n", entry.Name, entry.Epoch.Format(time.RFC3339))

	cfg := passes.DefaultConfig()
	now := time.Now().UTC()
	fmt.Printf("Prediction start: %v, observer lon %.4f lat %.4f\n", now.Format(time.RFC3339), loc.Lon(), loc.Lat())
	if age := now.Sub(entry.Epoch); age > 14*24*time.Hour {
		fmt.Printf("WARNING: element set is %.0f days old, expect drift\n", age.Hours()/24)
	}

	events, err := passes.Predict(context.Background(), passes.Request{
		Observer:     transform.NewObserver(loc, 0),
		Entry:        entry,
		Start:        now,
		Horizon:      cfg.Horizon,
		MinElevation: cfg.MinElevation,
		MaxPasses:    10,
	})
	if err != nil {
		fmt.Println("ERROR predicting passes:", err)
		os.Exit(1)
	}

	for i, ev := range events {
		sub := ev.Culmination
		fmt.Printf("  pass %d: rise=%v az=%.0f° maxEl=%.1f° at %v set az=%.0f° dur=%.0fs\n",
			i, ev.Rise.Format(time.RFC3339), ev.RiseAzimuth, ev.MaxElevation,
			ev.Culminate.Format(time.RFC3339), ev.SetAzimuth, ev.Duration().Seconds())
		fmt.Printf("          overhead lon %.3f lat %.3f alt %.1f km\n",
			sub.Position.Lon(), sub.Position.Lat(), sub.AltM/1000)
	}
	fmt.Printf("\nTotal passes found: %d\n", len(events))
}
