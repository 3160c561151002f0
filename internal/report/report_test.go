package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/star/issview/internal/failure"
	"github.com/star/issview/internal/opennotify"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{125, "2 minutes and 5 seconds"},
		{59, "0 minutes and 59 seconds"},
		{0, "0 minutes and 0 seconds"},
		{60, "1 minutes and 0 seconds"},
		{654, "10 minutes and 54 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestPassover(t *testing.T) {
	p := opennotify.Pass{RiseTime: 1588712000, Duration: 125}

	got := Passover(p, time.UTC)
	want := "Tue May  5 20:53:20 2020 for 2 minutes and 5 seconds"
	if got != want {
		t.Errorf("Passover = %q, want %q", got, want)
	}
}

func TestWritePassoverUsesSecondPass(t *testing.T) {
	passes := []opennotify.Pass{
		{RiseTime: 1588712000, Duration: 59},
		{RiseTime: 1588718000, Duration: 125},
		{RiseTime: 1588724000, Duration: 300},
	}

	var buf bytes.Buffer
	if err := WritePassover(&buf, passes, time.UTC); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Tue May  5 22:33:20 2020 for 2 minutes and 5 seconds\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWritePassoverTooFewPasses(t *testing.T) {
	tests := map[string][]opennotify.Pass{
		"empty": nil,
		"one":   {{RiseTime: 1588712000, Duration: 59}},
	}
	for name, passes := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WritePassover(&buf, passes, time.UTC)
			if !errors.Is(err, failure.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("wrote %q on error", buf.String())
			}
		})
	}
}

func TestWriteAstronauts(t *testing.T) {
	astros := opennotify.Astronauts{
		Number: 3,
		People: []opennotify.Person{
			{Name: "Chris Cassidy", Craft: "ISS"},
			{Name: "Anatoly Ivanishin", Craft: "ISS"},
			{Name: "Ivan Vagner", Craft: "ISS"},
		},
	}

	var buf bytes.Buffer
	if err := WriteAstronauts(&buf, astros); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"3 People in Space: ",
		"-------------------",
		"1) Chris Cassidy on the ISS",
		"2) Anatoly Ivanishin on the ISS",
		"3) Ivan Vagner on the ISS",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWritePosition(t *testing.T) {
	var buf bytes.Buffer
	pos := opennotify.RawPosition{Longitude: "-152.6450", Latitude: "21.9032", Timestamp: 1588705974}
	if err := WritePosition(&buf, pos, time.UTC); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "ISS at longitude -152.6450, latitude 21.9032 (Tue May  5 19:12:54 2020)\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
