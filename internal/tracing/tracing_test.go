package tracing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			want: Config{ServiceName: "issview", Exporter: "stdout", SampleRatio: 1},
		},
		{
			name: "otlp",
			env: map[string]string{
				"ISSVIEW_TRACING_ENABLED":      "TRUE",
				"ISSVIEW_TRACING_EXPORTER":     "OTLP",
				"ISSVIEW_TRACING_SERVICE_NAME": "iss-tracker",
				"ISSVIEW_TRACING_SAMPLE_RATIO": "0.25",
				"ISSVIEW_OTLP_ENDPOINT":        "collector:4317",
			},
			want: Config{Enabled: true, ServiceName: "iss-tracker", Exporter: "otlp", Endpoint: "collector:4317", SampleRatio: 0.25},
		},
		{
			name: "ratio out of range",
			env:  map[string]string{"ISSVIEW_TRACING_SAMPLE_RATIO": "1.5"},
			want: Config{ServiceName: "issview", Exporter: "stdout", SampleRatio: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{
				"ISSVIEW_TRACING_ENABLED", "ISSVIEW_TRACING_EXPORTER", "ISSVIEW_TRACING_SERVICE_NAME",
				"ISSVIEW_TRACING_SAMPLE_RATIO", "ISSVIEW_OTLP_ENDPOINT",
			} {
				t.Setenv(k, tt.env[k])
			}

			if got := ConfigFromEnv(testLogger); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{}, testLogger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("expected a non-recording span when tracing is disabled")
	}
	span.End()
}

func TestInitStdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), Config{
		Enabled:     true,
		ServiceName: "issview-test",
		Exporter:    "stdout",
		SampleRatio: 1,
		Writer:      &buf,
	}, testLogger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "GET /iss-now.json")
	span.End()

	ShutdownWithTimeout(context.Background(), shutdown, testLogger)
	if !strings.Contains(buf.String(), "GET /iss-now.json") {
		t.Errorf("exported spans missing span name:\n%s", buf.String())
	}

	Init(context.Background(), Config{}, testLogger)
}

func TestInitUnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), Config{Enabled: true, Exporter: "zipkin"}, testLogger)
	if err == nil || !strings.Contains(err.Error(), "zipkin") {
		t.Errorf("expected unsupported exporter error, got %v", err)
	}
}

func TestShutdownWithTimeoutLogsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ShutdownWithTimeout(context.Background(), func(context.Context) error {
		return errors.New("flush failed")
	}, logger)
	if !strings.Contains(buf.String(), "flush failed") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}

	ShutdownWithTimeout(context.Background(), nil, logger)
}
