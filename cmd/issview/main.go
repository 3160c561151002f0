// Command issview reports on the International Space Station using the
// open-notify API and shows its position above a wireframe Earth.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/paulmach/orb"

	"github.com/star/issview/internal/failure"
	"github.com/star/issview/internal/opennotify"
	"github.com/star/issview/internal/passes"
	"github.com/star/issview/internal/tle"
	"github.com/star/issview/internal/tracing"
	"github.com/star/issview/internal/viewer"
	"github.com/star/issview/web"
)

// Fixed locations used by the default command, as (longitude, latitude).
var (
	passoverLocation  = orb.Point{-84.51201, 39.103119}
	referenceLocation = orb.Point{-77.9885, 0}
)

const usage = `usage: issview [command]

commands:
  run              passover report, then show the ISS in the viewer (default)
  astros           list the people currently in space
  position         print the current ISS position
  passes           list upcoming passes over the passover location
  snapshot <file>  write the scene as SVG ("-" for stdout)
  track            publish the ISS position on an interval
`

var errUsage = errors.New("invalid usage")

type passSource interface {
	Passes(ctx context.Context, loc orb.Point) ([]opennotify.Pass, error)
}

type app struct {
	logger  *slog.Logger
	stdout  io.Writer
	loc     *time.Location
	client  *opennotify.Client
	passes  passSource
	api     apiConfig
	viewer  viewer.Config
	track   trackConfig
	assets  fs.FS
	showing func(ctx context.Context, srv *viewer.Server) error
}

func main() {
	// A missing .env is fine; real environment variables still apply.
	envErr := godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(os.Getenv("ISSVIEW_LOG_LEVEL")),
	}))
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("could not load .env file", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.ConfigFromEnv(logger), logger)
	if err != nil {
		logger.Error("invalid tracing configuration", "error", err)
		os.Exit(1)
	}

	a := newApp(logger, os.Stdout)
	err = a.dispatch(ctx, os.Args[1:])
	tracing.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)

	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		} else {
			logger.Error("issview failed", "kind", failure.KindOf(err).String(), "error", err)
		}
		os.Exit(failure.ExitCode(err))
	}
}

func newApp(logger *slog.Logger, stdout io.Writer) *app {
	api := loadAPIConfig(logger)

	a := &app{
		logger:  logger,
		stdout:  stdout,
		loc:     time.Local,
		client:  opennotify.NewClient(api.BaseURL, api.Timeout, logger),
		api:     api,
		viewer:  loadViewerConfig(logger),
		track:   loadTrackConfig(logger),
		assets:  web.Content,
		showing: func(ctx context.Context, srv *viewer.Server) error { return srv.Show(ctx) },
	}

	if api.PassSource == passSourceSGP4 {
		a.passes = passes.NewSource(tle.NewFetcher(api.TLEURL, api.Timeout, logger), api.Passes, logger)
	} else {
		a.passes = a.client
	}
	return a
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd := "run"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "run":
		return a.run(ctx)
	case "astros":
		return a.astros(ctx)
	case "position":
		return a.position(ctx)
	case "passes":
		return a.listPasses(ctx)
	case "snapshot":
		if len(args) != 1 {
			return fmt.Errorf("snapshot needs an output file: %w", errUsage)
		}
		return a.snapshot(ctx, args[0])
	case "track":
		return a.runTracker(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}
