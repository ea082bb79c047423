package controller

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/traffic-light/internal/api/grpc/trafficlight"
	"github.com/oshokin/traffic-light/internal/button"
	"github.com/oshokin/traffic-light/internal/clock"
	"github.com/oshokin/traffic-light/internal/config"
	"github.com/oshokin/traffic-light/internal/domain/trafficlight"
	"github.com/oshokin/traffic-light/internal/fsm"
	"github.com/oshokin/traffic-light/internal/gpio"
	"github.com/oshokin/traffic-light/internal/instance"
	"github.com/oshokin/traffic-light/internal/logger"
	"github.com/oshokin/traffic-light/internal/metrics"
)

// Options controls the controller process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file. A missing file
	// selects the default settings.
	ConfigPath string
	// ListenAddress overrides the gRPC listen address from the settings.
	ListenAddress string
	// MetricsAddress overrides the metrics listen address from the settings.
	MetricsAddress string
	// LogLevel overrides the log level from the settings.
	LogLevel string
	// Watch reloads the dwell periods when the settings file changes.
	Watch bool
	// SkipInstanceCheck allows several controllers on one host.
	SkipInstanceCheck bool
	// Clock drives the loop and the millisecond counter. Nil selects the real clock.
	Clock clockwork.Clock
}

// Run starts the control loop with its servers and blocks until ctx is
// canceled or one of them fails.
//
//nolint:funlen // Wiring reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	// Load settings, falling back to defaults when no file exists.
	cfg, err := loadSettings(opts)
	if err != nil {
		return err
	}

	// The log file replaces the global logger, so name the context afterwards.
	levelKnown := logger.Configure(cfg.LogLevel, cfg.LogFile)

	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "traffic-light")

	if !levelKnown {
		logger.WarnKV(ctx, "Unknown log level, keeping the current one", "log_level", cfg.LogLevel)
	}

	if !opts.SkipInstanceCheck {
		if err = instance.Ensure(""); err != nil {
			return err
		}
	}

	clk := opts.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}

	// Build the simulated hardware: three lamps and the mode button line.
	panel := gpio.Panel{
		Red:    gpio.NewSimulatedOutput(ctx, "red", metrics.SetLamp),
		Yellow: gpio.NewSimulatedOutput(ctx, "yellow", metrics.SetLamp),
		Green:  gpio.NewSimulatedOutput(ctx, "green", metrics.SetLamp),
	}
	input := gpio.NewSimulatedInput()

	light, err := trafficlight.New(panel, clock.NewMonotonic(clk), cfg.Timing(),
		fsm.WithObserver(func(from, to trafficlight.Light) {
			logger.InfoKV(ctx, "Light changed", "from", from.String(), "to", to.String())
			metrics.ObserveTransition(from.String(), to.String(), uint8(to))
		}),
	)
	if err != nil {
		return fmt.Errorf("create traffic light: %w", err)
	}

	light.Start()
	metrics.SetCurrentLight(uint8(light.Current()))

	loop := NewLoop(light, button.New(input))

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.Register(grpcServer, api.NewServer(newPanelService(loop, input)))

	logger.InfoKV(ctx, "Traffic light started",
		"listen_address", lis.Addr().String(),
		"red", cfg.RedPeriod.String(),
		"yellow", cfg.YellowPeriod.String(),
		"green", cfg.GreenPeriod.String(),
		"cycle_ms", light.Timing().Cycle(),
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return loop.Run(groupCtx, clk, cfg.PollInterval)
	})

	group.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		logger.Info(ctx, "GRPC server stopped")

		return nil
	})

	if cfg.MetricsAddress != "" {
		group.Go(func() error {
			return metrics.Serve(groupCtx, cfg.MetricsAddress)
		})
	}

	if opts.Watch {
		group.Go(func() error {
			return config.Watch(groupCtx, settingsPath(opts), func(updated *config.Config) {
				if err := loop.UpdateTiming(updated.Timing()); err != nil {
					logger.WarnKV(ctx, "Timing update rejected", "error", err)
				}
			})
		})
	}

	return group.Wait()
}

// loadSettings reads the settings file and applies command line overrides.
func loadSettings(opts *Options) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(settingsPath(opts))
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.ListenAddress != "" {
		cfg.ListenAddress = opts.ListenAddress
	}

	if opts.MetricsAddress != "" {
		cfg.MetricsAddress = opts.MetricsAddress
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	// Overrides must pass the same checks as the file.
	if err = config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return cfg, nil
}

func settingsPath(opts *Options) string {
	if opts.ConfigPath == "" {
		return config.DefaultConfigFilename
	}

	return opts.ConfigPath
}
