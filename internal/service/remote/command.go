package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/traffic-light/internal/api/grpc/trafficlight"
	"github.com/oshokin/traffic-light/internal/config"
	"github.com/oshokin/traffic-light/internal/domain/trafficlight"
	"github.com/oshokin/traffic-light/internal/logger"
	"github.com/oshokin/traffic-light/internal/service/common"
)

// Options configures the remote commands.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides the controller address from config when specified.
	ServerAddress string
	// JSON prints the raw status message as JSON.
	JSON bool
	// PollInterval is the pause between status queries of Watch.
	PollInterval time.Duration
	// Out receives the printed status. Nil selects stdout.
	Out io.Writer
}

// DefaultPollInterval is the default pause between status queries of Watch.
const DefaultPollInterval = 500 * time.Millisecond

// Status prints the controller status once.
func Status(ctx context.Context, opts *Options) error {
	ctx = commandContext(ctx, "traffic-light-status", opts)

	client, err := connect(ctx, opts, false)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	response, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	return printStatus(opts, response)
}

// Switch toggles maintenance mode and prints the status the controller had
// when the request was queued.
func Switch(ctx context.Context, opts *Options) error {
	ctx = commandContext(ctx, "traffic-light-switch", opts)

	client, err := connect(ctx, opts, true)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	response, err := client.SwitchMode(ctx)
	if err != nil {
		return err
	}

	logger.Info(ctx, "Mode switch queued")

	return printStatus(opts, response)
}

// Watch polls the controller and prints the status whenever the light
// changes. Failed queries are logged and retried until ctx is canceled.
func Watch(ctx context.Context, opts *Options) error {
	ctx = commandContext(ctx, "traffic-light-watch", opts)

	client, err := connect(ctx, opts, false)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		last    uint64
		printed bool
	)

	for {
		response, err := client.GetStatus(ctx)

		switch {
		case err != nil:
			logger.ErrorKV(ctx, "Get status failed", "error", err)
		default:
			status, decodeErr := api.DecodeStatus(response)
			if decodeErr != nil {
				return decodeErr
			}

			if !printed || status.Transitions != last {
				if err := printStatus(opts, response); err != nil {
					return err
				}

				last, printed = status.Transitions, true
			}
		}

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
		}
	}
}

// commandContext names the command logger. JSON output is meant for other
// programs, so informational entries are dropped to keep stdout parseable.
func commandContext(ctx context.Context, name string, opts *Options) context.Context {
	ctx = logger.WithName(ctx, name)
	if opts.JSON {
		ctx = logger.WithMinLevel(ctx, zapcore.WarnLevel)
	}

	return ctx
}

// connect loads settings and dials the controller.
func connect(ctx context.Context, opts *Options, identify bool) (*common.Client, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ListenAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	dialOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}

	if identify {
		// Identify current user and hostname for audit logging.
		actor, err := common.DetectActor()
		if err != nil {
			return nil, err
		}

		dialOptions = append(dialOptions, common.WithActor(actor))
	}

	logger.DebugKV(ctx, "Connecting to traffic light", "server_address", serverAddress)

	return common.Dial(ctx, serverAddress, dialOptions...)
}

func printStatus(opts *Options, response *structpb.Struct) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if opts.JSON {
		data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshal status: %w", err)
		}

		_, err = fmt.Fprintln(out, string(data))

		return err
	}

	status, err := api.DecodeStatus(response)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, FormatStatus(status))

	return err
}

// FormatStatus renders a status as a single human-readable line.
func FormatStatus(s trafficlight.Status) string {
	return fmt.Sprintf("light=%s red=%s yellow=%s green=%s entered_at_ms=%d transitions=%d timing=%d/%d/%dms",
		s.Light, onOff(s.Red), onOff(s.Yellow), onOff(s.Green),
		s.EnteredAt, s.Transitions,
		s.Timing.Red, s.Timing.Yellow, s.Timing.Green,
	)
}

func onOff(on bool) string {
	if on {
		return "on"
	}

	return "off"
}
