package config

import (
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/traffic-light/internal/domain/trafficlight"
)

// Config holds the settings shared by the controller and the remote commands.
type Config struct {
	// RedPeriod is how long the red phase lasts.
	RedPeriod time.Duration `yaml:"red_period"`
	// YellowPeriod is how long each yellow phase lasts.
	YellowPeriod time.Duration `yaml:"yellow_period"`
	// GreenPeriod is how long the green phase lasts.
	GreenPeriod time.Duration `yaml:"green_period"`
	// PollInterval is the pause between two control loop iterations.
	PollInterval time.Duration `yaml:"poll_interval"`
	// ListenAddress is the gRPC address of the controller.
	ListenAddress string `yaml:"listen_addr"`
	// MetricsAddress is the HTTP address serving /metrics. Empty disables it.
	MetricsAddress string `yaml:"metrics_addr,omitempty"`
	// LogLevel is the minimal level of log entries.
	LogLevel string `yaml:"log_level,omitempty"`
	// LogFile is an optional rotating log file written next to stdout.
	LogFile string `yaml:"log_file,omitempty"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for controller settings.
	DefaultConfigFilename = "traffic-light-settings.yaml"

	// DefaultListenAddress is the default gRPC address.
	DefaultListenAddress = "127.0.0.1:50051"

	// DefaultPollInterval is the default pause between loop iterations.
	DefaultPollInterval = time.Millisecond

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// maxPeriod is the longest dwell a 32-bit millisecond counter can measure.
	maxPeriod = time.Duration(math.MaxUint32) * time.Millisecond
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrInvalidPeriod is returned when a dwell period is out of range.
	ErrInvalidPeriod = errors.New("dwell period out of range")
)

// Default returns settings with the canonical 3s / 500ms / 2s cycle.
func Default() *Config {
	cfg := new(Config)

	// Validate only fills defaults here, it cannot fail.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault reads configuration from path and falls back to Default
// when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults for unset fields and checks the rest.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	// Zero periods fall back to the canonical cycle.
	if settings.RedPeriod == 0 {
		settings.RedPeriod = millis(trafficlight.DefaultTiming.Red)
	}

	if settings.YellowPeriod == 0 {
		settings.YellowPeriod = millis(trafficlight.DefaultTiming.Yellow)
	}

	if settings.GreenPeriod == 0 {
		settings.GreenPeriod = millis(trafficlight.DefaultTiming.Green)
	}

	for name, period := range map[string]time.Duration{
		"red_period":    settings.RedPeriod,
		"yellow_period": settings.YellowPeriod,
		"green_period":  settings.GreenPeriod,
	} {
		if period < time.Millisecond || period >= maxPeriod {
			return fmt.Errorf("%w: %s=%s", ErrInvalidPeriod, name, period)
		}
	}

	if settings.PollInterval <= 0 {
		settings.PollInterval = DefaultPollInterval
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if settings.ListenAddress == "" {
		settings.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if settings.MetricsAddress == "" {
		return nil
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.MetricsAddress); err != nil {
		return fmt.Errorf("invalid metrics address: %w", err)
	}

	return nil
}

// Timing converts the dwell periods to millisecond thresholds.
// The settings must have passed Validate.
func (c *Config) Timing() trafficlight.Timing {
	return trafficlight.Timing{
		Red:    toMillis(c.RedPeriod),
		Yellow: toMillis(c.YellowPeriod),
		Green:  toMillis(c.GreenPeriod),
	}
}

func millis(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func toMillis(d time.Duration) uint32 {
	//nolint:gosec // Validate bounds periods below 2^32 ms.
	return uint32(d / time.Millisecond)
}
