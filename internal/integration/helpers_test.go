package integration

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/traffic-light/internal/config"
	"github.com/oshokin/traffic-light/internal/service/controller"
)

// reservePort returns a loopback address that was free a moment ago.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startController runs the real controller on a fake clock with settings saved
// to a temporary file. Returns the settings path, the clock and a stop function
// that waits for a clean exit.
func startController(
	t *testing.T,
	settings *config.Config,
	watch bool,
) (string, *clockwork.FakeClock, func()) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(cfgPath, settings))

	fake := clockwork.NewFakeClock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		options := &controller.Options{
			ConfigPath:        cfgPath,
			Watch:             watch,
			SkipInstanceCheck: true,
			Clock:             fake,
		}

		done <- controller.Run(ctx, options)
	}()

	// Wait for the server to start listening.
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", settings.ListenAddress, 50*time.Millisecond)
		if err != nil {
			return false
		}

		_ = conn.Close()

		return true
	}, 5*time.Second, 10*time.Millisecond)

	return cfgPath, fake, func() {
		cancel()
		require.NoError(t, <-done)
	}
}

// advanceUntil moves the fake clock forward in small steps until condition holds.
func advanceUntil(t *testing.T, fake *clockwork.FakeClock, step time.Duration, condition func() bool) {
	t.Helper()

	require.Eventually(t, func() bool {
		fake.Advance(step)

		return condition()
	}, 5*time.Second, 5*time.Millisecond)
}
