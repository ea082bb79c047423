// Package metrics exposes the controller state as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oshokin/traffic-light/internal/logger"
)

const (
	namespace = "traffic_light"

	// Path is where the metrics handler is mounted.
	Path = "/metrics"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

//nolint:gochecknoglobals // Collectors are registered once in the default registry.
var (
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Total number of light transitions",
		},
		[]string{"from", "to"},
	)

	currentLight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_light",
			Help:      "Current light (0=red, 1=yellow, 2=green, 3=maintenance)",
		},
	)

	lampOn = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lamp_on",
			Help:      "Lamp level (0=off, 1=on)",
		},
		[]string{"lamp"},
	)

	switchRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_switch_requests_total",
			Help:      "Total number of mode switch requests received over gRPC",
		},
	)

	timingReloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timing_reloads_total",
			Help:      "Total number of dwell period updates applied by the control loop",
		},
	)
)

// ObserveTransition records a transition between two lights.
// code is the numeric light value reported by the current_light gauge.
func ObserveTransition(from, to string, code uint8) {
	transitionsTotal.WithLabelValues(from, to).Inc()
	SetCurrentLight(code)
}

// SetCurrentLight records the current light without counting a transition.
func SetCurrentLight(code uint8) {
	currentLight.Set(float64(code))
}

// SetLamp records the level of a lamp.
func SetLamp(lamp string, on bool) {
	value := 0.0
	if on {
		value = 1
	}

	lampOn.WithLabelValues(lamp).Set(value)
}

// IncSwitchRequests counts a remote mode switch request.
func IncSwitchRequests() {
	switchRequestsTotal.Inc()
}

// IncTimingReloads counts an applied timing update.
func IncTimingReloads() {
	timingReloadsTotal.Inc()
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, promhttp.Handler())

	return mux
}

// Serve exposes the metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen metrics: %w", err)
	}

	return serve(ctx, listener)
}

func serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.InfoKV(ctx, "Metrics server started", "address", listener.Addr().String())

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown metrics: %w", err)
	}

	logger.Info(ctx, "Metrics server stopped")

	return nil
}
