//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/traffic-light/internal/api/grpc/trafficlight"
	"github.com/oshokin/traffic-light/internal/config"
)

// Client wraps the gRPC TrafficLight client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the controller.
	conn *grpc.ClientConn
	// api is the TrafficLight client.
	api *api.Client

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is attached to mutating calls when set.
	actor *api.Actor
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor identifies the caller on mode switch requests.
func WithActor(actor api.Actor) Option {
	return func(c *Client) {
		c.actor = &actor
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the controller.
// Note: this uses insecure transport credentials; the controller is meant to
// be reached on a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial traffic light: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetStatus retrieves the controller snapshot.
func (c *Client) GetStatus(ctx context.Context) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetStatus(callCtx)
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	return response, nil
}

// SwitchMode toggles maintenance mode on the controller.
func (c *Client) SwitchMode(ctx context.Context) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if c.actor != nil {
		callCtx = api.WithActor(callCtx, *c.actor)
	}

	response, err := c.api.SwitchMode(callCtx)
	if err != nil {
		return nil, fmt.Errorf("switch mode: %w", err)
	}

	return response, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
