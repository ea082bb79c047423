//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"

	api "github.com/oshokin/traffic-light/internal/api/grpc/trafficlight"
)

// DetectActor gathers host and user information for audit trail.
func DetectActor() (api.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return api.Actor{}, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return api.Actor{}, fmt.Errorf("current user: %w", err)
	}

	return api.Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
