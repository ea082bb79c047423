// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client wrapper for the traffic-light
// controller with call timeouts, and a helper to detect the current system
// actor (hostname/username) attached to remote requests for audit purposes.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
