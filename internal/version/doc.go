// Package version exposes build metadata for the traffic-light binary.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags. When they keep their defaults, the VCS data recorded by the Go
// toolchain in the binary is used instead.
package version
