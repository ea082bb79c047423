// Package config defines the controller settings and provides helpers to
// load, validate, save and watch them in YAML format.
//
// The Config type holds the dwell periods of the traffic light, the loop
// poll interval, the gRPC and metrics listen addresses and logging options.
package config
