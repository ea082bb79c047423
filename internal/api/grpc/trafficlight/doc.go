// Package trafficlight implements the gRPC transport for the traffic-light
// controller.
//
// The service trafficlight.v1.TrafficLight carries well-known protobuf types
// only: requests are google.protobuf.Empty and every response is a
// google.protobuf.Struct snapshot of the controller. The service descriptor is
// declared here, so no generated code is needed on either side.
package trafficlight
