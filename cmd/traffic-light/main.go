package main

import "github.com/oshokin/traffic-light/cmd/traffic-light/cmd"

func main() {
	cmd.Execute()
}
