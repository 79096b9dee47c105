package main

import (
	"github.com/giantswarm/k8s-slack-bridge/cmd"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
