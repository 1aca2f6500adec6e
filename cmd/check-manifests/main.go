// Command check-manifests runs the monitoring stack manifest checks against
// the repository in the working directory.
package main

import (
	"os"

	"github.com/homelab/stackcheck/pkg/config"
	"github.com/homelab/stackcheck/pkg/logger"
	"github.com/homelab/stackcheck/pkg/manifestcheck"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		logger.Errorf("error getting current directory: %v", err)
		os.Exit(1)
	}
	os.Exit(manifestcheck.New(config.Default(wd), os.Stdout).RunAll())
}
