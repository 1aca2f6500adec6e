// Command check-docs runs the documentation checks against the repository in
// the working directory.
package main

import (
	"os"

	"github.com/homelab/stackcheck/pkg/config"
	"github.com/homelab/stackcheck/pkg/doccheck"
	"github.com/homelab/stackcheck/pkg/logger"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		logger.Errorf("error getting current directory: %v", err)
		os.Exit(1)
	}
	os.Exit(doccheck.New(config.Default(wd), os.Stdout).RunAll())
}
