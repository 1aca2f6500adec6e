package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/homelab/stackcheck/pkg/config"
	"github.com/homelab/stackcheck/pkg/logger"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// errChecksFailed is returned when a checker recorded at least one error. The
// report already explains why, so it is not logged again.
var errChecksFailed = errors.New("checks failed")

type options struct {
	root       string
	configFile string
	format     string
	debug      bool
}

func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout))
}

// Run executes the CLI with args, writing reports to out, and returns the
// process exit code.
func Run(args []string, out io.Writer) int {
	rootCmd := newRootCmd(out)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errChecksFailed) {
			logger.Errorf("Error: %v", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "stackcheck",
		Short:         "Lint the monitoring stack's Kubernetes manifests and Markdown documentation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger.SetDebug(opts.debug)
			return opts.validate()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Help()
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVarP(&opts.root, "root", "r", "", "Repository root (defaults to $"+config.RootEnvVar+", then the working directory)")
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML file overriding the checked paths")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", formatText, "Output format: text|json")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(docsCmd(opts), manifestsCmd(opts), allCmd(opts))
	return rootCmd
}

func (o *options) validate() error {
	switch o.format {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected text|json)", o.format)
	}
}

// config builds the run configuration. The root comes from --root, then the
// config file, then $STACKCHECK_ROOT, then the working directory.
func (o *options) config() (*config.Config, error) {
	cfg := config.Default("")
	if o.configFile != "" {
		if err := cfg.LoadFromFile(o.configFile); err != nil {
			return nil, err
		}
		logger.Infof("Loaded configuration from %s", o.configFile)
	}

	explicit := o.root
	if explicit == "" {
		explicit = cfg.Root
	}
	root, err := config.ResolveRoot(explicit)
	if err != nil {
		return nil, err
	}
	cfg.Root = root
	logger.Debugf("Checking repository at %s", root)
	return cfg, nil
}
