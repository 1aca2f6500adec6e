package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/homelab/stackcheck/pkg/config"
	"github.com/homelab/stackcheck/pkg/doccheck"
	"github.com/homelab/stackcheck/pkg/logger"
	"github.com/homelab/stackcheck/pkg/manifestcheck"
	"github.com/homelab/stackcheck/pkg/result"
)

// checker is a runnable checklist. Both doccheck and manifestcheck provide one.
type checker interface {
	RunAll() int
	Result() *result.Collector
}

type suite struct {
	name string
	new  func(cfg *config.Config, out io.Writer) checker
}

var (
	docsSuite = suite{
		name: "docs",
		new:  func(cfg *config.Config, out io.Writer) checker { return doccheck.New(cfg, out) },
	}
	manifestsSuite = suite{
		name: "manifests",
		new:  func(cfg *config.Config, out io.Writer) checker { return manifestcheck.New(cfg, out) },
	}
)

func docsCmd(opts *options) *cobra.Command {
	var respectGitignore bool

	c := &cobra.Command{
		Use:   "docs",
		Short: "Check the repository's Markdown documentation",
		Long:  `The docs command checks every Markdown file under the repository root: code fences, internal links, embedded YAML and shell snippets, URLs, front matter and the required monitoring documents.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if respectGitignore {
				cfg.RespectGitignore = true
			}
			return runSuites(cmd.OutOrStdout(), cfg, opts.format, docsSuite)
		},
	}

	c.Flags().BoolVar(&respectGitignore, "respect-gitignore", false, "Skip Markdown files matched by the root .gitignore")
	return c
}

func manifestsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "manifests",
		Short: "Check the monitoring stack's Kubernetes manifests",
		Long:  `The manifests command validates the monitoring namespace, kustomization, Traefik metrics, Grafana and Uptime Kuma resources and the ArgoCD application that deploys them.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			return runSuites(cmd.OutOrStdout(), cfg, opts.format, manifestsSuite)
		},
	}
}

func allCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run the manifest and documentation checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			return runSuites(cmd.OutOrStdout(), cfg, opts.format, manifestsSuite, docsSuite)
		},
	}
}

// runSuites runs each suite with its own collector. Text reports are written
// as they run; JSON prints one object keyed by suite name at the end.
func runSuites(out io.Writer, cfg *config.Config, format string, suites ...suite) error {
	reports := make(map[string]result.Report, len(suites))
	failed := false

	for i, s := range suites {
		w := out
		if format == formatJSON {
			w = io.Discard
		} else if i > 0 {
			fmt.Fprintln(out)
		}

		logger.Debugf("Running %s checks", s.name)
		c := s.new(cfg, w)
		if c.RunAll() != 0 {
			failed = true
		}
		reports[s.name] = c.Result().Report()
	}

	if format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	}

	if failed {
		return errChecksFailed
	}
	return nil
}
