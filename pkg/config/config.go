// Package config holds the paths the checkers inspect.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// RootEnvVar names the environment variable consulted when no root is given.
const RootEnvVar = "STACKCHECK_ROOT"

// Defaults, relative to the repository root.
var (
	DefaultManifestDir  = filepath.Join("kubernetes", "infrastructure", "monitoring")
	DefaultArgoCDApp    = filepath.Join("kubernetes", "environments", "prod", "monitoring-app.yaml")
	DefaultRequiredDocs = []string{
		filepath.Join("docs", "monitoring-setup.md"),
		filepath.Join("kubernetes", "infrastructure", "monitoring", "README.md"),
		filepath.Join("kubernetes", "infrastructure", "monitoring", "UPTIME_KUMA.md"),
	}
)

// Config is the runtime configuration of both checkers. Relative paths are
// resolved against Root.
type Config struct {
	Root             string   `json:"root,omitempty"`
	ManifestDir      string   `json:"manifest_dir,omitempty"`
	ArgoCDApp        string   `json:"argocd_app,omitempty"`
	RequiredDocs     []string `json:"required_docs,omitempty"`
	RespectGitignore bool     `json:"respect_gitignore,omitempty"`
}

// Default returns the configuration of the monitoring stack repository rooted at root.
func Default(root string) *Config {
	return &Config{
		Root:         root,
		ManifestDir:  DefaultManifestDir,
		ArgoCDApp:    DefaultArgoCDApp,
		RequiredDocs: append([]string{}, DefaultRequiredDocs...),
	}
}

// ResolveRoot picks the repository root: the explicit value, then
// $STACKCHECK_ROOT, then the working directory.
func ResolveRoot(explicit string) (string, error) {
	root := explicit
	if root == "" {
		root = os.Getenv(RootEnvVar)
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}
	return abs, nil
}

// LoadFromFile overlays the YAML file at path onto c. Fields absent from the
// file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	var overlay Config
	if err := yaml.UnmarshalStrict(data, &overlay); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if overlay.Root != "" {
		c.Root = overlay.Root
	}
	if overlay.ManifestDir != "" {
		c.ManifestDir = overlay.ManifestDir
	}
	if overlay.ArgoCDApp != "" {
		c.ArgoCDApp = overlay.ArgoCDApp
	}
	if len(overlay.RequiredDocs) > 0 {
		c.RequiredDocs = overlay.RequiredDocs
	}
	if overlay.RespectGitignore {
		c.RespectGitignore = true
	}
	return nil
}

// Path resolves p against the root unless it is absolute.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c *Config) ManifestPath() string {
	return c.Path(c.ManifestDir)
}

func (c *Config) ArgoCDAppPath() string {
	return c.Path(c.ArgoCDApp)
}

// RequiredDocPaths returns the documentation files that must exist.
func (c *Config) RequiredDocPaths() []string {
	paths := make([]string, 0, len(c.RequiredDocs))
	for _, d := range c.RequiredDocs {
		paths = append(paths, c.Path(d))
	}
	return paths
}
