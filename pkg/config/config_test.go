package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaths(t *testing.T) {
	c := Default("/repo")

	assert.Equal(t, filepath.Join("/repo", "kubernetes", "infrastructure", "monitoring"), c.ManifestPath())
	assert.Equal(t, filepath.Join("/repo", "kubernetes", "environments", "prod", "monitoring-app.yaml"), c.ArgoCDAppPath())
	assert.Equal(t, []string{
		filepath.Join("/repo", "docs", "monitoring-setup.md"),
		filepath.Join("/repo", "kubernetes", "infrastructure", "monitoring", "README.md"),
		filepath.Join("/repo", "kubernetes", "infrastructure", "monitoring", "UPTIME_KUMA.md"),
	}, c.RequiredDocPaths())
	assert.False(t, c.RespectGitignore)
}

func TestLoadFromFileOverlays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stackcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
manifest_dir: deploy/monitoring
required_docs:
  - README.md
respect_gitignore: true
`), 0644))

	c := Default("/repo")
	require.NoError(t, c.LoadFromFile(path))

	assert.Equal(t, filepath.Join("/repo", "deploy", "monitoring"), c.ManifestPath())
	assert.Equal(t, filepath.Join("/repo", DefaultArgoCDApp), c.ArgoCDAppPath())
	assert.Equal(t, []string{filepath.Join("/repo", "README.md")}, c.RequiredDocPaths())
	assert.True(t, c.RespectGitignore)
}

func TestLoadFromFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stackcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("manifests: nope\n"), 0644))

	err := Default("/repo").LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadFromFileMissing(t *testing.T) {
	err := Default("/repo").LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestResolveRoot(t *testing.T) {
	dir := t.TempDir()

	root, err := ResolveRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, root)

	t.Setenv(RootEnvVar, dir)
	root, err = ResolveRoot("")
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestPathKeepsAbsolute(t *testing.T) {
	c := Default("/repo")
	assert.Equal(t, "/elsewhere/app.yaml", c.Path("/elsewhere/app.yaml"))
}
