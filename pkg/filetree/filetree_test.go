package filetree

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestFindFilesRecursive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":                 "# root",
		"docs/monitoring-setup.md":  "# setup",
		"docs/deep/nested/notes.md": "# notes",
		"docs/image.png":            "",
		".git/description.md":       "ignored",
		"build/output.md":           "generated",
		".gitignore":                "build/\n",
	})

	files, err := FindFiles(root, ".md", Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "build", "output.md"),
		filepath.Join(root, "docs", "deep", "nested", "notes.md"),
		filepath.Join(root, "docs", "monitoring-setup.md"),
	}, files)
}

func TestFindFilesRespectGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":         "# root",
		"build/output.md":   "generated",
		"drafts/wip.md":     "wip",
		"docs/keep.md":      "keep",
		".gitignore":        "build/\n*wip.md\n",
		".git/HEAD.md":      "ignored",
		"docs/sub/other.md": "other",
	})

	files, err := FindFiles(root, ".md", Options{RespectGitignore: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "docs", "keep.md"),
		filepath.Join(root, "docs", "sub", "other.md"),
	}, files)
}

func TestFindFilesMissingRoot(t *testing.T) {
	_, err := FindFiles(filepath.Join(t.TempDir(), "absent"), ".md", Options{})
	assert.Error(t, err)
}

func TestSkipUnreadable(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"locked/a.md": "a", "b.md": "b"})
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var dir, file fs.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			dir = e
		} else {
			file = e
		}
	}
	denied := errors.New("permission denied")

	assert.ErrorIs(t, skipUnreadable(root, root, nil, denied), denied)
	assert.Equal(t, filepath.SkipDir, skipUnreadable(root, filepath.Join(root, "locked"), dir, denied))
	assert.NoError(t, skipUnreadable(root, filepath.Join(root, "b.md"), file, denied))
	assert.NoError(t, skipUnreadable(root, filepath.Join(root, "gone"), nil, denied))
}

func TestFindFilesSkipsUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read mode 0 directories")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":        "# root",
		"locked/hidden.md": "# hidden",
		"zz/after.md":      "# after",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	files, err := FindFiles(root, ".md", Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "zz", "after.md"),
	}, files)
}
