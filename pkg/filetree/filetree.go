package filetree

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/homelab/stackcheck/pkg/logger"
)

// Always skipped, whatever the options.
var defaultIgnores = []string{
	".git/",
}

// Options controls discovery.
type Options struct {
	// RespectGitignore skips paths matched by the root .gitignore.
	RespectGitignore bool
}

// FindFiles walks root recursively and returns every regular file whose name
// ends with suffix, sorted.
func FindFiles(root, suffix string, opts Options) ([]string, error) {
	ignorePatterns := append([]string{}, defaultIgnores...)

	if opts.RespectGitignore {
		gitignorePath := filepath.Join(root, ".gitignore")
		if content, err := os.ReadFile(gitignorePath); err == nil {
			ignorePatterns = append(ignorePatterns, strings.Split(string(content), "\n")...)
			logger.Debugf("Using ignore rules from %s", gitignorePath)
		}
	}

	matcher := ignore.CompileIgnoreLines(ignorePatterns...)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return skipUnreadable(root, path, d, err)
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil || relPath == "." {
			return nil
		}

		// Append slash for directories so patterns ending in '/' match
		pathToMatch := filepath.ToSlash(relPath)
		if d.IsDir() {
			pathToMatch += "/"
		}
		if matcher.MatchesPath(pathToMatch) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	logger.Debugf("Found %d %s file(s) under %s", len(files), suffix, root)
	return files, nil
}

// skipUnreadable decides what an entry that could not be read does to the
// walk. Only a failure on root itself aborts it; anything below is logged and
// skipped so the remaining files are still found.
func skipUnreadable(root, path string, d fs.DirEntry, err error) error {
	if path == root {
		return err
	}
	logger.Debugf("Skipping unreadable %s: %v", path, err)
	if d != nil && d.IsDir() {
		return filepath.SkipDir
	}
	return nil
}
