// Package doccheck lints the repository's Markdown documentation.
package doccheck

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/homelab/stackcheck/pkg/config"
	"github.com/homelab/stackcheck/pkg/filetree"
	"github.com/homelab/stackcheck/pkg/logger"
	"github.com/homelab/stackcheck/pkg/markdown"
	"github.com/homelab/stackcheck/pkg/result"
)

const Title = "DOCUMENTATION TESTS"

// Checker runs the documentation checks against one repository.
type Checker struct {
	cfg    *config.Config
	result *result.Collector
}

// New returns a checker reporting to out.
func New(cfg *config.Config, out io.Writer) *Checker {
	return &Checker{
		cfg:    cfg,
		result: result.NewCollector(out),
	}
}

// Result exposes the collector of the last run.
func (c *Checker) Result() *result.Collector {
	return c.result
}

// RunAll runs every check in order, prints the summary and returns the exit
// code. Findings from a previous run are discarded first.
func (c *Checker) RunAll() int {
	c.result.Reset()
	c.result.Banner(Title)
	fmt.Fprintln(c.result.Writer())

	files := c.markdownFiles()

	c.CheckSyntax(files)
	c.CheckInternalLinks(files)
	c.CheckCodeBlocks(files)
	c.CheckCompleteness()
	c.CheckYAMLBlocks(files)
	c.CheckShellBlocks(files)
	c.CheckURLs(files)
	c.CheckFrontMatter(files)

	return c.result.Summarize()
}

func (c *Checker) markdownFiles() []string {
	files, err := filetree.FindFiles(c.cfg.Root, ".md", filetree.Options{
		RespectGitignore: c.cfg.RespectGitignore,
	})
	if err != nil {
		c.result.AddError(fmt.Sprintf("Error discovering markdown files under %s: %v", c.cfg.Root, err))
		return nil
	}
	return files
}

// forEach loads each file and hands it to fn. A load failure is recorded as
// "<file>: Error <action>: <cause>" and the file is skipped.
func (c *Checker) forEach(files []string, action string, fn func(doc *markdown.Document)) {
	for _, path := range files {
		doc, err := markdown.Load(path)
		if err != nil {
			logger.Debugf("Failed to load %s: %v", path, err)
			c.result.AddError(fmt.Sprintf("%s: Error %s: %v", filepath.Base(path), action, err))
			continue
		}
		fn(doc)
	}
}

// CheckSyntax reports code blocks left open at end of file.
func (c *Checker) CheckSyntax(files []string) {
	c.result.Section("Testing markdown syntax...")
	c.forEach(files, "reading file", func(doc *markdown.Document) {
		if line, open := doc.UnclosedFence(); open {
			c.result.AddError(fmt.Sprintf("%s: Unclosed code block starting at line %d", doc.Name(), line))
			return
		}
		c.result.Pass("%s: Valid markdown syntax", doc.Name())
	})
}

// CheckInternalLinks reports relative links whose target does not exist.
func (c *Checker) CheckInternalLinks(files []string) {
	c.result.Section("Testing internal links...")
	c.forEach(files, "checking links", func(doc *markdown.Document) {
		for _, link := range doc.Links() {
			target, ok := link.LocalPath()
			if !ok {
				continue
			}
			resolved := target
			if !filepath.IsAbs(resolved) {
				resolved = filepath.Join(doc.Dir(), target)
			}
			if _, err := os.Stat(resolved); err != nil {
				c.result.AddError(fmt.Sprintf("%s: Broken link to '%s'", doc.Name(), target))
			}
		}
		c.result.Pass("%s: Internal links checked", doc.Name())
	})
}

// CheckCodeBlocks warns about fences without a language. Closing fences are
// indistinguishable from bare opening fences and are reported as well.
func (c *Checker) CheckCodeBlocks(files []string) {
	c.result.Section("Testing code blocks...")
	c.forEach(files, "checking code blocks", func(doc *markdown.Document) {
		for _, line := range doc.BareFences() {
			c.result.AddWarning(fmt.Sprintf("%s:%d: Code block without language specifier", doc.Name(), line))
		}
	})
	c.result.Pass("Code block check complete")
}

// CheckCompleteness verifies the required monitoring documents exist and
// have some structure.
func (c *Checker) CheckCompleteness() {
	c.result.Section("Testing documentation completeness...")
	for _, path := range c.cfg.RequiredDocPaths() {
		name := filepath.Base(path)
		if _, err := os.Stat(path); err != nil {
			c.result.AddError(fmt.Sprintf("Missing documentation: %s", name))
			continue
		}
		c.result.Pass("%s exists", name)

		doc, err := markdown.Load(path)
		if err != nil {
			c.result.AddError(fmt.Sprintf("%s: Error reading file: %v", name, err))
			continue
		}

		if !doc.HasSectionHeaders() {
			c.result.AddWarning(fmt.Sprintf("%s: No section headers found", name))
		}
		if doc.Mentions("Prerequisites", "Requirements") {
			c.result.Info("  ✓ Has prerequisites section")
		}
		if doc.Mentions("Install", "Deploy", "Setup") {
			c.result.Info("  ✓ Has installation/setup section")
		}
		if headings := doc.Headings(); len(headings) > 0 {
			titles := make([]string, 0, len(headings))
			for _, h := range headings {
				titles = append(titles, h.Text)
			}
			c.result.Info("  ✓ %d heading(s): %s", len(headings), strings.Join(titles, ", "))
		}
	}
}

// CheckYAMLBlocks parses every yaml/yml fenced block.
func (c *Checker) CheckYAMLBlocks(files []string) {
	c.result.Section("Testing YAML code blocks in documentation...")
	c.forEach(files, "validating YAML blocks", func(doc *markdown.Document) {
		blocks := doc.YAMLBlocks()
		for i, block := range blocks {
			if err := markdown.ValidateYAML(block); err != nil {
				c.result.AddError(fmt.Sprintf("%s: Invalid YAML in code block %d: %v", doc.Name(), i+1, err))
			}
		}
		if len(blocks) > 0 {
			c.result.Pass("%s: %d YAML code block(s) validated", doc.Name(), len(blocks))
		}
	})
}

// CheckShellBlocks warns about shell lines with an odd number of quotes.
func (c *Checker) CheckShellBlocks(files []string) {
	c.result.Section("Testing shell code blocks in documentation...")
	c.forEach(files, "checking shell blocks", func(doc *markdown.Document) {
		blocks := doc.ShellBlocks()
		for i, block := range blocks {
			for j, line := range markdown.ShellLines(block) {
				if markdown.IsShellComment(line) {
					continue
				}
				single, double := markdown.UnbalancedQuotes(line)
				if single {
					c.result.AddWarning(fmt.Sprintf("%s: Possible unclosed single quote in shell block %d, line %d", doc.Name(), i+1, j+1))
				}
				if double {
					c.result.AddWarning(fmt.Sprintf("%s: Possible unclosed double quote in shell block %d, line %d", doc.Name(), i+1, j+1))
				}
			}
		}
		if len(blocks) > 0 {
			c.result.Pass("%s: %d shell code block(s) checked", doc.Name(), len(blocks))
		}
	})
}

// CheckURLs warns about URLs ending in a period or pointing at localhost.
func (c *Checker) CheckURLs(files []string) {
	c.result.Section("Testing URLs in documentation...")
	c.forEach(files, "checking URLs", func(doc *markdown.Document) {
		urls := doc.URLs()
		for _, url := range urls {
			if strings.HasSuffix(url, ".") {
				c.result.AddWarning(fmt.Sprintf("%s: URL ends with period: %s", doc.Name(), url))
			}
			if strings.Contains(url, "localhost") || strings.Contains(url, "127.0.0.1") {
				c.result.AddWarning(fmt.Sprintf("%s: Contains localhost URL: %s", doc.Name(), url))
			}
		}
		if len(urls) > 0 {
			c.result.Pass("%s: %d URL(s) checked", doc.Name(), len(urls))
		}
	})
}

// CheckFrontMatter warns about front matter blocks that do not parse.
func (c *Checker) CheckFrontMatter(files []string) {
	c.result.Section("Testing front matter...")
	c.forEach(files, "checking front matter", func(doc *markdown.Document) {
		if !doc.HasFrontMatter() {
			return
		}
		meta, err := doc.FrontMatter()
		if err != nil {
			c.result.AddWarning(fmt.Sprintf("%s: Invalid front matter: %v", doc.Name(), err))
			return
		}
		c.result.Pass("%s: front matter with %d key(s)", doc.Name(), len(meta))
	})
}
