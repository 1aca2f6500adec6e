// Package markdown extracts links, fences, code blocks, URLs and headings
// from Markdown files. Extraction is regex based and line oriented; goldmark
// is only used for the heading outline.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

const Fence = "```"

var (
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	yamlBlockPattern  = regexp.MustCompile("(?s)```(?:yaml|yml)\n(.*?)```")
	shellBlockPattern = regexp.MustCompile("(?s)```(?:bash|sh|shell)\n(.*?)```")
	urlPattern        = regexp.MustCompile(`https?://[^\s\p{Z})]+`)
	frontMatterKey    = regexp.MustCompile(`^[\w.-]+:(\s|$)`)
)

// ErrMultipleDocuments is returned for YAML blocks holding more than one document.
var ErrMultipleDocuments = errors.New("expected a single document in the stream")

// Document is a loaded Markdown file.
type Document struct {
	Path    string
	Content string
	Lines   []string
}

type Link struct {
	Text   string
	Target string
}

type Heading struct {
	Level int
	Text  string
}

// Load reads the Markdown file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data), nil
}

// Parse builds a Document from already-read content. CRLF line endings are
// normalized to LF.
func Parse(path string, data []byte) *Document {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	return &Document{
		Path:    path,
		Content: content,
		Lines:   strings.Split(content, "\n"),
	}
}

// Name is the file's base name, used in findings.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// Dir is the directory links are resolved against.
func (d *Document) Dir() string {
	return filepath.Dir(d.Path)
}

// UnclosedFence toggles on every line starting with a fence and returns the
// 1-based line of the block left open at end of file.
func (d *Document) UnclosedFence() (int, bool) {
	inBlock := false
	start := 0
	for i, line := range d.Lines {
		if !strings.HasPrefix(strings.TrimSpace(line), Fence) {
			continue
		}
		if inBlock {
			inBlock = false
		} else {
			inBlock = true
			start = i + 1
		}
	}
	return start, inBlock
}

// BareFences returns the 1-based numbers of lines that are a fence with no
// language token. Closing fences are included.
func (d *Document) BareFences() []int {
	var lines []int
	for i, line := range d.Lines {
		if strings.TrimSpace(line) == Fence {
			lines = append(lines, i+1)
		}
	}
	return lines
}

// Links returns every [text](target) occurrence in document order.
func (d *Document) Links() []Link {
	var links []Link
	for _, m := range linkPattern.FindAllStringSubmatch(d.Content, -1) {
		links = append(links, Link{Text: m[1], Target: m[2]})
	}
	return links
}

// LocalPath returns the file path a link points at, without its fragment.
// External links and pure anchors yield false.
func (l Link) LocalPath() (string, bool) {
	if strings.HasPrefix(l.Target, "http://") || strings.HasPrefix(l.Target, "https://") {
		return "", false
	}
	if strings.HasPrefix(l.Target, "#") {
		return "", false
	}
	clean, _, _ := strings.Cut(l.Target, "#")
	if clean == "" {
		return "", false
	}
	return clean, true
}

// YAMLBlocks returns the bodies of blocks fenced as yaml or yml.
func (d *Document) YAMLBlocks() []string {
	return submatches(yamlBlockPattern, d.Content)
}

// ShellBlocks returns the bodies of blocks fenced as bash, sh or shell.
func (d *Document) ShellBlocks() []string {
	return submatches(shellBlockPattern, d.Content)
}

// URLs returns every http(s) URL, cut at whitespace (Unicode spaces included)
// or a closing parenthesis.
func (d *Document) URLs() []string {
	return urlPattern.FindAllString(d.Content, -1)
}

func submatches(re *regexp.Regexp, s string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}

// HasSectionHeaders reports whether the document contains an ATX "##" or a
// setext "====" marker anywhere.
func (d *Document) HasSectionHeaders() bool {
	return strings.Contains(d.Content, "##") || strings.Contains(d.Content, "====")
}

// Mentions reports whether any of the words occurs in the document.
func (d *Document) Mentions(words ...string) bool {
	for _, w := range words {
		if strings.Contains(d.Content, w) {
			return true
		}
	}
	return false
}

// Headings returns the document outline as parsed by goldmark.
func (d *Document) Headings() []Heading {
	source := []byte(d.Content)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			headings = append(headings, Heading{Level: h.Level, Text: string(h.Text(source))})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return headings
}

// HasFrontMatter reports whether the document opens with a YAML front matter
// block: a "---" line, a closing "---" line, and a body that is empty or
// starts with a "key:" line. A leading thematic break followed by prose is
// not front matter.
func (d *Document) HasFrontMatter() bool {
	if len(d.Lines) == 0 || strings.TrimSpace(d.Lines[0]) != "---" {
		return false
	}
	for _, line := range d.Lines[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			return true
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !frontMatterKey.MatchString(trimmed) {
			return false
		}
		return closes(d.Lines[1:])
	}
	return false
}

func closes(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) == "---" {
			return true
		}
	}
	return false
}

// FrontMatter decodes the front matter block.
func (d *Document) FrontMatter() (map[string]interface{}, error) {
	meta := map[string]interface{}{}
	if _, err := frontmatter.Parse(bytes.NewReader([]byte(d.Content)), &meta); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, nil
}

// ValidateYAML parses block as a single YAML document. An empty block is valid.
func ValidateYAML(block string) error {
	dec := yaml.NewDecoder(strings.NewReader(block))

	var node yaml.Node
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	var extra yaml.Node
	err := dec.Decode(&extra)
	switch {
	case err == nil:
		return ErrMultipleDocuments
	case errors.Is(err, io.EOF):
		return nil
	default:
		return err
	}
}

// UnbalancedQuotes checks one shell line. Escaped quotes are discounted by
// literal substring count; this is a heuristic, not a shell tokenizer.
func UnbalancedQuotes(line string) (single, double bool) {
	singles := strings.Count(line, "'") - strings.Count(line, `\'`)
	doubles := strings.Count(line, `"`) - strings.Count(line, `\"`)
	return singles%2 != 0, doubles%2 != 0
}

// ShellLines trims a shell block and splits it into lines.
func ShellLines(block string) []string {
	return strings.Split(strings.TrimSpace(block), "\n")
}

// IsShellComment reports whether a shell line is blank or a comment.
func IsShellComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
