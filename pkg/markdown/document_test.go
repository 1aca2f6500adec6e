package markdown

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "# Monitoring\n" +
	"\n" +
	"See [setup](./docs/setup.md#install), [anchor](#usage) and [site](https://grafana.example.com).\n" +
	"\n" +
	"## Usage\n" +
	"\n" +
	"```yaml\n" +
	"key: value\n" +
	"```\n" +
	"\n" +
	"```bash\n" +
	"kubectl get pods -n monitoring\n" +
	"```\n" +
	"\n" +
	"```\n" +
	"plain\n" +
	"```\n" +
	"Visit http://localhost:3001.\n"

func TestUnclosedFence(t *testing.T) {
	doc := Parse("a.md", []byte(sample))
	_, open := doc.UnclosedFence()
	assert.False(t, open)

	doc = Parse("b.md", []byte("intro\n```go\nfmt.Println()\n```\n\n  ```yaml\nx: 1\n"))
	line, open := doc.UnclosedFence()
	assert.True(t, open)
	assert.Equal(t, 6, line)
}

func TestBareFencesIncludeClosingFences(t *testing.T) {
	doc := Parse("a.md", []byte(sample))
	assert.Equal(t, []int{9, 13, 15, 17}, doc.BareFences())
}

func TestLinks(t *testing.T) {
	doc := Parse("a.md", []byte(sample))
	links := doc.Links()
	require.Len(t, links, 3)

	path, ok := links[0].LocalPath()
	assert.True(t, ok)
	assert.Equal(t, "./docs/setup.md", path)

	_, ok = links[1].LocalPath()
	assert.False(t, ok)

	_, ok = links[2].LocalPath()
	assert.False(t, ok)
}

func TestLocalPathEmptyAfterFragment(t *testing.T) {
	_, ok := Link{Target: "#"}.LocalPath()
	assert.False(t, ok)

	path, ok := Link{Target: "other.md#"}.LocalPath()
	assert.True(t, ok)
	assert.Equal(t, "other.md", path)
}

func TestCodeBlocks(t *testing.T) {
	doc := Parse("a.md", []byte(sample))
	assert.Equal(t, []string{"key: value\n"}, doc.YAMLBlocks())
	assert.Equal(t, []string{"kubectl get pods -n monitoring\n"}, doc.ShellBlocks())

	doc = Parse("c.md", []byte("```yml\na: 1\n```\n```yaml title\nb: 2\n```\n```sh\necho hi\n```\n```shell\nls\n```\n"))
	assert.Equal(t, []string{"a: 1\n"}, doc.YAMLBlocks())
	assert.Len(t, doc.ShellBlocks(), 2)
}

func TestURLs(t *testing.T) {
	doc := Parse("a.md", []byte(sample))
	assert.Equal(t, []string{"https://grafana.example.com", "http://localhost:3001."}, doc.URLs())
}

func TestHeadings(t *testing.T) {
	doc := Parse("a.md", []byte(sample))
	assert.Equal(t, []Heading{{Level: 1, Text: "Monitoring"}, {Level: 2, Text: "Usage"}}, doc.Headings())
	assert.True(t, doc.HasSectionHeaders())

	doc = Parse("plain.md", []byte("Title\n=====\n\ntext\n"))
	assert.True(t, doc.HasSectionHeaders())

	doc = Parse("none.md", []byte("just text\n"))
	assert.False(t, doc.HasSectionHeaders())
	assert.Empty(t, doc.Headings())
}

func TestMentions(t *testing.T) {
	doc := Parse("a.md", []byte("## Prerequisites\nDeploy it.\n"))
	assert.True(t, doc.Mentions("Prerequisites", "Requirements"))
	assert.True(t, doc.Mentions("Install", "Deploy", "Setup"))
	assert.False(t, doc.Mentions("Troubleshooting"))
}

func TestValidateYAML(t *testing.T) {
	assert.NoError(t, ValidateYAML("key: value\nlist:\n  - a\n"))
	assert.NoError(t, ValidateYAML(""))
	assert.Error(t, ValidateYAML("key: value: invalid\n"))
	assert.ErrorIs(t, ValidateYAML("a: 1\n---\nb: 2\n"), ErrMultipleDocuments)
}

func TestUnbalancedQuotes(t *testing.T) {
	tests := []struct {
		line           string
		single, double bool
	}{
		{`echo 'ok'`, false, false},
		{`echo "ok"`, false, false},
		{`echo 'open`, true, false},
		{`echo "open`, false, true},
		{`echo it\'s`, false, false},
		{`echo "it's"`, true, false},
		{`echo \"quoted\"`, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			single, double := UnbalancedQuotes(tt.line)
			assert.Equal(t, tt.single, single)
			assert.Equal(t, tt.double, double)
		})
	}
}

func TestShellLines(t *testing.T) {
	lines := ShellLines("\n# comment\necho hi\n\n")
	assert.Equal(t, []string{"# comment", "echo hi"}, lines)
	assert.True(t, IsShellComment(lines[0]))
	assert.False(t, IsShellComment(lines[1]))
	assert.True(t, IsShellComment("   "))
}

func TestFrontMatter(t *testing.T) {
	doc := Parse("a.md", []byte("---\ntitle: Monitoring\ntags: [grafana]\n---\n# Body\n"))
	require.True(t, doc.HasFrontMatter())
	meta, err := doc.FrontMatter()
	require.NoError(t, err)
	assert.Equal(t, "Monitoring", meta["title"])

	doc = Parse("b.md", []byte("---\ntitle: [broken\n---\n# Body\n"))
	require.True(t, doc.HasFrontMatter())
	_, err = doc.FrontMatter()
	assert.Error(t, err)

	assert.False(t, Parse("c.md", []byte("# No front matter\n")).HasFrontMatter())
}

func TestThematicBreakIsNotFrontMatter(t *testing.T) {
	assert.False(t, Parse("rule.md", []byte("---\nSome *text* here: with: colons\n---\n")).HasFrontMatter())
	assert.False(t, Parse("open.md", []byte("---\ntitle: never closed\n")).HasFrontMatter())
	assert.True(t, Parse("empty.md", []byte("---\n---\n# Body\n")).HasFrontMatter())
}

func TestParseNormalizesCRLF(t *testing.T) {
	doc := Parse("win.md", []byte("# Title\r\n\r\n```yaml\r\nkey: value\r\n```\r\n"))

	assert.NotContains(t, doc.Content, "\r")
	assert.Equal(t, "# Title", doc.Lines[0])
	assert.Equal(t, []string{"key: value\n"}, doc.YAMLBlocks())
}

func TestURLsStopAtUnicodeSpace(t *testing.T) {
	doc := Parse("nbsp.md", []byte("See https://example.com.\u00a0next and https://a.example.com\u2003b\n"))
	assert.Equal(t, []string{"https://example.com.", "https://a.example.com"}, doc.URLs())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("# Guide\n"), 0644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "guide.md", doc.Name())
	assert.Equal(t, filepath.Dir(path), doc.Dir())

	_, err = Load(filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}
