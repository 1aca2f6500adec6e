// Package result holds the findings of one checker run and renders the report.
package result

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	// SeverityInfo findings are printed but never recorded.
	SeverityInfo Severity = "info"
)

const bannerWidth = 70

// Collector accumulates errors and warnings in emission order and writes the
// human-readable report. A Collector is owned by a single checker run.
type Collector struct {
	Errors   []string
	Warnings []string

	out       io.Writer
	sectioned bool
}

// Report is the machine-readable form of a finished run.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	ExitCode int      `json:"exit_code"`
}

// NewCollector returns an empty collector writing its report to out.
// A nil writer means stdout.
func NewCollector(out io.Writer) *Collector {
	if out == nil {
		out = os.Stdout
	}
	return &Collector{out: out}
}

// AddError records an error finding.
func (c *Collector) AddError(msg string) {
	c.Errors = append(c.Errors, msg)
}

// AddWarning records a warning finding.
func (c *Collector) AddWarning(msg string) {
	c.Warnings = append(c.Warnings, msg)
}

// Add appends msg to the list matching severity.
func (c *Collector) Add(severity Severity, msg string) {
	switch severity {
	case SeverityError:
		c.AddError(msg)
	case SeverityWarning:
		c.AddWarning(msg)
	}
}

// Reset drops all findings so the collector can be reused for a fresh run.
func (c *Collector) Reset() {
	c.Errors = nil
	c.Warnings = nil
	c.sectioned = false
}

// ExitCode is 0 when no error was recorded, warnings notwithstanding.
func (c *Collector) ExitCode() int {
	if len(c.Errors) > 0 {
		return 1
	}
	return 0
}

// Report snapshots the findings. The slices are copies.
func (c *Collector) Report() Report {
	return Report{
		Errors:   append([]string{}, c.Errors...),
		Warnings: append([]string{}, c.Warnings...),
		ExitCode: c.ExitCode(),
	}
}

// Writer exposes the report destination.
func (c *Collector) Writer() io.Writer {
	return c.out
}

// SetWriter redirects progress and summary output.
func (c *Collector) SetWriter(w io.Writer) {
	c.out = w
}

// Banner prints title between two full-width rules.
func (c *Collector) Banner(title string) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, title)
	fmt.Fprintln(c.out, rule)
}

// Section starts a check's block of output. Every section after the first
// since the last Reset is preceded by a blank line.
func (c *Collector) Section(title string) {
	if c.sectioned {
		fmt.Fprintln(c.out)
	}
	c.sectioned = true
	fmt.Fprintln(c.out, title)
}

// Pass prints a "✓" progress line.
func (c *Collector) Pass(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "  ✓ "+format+"\n", args...)
}

// Fail prints a "✗" progress line. It records nothing.
func (c *Collector) Fail(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "  ✗ "+format+"\n", args...)
}

// Info prints an indented line with no pass/fail marker.
func (c *Collector) Info(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "  "+format+"\n", args...)
}

// Summarize prints all errors, then all warnings, then the verdict, and
// returns the exit code.
func (c *Collector) Summarize() int {
	fmt.Fprintln(c.out)
	c.Banner("TEST SUMMARY")

	if len(c.Errors) > 0 {
		fmt.Fprintf(c.out, "\n❌ ERRORS (%d):\n", len(c.Errors))
		for _, e := range c.Errors {
			fmt.Fprintf(c.out, "  - %s\n", e)
		}
	}

	if len(c.Warnings) > 0 {
		fmt.Fprintf(c.out, "\n⚠️  WARNINGS (%d):\n", len(c.Warnings))
		for _, w := range c.Warnings {
			fmt.Fprintf(c.out, "  - %s\n", w)
		}
	}

	switch {
	case len(c.Errors) == 0 && len(c.Warnings) == 0:
		fmt.Fprintln(c.out, "\n✅ ALL TESTS PASSED!")
	case len(c.Errors) == 0:
		fmt.Fprintf(c.out, "\n✅ ALL TESTS PASSED (with %d warnings)\n", len(c.Warnings))
	default:
		fmt.Fprintf(c.out, "\n❌ TESTS FAILED: %d error(s), %d warning(s)\n", len(c.Errors), len(c.Warnings))
	}

	return c.ExitCode()
}
