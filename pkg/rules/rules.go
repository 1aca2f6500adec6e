// Package rules evaluates fixed checklists against decoded YAML documents.
//
// A checklist is a table of Rule values. Each rule names a field path, a
// condition on the value found there, the severity recorded when the
// condition does not hold, and the lines printed either way. Messages may
// contain the placeholder {value}, replaced with the value found at Path.
package rules

import (
	"fmt"
	"reflect"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/homelab/stackcheck/pkg/result"
)

// ValuePlaceholder is substituted with the rendered field value.
const ValuePlaceholder = "{value}"

// Condition reports whether the value at a rule's path is acceptable.
// found is false when the path does not exist.
type Condition func(value interface{}, found bool) bool

// Rule is one row of a checklist.
type Rule struct {
	Path     []string
	Cond     Condition
	Severity result.Severity
	// Message is recorded (errors, warnings) when Cond fails.
	Message string
	// Pass is printed as a ✓ line when Cond holds. Empty prints nothing.
	Pass string
	// Depth indents the pass line under a sub-heading.
	Depth int
}

// Reporter receives the outcome of each rule. *result.Collector satisfies it.
type Reporter interface {
	Add(severity result.Severity, msg string)
	Pass(format string, args ...interface{})
	Info(format string, args ...interface{})
}

// Evaluate runs every rule against obj in table order and returns the number
// of failed rules, info rules included.
func Evaluate(obj map[string]interface{}, table []Rule, r Reporter) int {
	failed := 0
	for _, rule := range table {
		value, found := Lookup(obj, rule.Path...)
		if rule.Cond(value, found) {
			if rule.Pass != "" {
				pass(r, rule.Depth, render(rule.Pass, value, found))
			}
			continue
		}
		failed++
		if rule.Message != "" {
			r.Add(rule.Severity, render(rule.Message, value, found))
		}
	}
	return failed
}

// pass prints a ✓ line for msg indented depth levels below a check's own lines.
func pass(r Reporter, depth int, msg string) {
	if depth == 0 {
		r.Pass("%s", msg)
		return
	}
	r.Info("%s✓ %s", strings.Repeat("  ", depth), msg)
}

// Lookup returns the value at path. A path through a non-mapping value is
// reported as not found.
func Lookup(obj map[string]interface{}, path ...string) (interface{}, bool) {
	if len(path) == 0 {
		return obj, obj != nil
	}
	value, found, err := unstructured.NestedFieldNoCopy(obj, path...)
	if err != nil {
		return nil, false
	}
	return value, found
}

// Map returns the mapping at path, or nil.
func Map(obj map[string]interface{}, path ...string) map[string]interface{} {
	value, _ := Lookup(obj, path...)
	m, _ := value.(map[string]interface{})
	return m
}

// Slice returns the sequence at path, or nil.
func Slice(obj map[string]interface{}, path ...string) []interface{} {
	value, _ := Lookup(obj, path...)
	s, _ := value.([]interface{})
	return s
}

// String returns the string at path, or "".
func String(obj map[string]interface{}, path ...string) string {
	value, _ := Lookup(obj, path...)
	s, _ := value.(string)
	return s
}

// Display renders a field value for messages. Missing values render as <none>.
func Display(value interface{}, found bool) string {
	if !found || value == nil {
		return "<none>"
	}
	return fmt.Sprintf("%v", value)
}

func render(msg string, value interface{}, found bool) string {
	if !strings.Contains(msg, ValuePlaceholder) {
		return msg
	}
	return strings.ReplaceAll(msg, ValuePlaceholder, Display(value, found))
}

// Equals holds when the value is present and equal to want. Numbers compare
// by value whatever their Go type.
func Equals(want interface{}) Condition {
	return func(value interface{}, found bool) bool {
		return found && equal(value, want)
	}
}

// HasPrefix holds for a present string starting with prefix.
func HasPrefix(prefix string) Condition {
	return func(value interface{}, found bool) bool {
		s, ok := value.(string)
		return found && ok && strings.HasPrefix(s, prefix)
	}
}

// Present holds when the key exists, whatever its value.
func Present() Condition {
	return func(_ interface{}, found bool) bool {
		return found
	}
}

// NotEmpty holds for a present value that is not nil, false, zero or an
// empty string, sequence or mapping.
func NotEmpty() Condition {
	return func(value interface{}, found bool) bool {
		return found && truthy(value)
	}
}

// NotEqual holds unless the value is present and equal to v.
func NotEqual(v interface{}) Condition {
	return func(value interface{}, found bool) bool {
		return !found || !equal(value, v)
	}
}

// NotTruthy holds unless the value is present and truthy.
func NotTruthy() Condition {
	return func(value interface{}, found bool) bool {
		return !found || !truthy(value)
	}
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	}
	if f, ok := toFloat(value); ok {
		return f != 0
	}
	return true
}

func equal(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
