package lint

import (
	"context"

	"github.com/dkoosis/dictlint/pkg/syntax"
)

// Rule is a check that inspects one file's syntax tree.
type Rule interface {
	// Meta describes the rule and the shape of its options.
	Meta() RuleMeta

	// Create returns the visitor for a single file analysis. Rules keep any
	// per-file state on the returned visitor.
	Create(ctx *RuleContext) Visitor
}

// RuleMeta holds static information about a rule.
type RuleMeta struct {
	Description string
	// Schema validates the rule's options. A nil schema accepts anything.
	Schema *Schema
}

// Visitor receives every node of the tree in pre-order.
type Visitor interface {
	Visit(node syntax.Node)
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(node syntax.Node)

// Visit calls f(node).
func (f VisitorFunc) Visit(node syntax.Node) {
	f(node)
}

// Parser turns source text into a syntax tree.
type Parser interface {
	Parse(ctx context.Context, filename string, src []byte) (*syntax.Document, error)
}

// RuleContext is what a rule sees while it is created.
type RuleContext struct {
	// ID is the fully qualified rule id, "<plugin>/<rule>".
	ID       string
	Filename string
	Options  []any
	// Settings carries per-rule settings from the configuration file that
	// are not part of the options array.
	Settings map[string]string

	severity Severity
	messages *[]Message
}

// Report records a diagnostic on node.
func (c *RuleContext) Report(node syntax.Node, message string) {
	m := Message{
		RuleID:   c.ID,
		Severity: c.severity,
		Message:  message,
		Node:     node,
	}
	if node != nil {
		span := node.Span()
		m.Line = span.Start.Line
		m.Column = span.Start.Column
		m.EndLine = span.End.Line
		m.EndColumn = span.End.Column
	}
	*c.messages = append(*c.messages, m)
}

// Setting returns a per-rule setting or def when it is absent.
func (c *RuleContext) Setting(key, def string) string {
	if v, ok := c.Settings[key]; ok && v != "" {
		return v
	}
	return def
}
