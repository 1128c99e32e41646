// Package lint runs rules over source files and collects their diagnostics.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dkoosis/dictlint/pkg/syntax"
)

// Severity is the level a configured rule reports at.
type Severity int

const (
	// SeverityOff disables a rule.
	SeverityOff Severity = iota
	// SeverityWarn reports without failing the run.
	SeverityWarn
	// SeverityError fails the run.
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity accepts "off", "warn", "warning", "error" and the numeric
// forms 0, 1 and 2.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return SeverityOff, nil
	case "warn", "warning", "1":
		return SeverityWarn, nil
	case "error", "2", "":
		return SeverityError, nil
	default:
		return SeverityOff, fmt.Errorf("unknown severity %q", s)
	}
}

// RuleIDParseError identifies messages produced when a chunk cannot be parsed.
const RuleIDParseError = "parse-error"

// Message is a single diagnostic attached to a node.
type Message struct {
	RuleID    string      `json:"ruleId"`
	Severity  Severity    `json:"severity"`
	Message   string      `json:"message"`
	Line      int         `json:"line"`
	Column    int         `json:"column"`
	EndLine   int         `json:"endLine,omitzero"`
	EndColumn int         `json:"endColumn,omitzero"`
	Fatal     bool        `json:"fatal,omitzero"`
	Node      syntax.Node `json:"-"`
}

// Result holds the messages reported for one file.
type Result struct {
	FilePath     string    `json:"filePath"`
	Messages     []Message `json:"messages"`
	ErrorCount   int       `json:"errorCount"`
	WarningCount int       `json:"warningCount"`
}

func newResult(path string, messages []Message) Result {
	r := Result{FilePath: path, Messages: messages}
	for _, m := range messages {
		switch m.Severity {
		case SeverityError:
			r.ErrorCount++
		case SeverityWarn:
			r.WarningCount++
		}
	}
	return r
}

// HasErrors reports whether any result contains an error-level message.
func HasErrors(results []Result) bool {
	for _, r := range results {
		if r.ErrorCount > 0 {
			return true
		}
	}
	return false
}

func sortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].Line != messages[j].Line {
			return messages[i].Line < messages[j].Line
		}
		return messages[i].Column < messages[j].Column
	})
}
