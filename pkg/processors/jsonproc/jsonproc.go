// Package jsonproc provides the processor that limits analysis of JSON files
// to a single rule.
package jsonproc

import (
	"strings"

	"github.com/dkoosis/dictlint/pkg/lint"
)

// Name is the processor name within its plugin.
const Name = "json"

// Processor gates files by extension and keeps only the messages of one rule.
type Processor struct {
	ruleID string
}

// New returns a processor that keeps the messages of "<plugin>/<rule>".
func New(plugin, rule string) *Processor {
	return &Processor{ruleID: lint.RuleID(plugin, rule)}
}

// RuleID returns the id of the rule whose messages survive Postprocess.
func (p *Processor) RuleID() string {
	return p.ruleID
}

// Preprocess returns text as the only chunk when the last dot-separated
// segment of filename is exactly "json", and nothing otherwise.
func (p *Processor) Preprocess(text, filename string) []lint.Chunk {
	segments := strings.Split(filename, ".")
	if segments[len(segments)-1] != "json" {
		return []lint.Chunk{}
	}
	return []lint.Chunk{{Text: text}}
}

// Postprocess returns the messages of the first batch reported by the
// processor's rule. It panics when there are no batches: the linter only
// calls it after Preprocess produced a chunk.
func (p *Processor) Postprocess(batches [][]lint.Message, _ string) []lint.Message {
	if len(batches) == 0 {
		panic("jsonproc: Postprocess called without message batches")
	}
	kept := []lint.Message{}
	for _, m := range batches[0] {
		if m.RuleID == p.ruleID {
			kept = append(kept, m)
		}
	}
	return kept
}
