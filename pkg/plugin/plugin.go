// Package plugin assembles the i18n plugin: the match-dictionaries rule and
// the json processor that narrows JSON files down to it.
package plugin

import (
	"github.com/dkoosis/dictlint/pkg/lint"
	"github.com/dkoosis/dictlint/pkg/processors/jsonproc"
	"github.com/dkoosis/dictlint/pkg/rules/matchdict"
)

const (
	// Name is the short name that prefixes rule and processor ids.
	Name = "i18n"
	// Version is the plugin version.
	Version = "0.0.1"

	prefix = "dictlint-plugin"
)

// New returns the i18n plugin.
func New() *lint.Plugin {
	return &lint.Plugin{
		Name: Name,
		Meta: lint.PluginMeta{
			Name:    prefix + "-" + Name,
			Version: Version,
		},
		Rules: map[string]lint.Rule{
			matchdict.Name: matchdict.New(),
		},
		Processors: map[string]lint.Processor{
			jsonproc.Name: jsonproc.New(Name, matchdict.Name),
		},
	}
}

// RuleID is the id diagnostics of the match-dictionaries rule carry.
func RuleID() string {
	return lint.RuleID(Name, matchdict.Name)
}

// ProcessorID is the id used to map file extensions to the json processor.
func ProcessorID() string {
	return lint.RuleID(Name, jsonproc.Name)
}
