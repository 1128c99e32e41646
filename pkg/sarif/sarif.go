// Package sarif provides types and helpers for emitting SARIF output.
package sarif

import (
	"io"
	"path/filepath"
	"sort"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/dkoosis/dictlint/pkg/lint"
)

// Version is the SARIF schema version.
const Version = "2.1.0"

// SchemaURI is the published schema of Version.
const SchemaURI = "https://json.schemastore.org/sarif-2.1.0.json"

// Log is the top-level SARIF structure.
type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema,omitempty"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single analysis run.
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool.
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver describes the tool's identity and the rules it ran.
type Driver struct {
	Name           string                `json:"name"`
	Version        string                `json:"version,omitempty"`
	InformationURI string                `json:"informationUri,omitempty"`
	Rules          []ReportingDescriptor `json:"rules,omitempty"`
}

// ReportingDescriptor describes one rule.
type ReportingDescriptor struct {
	ID               string  `json:"id"`
	ShortDescription Message `json:"shortDescription"`
}

// Result is a single finding.
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level,omitempty"` // error, warning, note
	Message   Message    `json:"message"`
	Locations []Location `json:"locations,omitempty"`
}

// Message contains the finding's text.
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found.
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation describes a file location.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

// ArtifactLocation describes a file path.
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region describes a span within a file.
type Region struct {
	StartLine   int `json:"startLine,omitzero"`
	StartColumn int `json:"startColumn,omitzero"`
	EndLine     int `json:"endLine,omitzero"`
	EndColumn   int `json:"endColumn,omitzero"`
}

// NewLog creates a new SARIF log with default values.
func NewLog() *Log {
	return &Log{
		Version: Version,
		Schema:  SchemaURI,
		Runs:    []Run{},
	}
}

// Level maps a lint severity to a SARIF level.
func Level(s lint.Severity) string {
	switch s {
	case lint.SeverityError:
		return "error"
	case lint.SeverityWarn:
		return "warning"
	default:
		return "note"
	}
}

// FromResults builds a single-run log from lint results. Paths are made
// relative to baseDir when possible and always use forward slashes. Driver
// rules are listed by id.
func FromResults(driver Driver, results []lint.Result, baseDir string) *Log {
	sort.Slice(driver.Rules, func(i, j int) bool { return driver.Rules[i].ID < driver.Rules[j].ID })

	run := Run{Tool: Tool{Driver: driver}, Results: []Result{}}
	for _, r := range results {
		uri := r.FilePath
		if baseDir != "" {
			if rel, err := filepath.Rel(baseDir, r.FilePath); err == nil {
				uri = rel
			}
		}
		uri = filepath.ToSlash(uri)

		for _, m := range r.Messages {
			res := Result{
				RuleID:  m.RuleID,
				Level:   Level(m.Severity),
				Message: Message{Text: m.Message},
				Locations: []Location{{
					PhysicalLocation: PhysicalLocation{
						ArtifactLocation: ArtifactLocation{URI: uri},
					},
				}},
			}
			if m.Line > 0 {
				res.Locations[0].PhysicalLocation.Region = &Region{
					StartLine:   m.Line,
					StartColumn: m.Column,
					EndLine:     m.EndLine,
					EndColumn:   m.EndColumn,
				}
			}
			run.Results = append(run.Results, res)
		}
	}

	log := NewLog()
	log.Runs = append(log.Runs, run)
	return log
}

// Encoder writes indented SARIF documents.
type Encoder struct {
	enc *jsontext.Encoder
}

// NewEncoder creates an indented JSON encoder for SARIF logs.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: jsontext.NewEncoder(w, jsontext.WithIndent("  "))}
}

// Encode writes the SARIF log.
func (e *Encoder) Encode(log *Log) error {
	return json.MarshalEncode(e.enc, log)
}
