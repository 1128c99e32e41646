// Package report renders lint results as text, JSON or SARIF.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/dkoosis/dictlint/pkg/lint"
	"github.com/dkoosis/dictlint/pkg/sarif"
)

// Format represents the output format for reporting results.
type Format int

const (
	// FormatText outputs results grouped by file in a human-readable form.
	FormatText Format = iota
	// FormatJSON outputs the results array as JSON.
	FormatJSON
	// FormatSARIF outputs a SARIF 2.1.0 log.
	FormatSARIF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatSARIF:
		return "sarif"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	default:
		return FormatText, fmt.Errorf("unsupported format: %q", s)
	}
}

// Reporter writes lint results to an output writer.
type Reporter struct {
	writer  io.Writer
	format  Format
	driver  sarif.Driver
	baseDir string
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithDriver sets the tool description used in SARIF output.
func WithDriver(d sarif.Driver) Option {
	return func(r *Reporter) { r.driver = d }
}

// WithBaseDir makes reported paths relative to dir.
func WithBaseDir(dir string) Option {
	return func(r *Reporter) { r.baseDir = dir }
}

// NewReporter creates a Reporter writing format to writer.
func NewReporter(writer io.Writer, format Format, opts ...Option) *Reporter {
	r := &Reporter{
		writer: writer,
		format: format,
		driver: sarif.Driver{Name: "dictlint"},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report writes results in the configured format.
func (r *Reporter) Report(results []lint.Result) error {
	switch r.format {
	case FormatText:
		return r.reportText(results)
	case FormatJSON:
		return r.reportJSON(results)
	case FormatSARIF:
		return r.reportSARIF(results)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) path(p string) string {
	if r.baseDir == "" {
		return p
	}
	if rel, err := filepath.Rel(r.baseDir, p); err == nil {
		return rel
	}
	return p
}

// reportText prints one block per file with messages followed by a summary
// line. Nothing is printed when there are no messages.
func (r *Reporter) reportText(results []lint.Result) error {
	var errs, warns int
	var b strings.Builder
	for _, res := range results {
		if len(res.Messages) == 0 {
			continue
		}
		errs += res.ErrorCount
		warns += res.WarningCount

		fmt.Fprintln(&b, r.path(res.FilePath))
		for _, m := range res.Messages {
			fmt.Fprintf(&b, "  %d:%d  %-5s  %s  %s\n", m.Line, m.Column, m.Severity, m.Message, m.RuleID)
		}
		b.WriteByte('\n')
	}
	if total := errs + warns; total > 0 {
		fmt.Fprintf(&b, "%d %s (%d %s, %d %s)\n",
			total, plural(total, "problem"),
			errs, plural(errs, "error"),
			warns, plural(warns, "warning"))
	}

	if _, err := io.WriteString(r.writer, b.String()); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// reportJSON outputs the results array.
func (r *Reporter) reportJSON(results []lint.Result) error {
	out := make([]lint.Result, len(results))
	for i, res := range results {
		res.FilePath = r.path(res.FilePath)
		out[i] = res
	}

	enc := jsontext.NewEncoder(r.writer, jsontext.WithIndent("  "))
	if err := json.MarshalEncode(enc, out); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// reportSARIF outputs a single-run SARIF log.
func (r *Reporter) reportSARIF(results []lint.Result) error {
	log := sarif.FromResults(r.driver, results, r.baseDir)
	if err := sarif.NewEncoder(r.writer).Encode(log); err != nil {
		return fmt.Errorf("failed to encode SARIF output: %w", err)
	}
	return nil
}
