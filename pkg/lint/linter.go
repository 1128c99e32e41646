package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dkoosis/dictlint/pkg/syntax"
)

var (
	// ErrUnknownRule is returned when the configuration names a rule no
	// registered plugin provides.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrUnknownProcessor is returned when an extension is mapped to a
	// processor no registered plugin provides.
	ErrUnknownProcessor = errors.New("unknown processor")
	// ErrInvalidOptions is returned when rule options fail schema validation.
	ErrInvalidOptions = errors.New("invalid rule options")
)

// DefaultConcurrency is the number of files verified in parallel when the
// configuration does not say otherwise.
const DefaultConcurrency = 4

// RuleConfig configures a single rule.
type RuleConfig struct {
	Severity Severity
	Options  []any
	Settings map[string]string
}

// Config is the resolved configuration a Linter runs with.
type Config struct {
	// Rules maps fully qualified rule ids to their configuration.
	Rules map[string]RuleConfig
	// Processors maps file extensions (".json") to processor ids
	// ("i18n/json").
	Processors  map[string]string
	Files       []string
	Ignore      []string
	Concurrency int
}

type enabledRule struct {
	id     string
	rule   Rule
	config RuleConfig
}

// Linter verifies files against the configured rules.
type Linter struct {
	rules      []enabledRule
	processors map[string]Processor
	parsers    map[string]Parser
	matcher    *Matcher
	workers    int
	logger     *zap.Logger
}

// Option configures a Linter.
type Option func(*Linter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithParser registers p for the given file extensions.
func WithParser(p Parser, extensions ...string) Option {
	return func(l *Linter) {
		for _, ext := range extensions {
			l.parsers[strings.ToLower(ext)] = p
		}
	}
}

// New resolves cfg against plugins. Every configured rule must exist and its
// options must satisfy the rule's schema.
func New(cfg Config, plugins []*Plugin, opts ...Option) (*Linter, error) {
	l := &Linter{
		processors: make(map[string]Processor),
		parsers:    make(map[string]Parser),
		workers:    cfg.Concurrency,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.workers <= 0 {
		l.workers = DefaultConcurrency
	}

	rules := make(map[string]Rule)
	processors := make(map[string]Processor)
	for _, p := range plugins {
		for name, r := range p.Rules {
			rules[RuleID(p.Name, name)] = r
		}
		for name, proc := range p.Processors {
			processors[RuleID(p.Name, name)] = proc
		}
	}

	ids := make([]string, 0, len(cfg.Rules))
	for id := range cfg.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rc := cfg.Rules[id]
		rule, ok := rules[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
		if rc.Severity == SeverityOff {
			continue
		}
		if err := rule.Meta().Schema.Validate(optionsValue(rc.Options)); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOptions, id, err)
		}
		l.rules = append(l.rules, enabledRule{id: id, rule: rule, config: rc})
	}

	for ext, id := range cfg.Processors {
		proc, ok := processors[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProcessor, id)
		}
		l.processors[strings.ToLower(ext)] = proc
	}

	matcher, err := NewMatcher(cfg.Files, cfg.Ignore)
	if err != nil {
		return nil, err
	}
	l.matcher = matcher

	return l, nil
}

// optionsValue converts options to the []any shape the schema expects; a nil
// slice is validated as an empty array.
func optionsValue(options []any) []any {
	if options == nil {
		return []any{}
	}
	return options
}

// Lintable reports whether the linter has a parser or processor for path.
func (l *Linter) Lintable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := l.processors[ext]; ok {
		return true
	}
	_, ok := l.parsers[ext]
	return ok
}

// Verify lints text as if it were the contents of filename.
func (l *Linter) Verify(ctx context.Context, filename, text string) ([]Message, error) {
	proc := l.processors[strings.ToLower(filepath.Ext(filename))]

	chunks := []Chunk{{Text: text}}
	if proc != nil {
		chunks = proc.Preprocess(text, filename)
		if len(chunks) == 0 {
			l.logger.Debug("processor skipped file", zap.String("file", filename))
			return nil, nil
		}
	}

	batches := make([][]Message, len(chunks))
	for i, chunk := range chunks {
		name := chunk.Filename
		if name == "" {
			name = filename
		}
		msgs, err := l.verifyChunk(ctx, name, chunk.Text)
		if err != nil {
			return nil, err
		}
		batches[i] = msgs
	}

	var messages []Message
	if proc != nil {
		messages = proc.Postprocess(batches, filename)
	} else {
		messages = batches[0]
	}
	sortMessages(messages)
	return messages, nil
}

func (l *Linter) verifyChunk(ctx context.Context, filename, text string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser, ok := l.parsers[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		l.logger.Warn("no parser for file", zap.String("file", filename))
		return nil, nil
	}

	doc, err := parser.Parse(ctx, filename, []byte(text))
	if err != nil {
		var parseErr *syntax.ParseError
		if !errors.As(err, &parseErr) {
			return nil, err
		}
		l.logger.Warn("parse failed", zap.String("file", filename), zap.Error(err))
		return []Message{{
			RuleID:   RuleIDParseError,
			Severity: SeverityError,
			Message:  "Parsing error: " + parseErr.Err.Error(),
			Line:     parseErr.Pos.Line,
			Column:   parseErr.Pos.Column,
			Fatal:    true,
		}}, nil
	}

	var messages []Message
	visitors := make([]Visitor, 0, len(l.rules))
	for _, r := range l.rules {
		rc := &RuleContext{
			ID:       r.id,
			Filename: filename,
			Options:  r.config.Options,
			Settings: r.config.Settings,
			severity: r.config.Severity,
			messages: &messages,
		}
		if v := r.rule.Create(rc); v != nil {
			visitors = append(visitors, v)
		}
	}

	syntax.Inspect(doc, func(n syntax.Node) bool {
		for _, v := range visitors {
			v.Visit(n)
		}
		return true
	})

	l.logger.Debug("verified chunk",
		zap.String("file", filename),
		zap.Int("rules", len(visitors)),
		zap.Int("messages", len(messages)))
	return messages, nil
}

// LintFile reads and verifies a single file.
func (l *Linter) LintFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	messages, err := l.Verify(ctx, path, string(data))
	if err != nil {
		return Result{}, fmt.Errorf("verify %s: %w", path, err)
	}
	return newResult(path, messages), nil
}

// LintFiles discovers files under paths and verifies them concurrently.
// Results are sorted by path; files without messages are included.
func (l *Linter) LintFiles(ctx context.Context, paths []string) ([]Result, error) {
	files, err := Discover(paths, l.matcher, l.Lintable)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("discovered files", zap.Int("count", len(files)))

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, path := range files {
		g.Go(func() error {
			r, err := l.LintFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
