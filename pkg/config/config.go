// Package config loads the dictlint configuration file and environment
// overrides and resolves them into a lint.Config.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/dictlint/pkg/lint"
	"github.com/dkoosis/dictlint/pkg/rules/matchdict"
)

// DefaultFileName is looked up in the working directory when no config path
// is given.
const DefaultFileName = ".dictlint.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DICTLINT_"

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// ErrInvalidConfig is returned for configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// File mirrors the on-disk configuration.
type File struct {
	Plugins     []string             `yaml:"plugins"`
	Processors  map[string]string    `yaml:"processors"`
	Rules       map[string]RuleEntry `yaml:"rules"`
	Files       []string             `yaml:"files"`
	Ignore      []string             `yaml:"ignore"`
	Concurrency int                  `yaml:"concurrency"`
	Format      string               `yaml:"format"`

	// Dir is the directory relative paths in the file are resolved against.
	Dir string `yaml:"-"`
}

// RuleEntry configures one rule.
type RuleEntry struct {
	Severity string `yaml:"severity"`
	Options  []any  `yaml:"options"`
	// ReferenceFile derives the first option from the keys of a dictionary
	// file.
	ReferenceFile string `yaml:"referenceFile"`
	// Mode is passed to the rule as the "mode" setting.
	Mode string `yaml:"mode"`
}

// Env holds the overrides read from DICTLINT_* variables.
type Env struct {
	Config      string `env:"CONFIG"`
	Format      string `env:"FORMAT"`
	Concurrency int    `env:"CONCURRENCY"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`
}

// LoadEnv reads overrides from the process environment.
func LoadEnv() (Env, error) {
	return loadEnv(env.Options{Prefix: EnvPrefix})
}

// LoadEnvFrom reads overrides from environ instead of the process
// environment.
func LoadEnvFrom(environ map[string]string) (Env, error) {
	return loadEnv(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func loadEnv(opts env.Options) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, opts); err != nil {
		return Env{}, fmt.Errorf("%w: environment: %v", ErrInvalidConfig, err)
	}
	return e, nil
}

// Default returns the configuration used when no file exists: the i18n
// plugin with its json processor and no rules enabled.
func Default() *File {
	return &File{
		Plugins:     []string{"i18n"},
		Processors:  map[string]string{".json": "i18n/json"},
		Rules:       map[string]RuleEntry{},
		Concurrency: lint.DefaultConcurrency,
		Format:      FormatText,
		Dir:         ".",
	}
}

// Load reads the configuration at path. An empty path falls back to
// DefaultFileName, and to Default when that file does not exist.
func Load(path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Decode parses YAML configuration from r, fills in defaults and validates
// the result.
func Decode(r io.Reader) (*File, error) {
	var cfg File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	def := Default()
	if cfg.Plugins == nil {
		cfg.Plugins = def.Plugins
	}
	if cfg.Processors == nil {
		cfg.Processors = def.Processors
	}
	if cfg.Rules == nil {
		cfg.Rules = def.Rules
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
	cfg.Dir = def.Dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Apply overlays non-empty environment overrides and revalidates.
func (f *File) Apply(e Env) error {
	if e.Format != "" {
		f.Format = e.Format
	}
	if e.Concurrency != 0 {
		f.Concurrency = e.Concurrency
	}
	return f.Validate()
}

// Validate reports the first problem found in f.
func (f *File) Validate() error {
	switch f.Format {
	case FormatText, FormatJSON, FormatSARIF:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, f.Format)
	}
	if f.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative", ErrInvalidConfig)
	}
	for ext := range f.Processors {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: processor key %q must be a file extension", ErrInvalidConfig, ext)
		}
	}
	for id, rule := range f.Rules {
		if _, err := lint.ParseSeverity(rule.Severity); err != nil {
			return fmt.Errorf("%w: rule %s: %v", ErrInvalidConfig, id, err)
		}
		switch rule.Mode {
		case "", matchdict.ModeLegacy, matchdict.ModeSymmetric:
		default:
			return fmt.Errorf("%w: rule %s: unknown mode %q", ErrInvalidConfig, id, rule.Mode)
		}
		if rule.ReferenceFile != "" && len(rule.Options) > 0 {
			return fmt.Errorf("%w: rule %s: options and referenceFile are mutually exclusive", ErrInvalidConfig, id)
		}
	}
	return nil
}

// ParserFor returns the parser for a file path, if any.
type ParserFor func(path string) (lint.Parser, bool)

// LintConfig resolves f into the configuration a lint.Linter runs with.
// Reference files are parsed with the parser parserFor selects.
func (f *File) LintConfig(ctx context.Context, parserFor ParserFor) (lint.Config, error) {
	cfg := lint.Config{
		Rules:       make(map[string]lint.RuleConfig, len(f.Rules)),
		Processors:  f.Processors,
		Files:       f.Files,
		Ignore:      f.Ignore,
		Concurrency: f.Concurrency,
	}

	for id, entry := range f.Rules {
		severity, err := lint.ParseSeverity(entry.Severity)
		if err != nil {
			return lint.Config{}, fmt.Errorf("%w: rule %s: %v", ErrInvalidConfig, id, err)
		}

		rc := lint.RuleConfig{Severity: severity, Options: entry.Options}
		if entry.Mode != "" {
			rc.Settings = map[string]string{"mode": entry.Mode}
		}

		if entry.ReferenceFile != "" {
			path := entry.ReferenceFile
			if !filepath.IsAbs(path) {
				path = filepath.Join(f.Dir, path)
			}
			parser, ok := parserFor(path)
			if !ok {
				return lint.Config{}, fmt.Errorf("%w: rule %s: no parser for reference file %s", ErrInvalidConfig, id, path)
			}
			list, err := matchdict.LoadDictionaryKeys(ctx, path, parser)
			if err != nil {
				return lint.Config{}, fmt.Errorf("rule %s: %w", id, err)
			}
			reference := make([]any, 0, len(list))
			for _, k := range list {
				reference = append(reference, k)
			}
			rc.Options = []any{reference}
		}

		cfg.Rules[id] = rc
	}
	return cfg, nil
}
