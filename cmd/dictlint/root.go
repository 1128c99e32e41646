package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dkoosis/dictlint/pkg/config"
	"github.com/dkoosis/dictlint/pkg/lint"
	"github.com/dkoosis/dictlint/pkg/logging"
	"github.com/dkoosis/dictlint/pkg/plugin"
	"github.com/dkoosis/dictlint/pkg/report"
	"github.com/dkoosis/dictlint/pkg/sarif"
	"github.com/dkoosis/dictlint/pkg/syntax/jsonparse"
	"github.com/dkoosis/dictlint/pkg/syntax/jsparse"
)

// version is set at build time.
var version = "dev"

// errProblems signals that lint reported error-level messages.
var errProblems = errors.New("problems found")

// Exit codes.
const (
	exitOK       = 0
	exitProblems = 1
	exitFailure  = 2
)

var availablePlugins = map[string]func() *lint.Plugin{
	plugin.Name: plugin.New,
}

// app holds the state shared by all commands.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	format     string
	logLevel   string
	logFormat  string

	env    config.Env
	cfg    *config.File
	logger *zap.Logger
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{out: stdout, errOut: stderr, logger: zap.NewNop()}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	_ = a.logger.Sync()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errProblems):
		return exitProblems
	default:
		fmt.Fprintf(stderr, "dictlint: %v\n", err)
		return exitFailure
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dictlint",
		Short: "Check translation dictionaries against a reference key list",
		Long: `dictlint verifies that every object literal in translation dictionaries
carries exactly the keys of a reference list and reports missing or
unnecessary keys.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to the config file (default "+config.DefaultFileName+")")
	flags.StringVar(&a.format, "format", "", "output format: text, json or sarif")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(
		a.lintCmd(),
		a.watchCmd(),
		a.keysCmd(),
		a.translateCmd(),
		a.rulesCmd(),
	)
	return root
}

// setup resolves flags over environment over config file and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	a.env = env

	level := firstNonEmpty(a.logLevel, env.LogLevel)
	format := firstNonEmpty(a.logFormat, env.LogFormat)
	logger, err := logging.New(a.errOut, logging.Options{Level: level, Format: format})
	if err != nil {
		return err
	}
	a.logger = logger.With(zap.String("command", cmd.Name()))

	cfg, err := config.Load(firstNonEmpty(a.configPath, env.Config))
	if err != nil {
		return err
	}
	if err := cfg.Apply(env); err != nil {
		return err
	}
	if a.format != "" {
		cfg.Format = a.format
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded",
		zap.String("dir", cfg.Dir),
		zap.Int("rules", len(cfg.Rules)),
		zap.String("format", cfg.Format))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parsers maps lowercased extensions to the parser handling them.
func parsers() map[string]lint.Parser {
	m := map[string]lint.Parser{}
	for _, ext := range (jsonparse.Parser{}).Extensions() {
		m[ext] = jsonparse.Parser{}
	}
	for _, ext := range (jsparse.Parser{}).Extensions() {
		m[ext] = jsparse.Parser{}
	}
	return m
}

func parserFor(path string) (lint.Parser, bool) {
	p, ok := parsers()[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

func (a *app) plugins() ([]*lint.Plugin, error) {
	out := make([]*lint.Plugin, 0, len(a.cfg.Plugins))
	for _, name := range a.cfg.Plugins {
		newPlugin, ok := availablePlugins[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown plugin %q", config.ErrInvalidConfig, name)
		}
		out = append(out, newPlugin())
	}
	return out, nil
}

func (a *app) newLinter(ctx context.Context) (*lint.Linter, []*lint.Plugin, error) {
	plugins, err := a.plugins()
	if err != nil {
		return nil, nil, err
	}
	lc, err := a.cfg.LintConfig(ctx, parserFor)
	if err != nil {
		return nil, nil, err
	}

	opts := []lint.Option{lint.WithLogger(a.logger)}
	for ext, p := range parsers() {
		opts = append(opts, lint.WithParser(p, ext))
	}
	l, err := lint.New(lc, plugins, opts...)
	if err != nil {
		return nil, nil, err
	}
	return l, plugins, nil
}

func (a *app) reporter(plugins []*lint.Plugin) (*report.Reporter, error) {
	format, err := report.ParseFormat(a.cfg.Format)
	if err != nil {
		return nil, err
	}

	driver := sarif.Driver{Name: "dictlint", Version: version}
	for _, p := range plugins {
		for name, r := range p.Rules {
			driver.Rules = append(driver.Rules, sarif.ReportingDescriptor{
				ID:               lint.RuleID(p.Name, name),
				ShortDescription: sarif.Message{Text: r.Meta().Description},
			})
		}
	}
	sort.Slice(driver.Rules, func(i, j int) bool { return driver.Rules[i].ID < driver.Rules[j].ID })

	return report.NewReporter(a.out, format, report.WithDriver(driver)), nil
}
