package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dkoosis/dictlint/pkg/lint"
	"github.com/dkoosis/dictlint/pkg/watch"
)

func (a *app) lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint dictionary files",
		Long: `Lints the given files and directories (default ".").
Exits with status 1 when an error-level problem is reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLint(cmd.Context(), args)
		},
	}
}

func (a *app) runLint(ctx context.Context, paths []string) error {
	l, plugins, err := a.newLinter(ctx)
	if err != nil {
		return err
	}
	rep, err := a.reporter(plugins)
	if err != nil {
		return err
	}

	results, err := l.LintFiles(ctx, paths)
	if err != nil {
		return err
	}
	if err := rep.Report(results); err != nil {
		return err
	}
	a.logger.Debug("lint finished", zap.Int("files", len(results)))

	if lint.HasErrors(results) {
		return errProblems
	}
	return nil
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Lint dictionary files and re-lint them when they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd.Context(), args)
		},
	}
}

func (a *app) runWatch(ctx context.Context, paths []string) error {
	l, plugins, err := a.newLinter(ctx)
	if err != nil {
		return err
	}
	rep, err := a.reporter(plugins)
	if err != nil {
		return err
	}

	relint := func(ctx context.Context, files []string) {
		results, err := l.LintFiles(ctx, files)
		if err != nil {
			a.logger.Warn("lint failed", zap.Error(err))
			return
		}
		if err := rep.Report(results); err != nil {
			a.logger.Warn("report failed", zap.Error(err))
		}
	}

	w, err := watch.New(paths, l.Lintable, relint, watch.WithLogger(a.logger))
	if err != nil {
		return err
	}

	relint(ctx, paths)
	a.logger.Info("watching for changes")
	return w.Run(ctx)
}
