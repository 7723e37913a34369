package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/dashboard"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the terminal dashboard (default)",
		Long: `Open the terminal dashboard for a fresh session.

Tasks live only as long as the process; quitting discards them.
Logs are written to logging.file, or ~/.config/qtask/dashboard.log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), opts)
		},
	}
}

func runDashboard(ctx context.Context, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx, opts, "dashboard", true)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	store := task.NewStore()
	model := dashboard.NewModel(store, dashboard.OptionsFromConfig(a.cfg.Dashboard, a.logger))

	a.logger.Info(ctx, "dashboard started", zap.String("version", version))
	if err := dashboard.Run(ctx, model); err != nil {
		a.logger.Error(ctx, "dashboard exited with error", zap.Error(err))
		return err
	}
	a.logger.Info(ctx, "dashboard closed", zap.Int("tasks", store.Len()))
	return nil
}
