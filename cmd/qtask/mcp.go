package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/mcp"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve one task session as MCP tools over stdio",
		Long: `Serve one task session as MCP tools over stdio.

Stdout carries the protocol, so logs go to logging.file or
~/.config/qtask/mcp.log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd.Context(), opts)
		},
	}
}

func runMCP(ctx context.Context, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx, opts, "mcp", true)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	srv, err := mcp.NewServer(&mcp.Config{
		Name:          "qtask",
		Version:       version,
		Logger:        a.logger.Underlying(),
		MeterProvider: a.tel.MeterProvider(),
	}, task.NewStore())
	if err != nil {
		return err
	}

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		a.logger.Error(ctx, "mcp server stopped", zap.Error(err))
		return err
	}
	return nil
}
