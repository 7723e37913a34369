package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/task"
)

// Server serves one task store over MCP.
type Server struct {
	mcp     *mcp.Server
	store   *task.Store
	tools   *ToolRegistry
	metrics *Metrics
	logger  *zap.Logger
	taskOps []task.Option
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "qtask")
	Name string

	// Version is the server version (default: "dev")
	Version string

	Logger *zap.Logger

	// MeterProvider receives tool metrics. Nil uses the global provider.
	MeterProvider metric.MeterProvider

	// TaskOptions are applied to every task the server creates.
	TaskOptions []task.Option
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "qtask",
		Version: "dev",
		Logger:  zap.NewNop(),
	}
}

// NewServer creates an MCP server over store.
func NewServer(cfg *Config, store *task.Store) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if store == nil {
		return nil, fmt.Errorf("task store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = "qtask"
	}

	s := &Server{
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    cfg.Name,
				Version: cfg.Version,
			},
			nil,
		),
		store:   store,
		tools:   NewToolRegistry(),
		metrics: NewMetrics(cfg.MeterProvider, cfg.Logger),
		logger:  cfg.Logger,
		taskOps: cfg.TaskOptions,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	return s, nil
}

// Tools returns the metadata of every registered tool.
func (s *Server) Tools() *ToolRegistry {
	return s.tools
}

// Run serves on the stdio transport until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunTransport(ctx, &mcp.StdioTransport{})
}

// RunTransport serves on t.
func (s *Server) RunTransport(ctx context.Context, t mcp.Transport) error {
	s.logger.Info("starting MCP server", zap.Int("tools", s.tools.Count()))
	if err := s.mcp.Run(ctx, t); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}
