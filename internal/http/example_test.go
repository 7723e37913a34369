package http_test

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httpserver "github.com/fyrsmithlabs/qtask/internal/http"
	"github.com/fyrsmithlabs/qtask/internal/session"
)

// ExampleServer demonstrates wiring the HTTP server to a session registry.
func ExampleServer() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	promReg := prometheus.NewRegistry()
	limiter := httpserver.NewRateLimiter(5, 10)
	registry := session.NewRegistry(session.DefaultConfig(), session.NewMetrics(promReg), logger,
		session.WithExpireHook(limiter.Forget),
	)

	server, err := httpserver.NewServer(registry, logger, &httpserver.Config{
		Host:     "localhost",
		Port:     9191,
		Gatherer: promReg,
	}, httpserver.WithRateLimiter(limiter))
	if err != nil {
		fmt.Printf("Failed to create server: %v\n", err)
		return
	}

	go func() {
		if err := server.Start(); err != nil {
			fmt.Printf("Server stopped: %v\n", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
