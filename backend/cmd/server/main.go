package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ollama-tools/backend/internal/ollama"
	"ollama-tools/backend/internal/tools"
	"ollama-tools/backend/internal/transport"
	"ollama-tools/backend/pkg/config"
	"ollama-tools/backend/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Ollama tools server...",
		zap.String("env", cfg.Env),
	)

	client := ollama.NewClient(newTransport(cfg), cfg.OllamaAPIKey.Value(), cfg.OllamaEndpoint)
	log.Info("Ollama client ready",
		zap.String("endpoint", client.Endpoint()),
		zap.Bool("scoped_client", cfg.OllamaScopedClient),
		zap.Bool("api_key_set", cfg.OllamaAPIKey.Value() != ""),
	)

	registry := tools.NewRegistry()
	if err := tools.RegisterWebTools(registry, client); err != nil {
		log.Fatal("Failed to register web tools", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(registry, log, client.SourceCollection()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, srv, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	log.Info("Server exited")
}

// newTransport builds either a client scoped to the endpoint, carrying the
// key itself, or a plain client that gets the key per request.
func newTransport(cfg *config.Config) transport.Transport {
	if cfg.OllamaScopedClient {
		return transport.PreScoped(transport.NewRestyDoer(
			transport.NewScopedClient(cfg.OllamaEndpoint, cfg.OllamaAPIKey.Value(), cfg.HTTPTimeout),
		))
	}
	return transport.Plain(transport.NewRestyDoer(transport.NewPlainClient(cfg.HTTPTimeout)))
}

// run serves until ctx is done, then shuts the server down gracefully.
func run(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
