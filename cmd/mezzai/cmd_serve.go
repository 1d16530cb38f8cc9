package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pmezzich/MezzAI-Backend/internal/config"
	"github.com/pmezzich/MezzAI-Backend/internal/gateway"
	"github.com/pmezzich/MezzAI-Backend/internal/store"
	"github.com/pmezzich/MezzAI-Backend/pkg/llm"
	"github.com/pmezzich/MezzAI-Backend/pkg/llm/openai"
)

const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// newProvider returns the OpenAI client when an API key is configured and
// the Absent provider otherwise.
func newProvider(cfg *config.Config) llm.Provider {
	if cfg.OpenAI.APIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, chat and email routes will use local fallbacks")
		return llm.Absent{}
	}
	return openai.New(&llm.Config{
		BaseURL: cfg.OpenAI.BaseURL,
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
	})
}

func openStore(ctx context.Context, cfg *config.Config) (store.KeyValueStore, error) {
	return store.Open(ctx, store.Config{
		CredentialsJSON:   cfg.Firebase.ServiceAccountJSON,
		CredentialsBase64: cfg.Firebase.ServiceAccountBase64,
		DatabaseURL:       cfg.Firebase.DatabaseURL,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider := newProvider(cfg)
	kv, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           gateway.NewServer(provider, kv, gateway.Options{CORSOrigins: cfg.CORSOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("mezzai backend listening",
			"addr", srv.Addr,
			"llm_configured", provider.Configured(),
			"llm_model", cfg.OpenAI.Model,
			"log_level", cfg.LogLevel,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
