package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smartpark/portal/internal/backend"
	"github.com/smartpark/portal/internal/config"
	internalhttp "github.com/smartpark/portal/internal/http"
	"github.com/smartpark/portal/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("portal encerrado com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	api, err := backend.NewAPI(cfg.AuthAPIURL, cfg.BackendAPIURL, cfg.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	// Sem Redis configurado as sessões ficam em memória e morrem com o
	// processo.
	var store session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient)
		log.Info().Msg("sessões no Redis")
	}

	sessoes := session.NewManager(api.Auth, store, cfg.SessionTTL)
	handler := internalhttp.NewRouter(cfg, sessoes, api)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("portal ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
