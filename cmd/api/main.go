package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotel_indexes/internal/adapters/http_server"
	"hotel_indexes/internal/adapters/observability"
	redisad "hotel_indexes/internal/adapters/redis"
	"hotel_indexes/internal/app"
	"hotel_indexes/internal/domain"
	"hotel_indexes/internal/shared"
	"hotel_indexes/internal/storage"
)

func main() {
	if err := shared.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("reading .env failed, using process environment")
	}
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// store: acquired once, released on shutdown
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := storage.Open(openCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store failed")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("close store failed")
		}
	}()

	// cache is optional
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, query cache disabled")
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	// deps
	validator := app.MustValidator()
	hotels := app.NewHotelService(validator, st, cache)
	q := app.NewQueryService(st, cache, cfg.CacheTTL)

	// http
	srv := server.New(server.Options{
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Hotels: hotels, Q: q})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}
}
