package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_indexes/internal/adapters/observability"
	redisad "hotel_indexes/internal/adapters/redis"
	"hotel_indexes/internal/adapters/seedsource"
	"hotel_indexes/internal/app"
	"hotel_indexes/internal/domain"
	"hotel_indexes/internal/shared"
	"hotel_indexes/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := shared.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("reading .env failed, using process environment")
	}
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	file := cfg.SeedFile
	if len(os.Args) > 1 {
		file = os.Args[1]
	}
	log.Info().
		Str("file", file).
		Str("driver", cfg.StoreDriver).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	payloads, err := loadPayloads(ctx, file, cfg.SeedAPIKey)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("load seed payloads failed")
	}

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := storage.Open(openCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("open store failed")
	}
	defer st.Close(context.Background())

	// shared query cache: each created row bumps the generation the API
	// instances key their cached results on
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, cached API results may be stale until they expire")
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	seeder := app.NewSeeder(app.NewHotelService(app.MustValidator(), st, cache), cfg.SeedWorkers)
	rep, err := seeder.Run(ctx, payloads)
	if err != nil {
		log.Error().Err(err).Msg("seeding interrupted")
	}
	log.Info().
		Int("created", rep.Created).
		Int("rejected", rep.Rejected).
		Int("failed", rep.Failed).
		Msg("seeding completed")
}

// loadPayloads reads a local JSON file or fetches a remote one.
func loadPayloads(ctx context.Context, src, apiKey string) ([]map[string]any, error) {
	if seedsource.IsRemote(src) {
		return seedsource.New(apiKey, 5).Fetch(ctx, src)
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return app.DecodePayloads(f)
}
