package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_indexes/internal/domain"
	"hotel_indexes/internal/shared"
	"hotel_indexes/internal/storage/memory"
	"hotel_indexes/internal/storage/mongostore"
	mysqlrepo "hotel_indexes/internal/storage/mysql"
)

// Open connects the configured driver and applies the declared indexes.
// The caller owns the returned store and must Close it.
func Open(ctx context.Context, cfg shared.Config) (domain.HotelStore, error) {
	var st domain.HotelStore

	switch cfg.StoreDriver {
	case shared.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on exit")
		st = memory.New()

	case shared.DriverMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db.Ping: %w", err)
		}
		repo := mysqlrepo.New(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		st = repo

	default:
		m, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		st = m
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("store connection ok")

	if err := Bootstrap(ctx, st); err != nil {
		_ = st.Close(ctx)
		return nil, err
	}
	return st, nil
}
