package app

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"hotel_indexes/internal/adapters/observability"
	"hotel_indexes/internal/domain"
	"hotel_indexes/internal/storage"
)

const (
	generationKey = "hotels:gen"

	defaultEnsureTimeout = 30 * time.Second
)

type QueryService struct {
	store    domain.HotelStore
	cache    domain.Cache
	cacheTTL time.Duration

	sf            singleflight.Group
	ensured       sync.Map // index name -> struct{}
	ensureTimeout time.Duration
}

// NewQueryService takes an optional cache; nil or a zero ttl disables caching.
func NewQueryService(st domain.HotelStore, c domain.Cache, ttl time.Duration) *QueryService {
	if ttl <= 0 {
		c = nil
	}
	return &QueryService{store: st, cache: c, cacheTTL: ttl, ensureTimeout: defaultEnsureTimeout}
}

// Query builds the filter for path and runs it.
func (s *QueryService) Query(ctx context.Context, path QueryPath, params url.Values) ([]domain.Hotel, error) {
	f, err := BuildFilter(path, params)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, f)
}

// Find always returns a non-nil slice on success.
func (s *QueryService) Find(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	if f.Kind == domain.FilterPriceRange {
		// The query is correct without the index, so a failure here is
		// logged and the read goes ahead.
		if _, err := s.EnsureIndex(ctx, storage.PriceIndex); err != nil {
			log.Warn().Err(err).Str("index", storage.PriceIndex.Name).Msg("lazy index creation failed")
		}
	}

	var key string
	if s.cache != nil {
		key = fmt.Sprintf("hotels:%d:%s", generation(ctx, s.cache), cacheKey(f))
		var cached []domain.Hotel
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			if cached == nil {
				cached = []domain.Hotel{}
			}
			return cached, nil
		} else if err != nil {
			observability.ObserveCache("query", "error")
			log.Debug().Err(err).Str("key", key).Msg("cache get failed")
		}
	}

	hs, err := s.store.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("find hotels (%s): %w", f.Kind, err)
	}
	if hs == nil {
		hs = []domain.Hotel{}
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, hs, int(s.cacheTTL.Seconds())); err != nil {
			observability.ObserveCache("query", "error")
			log.Debug().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return hs, nil
}

// EnsureIndex creates spec on the store at most once per process.
// Concurrent callers share a single store round trip, and the store
// itself checks existing index metadata before creating.
func (s *QueryService) EnsureIndex(ctx context.Context, spec domain.IndexSpec) (bool, error) {
	if _, ok := s.ensured.Load(spec.Name); ok {
		return false, nil
	}
	v, err, _ := s.sf.Do(spec.Name, func() (any, error) {
		if _, ok := s.ensured.Load(spec.Name); ok {
			return false, nil
		}
		// detached: one caller's cancellation must not fail the others,
		// but a stalled store still gets a deadline
		ectx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.ensureTimeout)
		defer cancel()
		created, err := s.store.EnsureIndex(ectx, spec)
		if err != nil {
			observability.ObserveIndexEnsure(spec.Name, "error")
			return false, fmt.Errorf("ensure index %s: %w", spec.Name, err)
		}
		s.ensured.Store(spec.Name, struct{}{})
		if created {
			observability.ObserveIndexEnsure(spec.Name, "created")
			log.Info().Str("index", spec.Name).Strs("fields", spec.Fields).Msg("index created on demand")
		} else {
			observability.ObserveIndexEnsure(spec.Name, "exists")
		}
		return created, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (s *QueryService) Indexes(ctx context.Context) ([]domain.IndexSpec, error) {
	out, err := s.store.ListIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	if out == nil {
		out = []domain.IndexSpec{}
	}
	return out, nil
}

// generation is folded into every query cache key; bumping it on write
// orphans all previously cached results.
func generation(ctx context.Context, c domain.Cache) int64 {
	var g int64
	if ok, err := c.Get(ctx, generationKey, &g); err != nil || !ok {
		return 0
	}
	return g
}

func bumpGeneration(ctx context.Context, c domain.Cache) {
	if err := c.Set(ctx, generationKey, time.Now().UnixNano(), 0); err != nil {
		observability.ObserveCache("query", "error")
		log.Warn().Err(err).Msg("query cache invalidation failed")
	}
}
