package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_indexes/internal/domain"
)

type SeedReport struct {
	Created  int
	Rejected int
	Failed   int
}

// Seeder bulk-creates hotels through the same validation as the API.
type Seeder struct {
	hotels  *HotelService
	workers int
}

func NewSeeder(h *HotelService, workers int) *Seeder {
	if workers <= 0 {
		workers = 1
	}
	return &Seeder{hotels: h, workers: workers}
}

// DecodePayloads reads a JSON array of hotel objects.
func DecodePayloads(r io.Reader) ([]map[string]any, error) {
	var out []map[string]any
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return out, nil
}

// Run creates every payload with at most s.workers in flight. Rejected
// payloads are counted and skipped; a cancelled ctx stops scheduling.
func (s *Seeder) Run(ctx context.Context, payloads []map[string]any) (SeedReport, error) {
	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		rep SeedReport
	)

	for i, p := range payloads {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return rep, err
		}

		wg.Add(1)
		go func(idx int, payload map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := s.hotels.Create(ctx, payload)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				rep.Created++
				log.Debug().Int("row", idx).Str("id", h.ID).Msg("seed ok")
			default:
				if ve, ok := domain.IsValidation(err); ok {
					rep.Rejected++
					log.Warn().Int("row", idx).Interface("fields", ve.Fields).Msg("seed row rejected")
					return
				}
				rep.Failed++
				log.Warn().Int("row", idx).Err(err).Msg("seed row failed")
			}
		}(i, p)
	}

	wg.Wait()
	return rep, nil
}
