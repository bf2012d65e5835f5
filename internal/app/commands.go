package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_indexes/internal/domain"
)

type HotelService struct {
	validator *Validator
	store     domain.HotelStore
	cache     domain.Cache
}

func NewHotelService(v *Validator, st domain.HotelStore, c domain.Cache) *HotelService {
	return &HotelService{validator: v, store: st, cache: c}
}

// Create validates payload and persists it. A rejected payload never
// reaches the store.
func (s *HotelService) Create(ctx context.Context, payload map[string]any) (domain.Hotel, error) {
	h, err := s.validator.Validate(payload)
	if err != nil {
		return domain.Hotel{}, err
	}

	id, err := s.store.Insert(ctx, h)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("insert hotel: %w", err)
	}
	h.ID = id

	// New record may belong to any cached result set.
	if s.cache != nil {
		bumpGeneration(ctx, s.cache)
	}

	log.Debug().Str("id", id).Str("location", h.Location).Msg("hotel created")
	return h, nil
}
