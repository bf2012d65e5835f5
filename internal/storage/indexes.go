// Package storage holds what every hotel store driver shares: the index
// declarations applied at startup and the bootstrap that applies them.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_indexes/internal/adapters/observability"
	"hotel_indexes/internal/domain"
)

const Collection = "hotels"

var (
	LocationIndex = domain.IndexSpec{Name: "location_1", Kind: domain.IndexSingle, Fields: []string{"location"}}
	CompoundIndex = domain.IndexSpec{Name: "location_1_price_1", Kind: domain.IndexCompound, Fields: []string{"location", "price"}}
	TextIndex     = domain.IndexSpec{Name: "name_text_description_text", Kind: domain.IndexText, Fields: []string{"name", "description"}}

	// PriceIndex is not declared up front; the price-range query path
	// creates it on first use.
	PriceIndex = domain.IndexSpec{Name: "price_1", Kind: domain.IndexSingle, Fields: []string{"price"}}
)

// Declared returns the indexes created once when a store is opened.
func Declared() []domain.IndexSpec {
	return []domain.IndexSpec{LocationIndex, CompoundIndex, TextIndex}
}

// Lookup resolves a known index by name.
func Lookup(name string) (domain.IndexSpec, error) {
	for _, s := range append(Declared(), PriceIndex) {
		if s.Name == name {
			return s, nil
		}
	}
	return domain.IndexSpec{}, fmt.Errorf("%w: %s", domain.ErrUnknownIndex, name)
}

// Bootstrap ensures every declared index exists on st.
func Bootstrap(ctx context.Context, st domain.HotelStore) error {
	for _, spec := range Declared() {
		created, err := st.EnsureIndex(ctx, spec)
		if err != nil {
			observability.ObserveIndexEnsure(spec.Name, "error")
			return fmt.Errorf("ensure index %s: %w", spec.Name, err)
		}
		outcome := "exists"
		if created {
			outcome = "created"
		}
		observability.ObserveIndexEnsure(spec.Name, outcome)
		log.Info().Str("index", spec.Name).Str("kind", string(spec.Kind)).Str("outcome", outcome).Msg("index ready")
	}
	return nil
}
