package domain

import "context"

type HotelStore interface {
	// Write path
	Insert(ctx context.Context, h Hotel) (string, error)

	// Read path
	Find(ctx context.Context, f HotelFilter) ([]Hotel, error)

	// Index metadata. EnsureIndex reports whether it actually created the
	// index; an existing index with the same name is left alone.
	EnsureIndex(ctx context.Context, spec IndexSpec) (bool, error)
	ListIndexes(ctx context.Context) ([]IndexSpec, error)

	Close(ctx context.Context) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type IndexKind string

const (
	IndexSingle   IndexKind = "single"
	IndexCompound IndexKind = "compound"
	IndexText     IndexKind = "text"
)

type IndexSpec struct {
	Name   string    `json:"name"`
	Kind   IndexKind `json:"kind"`
	Fields []string  `json:"fields"`
}
