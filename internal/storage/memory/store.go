// Package memory is a process-local hotel store. It keeps insertion order
// as natural order and approximates the document store's text matching
// with lower-cased word tokens. There is no stemming or stop-word
// handling: "resorts" does not match "resort" here, while Mongo $text does.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"hotel_indexes/internal/adapters/observability"
	"hotel_indexes/internal/domain"
)

const driver = "memory"

var idIndex = domain.IndexSpec{Name: "_id_", Kind: domain.IndexSingle, Fields: []string{"_id"}}

type Store struct {
	mu      sync.RWMutex
	seq     uint64
	docs    []domain.Hotel
	indexes []domain.IndexSpec
}

func New() *Store {
	return &Store{indexes: []domain.IndexSpec{idIndex}}
}

func (s *Store) Insert(ctx context.Context, h domain.Hotel) (id string, err error) {
	defer observability.ObserveStore(driver, "insert", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	h.ID = fmt.Sprintf("%024x", s.seq)
	s.docs = append(s.docs, h)
	return h.ID, nil
}

func (s *Store) Find(ctx context.Context, f domain.HotelFilter) (out []domain.Hotel, err error) {
	defer observability.ObserveStore(driver, "find", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var match func(domain.Hotel) bool
	switch f.Kind {
	case domain.FilterLocation:
		match = func(h domain.Hotel) bool { return h.Location == f.Location }
	case domain.FilterLocationPrice:
		match = func(h domain.Hotel) bool { return h.Location == f.Location && h.Price == f.Price }
	case domain.FilterText:
		terms := tokens(f.Search)
		match = func(h domain.Hotel) bool {
			words := tokens(h.Name + " " + h.Description)
			for t := range terms {
				if _, ok := words[t]; ok {
					return true
				}
			}
			return false
		}
	case domain.FilterPriceRange:
		op := f.Op
		if op == "" {
			op = domain.CmpGT
		}
		if !op.Valid() {
			return nil, fmt.Errorf("memory: invalid comparison %q", op)
		}
		match = func(h domain.Hotel) bool { return compare(h.Price, op, f.Price) }
	default:
		return nil, fmt.Errorf("memory: unsupported filter kind %q", f.Kind)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out = []domain.Hotel{}
	for _, h := range s.docs {
		if match(h) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) EnsureIndex(ctx context.Context, spec domain.IndexSpec) (created bool, err error) {
	defer observability.ObserveStore(driver, "ensure_index", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ix := range s.indexes {
		if ix.Name == spec.Name {
			return false, nil
		}
		// mirrors the one-text-index-per-collection rule of the document store
		if spec.Kind == domain.IndexText && ix.Kind == domain.IndexText {
			return false, fmt.Errorf("memory: text index %s already exists", ix.Name)
		}
	}
	cp := spec
	cp.Fields = append([]string(nil), spec.Fields...)
	s.indexes = append(s.indexes, cp)
	return true, nil
}

func (s *Store) ListIndexes(ctx context.Context) ([]domain.IndexSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.IndexSpec, len(s.indexes))
	copy(out, s.indexes)
	return out, nil
}

func (s *Store) Close(context.Context) error { return nil }

func compare(v float64, op domain.Comparison, ref float64) bool {
	switch op {
	case domain.CmpGT:
		return v > ref
	case domain.CmpGTE:
		return v >= ref
	case domain.CmpLT:
		return v < ref
	case domain.CmpLTE:
		return v <= ref
	}
	return false
}

func tokens(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		out[w] = struct{}{}
	}
	return out
}
