package app_test

import (
	"context"
	"testing"
	"time"

	"hotel_indexes/internal/app"
	"hotel_indexes/internal/domain"
)

func TestCreate_RejectedPayloadIsNotPersisted(t *testing.T) {
	st := &fakeStore{}
	svc := app.NewHotelService(app.MustValidator(), st, nil)

	for _, p := range []map[string]any{
		without("name"),
		with("name", ""),
		without("location"),
		with("location", " "),
	} {
		if _, err := svc.Create(context.Background(), p); err == nil {
			t.Fatalf("expected rejection for %v", p)
		} else if _, ok := domain.IsValidation(err); !ok {
			t.Fatalf("expected validation error, got %v", err)
		}
	}
	if st.inserts != 0 {
		t.Fatalf("rejected payloads reached the store %d times", st.inserts)
	}
}

func TestCreate_AssignsIDAndIsQueryable(t *testing.T) {
	st := &fakeStore{}
	svc := app.NewHotelService(app.MustValidator(), st, nil)
	q := app.NewQueryService(st, nil, 0)
	ctx := context.Background()

	h, err := svc.Create(ctx, validPayload())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.ID == "" {
		t.Fatalf("expected an id")
	}

	out, err := q.Query(ctx, app.PathSingleField, params("location", "California"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	found := false
	for _, x := range out {
		found = found || x.ID == h.ID
	}
	if !found {
		t.Fatalf("created hotel %s not in %+v", h.ID, out)
	}
}

func TestCreate_InvalidatesCachedQueries(t *testing.T) {
	st := &fakeStore{}
	cache := &fakeCache{}
	svc := app.NewHotelService(app.MustValidator(), st, cache)
	q := app.NewQueryService(st, cache, time.Minute)
	ctx := context.Background()

	out, err := q.Query(ctx, app.PathSingleField, params("location", "California"))
	if err != nil || len(out) != 0 {
		t.Fatalf("warm-up query: %v %+v", err, out)
	}

	if _, err := svc.Create(ctx, validPayload()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err = q.Query(ctx, app.PathSingleField, params("location", "California"))
	if err != nil || len(out) != 1 {
		t.Fatalf("expected fresh result after create, got %+v (%v)", out, err)
	}
}
