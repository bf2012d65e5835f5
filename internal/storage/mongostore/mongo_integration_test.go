//go:build integration || !unit

package mongostore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_indexes/internal/domain"
	"hotel_indexes/internal/storage"
	"hotel_indexes/internal/storage/mongostore"
)

func startMongo(t *testing.T) *mongostore.Store {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := fmt.Sprintf("mongodb://127.0.0.1:%s", resource.GetPort("27017/tcp"))
	var st *mongostore.Store
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var e error
		st, e = mongostore.Connect(ctx, uri, "hotels_test", "hotels")
		return e
	}); err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}

func TestStore_Mongo_IndexedPaths(t *testing.T) {
	st := startMongo(t)
	ctx := context.Background()

	if err := storage.Bootstrap(ctx, st); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	// second bootstrap must be a no-op
	if err := storage.Bootstrap(ctx, st); err != nil {
		t.Fatalf("Bootstrap again: %v", err)
	}

	seed := []domain.Hotel{
		{Name: "Sunset Resort", Location: "California", Price: 200, Rooms: 50, Description: "A beautiful beachfront resort"},
		{Name: "Desert Motel", Location: "Nevada", Price: 60, Rooms: 12},
		{Name: "Harbor View", Location: "California", Price: 150, Rooms: 30, Description: "Rooms overlooking the marina"},
	}
	ids := map[string]bool{}
	for _, h := range seed {
		id, err := st.Insert(ctx, h)
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if id == "" || ids[id] {
			t.Fatalf("bad or duplicate id %q", id)
		}
		ids[id] = true
	}

	got, err := st.Find(ctx, domain.HotelFilter{Kind: domain.FilterLocation, Location: "California"})
	if err != nil || len(got) != 2 {
		t.Fatalf("single-field: %v %+v", err, got)
	}

	got, err = st.Find(ctx, domain.HotelFilter{Kind: domain.FilterLocation, Location: "Atlantis"})
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("empty single-field: %v %+v", err, got)
	}

	got, err = st.Find(ctx, domain.HotelFilter{Kind: domain.FilterLocationPrice, Location: "California", Price: 150})
	if err != nil || len(got) != 1 || got[0].Name != "Harbor View" {
		t.Fatalf("compound: %v %+v", err, got)
	}

	got, err = st.Find(ctx, domain.HotelFilter{Kind: domain.FilterText, Search: "beachfront"})
	if err != nil || len(got) != 1 || got[0].Name != "Sunset Resort" {
		t.Fatalf("text: %v %+v", err, got)
	}

	got, err = st.Find(ctx, domain.HotelFilter{Kind: domain.FilterPriceRange, Op: domain.CmpGT, Price: 100})
	if err != nil || len(got) != 2 {
		t.Fatalf("dynamic: %v %+v", err, got)
	}
	for _, h := range got {
		if h.Price <= 100 {
			t.Fatalf("price %v not > 100", h.Price)
		}
	}
}

func TestStore_Mongo_EnsureIndexConcurrent(t *testing.T) {
	st := startMongo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.EnsureIndex(ctx, storage.PriceIndex); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("EnsureIndex: %v", err)
	}

	created, err := st.EnsureIndex(ctx, storage.PriceIndex)
	if err != nil || created {
		t.Fatalf("re-ensure: created=%v err=%v", created, err)
	}

	ixs, err := st.ListIndexes(ctx)
	if err != nil {
		t.Fatalf("ListIndexes: %v", err)
	}
	n := 0
	for _, ix := range ixs {
		if ix.Name == storage.PriceIndex.Name {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected one price_1 index, got %d (%+v)", n, ixs)
	}
}
