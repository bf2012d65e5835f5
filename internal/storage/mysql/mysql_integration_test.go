//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_indexes/internal/domain"
	"hotel_indexes/internal/storage"
	mysqlrepo "hotel_indexes/internal/storage/mysql"
)

// ---------- the test ----------
func TestRepo_MySQL_InsertAndQuery(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotels",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "hotels")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}

	repo := mysqlrepo.New(db)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })
	ctx := context.Background()

	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := storage.Bootstrap(ctx, repo); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	// Arrange
	for _, h := range []domain.Hotel{
		{Name: "Sunset Resort", Location: "California", Price: 200, Rooms: 50, Description: "A beautiful beachfront resort"},
		{Name: "Desert Motel", Location: "Nevada", Price: 60, Rooms: 12},
		{Name: "Lowercase Lodge", Location: "california", Price: 200, Rooms: 8},
	} {
		if _, err := repo.Insert(ctx, h); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	// Assert
	got, err := repo.Find(ctx, domain.HotelFilter{Kind: domain.FilterLocation, Location: "California"})
	if err != nil || len(got) != 1 || got[0].Name != "Sunset Resort" {
		t.Fatalf("single-field (case-sensitive): %v %+v", err, got)
	}

	got, err = repo.Find(ctx, domain.HotelFilter{Kind: domain.FilterLocationPrice, Location: "Nevada", Price: 60})
	if err != nil || len(got) != 1 || got[0].Description != "" {
		t.Fatalf("compound: %v %+v", err, got)
	}

	got, err = repo.Find(ctx, domain.HotelFilter{Kind: domain.FilterText, Search: "beachfront"})
	if err != nil || len(got) != 1 {
		t.Fatalf("text: %v %+v", err, got)
	}

	for i := 0; i < 2; i++ {
		if _, err := repo.EnsureIndex(ctx, storage.PriceIndex); err != nil {
			t.Fatalf("EnsureIndex #%d: %v", i, err)
		}
	}
	got, err = repo.Find(ctx, domain.HotelFilter{Kind: domain.FilterPriceRange, Op: domain.CmpGT, Price: 100})
	if err != nil || len(got) != 2 {
		t.Fatalf("dynamic: %v %+v", err, got)
	}

	ixs, err := repo.ListIndexes(ctx)
	if err != nil {
		t.Fatalf("ListIndexes: %v", err)
	}
	seen := map[string]domain.IndexKind{}
	for _, ix := range ixs {
		seen[ix.Name] = ix.Kind
	}
	if seen["name_text_description_text"] != domain.IndexText || seen["location_1_price_1"] != domain.IndexCompound || seen["price_1"] != domain.IndexSingle {
		t.Fatalf("unexpected index metadata: %+v", ixs)
	}
}
