package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORE_DRIVER", "HTTP_ADDR", "CACHE_TTL_SECONDS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.StoreDriver != DriverMongo {
		t.Fatalf("driver: got %q", c.StoreDriver)
	}
	if c.HTTPAddr != ":8080" {
		t.Fatalf("addr: got %q", c.HTTPAddr)
	}
	if c.CacheTTL != time.Minute {
		t.Fatalf("ttl: got %v", c.CacheTTL)
	}
	if c.RateLimitRPS != 0 || c.RateLimitBurst != 0 {
		t.Fatalf("rate limit should be off by default: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MySQL")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("RATE_LIMIT_RPS", "20")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("SEED_WORKERS", "not-a-number")

	c := Load()
	if c.StoreDriver != DriverMySQL {
		t.Fatalf("driver: got %q", c.StoreDriver)
	}
	if c.CacheTTL != 5*time.Second {
		t.Fatalf("ttl: got %v", c.CacheTTL)
	}
	if c.RateLimitBurst != 20 {
		t.Fatalf("burst should default to rps, got %d", c.RateLimitBurst)
	}
	if c.SeedWorkers != 8 {
		t.Fatalf("bad int should fall back to default, got %d", c.SeedWorkers)
	}
}

func TestLoad_UnknownDriverFallsBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")
	if c := Load(); c.StoreDriver != DriverMongo {
		t.Fatalf("driver: got %q", c.StoreDriver)
	}
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("HOTELS_TEST_FROM_FILE=file\nHOTELS_TEST_PRESET=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOTELS_TEST_PRESET", "process")
	t.Cleanup(func() { _ = os.Unsetenv("HOTELS_TEST_FROM_FILE") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("HOTELS_TEST_FROM_FILE"); got != "file" {
		t.Fatalf("from file: got %q", got)
	}
	if got := os.Getenv("HOTELS_TEST_PRESET"); got != "process" {
		t.Fatalf("preset var overridden: got %q", got)
	}
}

func TestLoadDotEnv_MissingExplicitFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatalf("expected error for missing explicit file")
	}
}
