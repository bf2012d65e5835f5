package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string
	MetricsAddr     string
	StoreDriver     string
	MongoURI        string
	MongoDB         string
	MongoCollection string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	CacheTTL        time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
	RequestTimeout  time.Duration
	SeedFile        string
	SeedWorkers     int
	SeedAPIKey      string
}

// LoadDotEnv merges KEY=VALUE files into the process environment. Variables
// already set win. With no paths it reads ./.env; a missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	return godotenv.Load(paths...)
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		StoreDriver:     strings.ToLower(env("STORE_DRIVER", DriverMongo)),
		MongoURI:        env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         env("MONGO_DB", "hotels"),
		MongoCollection: env("MONGO_COLLECTION", "hotels"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		RateLimitRPS:    atoi("RATE_LIMIT_RPS", 0),
		RateLimitBurst:  atoi("RATE_LIMIT_BURST", 0),
		RequestTimeout:  time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		SeedFile:        env("SEED_FILE", "hotels.json"),
		SeedWorkers:     atoi("SEED_WORKERS", 8),
		SeedAPIKey:      os.Getenv("SEED_API_KEY"),
	}
	switch c.StoreDriver {
	case DriverMongo, DriverMySQL, DriverMemory:
	default:
		log.Warn().Str("driver", c.StoreDriver).Msg("unknown STORE_DRIVER, falling back to mongo")
		c.StoreDriver = DriverMongo
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		c.RateLimitBurst = c.RateLimitRPS
	}
	if c.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty, query cache disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
