package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port      string
	DBDSN     string
	JWTSecret string
	TokenTTL  time.Duration
	CacheTTL  time.Duration
	RateLimit int           // requests allowed per client per window
	RateWin   time.Duration // fixed rate-limit window
	RedisAddr string        // empty = in-memory cache
	LogFile   string
}

func Load() Config {
	cfg := Config{
		Port:      getenv("PORT", "8080"),
		DBDSN:     getenv("DB_DSN", "storefront.db"),
		JWTSecret: getenv("JWT_SECRET", "dev-only-secret"),
		TokenTTL:  time.Duration(getint("TOKEN_TTL_MIN", 60)) * time.Minute,
		CacheTTL:  time.Duration(getint("CACHE_TTL_SEC", 30)) * time.Second,
		RateLimit: getint("RATE_LIMIT", 60),
		RateWin:   time.Duration(getint("RATE_WINDOW_SEC", 60)) * time.Second,
		RedisAddr: os.Getenv("REDIS_ADDR"),
		LogFile:   os.Getenv("LOG_FILE"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s TOKEN_TTL=%s CACHE_TTL=%s RATE_LIMIT=%d/%s REDIS_ADDR=%s",
		cfg.Port, cfg.DBDSN, cfg.TokenTTL, cfg.CacheTTL, cfg.RateLimit, cfg.RateWin, cfg.RedisAddr)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Printf("[config] bad %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
