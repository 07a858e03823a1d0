package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Listing cache: shared redis when configured, in-process otherwise
	var store cache.Store
	if cfg.RedisAddr != "" {
		log.Printf("[cache] redis %s", cfg.RedisAddr)
		store = cache.NewRedis(cfg.RedisAddr)
	} else {
		store = cache.NewMemory(cfg.CacheTTL)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: cfg.RateWin,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return apperr.TooManyRequests("rate limit exceeded, retry later")
		},
	}))
	// Tighter throttle on credential guessing
	app.Use("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return apperr.TooManyRequests("too many login attempts, retry later")
		},
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, cfg, store)
	deps.Register(app)

	app.Use(func(c *fiber.Ctx) error {
		return apperr.NotFound("route")
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
