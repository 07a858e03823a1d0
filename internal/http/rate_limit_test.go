package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

// Minimal app with the real routes behind a tight limiter, the way the
// production wiring mounts it.
func newRateLimitedApp(t *testing.T, max int, window time.Duration) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Use(limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return apperr.TooManyRequests("rate limit exceeded, retry later")
		},
	}))

	cfg := config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour, CacheTTL: time.Minute}
	handlers.NewDeps(db, cfg, cache.NewMemory(0)).Register(app)
	return app
}

func TestRateLimitExceededAndReset(t *testing.T) {
	app := newRateLimitedApp(t, 3, time.Second)

	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, fiber.MethodGet, "/products", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d within the limit", i)
		resp.Body.Close()
	}

	// every request beyond the limit answers 429 with the stable code
	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, fiber.MethodGet, "/products", "", nil)
		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		require.Equal(t, string(apperr.KindTooManyRequests), errCode(t, resp))
	}

	// the count resets once the window elapses
	time.Sleep(1100 * time.Millisecond)
	resp := doJSON(t, app, fiber.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
