package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

const adminPassword = "ChangeMe1!"

// newApp builds the real route table over a fresh in-memory database.
func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		CacheTTL:  time.Minute,
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg, cache.NewMemory(0))
	deps.Register(app)
	app.Use(func(c *fiber.Ctx) error { return apperr.NotFound("route") })

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// errCode pulls the stable code out of an error response body.
func errCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Error.Message)
	return body.Error.Code
}

func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	return login(t, app, "admin", adminPassword)
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/auth/login", "", fiber.Map{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

// newCustomerWithLogin provisions a customer + account over the API and
// returns (customerID, token).
func newCustomerWithLogin(t *testing.T, app *fiber.App, name, email, username string) (string, string) {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/customers", "", fiber.Map{
		"name": name, "email": email, "phone": "1234567890",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cust struct {
		ID string `json:"id"`
	}
	decode(t, resp, &cust)

	resp = doJSON(t, app, fiber.MethodPost, "/customers/"+cust.ID+"/accounts", adminToken(t, app), fiber.Map{
		"username": username, "password": "Str0ng!Pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	return cust.ID, login(t, app, username, "Str0ng!Pass")
}
