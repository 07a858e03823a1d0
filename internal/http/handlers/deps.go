package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	AuthSvc *services.AuthService

	AuthHandler     *AuthHandler
	CustomerHandler *CustomerHandler
	AccountHandler  *AccountHandler
	ProductHandler  *ProductHandler
	OrderHandler    *OrderHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, store cache.Store) *Deps {
	custRepo := repos.NewCustomerRepo(db)
	acctRepo := repos.NewAccountRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	custSvc := services.NewCustomerService(custRepo)
	acctSvc := services.NewAccountService(acctRepo, custRepo)
	catalogSvc := services.NewCatalogService(prodRepo, store, cfg.CacheTTL)
	orderSvc := services.NewOrderService(custRepo, orderRepo, store)
	authSvc := services.NewAuthService(acctRepo, cfg.JWTSecret, cfg.TokenTTL)

	return &Deps{
		AuthSvc:         authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc},
		CustomerHandler: &CustomerHandler{Customers: custSvc, Orders: orderSvc},
		AccountHandler:  &AccountHandler{Accounts: acctSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		OrderHandler:    &OrderHandler{Orders: orderSvc},
	}
}

type authLevel int

const (
	authNone authLevel = iota
	authUser
	authAdmin
)

type route struct {
	method string
	path   string
	auth   authLevel
	fn     fiber.Handler
}

// routes is the explicit route table. Registration order matters:
// /customers/accounts/:id must come before /customers/:id so the
// literal segment wins.
func (d *Deps) routes() []route {
	return []route{
		{fiber.MethodPost, "/auth/login", authNone, d.AuthHandler.Login},

		{fiber.MethodPost, "/customers", authNone, d.CustomerHandler.Create},
		{fiber.MethodGet, "/customers/accounts/:id", authUser, d.AccountHandler.Get},
		{fiber.MethodPut, "/customers/accounts/:id", authUser, d.AccountHandler.Update},
		{fiber.MethodDelete, "/customers/accounts/:id", authUser, d.AccountHandler.Delete},
		{fiber.MethodGet, "/customers/:id", authUser, d.CustomerHandler.Get},
		{fiber.MethodPut, "/customers/:id", authUser, d.CustomerHandler.Update},
		{fiber.MethodDelete, "/customers/:id", authUser, d.CustomerHandler.Delete},
		{fiber.MethodPost, "/customers/:id/accounts", authUser, d.AccountHandler.Create},
		{fiber.MethodGet, "/customers/:id/orders", authUser, d.CustomerHandler.ListOrders},

		{fiber.MethodGet, "/products", authNone, d.ProductHandler.List},
		{fiber.MethodPost, "/products", authAdmin, d.ProductHandler.Create},
		{fiber.MethodGet, "/products/:id", authNone, d.ProductHandler.Get},
		{fiber.MethodPut, "/products/:id", authAdmin, d.ProductHandler.Update},
		{fiber.MethodDelete, "/products/:id", authAdmin, d.ProductHandler.Delete},

		{fiber.MethodPut, "/orders/:order_id/status", authAdmin, d.OrderHandler.UpdateStatus},
		{fiber.MethodPost, "/orders/:customer_id", authUser, d.OrderHandler.Place},
		{fiber.MethodGet, "/orders/:order_id", authUser, d.OrderHandler.Get},
	}
}

// Register wires the route table into the app, prefixing each protected
// route with the right guard chain.
func (d *Deps) Register(app *fiber.App) {
	requireAuth := RequireAuth(d.AuthSvc)
	requireAdmin := RequireAdmin()

	for _, r := range d.routes() {
		switch r.auth {
		case authUser:
			app.Add(r.method, r.path, requireAuth, r.fn)
		case authAdmin:
			app.Add(r.method, r.path, requireAuth, requireAdmin, r.fn)
		default:
			app.Add(r.method, r.path, r.fn)
		}
	}

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
