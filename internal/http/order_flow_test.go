package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperr"
	"storefront/internal/domain"
)

// The canonical storefront flow: admin stocks a product, a customer
// orders it, stock follows, overselling is refused.
func TestProductAndOrderFlow(t *testing.T) {
	app := newApp(t)
	admin := adminToken(t, app)

	resp := doJSON(t, app, fiber.MethodPost, "/products", admin, fiber.Map{
		"name": "Widget", "price": 9.99, "stock": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod domain.Product
	decode(t, resp, &prod)
	require.NotEmpty(t, prod.ID)

	// public read returns the same fields
	resp = doJSON(t, app, fiber.MethodGet, "/products/"+prod.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.Product
	decode(t, resp, &got)
	require.Equal(t, prod, got)

	custID, token := newCustomerWithLogin(t, app, "Buyer", "buyer@example.com", "buyer")

	resp = doJSON(t, app, fiber.MethodPost, "/orders/"+custID, token, fiber.Map{
		"items": []fiber.Map{{"product_id": prod.ID, "qty": 3}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order domain.Order
	decode(t, resp, &order)
	require.Equal(t, domain.StatusPlaced, order.Status)
	require.InDelta(t, 29.97, order.Total, 1e-9)

	resp = doJSON(t, app, fiber.MethodGet, "/products/"+prod.ID, "", nil)
	decode(t, resp, &got)
	require.Equal(t, 2, got.Stock)

	// overselling refused, stock unchanged
	resp = doJSON(t, app, fiber.MethodPost, "/orders/"+custID, token, fiber.Map{
		"items": []fiber.Map{{"product_id": prod.ID, "qty": 10}},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, string(apperr.KindInsufficientStock), errCode(t, resp))

	resp = doJSON(t, app, fiber.MethodGet, "/products/"+prod.ID, "", nil)
	decode(t, resp, &got)
	require.Equal(t, 2, got.Stock)

	// owner reads the order back with its snapshot
	resp = doJSON(t, app, fiber.MethodGet, "/orders/"+order.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var read domain.Order
	decode(t, resp, &read)
	require.Len(t, read.Items, 1)
	require.InDelta(t, 9.99, read.Items[0].Price, 1e-9)

	// another customer is not allowed in
	_, other := newCustomerWithLogin(t, app, "Other", "other@example.com", "other")
	resp = doJSON(t, app, fiber.MethodGet, "/orders/"+order.ID, other, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// order history for the customer
	resp = doJSON(t, app, fiber.MethodGet, "/customers/"+custID+"/orders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history struct {
		Orders []domain.Order `json:"orders"`
	}
	decode(t, resp, &history)
	require.Len(t, history.Orders, 1)
}

func TestOrderStatusEndpoint(t *testing.T) {
	app := newApp(t)
	admin := adminToken(t, app)

	resp := doJSON(t, app, fiber.MethodPost, "/products", admin, fiber.Map{
		"name": "Widget", "price": 4.00, "stock": 3,
	})
	var prod domain.Product
	decode(t, resp, &prod)

	custID, token := newCustomerWithLogin(t, app, "Buyer", "buyer@example.com", "buyer")
	resp = doJSON(t, app, fiber.MethodPost, "/orders/"+custID, token, fiber.Map{
		"items": []fiber.Map{{"product_id": prod.ID, "qty": 2}},
	})
	var order domain.Order
	decode(t, resp, &order)

	// status changes are admin-only
	resp = doJSON(t, app, fiber.MethodPut, "/orders/"+order.ID+"/status", token, fiber.Map{"status": "CANCELED"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodPut, "/orders/"+order.ID+"/status", admin, fiber.Map{"status": "CANCELED"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated domain.Order
	decode(t, resp, &updated)
	require.Equal(t, domain.StatusCanceled, updated.Status)

	// cancellation restored the stock
	resp = doJSON(t, app, fiber.MethodGet, "/products/"+prod.ID, "", nil)
	var got domain.Product
	decode(t, resp, &got)
	require.Equal(t, 3, got.Stock)

	// terminal state
	resp = doJSON(t, app, fiber.MethodPut, "/orders/"+order.ID+"/status", admin, fiber.Map{"status": "FULFILLED"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, string(apperr.KindConflict), errCode(t, resp))
}

func TestProductValidationOverHTTP(t *testing.T) {
	app := newApp(t)
	admin := adminToken(t, app)

	resp := doJSON(t, app, fiber.MethodPost, "/products", admin, fiber.Map{"name": "Bad", "price": -1.0})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, string(apperr.KindValidation), errCode(t, resp))

	resp = doJSON(t, app, fiber.MethodPost, "/products", admin, fiber.Map{"price": 1.0})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodGet, "/products/no-such-product", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, string(apperr.KindNotFound), errCode(t, resp))
}
