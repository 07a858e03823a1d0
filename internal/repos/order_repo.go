package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"storefront/internal/apperr"
	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ItemReq is one requested line of a placement: product + quantity.
// The price snapshot is taken inside the transaction, never trusted
// from the client.
type ItemReq struct {
	ProductID string
	Qty       int
}

// Place creates the order atomically: every stock decrement is guarded
// (qty >= requested) and any failure rolls the whole placement back, so
// a failed order never leaves a partial decrement behind.
func (r *OrderRepo) Place(orderID, customerID string, reqs []ItemReq) (domain.Order, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		total float64
		items []domain.OrderItem
	)
	for _, req := range reqs {
		var price float64
		if err := tx.Get(&price, `SELECT price FROM products WHERE id = ?`, req.ProductID); err != nil {
			if err == sql.ErrNoRows {
				return domain.Order{}, apperr.NotFound("product " + req.ProductID)
			}
			return domain.Order{}, err
		}

		res, err := tx.Exec(`
			UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND stock >= ?
		`, req.Qty, req.ProductID, req.Qty)
		if err != nil {
			return domain.Order{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.Order{}, apperr.InsufficientStock(req.ProductID)
		}

		items = append(items, domain.OrderItem{
			OrderID:   orderID,
			ProductID: req.ProductID,
			Qty:       req.Qty,
			Price:     price,
		})
		total += price * float64(req.Qty)
	}

	if _, err := tx.Exec(`
		INSERT INTO orders(id, customer_id, status, total)
		VALUES (?, ?, 'PLACED', ?)
	`, orderID, customerID, total); err != nil {
		return domain.Order{}, err
	}
	for _, it := range items {
		if _, err := tx.Exec(`
			INSERT INTO order_items(order_id, product_id, qty, price)
			VALUES (?, ?, ?, ?)
		`, it.OrderID, it.ProductID, it.Qty, it.Price); err != nil {
			if isUniqueViolation(err) {
				return domain.Order{}, apperr.Validation("duplicate product in line items")
			}
			return domain.Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return r.Get(orderID)
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
		SELECT id, customer_id, status, total, ordered_at
		FROM orders WHERE id = ?
	`, orderID)
	if err == sql.ErrNoRows {
		return domain.Order{}, apperr.NotFound("order")
	}
	if err != nil {
		return domain.Order{}, err
	}

	if err := r.db.Select(&o.Items, `
		SELECT order_id, product_id, qty, price
		FROM order_items
		WHERE order_id = ?
		ORDER BY product_id
	`, orderID); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) ListByCustomer(customerID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
		SELECT id, customer_id, status, total, ordered_at
		FROM orders
		WHERE customer_id = ?
		ORDER BY datetime(ordered_at) DESC, id
	`, customerID)
	return out, err
}

// UpdateStatus moves a PLACED order to FULFILLED or CANCELED.
// Canceling restores the stock the placement took, in the same
// transaction as the status flip.
func (r *OrderRepo) UpdateStatus(orderID, status string) (domain.Order, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	if err := tx.Get(&current, `SELECT status FROM orders WHERE id = ?`, orderID); err != nil {
		if err == sql.ErrNoRows {
			return domain.Order{}, apperr.NotFound("order")
		}
		return domain.Order{}, err
	}
	if current != domain.StatusPlaced {
		return domain.Order{}, apperr.Conflict("order is " + current + " and cannot change status")
	}

	if status == domain.StatusCanceled {
		if _, err := tx.Exec(`
			UPDATE products SET stock = stock + (
				SELECT qty FROM order_items WHERE order_id = ? AND product_id = products.id
			)
			WHERE id IN (SELECT product_id FROM order_items WHERE order_id = ?)
		`, orderID, orderID); err != nil {
			return domain.Order{}, err
		}
	}

	if _, err := tx.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, orderID); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return r.Get(orderID)
}
