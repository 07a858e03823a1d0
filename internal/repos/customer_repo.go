package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"storefront/internal/apperr"
	"storefront/internal/domain"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) Insert(c domain.Customer) error {
	_, err := r.db.Exec(`
		INSERT INTO customers(id, name, email, phone)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.Name, c.Email, c.Phone)
	if isUniqueViolation(err) {
		return apperr.Conflict("a customer with that email already exists")
	}
	return err
}

func (r *CustomerRepo) Get(id string) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `
		SELECT id, name, email, phone, created_at, COALESCE(updated_at,'') AS updated_at
		FROM customers WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return domain.Customer{}, apperr.NotFound("customer")
	}
	return c, err
}

func (r *CustomerRepo) Update(c domain.Customer) error {
	res, err := r.db.Exec(`
		UPDATE customers
		SET name = ?, email = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, c.Name, c.Email, c.Phone, c.ID)
	if isUniqueViolation(err) {
		return apperr.Conflict("a customer with that email already exists")
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("customer")
	}
	return nil
}

// Delete removes the customer and, via FK cascade, its account.
// Fails with Conflict while any order still references the customer;
// orders are audit records and never deleted.
func (r *CustomerRepo) Delete(id string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var orders int
	if err := tx.Get(&orders, `SELECT COUNT(*) FROM orders WHERE customer_id = ?`, id); err != nil {
		return err
	}
	if orders > 0 {
		return apperr.Conflict("customer has orders and cannot be deleted")
	}

	res, err := tx.Exec(`DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("customer")
	}
	// sqlite only enforces ON DELETE CASCADE with foreign_keys on, which
	// is per-connection; drop the account row explicitly.
	if _, err := tx.Exec(`DELETE FROM customer_accounts WHERE customer_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CustomerRepo) Exists(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM customers WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}
