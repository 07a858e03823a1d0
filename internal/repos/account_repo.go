package repos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"storefront/internal/apperr"
	"storefront/internal/domain"
)

type AccountRepo struct{ db *sqlx.DB }

func NewAccountRepo(db *sqlx.DB) *AccountRepo { return &AccountRepo{db: db} }

const accountCols = `id, customer_id, username, password_hash, role, active, created_at`

func (r *AccountRepo) Insert(a domain.Account) error {
	_, err := r.db.Exec(`
		INSERT INTO customer_accounts(id, customer_id, username, password_hash, role, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.CustomerID, a.Username, a.Hash, a.Role, a.Active)
	if isUniqueViolation(err) {
		if strings.Contains(err.Error(), "customer_id") {
			return apperr.Conflict("customer already has an account")
		}
		return apperr.Conflict("username already taken")
	}
	return err
}

func (r *AccountRepo) Get(id string) (domain.Account, error) {
	var a domain.Account
	err := r.db.Get(&a, `SELECT `+accountCols+` FROM customer_accounts WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return domain.Account{}, apperr.NotFound("account")
	}
	return a, err
}

func (r *AccountRepo) ByUsername(username string) (domain.Account, error) {
	var a domain.Account
	err := r.db.Get(&a, `
		SELECT `+accountCols+` FROM customer_accounts WHERE LOWER(username) = LOWER(?)
	`, username)
	if err == sql.ErrNoRows {
		return domain.Account{}, apperr.NotFound("account")
	}
	return a, err
}

func (r *AccountRepo) Update(a domain.Account) error {
	res, err := r.db.Exec(`
		UPDATE customer_accounts
		SET username = ?, password_hash = ?, active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, a.Username, a.Hash, a.Active, a.ID)
	if isUniqueViolation(err) {
		return apperr.Conflict("username already taken")
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("account")
	}
	return nil
}

func (r *AccountRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM customer_accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("account")
	}
	return nil
}
