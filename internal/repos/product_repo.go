package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"storefront/internal/apperr"
	"storefront/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, description, price, stock, created_at, COALESCE(updated_at,'') AS updated_at`

// ListFilter narrows a product listing. Zero values mean "no filter".
type ListFilter struct {
	Name     string  // substring match on name
	MinPrice float64 `db:"min_price"`
	MaxPrice float64 `db:"max_price"`
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(`
		INSERT INTO products(id, name, description, price, stock)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Price, p.Stock)
	return err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return domain.Product{}, apperr.NotFound("product")
	}
	return p, err
}

func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET name = ?, description = ?, price = ?, stock = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.Description, p.Price, p.Stock, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("product")
	}
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("product")
	}
	return nil
}

// List pages through the catalog ordered by id ascending so pagination
// stays stable across calls absent concurrent writes.
func (r *ProductRepo) List(f ListFilter, limit, offset int) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if f.Name != "" {
		where += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+f.Name+"%")
	}
	if f.MinPrice > 0 {
		where += ` AND price >= ?`
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where += ` AND price <= ?`
		args = append(args, f.MaxPrice)
	}

	q := `SELECT ` + productCols + ` FROM products WHERE ` + where + ` ORDER BY id ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := r.db.Select(&out, q, args...)
	return out, err
}
