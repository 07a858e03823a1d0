package domain

// Order status values. PLACED orders may move to FULFILLED or CANCELED;
// both of those are terminal.
const (
	StatusPlaced    = "PLACED"
	StatusFulfilled = "FULFILLED"
	StatusCanceled  = "CANCELED"
)

// Account roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type Customer struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

// Account is a customer's login record. One account per customer.
// The hash never leaves the server.
type Account struct {
	ID         string `db:"id" json:"id"`
	CustomerID string `db:"customer_id" json:"customer_id"`
	Username   string `db:"username" json:"username"`
	Hash       string `db:"password_hash" json:"-"`
	Role       string `db:"role" json:"role"`
	Active     bool   `db:"active" json:"active"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description,omitempty"`
	Price       float64 `db:"price" json:"price"`
	Stock       int     `db:"stock" json:"stock"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at,omitempty"`
}

type Order struct {
	ID         string      `db:"id" json:"id"`
	CustomerID string      `db:"customer_id" json:"customer_id"`
	Status     string      `db:"status" json:"status"`
	Total      float64     `db:"total" json:"total"`
	OrderedAt  string      `db:"ordered_at" json:"ordered_at"`
	Items      []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem carries the price snapshot taken at placement time. Later
// product price changes never touch it.
type OrderItem struct {
	OrderID   string  `db:"order_id" json:"-"`
	ProductID string  `db:"product_id" json:"product_id"`
	Qty       int     `db:"qty" json:"qty"`
	Price     float64 `db:"price" json:"price"`
}
