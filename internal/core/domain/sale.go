package domain

import (
	"errors"
	"time"
)

var ErrSaleNotFound = errors.New("sale not found")

// ErrSaleReference marks a sale that points at a customer or package that
// does not exist. It is distinct from infrastructure failures so callers can
// reject the request rather than retry it.
var ErrSaleReference = errors.New("sale references unknown customer or package")

// SaleDateLayout is the calendar-date format accepted and emitted at the
// boundary for sale dates.
const SaleDateLayout = "2006-01-02"

// Sale is one row in the transactional ledger. Rows are immutable once
// written. Amount is deliberately independent of the referenced package's
// list price: discounts and promotional pricing are legal.
type Sale struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id"`
	PackageID      string    `json:"package_id"`
	CustomerName   string    `json:"customer_name,omitempty"`
	PackageName    string    `json:"package_name,omitempty"`
	Amount         float64   `json:"amount"`
	SaleDate       time.Time `json:"sale_date"`
	CreatedAt      time.Time `json:"created_at"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
}
