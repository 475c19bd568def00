package ports

import (
	"context"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

// CreateSaleInput carries all data needed to record a sale.
type CreateSaleInput struct {
	CustomerID string
	PackageID  string
	Amount     float64
	// SaleDate is an optional calendar date (YYYY-MM-DD). Defaults to the
	// current date when empty.
	SaleDate string
	// IdempotencyKey, when set, makes retries of the same creation safe:
	// a replay returns the originally created sale.
	IdempotencyKey string
}

// SalesService defines use cases over the sale ledger.
type SalesService interface {
	Create(ctx context.Context, in CreateSaleInput) (*domain.Sale, error)
	ListAll(ctx context.Context) ([]domain.Sale, error)
	ListForCustomer(ctx context.Context, customerID string) ([]domain.Sale, error)
}
