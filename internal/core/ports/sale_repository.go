package ports

import (
	"context"
	"time"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

// PackageTotal is the raw per-package aggregate produced by the store.
// Packages with no sales are absent; the stats service fills the gaps.
type PackageTotal struct {
	Count   int64
	Revenue float64
}

// SaleRepository defines persistence and aggregation over the sale ledger.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Sale, error)

	// ListAll returns all sales joined with customer and package names,
	// ordered by sale date descending.
	ListAll(ctx context.Context) ([]domain.Sale, error)
	ListForCustomer(ctx context.Context, customerID string) ([]domain.Sale, error)

	// TotalsByPackage groups the whole ledger by package id.
	TotalsByPackage(ctx context.Context) (map[string]PackageTotal, error)
	// Totals counts and sums the whole ledger.
	Totals(ctx context.Context) (domain.Totals, error)
	// TotalsBetween counts and sums sales with from <= sale_date < to.
	TotalsBetween(ctx context.Context, from, to time.Time) (PackageTotal, error)
}
