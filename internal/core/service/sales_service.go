package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
)

// SalesService records sales and serves joined listings. Sale creation is
// the critical write path: storage failures surface to the caller, never a
// fallback.
type SalesService struct {
	sales     ports.SaleRepository
	customers ports.CustomerRepository
	packages  ports.PackageRepository
	log       zerolog.Logger
}

func NewSalesService(sales ports.SaleRepository, customers ports.CustomerRepository, packages ports.PackageRepository, log zerolog.Logger) *SalesService {
	return &SalesService{sales: sales, customers: customers, packages: packages, log: log}
}

// Create validates, resolves references, and writes one ledger row. When an
// idempotency key is supplied and already seen, the original sale is
// returned without a second write.
func (s *SalesService) Create(ctx context.Context, in ports.CreateSaleInput) (*domain.Sale, error) {
	if in.CustomerID == "" || in.PackageID == "" {
		return nil, fmt.Errorf("%w: customer and package are required", domain.ErrValidation)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	saleDate := time.Now().UTC().Truncate(24 * time.Hour)
	if in.SaleDate != "" {
		parsed, err := time.Parse(domain.SaleDateLayout, in.SaleDate)
		if err != nil {
			return nil, fmt.Errorf("%w: sale_date must be YYYY-MM-DD", domain.ErrValidation)
		}
		saleDate = parsed
	}

	if in.IdempotencyKey != "" {
		existing, err := s.sales.FindByIdempotencyKey(ctx, in.IdempotencyKey)
		if err == nil && existing != nil {
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("sale_id", existing.ID).Msg("idempotent replay")
			return existing, nil
		}
	}

	customer, err := s.customers.FindByID(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, fmt.Errorf("%w: customer %s", domain.ErrSaleReference, in.CustomerID)
		}
		return nil, fmt.Errorf("create sale: %w", err)
	}
	pkg, err := s.packages.FindByID(ctx, in.PackageID)
	if err != nil {
		if errors.Is(err, domain.ErrPackageNotFound) {
			return nil, fmt.Errorf("%w: package %s", domain.ErrSaleReference, in.PackageID)
		}
		return nil, fmt.Errorf("create sale: %w", err)
	}

	sale := &domain.Sale{
		CustomerID:     customer.ID,
		PackageID:      pkg.ID,
		CustomerName:   customer.Name,
		PackageName:    pkg.Name,
		Amount:         in.Amount,
		SaleDate:       saleDate,
		CreatedAt:      time.Now().UTC(),
		IdempotencyKey: in.IdempotencyKey,
	}

	created, err := s.sales.Create(ctx, sale)
	if err != nil {
		s.log.Error().Err(err).Str("customer_id", in.CustomerID).Msg("failed to create sale")
		return nil, err
	}

	s.log.Info().Str("sale_id", created.ID).Str("package_id", pkg.ID).Float64("amount", created.Amount).Msg("sale created")
	return created, nil
}

func (s *SalesService) ListAll(ctx context.Context) ([]domain.Sale, error) {
	return s.sales.ListAll(ctx)
}

func (s *SalesService) ListForCustomer(ctx context.Context, customerID string) ([]domain.Sale, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer is required", domain.ErrValidation)
	}
	return s.sales.ListForCustomer(ctx, customerID)
}
