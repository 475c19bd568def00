package ports

import (
	"context"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

// CustomerInput carries the writable fields of a customer record.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

// CustomerService defines customer-record use cases. Create triggers
// credential provisioning as a side effect; the provisioning result is
// returned alongside the customer and must not influence whether the
// creation itself succeeded.
type CustomerService interface {
	Create(ctx context.Context, in CustomerInput) (*domain.Customer, ProvisionResult, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, id string, in CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}
