package ports

import (
	"context"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

// CustomerRepository defines persistence for customer records.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error

	// AttachCredential sets the customer's credential link after
	// provisioning succeeds.
	AttachCredential(ctx context.Context, customerID, credentialID string) error
	// DetachCredential clears the link on every customer pointing at the
	// given credential. Used when an account is deleted.
	DetachCredential(ctx context.Context, credentialID string) error
}
