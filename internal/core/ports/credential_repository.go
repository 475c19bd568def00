package ports

import (
	"context"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

// CredentialRepository defines persistence for login identities.
type CredentialRepository interface {
	Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	FindByID(ctx context.Context, id string) (*domain.Credential, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}
