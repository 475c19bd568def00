package ports

import (
	"context"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

// ProvisionResult reports the outcome of a best-effort credential
// provisioning attempt. It is never an error from the caller's point of
// view: Err carries the failure for logging and metrics only.
type ProvisionResult struct {
	CredentialCreated bool
	CredentialID      string
	// TemporaryPassword is the generated plaintext, surfaced exactly once
	// for manual hand-off. Never persisted.
	TemporaryPassword string
	Err               error
}

// ProvisioningService keeps the one-way Customer → Credential linkage.
type ProvisioningService interface {
	ProvisionForCustomer(ctx context.Context, customer *domain.Customer) ProvisionResult
	// AdminResetPassword generates a fresh password for an existing
	// credential and returns the plaintext exactly once.
	AdminResetPassword(ctx context.Context, credentialID string) (string, error)
}

// AccountService handles user-initiated account removal.
type AccountService interface {
	// DeleteAccount removes the credential and clears the link on any
	// customer that pointed at it. Customers and sales are never cascaded.
	DeleteAccount(ctx context.Context, credentialID string) error
}
