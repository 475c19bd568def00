package ports

import (
	"context"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	// Role defaults to client when empty. Only the bootstrap path sets admin.
	Role string
}

// AuthService defines authentication use cases.
type AuthService interface {
	// Login verifies the credential and issues a session token. Unknown
	// email and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (string, *domain.Credential, error)
	Register(ctx context.Context, in RegisterInput) (string, *domain.Credential, error)
	// ChangePassword re-verifies the current password before accepting the
	// new one.
	ChangePassword(ctx context.Context, credentialID, currentPassword, newPassword string) error
}
