package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
	"github.com/telvista/crm-backoffice/internal/pkg/password"
)

const (
	tempPasswordLength   = 12
	tempPasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
)

// ProvisioningService creates credentials for customers on a best-effort
// basis. Nothing it does may fail the customer operation that triggered it.
type ProvisioningService struct {
	creds ports.CredentialRepository
	log   zerolog.Logger
}

func NewProvisioningService(creds ports.CredentialRepository, log zerolog.Logger) *ProvisioningService {
	return &ProvisioningService{creds: creds, log: log}
}

// ProvisionForCustomer attempts to create a client-role credential matching
// the customer's email. A customer without an email is a no-op. A colliding
// email means an account already exists and is reported as "not created",
// not as a failure.
func (s *ProvisioningService) ProvisionForCustomer(ctx context.Context, customer *domain.Customer) ports.ProvisionResult {
	if customer.Email == "" {
		return ports.ProvisionResult{}
	}

	plaintext, err := generateTempPassword()
	if err != nil {
		return ports.ProvisionResult{Err: fmt.Errorf("provision: generate password: %w", err)}
	}
	hash, err := password.Hash(plaintext)
	if err != nil {
		return ports.ProvisionResult{Err: fmt.Errorf("provision: hash password: %w", err)}
	}

	cred := &domain.Credential{
		Email:        domain.NormalizeEmail(customer.Email),
		PasswordHash: hash,
		Name:         customer.Name,
		Role:         domain.RoleClient,
		Phone:        customer.Phone,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.creds.Create(ctx, cred)
	if err != nil {
		if err == domain.ErrCredentialExists {
			s.log.Info().Str("customer_id", customer.ID).Msg("credential already exists, provisioning skipped")
			return ports.ProvisionResult{}
		}
		return ports.ProvisionResult{Err: fmt.Errorf("provision: %w", err)}
	}

	s.log.Info().Str("customer_id", customer.ID).Str("credential_id", created.ID).Msg("credential provisioned")
	return ports.ProvisionResult{
		CredentialCreated: true,
		CredentialID:      created.ID,
		TemporaryPassword: plaintext,
	}
}

// AdminResetPassword replaces the credential's password with a fresh
// generated one and returns the plaintext exactly once.
func (s *ProvisioningService) AdminResetPassword(ctx context.Context, credentialID string) (string, error) {
	cred, err := s.creds.FindByID(ctx, credentialID)
	if err != nil {
		return "", err
	}

	plaintext, err := generateTempPassword()
	if err != nil {
		return "", fmt.Errorf("reset password: generate: %w", err)
	}
	hash, err := password.Hash(plaintext)
	if err != nil {
		return "", fmt.Errorf("reset password: hash: %w", err)
	}
	if err := s.creds.UpdatePasswordHash(ctx, cred.ID, hash); err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}

	s.log.Info().Str("credential_id", cred.ID).Msg("password reset by admin")
	return plaintext, nil
}

// generateTempPassword draws from a 64-symbol alphabet, so every random
// byte maps to a symbol without modulo bias.
func generateTempPassword() (string, error) {
	b := make([]byte, tempPasswordLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = tempPasswordAlphabet[int(b[i])%len(tempPasswordAlphabet)]
	}
	return string(b), nil
}
