package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/telvista/crm-backoffice/internal/core/ports"
)

// AccountService removes credentials on user-initiated account deletion.
// Policy: the credential row is deleted and any customer pointing at it is
// unlinked. Customer records and the sale ledger are never cascaded; the
// business history outlives the login.
type AccountService struct {
	creds     ports.CredentialRepository
	customers ports.CustomerRepository
	log       zerolog.Logger
}

func NewAccountService(creds ports.CredentialRepository, customers ports.CustomerRepository, log zerolog.Logger) *AccountService {
	return &AccountService{creds: creds, customers: customers, log: log}
}

func (s *AccountService) DeleteAccount(ctx context.Context, credentialID string) error {
	if _, err := s.creds.FindByID(ctx, credentialID); err != nil {
		return err
	}
	if err := s.creds.Delete(ctx, credentialID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if err := s.customers.DetachCredential(ctx, credentialID); err != nil {
		// The credential is gone; a dangling customer link is repairable
		// and must not fail the deletion.
		s.log.Warn().Err(err).Str("credential_id", credentialID).Msg("failed to unlink customer after account deletion")
	}

	s.log.Info().Str("credential_id", credentialID).Msg("account deleted")
	return nil
}
