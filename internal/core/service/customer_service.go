package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
)

// CustomerService implements customer-record use cases. Creation follows a
// create-then-best-effort-attach pattern: the customer write commits on its
// own, then provisioning runs and, when it succeeds, the credential link is
// attached. Provisioning failures are reported out-of-band, never to the
// customer-creation caller.
type CustomerService struct {
	customers    ports.CustomerRepository
	provisioning ports.ProvisioningService
	log          zerolog.Logger
}

func NewCustomerService(customers ports.CustomerRepository, provisioning ports.ProvisioningService, log zerolog.Logger) *CustomerService {
	return &CustomerService{customers: customers, provisioning: provisioning, log: log}
}

func (s *CustomerService) Create(ctx context.Context, in ports.CustomerInput) (*domain.Customer, ports.ProvisionResult, error) {
	if in.Name == "" {
		return nil, ports.ProvisionResult{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		Name:      in.Name,
		Email:     domain.NormalizeEmail(in.Email),
		Phone:     NormalizePhone(in.Phone),
		Address:   in.Address,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.customers.Create(ctx, customer)
	if err != nil {
		return nil, ports.ProvisionResult{}, fmt.Errorf("create customer: %w", err)
	}

	result := s.provisioning.ProvisionForCustomer(ctx, created)
	if result.Err != nil {
		s.log.Warn().Err(result.Err).Str("customer_id", created.ID).Msg("credential provisioning failed, customer kept")
	}
	if result.CredentialCreated {
		if err := s.customers.AttachCredential(ctx, created.ID, result.CredentialID); err != nil {
			s.log.Warn().Err(err).Str("customer_id", created.ID).Msg("failed to attach credential to customer")
		} else {
			created.CredentialID = result.CredentialID
		}
	}

	s.log.Info().Str("customer_id", created.ID).Bool("credential_created", result.CredentialCreated).Msg("customer created")
	return created, result, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *CustomerService) Update(ctx context.Context, id string, in ports.CustomerInput) (*domain.Customer, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = in.Name
	customer.Email = domain.NormalizeEmail(in.Email)
	customer.Phone = NormalizePhone(in.Phone)
	customer.Address = in.Address
	customer.Notes = in.Notes
	customer.UpdatedAt = time.Now().UTC()

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}
