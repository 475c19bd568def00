package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
)

func newCustomerService(customers *stubCustomerRepo, creds *stubCredentialRepo) *CustomerService {
	provisioning := NewProvisioningService(creds, zerolog.Nop())
	return NewCustomerService(customers, provisioning, zerolog.Nop())
}

func TestCreateCustomerProvisionsCredential(t *testing.T) {
	customers := newStubCustomerRepo()
	creds := newStubCredentialRepo()
	svc := newCustomerService(customers, creds)

	created, result, err := svc.Create(context.Background(), ports.CustomerInput{
		Name:  "Maria Sidorova",
		Email: "Maria@Example.com",
		Phone: "89031112233",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !result.CredentialCreated {
		t.Fatal("expected credential provisioning")
	}
	if created.CredentialID != result.CredentialID {
		t.Errorf("customer credential link = %q, want %q", created.CredentialID, result.CredentialID)
	}
	if created.Email != "maria@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}
	if created.Phone != "+7 (903) 111-22-33" {
		t.Errorf("phone not normalized: %q", created.Phone)
	}

	stored := customers.customers[created.ID]
	if stored.CredentialID != result.CredentialID {
		t.Errorf("stored credential link = %q, want %q", stored.CredentialID, result.CredentialID)
	}
	if len(creds.creds) != 1 {
		t.Errorf("credential count = %d, want 1", len(creds.creds))
	}
}

// Provisioning is best-effort: when the credential store fails, the customer
// record is still created and the error travels in the provision result.
func TestCreateCustomerSurvivesProvisioningFailure(t *testing.T) {
	customers := newStubCustomerRepo()
	creds := newStubCredentialRepo()
	creds.createErr = errors.New("mongo down")
	svc := newCustomerService(customers, creds)

	created, result, err := svc.Create(context.Background(), ports.CustomerInput{
		Name:  "Maria Sidorova",
		Email: "maria@example.com",
	})
	if err != nil {
		t.Fatalf("customer creation failed with provisioning: %v", err)
	}
	if result.Err == nil {
		t.Error("expected provisioning error in result")
	}
	if created.CredentialID != "" {
		t.Errorf("credential link set despite failure: %q", created.CredentialID)
	}
	if len(customers.customers) != 1 {
		t.Errorf("customer count = %d, want 1", len(customers.customers))
	}
}

func TestCreateCustomerSkipsProvisioningOnCollision(t *testing.T) {
	customers := newStubCustomerRepo()
	creds := newStubCredentialRepo()
	seedCredential(t, creds, "maria@example.com", "password1", domain.RoleClient)
	svc := newCustomerService(customers, creds)

	created, result, err := svc.Create(context.Background(), ports.CustomerInput{
		Name:  "Maria Sidorova",
		Email: "maria@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.CredentialCreated || result.Err != nil {
		t.Errorf("collision result = %+v, want skipped", result)
	}
	if created.CredentialID != "" {
		t.Errorf("credential link set on collision: %q", created.CredentialID)
	}
}

func TestCreateCustomerAttachFailureKeepsCustomer(t *testing.T) {
	customers := newStubCustomerRepo()
	customers.attachErr = errors.New("mongo down")
	creds := newStubCredentialRepo()
	svc := newCustomerService(customers, creds)

	created, result, err := svc.Create(context.Background(), ports.CustomerInput{
		Name:  "Maria Sidorova",
		Email: "maria@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !result.CredentialCreated {
		t.Fatal("expected credential provisioning")
	}
	if created.CredentialID != "" {
		t.Errorf("credential link set despite attach failure: %q", created.CredentialID)
	}
}

func TestCreateCustomerRequiresName(t *testing.T) {
	svc := newCustomerService(newStubCustomerRepo(), newStubCredentialRepo())

	_, _, err := svc.Create(context.Background(), ports.CustomerInput{Email: "a@b.com"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestUpdateCustomer(t *testing.T) {
	customers := newStubCustomerRepo()
	svc := newCustomerService(customers, newStubCredentialRepo())

	created, _, err := svc.Create(context.Background(), ports.CustomerInput{Name: "Old Name"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, ports.CustomerInput{
		Name:  "New Name",
		Phone: "79161234567",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("name = %q", updated.Name)
	}
	if updated.Phone != "+7 (916) 123-45-67" {
		t.Errorf("phone not normalized on update: %q", updated.Phone)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && !updated.UpdatedAt.Equal(updated.CreatedAt) {
		t.Error("updated_at not refreshed")
	}
}

func TestUpdateCustomerNotFound(t *testing.T) {
	svc := newCustomerService(newStubCustomerRepo(), newStubCredentialRepo())

	_, err := svc.Update(context.Background(), "missing", ports.CustomerInput{Name: "Name"})
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestDeleteCustomerNotFound(t *testing.T) {
	svc := newCustomerService(newStubCustomerRepo(), newStubCredentialRepo())

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("err = %v, want ErrCustomerNotFound", err)
	}
}
