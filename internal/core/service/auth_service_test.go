package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
	"github.com/telvista/crm-backoffice/internal/pkg/password"
)

const testSecret = "test-secret"

func newAuthService(repo ports.CredentialRepository) *AuthService {
	return NewAuthService(repo, testSecret, time.Hour, zerolog.Nop())
}

func seedCredential(t *testing.T, repo *stubCredentialRepo, email, pass, role string) *domain.Credential {
	t.Helper()
	hash, err := password.Hash(pass)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cred, err := repo.Create(context.Background(), &domain.Credential{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	return cred
}

func TestRegisterCreatesClientCredential(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newAuthService(repo)

	token, cred, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Anna",
		LastName:  "Petrova",
		Email:     "Anna.Petrova@Example.COM",
		Phone:     "89261234567",
		Password:  "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if cred.Email != "anna.petrova@example.com" {
		t.Errorf("email not normalized: %q", cred.Email)
	}
	if cred.Role != domain.RoleClient {
		t.Errorf("default role = %q, want %q", cred.Role, domain.RoleClient)
	}
	if cred.Name != "Anna Petrova" {
		t.Errorf("name = %q, want %q", cred.Name, "Anna Petrova")
	}
	if cred.Phone != "+7 (926) 123-45-67" {
		t.Errorf("phone not normalized: %q", cred.Phone)
	}

	stored := repo.creds[cred.ID]
	if stored.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in plaintext")
	}
	if !password.Verify("s3cret-pass", stored.PasswordHash) {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newAuthService(repo)
	seedCredential(t, repo, "taken@example.com", "password1", domain.RoleClient)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Second",
		LastName:  "User",
		Email:     "TAKEN@example.com",
		Password:  "password2",
	})
	if !errors.Is(err, domain.ErrCredentialExists) {
		t.Fatalf("err = %v, want ErrCredentialExists", err)
	}
	if len(repo.creds) != 1 {
		t.Errorf("credential count = %d, want 1", len(repo.creds))
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := newAuthService(newStubCredentialRepo())

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Anna",
		LastName:  "Petrova",
		Email:     "anna@example.com",
		Password:  "12345",
	})
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("err = %v, want ErrWeakPassword", err)
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc := newAuthService(newStubCredentialRepo())

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Anna",
		Password:  "password1",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newAuthService(newStubCredentialRepo())

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Anna",
		LastName:  "Petrova",
		Email:     "anna@example.com",
		Password:  "password1",
		Role:      "superuser",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestLoginIssuesTokenWithClaims(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newAuthService(repo)
	seeded := seedCredential(t, repo, "admin@example.com", "password1", domain.RoleAdmin)

	token, cred, err := svc.Login(context.Background(), "Admin@Example.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if cred.ID != seeded.ID {
		t.Errorf("credential id = %q, want %q", cred.ID, seeded.ID)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != seeded.ID {
		t.Errorf("sub = %v, want %q", claims["sub"], seeded.ID)
	}
	if claims["role"] != domain.RoleAdmin {
		t.Errorf("role = %v, want %q", claims["role"], domain.RoleAdmin)
	}
	if claims["email"] != "admin@example.com" {
		t.Errorf("email = %v", claims["email"])
	}
}

// Login must not reveal whether the email exists: an unknown email and a
// wrong password return the same error.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newAuthService(repo)
	seedCredential(t, repo, "known@example.com", "password1", domain.RoleClient)

	for i := 0; i < 3; i++ {
		_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "password1")
		_, _, wrongErr := svc.Login(context.Background(), "known@example.com", "wrong-pass")

		if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
			t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", unknownErr)
		}
		if !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
			t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", wrongErr)
		}
		if unknownErr.Error() != wrongErr.Error() {
			t.Fatalf("error messages differ: %q vs %q", unknownErr, wrongErr)
		}
	}
}

func TestLoginEmptyInput(t *testing.T) {
	svc := newAuthService(newStubCredentialRepo())

	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newAuthService(repo)
	seeded := seedCredential(t, repo, "user@example.com", "old-password", domain.RoleClient)

	if err := svc.ChangePassword(context.Background(), seeded.ID, "old-password", "new-password"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "user@example.com", "old-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password still accepted: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "user@example.com", "new-password"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newAuthService(repo)
	seeded := seedCredential(t, repo, "user@example.com", "old-password", domain.RoleClient)

	err := svc.ChangePassword(context.Background(), seeded.ID, "not-the-password", "new-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if !password.Verify("old-password", repo.creds[seeded.ID].PasswordHash) {
		t.Error("stored hash changed despite failed verification")
	}
}

func TestChangePasswordWeakNew(t *testing.T) {
	repo := newStubCredentialRepo()
	svc := newAuthService(repo)
	seeded := seedCredential(t, repo, "user@example.com", "old-password", domain.RoleClient)

	err := svc.ChangePassword(context.Background(), seeded.ID, "old-password", "short")
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("err = %v, want ErrWeakPassword", err)
	}
}
