package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
	"github.com/telvista/crm-backoffice/internal/pkg/password"
)

// AuthService implements login, registration, and password changes.
type AuthService struct {
	creds     ports.CredentialRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(creds ports.CredentialRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{creds: creds, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Login verifies the credential and issues a session token. An unknown
// email and a wrong password produce the same error so callers cannot
// enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, pass string) (string, *domain.Credential, error) {
	if email == "" || pass == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	cred, err := s.creds.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !password.Verify(pass, cred.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(cred)
	if err != nil {
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}

	s.log.Info().Str("credential_id", cred.ID).Str("role", cred.Role).Msg("login succeeded")
	return token, cred, nil
}

// Register creates a credential and logs the new user in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.Credential, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return "", nil, fmt.Errorf("%w: first name, last name, email, and password are required", domain.ErrValidation)
	}
	if len(in.Password) < domain.MinPasswordLength {
		return "", nil, domain.ErrWeakPassword
	}

	role := in.Role
	if role == "" {
		role = domain.RoleClient
	}
	if !domain.ValidRole(role) {
		return "", nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return "", nil, fmt.Errorf("register: hash password: %w", err)
	}

	cred := &domain.Credential{
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.FirstName + " " + in.LastName),
		Role:         role,
		Phone:        NormalizePhone(in.Phone),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.creds.Create(ctx, cred)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, fmt.Errorf("register: sign token: %w", err)
	}

	s.log.Info().Str("credential_id", created.ID).Msg("credential registered")
	return token, created, nil
}

// ChangePassword re-verifies the current password before storing the new
// hash. Verify and update operate on a single read of the stored hash.
func (s *AuthService) ChangePassword(ctx context.Context, credentialID, currentPassword, newPassword string) error {
	if len(newPassword) < domain.MinPasswordLength {
		return domain.ErrWeakPassword
	}

	cred, err := s.creds.FindByID(ctx, credentialID)
	if err != nil {
		return err
	}
	if !password.Verify(currentPassword, cred.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	if err := s.creds.UpdatePasswordHash(ctx, cred.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Str("credential_id", cred.ID).Msg("password changed")
	return nil
}

func (s *AuthService) generateToken(cred *domain.Credential) (string, error) {
	claims := jwt.MapClaims{
		"sub":   cred.ID,
		"email": cred.Email,
		"name":  cred.Name,
		"role":  cred.Role,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
