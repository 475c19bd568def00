package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrCredentialExists = errors.New("account already exists")
var ErrCredentialNotFound = errors.New("account not found")
var ErrWeakPassword = errors.New("password must be at least 6 characters")

// MinPasswordLength is the minimum accepted password length for
// registration and password changes.
const MinPasswordLength = 6

// Credential models a login identity. It is independent of the Customer
// business record; a customer may or may not have one.
type Credential struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether r is one of the two supported roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleClient
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
// Uniqueness of credentials is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
