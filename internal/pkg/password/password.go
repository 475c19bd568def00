// Package password is the one-way hashing boundary for credentials.
// Plaintext never crosses outward: callers hold only opaque hashes.
package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a salted bcrypt hash with the default work factor. A hashing
// failure is fatal to the calling operation.
func Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. A mismatch is
// not an error. bcrypt's comparison is constant-time with respect to the
// candidate password.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
