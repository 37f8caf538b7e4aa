// Package password hashes and verifies user passwords.
package password

import (
	"errors"
	"fmt"

	"github.com/deppfellow/lightweight-backend/internal/errs"
	"golang.org/x/crypto/bcrypt"
)

// MaxBytes is the longest password bcrypt accepts, counted in bytes.
const MaxBytes = 72

// ErrTooLong is a 400 naming the password field.
var ErrTooLong = errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{{
	Field: "password",
	Error: fmt.Sprintf("must not exceed %d bytes", MaxBytes),
}}, nil)

// Hasher turns plaintext passwords into salted one-way hashes.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hash string) bool
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher rejects work factors bcrypt itself would not accept.
func NewBcryptHasher(workFactor int) (*BcryptHasher, error) {
	if workFactor < bcrypt.MinCost || workFactor > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt work factor %d out of range [%d, %d]", workFactor, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: workFactor}, nil
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Compare reports false for a mismatch as well as for a malformed hash.
func (h *BcryptHasher) Compare(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
