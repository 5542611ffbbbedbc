package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
)

// MinPasswordLength is enforced on password changes. Provisioning accepts
// any non-empty temporary password; the first login forces a change.
const MinPasswordLength = 8

// HashPassword derives a bcrypt hash from the plaintext password.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword compares a stored hash with a candidate password.
// A mismatch yields common.ErrorUnauthorized.
func CheckPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return common.ErrorUnauthorized
	}
	return nil
}
