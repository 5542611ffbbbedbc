package auth

import (
	"errors"
	"testing"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if err := CheckPassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("CheckPassword error for matching password: %v", err)
	}
}

func TestCheckPassword_Mismatch(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("original")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	err = CheckPassword(hash, "different")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected common.ErrorUnauthorized, got %v", err)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	b, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if string(a) == string(b) {
		t.Fatal("two hashes of the same password are identical; bcrypt salt missing")
	}
}
