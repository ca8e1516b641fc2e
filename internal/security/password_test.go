package security_test

import (
	"testing"

	"github.com/taskcheck/api/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plain password")
	}

	if err := security.CheckPassword(hash, "password123"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := security.CheckPassword(hash, "wrong-password"); err == nil {
		t.Fatal("wrong password accepted")
	}
}
