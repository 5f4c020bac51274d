package auth

import (
	"errors"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}

	if !VerifyPassword("password1", hash) {
		t.Fatal("expected password to verify against its own hash")
	}

	if VerifyPassword("password2", hash) {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	second, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}

	if first == second {
		t.Fatal("expected two hashes of the same password to differ")
	}

	if !VerifyPassword("password1", first) || !VerifyPassword("password1", second) {
		t.Fatal("expected both hashes to verify")
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if VerifyPassword("password1", "not-a-bcrypt-hash") {
		t.Fatal("expected malformed hash to verify as false")
	}
}
