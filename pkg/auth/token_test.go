package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenIssueAndValidate(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), time.Hour)
	userID := uuid.New()

	token, err := manager.Issue(userID)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	subject, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if subject != userID {
		t.Fatalf("expected subject %s, got %s", userID, subject)
	}
}

func TestTokenExpired(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), -time.Minute)

	token, err := manager.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := manager.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenTamperedSignature(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), time.Hour)
	forged := NewTokenManager([]byte("other-secret"), time.Hour)

	token, err := forged.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}
