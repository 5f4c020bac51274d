package redis

import (
	"errors"
	"testing"

	"github.com/MokokAf/amm-saas/pkg/config"
)

func TestNewClientRejectsEmptyAddresses(t *testing.T) {
	if _, err := NewClient(&config.RedisConfig{}); !errors.Is(err, ErrNoAddresses) {
		t.Fatalf("NewClient() error = %v, want ErrNoAddresses", err)
	}
}
