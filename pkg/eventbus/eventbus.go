package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Event struct {
	Type      string          `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// AuditEvent mirrors an action-log entry; the core only publishes, any
// downstream consumer (notifications, reporting) subscribes on its own.
type AuditEvent struct {
	Action    string `json:"action"`
	TenantID  string `json:"tenant_id"`
	UserID    string `json:"user_id,omitempty"`
	DossierID string `json:"dossier_id,omitempty"`
	ModuleID  string `json:"module_id,omitempty"`
	Details   string `json:"details,omitempty"`
}

const ChannelAudit = "amm:events:audit"

type Bus struct {
	client redis.UniversalClient
}

func NewBus(client redis.UniversalClient) *Bus {
	return &Bus{client: client}
}

func NewEvent(eventType string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}, nil
}

func (b *Bus) Publish(ctx context.Context, channel string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channel, payload).Err()
}
