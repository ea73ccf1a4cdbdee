package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-storefront/internal/domains/navigation/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/navigation/ports"
)

// DefaultTTL bounds how long an unread notification survives.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "storefront:notification:"

var _ ports.Inbox = (*Inbox)(nil)

// Inbox stores one pending notification per session under a TTL'd key and
// reads it back with GETDEL, so two concurrent readers never both see it.
type Inbox struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewInbox(client goredis.UniversalClient, ttl time.Duration) *Inbox {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Inbox{client: client, ttl: ttl}
}

func (i *Inbox) Deliver(ctx context.Context, sessionID string, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return i.client.Set(ctx, keyPrefix+sessionID, payload, i.ttl).Err()
}

func (i *Inbox) Consume(ctx context.Context, sessionID string) (domain.Notification, bool, error) {
	raw, err := i.client.GetDel(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Notification{}, false, nil
	}
	if err != nil {
		return domain.Notification{}, false, err
	}
	var n domain.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return domain.Notification{}, false, fmt.Errorf("decode notification: %w", err)
	}
	return n, true, nil
}
