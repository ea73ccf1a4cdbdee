package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/navigation/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/navigation/ports"
)

var _ ports.Inbox = (*Inbox)(nil)

// Inbox keeps the pending notification per session in memory.
type Inbox struct {
	mu      sync.Mutex
	pending map[string]domain.Notification
}

func NewInbox() *Inbox {
	return &Inbox{pending: map[string]domain.Notification{}}
}

// Deliver replaces any unread notification for the session.
func (i *Inbox) Deliver(_ context.Context, sessionID string, n domain.Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pending[sessionID] = n
	return nil
}

func (i *Inbox) Consume(_ context.Context, sessionID string) (domain.Notification, bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	n, ok := i.pending[sessionID]
	if ok {
		delete(i.pending, sessionID)
	}
	return n, ok, nil
}
