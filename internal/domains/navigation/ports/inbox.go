package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/navigation/domain"
)

// Inbox hands a notification from the view that navigated to the view that
// renders next. Consume clears the entry, so a notification is read at most once.
type Inbox interface {
	Deliver(ctx context.Context, sessionID string, n domain.Notification) error
	Consume(ctx context.Context, sessionID string) (domain.Notification, bool, error)
}
