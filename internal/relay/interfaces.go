package relay

import (
	"context"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
	"github.com/shiftline-hq/shiftline-client/pkg/client"
	"github.com/shiftline-hq/shiftline-client/pkg/publishers"
)

// NotificationSource reads and acknowledges notifications on the API.
type NotificationSource interface {
	ListNotifications(ctx context.Context, q client.NotificationQuery) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

// EventPublisher publishes relayed notifications downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which notifications were already delivered.
type Deduper interface {
	SeenNotification(id string) (bool, error)
	MarkNotification(id string) error
}

// Logger is the structured logging surface the relay writes to.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Authenticator re-establishes the API session after the server rejects it.
type Authenticator func(ctx context.Context) error
