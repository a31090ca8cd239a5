package publishers

import (
	"time"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	NotificationID string              `json:"notification_id"`
	Type           string              `json:"type"`
	Source         string              `json:"source"`
	Notification   domain.Notification `json:"notification"`
	RelayedAt      time.Time           `json:"relayed_at"`
}

// NewEvent constructs an Event for a notification read from the API at source.
func NewEvent(source string, n domain.Notification) Event {
	return Event{
		NotificationID: n.ID,
		Type:           n.Type,
		Source:         source,
		Notification:   n,
		RelayedAt:      time.Now().UTC(),
	}
}
