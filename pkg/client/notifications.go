package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
	"github.com/shiftline-hq/shiftline-client/pkg/api"
)

// NotificationQuery filters the notifications list.
type NotificationQuery struct {
	UnreadOnly bool
	Limit      int
	Cursor     string
}

func (q NotificationQuery) values() url.Values {
	v := url.Values{}
	if q.UnreadOnly {
		v.Set("unreadOnly", "true")
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Cursor != "" {
		v.Set("cursor", q.Cursor)
	}
	return v
}

// ListNotifications returns notifications for the authenticated user.
func (c *Client) ListNotifications(ctx context.Context, q NotificationQuery) ([]domain.Notification, error) {
	path, err := literal(api.KeyNotificationsList, c.cfg.Endpoints().Notifications.List)
	if err != nil {
		return nil, err
	}
	return call[[]domain.Notification](ctx, c, http.MethodGet, withQuery(path, q.values()), nil)
}

// MarkNotificationRead acknowledges a single notification.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path, err := resolve(api.KeyNotificationsMarkRead, c.cfg.Endpoints().Notifications.MarkRead, id)
	if err != nil {
		return err
	}
	_, err = call[domain.Ack](ctx, c, http.MethodPatch, path, nil)
	return err
}

// MarkAllNotificationsRead acknowledges every unread notification.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (domain.Ack, error) {
	path, err := literal(api.KeyNotificationsMarkAllRead, c.cfg.Endpoints().Notifications.MarkAllRead)
	if err != nil {
		return domain.Ack{}, err
	}
	return call[domain.Ack](ctx, c, http.MethodPatch, path, nil)
}
