package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
	"github.com/shiftline-hq/shiftline-client/internal/logger"
	"github.com/shiftline-hq/shiftline-client/pkg/api"
	"github.com/shiftline-hq/shiftline-client/pkg/client"
	"github.com/shiftline-hq/shiftline-client/pkg/publishers"
)

// Options tune a relay pass.
type Options struct {
	// Source identifies the API the notifications came from in published events.
	Source string
	Limit  int
	// MarkRead acknowledges each notification on the API once every
	// publisher accepted it.
	MarkRead bool
}

// Service forwards unread notifications to the configured publishers.
type Service struct {
	source    NotificationSource
	publisher EventPublisher
	deduper   Deduper
	reauth    Authenticator
	log       Logger
	opts      Options
}

// Summary describes the outcome of one pass.
type Summary struct {
	Fetched   int `json:"fetched"`
	Fresh     int `json:"fresh"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
}

// NewService wires a relay. A nil deduper relays every unread notification on
// each pass; a nil authenticator disables the retry on 401.
func NewService(src NotificationSource, pub EventPublisher, dedupe Deduper, reauth Authenticator, log Logger, opts Options) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		source:    src,
		publisher: pub,
		deduper:   dedupe,
		reauth:    reauth,
		log:       log,
		opts:      opts,
	}
}

// RunOnce fetches unread notifications and relays the ones not yet delivered.
func (s *Service) RunOnce(ctx context.Context) (Summary, error) {
	if s == nil || s.source == nil || s.publisher == nil {
		return Summary{}, fmt.Errorf("relay service is not initialized")
	}

	notifications, err := s.fetch(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list notifications: %w", err)
	}

	fresh := s.filterNew(notifications)
	sum := Summary{Fetched: len(notifications), Fresh: len(fresh)}

	var errs []error
	for _, n := range fresh {
		if ctx.Err() != nil {
			break
		}
		if err := s.deliver(ctx, n); err != nil {
			sum.Failed++
			errs = append(errs, err)
			continue
		}
		sum.Published++
	}

	s.log.InfoObj("relay pass completed", "relay_summary", sum)
	return sum, errors.Join(errs...)
}

func (s *Service) fetch(ctx context.Context) ([]domain.Notification, error) {
	q := client.NotificationQuery{UnreadOnly: true, Limit: s.opts.Limit}
	notifications, err := s.source.ListNotifications(ctx, q)
	if err == nil || s.reauth == nil || !unauthorized(err) {
		return notifications, err
	}

	s.log.WarnObj("session rejected; re-authenticating", "relay_auth", map[string]any{
		"error": err.Error(),
	})
	if authErr := s.reauth(ctx); authErr != nil {
		return nil, errors.Join(err, fmt.Errorf("re-authenticate: %w", authErr))
	}
	return s.source.ListNotifications(ctx, q)
}

// filterNew drops read and already delivered notifications. A dedupe lookup
// failure keeps the notification so it is not silently lost.
func (s *Service) filterNew(notifications []domain.Notification) []domain.Notification {
	out := make([]domain.Notification, 0, len(notifications))
	for _, n := range notifications {
		if n.Read() {
			continue
		}
		if s.deduper != nil {
			seen, err := s.deduper.SeenNotification(n.ID)
			if err != nil {
				s.log.WarnObj("dedupe lookup failed", "relay_dedupe_error", map[string]any{
					"notification_id": n.ID,
					"error":           err.Error(),
				})
			} else if seen {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func (s *Service) deliver(ctx context.Context, n domain.Notification) error {
	evt := publishers.NewEvent(s.opts.Source, n)
	if _, err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.ErrorObj("notification publish failed", "relay_publish_error", map[string]any{
			"notification_id": n.ID,
			"error":           err.Error(),
		})
		return fmt.Errorf("publish notification %s: %w", n.ID, err)
	}

	// Delivery is recorded only once the read acknowledgement went through,
	// so a failed acknowledgement is retried on the next pass.
	if s.opts.MarkRead {
		if err := s.source.MarkNotificationRead(ctx, n.ID); err != nil {
			return fmt.Errorf("mark notification %s read: %w", n.ID, err)
		}
	}

	if s.deduper != nil {
		if err := s.deduper.MarkNotification(n.ID); err != nil {
			s.log.WarnObj("dedupe mark failed", "relay_dedupe_error", map[string]any{
				"notification_id": n.ID,
				"error":           err.Error(),
			})
		}
	}

	s.log.DebugObj("notification relayed", "relay_delivery", map[string]any{
		"notification_id": n.ID,
		"type":            n.Type,
	})
	return nil
}

func unauthorized(err error) bool {
	apiErr, ok := api.AsError(err)
	return ok && apiErr.Status == http.StatusUnauthorized
}
