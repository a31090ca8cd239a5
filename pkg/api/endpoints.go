package api

import (
	"errors"
	"fmt"
	"sort"
)

// AuthEndpoints groups session management routes.
type AuthEndpoints struct {
	Login    Template
	Register Template
	Refresh  Template
	Logout   Template
	Me       Template
}

// NotificationEndpoints groups in-app notification routes.
type NotificationEndpoints struct {
	List        Template
	MarkRead    Template
	MarkAllRead Template
}

// ScheduleEndpoints groups shift schedule routes.
type ScheduleEndpoints struct {
	List   Template
	Create Template
	Update Template
	Delete Template
}

// Endpoints is the full set of routes a client may call, grouped by feature area.
type Endpoints struct {
	Auth          AuthEndpoints
	Notifications NotificationEndpoints
	Schedules     ScheduleEndpoints
}

// Dotted keys used by Lookup and endpoint override files.
const (
	KeyAuthLogin                = "auth.login"
	KeyAuthRegister             = "auth.register"
	KeyAuthRefresh              = "auth.refresh"
	KeyAuthLogout               = "auth.logout"
	KeyAuthMe                   = "auth.me"
	KeyNotificationsList        = "notifications.list"
	KeyNotificationsMarkRead    = "notifications.markRead"
	KeyNotificationsMarkAllRead = "notifications.markAllRead"
	KeySchedulesList            = "schedules.list"
	KeySchedulesCreate          = "schedules.create"
	KeySchedulesUpdate          = "schedules.update"
	KeySchedulesDelete          = "schedules.delete"
)

// DefaultEndpoints returns the route table served by the backend under /api/v1.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Auth: AuthEndpoints{
			Login:    Literal("/auth/login"),
			Register: Literal("/auth/register"),
			Refresh:  Literal("/auth/refresh"),
			Logout:   Literal("/auth/logout"),
			Me:       Literal("/auth/me"),
		},
		Notifications: NotificationEndpoints{
			List:        Literal("/notifications"),
			MarkRead:    MustPattern("/notifications/{id}/read"),
			MarkAllRead: Literal("/notifications/read-all"),
		},
		Schedules: ScheduleEndpoints{
			List:   Literal("/schedules"),
			Create: Literal("/schedules"),
			Update: MustPattern("/schedules/{id}"),
			Delete: MustPattern("/schedules/{id}"),
		},
	}
}

// slot binds a dotted key to a template field and the variant it must hold.
type slot struct {
	key  string
	kind Kind
	tmpl *Template
}

func (e *Endpoints) slots() []slot {
	return []slot{
		{KeyAuthLogin, KindLiteral, &e.Auth.Login},
		{KeyAuthRegister, KindLiteral, &e.Auth.Register},
		{KeyAuthRefresh, KindLiteral, &e.Auth.Refresh},
		{KeyAuthLogout, KindLiteral, &e.Auth.Logout},
		{KeyAuthMe, KindLiteral, &e.Auth.Me},
		{KeyNotificationsList, KindLiteral, &e.Notifications.List},
		{KeyNotificationsMarkRead, KindParameterized, &e.Notifications.MarkRead},
		{KeyNotificationsMarkAllRead, KindLiteral, &e.Notifications.MarkAllRead},
		{KeySchedulesList, KindLiteral, &e.Schedules.List},
		{KeySchedulesCreate, KindLiteral, &e.Schedules.Create},
		{KeySchedulesUpdate, KindParameterized, &e.Schedules.Update},
		{KeySchedulesDelete, KindParameterized, &e.Schedules.Delete},
	}
}

// Validate checks that every route is set and holds the expected variant.
func (e Endpoints) Validate() error {
	var errs []error
	for _, s := range e.slots() {
		switch got := s.tmpl.Kind(); {
		case got == KindUnset:
			errs = append(errs, fmt.Errorf("endpoint %s is not configured", s.key))
		case got != s.kind:
			errs = append(errs, fmt.Errorf("endpoint %s must be %s, got %s", s.key, s.kind, got))
		case got == KindLiteral && s.tmpl.path == "":
			errs = append(errs, fmt.Errorf("endpoint %s has an empty path", s.key))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Lookup returns the template registered under a dotted key such as "notifications.markRead".
func (e Endpoints) Lookup(key string) (Template, bool) {
	for _, s := range e.slots() {
		if s.key == key {
			return *s.tmpl, true
		}
	}
	return Template{}, false
}

// Keys lists every dotted endpoint key in sorted order.
func (e Endpoints) Keys() []string {
	slots := e.slots()
	keys := make([]string, 0, len(slots))
	for _, s := range slots {
		keys = append(keys, s.key)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of e with the template under key replaced.
func (e Endpoints) With(key string, t Template) (Endpoints, error) {
	for _, s := range e.slots() {
		if s.key != key {
			continue
		}
		if t.Kind() != s.kind {
			return e, fmt.Errorf("%w: endpoint %s must be %s, got %s", ErrInvalidConfig, key, s.kind, t.Kind())
		}
		*s.tmpl = t
		return e, nil
	}
	return e, fmt.Errorf("%w: %q", ErrUnknownEndpoint, key)
}
