package api

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultEndpointsValidate(t *testing.T) {
	if err := DefaultEndpoints().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDefaultLiteralPaths(t *testing.T) {
	e := DefaultEndpoints()
	want := map[string]string{
		KeyAuthLogin:                "/auth/login",
		KeyAuthRegister:             "/auth/register",
		KeyAuthRefresh:              "/auth/refresh",
		KeyAuthLogout:               "/auth/logout",
		KeyAuthMe:                   "/auth/me",
		KeyNotificationsList:        "/notifications",
		KeyNotificationsMarkAllRead: "/notifications/read-all",
		KeySchedulesList:            "/schedules",
		KeySchedulesCreate:          "/schedules",
	}
	for key, path := range want {
		tmpl, ok := e.Lookup(key)
		if !ok {
			t.Fatalf("Lookup(%q) missing", key)
		}
		got, err := tmpl.Path()
		if err != nil || got != path {
			t.Fatalf("%s: Path = %q, %v; want %q", key, got, err, path)
		}
	}
}

func TestValidateReportsMissingAndWrongKind(t *testing.T) {
	e := DefaultEndpoints()
	e.Auth.Me = Template{}
	e.Schedules.Delete = Literal("/schedules/delete")

	err := e.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestKeysSorted(t *testing.T) {
	keys := DefaultEndpoints().Keys()
	if len(keys) != 12 {
		t.Fatalf("expected 12 keys, got %d", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	base := DefaultEndpoints()
	next, err := base.With(KeyAuthMe, Literal("/users/me"))
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if p, _ := next.Auth.Me.Path(); p != "/users/me" {
		t.Fatalf("override not applied: %q", p)
	}
	if p, _ := base.Auth.Me.Path(); p != "/auth/me" {
		t.Fatalf("base mutated: %q", p)
	}
	if _, err := base.With("auth.unknown", Literal("/x")); !errors.Is(err, ErrUnknownEndpoint) {
		t.Fatalf("expected ErrUnknownEndpoint, got %v", err)
	}
}

func TestLoadEndpointsYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	raw := `
endpoints:
  auth:
    me: /users/me
  notifications:
    markRead: /notifications/{id}/mark-read
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	e, err := LoadEndpoints(path)
	if err != nil {
		t.Fatalf("LoadEndpoints: %v", err)
	}
	if p, _ := e.Auth.Me.Path(); p != "/users/me" {
		t.Fatalf("auth.me = %q", p)
	}
	got, err := e.Notifications.MarkRead.Resolve("n1")
	if err != nil || got != "/notifications/n1/mark-read" {
		t.Fatalf("markRead = %q, %v", got, err)
	}
	if p, _ := e.Auth.Login.Path(); p != "/auth/login" {
		t.Fatalf("untouched default changed: %q", p)
	}
}

func TestLoadEndpointsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.json")
	raw := `{"endpoints":{"schedules":{"update":"/shifts/{id}"}}}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	e, err := LoadEndpoints(path)
	if err != nil {
		t.Fatalf("LoadEndpoints: %v", err)
	}
	got, _ := e.Schedules.Update.Resolve("s1")
	if got != "/shifts/s1" {
		t.Fatalf("schedules.update = %q", got)
	}
}

func TestMergeEndpointsRejectsBadOverrides(t *testing.T) {
	cases := map[string]map[string]map[string]string{
		"unknown key":         {"auth": {"whoami": "/whoami"}},
		"missing placeholder": {"schedules": {"delete": "/schedules/remove"}},
		"empty path":          {"auth": {"login": "  "}},
	}
	for name, overrides := range cases {
		if _, err := MergeEndpoints(DefaultEndpoints(), overrides); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadEndpointsEmptyPathUsesDefaults(t *testing.T) {
	e, err := LoadEndpoints("  ")
	if err != nil {
		t.Fatalf("LoadEndpoints: %v", err)
	}
	if p, _ := e.Notifications.List.Path(); p != "/notifications" {
		t.Fatalf("notifications.list = %q", p)
	}
}
