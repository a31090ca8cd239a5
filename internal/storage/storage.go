package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
)

// Package storage provides local DB/cache abstraction.

// Store tracks delivered notification IDs and the persisted API session.
type Store interface {
	Close() error
	SeenNotification(id string) (bool, error)
	MarkNotification(id string) error
	LoadSession() (domain.Session, bool, error)
	SaveSession(s domain.Session) error
	ClearSession() error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	NotificationTTL time.Duration
	CleanupInterval time.Duration
}

const (
	defaultNotificationTTL = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return &noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = defaultNotificationTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore keeps no dedupe state. The session is held in memory so a
// process without persistent storage can still stay signed in.
type noopStore struct {
	mu      sync.Mutex
	session domain.Session
	ok      bool
}

func (*noopStore) Close() error                          { return nil }
func (*noopStore) SeenNotification(string) (bool, error) { return false, nil }
func (*noopStore) MarkNotification(string) error         { return nil }

func (n *noopStore) LoadSession() (domain.Session, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.session, n.ok, nil
}

func (n *noopStore) SaveSession(s domain.Session) error {
	n.mu.Lock()
	n.session, n.ok = s, true
	n.mu.Unlock()
	return nil
}

func (n *noopStore) ClearSession() error {
	n.mu.Lock()
	n.session, n.ok = domain.Session{}, false
	n.mu.Unlock()
	return nil
}
