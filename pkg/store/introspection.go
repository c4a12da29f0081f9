package store

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Root          string     `json:"root"`
	Gitless       bool       `json:"gitless"`
	WatcherActive bool       `json:"watcher_active"`
	// LastPush is when the last background push completed successfully;
	// nil until one has.
	LastPush *time.Time `json:"last_push,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	return StoreState{
		Root:          s.root,
		Gitless:       s.gitless,
		WatcherActive: s.watcherActive,
		LastPush:      s.lastPush,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.watcherActive = active
}

func (s *Store) recordPush() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	now := time.Now()
	s.lastPush = &now
}
