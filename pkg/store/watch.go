package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/grit/pkg/item"
)

// EventType categorizes an observed change to an item file.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event reports an out-of-band change to an item file, e.g. an edit made
// in another editor or a git pull landing new files.
type Event struct {
	Type      EventType
	ID        string // root-relative path without the .md extension
	Timestamp int64  // Unix timestamp
}

// Watch observes the four item subtrees until ctx is cancelled. pattern
// is a doublestar glob matched against the root-relative path; empty
// means every item file. The channel closes when the watcher stops.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	if pattern == "" {
		pattern = "**/*.md"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, &item.ValidationError{Field: "pattern", Reason: fmt.Sprintf("%q is not a valid glob", pattern)}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	for _, dir := range layoutDirs {
		if err := watcher.Add(s.itemDirAbs(dir)); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 16)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer s.setWatcherActive(false)
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil

			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				s.forwardEvent(ctx, ev, pattern, events)

			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if s.logger != nil {
					s.logger.Error("fsnotify error", "error", werr)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		if s.logger != nil {
			s.logger.Error("watcher panicked", "error", err)
		}
	}))

	return events, nil
}

// forwardEvent filters, maps and delivers one filesystem event.
func (s *Store) forwardEvent(ctx context.Context, ev fsnotify.Event, pattern string, events chan<- Event) {
	rel, err := filepath.Rel(s.root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	// Atomic writes surface as a temp file plus a rename; only the final
	// name matters.
	if strings.HasPrefix(filepath.Base(rel), tempFilePrefix) {
		return
	}
	if !strings.HasSuffix(rel, ".md") {
		return
	}
	if ok, _ := doublestar.Match(pattern, rel); !ok {
		return
	}

	var typ EventType
	switch {
	case ev.Has(fsnotify.Create):
		typ = EventCreate
	case ev.Has(fsnotify.Write):
		typ = EventModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		typ = EventDelete
	default:
		return
	}

	if s.logger != nil {
		s.logger.Debug("item file changed", "path", rel, "event", typ)
	}

	select {
	case events <- Event{Type: typ, ID: strings.TrimSuffix(rel, ".md"), Timestamp: time.Now().Unix()}:
	case <-ctx.Done():
	}
}
