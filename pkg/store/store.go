// Package store is the persistent item store: CRUD over todo and memo
// files inside a git-backed data directory. Every successful mutation
// writes its file atomically and records exactly one commit before
// returning, so an abrupt exit never loses a change that was reported
// successful. Pushing to a remote is decoupled and best-effort.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/grit/pkg/frontmatter"
	"github.com/aretw0/grit/pkg/git"
	"github.com/aretw0/grit/pkg/item"
)

// doneAtLayout is the timestamp format recorded when a todo is completed.
const doneAtLayout = "2006-01-02T15:04:05"

// Store is an item store bound to one data directory. Opening a different
// directory means opening a new Store; an instance never changes roots.
type Store struct {
	root    string
	git     *git.Client
	gitless bool
	logger  *slog.Logger
	now     func() time.Time

	// mu serializes every write-file-then-commit sequence. Reads don't
	// take it: atomic renames keep half-written files unobservable.
	mu sync.Mutex

	stateMu       sync.RWMutex
	watcherActive bool
	lastPush      *time.Time
}

// Open binds a store to the given data directory: it creates the four
// required subtrees, ensures a git repository exists there, and returns
// the new instance. This is the only way subsequent operations change
// which directory they target.
func Open(root string, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	abs, err := absPath(root)
	if err != nil {
		return nil, &ConfigError{Path: root, Err: err}
	}

	s := &Store{
		root:    abs,
		git:     git.NewClient(abs, o.logger),
		gitless: o.gitless,
		logger:  o.logger,
		now:     o.now,
	}

	if err := s.ensureLayout(); err != nil {
		return nil, err
	}

	if !s.gitless {
		if !git.IsInstalled() {
			return nil, &ConfigError{Path: abs, Err: errors.New("git is not installed")}
		}
		if err := s.ensureRepo(); err != nil {
			return nil, &ConfigError{Path: abs, Err: err}
		}
	}

	return s, nil
}

// Root returns the bound data directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) ensureLayout() error {
	for _, dir := range layoutDirs {
		if err := os.MkdirAll(s.itemDirAbs(dir), 0755); err != nil {
			return &ConfigError{Path: s.root, Err: err}
		}
	}
	return nil
}

// ensureRepo initializes a git repository if none exists and makes sure
// the lock file stays out of history. Idempotent.
func (s *Store) ensureRepo() error {
	wasNew := false
	if !s.git.IsRepo() {
		if err := s.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNew = true
	}

	modified, err := s.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if modified && wasNew {
		if err := s.git.Add(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := s.git.Commit("chore: ignore grit lock file"); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}

	return nil
}

// ensureIgnore makes sure the transient lock file never enters history.
// Returns whether .gitignore was modified.
func (s *Store) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(s.root, ".gitignore")
	ignoreEntry := git.LockFileName

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}

	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

// Listing is the result of a directory scan. Malformed files never abort
// a scan; they are skipped and counted.
type Listing struct {
	Items   []item.Item
	Skipped int
}

// List scans the subtree(s) for the given type and decodes every item
// file. Files that fail to decode are logged and counted, not fatal.
func (s *Store) List(ctx context.Context, typ item.ItemType, includeArchived bool) (Listing, error) {
	var l Listing

	scopes := []bool{false}
	if includeArchived {
		scopes = append(scopes, true)
	}

	for _, archived := range scopes {
		dir := typeDir(typ, archived)
		entries, err := os.ReadDir(s.itemDirAbs(dir))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Listing{}, fmt.Errorf("failed to scan %s: %w", dir, err)
		}

		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			if err := ctx.Err(); err != nil {
				return Listing{}, err
			}

			slug := strings.TrimSuffix(e.Name(), ".md")
			it, err := s.readItem(typ, slug, archived)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("skipping unreadable item file", "dir", dir, "file", e.Name(), "error", err)
				}
				l.Skipped++
				continue
			}
			l.Items = append(l.Items, it)
		}
	}

	if l.Skipped > 0 && s.logger != nil {
		s.logger.Warn("some item files could not be decoded", "type", typ, "skipped", l.Skipped)
	}

	return l, nil
}

// Get loads one item by slug, checking the active location first and the
// archive second.
func (s *Store) Get(ctx context.Context, typ item.ItemType, slug string) (item.Item, error) {
	for _, archived := range []bool{false, true} {
		it, err := s.readItem(typ, slug, archived)
		if err == nil {
			return it, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%s %q: %w", typ, slug, ErrNotFound)
}

func (s *Store) readItem(typ item.ItemType, slug string, archived bool) (item.Item, error) {
	path := filepath.Join(s.itemDirAbs(typeDir(typ, archived)), slug+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	it, err := frontmatter.Decode(data)
	if err != nil {
		return nil, err
	}
	if it.Type() != typ {
		return nil, &frontmatter.DecodeError{
			Reason: fmt.Sprintf("file under %s declares type %s", typeDir(typ, archived), it.Type()),
		}
	}

	relocate(it, slug, archived)
	return it, nil
}

// CreateTodo validates the input, assigns a unique slug and creation
// date, writes the file and commits.
func (s *Store) CreateTodo(ctx context.Context, title string, priority item.Priority, due *item.Date, description string) (*item.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &item.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if priority == "" {
		priority = item.PriorityMedium
	}
	if _, err := item.ParsePriority(string(priority)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.slugsIn(typeDir(item.TypeTodo, false), typeDir(item.TypeTodo, true))
	if err != nil {
		return nil, err
	}

	t := &item.Todo{
		Slug:        item.UniqueSlug(title, existing),
		Title:       title,
		Priority:    priority,
		Due:         due,
		Description: description,
		Created:     item.NewDate(s.now()),
	}

	if err := s.writeLocked(t); err != nil {
		return nil, err
	}
	if err := s.commitLocked(commitMessage("Add", t)); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateMemo validates the input, assigns a unique slug and creation
// date, writes the file and commits.
func (s *Store) CreateMemo(ctx context.Context, title, body string) (*item.Memo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &item.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.slugsIn(typeDir(item.TypeMemo, false), typeDir(item.TypeMemo, true))
	if err != nil {
		return nil, err
	}

	now := item.NewDate(s.now())
	m := &item.Memo{
		Slug:    item.UniqueSlug(title, existing),
		Title:   title,
		Body:    body,
		Created: now,
		Updated: now,
	}

	if err := s.writeLocked(m); err != nil {
		return nil, err
	}
	if err := s.commitLocked(commitMessage("Add", m)); err != nil {
		return nil, err
	}
	return m, nil
}

// Update re-encodes the item over its existing file. Memos get a fresh
// updated date. Fails with ErrNotFound when the backing file vanished.
func (s *Store) Update(ctx context.Context, it item.Item) error {
	if strings.TrimSpace(it.Name()) == "" {
		return &item.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.statLocked(it); err != nil {
		return err
	}

	if m, ok := it.(*item.Memo); ok {
		m.Updated = item.NewDate(s.now())
	}

	if err := s.writeLocked(it); err != nil {
		return err
	}
	return s.commitLocked(commitMessage("Update", it))
}

// ToggleDone flips a todo's done flag, stamps or clears done-at, persists
// and commits. The returned todo is the same instance, mutated.
func (s *Store) ToggleDone(ctx context.Context, t *item.Todo) (*item.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.statLocked(t); err != nil {
		return nil, err
	}

	t.Done = !t.Done
	if t.Done {
		t.DoneAt = s.now().Format(doneAtLayout)
	} else {
		t.DoneAt = ""
	}

	if err := s.writeLocked(t); err != nil {
		return nil, err
	}
	if err := s.commitLocked(commitMessage("Update", t)); err != nil {
		return nil, err
	}
	return t, nil
}

// Archive relocates the item into the archive subtree for its type.
// The file moves verbatim; the slug changes only if the destination
// already holds a colliding one. A commit failure after the move does
// not undo it: the error reports the missed commit, and the item keeps
// its new location on disk and in memory.
func (s *Store) Archive(ctx context.Context, it item.Item) (item.Item, error) {
	return s.move(ctx, it, true, "Archive")
}

// Unarchive relocates the item back into its active subtree. Commit
// failure semantics match Archive: the move stands, only the commit is
// reported lost.
func (s *Store) Unarchive(ctx context.Context, it item.Item) (item.Item, error) {
	return s.move(ctx, it, false, "Unarchive")
}

func (s *Store) move(ctx context.Context, it item.Item, toArchive bool, verb string) (item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if it.IsArchived() == toArchive {
		return it, nil
	}

	src := s.itemAbs(it)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s %q: %w", it.Type(), it.ID(), ErrNotFound)
		}
		return nil, err
	}

	destDir := typeDir(it.Type(), toArchive)
	existing, err := s.slugsIn(destDir)
	if err != nil {
		return nil, err
	}

	oldSlug, oldArchived := it.ID(), it.IsArchived()
	relocate(it, item.Uniquify(it.ID(), existing), toArchive)

	if err := os.Rename(src, s.itemAbs(it)); err != nil {
		relocate(it, oldSlug, oldArchived)
		return nil, fmt.Errorf("failed to move %s: %w", oldSlug, err)
	}

	if err := s.commitLocked(commitMessage(verb, it)); err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes the item's file and commits the removal.
func (s *Store) Delete(ctx context.Context, it item.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.statLocked(it); err != nil {
		return err
	}

	if err := os.Remove(s.itemAbs(it)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", it.ID(), err)
	}
	return s.commitLocked(commitMessage("Delete", it))
}

// Sync pulls and pushes synchronously. Used by the explicit sync command;
// background durability relies on commits, not on this.
func (s *Store) Sync(ctx context.Context) error {
	if s.gitless {
		return errors.New("cannot sync: store is gitless")
	}
	if !s.git.HasRemote() {
		return errors.New("no remote configured")
	}

	unlock, err := s.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := s.git.Pull(); err != nil {
		return err
	}
	return s.git.Push()
}

// PushAsync fires a best-effort push on a detached goroutine. Failures
// (no remote, network, auth) are logged and swallowed; the caller never
// blocks and process exit is free to leave the push in flight.
func (s *Store) PushAsync(ctx context.Context) {
	if s.gitless {
		return
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		if !s.git.HasRemote() {
			if s.logger != nil {
				s.logger.Debug("push skipped: no remote configured")
			}
			return nil
		}
		if err := s.git.Push(); err != nil {
			if s.logger != nil {
				s.logger.Warn("background push failed", "error", err)
			}
			return nil
		}
		s.recordPush()
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		if s.logger != nil {
			s.logger.Error("background push panicked", "error", err)
		}
	}))
}

// statLocked verifies the item's backing file still exists. Caller holds mu.
func (s *Store) statLocked(it item.Item) error {
	if _, err := os.Stat(s.itemAbs(it)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s %q: %w", it.Type(), it.ID(), ErrNotFound)
		}
		return err
	}
	return nil
}

// writeLocked encodes and atomically writes the item's file. Caller holds mu.
func (s *Store) writeLocked(it item.Item) error {
	data, err := frontmatter.Encode(it)
	if err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Debug("writing item", "path", itemRel(it))
	}
	return writeFileAtomic(s.itemAbs(it), data, 0644)
}

// commitLocked records one commit for the preceding write. Commit
// failures surface to the caller: they threaten durability. Caller holds mu.
func (s *Store) commitLocked(msg string) error {
	if s.gitless {
		return nil
	}

	unlock, err := s.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := s.git.CommitAll(msg); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
