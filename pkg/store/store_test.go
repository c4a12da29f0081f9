package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/grit/pkg/frontmatter"
	"github.com/aretw0/grit/pkg/git"
	"github.com/aretw0/grit/pkg/item"
	"github.com/aretw0/grit/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock pins item timestamps for deterministic assertions.
var fixedClock = func() time.Time {
	return time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)
}

// openGitless opens a store in a temp dir with version control disabled,
// so tests exercise the file semantics without needing a git binary.
func openGitless(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir(), store.WithGitless(true), store.WithClock(fixedClock))
	require.NoError(t, err)
	return s
}

func TestOpen_CreatesLayout(t *testing.T) {
	s := openGitless(t)

	for _, dir := range []string{"todo", "memo", "archive/todo", "archive/memo"} {
		info, err := os.Stat(filepath.Join(s.Root(), filepath.FromSlash(dir)))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
}

func TestCreateTodo(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	td, err := s.CreateTodo(ctx, "Buy oat milk", "", nil, "")
	require.NoError(t, err)

	assert.Equal(t, "buy-oat-milk", td.Slug)
	assert.Equal(t, item.PriorityMedium, td.Priority)
	assert.Equal(t, "2026-08-26", td.Created.String())
	assert.False(t, td.Done)

	_, err = os.Stat(filepath.Join(s.Root(), "todo", "buy-oat-milk.md"))
	assert.NoError(t, err)
}

func TestCreateTodo_Validation(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	var verr *item.ValidationError

	_, err := s.CreateTodo(ctx, "   ", "", nil, "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = s.CreateTodo(ctx, "x", "urgent", nil, "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Field)
}

func TestCreateTodo_DuplicateTitleGetsSuffix(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	first, err := s.CreateTodo(ctx, "Buy oat milk", "", nil, "")
	require.NoError(t, err)
	second, err := s.CreateTodo(ctx, "Buy oat milk!", "", nil, "")
	require.NoError(t, err)
	third, err := s.CreateTodo(ctx, "buy OAT milk", "", nil, "")
	require.NoError(t, err)

	assert.Equal(t, "buy-oat-milk", first.Slug)
	assert.Equal(t, "buy-oat-milk-2", second.Slug)
	assert.Equal(t, "buy-oat-milk-3", third.Slug)
}

func TestCreateTodo_SlugUniqueAcrossArchive(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	td, err := s.CreateTodo(ctx, "Task", "", nil, "")
	require.NoError(t, err)
	_, err = s.Archive(ctx, td)
	require.NoError(t, err)

	again, err := s.CreateTodo(ctx, "Task", "", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "task-2", again.Slug)
}

func TestCreateMemo(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	m, err := s.CreateMemo(ctx, "Meeting notes", "We talked.\n")
	require.NoError(t, err)

	assert.Equal(t, "meeting-notes", m.Slug)
	assert.Equal(t, m.Created, m.Updated)

	got, err := s.Get(ctx, item.TypeMemo, "meeting-notes")
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestGet_NotFound(t *testing.T) {
	s := openGitless(t)

	_, err := s.Get(context.Background(), item.TypeTodo, "no-such-thing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGet_CorruptFileSurfacesDecodeError(t *testing.T) {
	s := openGitless(t)

	path := filepath.Join(s.Root(), "todo", "broken.md")
	require.NoError(t, os.WriteFile(path, []byte("not an item\n"), 0644))

	_, err := s.Get(context.Background(), item.TypeTodo, "broken")
	var derr *frontmatter.DecodeError
	assert.ErrorAs(t, err, &derr)
}

func TestGet_FindsArchivedItems(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	td, err := s.CreateTodo(ctx, "Old task", "", nil, "")
	require.NoError(t, err)
	_, err = s.Archive(ctx, td)
	require.NoError(t, err)

	got, err := s.Get(ctx, item.TypeTodo, "old-task")
	require.NoError(t, err)
	assert.True(t, got.IsArchived())
}

func TestUpdate_Memo_BumpsUpdated(t *testing.T) {
	tmp := t.TempDir()
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	s, err := store.Open(tmp, store.WithGitless(true), store.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	ctx := context.Background()

	m, err := s.CreateMemo(ctx, "Notes", "v1")
	require.NoError(t, err)

	now = now.AddDate(0, 0, 3)
	m.Body = "v2"
	require.NoError(t, s.Update(ctx, m))
	assert.Equal(t, "2026-08-04", m.Updated.String())
	assert.Equal(t, "2026-08-01", m.Created.String())

	got, err := s.Get(ctx, item.TypeMemo, "notes")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.(*item.Memo).Body)
}

func TestUpdate_GoneFile(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	td, err := s.CreateTodo(ctx, "Task", "", nil, "")
	require.NoError(t, err)

	// Removed out-of-band, e.g. by hand in a shell.
	require.NoError(t, os.Remove(filepath.Join(s.Root(), "todo", "task.md")))

	err = s.Update(ctx, td)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestToggleDone(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	td, err := s.CreateTodo(ctx, "Task", "", nil, "")
	require.NoError(t, err)

	td, err = s.ToggleDone(ctx, td)
	require.NoError(t, err)
	assert.True(t, td.Done)
	assert.Equal(t, "2026-08-26T10:30:00", td.DoneAt)

	// The done state must survive a reload.
	got, err := s.Get(ctx, item.TypeTodo, "task")
	require.NoError(t, err)
	assert.True(t, got.(*item.Todo).Done)
	assert.Equal(t, "2026-08-26T10:30:00", got.(*item.Todo).DoneAt)

	td, err = s.ToggleDone(ctx, td)
	require.NoError(t, err)
	assert.False(t, td.Done)
	assert.Empty(t, td.DoneAt)
}

func TestArchiveUnarchive_RoundTrip(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	td, err := s.CreateTodo(ctx, "Task", item.PriorityHigh, nil, "details\n")
	require.NoError(t, err)

	archived, err := s.Archive(ctx, td)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived())

	_, err = os.Stat(filepath.Join(s.Root(), "archive", "todo", "task.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.Root(), "todo", "task.md"))
	assert.True(t, os.IsNotExist(err))

	restored, err := s.Unarchive(ctx, archived)
	require.NoError(t, err)
	assert.False(t, restored.IsArchived())
	assert.Equal(t, "task", restored.ID())

	got, err := s.Get(ctx, item.TypeTodo, "task")
	require.NoError(t, err)
	assert.Equal(t, "details\n", got.(*item.Todo).Description)
	assert.Equal(t, item.PriorityHigh, got.(*item.Todo).Priority)
}

func TestArchive_CollisionRenames(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	td, err := s.CreateTodo(ctx, "Task", "", nil, "")
	require.NoError(t, err)
	_, err = s.Archive(ctx, td)
	require.NoError(t, err)

	// A second active file with the same slug, placed out-of-band.
	data, err := frontmatter.Encode(&item.Todo{Title: "Task"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "todo", "task.md"), data, 0644))

	second, err := s.Get(ctx, item.TypeTodo, "task")
	require.NoError(t, err)
	require.False(t, second.IsArchived())

	archived, err := s.Archive(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "task-2", archived.ID())

	_, err = os.Stat(filepath.Join(s.Root(), "archive", "todo", "task-2.md"))
	assert.NoError(t, err)
}

func TestArchive_AlreadyArchivedIsNoop(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	td, err := s.CreateTodo(ctx, "Task", "", nil, "")
	require.NoError(t, err)
	archived, err := s.Archive(ctx, td)
	require.NoError(t, err)

	again, err := s.Archive(ctx, archived)
	require.NoError(t, err)
	assert.Equal(t, archived, again)
}

func TestDelete(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	td, err := s.CreateTodo(ctx, "Task", "", nil, "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, td))

	_, err = s.Get(ctx, item.TypeTodo, "task")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, td), store.ErrNotFound)
}

func TestList(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	_, err := s.CreateTodo(ctx, "Active one", "", nil, "")
	require.NoError(t, err)
	td, err := s.CreateTodo(ctx, "Archived one", "", nil, "")
	require.NoError(t, err)
	_, err = s.Archive(ctx, td)
	require.NoError(t, err)
	_, err = s.CreateMemo(ctx, "A memo", "")
	require.NoError(t, err)

	l, err := s.List(ctx, item.TypeTodo, false)
	require.NoError(t, err)
	assert.Len(t, l.Items, 1)
	assert.Zero(t, l.Skipped)

	l, err = s.List(ctx, item.TypeTodo, true)
	require.NoError(t, err)
	assert.Len(t, l.Items, 2)

	l, err = s.List(ctx, item.TypeMemo, false)
	require.NoError(t, err)
	assert.Len(t, l.Items, 1)
}

func TestList_SkipsMalformedFiles(t *testing.T) {
	s := openGitless(t)
	ctx := context.Background()

	_, err := s.CreateTodo(ctx, "Good", "", nil, "")
	require.NoError(t, err)

	todoDir := filepath.Join(s.Root(), "todo")
	require.NoError(t, os.WriteFile(filepath.Join(todoDir, "broken.md"), []byte("garbage"), 0644))
	// Wrong type for the directory counts as malformed too.
	memoData, err := frontmatter.Encode(&item.Memo{Title: "Mislabeled"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(todoDir, "mislabeled.md"), memoData, 0644))
	// Non-markdown files are not items at all and are ignored silently.
	require.NoError(t, os.WriteFile(filepath.Join(todoDir, "README.txt"), []byte("hi"), 0644))

	l, err := s.List(ctx, item.TypeTodo, false)
	require.NoError(t, err)
	assert.Len(t, l.Items, 1)
	assert.Equal(t, 2, l.Skipped)
	assert.Equal(t, "Good", l.Items[0].Name())
}

func TestState(t *testing.T) {
	s := openGitless(t)

	state, ok := s.State().(store.StoreState)
	require.True(t, ok)
	assert.Equal(t, s.Root(), state.Root)
	assert.True(t, state.Gitless)
	assert.False(t, state.WatcherActive)
	assert.Nil(t, state.LastPush)
	assert.Equal(t, "store", s.ComponentType())
}

// gitEnv pins a committer identity so commits work without global config.
func gitEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
}

func TestGitMode_CommitPerMutation(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git binary not available")
	}
	gitEnv(t)

	tmp := t.TempDir()
	s, err := store.Open(tmp, store.WithClock(fixedClock))
	require.NoError(t, err)
	ctx := context.Background()

	c := git.NewClient(tmp, nil)
	require.True(t, c.IsRepo())

	ignore, err := os.ReadFile(filepath.Join(tmp, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(ignore), git.LockFileName)

	td, err := s.CreateTodo(ctx, "Buy oat milk", "", nil, "")
	require.NoError(t, err)

	subject, err := c.Run("log", "--format=%s", "-1")
	require.NoError(t, err)
	assert.Equal(t, "Add todo: Buy oat milk", subject)

	body, err := c.Run("log", "--format=%b", "-1")
	require.NoError(t, err)
	assert.Contains(t, body, "Powered-by: Grit")

	status, err := c.Status()
	require.NoError(t, err)
	assert.Empty(t, status, "working tree should be clean after a mutation")

	_, err = s.ToggleDone(ctx, td)
	require.NoError(t, err)
	subject, err = c.Run("log", "--format=%s", "-1")
	require.NoError(t, err)
	assert.Equal(t, "Update todo: Buy oat milk", subject)

	_, err = s.Archive(ctx, td)
	require.NoError(t, err)
	subject, err = c.Run("log", "--format=%s", "-1")
	require.NoError(t, err)
	assert.Equal(t, "Archive todo: Buy oat milk", subject)

	count, err := c.Run("rev-list", "--count", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "4", count, "gitignore setup plus one commit per mutation")
}

func TestGitMode_CommitFailureKeepsMove(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git binary not available")
	}
	gitEnv(t)

	tmp := t.TempDir()
	s, err := store.Open(tmp)
	require.NoError(t, err)
	ctx := context.Background()

	td, err := s.CreateTodo(ctx, "Task", "", nil, "")
	require.NoError(t, err)

	// A rejecting pre-commit hook makes every later commit fail.
	hook := filepath.Join(tmp, ".git", "hooks", "pre-commit")
	require.NoError(t, os.MkdirAll(filepath.Dir(hook), 0755))
	require.NoError(t, os.WriteFile(hook, []byte("#!/bin/sh\nexit 1\n"), 0755))

	_, err = s.Archive(ctx, td)
	require.Error(t, err)

	// The move stands even though the commit was lost.
	_, statErr := os.Stat(filepath.Join(tmp, "archive", "todo", "task.md"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(tmp, "todo", "task.md"))
	assert.True(t, os.IsNotExist(statErr))
	assert.True(t, td.IsArchived())
}

func TestGitMode_PushAsyncWithoutRemoteRecordsNothing(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git binary not available")
	}
	gitEnv(t)

	s, err := store.Open(t.TempDir())
	require.NoError(t, err)

	s.PushAsync(context.Background())
	time.Sleep(200 * time.Millisecond)

	state, ok := s.State().(store.StoreState)
	require.True(t, ok)
	assert.Nil(t, state.LastPush, "no push happened, none should be recorded")
}

func TestGitMode_ReopenExistingRepoKeepsHistory(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git binary not available")
	}
	gitEnv(t)

	tmp := t.TempDir()
	s, err := store.Open(tmp)
	require.NoError(t, err)
	_, err = s.CreateTodo(context.Background(), "Task", "", nil, "")
	require.NoError(t, err)

	s2, err := store.Open(tmp)
	require.NoError(t, err)

	got, err := s2.Get(context.Background(), item.TypeTodo, "task")
	require.NoError(t, err)
	assert.Equal(t, "Task", got.Name())

	c := git.NewClient(tmp, nil)
	count, err := c.Run("rev-list", "--count", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "2", count, "reopening must not add commits")
}
