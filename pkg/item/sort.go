package item

import (
	"fmt"
	"slices"
)

// TodoSortKey selects the field todos are ordered by.
type TodoSortKey string

const (
	TodoByPriority TodoSortKey = "priority"
	TodoByDue      TodoSortKey = "due"
	TodoByCreated  TodoSortKey = "created"
)

// MemoSortKey selects the field memos are ordered by.
type MemoSortKey string

const (
	MemoByCreated MemoSortKey = "created"
	MemoByUpdated MemoSortKey = "updated"
)

// ParseTodoSortKey validates a user-supplied todo sort key.
func ParseTodoSortKey(s string) (TodoSortKey, error) {
	switch TodoSortKey(s) {
	case TodoByPriority, TodoByDue, TodoByCreated:
		return TodoSortKey(s), nil
	}
	return "", &ValidationError{Field: "sort", Reason: fmt.Sprintf("%q is not one of priority, due, created", s)}
}

// ParseMemoSortKey validates a user-supplied memo sort key.
func ParseMemoSortKey(s string) (MemoSortKey, error) {
	switch MemoSortKey(s) {
	case MemoByCreated, MemoByUpdated:
		return MemoSortKey(s), nil
	}
	return "", &ValidationError{Field: "sort", Reason: fmt.Sprintf("%q is not one of created, updated", s)}
}

// TodoComparator returns a comparison function for slices.SortStableFunc.
// Todos missing the sort field order after all todos that have it; the
// stable sort preserves their relative order.
func TodoComparator(key TodoSortKey) func(a, b *Todo) int {
	switch key {
	case TodoByDue:
		return func(a, b *Todo) int {
			switch {
			case a.Due == nil && b.Due == nil:
				return 0
			case a.Due == nil:
				return 1
			case b.Due == nil:
				return -1
			}
			return a.Due.Compare(b.Due.Time)
		}
	case TodoByCreated:
		return func(a, b *Todo) int {
			return compareNewestFirst(a.Created, b.Created)
		}
	default: // priority: high before medium before low
		return func(a, b *Todo) int {
			return a.Priority.rank() - b.Priority.rank()
		}
	}
}

// MemoComparator returns a comparison function for slices.SortStableFunc.
// For the updated key, memos that were never edited fall back to their
// creation date.
func MemoComparator(key MemoSortKey) func(a, b *Memo) int {
	if key == MemoByUpdated {
		return func(a, b *Memo) int {
			return compareNewestFirst(effectiveUpdated(a), effectiveUpdated(b))
		}
	}
	return func(a, b *Memo) int {
		return compareNewestFirst(a.Created, b.Created)
	}
}

// SortTodos orders todos in place by the given key.
func SortTodos(todos []*Todo, key TodoSortKey) {
	slices.SortStableFunc(todos, TodoComparator(key))
}

// SortMemos orders memos in place by the given key.
func SortMemos(memos []*Memo, key MemoSortKey) {
	slices.SortStableFunc(memos, MemoComparator(key))
}

func effectiveUpdated(m *Memo) Date {
	if !m.Updated.IsZero() {
		return m.Updated
	}
	return m.Created
}

// compareNewestFirst orders dates descending, with unset dates after all
// set ones.
func compareNewestFirst(a, b Date) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	return b.Compare(a.Time)
}
