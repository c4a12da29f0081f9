// Package item defines the domain model for tracked items: structured
// todos and freeform memos, identified by title-derived slugs.
package item

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ItemType discriminates the two kinds of tracked items.
type ItemType string

const (
	TypeTodo ItemType = "todo"
	TypeMemo ItemType = "memo"
)

// ParseType validates a user-supplied type name.
func ParseType(s string) (ItemType, error) {
	switch ItemType(s) {
	case TypeTodo, TypeMemo:
		return ItemType(s), nil
	}
	return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("%q is not one of todo, memo", s)}
}

// Priority ranks todos by urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority validates a user-supplied priority value.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), nil
	}
	return "", &ValidationError{Field: "priority", Reason: fmt.Sprintf("%q is not one of high, medium, low", s)}
}

// UnmarshalYAML decodes a priority scalar. Unknown values fall back to
// medium: priority is cosmetic, a typo should not make the file unreadable.
func (p *Priority) UnmarshalYAML(value *yaml.Node) error {
	switch Priority(value.Value) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		*p = Priority(value.Value)
	default:
		*p = PriorityMedium
	}
	return nil
}

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// DateLayout is the on-disk calendar date format.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component. The zero value
// means "not set".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day.
func Today() Date {
	return NewDate(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalYAML emits the date as a plain YYYY-MM-DD scalar.
func (d Date) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: d.Format(DateLayout)}, nil
}

// UnmarshalYAML accepts plain or quoted YYYY-MM-DD scalars.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseDate(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Item is the tagged union of the two tracked kinds. The concrete types
// are *Todo and *Memo; consumers needing type-specific fields switch on
// the concrete type.
type Item interface {
	// Type reports which variant this is.
	Type() ItemType
	// ID is the slug, stable once assigned.
	ID() string
	// Name is the human-readable title.
	Name() string
	// IsArchived reports whether the item lives in the archive subtree.
	IsArchived() bool
}

// Todo is a structured task entry.
type Todo struct {
	Slug        string
	Title       string
	Priority    Priority
	Due         *Date // optional
	Done        bool
	DoneAt      string // timestamp set when Done flips to true
	Description string
	Created     Date
	Archived    bool
}

func (t *Todo) Type() ItemType   { return TypeTodo }
func (t *Todo) ID() string       { return t.Slug }
func (t *Todo) Name() string     { return t.Title }
func (t *Todo) IsArchived() bool { return t.Archived }

// Memo is a freeform note.
type Memo struct {
	Slug     string
	Title    string
	Body     string
	Created  Date
	Updated  Date
	Archived bool
}

func (m *Memo) Type() ItemType   { return TypeMemo }
func (m *Memo) ID() string       { return m.Slug }
func (m *Memo) Name() string     { return m.Title }
func (m *Memo) IsArchived() bool { return m.Archived }

// ValidationError reports a rejected input value. Operations returning it
// have not touched the filesystem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
