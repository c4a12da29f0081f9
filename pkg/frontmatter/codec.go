// Package frontmatter converts items to and from their on-disk form: a
// YAML header fenced by "---" lines, a blank line, then the freeform body.
//
// The pair is lossless for every valid item: Decode(Encode(x)) yields x,
// modulo slug and archive location, which live in the filename and path
// rather than the header.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/grit/pkg/item"
)

// DecodeError reports a file that could not be read back as an item.
// Listing treats these as skippable; they never abort a scan.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
	}
	return "decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// todoHeader fixes the on-disk field order for todos.
type todoHeader struct {
	Type     item.ItemType `yaml:"type"`
	Title    string        `yaml:"title"`
	Priority item.Priority `yaml:"priority"`
	Due      *item.Date    `yaml:"due,omitempty"`
	Done     bool          `yaml:"done"`
	DoneAt   string        `yaml:"done_at,omitempty"`
	Created  item.Date     `yaml:"created,omitempty"`
}

// memoHeader fixes the on-disk field order for memos.
type memoHeader struct {
	Type    item.ItemType `yaml:"type"`
	Title   string        `yaml:"title"`
	Created item.Date     `yaml:"created,omitempty"`
	Updated item.Date     `yaml:"updated,omitempty"`
}

// Encode renders an item to its file representation.
func Encode(it item.Item) ([]byte, error) {
	var (
		header any
		body   string
	)

	switch v := it.(type) {
	case *item.Todo:
		h := todoHeader{
			Type:     item.TypeTodo,
			Title:    v.Title,
			Priority: v.Priority,
			Due:      v.Due,
			Done:     v.Done,
			Created:  v.Created,
		}
		if h.Priority == "" {
			h.Priority = item.PriorityMedium
		}
		if v.Done {
			h.DoneAt = v.DoneAt
		}
		header = h
		body = v.Description
	case *item.Memo:
		header = memoHeader{
			Type:    item.TypeMemo,
			Title:   v.Title,
			Created: v.Created,
			Updated: v.Updated,
		}
		body = v.Body
	default:
		return nil, fmt.Errorf("cannot encode item type %q", it.Type())
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(header); err != nil {
		return nil, err
	}
	enc.Close()
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// Decode parses file contents into a Todo or Memo, enforcing the
// type-specific required fields. The slug and archive flag are not part of
// the header; the caller derives them from the file location.
func Decode(data []byte) (item.Item, error) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return nil, &DecodeError{Reason: "missing frontmatter header"}
	}

	rest := data[3:]
	headerData, body, ok := splitFence(rest)
	if !ok {
		return nil, &DecodeError{Reason: "frontmatter started but no closing delimiter found"}
	}

	var probe struct {
		Type  string `yaml:"type"`
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal(headerData, &probe); err != nil {
		return nil, &DecodeError{Reason: "malformed header", Err: err}
	}

	switch probe.Type {
	case "":
		return nil, &DecodeError{Reason: "missing type field"}
	case string(item.TypeTodo):
		return decodeTodo(headerData, body)
	case string(item.TypeMemo):
		return decodeMemo(headerData, body)
	default:
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown type %q", probe.Type)}
	}
}

// splitFence locates the closing fence and splits the data around it.
// A "---" can legitimately appear inside a header value (e.g. in a
// title), so the fence only counts when it occupies a whole line. The
// opening fence's trailing newline is still part of rest, so the header
// always ends in one.
func splitFence(rest []byte) (header []byte, body string, ok bool) {
	off := 0
	for {
		i := bytes.Index(rest[off:], []byte("\n---"))
		if i < 0 {
			return nil, "", false
		}
		at := off + i
		tail := rest[at+4:]
		if len(tail) == 0 || tail[0] == '\n' || bytes.HasPrefix(tail, []byte("\r\n")) {
			return rest[:at+1], trimSeparator(string(tail)), true
		}
		off = at + 1
	}
}

// trimSeparator strips the newline terminating the closing fence plus the
// single blank line Encode places before the body.
func trimSeparator(body string) string {
	for range 2 {
		if strings.HasPrefix(body, "\r\n") {
			body = body[2:]
		} else if strings.HasPrefix(body, "\n") {
			body = body[1:]
		}
	}
	return body
}

func decodeTodo(headerData []byte, body string) (item.Item, error) {
	var h todoHeader
	if err := yaml.Unmarshal(headerData, &h); err != nil {
		return nil, &DecodeError{Reason: "malformed todo header", Err: err}
	}
	if strings.TrimSpace(h.Title) == "" {
		return nil, &DecodeError{Reason: "missing title"}
	}
	if h.Priority == "" {
		h.Priority = item.PriorityMedium
	}
	return &item.Todo{
		Title:       h.Title,
		Priority:    h.Priority,
		Due:         h.Due,
		Done:        h.Done,
		DoneAt:      h.DoneAt,
		Description: body,
		Created:     h.Created,
	}, nil
}

func decodeMemo(headerData []byte, body string) (item.Item, error) {
	var h memoHeader
	if err := yaml.Unmarshal(headerData, &h); err != nil {
		return nil, &DecodeError{Reason: "malformed memo header", Err: err}
	}
	if strings.TrimSpace(h.Title) == "" {
		return nil, &DecodeError{Reason: "missing title"}
	}
	return &item.Memo{
		Title:   h.Title,
		Body:    body,
		Created: h.Created,
		Updated: h.Updated,
	}, nil
}
