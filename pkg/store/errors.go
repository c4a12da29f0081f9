package store

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that an operation targeted an item whose backing
// file no longer exists (e.g. removed out-of-band).
var ErrNotFound = errors.New("item not found")

// ConfigError reports a data directory that cannot be used as a store
// root. The failed operation leaves the previous root untouched.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cannot use %s as data directory: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
