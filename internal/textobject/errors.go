package textobject

import (
	"errors"
	"fmt"
	"strings"
)

// Definition validation errors.
var (
	// ErrNoKeys indicates a definition without object keys.
	ErrNoKeys = errors.New("textobject: no object keys")

	// ErrEmptyKey indicates an object key that is the empty string.
	ErrEmptyKey = errors.New("textobject: empty object key")

	// ErrEmptyOpen indicates an empty opening token.
	ErrEmptyOpen = errors.New("textobject: empty open token")

	// ErrEmptyClose indicates an empty closing token.
	ErrEmptyClose = errors.New("textobject: empty close token")
)

// ValidationError reports why a definition was rejected.
type ValidationError struct {
	Keys []string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid text object [%s]: %v", strings.Join(e.Keys, " "), e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
