package config

import (
	"errors"
	"fmt"
	"strings"
)

// Record decoding errors.
var (
	// ErrNotObject indicates a list entry that is not a record.
	ErrNotObject = errors.New("config: text object entry is not an object")

	// ErrMissingField indicates a required field is absent.
	ErrMissingField = errors.New("config: missing required field")

	// ErrUnknownField indicates a field the record format does not define.
	ErrUnknownField = errors.New("config: unknown field")

	// ErrFieldType indicates a field holding a value of the wrong type.
	ErrFieldType = errors.New("config: wrong field type")

	// ErrNotList indicates the text object setting is not a list.
	ErrNotList = errors.New("config: text objects setting is not a list")
)

// RecordError reports a record that could not be decoded.
type RecordError struct {
	Keys  []string
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("text object [%s]: %v", strings.Join(e.Keys, " "), e.Err)
	}
	return fmt.Sprintf("text object [%s]: field %q: %v", strings.Join(e.Keys, " "), e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
