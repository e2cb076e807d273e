package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrNoHandler indicates no command is bound to the keys or identifier.
	ErrNoHandler = errors.New("dispatcher: no handler for command")

	// ErrInvalidCommand indicates a command without an identifier, keys or handler.
	ErrInvalidCommand = errors.New("dispatcher: invalid command")

	// ErrDuplicateCommand indicates the identifier is already registered.
	ErrDuplicateCommand = errors.New("dispatcher: command already registered")

	// ErrKeysInUse indicates the key sequence is already bound.
	ErrKeysInUse = errors.New("dispatcher: key sequence already bound")

	// ErrUnknownHandle indicates the handle was never issued or was already revoked.
	ErrUnknownHandle = errors.New("dispatcher: unknown handle")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")
)
