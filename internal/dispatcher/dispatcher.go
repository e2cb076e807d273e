package dispatcher

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textobjects/internal/dispatcher/handler"
	"github.com/dshills/textobjects/internal/engine/buffer"
	"github.com/dshills/textobjects/internal/textobject"
)

// Handle identifies one registration. The zero Handle is never issued.
type Handle struct {
	id uuid.UUID
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.id == uuid.Nil
}

// String returns the handle's unique identifier.
func (h Handle) String() string {
	return h.id.String()
}

// Command is a named handler bound to a key sequence.
type Command struct {
	// ID is the stable identifier of the command (e.g., "textobject.inside.$").
	ID string

	// Keys is the full key sequence that triggers the command.
	Keys []string

	// Handler resolves the command.
	Handler handler.Handler
}

// keySeparator joins key tokens into map keys. Key tokens are arbitrary
// strings, so a control character keeps ["ab"] and ["a","b"] distinct.
const keySeparator = "\x00"

func keyString(keys []string) string {
	return strings.Join(keys, keySeparator)
}

// Dispatcher owns the set of registered commands.
type Dispatcher struct {
	mu sync.RWMutex

	commands map[Handle]Command
	byID     map[string]Handle
	byKeys   map[string]Handle

	config  Config
	metrics *Metrics
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		commands: make(map[Handle]Command),
		byID:     make(map[string]Handle),
		byKeys:   make(map[string]Handle),
		config:   config,
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}

	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// Register adds a command and returns the handle that revokes it.
// Identifiers and key sequences must both be unused.
func (d *Dispatcher) Register(cmd Command) (Handle, error) {
	if cmd.ID == "" || len(cmd.Keys) == 0 || cmd.Handler == nil {
		return Handle{}, fmt.Errorf("%w: %q", ErrInvalidCommand, cmd.ID)
	}

	cmd.Keys = append([]string(nil), cmd.Keys...)
	ks := keyString(cmd.Keys)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byID[cmd.ID]; exists {
		return Handle{}, fmt.Errorf("%w: %q", ErrDuplicateCommand, cmd.ID)
	}
	if existing, exists := d.byKeys[ks]; exists {
		return Handle{}, fmt.Errorf("%w: [%s] is bound to %q", ErrKeysInUse,
			strings.Join(cmd.Keys, " "), d.commands[existing].ID)
	}

	h := Handle{id: uuid.New()}
	d.commands[h] = cmd
	d.byID[cmd.ID] = h
	d.byKeys[ks] = h
	return h, nil
}

// Unregister removes the command registered under h.
func (d *Dispatcher) Unregister(h Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cmd, ok := d.commands[h]
	if !ok {
		return ErrUnknownHandle
	}
	delete(d.commands, h)
	delete(d.byID, cmd.ID)
	delete(d.byKeys, keyString(cmd.Keys))
	return nil
}

// Lookup returns the command bound to exactly keys.
func (d *Dispatcher) Lookup(keys []string) (Command, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.byKeys[keyString(keys)]
	if !ok {
		return Command{}, false
	}
	return d.commands[h], true
}

// Command returns the command registered under id.
func (d *Dispatcher) Command(id string) (Command, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.byID[id]
	if !ok {
		return Command{}, false
	}
	return d.commands[h], true
}

// IsPrefix reports whether keys is a strict prefix of some bound sequence,
// meaning more input could still complete a command.
func (d *Dispatcher) IsPrefix(keys []string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, cmd := range d.commands {
		if len(cmd.Keys) <= len(keys) {
			continue
		}
		match := true
		for i, k := range keys {
			if cmd.Keys[i] != k {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Has returns true if a command is registered under id.
func (d *Dispatcher) Has(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.byID[id]
	return ok
}

// List returns all registered command identifiers, sorted.
func (d *Dispatcher) List() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.byID))
	for id := range d.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered commands.
func (d *Dispatcher) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.commands)
}

// Dispatch runs the command bound to keys.
func (d *Dispatcher) Dispatch(keys []string, pos buffer.Point, doc textobject.Document) (textobject.Movement, error) {
	cmd, ok := d.Lookup(keys)
	if !ok {
		return textobject.FailedMovement, fmt.Errorf("%w: [%s]", ErrNoHandler, strings.Join(keys, " "))
	}
	return d.execute(cmd, pos, doc)
}

// DispatchID runs the command registered under id.
func (d *Dispatcher) DispatchID(id string, pos buffer.Point, doc textobject.Document) (textobject.Movement, error) {
	cmd, ok := d.Command(id)
	if !ok {
		return textobject.FailedMovement, fmt.Errorf("%w: %q", ErrNoHandler, id)
	}
	return d.execute(cmd, pos, doc)
}

func (d *Dispatcher) execute(cmd Command, pos buffer.Point, doc textobject.Document) (textobject.Movement, error) {
	start := time.Now()

	var (
		m   textobject.Movement
		err error
	)
	if d.config.RecoverFromPanic {
		m, err = d.executeWithRecovery(cmd, pos, doc)
	} else {
		m = cmd.Handler.Handle(pos, doc)
	}

	if d.metrics != nil {
		d.metrics.RecordDispatch(cmd.ID, time.Since(start), m.Failed)
	}
	return m, err
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(cmd Command, pos buffer.Point, doc textobject.Document) (m textobject.Movement, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			m = textobject.FailedMovement
			err = fmt.Errorf("%w for %s: %v\n%s", ErrPanic, cmd.ID, r, string(stack[:n]))

			if d.metrics != nil {
				d.metrics.RecordPanic(cmd.ID)
			}
		}
	}()

	return cmd.Handler.Handle(pos, doc), nil
}

// Metrics returns the metrics collector, or nil when metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}
