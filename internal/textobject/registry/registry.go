// Package registry binds text object definitions to key commands.
//
// Each definition yields up to two commands on the dispatcher: an inside
// variant bound to "i" followed by the object keys and an around variant
// bound to "a" followed by the object keys. Both resolve through
// textobject.ExecAction.
//
// Configuration reloads go through UpdateFromConfig, which revokes every
// command installed by the previous reload before installing the new set.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/textobjects/internal/config"
	"github.com/dshills/textobjects/internal/dispatcher"
	"github.com/dshills/textobjects/internal/dispatcher/handler"
	"github.com/dshills/textobjects/internal/input/vim"
	"github.com/dshills/textobjects/internal/logging"
	"github.com/dshills/textobjects/internal/textobject"
)

// Component is the logging component for registration failures.
const Component = "UserTextObject"

// Command identifier prefixes.
const (
	InsideCommandPrefix = "textobject.inside."
	AroundCommandPrefix = "textobject.around."
)

// Binding records the commands installed for one definition.
type Binding struct {
	Definition *textobject.Definition

	// Inside and Around are zero when the variant is not supported.
	Inside dispatcher.Handle
	Around dispatcher.Handle

	dispatcher *dispatcher.Dispatcher
}

// Handles returns the non-zero handles of the binding.
func (b *Binding) Handles() []dispatcher.Handle {
	var hs []dispatcher.Handle
	for _, h := range []dispatcher.Handle{b.Inside, b.Around} {
		if !h.IsZero() {
			hs = append(hs, h)
		}
	}
	return hs
}

// Revoke removes the binding's commands. Revoking twice is a no-op.
func (b *Binding) Revoke() error {
	var errs []error
	for _, h := range b.Handles() {
		if err := b.dispatcher.Unregister(h); err != nil && !errors.Is(err, dispatcher.ErrUnknownHandle) {
			errs = append(errs, err)
		}
	}
	b.Inside, b.Around = dispatcher.Handle{}, dispatcher.Handle{}
	return errors.Join(errs...)
}

// Registry installs text object definitions on a dispatcher.
type Registry struct {
	mu sync.Mutex

	dispatcher *dispatcher.Dispatcher
	logger     *logging.Logger

	// generation holds the bindings installed by the last UpdateFromConfig.
	generation []*Binding
}

// New creates a registry over d. A nil logger discards failures.
func New(d *dispatcher.Dispatcher, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Null()
	}
	return &Registry{
		dispatcher: d,
		logger:     logger.WithComponent(Component),
	}
}

// CommandID returns the command identifier of one variant of def.
func CommandID(mode textobject.Mode, def *textobject.Definition) string {
	prefix := InsideCommandPrefix
	if mode == textobject.Around {
		prefix = AroundCommandPrefix
	}
	return prefix + vim.FormatKeys(def.Keys)
}

// Register validates def and installs its supported variants. If the
// second variant cannot be installed the first is revoked, so a definition
// is either fully bound or not at all.
func (r *Registry) Register(def *textobject.Definition) (*Binding, error) {
	if def == nil {
		return nil, errors.New("registry: nil definition")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	b := &Binding{Definition: def, dispatcher: r.dispatcher}

	if def.SupportsInside {
		h, err := r.install(def, textobject.Inside, vim.PrefixInner)
		if err != nil {
			return nil, err
		}
		b.Inside = h
	}

	if def.SupportsAround {
		h, err := r.install(def, textobject.Around, vim.PrefixAround)
		if err != nil {
			_ = b.Revoke()
			return nil, err
		}
		b.Around = h
	}

	return b, nil
}

func (r *Registry) install(def *textobject.Definition, mode textobject.Mode, prefix vim.TextObjectPrefix) (dispatcher.Handle, error) {
	h, err := r.dispatcher.Register(dispatcher.Command{
		ID:      CommandID(mode, def),
		Keys:    vim.TextObjectKeys(prefix, def.Keys),
		Handler: handler.NewTextObjectHandler(def, mode),
	})
	if err != nil {
		return dispatcher.Handle{}, fmt.Errorf("registering %s variant: %w", mode, err)
	}
	return h, nil
}

// UpdateFromConfig replaces the configured text objects. Every binding
// from the previous call is revoked first; then each record is decoded and
// registered in order. Records that fail to decode or register are logged
// and skipped.
func (r *Registry) UpdateFromConfig(records []config.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.generation {
		if err := b.Revoke(); err != nil {
			r.logger.Warn("failed to revoke text object [%s]: %v", vim.FormatKeys(b.Definition.Keys), err)
		}
	}
	r.generation = r.generation[:0]

	for _, rec := range records {
		b, err := r.registerRecord(rec)
		if err != nil {
			r.logger.WithField("error", err).Error("failed to register user text object for keys: %v", rec.Keys())
			continue
		}
		r.generation = append(r.generation, b)
	}

	r.logger.Debug("installed %d user text objects", len(r.generation))
}

func (r *Registry) registerRecord(rec config.Record) (*Binding, error) {
	def, err := rec.Definition()
	if err != nil {
		return nil, err
	}
	return r.Register(def)
}

// Active returns the definitions installed by the last UpdateFromConfig,
// in configuration order.
func (r *Registry) Active() []*textobject.Definition {
	r.mu.Lock()
	defer r.mu.Unlock()

	defs := make([]*textobject.Definition, len(r.generation))
	for i, b := range r.generation {
		defs[i] = b.Definition
	}
	return defs
}

// Clear revokes every configured text object.
func (r *Registry) Clear() {
	r.UpdateFromConfig(nil)
}
