// Package app wires configuration, the text object registry and the
// command dispatcher into one application.
//
// Reloading the configuration and dispatching a key sequence are
// serialized, so a dispatch never observes a half-installed set of text
// objects.
package app

import (
	"strings"
	"sync"
	"time"

	"github.com/dshills/textobjects/internal/config"
	"github.com/dshills/textobjects/internal/config/notify"
	"github.com/dshills/textobjects/internal/config/watcher"
	"github.com/dshills/textobjects/internal/dispatcher"
	"github.com/dshills/textobjects/internal/engine/buffer"
	"github.com/dshills/textobjects/internal/logging"
	"github.com/dshills/textobjects/internal/textobject"
	"github.com/dshills/textobjects/internal/textobject/registry"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the text object configuration file. Empty means no
	// user text objects.
	ConfigPath string

	// Logger receives application logs. Nil uses a logger at LogLevel.
	Logger *logging.Logger

	// LogLevel sets the logging verbosity when Logger is nil.
	LogLevel string

	// EnableMetrics turns on dispatcher metrics.
	EnableMetrics bool

	// DisablePanicRecovery lets a panicking handler crash the caller
	// instead of failing the resolution.
	DisablePanicRecovery bool

	// Debounce is the quiet period before a changed config is reloaded.
	Debounce time.Duration
}

// Application is the central coordinator for text object resolution.
type Application struct {
	// mu serializes reloads against dispatches.
	mu sync.Mutex
	// reloadMu orders concurrent reloads.
	reloadMu sync.Mutex

	opts   Options
	logger *logging.Logger

	dispatcher *dispatcher.Dispatcher
	registry   *registry.Registry
	notifier   *notify.Notifier
	sub        *notify.Subscription
	watcher    *watcher.Watcher

	closed bool
}

// New creates an Application and performs the initial configuration load.
func New(opts Options) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		cfg := logging.DefaultConfig()
		cfg.Level = logging.ParseLogLevel(opts.LogLevel)
		logger = logging.New(cfg)
	}

	dispatcherConfig := dispatcher.DefaultConfig().WithPanicRecovery(!opts.DisablePanicRecovery)
	if opts.EnableMetrics {
		dispatcherConfig = dispatcherConfig.WithMetrics()
	}
	d := dispatcher.New(dispatcherConfig)

	app := &Application{
		opts:       opts,
		logger:     logger,
		dispatcher: d,
		registry:   registry.New(d, logger),
		notifier:   notify.New(),
	}
	app.sub = app.notifier.Subscribe(app.apply)

	if opts.ConfigPath != "" {
		if err := app.Reload(); err != nil {
			app.Shutdown()
			return nil, err
		}
	}

	return app, nil
}

// Reload reads the configuration file again and installs its text
// objects. On failure the previously installed set stays in place.
func (app *Application) Reload() error {
	return app.reload("reload")
}

func (app *Application) reload(source string) error {
	app.reloadMu.Lock()
	defer app.reloadMu.Unlock()

	if app.isClosed() {
		return ErrClosed
	}
	path := app.opts.ConfigPath
	if path == "" {
		return ErrNoConfig
	}

	cfg, err := config.Load(path)
	if err != nil {
		err = NewOperationError("reload", path, err)
		app.notifier.NotifyLoadFailed(path, err, source)
		return err
	}
	app.notifier.NotifyReload(path, cfg, source)
	return nil
}

// apply installs the configuration carried by a reload change.
func (app *Application) apply(change notify.Change) {
	switch change.Type {
	case notify.ChangeReload:
		var records []config.Record
		if change.Config != nil {
			records = change.Config.TextObjects
		}

		app.mu.Lock()
		app.registry.UpdateFromConfig(records)
		app.mu.Unlock()

		app.logger.Info("loaded %d of %d text objects from %s", len(app.registry.Active()), len(records), change.Path)
	case notify.ChangeLoadFailed:
		app.logger.Error("keeping previous text objects: %v", change.Err)
	}
}

// Resolve runs the command bound to keys at pos in doc.
func (app *Application) Resolve(keys []string, doc textobject.Document, pos buffer.Point) (textobject.Movement, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed {
		return textobject.FailedMovement, ErrClosed
	}
	m, err := app.dispatcher.Dispatch(keys, pos, doc)
	if err != nil {
		return m, NewOperationError("resolve", strings.Join(keys, " "), err)
	}
	return m, nil
}

// ResolveID runs the command registered under id at pos in doc.
func (app *Application) ResolveID(id string, doc textobject.Document, pos buffer.Point) (textobject.Movement, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed {
		return textobject.FailedMovement, ErrClosed
	}
	m, err := app.dispatcher.DispatchID(id, pos, doc)
	if err != nil {
		return m, NewOperationError("resolve", id, err)
	}
	return m, nil
}

// Register installs a definition outside of the configuration file.
// It survives reloads.
func (app *Application) Register(def *textobject.Definition) (*registry.Binding, error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.registry.Register(def)
}

// Commands returns the registered command identifiers, sorted.
func (app *Application) Commands() []string {
	return app.dispatcher.List()
}

// Command returns the command registered under id.
func (app *Application) Command(id string) (dispatcher.Command, bool) {
	return app.dispatcher.Command(id)
}

// Definitions returns the text objects installed from the configuration.
func (app *Application) Definitions() []*textobject.Definition {
	return app.registry.Active()
}

// Metrics returns dispatcher metrics, or nil when disabled.
func (app *Application) Metrics() *dispatcher.Metrics {
	return app.dispatcher.Metrics()
}

// Notifier returns the configuration change notifier.
func (app *Application) Notifier() *notify.Notifier {
	return app.notifier
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Shutdown stops watching and releases resources. It is safe to call
// Shutdown multiple times.
func (app *Application) Shutdown() {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return
	}
	app.closed = true
	w := app.watcher
	app.watcher = nil
	app.mu.Unlock()

	if w != nil {
		w.Stop()
	}
	// Wait for an in-flight reload before closing its notifier.
	app.reloadMu.Lock()
	app.sub.Unsubscribe()
	app.notifier.Close()
	app.reloadMu.Unlock()
}

func (app *Application) isClosed() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.closed
}
