package app

import (
	"strings"

	"github.com/dshills/textobjects/internal/config/watcher"
)

// Watch reloads the configuration whenever its file changes.
func (app *Application) Watch() error {
	if app.opts.ConfigPath == "" {
		return ErrNoConfig
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed {
		return ErrClosed
	}
	if app.watcher != nil {
		return ErrAlreadyWatching
	}

	var opts []watcher.Option
	if app.opts.Debounce > 0 {
		opts = append(opts, watcher.WithDebounce(app.opts.Debounce))
	}
	opts = append(opts, watcher.WithErrorHandler(func(err error) {
		app.logger.Warn("config watcher: %v", err)
	}))

	w, err := watcher.New(opts...)
	if err != nil {
		return NewOperationError("watch", app.opts.ConfigPath, err)
	}
	if err := w.Watch(app.opts.ConfigPath); err != nil {
		w.Stop()
		return NewOperationError("watch", app.opts.ConfigPath, err)
	}

	w.OnChange(func(event watcher.Event) {
		app.logger.Debug("config %s: %s", event.Op, event.Path)
		// Failures are logged by apply; the previous set stays active.
		_ = app.reload("watcher")
	})
	w.Start()

	app.watcher = w
	app.logger.Info("watching %s", strings.Join(w.WatchedFiles(), ", "))
	return nil
}

// Watching returns the files being watched, or nil when no watch is
// running.
func (app *Application) Watching() []string {
	app.mu.Lock()
	w := app.watcher
	app.mu.Unlock()

	if w == nil || !w.IsRunning() {
		return nil
	}
	return w.WatchedFiles()
}
