package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/textobjects/internal/config/loader"
	"github.com/dshills/textobjects/internal/config/notify"
	"github.com/dshills/textobjects/internal/dispatcher"
	"github.com/dshills/textobjects/internal/engine/buffer"
	"github.com/dshills/textobjects/internal/logging"
	"github.com/dshills/textobjects/internal/textobject"
)

const dollarTOML = `
[[customTextObjects]]
objectKeys = ["$"]
open = "$"
close = "$"
`

const angleTOML = `
[[customTextObjects]]
objectKeys = ["<"]
open = "<"
close = ">"
`

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func newApp(t *testing.T, opts Options) (*Application, *bytes.Buffer) {
	t.Helper()
	var out syncBuffer
	if opts.Logger == nil {
		opts.Logger = logging.New(logging.Config{Level: logging.LogLevelDebug, Output: &out})
	}
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(app.Shutdown)
	return app, &out.buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestNew_NoConfig(t *testing.T) {
	app, _ := newApp(t, Options{})
	if len(app.Commands()) != 0 {
		t.Errorf("Commands = %v, want none", app.Commands())
	}
	if err := app.Reload(); !errors.Is(err, ErrNoConfig) {
		t.Errorf("Reload err = %v, want ErrNoConfig", err)
	}
	if err := app.Watch(); !errors.Is(err, ErrNoConfig) {
		t.Errorf("Watch err = %v, want ErrNoConfig", err)
	}
}

func TestNew_LoadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textobjects.toml")
	writeConfig(t, path, dollarTOML)

	app, _ := newApp(t, Options{ConfigPath: path})

	want := []string{"textobject.around.$", "textobject.inside.$"}
	if diff := cmp.Diff(want, app.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}

	doc := buffer.NewBufferFromString("cost $x + y$ total")
	m, err := app.Resolve([]string{"i", "$"}, doc, buffer.Point{Line: 0, Column: 7})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := doc.TextRange(m.Start, m.Stop); got != "x + y" {
		t.Errorf("inside = %q, want %q", got, "x + y")
	}

	m, err = app.ResolveID("textobject.around.$", doc, buffer.Point{Line: 0, Column: 7})
	if err != nil {
		t.Fatalf("ResolveID failed: %v", err)
	}
	if got := doc.TextRange(m.Start, m.Stop); got != "$x + y$" {
		t.Errorf("around = %q, want %q", got, "$x + y$")
	}
}

func TestNew_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	writeConfig(t, path, "[[customTextObjects]\n")

	_, err := New(Options{ConfigPath: path, Logger: logging.Null()})
	var perr *loader.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	var operr *OperationError
	if !errors.As(err, &operr) || operr.Op != "reload" {
		t.Errorf("err = %v, want reload OperationError", err)
	}
}

func TestResolve_Unbound(t *testing.T) {
	app, _ := newApp(t, Options{})
	_, err := app.Resolve([]string{"i", "$"}, buffer.NewBuffer(), buffer.Point{})
	if !errors.Is(err, dispatcher.ErrNoHandler) {
		t.Errorf("err = %v, want ErrNoHandler", err)
	}
}

func TestReload_KeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textobjects.toml")
	writeConfig(t, path, dollarTOML)
	app, logs := newApp(t, Options{ConfigPath: path})

	writeConfig(t, path, "not = = toml")
	if err := app.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if !strings.Contains(logs.String(), "keeping previous text objects") {
		t.Errorf("missing failure log:\n%s", logs.String())
	}
	if len(app.Commands()) != 2 {
		t.Errorf("Commands = %v, want previous two", app.Commands())
	}

	writeConfig(t, path, angleTOML)
	if err := app.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	want := []string{"textobject.around.<", "textobject.inside.<"}
	if diff := cmp.Diff(want, app.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestReload_Notifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textobjects.toml")
	writeConfig(t, path, dollarTOML)
	app, _ := newApp(t, Options{ConfigPath: path})

	var got []notify.ChangeType
	app.Notifier().Subscribe(func(c notify.Change) {
		got = append(got, c.Type)
	})
	if err := app.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if diff := cmp.Diff([]notify.ChangeType{notify.ChangeReload}, got); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_SurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textobjects.toml")
	writeConfig(t, path, dollarTOML)
	app, _ := newApp(t, Options{ConfigPath: path})

	def, err := textobject.NewDefinition([]string{"q"}, "'", "'")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := app.Register(def); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := app.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(app.Commands()) != 4 {
		t.Errorf("Commands = %v, want 4", app.Commands())
	}
	if len(app.Definitions()) != 1 {
		t.Errorf("Definitions = %d, want 1", len(app.Definitions()))
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textobjects.toml")
	writeConfig(t, path, dollarTOML)
	app, _ := newApp(t, Options{ConfigPath: path, Debounce: 20 * time.Millisecond})

	reloaded := make(chan struct{}, 8)
	app.Notifier().Subscribe(func(c notify.Change) {
		if c.Type == notify.ChangeReload && c.Source == "watcher" {
			reloaded <- struct{}{}
		}
	})

	if err := app.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := app.Watch(); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("second Watch err = %v, want ErrAlreadyWatching", err)
	}

	want, _ := filepath.Abs(path)
	if diff := cmp.Diff([]string{want}, app.Watching()); diff != "" {
		t.Errorf("Watching() mismatch (-want +got):\n%s", diff)
	}

	writeConfig(t, path, angleTOML)

	deadline := time.After(3 * time.Second)
	for {
		select {
		case <-reloaded:
		case <-deadline:
			t.Fatalf("timeout waiting for reload; commands = %v", app.Commands())
		}
		if _, ok := app.Command("textobject.inside.<"); ok {
			return
		}
	}
}

func TestShutdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textobjects.toml")
	writeConfig(t, path, dollarTOML)
	app, _ := newApp(t, Options{ConfigPath: path})
	if err := app.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	app.Shutdown()
	app.Shutdown()

	if files := app.Watching(); files != nil {
		t.Errorf("Watching() = %v after Shutdown, want nil", files)
	}
	if _, err := app.Resolve([]string{"i", "$"}, buffer.NewBuffer(), buffer.Point{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Resolve err = %v, want ErrClosed", err)
	}
	if err := app.Reload(); !errors.Is(err, ErrClosed) {
		t.Errorf("Reload err = %v, want ErrClosed", err)
	}
}

// panickingDocument fails every character lookup with a panic.
type panickingDocument struct {
	*buffer.Buffer
}

func (panickingDocument) CharAt(buffer.Point) (string, bool) {
	panic("broken document")
}

func TestResolve_PanicRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textobjects.toml")
	writeConfig(t, path, dollarTOML)
	doc := panickingDocument{buffer.NewBufferFromString("$abc$")}
	keys := []string{"i", "$"}

	app, _ := newApp(t, Options{ConfigPath: path, EnableMetrics: true})
	m, err := app.Resolve(keys, doc, buffer.Point{Line: 0, Column: 2})
	if !errors.Is(err, dispatcher.ErrPanic) {
		t.Fatalf("Resolve err = %v, want ErrPanic", err)
	}
	if !m.Failed {
		t.Errorf("movement = %s, want failed", m)
	}
	if got := app.Metrics().TotalPanics(); got != 1 {
		t.Errorf("TotalPanics = %d, want 1", got)
	}

	unguarded, _ := newApp(t, Options{ConfigPath: path, DisablePanicRecovery: true})
	defer func() {
		if recover() == nil {
			t.Error("expected the panic to reach the caller")
		}
	}()
	unguarded.Resolve(keys, doc, buffer.Point{Line: 0, Column: 2})
}

func TestConcurrentResolveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textobjects.toml")
	writeConfig(t, path, dollarTOML)
	app, _ := newApp(t, Options{ConfigPath: path, Logger: logging.Null()})

	doc := buffer.NewBufferFromString("$abc$")
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = app.Reload()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m, err := app.Resolve([]string{"i", "$"}, doc, buffer.Point{Line: 0, Column: 2})
				if err != nil {
					t.Errorf("Resolve failed mid-reload: %v", err)
					return
				}
				if got := doc.TextRange(m.Start, m.Stop); got != "abc" {
					t.Errorf("inside = %q, want abc", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestOpenDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	writeConfig(t, path, "line one\r\nline two\r\n")

	doc, err := OpenDocument(path, "")
	if err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}
	if doc.LanguageID() != "markdown" {
		t.Errorf("LanguageID = %q, want markdown", doc.LanguageID())
	}
	if doc.LineEnding() != buffer.LineEndingCRLF {
		t.Errorf("LineEnding = %v, want CRLF", doc.LineEnding())
	}
	if doc.LineText(1) != "line two" {
		t.Errorf("LineText(1) = %q", doc.LineText(1))
	}

	doc, err = OpenDocument(path, "latex")
	if err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}
	if doc.LanguageID() != "latex" {
		t.Errorf("LanguageID = %q, want latex", doc.LanguageID())
	}

	if _, err := OpenDocument(filepath.Join(dir, "missing.txt"), ""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}
