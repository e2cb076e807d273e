package textobject

import (
	"testing"

	"github.com/dshills/textobjects/internal/engine/buffer"
)

func mustDefinition(t *testing.T, open, close string, opts ...DefinitionOption) *Definition {
	t.Helper()
	def, err := NewDefinition([]string{"x"}, open, close, opts...)
	if err != nil {
		t.Fatalf("NewDefinition(%q, %q): %v", open, close, err)
	}
	return def
}

// selected returns the text covered by m, or "<failed>".
func selected(doc *buffer.Buffer, m Movement) string {
	if m.Failed {
		return "<failed>"
	}
	return doc.TextRange(m.Start, m.Stop)
}

func TestExecAction_InsideAround(t *testing.T) {
	doc := buffer.NewBufferFromString("(foo(bar)baz)")
	def := mustDefinition(t, "(", ")")
	cursor := buffer.Point{Line: 0, Column: 6} // the "a" of "bar"

	inside := ExecAction(cursor, Inside, def, doc)
	if got := selected(doc, inside); got != "bar" {
		t.Errorf("inside = %q, want %q", got, "bar")
	}
	if inside.Start != (buffer.Point{Line: 0, Column: 5}) || inside.Stop != (buffer.Point{Line: 0, Column: 7}) {
		t.Errorf("inside range = %s, want [(0:5)..(0:7)]", inside)
	}

	around := ExecAction(cursor, Around, def, doc)
	if got := selected(doc, around); got != "(bar)" {
		t.Errorf("around = %q, want %q", got, "(bar)")
	}
}

func TestExecAction_Unbalanced(t *testing.T) {
	doc := buffer.NewBufferFromString("foo)")
	def := mustDefinition(t, "(", ")")

	for _, mode := range []Mode{Inside, Around} {
		m := ExecAction(buffer.Point{Line: 0, Column: 1}, mode, def, doc)
		if !m.Failed {
			t.Errorf("%s: expected failure, got %s", mode, m)
		}
	}
}

func TestExecAction_NoClosingToken(t *testing.T) {
	doc := buffer.NewBufferFromString("(foo")
	def := mustDefinition(t, "(", ")")

	if m := ExecAction(buffer.Point{Line: 0, Column: 2}, Inside, def, doc); !m.Failed {
		t.Errorf("expected failure, got %s", m)
	}
}

func TestExecAction_MultilineGating(t *testing.T) {
	doc := buffer.NewBufferFromString("foo(bar\nbaz)qux")
	cursor := buffer.Point{Line: 0, Column: 5}

	single := mustDefinition(t, "(", ")")
	if m := ExecAction(cursor, Inside, single, doc); !m.Failed {
		t.Errorf("single line definition should fail, got %s", m)
	}

	multi := mustDefinition(t, "(", ")", WithMultiline(true))
	inside := ExecAction(cursor, Inside, multi, doc)
	if got := selected(doc, inside); got != "bar\nbaz" {
		t.Errorf("multiline inside = %q, want %q", got, "bar\nbaz")
	}
	if inside.Start.Line != 0 || inside.Stop.Line != 1 {
		t.Errorf("multiline inside should span lines 0-1, got %s", inside)
	}

	around := ExecAction(cursor, Around, multi, doc)
	if got := selected(doc, around); got != "(bar\nbaz)" {
		t.Errorf("multiline around = %q, want %q", got, "(bar\nbaz)")
	}
}

func TestExecAction_MultilineOpenFromLaterLine(t *testing.T) {
	doc := buffer.NewBufferFromString("begin\n  body\nend")
	def := mustDefinition(t, "begin", "end", WithMultiline(true))

	m := ExecAction(buffer.Point{Line: 1, Column: 3}, Inside, def, doc)
	if got := selected(doc, m); got != "\n  body\n" {
		t.Errorf("inside = %q, want %q", got, "\n  body\n")
	}
}

func TestExecAction_InclusionFlags(t *testing.T) {
	doc := buffer.NewBufferFromString("x<<ab>>y")
	cursor := buffer.Point{Line: 0, Column: 3}

	tests := []struct {
		name         string
		includeOpen  bool
		includeClose bool
		want         string
	}{
		{"both", true, true, "<<ab>>"},
		{"close only", false, true, "ab>>"},
		{"open only", true, false, "<<ab"},
		{"neither", false, false, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := mustDefinition(t, "<<", ">>", WithIncludeOpen(tt.includeOpen), WithIncludeClose(tt.includeClose))
			if got := selected(doc, ExecAction(cursor, Around, def, doc)); got != tt.want {
				t.Errorf("around = %q, want %q", got, tt.want)
			}
			// Inclusion flags never affect the inside variant.
			if got := selected(doc, ExecAction(cursor, Inside, def, doc)); got != "ab" {
				t.Errorf("inside = %q, want %q", got, "ab")
			}
		})
	}
}

func TestExecAction_LanguageFilter(t *testing.T) {
	text := "let s = |a b|;"
	cursor := buffer.Point{Line: 0, Column: 10}
	rustOnly := mustDefinition(t, "|", "|", WithLanguages(Languages("rust")))
	anyLang := mustDefinition(t, "|", "|")

	goDoc := buffer.NewBufferFromString(text, buffer.WithLanguageID("go"))
	if m := ExecAction(cursor, Inside, rustOnly, goDoc); !m.Failed {
		t.Errorf("rust-only definition matched a go document: %s", m)
	}

	rustDoc := buffer.NewBufferFromString(text, buffer.WithLanguageID("rust"))
	for _, mode := range []Mode{Inside, Around} {
		restricted := ExecAction(cursor, mode, rustOnly, rustDoc)
		wildcard := ExecAction(cursor, mode, anyLang, rustDoc)
		if restricted != wildcard {
			t.Errorf("%s: restricted = %s, wildcard = %s", mode, restricted, wildcard)
		}
		if restricted.Failed {
			t.Errorf("%s: expected a match in a rust document", mode)
		}
	}
}

func TestExecAction_ZeroWidthGuard(t *testing.T) {
	doc := buffer.NewBufferFromString(`say "hi" now`)
	def := mustDefinition(t, `"`, `"`)
	cursor := buffer.Point{Line: 0, Column: 4} // opening quote

	inside := ExecAction(cursor, Inside, def, doc)
	if got := selected(doc, inside); got != "hi" {
		t.Errorf("inside = %q, want %q", got, "hi")
	}
	if inside.Start == inside.Stop && inside.Start == cursor {
		t.Error("single quote satisfied both searches")
	}

	around := ExecAction(cursor, Around, def, doc)
	if got := selected(doc, around); got != `"hi"` {
		t.Errorf("around = %q, want %q", got, `"hi"`)
	}
}

func TestExecAction_CursorOnClosingQuote(t *testing.T) {
	// The backward search matches the quote under the cursor, so the
	// closing search starts after it and pairs it with the next quote.
	doc := buffer.NewBufferFromString(`"a" "b"`)
	def := mustDefinition(t, `"`, `"`)

	m := ExecAction(buffer.Point{Line: 0, Column: 2}, Inside, def, doc)
	if got := selected(doc, m); got != " " {
		t.Errorf("inside = %q, want %q", got, " ")
	}

	lone := buffer.NewBufferFromString(`"a"`)
	if m := ExecAction(buffer.Point{Line: 0, Column: 2}, Inside, def, lone); !m.Failed {
		t.Errorf("expected failure with no later quote, got %s", m)
	}
}

func TestExecAction_CursorOnDelimiters(t *testing.T) {
	doc := buffer.NewBufferFromString("(bar)")
	def := mustDefinition(t, "(", ")")

	for _, col := range []int{0, 4} {
		m := ExecAction(buffer.Point{Line: 0, Column: col}, Inside, def, doc)
		if got := selected(doc, m); got != "bar" {
			t.Errorf("cursor at %d: inside = %q, want %q", col, got, "bar")
		}
	}
}

func TestExecAction_NearestMatchNoNesting(t *testing.T) {
	doc := buffer.NewBufferFromString("(a(b)c)")
	def := mustDefinition(t, "(", ")")

	m := ExecAction(buffer.Point{Line: 0, Column: 5}, Inside, def, doc)
	if got := selected(doc, m); got != "b)c" {
		t.Errorf("inside = %q, want %q", got, "b)c")
	}
}

func TestExecAction_EmptyPair(t *testing.T) {
	doc := buffer.NewBufferFromString("f()")
	def := mustDefinition(t, "(", ")")

	m := ExecAction(buffer.Point{Line: 0, Column: 1}, Inside, def, doc)
	if m.Failed {
		t.Fatal("expected a movement")
	}
	if !m.Empty() {
		t.Errorf("expected an empty movement, got %s", m)
	}

	around := ExecAction(buffer.Point{Line: 0, Column: 1}, Around, def, doc)
	if around.Empty() || selected(doc, around) != "()" {
		t.Errorf("around = %s, want ()", around)
	}
}

func TestExecAction_Snapshot(t *testing.T) {
	buf := buffer.NewBufferFromString("[x]")
	snap := buf.Snapshot()
	buf.SetText("no brackets")

	def := mustDefinition(t, "[", "]")
	m := ExecAction(buffer.Point{Line: 0, Column: 1}, Inside, def, snap)
	if m.Failed || snap.TextRange(m.Start, m.Stop) != "x" {
		t.Errorf("snapshot resolution = %s", m)
	}
}

func TestModeString(t *testing.T) {
	if Inside.String() != "inside" || Around.String() != "around" || Mode(7).String() != "unknown" {
		t.Error("unexpected Mode strings")
	}
	if FailedMovement.String() != "failed" {
		t.Errorf("FailedMovement.String() = %q", FailedMovement.String())
	}
}
