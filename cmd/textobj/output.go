package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dshills/textobjects/internal/engine/buffer"
	"github.com/dshills/textobjects/internal/textobject"
)

const (
	ansiReverse = "\x1b[7m"
	ansiReset   = "\x1b[0m"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printMovement writes the resolved range and its text. On a terminal the
// selection is shown highlighted within its lines.
func printMovement(w io.Writer, doc *buffer.Buffer, pos buffer.Point, m textobject.Movement, highlight bool) {
	if m.Failed {
		fmt.Fprintf(w, "no text object at %d:%d\n", pos.Line, pos.Column)
		return
	}
	if m.Empty() {
		fmt.Fprintf(w, "%d:%d-%d:%d (empty)\n", m.Start.Line, m.Start.Column, m.Stop.Line, m.Stop.Column)
		return
	}

	fmt.Fprintf(w, "%d:%d-%d:%d\n", m.Start.Line, m.Start.Column, m.Stop.Line, m.Stop.Column)
	if !highlight {
		fmt.Fprintln(w, doc.TextRange(m.Start, m.Stop))
		return
	}

	for line := m.Start.Line; line <= m.Stop.Line; line++ {
		chars := buffer.SplitGraphemes(doc.LineText(line))
		from, to := 0, len(chars)
		if line == m.Start.Line {
			from = m.Start.Column
		}
		if line == m.Stop.Line {
			to = min(m.Stop.Column+1, len(chars))
		}
		from = min(from, to)

		var sb strings.Builder
		sb.WriteString(strings.Join(chars[:from], ""))
		sb.WriteString(ansiReverse)
		sb.WriteString(strings.Join(chars[from:to], ""))
		sb.WriteString(ansiReset)
		sb.WriteString(strings.Join(chars[to:], ""))
		fmt.Fprintln(w, sb.String())
	}
}
