package textobject

import (
	"fmt"

	"github.com/dshills/textobjects/internal/engine/buffer"
)

// Mode selects which variant of a text object is resolved.
type Mode uint8

const (
	// Inside selects the content strictly between the delimiters.
	Inside Mode = iota

	// Around selects the content plus the delimiters, subject to the
	// definition's inclusion flags.
	Around
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Inside:
		return "inside"
	case Around:
		return "around"
	default:
		return "unknown"
	}
}

// Movement is the result of resolving a text object: an inclusive range,
// or Failed when no boundary could be resolved.
type Movement struct {
	Start  buffer.Point
	Stop   buffer.Point
	Failed bool
}

// FailedMovement is the "no movement" sentinel.
var FailedMovement = Movement{Failed: true}

// Empty reports whether a successful movement selects nothing, which is
// the inside range of adjacent delimiters such as "()": Stop lies before Start.
func (m Movement) Empty() bool {
	return !m.Failed && m.Stop.Before(m.Start)
}

// String returns a human-readable representation of the movement.
func (m Movement) String() string {
	if m.Failed {
		return "failed"
	}
	return fmt.Sprintf("[%s..%s]", m.Start, m.Stop)
}

// ExecAction resolves the text object described by def around pos.
//
// The opening token is searched backward from pos, the cursor included. The
// closing token is searched forward from pos, the cursor included unless the
// opening match sits exactly on the cursor; that keeps one occurrence of a
// token used for both delimiters from closing itself.
func ExecAction(pos buffer.Point, mode Mode, def *Definition, doc Document) Movement {
	if !def.AppliesTo(doc.LanguageID()) {
		return FailedMovement
	}

	multiline := def.PossiblyMultiline
	around := mode == Around

	left, ok := SearchPosition(def.Open, doc, pos, SearchOptions{
		Direction:         Backward,
		IncludeCursor:     true,
		ThroughLineBreaks: multiline,
	})
	if !ok {
		return FailedMovement
	}

	right, ok := SearchPosition(def.Close, doc, pos, SearchOptions{
		Direction:         Forward,
		IncludeCursor:     left != pos,
		ThroughLineBreaks: multiline,
	})
	if !ok {
		return FailedMovement
	}

	openLen := buffer.GraphemeCount(def.Open)
	closeLen := buffer.GraphemeCount(def.Close)

	start := Right(doc, left, Shift{
		Count:             openLen,
		ThroughLineBreaks: multiline,
		DontMove:          around && def.IncludeOpenWhenAround,
	})

	// right is the first character of the closing token; closeEnd is its last.
	closeEnd := Right(doc, right, Shift{Count: closeLen - 1, ThroughLineBreaks: multiline})
	stop := Left(doc, closeEnd, Shift{
		Count:             closeLen,
		ThroughLineBreaks: multiline,
		DontMove:          around && def.IncludeCloseWhenAround,
	})

	return Movement{Start: start, Stop: stop}
}
