package textobject

import "github.com/dshills/textobjects/internal/engine/buffer"

// Direction is the walk direction of a delimiter search.
type Direction uint8

const (
	// Backward walks toward the start of the document.
	Backward Direction = iota

	// Forward walks toward the end of the document.
	Forward
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	default:
		return "unknown"
	}
}

// SearchOptions configures one SearchPosition call.
type SearchOptions struct {
	Direction Direction

	// IncludeCursor tests the start position itself before walking.
	IncludeCursor bool

	// ThroughLineBreaks lets the walk and the match cross line breaks.
	ThroughLineBreaks bool
}

// SearchPosition walks from start one character at a time in the given
// direction and returns the first visited position at which token begins.
// It fails at the document boundary, or at a line boundary when
// ThroughLineBreaks is false.
func SearchPosition(token string, doc Document, start buffer.Point, opts SearchOptions) (buffer.Point, bool) {
	chars := buffer.SplitGraphemes(token)
	if len(chars) == 0 || !inDocument(doc, start) {
		return buffer.Point{}, false
	}

	p := start
	if !opts.IncludeCursor {
		next, ok := step(doc, p, opts)
		if !ok {
			return buffer.Point{}, false
		}
		p = next
	}

	for {
		if matchAt(doc, p, chars, opts.ThroughLineBreaks) {
			return p, true
		}
		next, ok := step(doc, p, opts)
		if !ok {
			return buffer.Point{}, false
		}
		p = next
	}
}

// step advances the walk by one character; ok is false when the walk is
// blocked by a document or line boundary.
func step(doc Document, p buffer.Point, opts SearchOptions) (buffer.Point, bool) {
	var next buffer.Point
	if opts.Direction == Forward {
		next = doc.OffsetRight(p, 1, opts.ThroughLineBreaks)
	} else {
		next = doc.OffsetLeft(p, 1, opts.ThroughLineBreaks)
	}
	return next, next != p
}

// matchAt reports whether chars occur in doc starting at p.
func matchAt(doc Document, p buffer.Point, chars []string, throughLineBreaks bool) bool {
	for i, want := range chars {
		// The line break itself is only matchable when crossing is allowed.
		if !throughLineBreaks && p.Column >= doc.LineLen(p.Line) {
			return false
		}
		got, ok := doc.CharAt(p)
		if !ok || got != want {
			return false
		}
		if i == len(chars)-1 {
			break
		}
		next := doc.OffsetRight(p, 1, throughLineBreaks)
		if next == p {
			return false
		}
		p = next
	}
	return true
}

func inDocument(doc Document, p buffer.Point) bool {
	return p.Line >= 0 && p.Line < doc.LineCount() && p.Column >= 0 && p.Column <= doc.LineLen(p.Line)
}
