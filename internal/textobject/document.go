package textobject

import "github.com/dshills/textobjects/internal/engine/buffer"

// Document is the read-only view of text that resolution needs.
// *buffer.Buffer and *buffer.Snapshot implement it.
type Document interface {
	// LanguageID returns the identifier of the document's content type.
	LanguageID() string

	// LineCount returns the number of lines.
	LineCount() int

	// LineLen returns the number of characters in a line, excluding the break.
	LineLen(line int) int

	// CharAt returns the character at p; the line end of every line but the
	// last reads as "\n".
	CharAt(p buffer.Point) (string, bool)

	// OffsetRight and OffsetLeft move p by count characters, crossing line
	// breaks only when throughLineBreaks is set, clamping otherwise.
	OffsetRight(p buffer.Point, count int, throughLineBreaks bool) buffer.Point
	OffsetLeft(p buffer.Point, count int, throughLineBreaks bool) buffer.Point
}

// Shift describes a relative move used when computing range boundaries.
type Shift struct {
	Count             int
	ThroughLineBreaks bool

	// DontMove makes Right and Left return the position unchanged, which
	// keeps a delimiter inside the range without branching at call sites.
	DontMove bool
}

// Right returns p moved right by s.
func Right(doc Document, p buffer.Point, s Shift) buffer.Point {
	if s.DontMove || s.Count <= 0 {
		return p
	}
	return doc.OffsetRight(p, s.Count, s.ThroughLineBreaks)
}

// Left returns p moved left by s.
func Left(doc Document, p buffer.Point, s Shift) buffer.Point {
	if s.DontMove || s.Count <= 0 {
		return p
	}
	return doc.OffsetLeft(p, s.Count, s.ThroughLineBreaks)
}
