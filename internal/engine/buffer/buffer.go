package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInvalidPoint is returned when a position cannot be parsed.
var ErrInvalidPoint = errors.New("invalid point")

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// lineBreak is the character reported at the end of every line but the last.
// Line endings are normalized on load, so this is the only break character.
const lineBreak = "\n"

// content is an immutable line table. Buffers swap it wholesale on
// replacement, which lets snapshots share it without copying.
type content struct {
	lines      [][]string // grapheme clusters per line, without line breaks
	languageID string
}

func newContent(text, languageID string) *content {
	raw := strings.Split(text, "\n")
	lines := make([][]string, len(raw))
	for i, l := range raw {
		lines[i] = SplitGraphemes(l)
	}
	return &content{lines: lines, languageID: languageID}
}

func (c *content) lineCount() int {
	return len(c.lines)
}

func (c *content) lineLen(line int) int {
	if line < 0 || line >= len(c.lines) {
		return 0
	}
	return len(c.lines[line])
}

func (c *content) valid(p Point) bool {
	return p.Line >= 0 && p.Line < len(c.lines) && p.Column >= 0 && p.Column <= len(c.lines[p.Line])
}

func (c *content) clamp(p Point) Point {
	if p.Line < 0 {
		return Point{}
	}
	if p.Line >= len(c.lines) {
		last := len(c.lines) - 1
		return Point{Line: last, Column: len(c.lines[last])}
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if n := len(c.lines[p.Line]); p.Column > n {
		p.Column = n
	}
	return p
}

func (c *content) charAt(p Point) (string, bool) {
	if !c.valid(p) {
		return "", false
	}
	line := c.lines[p.Line]
	if p.Column < len(line) {
		return line[p.Column], true
	}
	if p.Line < len(c.lines)-1 {
		return lineBreak, true
	}
	return "", false
}

func (c *content) text() string {
	var sb strings.Builder
	for i, l := range c.lines {
		if i > 0 {
			sb.WriteString(lineBreak)
		}
		sb.WriteString(joinGraphemes(l))
	}
	return sb.String()
}

// textRange returns the characters from start through stop inclusive.
func (c *content) textRange(start, stop Point) string {
	start, stop = c.clamp(start), c.clamp(stop)
	if stop.Before(start) {
		return ""
	}
	var sb strings.Builder
	p := start
	for {
		if ch, ok := c.charAt(p); ok {
			sb.WriteString(ch)
		}
		if p == stop {
			break
		}
		next := c.offsetRight(p, 1, true)
		if next == p {
			break
		}
		p = next
	}
	return sb.String()
}

// Buffer is a line-addressed document with a language identifier.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	content    *content
	lineEnding LineEnding
	languageID string
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lineEnding: LineEndingLF,
		languageID: PlainText,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.content = newContent("", b.languageID)
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.content = newContent(normalizeLineEndings(s), b.languageID)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first; CRLF pairs may straddle read boundaries.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// SetText replaces the buffer content. Existing snapshots are unaffected.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content = newContent(normalizeLineEndings(s), b.languageID)
}

// SetLanguageID changes the language identifier.
func (b *Buffer) SetLanguageID(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.languageID = id
	b.content = &content{lines: b.content.lines, languageID: id}
}

// Read Operations

// LanguageID returns the identifier of the buffer's content type.
func (b *Buffer) LanguageID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.languageID
}

// Text returns the full buffer content with the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text := b.content.text()
	if b.lineEnding != LineEndingLF {
		text = strings.ReplaceAll(text, lineBreak, b.lineEnding.Sequence())
	}
	return text
}

// TextRange returns the characters from start through stop, inclusive.
// Line breaks inside the range are returned as "\n".
func (b *Buffer) TextRange(start, stop Point) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.textRange(start, stop)
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.lineCount()
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= b.content.lineCount() {
		return ""
	}
	return joinGraphemes(b.content.lines[line])
}

// LineLen returns the length of a specific line in characters (without newline).
func (b *Buffer) LineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.lineLen(line)
}

// CharAt returns the character at p. At the end of a line that has a
// following line it returns "\n". It returns false past the end of the
// document or for a point outside the buffer.
func (b *Buffer) CharAt(p Point) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.charAt(p)
}

// Clamp returns the nearest valid position to p.
func (b *Buffer) Clamp(p Point) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.clamp(p)
}

// End returns the position after the last character of the buffer.
func (b *Buffer) End() Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	last := b.content.lineCount() - 1
	return Point{Line: last, Column: b.content.lineLen(last)}
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.lineCount() == 1 && b.content.lineLen(0) == 0
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Snapshot returns a read-only view of the current content.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{content: b.content}
}
