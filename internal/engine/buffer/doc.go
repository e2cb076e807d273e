// Package buffer provides the document model used by text-object resolution:
// a thread-safe, line-addressed text buffer whose columns count grapheme
// clusters rather than bytes.
//
// The buffer package provides:
//
//   - Thread-safe read access via sync.RWMutex
//   - Line/column addressing where one column is one user-perceived character
//   - Offset arithmetic that can optionally step across line breaks
//   - Read-only snapshots for consistent reads while the buffer is replaced
//   - Line ending normalization
//   - A language identifier used to scope language-specific behavior
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("call(a, b)\n", buffer.WithLanguageID("go"))
//
//	// Step three characters right, staying on the line
//	p := buf.OffsetRight(buffer.Point{Line: 0, Column: 2}, 3, false)
//
//	// Read the character at a point
//	ch, ok := buf.CharAt(p)
//
// Positions:
//
// Every line has LineLen(line)+1 valid columns. Column LineLen(line) is the
// line end: it holds the line break on every line but the last, and it is
// where leftward movement through a line break lands.
package buffer
