package buffer

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is replaced.
type Snapshot struct {
	content *content
}

// LanguageID returns the language identifier captured with the snapshot.
func (s *Snapshot) LanguageID() string {
	return s.content.languageID
}

// Text returns the full snapshot content with "\n" line breaks.
func (s *Snapshot) Text() string {
	return s.content.text()
}

// TextRange returns the characters from start through stop, inclusive.
func (s *Snapshot) TextRange(start, stop Point) string {
	return s.content.textRange(start, stop)
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return s.content.lineCount()
}

// LineLen returns the length of a specific line in characters.
func (s *Snapshot) LineLen(line int) int {
	return s.content.lineLen(line)
}

// CharAt returns the character at p, "\n" at a line end with a following line.
func (s *Snapshot) CharAt(p Point) (string, bool) {
	return s.content.charAt(p)
}

// OffsetRight returns p moved count characters right.
func (s *Snapshot) OffsetRight(p Point, count int, throughLineBreaks bool) Point {
	return s.content.offsetRight(p, count, throughLineBreaks)
}

// OffsetLeft returns p moved count characters left.
func (s *Snapshot) OffsetLeft(p Point, count int, throughLineBreaks bool) Point {
	return s.content.offsetLeft(p, count, throughLineBreaks)
}
