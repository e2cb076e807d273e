package buffer

import "fmt"

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in grapheme clusters from the start of the line.
type Point struct {
	Line   int // 0-indexed line number
	Column int // 0-indexed column (characters within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero point (0:0).
func (p Point) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// ParsePoint parses "line:column" using 0-indexed numbers.
func ParsePoint(s string) (Point, error) {
	var p Point
	n, err := fmt.Sscanf(s, "%d:%d", &p.Line, &p.Column)
	if err != nil || n != 2 {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPoint, s)
	}
	if p.Line < 0 || p.Column < 0 {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPoint, s)
	}
	return p, nil
}
