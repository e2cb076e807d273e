package buffer

// offsetRight steps count characters toward the end of the document.
// Stepping past a line end lands on the next line's first column when
// throughLineBreaks is set; otherwise movement stops at the line end.
func (c *content) offsetRight(p Point, count int, throughLineBreaks bool) Point {
	p = c.clamp(p)
	for ; count > 0; count-- {
		if p.Column < c.lineLen(p.Line) {
			p.Column++
			continue
		}
		if !throughLineBreaks || p.Line >= c.lineCount()-1 {
			break
		}
		p = Point{Line: p.Line + 1}
	}
	return p
}

// offsetLeft steps count characters toward the start of the document.
// Stepping left from column 0 lands on the previous line's end when
// throughLineBreaks is set; otherwise movement stops at column 0.
func (c *content) offsetLeft(p Point, count int, throughLineBreaks bool) Point {
	p = c.clamp(p)
	for ; count > 0; count-- {
		if p.Column > 0 {
			p.Column--
			continue
		}
		if !throughLineBreaks || p.Line == 0 {
			break
		}
		p = Point{Line: p.Line - 1, Column: c.lineLen(p.Line - 1)}
	}
	return p
}

// OffsetRight returns p moved count characters right. The line break
// counts as one character when throughLineBreaks is true. Movement clamps
// at the line end (or document end) instead of failing.
func (b *Buffer) OffsetRight(p Point, count int, throughLineBreaks bool) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.offsetRight(p, count, throughLineBreaks)
}

// OffsetLeft returns p moved count characters left, with the same line
// break policy as OffsetRight.
func (b *Buffer) OffsetLeft(p Point, count int, throughLineBreaks bool) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.offsetLeft(p, count, throughLineBreaks)
}
