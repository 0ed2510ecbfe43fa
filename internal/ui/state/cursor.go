package state

// Step moves the highlight by delta entries, saturating at both ends of the
// list. It reports whether the highlight changed.
func (l *Level) Step(delta int) bool {
	if len(l.Items) == 0 {
		l.Cursor = -1
		return false
	}
	if l.Cursor < 0 {
		l.Cursor = 0
		return true
	}
	return l.Jump(l.Cursor + delta)
}

// StepPage moves one page of rows in the direction of dir's sign. A
// non-positive rows count pages over the whole list.
func (l *Level) StepPage(rows, dir int) bool {
	if rows <= 0 {
		rows = len(l.Items)
	}
	switch {
	case dir < 0:
		return l.Step(-rows)
	case dir > 0:
		return l.Step(rows)
	}
	return false
}

// Jump highlights index i, clamped into the list.
func (l *Level) Jump(i int) bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = -1
		return false
	}
	old := l.Cursor
	l.Cursor = min(max(i, 0), n-1)
	return l.Cursor != old
}

// Reveal scrolls the viewport the least amount that keeps the highlight
// within rows visible lines.
func (l *Level) Reveal(rows int) {
	if len(l.Items) == 0 {
		l.Cursor, l.ViewportOffset = -1, 0
		return
	}
	l.Cursor = min(max(l.Cursor, 0), len(l.Items)-1)
	if rows <= 0 {
		l.ViewportOffset = 0
		return
	}
	top := min(max(l.ViewportOffset, 0), max(len(l.Items)-rows, 0))
	switch {
	case l.Cursor < top:
		top = l.Cursor
	case l.Cursor >= top+rows:
		top = l.Cursor - rows + 1
	}
	l.ViewportOffset = top
}
