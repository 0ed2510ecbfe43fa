package state

import "unicode"

// EditBuffer is single-line text with a rune cursor. The zero value is an
// empty buffer.
type EditBuffer struct {
	text   []rune
	cursor int
}

// NewEditBuffer returns a buffer holding text with the cursor at the end.
func NewEditBuffer(text string) EditBuffer {
	r := []rune(text)
	return EditBuffer{text: r, cursor: len(r)}
}

func (b *EditBuffer) String() string {
	return string(b.text)
}

// Cursor returns the rune offset of the cursor.
func (b *EditBuffer) Cursor() int {
	return min(max(b.cursor, 0), len(b.text))
}

// Len returns the number of runes.
func (b *EditBuffer) Len() int {
	return len(b.text)
}

// Reset empties the buffer.
func (b *EditBuffer) Reset() {
	b.text = nil
	b.cursor = 0
}

// Insert inserts text at the cursor.
func (b *EditBuffer) Insert(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	pos := b.Cursor()
	updated := make([]rune, 0, len(b.text)+len(insert))
	updated = append(updated, b.text[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, b.text[pos:]...)
	b.text = updated
	b.cursor = pos + len(insert)
	return true
}

// DeleteBackward deletes the rune before the cursor.
func (b *EditBuffer) DeleteBackward() bool {
	pos := b.Cursor()
	if pos == 0 {
		return false
	}
	b.text = append(b.text[:pos-1:pos-1], b.text[pos:]...)
	b.cursor = pos - 1
	return true
}

// DeleteForward deletes the rune under the cursor.
func (b *EditBuffer) DeleteForward() bool {
	pos := b.Cursor()
	if pos >= len(b.text) {
		return false
	}
	b.text = append(b.text[:pos:pos], b.text[pos+1:]...)
	return true
}

// DeleteWordBackward deletes the word preceding the cursor.
func (b *EditBuffer) DeleteWordBackward() bool {
	pos := b.Cursor()
	if pos == 0 {
		return false
	}
	i := b.wordStart(pos)
	b.text = append(b.text[:i:i], b.text[pos:]...)
	b.cursor = i
	return true
}

// MoveStart moves the cursor to the start.
func (b *EditBuffer) MoveStart() bool {
	if b.Cursor() == 0 {
		return false
	}
	b.cursor = 0
	return true
}

// MoveEnd moves the cursor to the end.
func (b *EditBuffer) MoveEnd() bool {
	if b.Cursor() == len(b.text) {
		return false
	}
	b.cursor = len(b.text)
	return true
}

// MoveRuneBackward moves the cursor one rune backward.
func (b *EditBuffer) MoveRuneBackward() bool {
	if b.Cursor() == 0 {
		return false
	}
	b.cursor = b.Cursor() - 1
	return true
}

// MoveRuneForward moves the cursor one rune forward.
func (b *EditBuffer) MoveRuneForward() bool {
	if b.Cursor() >= len(b.text) {
		return false
	}
	b.cursor = b.Cursor() + 1
	return true
}

// MoveWordBackward moves the cursor one word backward.
func (b *EditBuffer) MoveWordBackward() bool {
	pos := b.Cursor()
	i := b.wordStart(pos)
	if i == pos {
		return false
	}
	b.cursor = i
	return true
}

// MoveWordForward moves the cursor one word forward.
func (b *EditBuffer) MoveWordForward() bool {
	pos := b.Cursor()
	i := pos
	for i < len(b.text) && !unicode.IsSpace(b.text[i]) {
		i++
	}
	for i < len(b.text) && unicode.IsSpace(b.text[i]) {
		i++
	}
	if i == pos {
		return false
	}
	b.cursor = i
	return true
}

func (b *EditBuffer) wordStart(pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(b.text[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(b.text[i-1]) {
		i--
	}
	return i
}
