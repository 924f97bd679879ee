package vterm

import "testing"

func newTestBuffer(columns, rows int) *ScreenBuffer {
	modes := newModes()
	return newScreenBuffer(columns, rows, 100, &modes)
}

func TestBufferPutCharAdvancesCursor(t *testing.T) {
	b := newTestBuffer(10, 3)
	b.putChar('a')
	b.putChar('b')
	cur := b.cursor()
	if cur.Col != 3 {
		t.Fatalf("expected column 3 after two narrow cells, got %d", cur.Col)
	}
	if b.primary.Lines[0].Cells[0].Rune != 'a' || b.primary.Lines[0].Cells[1].Rune != 'b' {
		t.Fatalf("unexpected line content: %q", b.primary.Lines[0].plainText())
	}
}

func TestBufferWideGlyphOccupiesTwoCells(t *testing.T) {
	b := newTestBuffer(10, 3)
	b.putChar('字') // CJK wide character
	line := b.primary.Lines[0]
	if line.Cells[0].Width != 2 {
		t.Fatalf("expected base cell width 2, got %d", line.Cells[0].Width)
	}
	if line.Cells[1].Width != 0 {
		t.Fatalf("expected continuation cell width 0, got %d", line.Cells[1].Width)
	}
	if b.cursor().Col != 3 {
		t.Fatalf("expected cursor to advance by 2, got col %d", b.cursor().Col)
	}
}

func TestBufferAutoWrap(t *testing.T) {
	b := newTestBuffer(3, 2)
	b.putChar('a')
	b.putChar('b')
	b.putChar('c') // fills row 1, sets wrap-pending
	b.putChar('d') // triggers the wrap
	if b.cursor().Row != 2 || b.cursor().Col != 2 {
		t.Fatalf("expected cursor at row 2 col 2 after wrap, got row %d col %d", b.cursor().Row, b.cursor().Col)
	}
	if b.primary.Lines[1].Cells[0].Rune != 'd' {
		t.Fatalf("expected 'd' at start of wrapped row, got %q", b.primary.Lines[1].plainText())
	}
}

func TestBufferAutoWrapDisabledOverwritesInPlace(t *testing.T) {
	b := newTestBuffer(3, 2)
	b.modes.set(ModeAutoWrap, false)
	b.putChar('a')
	b.putChar('b')
	b.putChar('c')
	b.putChar('d')
	if b.cursor().Row != 1 {
		t.Fatalf("expected cursor to stay on row 1 with auto-wrap disabled, got row %d", b.cursor().Row)
	}
	if b.primary.Lines[0].Cells[2].Rune != 'd' {
		t.Fatalf("expected 'd' to overwrite the last column, got %q", b.primary.Lines[0].plainText())
	}
}

func TestBufferScrollPushesToScrollback(t *testing.T) {
	b := newTestBuffer(5, 2)
	b.primary.Lines[0].Cells[0].Rune = 'X'
	b.scrollUp(1)
	if b.scrollback.len() != 1 {
		t.Fatalf("expected one scrollback line, got %d", b.scrollback.len())
	}
	if b.scrollback.at(0).Cells[0].Rune != 'X' {
		t.Fatalf("expected scrolled line to carry 'X' into scrollback")
	}
}

func TestBufferEraseDisplayAll(t *testing.T) {
	b := newTestBuffer(5, 2)
	b.putChar('x')
	b.eraseDisplay(EraseAll)
	for _, line := range b.primary.Lines {
		for _, c := range line.Cells {
			if c.Rune != ' ' {
				t.Fatalf("expected all cells blank after erase, found %q", c.Rune)
			}
		}
	}
}

func TestBufferInsertDeleteCharacters(t *testing.T) {
	b := newTestBuffer(5, 1)
	for _, r := range "abcde" {
		b.putChar(r)
	}
	b.moveCursorTo(1, 2)
	b.insertCharacters(1)
	if got := b.primary.Lines[0].plainText(); got != "a bcd" {
		t.Fatalf("expected %q after inserting a blank at column 2, got %q", "a bcd", got)
	}
	b.deleteCharacters(1)
	if got := b.primary.Lines[0].plainText(); got != "abcd" {
		t.Fatalf("expected %q after deleting the inserted blank, got %q", "abcd", got)
	}
}

func TestBufferSaveRestoreCursor(t *testing.T) {
	b := newTestBuffer(10, 5)
	b.moveCursorTo(3, 4)
	b.cursor().Pen.Attrs = AttrBold
	b.saveCursor()
	b.moveCursorTo(1, 1)
	b.cursor().Pen.Attrs = 0
	b.restoreCursor()
	if b.cursor().Row != 3 || b.cursor().Col != 4 {
		t.Fatalf("expected cursor restored to (3,4), got (%d,%d)", b.cursor().Row, b.cursor().Col)
	}
	if !b.cursor().Pen.has(AttrBold) {
		t.Fatalf("expected pen restored to bold")
	}
}

func TestBufferResizeReflowsScrollback(t *testing.T) {
	b := newTestBuffer(5, 1)
	for _, r := range "abcde" {
		b.putChar(r)
	}
	b.scrollUp(1)
	if b.scrollback.len() != 1 {
		t.Fatalf("expected the row to land in scrollback, got %d lines", b.scrollback.len())
	}
	b.resize(3, 1)
	if got := b.scrollback.at(0).plainText(); got != "abc" {
		t.Fatalf("expected scrollback line truncated to the new width, got %q", got)
	}
	if got := len(b.scrollback.at(0).Cells); got != 3 {
		t.Fatalf("expected scrollback line's cell count to match the new width, got %d", got)
	}
}

func TestBufferCharsetTranslatesDECSpecialGraphics(t *testing.T) {
	b := newTestBuffer(5, 1)
	b.cursor().Charset.designate(G0, CharsetDECSpecial)
	b.cursor().Charset.invoke(G0)
	b.putChar('q')
	if got := b.primary.Lines[0].Cells[0].Rune; got != '─' {
		t.Fatalf("expected DEC Special Graphics 'q' to translate to '─', got %q", got)
	}
	b.cursor().Charset.invoke(G1) // G1 still ASCII
	b.putChar('q')
	if got := b.primary.Lines[0].Cells[1].Rune; got != 'q' {
		t.Fatalf("expected ASCII G1 to pass 'q' through untranslated, got %q", got)
	}
}

func TestBufferAlternateScreenPreservesPrimary(t *testing.T) {
	b := newTestBuffer(5, 2)
	b.putChar('P')
	b.moveCursorTo(1, 3)
	b.switchToAlternate(true, true)
	b.putChar('X')
	b.switchToPrimary(true)
	if b.primary.Lines[0].Cells[0].Rune != 'P' {
		t.Fatalf("expected primary buffer content preserved across alt-screen round trip")
	}
	if b.cursor().Row != 1 || b.cursor().Col != 3 {
		t.Fatalf("expected cursor restored to pre-alt position, got (%d,%d)", b.cursor().Row, b.cursor().Col)
	}
}
