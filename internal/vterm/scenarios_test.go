package vterm

import "testing"

// TestScenarioLinearSelectionWithinRow exercises scenario 1: write a
// known 5x5 grid, select linearly within one row, and check the
// extracted text.
func TestScenarioLinearSelectionWithinRow(t *testing.T) {
	s := New(ScreenOptions{Columns: 5, Rows: 5})
	defer s.Close()
	s.Write([]byte("12 45\r\n678 0\r\nA CDE\r\nFGHIJ\r\nKLMNO"))

	s.BeginSelection(SelectionLinear, 1, 2)
	s.ExtendSelection(1, 4)
	s.CompleteSelection()

	if got := s.SelectedText(); got != "78 " {
		t.Fatalf("got %q, want %q", got, "78 ")
	}
}

// TestScenarioEraseDisplayAllPreservesCursorAndScrollback exercises
// scenario 2: ED 2 clears all visible cells but leaves cursor and
// scrollback untouched.
func TestScenarioEraseDisplayAllPreservesCursorAndScrollback(t *testing.T) {
	s := New(ScreenOptions{Columns: 5, Rows: 2, MaxScrollback: 50})
	defer s.Close()
	s.Write([]byte("aaaaa\r\nbbbbb\r\nccccc")) // pushes "aaaaa" to scrollback
	before := s.TotalLines()
	s.Write([]byte("\x1b[3;2H")) // move cursor somewhere arbitrary
	row, col := s.CursorPosition()

	s.Write([]byte("\x1b[2J"))

	afterRow, afterCol := s.CursorPosition()
	if afterRow != row || afterCol != col {
		t.Fatalf("expected cursor unchanged by ED 2, was (%d,%d) now (%d,%d)", row, col, afterRow, afterCol)
	}
	if s.TotalLines() != before {
		t.Fatalf("expected scrollback line count unchanged by ED 2, was %d now %d", before, s.TotalLines())
	}
	for i := 0; i < s.Rows(); i++ {
		line := s.VisibleLine(i)
		for _, c := range line.Cells {
			if c.Rune != ' ' && c.Rune != 0 {
				t.Fatalf("expected all visible cells blank after ED 2, found %q at row %d", c.Rune, i)
			}
		}
	}
}

// TestScenarioExtendedRGBForegroundSGR exercises scenario 3: a 24-bit
// RGB SGR sets the written cell's foreground color.
func TestScenarioExtendedRGBForegroundSGR(t *testing.T) {
	s := New(ScreenOptions{Columns: 5, Rows: 1})
	defer s.Close()
	s.Write([]byte("\x1b[38;2;10;20;30mA"))
	line := s.VisibleLine(0)
	want := RGBColor(10, 20, 30)
	if line.Cells[0].Rune != 'A' || line.Cells[0].Style.Foreground != want {
		t.Fatalf("got cell %+v, want rune 'A' with foreground %+v", line.Cells[0], want)
	}
}

// TestScenarioAlternateScreenRoundTrip exercises scenario 4: entering
// and leaving the alternate screen leaves the primary buffer and the
// pre-alt-screen cursor position untouched.
func TestScenarioAlternateScreenRoundTrip(t *testing.T) {
	s := New(ScreenOptions{Columns: 5, Rows: 3})
	defer s.Close()
	s.Write([]byte("\x1b[2;2H")) // cursor before entering alt
	row, col := s.CursorPosition()

	s.Write([]byte("\x1b[?1049h\x1b[2JX\x1b[?1049l"))

	afterRow, afterCol := s.CursorPosition()
	if afterRow != row || afterCol != col {
		t.Fatalf("expected cursor restored to (%d,%d), got (%d,%d)", row, col, afterRow, afterCol)
	}
	for i := 0; i < s.Rows(); i++ {
		line := s.VisibleLine(i)
		for _, c := range line.Cells {
			if c.Rune == 'X' {
				t.Fatalf("expected primary buffer untouched by alt-screen writes, found 'X'")
			}
		}
	}
}

// TestScenarioDeferredAutoWrap exercises scenario 5: writing past the
// right margin defers the wrap until the next printable character, and
// the wrap scrolls when the cursor was already on the last row.
func TestScenarioDeferredAutoWrap(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	s.Write([]byte("\x1b[3;10H")) // cursor at the last row, last column
	s.Write([]byte("a"))

	row, col := s.CursorPosition()
	if row != 3 || col != 10 {
		t.Fatalf("expected 'a' to land at (3,10) without wrapping yet, cursor is (%d,%d)", row, col)
	}
	if got := s.VisibleLine(2).Cells[9].Rune; got != 'a' {
		t.Fatalf("expected 'a' written at row 3 col 10, got %q", got)
	}

	s.Write([]byte("b"))

	row, col = s.CursorPosition()
	if row != 3 || col != 2 {
		t.Fatalf("expected the deferred wrap to scroll and land 'b' at (3,2), cursor is (%d,%d)", row, col)
	}
	if got := s.VisibleLine(2).Cells[0].Rune; got != 'b' {
		t.Fatalf("expected 'b' at the start of the scrolled-to row, got %q", got)
	}
}

// TestScenarioHyperlinkSpanAndClose exercises scenario 6: cells written
// between an OSC 8 open and its close share the hyperlink; writes after
// the close carry none.
func TestScenarioHyperlinkSpanAndClose(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 1})
	defer s.Close()
	s.Write([]byte("\x1b]8;id=x;https://example.com\x1b\\Hi\x1b]8;;\x1b\\"))
	line := s.VisibleLine(0)

	h := line.Cells[0].Style.Hyperlink
	if h == nil || h.ID != "x" || h.URI != "https://example.com" {
		t.Fatalf("expected 'H' to carry the hyperlink, got %+v", line.Cells[0].Style.Hyperlink)
	}
	h2 := line.Cells[1].Style.Hyperlink
	if h2 == nil || h2.ID != "x" || h2.URI != "https://example.com" {
		t.Fatalf("expected 'i' to carry the same hyperlink, got %+v", line.Cells[1].Style.Hyperlink)
	}

	s.Write([]byte("!"))
	if line2 := s.VisibleLine(0); line2.Cells[2].Style.Hyperlink != nil {
		t.Fatalf("expected writes after OSC 8 close to carry no hyperlink, got %+v", line2.Cells[2].Style.Hyperlink)
	}
}
