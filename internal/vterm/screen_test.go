package vterm

import "testing"

func TestScreenWritePrintsText(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	s.Write([]byte("hello"))
	if got := s.VisibleLine(0).plainText(); got[:5] != "hello" {
		t.Fatalf("expected line to start with hello, got %q", got)
	}
}

func TestScreenCursorPositionAfterMove(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 5})
	defer s.Close()
	s.Write([]byte("\x1b[3;4H"))
	row, col := s.CursorPosition()
	if row != 3 || col != 4 {
		t.Fatalf("expected cursor at (3,4), got (%d,%d)", row, col)
	}
}

func TestScreenScrollbackAccumulatesOnOverflow(t *testing.T) {
	s := New(ScreenOptions{Columns: 5, Rows: 2, MaxScrollback: 50})
	defer s.Close()
	s.Write([]byte("aaaaa\r\nbbbbb\r\nccccc"))
	if s.TotalLines() < 3 {
		t.Fatalf("expected at least 3 addressable lines after one scroll, got %d", s.TotalLines())
	}
}

func TestScreenScrollViewportClampsToHistory(t *testing.T) {
	s := New(ScreenOptions{Columns: 5, Rows: 2, MaxScrollback: 50})
	defer s.Close()
	s.Write([]byte("aaaaa\r\nbbbbb\r\nccccc"))
	// One line ("aaaaa") is in history, so the offset clamps to 1 going
	// back and to 0 coming forward.
	s.ScrollViewport(1000)
	if got := s.VisibleLine(0).plainText(); got != "aaaaa" {
		t.Fatalf("expected top row at the oldest history line, got %q", got)
	}
	s.ScrollViewport(-1000)
	if got := s.VisibleLine(0).plainText(); got != "bbbbb" {
		t.Fatalf("expected top row back at the live grid, got %q", got)
	}
}

func TestScreenResizeClampsCursor(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 5})
	defer s.Close()
	s.Write([]byte("\x1b[5;10H"))
	s.Resize(5, 3)
	row, col := s.CursorPosition()
	if row > 3 || col > 5 {
		t.Fatalf("expected cursor clamped within new bounds, got (%d,%d)", row, col)
	}
}

func TestScreenAlternateScreenModeToggle(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	s.Write([]byte("primary"))
	s.Write([]byte("\x1b[?1049h"))
	s.Write([]byte("\x1b[2J"))
	s.Write([]byte("alt"))
	s.Write([]byte("\x1b[?1049l"))
	if got := s.VisibleLine(0).plainText(); got[:7] != "primary" {
		t.Fatalf("expected primary content preserved after alt-screen round trip, got %q", got)
	}
}

type recordingEvents struct {
	NoopScreenEvents
	replies               [][]byte
	bells                 int
	titles                []string
	selectionCompletions  int
	dumps                 []string
}

func (r *recordingEvents) Reply(b []byte)          { r.replies = append(r.replies, append([]byte(nil), b...)) }
func (r *recordingEvents) Bell()                   { r.bells++ }
func (r *recordingEvents) SetWindowTitle(t string)  { r.titles = append(r.titles, t) }
func (r *recordingEvents) OnSelectionComplete()     { r.selectionCompletions++ }
func (r *recordingEvents) DumpState(s string)       { r.dumps = append(r.dumps, s) }

func TestScreenBellEventFires(t *testing.T) {
	rec := &recordingEvents{}
	s := New(ScreenOptions{Columns: 10, Rows: 3, Events: rec})
	defer s.Close()
	s.Write([]byte{0x07})
	if rec.bells != 1 {
		t.Fatalf("expected exactly one bell event, got %d", rec.bells)
	}
}

func TestScreenWindowTitleEventFires(t *testing.T) {
	rec := &recordingEvents{}
	s := New(ScreenOptions{Columns: 10, Rows: 3, Events: rec})
	defer s.Close()
	s.Write([]byte("\x1b]0;hello\x07"))
	if len(rec.titles) != 1 || rec.titles[0] != "hello" {
		t.Fatalf("expected one title event 'hello', got %+v", rec.titles)
	}
}

func TestScreenDeviceAttributesReply(t *testing.T) {
	rec := &recordingEvents{}
	s := New(ScreenOptions{Columns: 10, Rows: 3, Events: rec})
	defer s.Close()
	s.Write([]byte("\x1b[c"))
	if len(rec.replies) == 0 {
		t.Fatalf("expected a DA reply to be sent back to the host")
	}
}
