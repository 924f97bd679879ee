package vterm

import "testing"

func TestEncodeRunePlain(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	enc := NewInputEncoder(s)
	got := enc.EncodeRune('a', 0)
	if string(got) != "a" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeRuneControl(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	enc := NewInputEncoder(s)
	got := enc.EncodeRune('C', ModControl)
	if len(got) != 1 || got[0] != 0x03 {
		t.Fatalf("expected Ctrl+C to encode as 0x03, got %v", got)
	}
}

func TestEncodeRuneAltPrefixesEscape(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	enc := NewInputEncoder(s)
	got := enc.EncodeRune('x', ModAlt)
	if string(got) != "\x1bx" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeKeyArrowNormalMode(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	enc := NewInputEncoder(s)
	got := enc.EncodeKey(KeyUp, 0)
	if string(got) != "\x1b[A" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeKeyArrowApplicationMode(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	s.Write([]byte("\x1b[?1h")) // DECCKM, application cursor keys
	enc := NewInputEncoder(s)
	got := enc.EncodeKey(KeyUp, 0)
	if string(got) != "\x1bOA" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeKeyArrowWithModifier(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	enc := NewInputEncoder(s)
	got := enc.EncodeKey(KeyUp, ModShift)
	want := "\x1b[1;2A"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeKeyFunctionKeys(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	enc := NewInputEncoder(s)
	if got := enc.EncodeKey(KeyF1, 0); string(got) != "\x1bOP" {
		t.Fatalf("got %q", got)
	}
	if got := enc.EncodeKey(KeyF5, 0); string(got) != "\x1b[15~" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeMouseSGRTransport(t *testing.T) {
	s := New(ScreenOptions{Columns: 80, Rows: 24})
	defer s.Close()
	s.Write([]byte("\x1b[?1000h")) // normal mouse tracking
	enc := NewInputEncoder(s)
	got := enc.EncodeMouse(MousePress, MouseButtonLeft, 5, 10, 0, TransportSGR)
	want := "\x1b[<0;5;10M"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeMouseInactiveWithoutTrackingMode(t *testing.T) {
	s := New(ScreenOptions{Columns: 80, Rows: 24})
	defer s.Close()
	enc := NewInputEncoder(s)
	got := enc.EncodeMouse(MousePress, MouseButtonLeft, 5, 10, 0, TransportSGR)
	if got != nil {
		t.Fatalf("expected nil when no mouse tracking mode is active, got %q", got)
	}
}

func TestEncodeMouseX10TransportDefaultCoordinates(t *testing.T) {
	s := New(ScreenOptions{Columns: 80, Rows: 24})
	defer s.Close()
	s.Write([]byte("\x1b[?1000h"))
	enc := NewInputEncoder(s)
	got := enc.EncodeMouse(MousePress, MouseButtonLeft, 5, 10, 0, TransportDefault)
	want := []byte{0x1b, '[', 'M', byte(0 + 32), byte(5 + 32), byte(10 + 32)}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEncodeBracketedPasteWrapsWhenEnabled(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	s.Write([]byte("\x1b[?2004h"))
	enc := NewInputEncoder(s)
	got := enc.EncodeBracketedPaste([]byte("hello"))
	want := "\x1b[200~hello\x1b[201~"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeBracketedPastePassthroughWhenDisabled(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 3})
	defer s.Close()
	enc := NewInputEncoder(s)
	got := enc.EncodeBracketedPaste([]byte("hello"))
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}
