package vterm

import "testing"

// buildCSI drives a Builder through a bare CSI sequence (no marker) and
// returns the final dispatch's BuildEvent.
func buildCSI(t *testing.T, params string, final byte) BuildEvent {
	t.Helper()
	p := NewParser()
	b := NewBuilder()
	data := append([]byte("\x1b["+params), final)
	var ev BuildEvent
	buf := make([]action, 0, 8)
	for _, by := range data {
		buf = buf[:0]
		buf = p.Feed(by, buf)
		for _, act := range buf {
			ev = b.Step(act)
		}
	}
	return ev
}

func TestBuilderSGRMultiAttribute(t *testing.T) {
	ev := buildCSI(t, "1;31", 'm')
	if !ev.HasCommand || ev.Result != BuildOk {
		t.Fatalf("expected a command, got %+v", ev)
	}
	if _, ok := ev.Command.(SetAttribute); !ok {
		t.Fatalf("expected first command to be SetAttribute (bold), got %T", ev.Command)
	}
	if len(ev.Extra) != 1 {
		t.Fatalf("expected one extra command for the foreground color, got %d", len(ev.Extra))
	}
	fg, ok := ev.Extra[0].(SetForegroundColor)
	if !ok {
		t.Fatalf("expected SetForegroundColor, got %T", ev.Extra[0])
	}
	if fg.Color != IndexedColor(1) {
		t.Errorf("expected SGR 31 to map to indexed color 1, got %+v", fg.Color)
	}
}

func TestBuilderSGRExtendedRGB(t *testing.T) {
	ev := buildCSI(t, "38;2;10;20;30", 'm')
	fg, ok := ev.Command.(SetForegroundColor)
	if !ok {
		t.Fatalf("expected SetForegroundColor, got %T", ev.Command)
	}
	want := RGBColor(10, 20, 30)
	if fg.Color != want {
		t.Errorf("got color %+v, want %+v", fg.Color, want)
	}
}

func TestBuilderSGRExtendedRGBColonForm(t *testing.T) {
	ev := buildCSI(t, "38:2::10:20:30", 'm')
	fg, ok := ev.Command.(SetForegroundColor)
	if !ok {
		t.Fatalf("expected SetForegroundColor, got %T", ev.Command)
	}
	want := RGBColor(10, 20, 30)
	if fg.Color != want {
		t.Errorf("got color %+v, want %+v", fg.Color, want)
	}
}

func TestBuilderCursorMotionDefaults(t *testing.T) {
	ev := buildCSI(t, "", 'H')
	mv, ok := ev.Command.(MoveCursorTo)
	if !ok {
		t.Fatalf("expected MoveCursorTo, got %T", ev.Command)
	}
	if mv.Row != 1 || mv.Col != 1 {
		t.Errorf("expected omitted params to default to 1;1, got %d;%d", mv.Row, mv.Col)
	}
}

func TestBuilderDECPrivateModeMarker(t *testing.T) {
	p := NewParser()
	b := NewBuilder()
	var ev BuildEvent
	buf := make([]action, 0, 8)
	for _, by := range []byte("\x1b[?1049h") {
		buf = buf[:0]
		buf = p.Feed(by, buf)
		for _, act := range buf {
			ev = b.Step(act)
		}
	}
	alt, ok := ev.Command.(SwitchToAlternateScreen)
	if !ok {
		t.Fatalf("expected SwitchToAlternateScreen, got %T", ev.Command)
	}
	if !alt.ClearOnEnter || !alt.SaveCursor {
		t.Errorf("expected mode 1049 to clear and save cursor, got %+v", alt)
	}
}

func TestBuilderHyperlinkOSC(t *testing.T) {
	p := NewParser()
	b := NewBuilder()
	var ev BuildEvent
	buf := make([]action, 0, 8)
	seq := []byte("\x1b]8;id=x;https://example.com\x1b\\")
	for _, by := range seq {
		buf = buf[:0]
		buf = p.Feed(by, buf)
		for _, act := range buf {
			ev = b.Step(act)
		}
	}
	link, ok := ev.Command.(SetHyperlink)
	if !ok {
		t.Fatalf("expected SetHyperlink, got %T", ev.Command)
	}
	if link.ID != "x" || link.URI != "https://example.com" {
		t.Errorf("got %+v", link)
	}
}

func TestBuilderWindowResizeOp(t *testing.T) {
	ev := buildCSI(t, "8;40;100", 't')
	rw, ok := ev.Command.(ResizeWindow)
	if !ok {
		t.Fatalf("expected ResizeWindow, got %T", ev.Command)
	}
	if rw.Rows != 40 || rw.Columns != 100 || rw.InPixels {
		t.Errorf("got %+v, want rows=40 columns=100 inPixels=false", rw)
	}
}

func TestBuilderWindowTitleStackOps(t *testing.T) {
	if _, ok := buildCSI(t, "22", 't').Command.(SaveWindowTitle); !ok {
		t.Errorf("expected CSI 22 t to produce SaveWindowTitle")
	}
	if _, ok := buildCSI(t, "23", 't').Command.(RestoreWindowTitle); !ok {
		t.Errorf("expected CSI 23 t to produce RestoreWindowTitle")
	}
}

func TestBuilderBackAndForwardIndex(t *testing.T) {
	p := NewParser()
	b := NewBuilder()
	var events []BuildEvent
	buf := make([]action, 0, 8)
	for _, by := range []byte("\x1b6\x1b9") {
		buf = buf[:0]
		buf = p.Feed(by, buf)
		for _, act := range buf {
			if ev := b.Step(act); ev.HasCommand {
				events = append(events, ev)
			}
		}
	}
	if len(events) != 2 {
		t.Fatalf("expected two commands, got %d", len(events))
	}
	if _, ok := events[0].Command.(BackIndex); !ok {
		t.Errorf("expected ESC 6 to produce BackIndex, got %T", events[0].Command)
	}
	if _, ok := events[1].Command.(ForwardIndex); !ok {
		t.Errorf("expected ESC 9 to produce ForwardIndex, got %T", events[1].Command)
	}
}

func TestBuilderHyperlinkCloseIsEmptyURI(t *testing.T) {
	p := NewParser()
	b := NewBuilder()
	var ev BuildEvent
	buf := make([]action, 0, 8)
	for _, by := range []byte("\x1b]8;;\x1b\\") {
		buf = buf[:0]
		buf = p.Feed(by, buf)
		for _, act := range buf {
			ev = b.Step(act)
		}
	}
	if _, ok := ev.Command.(ClearHyperlink); !ok {
		t.Fatalf("expected ClearHyperlink for an empty OSC 8 URI, got %T", ev.Command)
	}
}
