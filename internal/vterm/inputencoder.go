package vterm

import (
	"fmt"
	"unicode/utf8"
)

// Key identifies a non-printable key for InputEncoder.EncodeKey; printable
// keys are sent as their rune directly via EncodeRune.
type Key uint8

const (
	KeyUp Key = iota
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
)

// KeyModifiers is a bitset of Shift/Alt/Control/Meta, encoded as the
// xterm modifier parameter (1 + sum of bit values) when non-zero.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModAlt
	ModControl
	ModMeta
)

func (m KeyModifiers) xtermParam() int {
	return 1 + int(m)
}

// MouseButton identifies which button/wheel direction produced a mouse
// event.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
	MouseButtonNone
	MouseWheelUp
	MouseWheelDown
)

// MouseEventKind distinguishes press/release/move/wheel for the
// protocols that encode it (ButtonEvent/AnyEvent).
type MouseEventKind uint8

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseMove
	MouseWheel
)

// MouseTransport selects the wire encoding for reported coordinates.
type MouseTransport uint8

const (
	TransportDefault MouseTransport = iota // X10: single byte, max 223
	TransportExtended                       // UTF-8 coordinate encoding
	TransportSGR                            // CSI < b ; x ; y M/m
	TransportURXVT                          // CSI b ; x ; y M
)

// InputEncoder maps key/mouse events to outbound PTY bytes according to
// the Screen's active modes (application cursor keys, application
// keypad, mouse protocol/transport), per spec §4.H.
type InputEncoder struct {
	screen *Screen
}

func NewInputEncoder(s *Screen) *InputEncoder {
	return &InputEncoder{screen: s}
}

// EncodeRune encodes a printable keystroke, applying Alt (ESC-prefix)
// and Control (clear bits 0x60) per standard terminal convention.
func (e *InputEncoder) EncodeRune(r rune, mods KeyModifiers) []byte {
	var out []byte
	if mods&ModAlt != 0 {
		out = append(out, 0x1b)
	}
	if mods&ModControl != 0 && r >= '?' && r < 0x80 {
		out = append(out, byte(r)&0x1f)
		return out
	}
	return append(out, []byte(string(r))...)
}

// EncodeKey encodes a non-printable key.
func (e *InputEncoder) EncodeKey(k Key, mods KeyModifiers) []byte {
	appCursor := e.screen.isSet(ModeApplicationCursorKeys)

	if mods != 0 {
		if final, ok := csiFinalFor(k, appCursor); ok {
			return []byte(fmt.Sprintf("\x1b[1;%d%c", mods.xtermParam(), final))
		}
	}

	switch k {
	case KeyUp:
		return cursorKeySeq('A', appCursor)
	case KeyDown:
		return cursorKeySeq('B', appCursor)
	case KeyRight:
		return cursorKeySeq('C', appCursor)
	case KeyLeft:
		return cursorKeySeq('D', appCursor)
	case KeyHome:
		return []byte("\x1b[H")
	case KeyEnd:
		return []byte("\x1b[F")
	case KeyInsert:
		return []byte("\x1b[2~")
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyPageUp:
		return []byte("\x1b[5~")
	case KeyPageDown:
		return []byte("\x1b[6~")
	case KeyF1:
		return []byte("\x1bOP")
	case KeyF2:
		return []byte("\x1bOQ")
	case KeyF3:
		return []byte("\x1bOR")
	case KeyF4:
		return []byte("\x1bOS")
	case KeyF5:
		return []byte("\x1b[15~")
	case KeyF6:
		return []byte("\x1b[17~")
	case KeyF7:
		return []byte("\x1b[18~")
	case KeyF8:
		return []byte("\x1b[19~")
	case KeyF9:
		return []byte("\x1b[20~")
	case KeyF10:
		return []byte("\x1b[21~")
	case KeyF11:
		return []byte("\x1b[23~")
	case KeyF12:
		return []byte("\x1b[24~")
	case KeyBackspace:
		return []byte{0x7f}
	case KeyTab:
		if mods&ModShift != 0 {
			return []byte("\x1b[Z")
		}
		return []byte{'\t'}
	case KeyEnter:
		return []byte{'\r'}
	case KeyEscape:
		return []byte{0x1b}
	}
	return nil
}

func cursorKeySeq(final byte, appCursor bool) []byte {
	if appCursor {
		return []byte{0x1b, 'O', final}
	}
	return []byte{0x1b, '[', final}
}

func csiFinalFor(k Key, appCursor bool) (byte, bool) {
	switch k {
	case KeyUp:
		return 'A', true
	case KeyDown:
		return 'B', true
	case KeyRight:
		return 'C', true
	case KeyLeft:
		return 'D', true
	}
	return 0, false
}

// EncodeMouse encodes a mouse event per the active protocol mode and
// transport, per spec §4.H's protocol/transport matrix.
func (e *InputEncoder) EncodeMouse(kind MouseEventKind, button MouseButton, col, row int, mods KeyModifiers, transport MouseTransport) []byte {
	if !e.mouseReportingActive(kind) {
		return nil
	}
	code := mouseButtonCode(button, kind)
	if mods&ModShift != 0 {
		code |= 4
	}
	if mods&ModAlt != 0 {
		code |= 8
	}
	if mods&ModControl != 0 {
		code |= 16
	}
	if kind == MouseMove {
		code |= 32
	}

	switch transport {
	case TransportSGR:
		final := byte('M')
		if kind == MouseRelease {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", code, col, row, final))
	case TransportURXVT:
		return []byte(fmt.Sprintf("\x1b[%d;%d;%dM", code+32, col, row))
	case TransportExtended:
		out := append([]byte("\x1b[M"), byte(code+32))
		out = encodeExtendedCoord(out, col)
		return encodeExtendedCoord(out, row)
	default:
		if col > 223 || row > 223 {
			return nil // X10 transport cannot represent coordinates beyond 223
		}
		return []byte{0x1b, '[', 'M', byte(code + 32), byte(col + 32), byte(row + 32)}
	}
}

func encodeExtendedCoord(out []byte, v int) []byte {
	return utf8.AppendRune(out, rune(v+32))
}

func mouseButtonCode(button MouseButton, kind MouseEventKind) int {
	switch button {
	case MouseWheelUp:
		return 64
	case MouseWheelDown:
		return 65
	}
	if kind == MouseRelease {
		return 3
	}
	switch button {
	case MouseButtonLeft:
		return 0
	case MouseButtonMiddle:
		return 1
	case MouseButtonRight:
		return 2
	default:
		return 3
	}
}

func (e *InputEncoder) mouseReportingActive(kind MouseEventKind) bool {
	s := e.screen
	switch {
	case s.isSet(ModeMouseAnyEvent):
		return true
	case s.isSet(ModeMouseButtonEvent):
		return kind != MouseMove
	case s.isSet(ModeMouseNormal), s.isSet(ModeMouseX10), s.isSet(ModeMouseHighlight):
		return kind == MousePress || kind == MouseRelease || kind == MouseWheel
	default:
		return false
	}
}

// EncodeBracketedPaste wraps data in the bracketed-paste markers when
// mode 2004 is enabled, otherwise returns data unchanged.
func (e *InputEncoder) EncodeBracketedPaste(data []byte) []byte {
	if !e.screen.isSet(ModeBracketedPaste) {
		return data
	}
	out := append([]byte("\x1b[200~"), data...)
	return append(out, []byte("\x1b[201~")...)
}
