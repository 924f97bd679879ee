package vterm

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// maxSGRParams bounds how many parameters accumulate in one coalesced
// CSI m before OutputGenerator flushes, per spec §4.G.
const maxSGRParams = 16

// replyCPR answers DSR 6 / DECXCPR with the bit-exact formats spec §6
// requires: "ESC [ row ; col R" or, extended, "ESC [ ? row ; col ; 0 R".
func (s *Screen) replyCPR(extended bool) {
	cur := s.buffer.cursor()
	row, col := cur.Row, cur.Col
	if cur.Origin {
		g := s.buffer.active()
		row -= g.Margins.Top - 1
		col -= g.Margins.Left - 1
	}
	var out []byte
	out = append(out, 0x1b, '[')
	if extended {
		out = append(out, '?')
	}
	out = appendInt(out, row)
	out = append(out, ';')
	out = appendInt(out, col)
	if extended {
		out = append(out, ';', '0')
	}
	out = append(out, 'R')
	s.events.Reply(out)
}

// replyDA1 answers "CSI c" with the VT525-conformance default device
// attributes string from spec §6.
func (s *Screen) replyDA1() {
	s.events.Reply([]byte("\x1b[?64;1;2;6;9;15;21;22c"))
}

// replyDA2 answers "CSI > c" with a terminal/firmware identification
// triple; version numbers are placeholders since this core has no
// release versioning of its own.
func (s *Screen) replyDA2() {
	s.events.Reply([]byte("\x1b[>1;10;0c"))
}

// replyDECRQM answers "CSI ? Ps $ p" with the mode's current value:
// "CSI ? Ps ; value $ y" where value is 1 (set), 2 (reset), 0 (unknown).
func (s *Screen) replyDECRQM(mode Mode) {
	value := 2
	if s.isSet(mode) {
		value = 1
	}
	code := modeToWire(mode)
	var out []byte
	out = append(out, 0x1b, '[', '?')
	out = appendInt(out, code)
	out = append(out, ';')
	out = appendInt(out, value)
	out = append(out, '$', 'y')
	s.events.Reply(out)
}

// replyDECRQSS answers a DECRQSS request for the one status string this
// core knows how to report (SGR, via "CSI ... m").
func (s *Screen) replyDECRQSS(query string) {
	if query != "m" {
		s.events.Reply([]byte("\x1bP0$r\x1b\\"))
		return
	}
	pen := s.buffer.cursor().Pen
	sgr := RenderSGR(pen, Style{})
	out := append([]byte("\x1bP1$r"), sgr...)
	out = append(out, 'm')
	out = append(out, 0x1b, '\\')
	s.events.Reply(out)
}

// replyTabStops answers DECTABSR with "DCS 2 $ u Ps (/Ps)* ST".
func (s *Screen) replyTabStops() {
	g := s.buffer.active()
	var cols []int
	for c := 0; c < g.Tabs.columns; c++ {
		if g.Tabs.set[c] {
			cols = append(cols, c+1)
		}
	}
	out := append([]byte{}, "\x1bP2$u"...)
	for i, c := range cols {
		if i > 0 {
			out = append(out, '/')
		}
		out = appendInt(out, c)
	}
	out = append(out, 0x1b, '\\')
	s.events.Reply(out)
}

func appendInt(b []byte, v int) []byte {
	return append(b, []byte(strconv.Itoa(v))...)
}

func modeToWire(mode Mode) int {
	for code := 1; code <= 2027; code++ {
		if wireToMode(code, true) == mode {
			return code
		}
	}
	switch mode {
	case ModeInsert:
		return 4
	case ModeSendReceive:
		return 12
	case ModeAutoNewline:
		return 20
	}
	return 0
}

// RenderSGR produces the minimal "Pm;Pm;..." parameter body (no leading
// CSI, no trailing 'm') that transitions from prev to cur. Used by
// DECRQSS, the delta-compressing run coalescer below, and by hosts
// rendering a Line's cells back out as an ANSI byte stream.
func RenderSGR(cur, prev Style) []byte {
	var params []string
	if sameRendition(cur, Style{}) {
		return []byte("0")
	}
	if cur.has(AttrBold) != prev.has(AttrBold) {
		params = appendSGRToggle(params, "1", "22", cur.has(AttrBold))
	}
	if cur.has(AttrFaint) != prev.has(AttrFaint) {
		params = appendSGRToggle(params, "2", "22", cur.has(AttrFaint))
	}
	if cur.has(AttrItalic) != prev.has(AttrItalic) {
		params = appendSGRToggle(params, "3", "23", cur.has(AttrItalic))
	}
	if cur.UnderlineStyle != prev.UnderlineStyle {
		params = append(params, underlineSGR(cur.UnderlineStyle))
	}
	if cur.has(AttrDoublyUnderlined) != prev.has(AttrDoublyUnderlined) {
		params = appendSGRToggle(params, "21", "24", cur.has(AttrDoublyUnderlined))
	}
	if cur.has(AttrBlink) != prev.has(AttrBlink) {
		params = appendSGRToggle(params, "5", "25", cur.has(AttrBlink))
	}
	if cur.has(AttrInverse) != prev.has(AttrInverse) {
		params = appendSGRToggle(params, "7", "27", cur.has(AttrInverse))
	}
	if cur.has(AttrInvisible) != prev.has(AttrInvisible) {
		params = appendSGRToggle(params, "8", "28", cur.has(AttrInvisible))
	}
	if cur.has(AttrCrossedOut) != prev.has(AttrCrossedOut) {
		params = appendSGRToggle(params, "9", "29", cur.has(AttrCrossedOut))
	}
	if cur.has(AttrOverline) != prev.has(AttrOverline) {
		params = appendSGRToggle(params, "53", "55", cur.has(AttrOverline))
	}
	if cur.Foreground != prev.Foreground {
		params = append(params, colorSGR(cur.Foreground, true)...)
	}
	if cur.Background != prev.Background {
		params = append(params, colorSGR(cur.Background, false)...)
	}
	if cur.Underline != prev.Underline {
		params = append(params, underlineColorSGR(cur.Underline)...)
	}
	out := ""
	for i, p := range params {
		if i > 0 {
			out += ";"
		}
		out += p
	}
	return []byte(out)
}

func appendSGRToggle(params []string, on, off string, enabled bool) []string {
	if enabled {
		return append(params, on)
	}
	return append(params, off)
}

func underlineSGR(style UnderlineStyle) string {
	switch style {
	case UnderlineNone:
		return "24"
	case UnderlineSingle:
		return "4"
	case UnderlineDouble:
		return "4:2"
	case UnderlineCurly:
		return "4:3"
	case UnderlineDotted:
		return "4:4"
	case UnderlineDashed:
		return "4:5"
	}
	return "24"
}

func colorSGR(c Color, foreground bool) []string {
	base := 30
	if !foreground {
		base = 40
	}
	switch c.Kind {
	case ColorDefault:
		return []string{strconv.Itoa(base + 9)}
	case ColorIndexed:
		prefix := "38"
		if !foreground {
			prefix = "48"
		}
		return []string{prefix + ";5;" + strconv.Itoa(int(c.Indexed))}
	case ColorBright:
		b := 90
		if !foreground {
			b = 100
		}
		return []string{strconv.Itoa(b + int(c.Indexed))}
	case ColorRGB:
		prefix := "38"
		if !foreground {
			prefix = "48"
		}
		return []string{prefix + ";2;" + strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))}
	}
	return nil
}

func underlineColorSGR(c Color) []string {
	switch c.Kind {
	case ColorDefault:
		return []string{"59"}
	case ColorIndexed:
		return []string{"58;5;" + strconv.Itoa(int(c.Indexed))}
	case ColorRGB:
		return []string{"58;2;" + strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))}
	}
	return nil
}

// SGRRunCoalescer batches consecutive style-changing Commands into a
// single "CSI ... m" byte sequence, flushing when the accumulated
// parameter count would exceed maxSGRParams, per spec §4.G.
type SGRRunCoalescer struct {
	prev   Style
	cur    Style
	params int
}

// Feed folds one SGR-affecting Command into the pending run and reports
// whether the accumulated parameter count has now reached maxSGRParams,
// meaning the caller should Flush before feeding anything further.
func (c *SGRRunCoalescer) Feed(cmd Command) bool {
	switch v := cmd.(type) {
	case ResetGraphicsRendition:
		c.cur = Style{}
		c.params = 1
	case SetAttribute:
		c.cur.set(v.Attr, v.Enabled)
		c.params++
	case SetUnderlineStyle:
		c.cur.UnderlineStyle = v.Style
		c.params++
	case SetForegroundColor:
		c.cur.Foreground = v.Color
		c.params += sgrParamCount(v.Color)
	case SetBackgroundColor:
		c.cur.Background = v.Color
		c.params += sgrParamCount(v.Color)
	case SetUnderlineColor:
		c.cur.Underline = v.Color
		c.params += sgrParamCount(v.Color)
	}
	return c.params >= maxSGRParams
}

// sgrParamCount returns how many ";"-separated SGR parameters c expands
// to (e.g. "38;2;r;g;b" is 5), used by Feed to track the accumulated
// parameter count against maxSGRParams.
func sgrParamCount(c Color) int {
	switch c.Kind {
	case ColorRGB:
		return 5
	case ColorIndexed:
		return 3
	default:
		return 1
	}
}

// Flush emits the byte-exact "ESC [ params m" for everything accumulated
// since the last Flush (or zero-value start) and resets the baseline.
func (c *SGRRunCoalescer) Flush() []byte {
	body := RenderSGR(c.cur, c.prev)
	c.prev = c.cur
	c.params = 0
	out := append([]byte{0x1b, '['}, body...)
	out = append(out, 'm')
	return out
}

// DumpState renders the visible grid as plain text, one line per row,
// each padded to the grid's column count by display width (not byte or
// rune count, so wide CJK rows still line up) and forwards it to the
// host's DumpState hook for logging/debugging.
func (s *Screen) DumpState() {
	s.mu.RLock()
	cols := s.buffer.columns
	lines := make([]string, len(s.buffer.active().Lines))
	for i := range lines {
		text := s.visibleLineLocked(i).plainText()
		if w := ansi.StringWidth(text); w < cols {
			text += strings.Repeat(" ", cols-w)
		}
		lines[i] = text
	}
	s.mu.RUnlock()
	s.events.DumpState(strings.Join(lines, "\n"))
}

// OutputHyperlinkOSC renders the exact OSC 8 round-trip encoding spec §6
// requires: "OSC 8 ; id=ID ; URI ST" (ID omitted when empty).
func OutputHyperlinkOSC(h *Hyperlink) []byte {
	if h == nil {
		return []byte("\x1b]8;;\x1b\\")
	}
	out := []byte("\x1b]8;")
	if h.ID != "" {
		out = append(out, []byte("id="+h.ID)...)
	}
	out = append(out, ';')
	out = append(out, []byte(h.URI)...)
	out = append(out, 0x1b, '\\')
	return out
}
