package vterm

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// finishEscape dispatches a completed ESC sequence (no CSI/OSC/DCS
// involved) — ESC 7/8/=/>/D/E/M/c and charset designation (ESC ( B etc).
func (b *Builder) finishEscape() BuildEvent {
	s := &b.seq
	if len(s.Intermediates) > 0 {
		switch s.Intermediates[0] {
		case '(':
			return cmdEvent(DesignateCharset{Slot: G0, ID: CharsetID(s.Final)})
		case ')':
			return cmdEvent(DesignateCharset{Slot: G1, ID: CharsetID(s.Final)})
		case '*':
			return cmdEvent(DesignateCharset{Slot: G2, ID: CharsetID(s.Final)})
		case '+':
			return cmdEvent(DesignateCharset{Slot: G3, ID: CharsetID(s.Final)})
		case '#':
			if s.Final == '8' {
				return cmdEvent(ScreenAlignmentPattern{})
			}
			return unsupportedEvent()
		default:
			return unsupportedEvent()
		}
	}
	switch s.Final {
	case '6':
		return cmdEvent(BackIndex{})
	case '7':
		return cmdEvent(SaveCursor{})
	case '8':
		return cmdEvent(RestoreCursor{})
	case '9':
		return cmdEvent(ForwardIndex{})
	case 'D':
		return cmdEvent(Index{})
	case 'E':
		return cmdEvent(NextLine{})
	case 'M':
		return cmdEvent(ReverseIndex{})
	case 'H':
		return cmdEvent(HorizontalTabSet{})
	case 'c':
		return cmdEvent(HardReset{})
	case '=':
		return cmdEvent(SetMode{Mode: ModeApplicationKeypad, Enabled: true})
	case '>':
		return cmdEvent(SetMode{Mode: ModeApplicationKeypad, Enabled: false})
	case 'n':
		return cmdEvent(InvokeCharset{Slot: G2})
	case 'o':
		return cmdEvent(InvokeCharset{Slot: G3})
	default:
		return unsupportedEvent()
	}
}

// finishCSI dispatches a completed CSI sequence keyed by (marker,
// intermediates, final).
func (b *Builder) finishCSI() BuildEvent {
	s := &b.seq
	priv := s.Marker == '?'

	switch s.Final {
	case 'H', 'f':
		return cmdEvent(MoveCursorTo{Row: int(s.p(0, 1)), Col: int(s.p(1, 1))})
	case 'A':
		return cmdEvent(MoveCursorUp{N: clampPositive(s.p(0, 1))})
	case 'B':
		return cmdEvent(MoveCursorDown{N: clampPositive(s.p(0, 1))})
	case 'C':
		return cmdEvent(MoveCursorForward{N: clampPositive(s.p(0, 1))})
	case 'D':
		return cmdEvent(MoveCursorBackward{N: clampPositive(s.p(0, 1))})
	case 'E':
		return cmdEvent(MoveCursorNextLine{N: clampPositive(s.p(0, 1))})
	case 'F':
		return cmdEvent(MoveCursorPrevLine{N: clampPositive(s.p(0, 1))})
	case 'G', '`':
		return cmdEvent(MoveCursorToColumn{Col: int(s.p(0, 1))})
	case 'd':
		return cmdEvent(MoveCursorToLine{Row: int(s.p(0, 1))})
	case 'I':
		return cmdEvent(HorizontalTab{N: clampPositive(s.p(0, 1))})
	case 'Z':
		return cmdEvent(BackwardsTab{N: clampPositive(s.p(0, 1))})
	case 'g':
		if s.p(0, 0) == 3 {
			return cmdEvent(ClearTabStop{Mode: ClearTabStopAll})
		}
		return cmdEvent(ClearTabStop{Mode: ClearTabStopAtCursor})
	case 'J':
		return cmdEvent(EraseDisplay{Mode: EraseDisplayMode(clampRange(s.p(0, 0), 0, 3))})
	case 'K':
		return cmdEvent(EraseLine{Mode: EraseLineMode(clampRange(s.p(0, 0), 0, 2))})
	case 'X':
		return cmdEvent(EraseCharacters{N: clampPositive(s.p(0, 1))})
	case 'S':
		return cmdEvent(ScrollUp{N: clampPositive(s.p(0, 1))})
	case 'T':
		return cmdEvent(ScrollDown{N: clampPositive(s.p(0, 1))})
	case 'L':
		return cmdEvent(InsertLines{N: clampPositive(s.p(0, 1))})
	case 'M':
		return cmdEvent(DeleteLines{N: clampPositive(s.p(0, 1))})
	case '@':
		if s.hasIntermediate('\'') {
			return cmdEvent(InsertColumns{N: clampPositive(s.p(0, 1))})
		}
		return cmdEvent(InsertCharacters{N: clampPositive(s.p(0, 1))})
	case 'P':
		return cmdEvent(DeleteCharacters{N: clampPositive(s.p(0, 1))})
	case '}':
		if s.hasIntermediate('\'') {
			return cmdEvent(InsertColumns{N: clampPositive(s.p(0, 1))})
		}
		return unsupportedEvent()
	case '~':
		if s.hasIntermediate('\'') {
			return cmdEvent(DeleteColumns{N: clampPositive(s.p(0, 1))})
		}
		return unsupportedEvent()
	case 'r':
		return cmdEvent(SetTopBottomMargin{Top: int(s.p(0, 1)), Bottom: int(s.p(1, 0))})
	case 's':
		if priv {
			return unsupportedEvent() // DECSLRM / XTSAVE alias ambiguity: not modeled
		}
		return cmdEvent(SetLeftRightMargin{Left: int(s.p(0, 1)), Right: int(s.p(1, 0))})
	case 'h':
		return b.dispatchModeSet(true, priv)
	case 'l':
		return b.dispatchModeSet(false, priv)
	case 'p':
		if s.hasIntermediate('!') {
			return cmdEvent(SoftReset{})
		}
		if priv && s.hasIntermediate('$') {
			return b.dispatchRequestMode()
		}
		if priv && s.hasIntermediate('"') {
			return cmdEvent(SelectConformanceLevel{Level: int(s.p(0, 61))})
		}
		return unsupportedEvent()
	case 'm':
		return b.dispatchSGR()
	case 'n':
		return b.dispatchDSR(priv)
	case 'c':
		if priv {
			return cmdEvent(SendTerminalId{})
		}
		return cmdEvent(SendDeviceAttributes{})
	case 'q':
		if s.hasIntermediate(' ') {
			return cmdEvent(SetCursorStyle{Style: decscusrToStyle(s.p(0, 1))})
		}
		return unsupportedEvent()
	case 't':
		return b.dispatchWindowOp()
	default:
		return unsupportedEvent()
	}
}

// dispatchWindowOp handles the XTWINOPS family ("CSI Ps ; Ps ; Ps t"):
// window/icon title stack push (22) and pop (23), and window resize in
// characters (8) or pixels (4).
func (b *Builder) dispatchWindowOp() BuildEvent {
	s := &b.seq
	switch s.p(0, 0) {
	case 4:
		return cmdEvent(ResizeWindow{Rows: int(s.p(1, 0)), Columns: int(s.p(2, 0)), InPixels: true})
	case 8:
		return cmdEvent(ResizeWindow{Rows: int(s.p(1, 0)), Columns: int(s.p(2, 0)), InPixels: false})
	case 22:
		return cmdEvent(SaveWindowTitle{})
	case 23:
		return cmdEvent(RestoreWindowTitle{})
	default:
		return unsupportedEvent()
	}
}

// decscusrToStyle maps the DECSCUSR parameter (0-6) to CursorStyle; 0 and
// 1 both mean blinking block.
func decscusrToStyle(param int32) CursorStyle {
	p := clampRange(param, 0, 6)
	if p == 0 {
		return CursorStyleBlinkingBlock
	}
	return CursorStyle(p - 1)
}

func clampPositive(v int32) int {
	if v <= 0 {
		return 1
	}
	return int(v)
}

func clampRange(v int32, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (b *Builder) dispatchModeSet(enabled, priv bool) BuildEvent {
	s := &b.seq
	mode := wireToMode(int(s.p(0, 0)), priv)
	if mode == ModeUnknown {
		return unsupportedEvent()
	}
	switch mode {
	case ModeAlternateScreenBuffer247:
		return cmdEvent(altScreenToggle(enabled, true, false))
	case ModeAlternateScreenBuffer1047:
		return cmdEvent(altScreenToggle(enabled, true, false))
	case ModeAlternateScreenBuffer1049:
		return cmdEvent(altScreenToggle(enabled, true, true))
	case ModeSynchronizedOutput:
		if enabled {
			return cmdEvent(BeginSynchronizedOutput{})
		}
		return cmdEvent(EndSynchronizedOutput{})
	default:
		return cmdEvent(SetMode{Mode: mode, Enabled: enabled})
	}
}

func altScreenToggle(enabled, clear, saveCursor bool) Command {
	if enabled {
		return SwitchToAlternateScreen{ClearOnEnter: clear, SaveCursor: saveCursor}
	}
	return SwitchToPrimaryScreen{RestoreCursor: saveCursor}
}

func (b *Builder) dispatchRequestMode() BuildEvent {
	s := &b.seq
	mode := wireToMode(int(s.p(0, 0)), s.Marker == '?')
	if mode == ModeUnknown {
		return unsupportedEvent()
	}
	return cmdEvent(RequestMode{Mode: mode})
}

func (b *Builder) dispatchDSR(priv bool) BuildEvent {
	s := &b.seq
	switch s.p(0, 0) {
	case 5:
		return unsupportedEvent() // device status, host-specific; not modeled
	case 6:
		if priv {
			return cmdEvent(RequestExtendedCursorPosition{})
		}
		return cmdEvent(RequestCursorPosition{})
	default:
		return unsupportedEvent()
	}
}

// wireToMode translates a numeric mode code plus ANSI/DEC-private flag
// into the internal Mode identifier.
func wireToMode(code int, priv bool) Mode {
	if !priv {
		switch code {
		case 4:
			return ModeInsert
		case 12:
			return ModeSendReceive
		case 20:
			return ModeAutoNewline
		}
		return ModeUnknown
	}
	switch code {
	case 1:
		return ModeApplicationCursorKeys
	case 2:
		return ModeDECANM
	case 3:
		return ModeColumns132
	case 4:
		return ModeFastScroll
	case 5:
		return ModeReverseVideo
	case 6:
		return ModeOrigin
	case 7:
		return ModeAutoWrap
	case 8:
		return ModeAutoRepeat
	case 9:
		return ModeMouseX10
	case 12:
		return ModeCursorBlinking
	case 25:
		return ModeCursorVisible
	case 47:
		return ModeAlternateScreenBuffer247
	case 66:
		return ModeApplicationKeypad
	case 69:
		return ModeLeftRightMargin
	case 1000:
		return ModeMouseNormal
	case 1001:
		return ModeMouseHighlight
	case 1002:
		return ModeMouseButtonEvent
	case 1003:
		return ModeMouseAnyEvent
	case 1004:
		return ModeFocusEvents
	case 1005:
		return ModeMouseUTF8
	case 1006:
		return ModeMouseSGR
	case 1015:
		return ModeMouseURXVT
	case 1047:
		return ModeAlternateScreenBuffer1047
	case 1049:
		return ModeAlternateScreenBuffer1049
	case 2004:
		return ModeBracketedPaste
	case 2026:
		return ModeSynchronizedOutput
	case 2027:
		return ModeGraphemeClustering
	default:
		return ModeUnknown
	}
}

// dispatchSGR expands "CSI ... m" into one Command per changed attribute,
// since a single SGR sequence packs arbitrarily many parameter groups.
func (b *Builder) dispatchSGR() BuildEvent {
	cmds := b.sgrCommands()
	if len(cmds) == 0 {
		return cmdEvent(ResetGraphicsRendition{})
	}
	if len(cmds) == 1 {
		return cmdEvent(cmds[0])
	}
	return BuildEvent{HasCommand: true, Command: cmds[0], Extra: cmds[1:], Result: BuildOk}
}

// sgrCommands expands the current sequence's SGR parameters into one
// Command per attribute change, in order.
func (b *Builder) sgrCommands() []Command {
	s := &b.seq
	var out []Command
	n := s.count()
	if n == 0 {
		return []Command{ResetGraphicsRendition{}}
	}
	for i := 0; i < n; i++ {
		code := s.p(i, 0)
		switch code {
		case 0:
			out = append(out, ResetGraphicsRendition{})
		case 1:
			out = append(out, SetAttribute{Attr: AttrBold, Enabled: true})
		case 2:
			out = append(out, SetAttribute{Attr: AttrFaint, Enabled: true})
		case 3:
			out = append(out, SetAttribute{Attr: AttrItalic, Enabled: true})
		case 4:
			style := UnderlineSingle
			if sub := s.sub(i, 1, -1); sub >= 0 {
				switch sub {
				case 0:
					style = UnderlineNone
				case 2:
					style = UnderlineDouble
				case 3:
					style = UnderlineCurly
				case 4:
					style = UnderlineDotted
				case 5:
					style = UnderlineDashed
				}
			}
			out = append(out, SetUnderlineStyle{Style: style})
		case 5:
			out = append(out, SetAttribute{Attr: AttrBlink, Enabled: true})
		case 7:
			out = append(out, SetAttribute{Attr: AttrInverse, Enabled: true})
		case 8:
			out = append(out, SetAttribute{Attr: AttrInvisible, Enabled: true})
		case 9:
			out = append(out, SetAttribute{Attr: AttrCrossedOut, Enabled: true})
		case 21:
			out = append(out, SetAttribute{Attr: AttrDoublyUnderlined, Enabled: true})
		case 22:
			out = append(out, SetAttribute{Attr: AttrBold, Enabled: false})
			out = append(out, SetAttribute{Attr: AttrFaint, Enabled: false})
		case 23:
			out = append(out, SetAttribute{Attr: AttrItalic, Enabled: false})
		case 24:
			out = append(out, SetUnderlineStyle{Style: UnderlineNone})
			out = append(out, SetAttribute{Attr: AttrDoublyUnderlined, Enabled: false})
		case 25:
			out = append(out, SetAttribute{Attr: AttrBlink, Enabled: false})
		case 27:
			out = append(out, SetAttribute{Attr: AttrInverse, Enabled: false})
		case 28:
			out = append(out, SetAttribute{Attr: AttrInvisible, Enabled: false})
		case 29:
			out = append(out, SetAttribute{Attr: AttrCrossedOut, Enabled: false})
		case 30, 31, 32, 33, 34, 35, 36, 37:
			out = append(out, SetForegroundColor{Color: IndexedColor(uint8(code - 30))})
		case 38:
			color, consumed := parseExtendedColor(s, i)
			out = append(out, SetForegroundColor{Color: color})
			i += consumed
		case 39:
			out = append(out, SetForegroundColor{Color: Color{Kind: ColorDefault}})
		case 40, 41, 42, 43, 44, 45, 46, 47:
			out = append(out, SetBackgroundColor{Color: IndexedColor(uint8(code - 40))})
		case 48:
			color, consumed := parseExtendedColor(s, i)
			out = append(out, SetBackgroundColor{Color: color})
			i += consumed
		case 49:
			out = append(out, SetBackgroundColor{Color: Color{Kind: ColorDefault}})
		case 50:
			out = append(out, SetAttribute{Attr: AttrFramed, Enabled: false})
		case 51:
			out = append(out, SetAttribute{Attr: AttrFramed, Enabled: true})
		case 52:
			out = append(out, SetAttribute{Attr: AttrEncircled, Enabled: true})
		case 53:
			out = append(out, SetAttribute{Attr: AttrOverline, Enabled: true})
		case 54:
			out = append(out, SetAttribute{Attr: AttrFramed, Enabled: false})
			out = append(out, SetAttribute{Attr: AttrEncircled, Enabled: false})
		case 55:
			out = append(out, SetAttribute{Attr: AttrOverline, Enabled: false})
		case 58:
			color, consumed := parseExtendedColor(s, i)
			out = append(out, SetUnderlineColor{Color: color})
			i += consumed
		case 59:
			out = append(out, SetUnderlineColor{Color: Color{Kind: ColorDefault}})
		case 90, 91, 92, 93, 94, 95, 96, 97:
			out = append(out, SetForegroundColor{Color: BrightColor(uint8(code - 90))})
		case 100, 101, 102, 103, 104, 105, 106, 107:
			out = append(out, SetBackgroundColor{Color: BrightColor(uint8(code - 100))})
		}
	}
	return out
}

// parseExtendedColor handles SGR 38/48/58 in both the semicolon form
// (38;2;r;g;b or 38;5;n, spread across following top-level params) and
// the colon sub-parameter form (38:2::r:g:b or 38:5:n). Returns the color
// and how many extra top-level params it consumed in the semicolon form
// (0 if everything was in sub-params).
func parseExtendedColor(s *Sequence, i int) (Color, int) {
	if sub := s.sub(i, 1, -1); sub >= 0 {
		switch sub {
		case 2:
			r := uint8(s.sub(i, 3, 0))
			g := uint8(s.sub(i, 4, 0))
			bch := uint8(s.sub(i, 5, 0))
			return RGBColor(r, g, bch), 0
		case 5:
			return IndexedColor(uint8(s.sub(i, 2, 0))), 0
		}
		return Color{}, 0
	}
	kind := s.p(i+1, -1)
	switch kind {
	case 2:
		r := uint8(s.p(i+2, 0))
		g := uint8(s.p(i+3, 0))
		bch := uint8(s.p(i+4, 0))
		return RGBColor(r, g, bch), 4
	case 5:
		return IndexedColor(uint8(s.p(i+2, 0))), 2
	default:
		return Color{}, 1
	}
}

// finishOSC dispatches on the leading numeric code of the OSC payload.
func (b *Builder) finishOSC() BuildEvent {
	payload := string(b.seq.Payload)
	idx := strings.IndexByte(payload, ';')
	codeStr := payload
	rest := ""
	if idx >= 0 {
		codeStr = payload[:idx]
		rest = payload[idx+1:]
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return invalidEvent()
	}
	switch code {
	case 0:
		return cmdEvent(ChangeWindowTitle{Title: rest})
	case 1:
		return cmdEvent(ChangeIconTitle{Title: rest})
	case 2:
		return cmdEvent(ChangeWindowTitle{Title: rest})
	case 4:
		return b.dispatchPaletteOSC(rest)
	case 8:
		return b.dispatchHyperlinkOSC(rest)
	case 9, 777:
		return b.dispatchNotifyOSC(rest)
	case 52:
		return b.dispatchClipboardOSC(rest)
	case 1337:
		if rest == "SetMark" {
			return cmdEvent(SetMark{})
		}
		return unsupportedEvent()
	default:
		if code >= 10 && code <= 19 {
			return b.dispatchDynamicColorOSC(DynamicColorName(code-10), 0, rest)
		}
		if code >= 110 && code <= 119 {
			return cmdEvent(ResetDynamicColor{Name: DynamicColorName(code - 110)})
		}
		return unsupportedEvent()
	}
}

func (b *Builder) dispatchPaletteOSC(rest string) BuildEvent {
	parts := strings.SplitN(rest, ";", 2)
	if len(parts) != 2 {
		return invalidEvent()
	}
	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		return invalidEvent()
	}
	if parts[1] == "?" {
		return cmdEvent(RequestDynamicColor{Name: DynamicColorPalette, Indexed: uint8(idx)})
	}
	col, ok := parseColorSpec(parts[1])
	if !ok {
		return invalidEvent()
	}
	return cmdEvent(SetDynamicColor{Name: DynamicColorPalette, Indexed: uint8(idx), Color: col})
}

func (b *Builder) dispatchDynamicColorOSC(name DynamicColorName, idx uint8, rest string) BuildEvent {
	if rest == "?" {
		return cmdEvent(RequestDynamicColor{Name: name, Indexed: idx})
	}
	col, ok := parseColorSpec(rest)
	if !ok {
		return invalidEvent()
	}
	return cmdEvent(SetDynamicColor{Name: name, Indexed: idx, Color: col})
}

// parseColorSpec parses an X11-style "rgb:RR/GG/BB" or "#RRGGBB" color
// spec, the two forms xterm accepts in dynamic-color OSCs.
func parseColorSpec(spec string) (Color, bool) {
	if strings.HasPrefix(spec, "rgb:") {
		parts := strings.Split(spec[4:], "/")
		if len(parts) != 3 {
			return Color{}, false
		}
		r, ok1 := parseHexByte(parts[0])
		g, ok2 := parseHexByte(parts[1])
		bch, ok3 := parseHexByte(parts[2])
		if !ok1 || !ok2 || !ok3 {
			return Color{}, false
		}
		return RGBColor(r, g, bch), true
	}
	if strings.HasPrefix(spec, "#") && len(spec) == 7 {
		r, ok1 := parseHexByte(spec[1:3])
		g, ok2 := parseHexByte(spec[3:5])
		bch, ok3 := parseHexByte(spec[5:7])
		if !ok1 || !ok2 || !ok3 {
			return Color{}, false
		}
		return RGBColor(r, g, bch), true
	}
	return Color{}, false
}

func parseHexByte(s string) (uint8, bool) {
	// Accept 2-4 hex digit component widths (xterm allows 4-digit
	// channels); take the most-significant byte.
	if len(s) < 2 {
		return 0, false
	}
	n, err := strconv.ParseUint(s[:2], 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

func (b *Builder) dispatchHyperlinkOSC(rest string) BuildEvent {
	parts := strings.SplitN(rest, ";", 2)
	if len(parts) != 2 {
		return invalidEvent()
	}
	params, uri := parts[0], parts[1]
	if uri == "" {
		return cmdEvent(ClearHyperlink{})
	}
	id := ""
	for _, kv := range strings.Split(params, ":") {
		if strings.HasPrefix(kv, "id=") {
			id = kv[3:]
		}
	}
	return cmdEvent(SetHyperlink{ID: id, URI: uri})
}

func (b *Builder) dispatchNotifyOSC(rest string) BuildEvent {
	parts := strings.SplitN(rest, ";", 2)
	if len(parts) == 2 {
		return cmdEvent(Notify{Title: parts[0], Body: parts[1]})
	}
	return cmdEvent(Notify{Body: rest})
}

func (b *Builder) dispatchClipboardOSC(rest string) BuildEvent {
	parts := strings.SplitN(rest, ";", 2)
	if len(parts) != 2 {
		return invalidEvent()
	}
	if parts[1] == "?" {
		return unsupportedEvent() // clipboard read-back is a host policy decision
	}
	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return invalidEvent()
	}
	return cmdEvent(CopyToClipboard{Data: data})
}

// finishDCS dispatches DECRQSS (the one DCS this core implements); other
// DCS payloads are absorbed with Unsupported.
func (b *Builder) finishDCS() BuildEvent {
	s := &b.seq
	if s.Final == 'q' && s.hasIntermediate('$') {
		return cmdEvent(RequestStatusString{Query: string(s.Payload)})
	}
	if s.Final == '$' && string(s.Payload) == "" && s.hasIntermediate('+') {
		return cmdEvent(RequestTabStops{})
	}
	return unsupportedEvent()
}
