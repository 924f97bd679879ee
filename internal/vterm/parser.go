package vterm

// parserState enumerates the DEC-compatible state machine states from
// spec §4.A, following Paul Williams' reference VT500 parser tables.
type parserState uint8

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateOscString
	stateSosPmApcString
)

// Parser is a pure byte-level state machine: it never touches screen
// state. Each fed byte yields zero or more actions for the Builder to
// fold into a Sequence. UTF-8 decoding happens lazily inside Ground via
// a small embedded sub-DFA so multi-byte codepoints reach the Builder as
// a single Print action.
type Parser struct {
	state parserState

	utf8Buf  [4]byte
	utf8Len  int
	utf8Need int

	// stringState remembers which string-collecting state an ESC byte was
	// seen from, so a following '\' can be recognized as ST (string
	// terminator) instead of an ordinary escape-dispatch final byte.
	stringState parserState
	inString    bool
}

// NewParser returns a Parser in the Ground state.
func NewParser() *Parser {
	return &Parser{state: stateGround}
}

// Feed advances the state machine by one byte, appending any resulting
// actions to out and returning the extended slice (caller-reusable
// buffer pattern, avoids an allocation per byte in the hot path).
func (p *Parser) Feed(b byte, out []action) []action {
	// C1 controls (0x80-0x9F) are recognized directly in every state except
	// DCS passthrough and the middle of a UTF-8 sequence in Ground (where
	// such a byte is a continuation byte), matching xterm's acceptance of
	// 8-bit control codes.
	if b >= 0x80 && b <= 0x9f && p.state != stateDcsPassthrough && !(p.state == stateGround && p.utf8Need > 0) {
		if act, handled := p.dispatchC1(b); handled {
			return append(out, act...)
		}
	}

	switch p.state {
	case stateGround:
		return p.stepGround(b, out)
	case stateEscape:
		return p.stepEscape(b, out)
	case stateEscapeIntermediate:
		return p.stepEscapeIntermediate(b, out)
	case stateCsiEntry:
		return p.stepCsiEntry(b, out)
	case stateCsiParam:
		return p.stepCsiParam(b, out)
	case stateCsiIntermediate:
		return p.stepCsiIntermediate(b, out)
	case stateCsiIgnore:
		return p.stepCsiIgnore(b, out)
	case stateDcsEntry:
		return p.stepDcsEntry(b, out)
	case stateDcsParam:
		return p.stepDcsParam(b, out)
	case stateDcsIntermediate:
		return p.stepDcsIntermediate(b, out)
	case stateDcsPassthrough:
		return p.stepDcsPassthrough(b, out)
	case stateDcsIgnore:
		return p.stepDcsIgnore(b, out)
	case stateOscString:
		return p.stepOscString(b, out)
	case stateSosPmApcString:
		return p.stepSosPmApcString(b, out)
	}
	return out
}

func (p *Parser) dispatchC1(b byte) ([]action, bool) {
	switch b {
	case 0x9b: // CSI
		p.enterCsiEntry()
		return []action{{kind: actionClear}}, true
	case 0x9d: // OSC
		p.state = stateOscString
		return []action{{kind: actionOscStart}}, true
	case 0x90: // DCS
		p.enterDcsEntry()
		return []action{{kind: actionClear}}, true
	case 0x98, 0x9e, 0x9f: // SOS, PM, APC
		p.state = stateSosPmApcString
		return nil, true
	case 0x8e, 0x8f: // SS2, SS3
		return []action{{kind: actionExecute, b: b}}, true
	default:
		// Other C1 codes (0x80-0x8d, 0x91-0x97, 0x99, 0x9a, 0x9c=ST) execute
		// as their control meaning in Ground, or terminate a string state.
		if p.state == stateOscString || p.state == stateDcsPassthrough || p.state == stateSosPmApcString {
			if b == 0x9c { // ST
				return p.terminateString(), true
			}
		}
		if b == 0x9c {
			p.state = stateGround
			return nil, true
		}
		return []action{{kind: actionExecute, b: b}}, true
	}
}

func (p *Parser) terminateString() []action {
	prev := p.state
	p.state = stateGround
	switch prev {
	case stateOscString:
		return []action{{kind: actionOscEnd}}
	case stateDcsPassthrough:
		return []action{{kind: actionDcsUnhook}}
	default:
		return nil
	}
}

func (p *Parser) enterCsiEntry() {
	p.state = stateCsiEntry
}

func (p *Parser) enterDcsEntry() {
	p.state = stateDcsEntry
}

// --- Ground --------------------------------------------------------------

func (p *Parser) stepGround(b byte, out []action) []action {
	if p.utf8Need > 0 {
		if b&0xc0 == 0x80 {
			p.utf8Buf[p.utf8Len] = b
			p.utf8Len++
			p.utf8Need--
			if p.utf8Need == 0 {
				r := decodeUTF8(p.utf8Buf[:p.utf8Len])
				p.utf8Len = 0
				return append(out, action{kind: actionPrint, r: r})
			}
			return out
		}
		// Ill-formed continuation: emit replacement char and resync by
		// reprocessing b from scratch.
		p.utf8Len = 0
		p.utf8Need = 0
		out = append(out, action{kind: actionPrint, r: 0xfffd})
		return p.stepGround(b, out)
	}

	switch {
	case b == 0x1b:
		p.state = stateEscape
		return append(out, action{kind: actionClear})
	case b < 0x20 || b == 0x7f:
		return append(out, action{kind: actionExecute, b: b})
	case b < 0x80:
		return append(out, action{kind: actionPrint, r: rune(b)})
	case b&0xe0 == 0xc0:
		p.utf8Buf[0] = b
		p.utf8Len = 1
		p.utf8Need = 1
		return out
	case b&0xf0 == 0xe0:
		p.utf8Buf[0] = b
		p.utf8Len = 1
		p.utf8Need = 2
		return out
	case b&0xf8 == 0xf0:
		p.utf8Buf[0] = b
		p.utf8Len = 1
		p.utf8Need = 3
		return out
	default:
		// Stray continuation byte or invalid leading byte.
		return append(out, action{kind: actionPrint, r: 0xfffd})
	}
}

func decodeUTF8(b []byte) rune {
	switch len(b) {
	case 2:
		r := rune(b[0]&0x1f)<<6 | rune(b[1]&0x3f)
		if r < 0x80 {
			return 0xfffd
		}
		return r
	case 3:
		r := rune(b[0]&0x0f)<<12 | rune(b[1]&0x3f)<<6 | rune(b[2]&0x3f)
		if r < 0x800 {
			return 0xfffd
		}
		return r
	case 4:
		r := rune(b[0]&0x07)<<18 | rune(b[1]&0x3f)<<12 | rune(b[2]&0x3f)<<6 | rune(b[3]&0x3f)
		if r < 0x10000 || r > 0x10ffff {
			return 0xfffd
		}
		return r
	}
	return 0xfffd
}

// --- Escape ----------------------------------------------------------------

func (p *Parser) stepEscape(b byte, out []action) []action {
	if p.inString {
		prev := p.stringState
		p.inString = false
		if b == '\\' {
			p.state = stateGround
			switch prev {
			case stateOscString:
				return append(out, action{kind: actionOscEnd})
			case stateDcsPassthrough:
				return append(out, action{kind: actionDcsUnhook})
			default:
				return out
			}
		}
		// Not a valid ST: abandon the string and reprocess b as a fresh
		// escape sequence start.
		if prev == stateDcsPassthrough {
			out = append(out, action{kind: actionDcsUnhook})
		} else if prev == stateOscString {
			out = append(out, action{kind: actionOscEnd})
		}
		p.state = stateEscape
		out = append(out, action{kind: actionClear})
		return p.stepEscape(b, out)
	}

	switch {
	case b == 0x18 || b == 0x1a:
		p.state = stateGround
		return append(out, action{kind: actionExecute, b: b})
	case b == 0x1b:
		return out // stay, restart escape
	case b < 0x20:
		return append(out, action{kind: actionExecute, b: b})
	case b == '[':
		p.enterCsiEntry()
		return append(out, action{kind: actionClear})
	case b == ']':
		p.state = stateOscString
		return append(out, action{kind: actionOscStart})
	case b == 'P':
		p.enterDcsEntry()
		return append(out, action{kind: actionClear})
	case b == 'X' || b == '^' || b == '_':
		p.state = stateSosPmApcString
		return out
	case b >= 0x20 && b <= 0x2f:
		p.state = stateEscapeIntermediate
		return append(out, action{kind: actionCollect, b: b})
	case b >= 0x30 && b <= 0x7e:
		p.state = stateGround
		return append(out, action{kind: actionEscDispatch, final: b})
	default:
		return out
	}
}

func (p *Parser) stepEscapeIntermediate(b byte, out []action) []action {
	switch {
	case b < 0x20:
		return append(out, action{kind: actionExecute, b: b})
	case b >= 0x20 && b <= 0x2f:
		return append(out, action{kind: actionCollect, b: b})
	case b >= 0x30 && b <= 0x7e:
		p.state = stateGround
		return append(out, action{kind: actionEscDispatch, final: b})
	default:
		return out
	}
}

// --- CSI ---------------------------------------------------------------

func (p *Parser) stepCsiEntry(b byte, out []action) []action {
	switch {
	case b < 0x20:
		return append(out, action{kind: actionExecute, b: b})
	case b >= 0x30 && b <= 0x39, b == 0x3b:
		p.state = stateCsiParam
		return append(out, action{kind: actionParam, b: b})
	case b == 0x3a:
		p.state = stateCsiParam
		return append(out, action{kind: actionParam, b: b})
	case b >= 0x3c && b <= 0x3f:
		p.state = stateCsiParam
		return append(out, action{kind: actionCollect, b: b})
	case b >= 0x20 && b <= 0x2f:
		p.state = stateCsiIntermediate
		return append(out, action{kind: actionCollect, b: b})
	case b >= 0x40 && b <= 0x7e:
		p.state = stateGround
		return append(out, action{kind: actionCsiDispatch, final: b})
	default:
		return out
	}
}

func (p *Parser) stepCsiParam(b byte, out []action) []action {
	switch {
	case b < 0x20:
		return append(out, action{kind: actionExecute, b: b})
	case (b >= 0x30 && b <= 0x39) || b == 0x3b || b == 0x3a:
		return append(out, action{kind: actionParam, b: b})
	case b >= 0x3c && b <= 0x3f:
		p.state = stateCsiIgnore
		return out
	case b >= 0x20 && b <= 0x2f:
		p.state = stateCsiIntermediate
		return append(out, action{kind: actionCollect, b: b})
	case b >= 0x40 && b <= 0x7e:
		p.state = stateGround
		return append(out, action{kind: actionCsiDispatch, final: b})
	default:
		return out
	}
}

func (p *Parser) stepCsiIntermediate(b byte, out []action) []action {
	switch {
	case b < 0x20:
		return append(out, action{kind: actionExecute, b: b})
	case b >= 0x20 && b <= 0x2f:
		return append(out, action{kind: actionCollect, b: b})
	case b >= 0x30 && b <= 0x3f:
		p.state = stateCsiIgnore
		return out
	case b >= 0x40 && b <= 0x7e:
		p.state = stateGround
		return append(out, action{kind: actionCsiDispatch, final: b})
	default:
		return out
	}
}

func (p *Parser) stepCsiIgnore(b byte, out []action) []action {
	switch {
	case b < 0x20:
		return append(out, action{kind: actionExecute, b: b})
	case b >= 0x40 && b <= 0x7e:
		p.state = stateGround
		return out
	default:
		return out
	}
}

// --- DCS ---------------------------------------------------------------

func (p *Parser) stepDcsEntry(b byte, out []action) []action {
	switch {
	case b < 0x20:
		return out
	case (b >= 0x30 && b <= 0x39) || b == 0x3b || b == 0x3a:
		p.state = stateDcsParam
		return append(out, action{kind: actionParam, b: b})
	case b >= 0x3c && b <= 0x3f:
		p.state = stateDcsParam
		return append(out, action{kind: actionCollect, b: b})
	case b >= 0x20 && b <= 0x2f:
		p.state = stateDcsIntermediate
		return append(out, action{kind: actionCollect, b: b})
	case b >= 0x40 && b <= 0x7e:
		p.state = stateDcsPassthrough
		return append(out, action{kind: actionDcsHook, final: b})
	default:
		return out
	}
}

func (p *Parser) stepDcsParam(b byte, out []action) []action {
	switch {
	case b < 0x20:
		return out
	case (b >= 0x30 && b <= 0x39) || b == 0x3b || b == 0x3a:
		return append(out, action{kind: actionParam, b: b})
	case b >= 0x3c && b <= 0x3f:
		p.state = stateDcsIgnore
		return out
	case b >= 0x20 && b <= 0x2f:
		p.state = stateDcsIntermediate
		return append(out, action{kind: actionCollect, b: b})
	case b >= 0x40 && b <= 0x7e:
		p.state = stateDcsPassthrough
		return append(out, action{kind: actionDcsHook, final: b})
	default:
		return out
	}
}

func (p *Parser) stepDcsIntermediate(b byte, out []action) []action {
	switch {
	case b < 0x20:
		return out
	case b >= 0x20 && b <= 0x2f:
		return append(out, action{kind: actionCollect, b: b})
	case b >= 0x30 && b <= 0x3f:
		p.state = stateDcsIgnore
		return out
	case b >= 0x40 && b <= 0x7e:
		p.state = stateDcsPassthrough
		return append(out, action{kind: actionDcsHook, final: b})
	default:
		return out
	}
}

func (p *Parser) stepDcsPassthrough(b byte, out []action) []action {
	switch {
	case b == 0x1b:
		p.stringState = stateDcsPassthrough
		p.inString = true
		p.state = stateEscape
		return out
	case b < 0x20:
		return out
	default:
		return append(out, action{kind: actionDcsPut, b: b})
	}
}

func (p *Parser) stepDcsIgnore(b byte, out []action) []action {
	if b == 0x1b {
		p.stringState = stateDcsIgnore
		p.inString = true
		p.state = stateEscape
	}
	return out
}

// --- OSC / SOS/PM/APC ----------------------------------------------------

func (p *Parser) stepOscString(b byte, out []action) []action {
	switch {
	case b == 0x07: // BEL also terminates OSC, xterm convention
		p.state = stateGround
		return append(out, action{kind: actionOscEnd})
	case b == 0x1b:
		p.stringState = stateOscString
		p.inString = true
		p.state = stateEscape
		return out
	case b < 0x20:
		return out
	default:
		return append(out, action{kind: actionOscPut, b: b})
	}
}

func (p *Parser) stepSosPmApcString(b byte, out []action) []action {
	if b == 0x1b {
		p.stringState = stateSosPmApcString
		p.inString = true
		p.state = stateEscape
	}
	return out
}
