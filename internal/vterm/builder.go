package vterm

import (
	"strconv"
)

// BuildResult classifies the outcome of folding a dispatch action into a
// Command, per spec §4.B.
type BuildResult uint8

const (
	BuildOk BuildResult = iota
	BuildInvalid
	BuildUnsupported
)

// BuildEvent is what a single Step call may produce: either a printable
// rune bound for the screen buffer, or a completed Command, or neither
// (most actions just accumulate builder state).
type BuildEvent struct {
	HasPrint bool
	Print    rune

	HasCommand bool
	Command    Command
	// Extra holds additional Commands produced by a single dispatch (SGR
	// sequences with several attribute changes packed into one CSI m).
	Extra  []Command
	Result BuildResult
}

// Builder accumulates Parser actions into a Sequence and, on a dispatch
// action, looks up the matching Command per spec §4.B.
type Builder struct {
	seq Sequence

	paramDigits  []byte
	paramSubs    []int32
	collectingParam bool

	oscBuf []byte
	dcsBuf []byte
}

// NewBuilder returns an empty Builder ready to consume Parser actions.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Step(act action) BuildEvent {
	switch act.kind {
	case actionIgnore:
		return BuildEvent{}

	case actionPrint:
		return BuildEvent{HasPrint: true, Print: act.r}

	case actionExecute:
		return b.execute(act.b)

	case actionClear:
		b.seq.reset()
		b.paramDigits = b.paramDigits[:0]
		b.paramSubs = b.paramSubs[:0]
		b.collectingParam = false
		return BuildEvent{}

	case actionCollect:
		if act.b >= 0x3c && act.b <= 0x3f {
			b.seq.Marker = act.b
		} else {
			b.seq.Intermediates = append(b.seq.Intermediates, act.b)
		}
		return BuildEvent{}

	case actionParam:
		b.feedParamByte(act.b)
		return BuildEvent{}

	case actionEscDispatch:
		b.seq.Category = SeqEscape
		b.seq.Final = act.final
		return b.finishEscape()

	case actionCsiDispatch:
		b.seq.Category = SeqCSI
		b.seq.Final = act.final
		b.flushParam()
		return b.finishCSI()

	case actionOscStart:
		b.oscBuf = b.oscBuf[:0]
		return BuildEvent{}

	case actionOscPut:
		b.oscBuf = append(b.oscBuf, act.b)
		return BuildEvent{}

	case actionOscEnd:
		b.seq.Category = SeqOSC
		b.seq.Payload = b.oscBuf
		return b.finishOSC()

	case actionDcsHook:
		b.seq.Category = SeqDCS
		b.seq.Final = act.final
		b.flushParam()
		b.dcsBuf = b.dcsBuf[:0]
		return BuildEvent{}

	case actionDcsPut:
		b.dcsBuf = append(b.dcsBuf, act.b)
		return BuildEvent{}

	case actionDcsUnhook:
		b.seq.Payload = b.dcsBuf
		return b.finishDCS()
	}
	return BuildEvent{}
}

func (b *Builder) feedParamByte(c byte) {
	switch c {
	case ';':
		b.flushParam()
	case ':':
		b.flushSubParam()
	default:
		b.paramDigits = append(b.paramDigits, c)
	}
}

func (b *Builder) flushSubParam() {
	v := parseParamInt(b.paramDigits)
	b.paramSubs = append(b.paramSubs, v)
	b.paramDigits = b.paramDigits[:0]
}

func (b *Builder) flushParam() {
	v := parseParamInt(b.paramDigits)
	b.paramSubs = append(b.paramSubs, v)
	group := make([]int32, len(b.paramSubs))
	copy(group, b.paramSubs)
	b.seq.Params = append(b.seq.Params, group)
	b.paramDigits = b.paramDigits[:0]
	b.paramSubs = b.paramSubs[:0]
}

func parseParamInt(digits []byte) int32 {
	if len(digits) == 0 {
		return -1 // sentinel: parameter omitted, caller applies its default
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil || n < 0 {
		return -1
	}
	if n > 1<<30 {
		n = 1 << 30
	}
	return int32(n)
}

// execute turns a C0/C1 control byte into its Command or print effect
// directly; these never go through the Sequence accumulator.
func (b *Builder) execute(c byte) BuildEvent {
	switch c {
	case '\r':
		return cmdEvent(CarriageReturn{})
	case '\n':
		return cmdEvent(Index{})
	case '\t':
		return cmdEvent(HorizontalTab{N: 1})
	case '\b':
		return cmdEvent(Backspace{})
	case 0x07:
		return cmdEvent(Bell{})
	case 0x0e: // SO, shift out to G1
		return cmdEvent(InvokeCharset{Slot: G1})
	case 0x0f: // SI, shift in to G0
		return cmdEvent(InvokeCharset{Slot: G0})
	case 0x8e: // SS2
		return cmdEvent(SingleShift{Slot: G2})
	case 0x8f: // SS3
		return cmdEvent(SingleShift{Slot: G3})
	default:
		return BuildEvent{}
	}
}

func cmdEvent(c Command) BuildEvent {
	return BuildEvent{HasCommand: true, Command: c, Result: BuildOk}
}

func invalidEvent() BuildEvent {
	return BuildEvent{HasCommand: true, Result: BuildInvalid}
}

func unsupportedEvent() BuildEvent {
	return BuildEvent{HasCommand: true, Result: BuildUnsupported}
}

// p returns the default-applied value of top-level parameter i (negative
// sentinel from an omitted field becomes def).
func (s *Sequence) p(i int, def int32) int32 {
	if i >= len(s.Params) || len(s.Params[i]) == 0 {
		return def
	}
	v := s.Params[i][0]
	if v < 0 {
		return def
	}
	return v
}

func (s *Sequence) sub(i, j int, def int32) int32 {
	if i >= len(s.Params) || j >= len(s.Params[i]) {
		return def
	}
	v := s.Params[i][j]
	if v < 0 {
		return def
	}
	return v
}

func (s *Sequence) count() int {
	return len(s.Params)
}
