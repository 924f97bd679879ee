package vterm

// CharsetSlot identifies one of the four G0-G3 character set registers.
type CharsetSlot uint8

const (
	G0 CharsetSlot = iota
	G1
	G2
	G3
)

// CharsetID names a designatable character set (the final byte of the
// SCS escape sequence that selects it).
type CharsetID byte

const (
	CharsetASCII        CharsetID = 'B'
	CharsetDECSpecial    CharsetID = '0' // DEC Special Graphics (line-drawing)
	CharsetUK            CharsetID = 'A'
	CharsetDutch         CharsetID = '4'
	CharsetFinnish       CharsetID = 'C'
	CharsetFrench        CharsetID = 'R'
	CharsetFrenchCanadian CharsetID = 'Q'
	CharsetGerman        CharsetID = 'K'
	CharsetItalian       CharsetID = 'Y'
	CharsetNorwegian     CharsetID = 'E'
	CharsetSpanish       CharsetID = 'Z'
	CharsetSwedish       CharsetID = 'H'
	CharsetSwiss         CharsetID = '='
)

// decSpecialGraphics maps ASCII 0x60-0x7e to DEC line-drawing glyphs, used
// when G0/G1 is designated CharsetDECSpecial and GL/GR invoke it.
var decSpecialGraphics = map[byte]rune{
	'`': '◆', // diamond
	'a': '▒', // checkerboard
	'b': '␉', // HT symbol
	'c': '␌', // FF symbol
	'd': '␍', // CR symbol
	'e': '␊', // LF symbol
	'f': '°', // degree
	'g': '±', // plus/minus
	'h': '␤', // NL symbol
	'i': '␋', // VT symbol
	'j': '┘', // box lower-right
	'k': '┐', // box upper-right
	'l': '┌', // box upper-left
	'm': '└', // box lower-left
	'n': '┼', // box cross
	'o': '⎺', // scan line 1
	'p': '⎻', // scan line 3
	'q': '─', // horizontal line
	'r': '⎼', // scan line 7
	's': '⎽', // scan line 9
	't': '├', // box tee-right
	'u': '┤', // box tee-left
	'v': '┴', // box tee-up
	'w': '┬', // box tee-down
	'x': '│', // vertical line
	'y': '≤', // less-equal
	'z': '≥', // greater-equal
	'{': 'π', // pi
	'|': '≠', // not-equal
	'}': '£', // pound sterling
	'~': '·', // middle dot
}

// translateCharset maps r through the given charset's substitution table.
// Only DEC Special Graphics substitutes; all other supported sets are
// 7-bit national variants layered over ASCII punctuation, which this
// emulator core passes through untranslated (a host wanting strict
// national-charset fidelity can extend this table).
func translateCharset(id CharsetID, r rune) rune {
	if id == CharsetDECSpecial && r >= 0x60 && r <= 0x7e {
		if mapped, ok := decSpecialGraphics[byte(r)]; ok {
			return mapped
		}
	}
	return r
}

// CharsetState tracks the four G0-G3 designations and which of G0/G1 is
// currently invoked into GL by SI/SO (and, with GR invocations, G2/G3 via
// LS2/LS3 — tracked identically here since this core only emulates GL).
type CharsetState struct {
	slots    [4]CharsetID
	invoked  CharsetSlot
	singleShift CharsetSlot
	hasSingleShift bool
}

// newCharsetState returns the power-on default: ASCII in all four slots,
// G0 invoked.
func newCharsetState() CharsetState {
	return CharsetState{slots: [4]CharsetID{CharsetASCII, CharsetASCII, CharsetASCII, CharsetASCII}}
}

func (c *CharsetState) designate(slot CharsetSlot, id CharsetID) {
	c.slots[slot] = id
}

func (c *CharsetState) invoke(slot CharsetSlot) {
	c.invoked = slot
}

// singleShiftNext arms a one-character invocation of slot (SS2/SS3),
// consumed by translate on the next printed character.
func (c *CharsetState) singleShiftNext(slot CharsetSlot) {
	c.singleShift = slot
	c.hasSingleShift = true
}

// translate applies the currently invoked charset (or an armed single
// shift) to r, then clears any pending single shift.
func (c *CharsetState) translate(r rune) rune {
	slot := c.invoked
	if c.hasSingleShift {
		slot = c.singleShift
		c.hasSingleShift = false
	}
	return translateCharset(c.slots[slot], r)
}
