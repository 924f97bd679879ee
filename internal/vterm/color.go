package vterm

// ColorKind tags which representation a Color carries.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorIndexed
	ColorBright
	ColorRGB
)

// Color is a tagged union over the four ANSI/VT color representations.
type Color struct {
	Kind    ColorKind
	Indexed uint8 // valid when Kind == ColorIndexed (0..255) or ColorBright (0..7)
	R, G, B uint8 // valid when Kind == ColorRGB
}

// RGBColor builds a truecolor Color.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// IndexedColor builds a 256-color palette Color.
func IndexedColor(n uint8) Color {
	return Color{Kind: ColorIndexed, Indexed: n}
}

// BrightColor builds one of the 8 bright ANSI colors.
func BrightColor(n uint8) Color {
	return Color{Kind: ColorBright, Indexed: n & 7}
}

// UnderlineStyle selects the glyph used to render the underline decoration.
type UnderlineStyle uint8

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)

// Attr is a bitset of boolean text attributes (SGR toggles other than color/underline style).
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrFaint
	AttrItalic
	AttrBlink
	AttrInverse
	AttrInvisible
	AttrCrossedOut
	AttrOverline
	AttrFramed
	AttrEncircled
	AttrDoublyUnderlined // kept distinct from UnderlineDouble for SGR 21 vs SGR 4:2 round-trip
)

// Style is the pen applied to newly written cells: attributes plus the three
// color channels VT terminals support (foreground, background, underline).
type Style struct {
	Attrs          Attr
	UnderlineStyle UnderlineStyle
	Foreground     Color
	Background     Color
	Underline      Color
	Hyperlink      *Hyperlink
}

func (s Style) has(a Attr) bool { return s.Attrs&a != 0 }

func (s *Style) set(a Attr, on bool) {
	if on {
		s.Attrs |= a
	} else {
		s.Attrs &^= a
	}
}

// sameRendition reports whether two styles would render identically,
// ignoring the hyperlink reference (hyperlinks don't affect SGR output).
func sameRendition(a, b Style) bool {
	return a.Attrs == b.Attrs &&
		a.UnderlineStyle == b.UnderlineStyle &&
		a.Foreground == b.Foreground &&
		a.Background == b.Background &&
		a.Underline == b.Underline
}
