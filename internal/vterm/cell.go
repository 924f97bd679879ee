package vterm

import (
	"github.com/mattn/go-runewidth"
)

// Cell is a single grid cell: a base codepoint plus any combining marks
// attached to it, a display width, and the style in effect when it was
// written. Width-0 cells are continuations of the width-2 base immediately
// to their left and carry no rune of their own.
type Cell struct {
	Rune      rune
	Combining []rune
	Width     uint8
	Style     Style
}

// DefaultCell returns a blank cell with the terminal's default pen.
func DefaultCell() Cell {
	return Cell{Rune: ' ', Width: 1}
}

// blankCellWith returns a blank cell carrying pen (used by erase operations,
// which paint the current SGR background/attributes into cleared cells).
func blankCellWith(pen Style) Cell {
	return Cell{Rune: ' ', Width: 1, Style: pen}
}

// runeWidth computes the display width of r: 0 for combining marks and most
// zero-width codepoints, 2 for East-Asian wide and emoji, 1 otherwise.
func runeWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// attachCombining appends a zero-width combining mark to the cell's cluster.
func (c *Cell) attachCombining(r rune) {
	c.Combining = append(c.Combining, r)
}

// Line is an ordered row of cells with logical width equal to the screen's
// current column count. Wrappable is set on every line makeBlankLine
// creates and is not updated by writes; resize and selection do not
// read it.
// Marked is the per-line boolean flag set by SetMark / searched by the
// find-marker commands.
type Line struct {
	Cells     []Cell
	Wrappable bool
	Marked    bool
}

// makeBlankLine returns a Line of width columns, each cell blank with pen.
func makeBlankLine(columns int, pen Style) Line {
	cells := make([]Cell, columns)
	for i := range cells {
		cells[i] = blankCellWith(pen)
	}
	return Line{Cells: cells, Wrappable: true}
}

// clone deep-copies a line's cell slice (cells themselves are value types
// except for the Hyperlink pointer, which is intentionally shared).
func (l Line) clone() Line {
	cells := make([]Cell, len(l.Cells))
	copy(cells, l.Cells)
	return Line{Cells: cells, Wrappable: l.Wrappable, Marked: l.Marked}
}

// resized returns a copy of l truncated or padded to columns, preserving
// existing content left-to-right.
func (l Line) resized(columns int, pen Style) Line {
	out := makeBlankLine(columns, pen)
	n := len(l.Cells)
	if n > columns {
		n = columns
	}
	copy(out.Cells, l.Cells[:n])
	out.Wrappable = l.Wrappable
	out.Marked = l.Marked
	normalizeLine(out.Cells)
	return out
}

// plainText renders a line's visible runes without trailing padding,
// skipping width-0 continuation cells. Used by search and selection text
// extraction.
func (l Line) plainText() string {
	out := make([]rune, 0, len(l.Cells))
	last := -1
	for _, c := range l.Cells {
		if c.Width == 0 {
			continue
		}
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		out = append(out, r)
		out = append(out, c.Combining...)
		if r != ' ' {
			last = len(out) - 1
		}
	}
	if last < 0 {
		return ""
	}
	return string(out[:last+1])
}

// normalizeLine repairs wide/continuation-cell consistency after an
// in-place edit (insert/delete/erase) that may have split a wide glyph
// from its continuation, or vice versa.
func normalizeLine(line []Cell) {
	for i := range line {
		switch line[i].Width {
		case 0:
			if i == 0 || line[i-1].Width != 2 {
				line[i] = DefaultCell()
			}
		case 2:
			if i+1 >= len(line) || line[i+1].Width != 0 {
				line[i] = DefaultCell()
			}
		}
	}
}
