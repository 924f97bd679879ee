package vterm

// Grid is one logical screen (primary or alternate): its visible lines
// plus per-buffer cursor, margins, tab stops and charset state. Only the
// primary grid is ever paired with a Scrollback.
type Grid struct {
	Lines   []Line
	Cursor  Cursor
	Margins Margins
	Tabs    TabStops
}

func newGrid(columns, rows int, pen Style) Grid {
	lines := make([]Line, rows)
	for i := range lines {
		lines[i] = makeBlankLine(columns, pen)
	}
	return Grid{
		Lines:   lines,
		Cursor:  newCursor(),
		Margins: defaultMargins(columns, rows),
		Tabs:    newTabStops(columns),
	}
}

// ScreenBuffer owns the primary and alternate Grid, the primary's
// scrollback, and the shared hyperlink table, and implements the
// operations spec §4.D describes one-to-one with Command variants.
type ScreenBuffer struct {
	columns, rows int
	maxHistory    int

	primary   Grid
	alternate Grid
	onAlt     bool

	scrollback *Scrollback
	hyperlinks *hyperlinkTable

	modes *Modes
}

func newScreenBuffer(columns, rows, maxHistory int, modes *Modes) *ScreenBuffer {
	b := &ScreenBuffer{
		columns:    columns,
		rows:       rows,
		maxHistory: maxHistory,
		primary:    newGrid(columns, rows, Style{}),
		alternate:  newGrid(columns, rows, Style{}),
		scrollback: newScrollback(maxHistory),
		hyperlinks: newHyperlinkTable(),
		modes:      modes,
	}
	return b
}

func (b *ScreenBuffer) active() *Grid {
	if b.onAlt {
		return &b.alternate
	}
	return &b.primary
}

func (b *ScreenBuffer) cursor() *Cursor {
	return &b.active().Cursor
}

// --- writing ---------------------------------------------------------------

// putChar writes r at the cursor, applying the active charset
// translation first, then handling auto-wrap, insert mode, and
// wide/combining glyphs.
func (b *ScreenBuffer) putChar(r rune) {
	g := b.active()
	cur := &g.Cursor

	if runeWidth(r) == 0 {
		b.attachCombiningAtCursor(r)
		return
	}
	r = cur.Charset.translate(r)
	w := runeWidth(r)

	if cur.wrapPending {
		if b.modes.isSet(ModeAutoWrap) {
			b.lineFeedWithinMargins()
			cur.Col = g.Margins.Left
		}
		cur.wrapPending = false
	}

	if cur.Col+w-1 > g.Margins.Right {
		if b.modes.isSet(ModeAutoWrap) {
			b.lineFeedWithinMargins()
			cur.Col = g.Margins.Left
		} else {
			cur.Col = g.Margins.Right - w + 1
			if cur.Col < g.Margins.Left {
				cur.Col = g.Margins.Left
			}
		}
	}

	row := cur.Row - 1
	if row < 0 || row >= len(g.Lines) {
		return
	}
	line := g.Lines[row].Cells

	if b.modes.isSet(ModeInsert) {
		b.shiftRightWithinMargins(line, cur.Col-1, w)
	}

	col := cur.Col - 1
	cell := Cell{Rune: r, Width: uint8(w), Style: cur.Pen}
	if cur.Pen.Hyperlink != nil {
		b.hyperlinks.acquire(cur.Pen.Hyperlink)
	}
	b.releaseCellHyperlink(&line[col])
	line[col] = cell
	if w == 2 && col+1 < len(line) {
		b.releaseCellHyperlink(&line[col+1])
		line[col+1] = Cell{Width: 0, Style: cur.Pen}
	}

	if cur.Col+w-1 >= g.Margins.Right {
		cur.Col = g.Margins.Right
		cur.wrapPending = true
	} else {
		cur.Col += w
	}
}

func (b *ScreenBuffer) attachCombiningAtCursor(r rune) {
	g := b.active()
	cur := &g.Cursor
	row := cur.Row - 1
	col := cur.Col - 2
	if row < 0 || row >= len(g.Lines) || col < 0 || col >= len(g.Lines[row].Cells) {
		return
	}
	g.Lines[row].Cells[col].attachCombining(r)
}

func (b *ScreenBuffer) releaseCellHyperlink(c *Cell) {
	if c.Style.Hyperlink != nil {
		b.hyperlinks.release(c.Style.Hyperlink)
	}
}

// shiftRightWithinMargins makes room for width cells at col by shifting
// everything from col to the right margin rightward, dropping overflow.
func (b *ScreenBuffer) shiftRightWithinMargins(line []Cell, col, width int) {
	g := b.active()
	right := g.Margins.Right - 1
	for i := right; i >= col+width; i-- {
		b.releaseCellHyperlink(&line[i])
		line[i] = line[i-width]
	}
	normalizeLine(line)
}

// lineFeedWithinMargins advances the cursor down one row, scrolling the
// scroll region (and pushing to scrollback if primary and margins equal
// full screen) if already at the bottom margin.
func (b *ScreenBuffer) lineFeedWithinMargins() {
	g := b.active()
	cur := &g.Cursor
	if cur.Row == g.Margins.Bottom {
		b.scrollUp(1)
		return
	}
	if cur.Row < g.rows() {
		cur.Row++
	}
}

func (g *Grid) rows() int { return len(g.Lines) }

// --- cursor motion -------------------------------------------------------

func (b *ScreenBuffer) moveCursorTo(row, col int) {
	g := b.active()
	cur := &g.Cursor
	if cur.Origin {
		row += g.Margins.Top - 1
		col += g.Margins.Left - 1
		cur.Row = clampInt(row, g.Margins.Top, g.Margins.Bottom)
		cur.Col = clampInt(col, g.Margins.Left, g.Margins.Right)
	} else {
		cur.Row = clampInt(row, 1, len(g.Lines))
		cur.Col = clampInt(col, 1, b.columns)
	}
	cur.wrapPending = false
}

func (b *ScreenBuffer) moveCursorRelative(dRow, dCol int) {
	g := b.active()
	cur := &g.Cursor
	top, bottom := 1, len(g.Lines)
	if cur.Origin {
		top, bottom = g.Margins.Top, g.Margins.Bottom
	}
	cur.Row = clampInt(cur.Row+dRow, top, bottom)
	cur.Col = clampInt(cur.Col+dCol, 1, b.columns)
	if dCol != 0 {
		cur.wrapPending = false
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (b *ScreenBuffer) carriageReturn() {
	g := b.active()
	g.Cursor.Col = g.Margins.Left
	g.Cursor.wrapPending = false
}

func (b *ScreenBuffer) index() {
	b.lineFeedWithinMargins()
}

func (b *ScreenBuffer) reverseIndex() {
	g := b.active()
	cur := &g.Cursor
	if cur.Row == g.Margins.Top {
		b.scrollDown(1)
		return
	}
	if cur.Row > 1 {
		cur.Row--
	}
}

func (b *ScreenBuffer) nextLine() {
	b.carriageReturn()
	b.index()
}

func (b *ScreenBuffer) tab(n int) {
	g := b.active()
	for i := 0; i < n; i++ {
		g.Cursor.Col = g.Tabs.next(g.Cursor.Col-1) + 1
	}
}

func (b *ScreenBuffer) backwardsTab(n int) {
	g := b.active()
	for i := 0; i < n; i++ {
		g.Cursor.Col = g.Tabs.prev(g.Cursor.Col-1) + 1
	}
}

func (b *ScreenBuffer) backspace() {
	g := b.active()
	if g.Cursor.Col > g.Margins.Left {
		g.Cursor.Col--
	}
	g.Cursor.wrapPending = false
}

// --- scrolling -----------------------------------------------------------

func (b *ScreenBuffer) scrollUp(n int) {
	g := b.active()
	top, bottom := g.Margins.Top-1, g.Margins.Bottom-1
	pushHistory := !b.onAlt && g.Margins.fullWidth(b.columns) && g.Margins.fullHeight(len(g.Lines))
	for s := 0; s < n; s++ {
		if top > bottom {
			return
		}
		if pushHistory {
			b.releaseLineHyperlinks(g.Lines[top])
			b.scrollback.push(g.Lines[top])
		} else {
			b.releaseLineHyperlinks(g.Lines[top])
		}
		if g.Margins.fullWidth(b.columns) {
			copy(g.Lines[top:bottom], g.Lines[top+1:bottom+1])
			g.Lines[bottom] = makeBlankLine(b.columns, Style{})
		} else {
			b.scrollRegionVertical(g, top, bottom, 1)
		}
	}
}

func (b *ScreenBuffer) scrollDown(n int) {
	g := b.active()
	top, bottom := g.Margins.Top-1, g.Margins.Bottom-1
	for s := 0; s < n; s++ {
		if top > bottom {
			return
		}
		b.releaseLineHyperlinks(g.Lines[bottom])
		if g.Margins.fullWidth(b.columns) {
			copy(g.Lines[top+1:bottom+1], g.Lines[top:bottom])
			g.Lines[top] = makeBlankLine(b.columns, Style{})
		} else {
			b.scrollRegionVertical(g, top, bottom, -1)
		}
	}
}

// scrollRegionVertical scrolls only the [Margins.Left,Margins.Right]
// column sub-rectangle of rows [top,bottom] (0-based, inclusive) by dir
// (1 = up, -1 = down), leaving columns outside the margin untouched.
func (b *ScreenBuffer) scrollRegionVertical(g *Grid, top, bottom, dir int) {
	left, right := g.Margins.Left-1, g.Margins.Right-1
	width := right - left + 1
	blank := make([]Cell, width)
	for i := range blank {
		blank[i] = blankCellWith(Style{})
	}
	if dir > 0 {
		for r := top; r < bottom; r++ {
			copy(g.Lines[r].Cells[left:right+1], g.Lines[r+1].Cells[left:right+1])
		}
		copy(g.Lines[bottom].Cells[left:right+1], blank)
	} else {
		for r := bottom; r > top; r-- {
			copy(g.Lines[r].Cells[left:right+1], g.Lines[r-1].Cells[left:right+1])
		}
		copy(g.Lines[top].Cells[left:right+1], blank)
	}
	normalizeLine(g.Lines[top].Cells)
	normalizeLine(g.Lines[bottom].Cells)
}

func (b *ScreenBuffer) releaseLineHyperlinks(l Line) {
	for i := range l.Cells {
		b.releaseCellHyperlink(&l.Cells[i])
	}
}

// --- erasing ---------------------------------------------------------------

func (b *ScreenBuffer) eraseDisplay(mode EraseDisplayMode) {
	g := b.active()
	cur := g.Cursor
	switch mode {
	case EraseBelow:
		b.eraseLineFrom(cur.Row-1, cur.Col-1, b.columns)
		for r := cur.Row; r < len(g.Lines); r++ {
			b.eraseLineFrom(r, 0, b.columns)
		}
	case EraseAbove:
		for r := 0; r < cur.Row-1; r++ {
			b.eraseLineFrom(r, 0, b.columns)
		}
		b.eraseLineFrom(cur.Row-1, 0, cur.Col)
	case EraseAll:
		for r := range g.Lines {
			b.eraseLineFrom(r, 0, b.columns)
		}
	case EraseScrollback:
		if !b.onAlt {
			b.releaseScrollbackHyperlinks()
			b.scrollback = newScrollback(b.maxHistory)
		}
	}
}

func (b *ScreenBuffer) releaseScrollbackHyperlinks() {
	for i := 0; i < b.scrollback.len(); i++ {
		b.releaseLineHyperlinks(b.scrollback.at(i))
	}
}

func (b *ScreenBuffer) eraseLine(mode EraseLineMode) {
	g := b.active()
	cur := g.Cursor
	row := cur.Row - 1
	switch mode {
	case EraseLineRight:
		b.eraseLineFrom(row, cur.Col-1, b.columns)
	case EraseLineLeft:
		b.eraseLineFrom(row, 0, cur.Col)
	case EraseLineAll:
		b.eraseLineFrom(row, 0, b.columns)
	}
}

func (b *ScreenBuffer) eraseLineFrom(row, from, to int) {
	g := b.active()
	if row < 0 || row >= len(g.Lines) {
		return
	}
	pen := g.Cursor.Pen
	cells := g.Lines[row].Cells
	if to > len(cells) {
		to = len(cells)
	}
	for c := from; c < to; c++ {
		b.releaseCellHyperlink(&cells[c])
		cells[c] = blankCellWith(pen)
	}
	normalizeLine(cells)
}

func (b *ScreenBuffer) eraseCharacters(n int) {
	g := b.active()
	row := g.Cursor.Row - 1
	from := g.Cursor.Col - 1
	b.eraseLineFrom(row, from, from+n)
}

// --- line/column/character editing ------------------------------------------

func (b *ScreenBuffer) insertLines(n int) {
	g := b.active()
	cur := g.Cursor
	if cur.Row < g.Margins.Top || cur.Row > g.Margins.Bottom {
		return
	}
	top, bottom := cur.Row-1, g.Margins.Bottom-1
	for s := 0; s < n && top <= bottom; s++ {
		b.releaseLineHyperlinks(g.Lines[bottom])
		copy(g.Lines[top+1:bottom+1], g.Lines[top:bottom])
		g.Lines[top] = makeBlankLine(b.columns, g.Cursor.Pen)
	}
}

func (b *ScreenBuffer) deleteLines(n int) {
	g := b.active()
	cur := g.Cursor
	if cur.Row < g.Margins.Top || cur.Row > g.Margins.Bottom {
		return
	}
	top, bottom := cur.Row-1, g.Margins.Bottom-1
	for s := 0; s < n && top <= bottom; s++ {
		b.releaseLineHyperlinks(g.Lines[top])
		copy(g.Lines[top:bottom], g.Lines[top+1:bottom+1])
		g.Lines[bottom] = makeBlankLine(b.columns, g.Cursor.Pen)
	}
}

func (b *ScreenBuffer) insertColumns(n int) {
	g := b.active()
	col := g.Cursor.Col - 1
	for r := g.Margins.Top - 1; r < g.Margins.Bottom; r++ {
		b.shiftColumnsRight(g.Lines[r].Cells, col, g.Margins.Right-1, n)
	}
}

func (b *ScreenBuffer) deleteColumns(n int) {
	g := b.active()
	col := g.Cursor.Col - 1
	for r := g.Margins.Top - 1; r < g.Margins.Bottom; r++ {
		b.shiftColumnsLeft(g.Lines[r].Cells, col, g.Margins.Right-1, n)
	}
}

func (b *ScreenBuffer) shiftColumnsRight(line []Cell, col, right, n int) {
	for i := right; i >= col+n; i-- {
		b.releaseCellHyperlink(&line[i])
		line[i] = line[i-n]
	}
	pen := Style{}
	for i := col; i < col+n && i <= right; i++ {
		b.releaseCellHyperlink(&line[i])
		line[i] = blankCellWith(pen)
	}
	normalizeLine(line)
}

func (b *ScreenBuffer) shiftColumnsLeft(line []Cell, col, right, n int) {
	for i := col; i <= right-n; i++ {
		b.releaseCellHyperlink(&line[i])
		line[i] = line[i+n]
	}
	pen := Style{}
	for i := right - n + 1; i <= right; i++ {
		if i < col {
			continue
		}
		b.releaseCellHyperlink(&line[i])
		line[i] = blankCellWith(pen)
	}
	normalizeLine(line)
}

func (b *ScreenBuffer) insertCharacters(n int) {
	g := b.active()
	row := g.Cursor.Row - 1
	col := g.Cursor.Col - 1
	b.shiftColumnsRight(g.Lines[row].Cells, col, g.Margins.Right-1, n)
}

func (b *ScreenBuffer) deleteCharacters(n int) {
	g := b.active()
	row := g.Cursor.Row - 1
	col := g.Cursor.Col - 1
	b.shiftColumnsLeft(g.Lines[row].Cells, col, g.Margins.Right-1, n)
}

func (b *ScreenBuffer) backIndex() {
	g := b.active()
	if g.Cursor.Col > g.Margins.Left {
		g.Cursor.Col--
		return
	}
	for r := g.Margins.Top - 1; r < g.Margins.Bottom; r++ {
		b.shiftColumnsRight(g.Lines[r].Cells, g.Margins.Left-1, g.Margins.Right-1, 1)
	}
}

func (b *ScreenBuffer) forwardIndex() {
	g := b.active()
	if g.Cursor.Col < g.Margins.Right {
		g.Cursor.Col++
		return
	}
	for r := g.Margins.Top - 1; r < g.Margins.Bottom; r++ {
		b.shiftColumnsLeft(g.Lines[r].Cells, g.Margins.Left-1, g.Margins.Right-1, 1)
	}
}

func (b *ScreenBuffer) screenAlignmentPattern() {
	g := b.active()
	g.Margins = defaultMargins(b.columns, len(g.Lines))
	for r := range g.Lines {
		cells := g.Lines[r].Cells
		for c := range cells {
			b.releaseCellHyperlink(&cells[c])
			cells[c] = Cell{Rune: 'E', Width: 1}
		}
	}
}

// --- margins, tabs ---------------------------------------------------------

func (b *ScreenBuffer) setTopBottomMargin(top, bottom int) {
	g := b.active()
	if bottom == 0 || bottom > len(g.Lines) {
		bottom = len(g.Lines)
	}
	if top < 1 {
		top = 1
	}
	if top >= bottom {
		return
	}
	g.Margins.Top, g.Margins.Bottom = top, bottom
	b.moveCursorTo(1, 1)
}

func (b *ScreenBuffer) setLeftRightMargin(left, right int) {
	if !b.modes.isSet(ModeLeftRightMargin) {
		return
	}
	g := b.active()
	if right == 0 || right > b.columns {
		right = b.columns
	}
	if left < 1 {
		left = 1
	}
	if left >= right {
		return
	}
	g.Margins.Left, g.Margins.Right = left, right
	b.moveCursorTo(1, 1)
}

func (b *ScreenBuffer) horizontalTabSet() {
	g := b.active()
	g.Tabs.setStop(g.Cursor.Col - 1)
}

func (b *ScreenBuffer) clearTabStop(mode ClearTabStopMode) {
	g := b.active()
	if mode == ClearTabStopAll {
		g.Tabs.clearAll()
		return
	}
	g.Tabs.clearStop(g.Cursor.Col - 1)
}

// --- cursor save/restore, alt-screen, resize ---------------------------------

func (b *ScreenBuffer) saveCursor() {
	b.cursor().save()
}

func (b *ScreenBuffer) restoreCursor() {
	b.cursor().restore()
}

func (b *ScreenBuffer) switchToAlternate(clear, saveCursor bool) {
	if b.onAlt {
		return
	}
	if saveCursor {
		b.primary.Cursor.save()
	}
	b.onAlt = true
	if clear {
		b.alternate = newGrid(b.columns, len(b.primary.Lines), Style{})
	}
}

func (b *ScreenBuffer) switchToPrimary(restoreCursor bool) {
	if !b.onAlt {
		return
	}
	b.onAlt = false
	if restoreCursor {
		b.primary.Cursor.restore()
	}
}

func (b *ScreenBuffer) softReset() {
	g := b.active()
	g.Cursor.Pen = Style{}
	g.Cursor.Origin = false
	g.Cursor.Charset = newCharsetState()
	g.Margins = defaultMargins(b.columns, len(g.Lines))
	b.modes.set(ModeAutoWrap, true)
	b.modes.set(ModeCursorVisible, true)
	b.modes.set(ModeInsert, false)
}

func (b *ScreenBuffer) hardReset() {
	pen := Style{}
	b.primary = newGrid(b.columns, b.rows, pen)
	b.alternate = newGrid(b.columns, b.rows, pen)
	b.onAlt = false
	b.scrollback = newScrollback(b.maxHistory)
	b.hyperlinks = newHyperlinkTable()
	*b.modes = newModes()
}

// resize adjusts both grids to the new dimensions. Every line is
// truncated or padded to the new width on its own, whatever its
// Wrappable flag — full paragraph reflow across line boundaries is not
// attempted.
func (b *ScreenBuffer) resize(columns, rows int) {
	b.primary = resizeGrid(b.primary, columns, rows)
	b.alternate = resizeGrid(b.alternate, columns, rows)
	b.scrollback.reflow(columns, Style{})
	b.columns, b.rows = columns, rows
}

func resizeGrid(g Grid, columns, rows int) Grid {
	pen := Style{}
	lines := make([]Line, rows)
	n := len(g.Lines)
	if n > rows {
		n = rows
	}
	for i := 0; i < n; i++ {
		lines[i] = g.Lines[i].resized(columns, pen)
	}
	for i := n; i < rows; i++ {
		lines[i] = makeBlankLine(columns, pen)
	}
	g.Lines = lines
	g.Tabs.resize(columns)
	g.Margins = defaultMargins(columns, rows)
	g.Cursor.Row = clampInt(g.Cursor.Row, 1, rows)
	g.Cursor.Col = clampInt(g.Cursor.Col, 1, columns)
	return g
}

// findMarker searches the merged history+screen row index (0 == oldest
// scrollback line) for the nearest marked line strictly after/before from,
// per spec §4.D.
func (b *ScreenBuffer) findMarker(from int, forward bool) (int, bool) {
	total := b.scrollback.len() + len(b.primary.Lines)
	lineAt := func(i int) Line {
		if i < b.scrollback.len() {
			return b.scrollback.at(i)
		}
		return b.primary.Lines[i-b.scrollback.len()]
	}
	if forward {
		for i := from + 1; i < total; i++ {
			if lineAt(i).Marked {
				return i, true
			}
		}
	} else {
		for i := from - 1; i >= 0; i-- {
			if lineAt(i).Marked {
				return i, true
			}
		}
	}
	return 0, false
}

func (b *ScreenBuffer) setMark() {
	if b.onAlt {
		return
	}
	row := b.primary.Cursor.Row - 1
	if row >= 0 && row < len(b.primary.Lines) {
		b.primary.Lines[row].Marked = true
	}
}
