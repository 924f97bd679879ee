package vterm

import (
	"sync"
)

const defaultMaxScrollback = 10000

// Screen composes the Buffer, Modes, Parser, Builder and a pluggable
// Executor, and is the package's main entry point: feed it bytes, read
// its grid, resize it. A sync.RWMutex guards the grid against concurrent
// viewport reads while command application writes to it, per spec §5 —
// writes dominate, and Go's RWMutex already favors a waiting writer over
// new readers in practice, so no specialized rwlock was substituted (see
// DESIGN.md).
type Screen struct {
	mu sync.RWMutex

	buffer *ScreenBuffer
	modes  Modes

	parser  *Parser
	builder *Builder

	executor Executor

	events ScreenEvents

	selection Selection

	viewportOffset int
	autoScroll     bool

	currentTitle string
	titleStack   []string

	actionBuf []action
}

// ScreenOptions configures New.
type ScreenOptions struct {
	Columns, Rows int
	MaxScrollback int
	Events        ScreenEvents
	Synchronized  bool
}

// New creates a Screen of the given size. If opts.Events is nil,
// NoopScreenEvents is used.
func New(opts ScreenOptions) *Screen {
	if opts.Columns <= 0 {
		opts.Columns = 80
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	if opts.MaxScrollback == 0 {
		opts.MaxScrollback = defaultMaxScrollback
	}
	if opts.MaxScrollback < 0 {
		opts.MaxScrollback = 0
	}
	ev := opts.Events
	if ev == nil {
		ev = NoopScreenEvents{}
	}
	modes := newModes()
	s := &Screen{
		modes:      modes,
		parser:     NewParser(),
		builder:    NewBuilder(),
		events:     ev,
		autoScroll: true,
	}
	s.buffer = newScreenBuffer(opts.Columns, opts.Rows, opts.MaxScrollback, &s.modes)
	if opts.Synchronized {
		s.executor = NewSynchronizedExecutor(0)
	} else {
		s.executor = DirectExecutor{}
	}
	return s
}

// Write feeds host-program bytes through the Parser and Builder and
// applies the resulting Commands/text, under the write lock.
func (s *Screen) Write(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range data {
		s.actionBuf = s.actionBuf[:0]
		s.actionBuf = s.parser.Feed(b, s.actionBuf)
		for _, act := range s.actionBuf {
			ev := s.builder.Step(act)
			if ev.HasPrint {
				s.dispatch(PrintRune{R: ev.Print})
				continue
			}
			if ev.HasCommand {
				if ev.Result != BuildOk {
					continue
				}
				s.dispatch(ev.Command)
				for _, extra := range ev.Extra {
					s.dispatch(extra)
				}
			}
		}
	}
}

func (s *Screen) dispatch(cmd Command) {
	if isDrawingCommand(cmd) && s.autoScroll {
		s.viewportOffset = 0
	}
	s.executor.Apply(s, cmd)
}

// Lock/Unlock/RLock/RUnlock expose the scoped acquisition spec §5
// requires so a renderer can obtain a consistent snapshot of the visible
// region.
func (s *Screen) RLock()   { s.mu.RLock() }
func (s *Screen) RUnlock() { s.mu.RUnlock() }
func (s *Screen) Lock()    { s.mu.Lock() }
func (s *Screen) Unlock()  { s.mu.Unlock() }

// Resize changes the screen's dimensions, truncating or padding each
// line to the new width (see ScreenBuffer.resize).
func (s *Screen) Resize(columns, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer.resize(columns, rows)
}

// Close releases the executor's background resources (flush timer).
func (s *Screen) Close() {
	s.executor.Close()
	s.events.OnClosed()
}

// Columns and Rows report the current grid size.
func (s *Screen) Columns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.columnsLocked()
}

func (s *Screen) Rows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rowsLocked()
}

func (s *Screen) columnsLocked() int { return s.buffer.columns }
func (s *Screen) rowsLocked() int    { return s.buffer.rows }

// CursorPosition returns the active buffer's cursor, 1-based.
func (s *Screen) CursorPosition() (row, col int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursorPositionLocked()
}

func (s *Screen) cursorPositionLocked() (row, col int) {
	cur := s.buffer.active().Cursor
	return cur.Row, cur.Col
}

// VisibleLine returns a copy of row i (0-based) of the currently
// scrolled-to viewport: history lines when the viewport is scrolled
// back, otherwise the live grid.
func (s *Screen) VisibleLine(i int) Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibleLineLocked(i).clone()
}

// ColumnsLocked, RowsLocked, CursorPositionLocked and VisibleLineLocked
// are the unlocked counterparts of Columns, Rows, CursorPosition and
// VisibleLine. A caller must hold a read (or write) lock via RLock/Lock
// before calling any of these — they exist so a renderer that needs a
// consistent multi-field snapshot can take the lock once instead of
// once per field, which would otherwise let a pending writer (the PTY
// reader's Screen.Write) interleave between reads or, worse, deadlock
// against RWMutex's writer-priority when called while already holding
// a read lock.
func (s *Screen) ColumnsLocked() int { return s.columnsLocked() }
func (s *Screen) RowsLocked() int    { return s.rowsLocked() }

func (s *Screen) CursorPositionLocked() (row, col int) { return s.cursorPositionLocked() }

func (s *Screen) VisibleLineLocked(i int) Line { return s.visibleLineLocked(i) }

func (s *Screen) visibleLineLocked(i int) Line {
	g := s.buffer.active()
	if s.buffer.onAlt || s.viewportOffset == 0 {
		if i < 0 || i >= len(g.Lines) {
			return Line{}
		}
		return g.Lines[i]
	}
	histLen := s.buffer.scrollback.len()
	startHist := histLen - s.viewportOffset
	idx := startHist + i
	if idx >= 0 && idx < histLen {
		return s.buffer.scrollback.at(idx)
	}
	gridIdx := idx - histLen
	if gridIdx >= 0 && gridIdx < len(g.Lines) {
		return g.Lines[gridIdx]
	}
	return Line{}
}

// TotalLines returns the number of addressable lines (scrollback +
// visible) in the active buffer's unified coordinate space.
func (s *Screen) TotalLines() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.buffer.onAlt {
		return len(s.buffer.alternate.Lines)
	}
	return s.buffer.scrollback.len() + len(s.buffer.primary.Lines)
}

// ScrollViewport shifts the scroll-back viewport offset by delta lines,
// clamped to [0, history_size] per spec §4.E.
func (s *Screen) ScrollViewport(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewportOffset = clampInt(s.viewportOffset+delta, 0, s.buffer.scrollback.len())
}

func (s *Screen) ScrollToTop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewportOffset = s.buffer.scrollback.len()
}

func (s *Screen) ScrollToBottom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewportOffset = 0
}

// SetAutoScroll controls whether drawing commands reset the viewport
// offset to the bottom (the usual "scroll to follow new output"
// behavior, per spec §4.E).
func (s *Screen) SetAutoScroll(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoScroll = enabled
}

func (s *Screen) isSet(m Mode) bool {
	return s.modes.isSet(m)
}
