package vterm

// BufferKind distinguishes primary from alternate for bufferChanged
// notifications.
type BufferKind uint8

const (
	BufferPrimary BufferKind = iota
	BufferAlternate
)

// ScreenEvents is the host collaborator a Screen drives synchronously
// while applying commands, mirroring the original implementation's
// ScreenEvents virtual interface almost one-to-one. A host embeds
// NoopScreenEvents to pick up defaults for whichever callbacks it
// doesn't care about, the Go equivalent of C++ default virtual bodies.
type ScreenEvents interface {
	// Reply pushes bytes toward the PTY in response to a query (CPR, DA,
	// DSR, DECRQSS, ...).
	Reply(b []byte)
	// Bell is invoked on BEL.
	Bell()
	// BufferChanged fires when the active buffer (primary/alternate)
	// switches.
	BufferChanged(kind BufferKind)
	// CopyToClipboard handles an OSC 52 request.
	CopyToClipboard(data []byte)
	// Notify handles OSC 9/777 desktop notifications.
	Notify(title, body string)
	// SetWindowTitle handles OSC 0/2.
	SetWindowTitle(title string)
	// SetIconTitle handles OSC 1.
	SetIconTitle(title string)
	// ResizeWindow handles CSI 8 t / CSI 4 t window resize requests.
	ResizeWindow(columns, rows int, inPixels bool)
	// SetCursorStyle handles DECSCUSR.
	SetCursorStyle(style CursorStyle)
	// SetApplicationKeypadMode fires when DECNKM is toggled.
	SetApplicationKeypadMode(enabled bool)
	// SetBracketedPaste fires when mode 2004 is toggled.
	SetBracketedPaste(enabled bool)
	// SetMouseProtocol fires when a mouse tracking mode is toggled.
	SetMouseProtocol(mode Mode, enabled bool)
	// SetGenerateFocusEvents fires when mode 1004 is toggled.
	SetGenerateFocusEvents(enabled bool)
	// UseApplicationCursorKeys fires when DECCKM is toggled.
	UseApplicationCursorKeys(enabled bool)
	// RequestDynamicColor handles an OSC dynamic-color query (10-19,
	// palette index queries); the host answers via Reply.
	RequestDynamicColor(name DynamicColorName, index uint8)
	// SetDynamicColor handles an OSC dynamic-color set.
	SetDynamicColor(name DynamicColorName, index uint8, color Color)
	// ResetDynamicColor handles an OSC dynamic-color reset (110-119).
	ResetDynamicColor(name DynamicColorName, index uint8)
	// OnClosed fires once the core stops consuming input (PTY closed).
	OnClosed()
	// OnSelectionComplete fires when a Selection transitions to Complete.
	OnSelectionComplete()
	// DumpState is a debug hook invoked by host tooling; implementations
	// may no-op.
	DumpState(s string)
}

// NoopScreenEvents implements ScreenEvents with all-default (no-op)
// methods. Hosts embed it and override only the callbacks they need.
type NoopScreenEvents struct{}

func (NoopScreenEvents) Reply(b []byte)                                     {}
func (NoopScreenEvents) Bell()                                              {}
func (NoopScreenEvents) BufferChanged(kind BufferKind)                      {}
func (NoopScreenEvents) CopyToClipboard(data []byte)                        {}
func (NoopScreenEvents) Notify(title, body string)                          {}
func (NoopScreenEvents) SetWindowTitle(title string)                        {}
func (NoopScreenEvents) SetIconTitle(title string)                          {}
func (NoopScreenEvents) ResizeWindow(columns, rows int, inPixels bool)       {}
func (NoopScreenEvents) SetCursorStyle(style CursorStyle)                   {}
func (NoopScreenEvents) SetApplicationKeypadMode(enabled bool)              {}
func (NoopScreenEvents) SetBracketedPaste(enabled bool)                     {}
func (NoopScreenEvents) SetMouseProtocol(mode Mode, enabled bool)           {}
func (NoopScreenEvents) SetGenerateFocusEvents(enabled bool)                {}
func (NoopScreenEvents) UseApplicationCursorKeys(enabled bool)              {}
func (NoopScreenEvents) RequestDynamicColor(name DynamicColorName, index uint8) {}
func (NoopScreenEvents) SetDynamicColor(name DynamicColorName, index uint8, color Color) {}
func (NoopScreenEvents) ResetDynamicColor(name DynamicColorName, index uint8) {}
func (NoopScreenEvents) OnClosed()                                          {}
func (NoopScreenEvents) OnSelectionComplete()                               {}
func (NoopScreenEvents) DumpState(s string)                                 {}
