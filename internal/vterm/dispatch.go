package vterm

// applyCommand is the single match site that dispatches every Command
// variant to a ScreenBuffer operation or an events callback — the
// Go-idiomatic substitute for the original's CommandVisitor, per spec
// §9's guidance to prefer "a closed tagged-union plus a single match
// site" where the target language offers exhaustiveness checking.
func (s *Screen) applyCommand(cmd Command) {
	b := s.buffer
	switch c := cmd.(type) {

	case PrintRune:
		b.putChar(c.R)
	case MoveCursorTo:
		b.moveCursorTo(c.Row, c.Col)
	case MoveCursorUp:
		b.moveCursorRelative(-c.N, 0)
	case MoveCursorDown:
		b.moveCursorRelative(c.N, 0)
	case MoveCursorForward:
		b.moveCursorRelative(0, c.N)
	case MoveCursorBackward:
		b.moveCursorRelative(0, -c.N)
	case MoveCursorToColumn:
		cur := b.cursor()
		b.moveCursorTo(cur.Row, c.Col)
	case MoveCursorToLine:
		cur := b.cursor()
		b.moveCursorTo(c.Row, cur.Col)
	case MoveCursorNextLine:
		for i := 0; i < c.N; i++ {
			b.nextLine()
		}
	case MoveCursorPrevLine:
		b.moveCursorRelative(-c.N, 0)
		b.carriageReturn()
	case Index:
		b.index()
	case ReverseIndex:
		b.reverseIndex()
	case NextLine:
		b.nextLine()
	case CarriageReturn:
		b.carriageReturn()
	case Backspace:
		b.backspace()
	case Bell:
		s.events.Bell()
	case SaveCursor:
		b.saveCursor()
	case RestoreCursor:
		b.restoreCursor()

	case HorizontalTabSet:
		b.horizontalTabSet()
	case HorizontalTab:
		b.tab(c.N)
	case BackwardsTab:
		b.backwardsTab(c.N)
	case ClearTabStop:
		b.clearTabStop(c.Mode)
	case RequestTabStops:
		s.replyTabStops()

	case EraseDisplay:
		b.eraseDisplay(c.Mode)
	case EraseLine:
		b.eraseLine(c.Mode)
	case EraseCharacters:
		b.eraseCharacters(c.N)

	case ScrollUp:
		b.scrollUp(c.N)
	case ScrollDown:
		b.scrollDown(c.N)
	case InsertLines:
		b.insertLines(c.N)
	case DeleteLines:
		b.deleteLines(c.N)
	case InsertColumns:
		b.insertColumns(c.N)
	case DeleteColumns:
		b.deleteColumns(c.N)
	case InsertCharacters:
		b.insertCharacters(c.N)
	case DeleteCharacters:
		b.deleteCharacters(c.N)
	case BackIndex:
		b.backIndex()
	case ForwardIndex:
		b.forwardIndex()
	case ScreenAlignmentPattern:
		b.screenAlignmentPattern()

	case SetTopBottomMargin:
		b.setTopBottomMargin(c.Top, c.Bottom)
	case SetLeftRightMargin:
		b.setLeftRightMargin(c.Left, c.Right)

	case SetMode:
		s.applySetMode(c.Mode, c.Enabled)
	case RequestMode:
		s.replyDECRQM(c.Mode)
	case SelectConformanceLevel:
		// Conformance level selection does not change grid behavior in
		// this implementation; acknowledged but otherwise a no-op.

	case ResetGraphicsRendition:
		b.cursor().Pen = Style{}
	case SetAttribute:
		pen := &b.cursor().Pen
		pen.set(c.Attr, c.Enabled)
	case SetUnderlineStyle:
		b.cursor().Pen.UnderlineStyle = c.Style
	case SetForegroundColor:
		b.cursor().Pen.Foreground = c.Color
	case SetBackgroundColor:
		b.cursor().Pen.Background = c.Color
	case SetUnderlineColor:
		b.cursor().Pen.Underline = c.Color

	case DesignateCharset:
		b.cursor().Charset.designate(c.Slot, c.ID)
	case InvokeCharset:
		b.cursor().Charset.invoke(c.Slot)
	case SingleShift:
		b.cursor().Charset.singleShiftNext(c.Slot)

	case SetCursorStyle:
		s.events.SetCursorStyle(c.Style)
	case ChangeWindowTitle:
		s.currentTitle = c.Title
		s.events.SetWindowTitle(c.Title)
	case ChangeIconTitle:
		s.events.SetIconTitle(c.Title)
	case SaveWindowTitle:
		s.titleStack = append(s.titleStack, s.currentTitle)
	case RestoreWindowTitle:
		if n := len(s.titleStack); n > 0 {
			s.currentTitle = s.titleStack[n-1]
			s.titleStack = s.titleStack[:n-1]
			s.events.SetWindowTitle(s.currentTitle)
		}
	case ResizeWindow:
		s.events.ResizeWindow(c.Columns, c.Rows, c.InPixels)

	case SetHyperlink:
		h := &Hyperlink{ID: c.ID, URI: c.URI}
		b.cursor().Pen.Hyperlink = h
	case ClearHyperlink:
		b.cursor().Pen.Hyperlink = nil

	case RequestDynamicColor:
		s.events.RequestDynamicColor(c.Name, c.Indexed)
	case SetDynamicColor:
		s.events.SetDynamicColor(c.Name, c.Indexed, c.Color)
	case ResetDynamicColor:
		s.events.ResetDynamicColor(c.Name, c.Indexed)
	case CopyToClipboard:
		s.events.CopyToClipboard(c.Data)
	case Notify:
		s.events.Notify(c.Title, c.Body)
	case SetMark:
		b.setMark()

	case RequestCursorPosition:
		s.replyCPR(false)
	case RequestExtendedCursorPosition:
		s.replyCPR(true)
	case SendDeviceAttributes:
		s.replyDA1()
	case SendTerminalId:
		s.replyDA2()
	case RequestStatusString:
		s.replyDECRQSS(c.Query)

	case SwitchToAlternateScreen:
		b.switchToAlternate(c.ClearOnEnter, c.SaveCursor)
		s.events.BufferChanged(BufferAlternate)
	case SwitchToPrimaryScreen:
		b.switchToPrimary(c.RestoreCursor)
		s.events.BufferChanged(BufferPrimary)
	case SoftReset:
		b.softReset()
	case HardReset:
		b.hardReset()

	case BeginSynchronizedOutput, EndSynchronizedOutput:
		// Handled by the Executor before reaching applyCommand for
		// SynchronizedExecutor; DirectExecutor treats them as no-ops.
	}
}

func (s *Screen) applySetMode(mode Mode, enabled bool) {
	s.modes.set(mode, enabled)
	switch mode {
	case ModeApplicationKeypad:
		s.events.SetApplicationKeypadMode(enabled)
	case ModeBracketedPaste:
		s.events.SetBracketedPaste(enabled)
	case ModeApplicationCursorKeys:
		s.events.UseApplicationCursorKeys(enabled)
	case ModeFocusEvents:
		s.events.SetGenerateFocusEvents(enabled)
	case ModeMouseX10, ModeMouseNormal, ModeMouseHighlight, ModeMouseButtonEvent, ModeMouseAnyEvent,
		ModeMouseUTF8, ModeMouseSGR, ModeMouseURXVT:
		s.events.SetMouseProtocol(mode, enabled)
	}
}
