// Command vtshell spawns a shell behind a PTY, feeds its output through
// vterm.Screen, and redraws the rendered grid onto the invoking terminal.
// It is a demo host, not a full terminal emulator frontend.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/andyrewlee/vtcore/internal/logging"
	"github.com/andyrewlee/vtcore/internal/ptyio"
	"github.com/andyrewlee/vtcore/internal/safego"
	"github.com/andyrewlee/vtcore/internal/vterm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vtshell:", err)
		os.Exit(1)
	}
}

func run() error {
	logDir := os.Getenv("VTSHELL_LOG_DIR")
	if logDir == "" {
		logDir = os.TempDir()
	}
	if err := logging.Initialize(logDir, logging.LevelInfo); err != nil {
		return err
	}
	defer logging.Close()

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	if len(os.Args) > 1 {
		shell = strings.Join(os.Args[1:], " ")
	}

	cols, rows := 80, 24
	if c, r, err := term.GetSize(int(os.Stdout.Fd())); err == nil && c > 0 && r > 0 {
		cols, rows = c, r
	}

	host := &shellHost{}
	screen := vterm.New(vterm.ScreenOptions{
		Columns: cols,
		Rows:    rows,
		Events:  host,
	})
	defer screen.Close()

	session, err := ptyio.Start(shell, ".", nil, cols, rows)
	if err != nil {
		return err
	}
	host.session = session
	defer session.Close()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err == nil {
		defer term.Restore(int(os.Stdin.Fd()), oldState)
	}

	done := make(chan struct{})
	safego.Go("vtshell-pty-read", func() {
		defer close(done)
		buf := make([]byte, 32*1024)
		for {
			n, readErr := session.Read(buf)
			if n > 0 {
				screen.Write(buf[:n])
				redraw(screen)
			}
			if readErr != nil {
				logging.WithError(readErr, "pty read")
				return
			}
		}
	})

	safego.Go("vtshell-stdin-forward", func() {
		buf := make([]byte, 4096)
		for {
			n, readErr := os.Stdin.Read(buf)
			if n > 0 {
				if _, werr := session.Write(buf[:n]); werr != nil {
					logging.WithError(werr, "pty write")
					return
				}
			}
			if readErr != nil {
				return
			}
		}
	})

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	safego.Go("vtshell-resize", func() {
		for range winch {
			c, r, sizeErr := term.GetSize(int(os.Stdout.Fd()))
			if sizeErr != nil || c <= 0 || r <= 0 {
				continue
			}
			screen.Resize(c, r)
			session.Resize(c, r)
			redraw(screen)
		}
	})

	<-done
	return session.Wait()
}

// shellHost adapts vterm's ScreenEvents callbacks to this demo's PTY
// session, clipboard, and terminal title.
type shellHost struct {
	vterm.NoopScreenEvents
	session *ptyio.Session
}

func (h *shellHost) Reply(b []byte) {
	if h.session != nil {
		h.session.Write(b)
	}
}

func (h *shellHost) Bell() {
	os.Stdout.Write([]byte{0x07})
}

func (h *shellHost) CopyToClipboard(data []byte) {
	if err := clipboard.WriteAll(string(data)); err != nil {
		logging.WithError(err, "clipboard")
	}
}

func (h *shellHost) SetWindowTitle(title string) {
	title = ansi.Truncate(title, 200, "")
	os.Stdout.WriteString("\x1b]0;" + title + "\x07")
}

func (h *shellHost) OnSelectionComplete() {
	logging.Debug("selection complete")
}

// redraw repaints the full visible grid onto the real terminal, emitting
// an SGR transition only when a cell's style differs from the previous one.
func redraw(s *vterm.Screen) {
	s.RLock()
	rows := s.RowsLocked()
	cols := s.ColumnsLocked()
	lines := make([]vterm.Line, rows)
	for i := 0; i < rows; i++ {
		lines[i] = s.VisibleLineLocked(i)
	}
	cursorRow, cursorCol := s.CursorPositionLocked()
	s.RUnlock()

	var out strings.Builder
	out.WriteString("\x1b[H")
	var prev vterm.Style
	for i, line := range lines {
		if i > 0 {
			out.WriteString("\r\n")
		}
		written := 0
		for _, cell := range line.Cells {
			if cell.Width == 0 {
				continue
			}
			if cell.Style != prev {
				out.WriteString("\x1b[")
				out.Write(vterm.RenderSGR(cell.Style, prev))
				out.WriteByte('m')
				prev = cell.Style
			}
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			out.WriteRune(r)
			for _, c := range cell.Combining {
				out.WriteRune(c)
			}
			written++
			if written >= cols {
				break
			}
		}
	}
	out.WriteString(fmt.Sprintf("\x1b[%d;%dH", cursorRow, cursorCol))
	os.Stdout.WriteString(out.String())
}
