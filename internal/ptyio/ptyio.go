// Package ptyio spawns a shell behind a pseudo-terminal and shuttles bytes
// between it and a vterm.Screen.
package ptyio

import (
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"

	"github.com/andyrewlee/vtcore/internal/logging"
)

// Session wraps a PTY-backed child process.
type Session struct {
	mu      sync.Mutex
	ptyFile *os.File
	cmd     *exec.Cmd
	closed  bool
}

// Start launches command (run through "sh -c") in dir with the given extra
// environment variables, attached to a new PTY sized columns x rows.
func Start(command string, dir string, env []string, columns, rows int) (*Session, error) {
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(columns),
	})
	if err != nil {
		return nil, err
	}

	logging.Debug("ptyio: started %q in %q (%dx%d)", command, dir, columns, rows)

	return &Session{
		ptyFile: ptmx,
		cmd:     cmd,
	}, nil
}

// Resize updates the PTY's window size, matching a Screen.Resize call.
func (s *Session) Resize(columns, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.ptyFile == nil {
		return nil
	}

	return pty.Setsize(s.ptyFile, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(columns),
	})
}

// Write sends input (typically InputEncoder output) to the child process.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	closed := s.closed
	f := s.ptyFile
	s.mu.Unlock()

	if closed || f == nil {
		return 0, io.ErrClosedPipe
	}

	return f.Write(p)
}

// Read reads raw output bytes from the child process, for feeding into
// vterm.Screen.Write. It does not hold the mutex during the blocking read.
func (s *Session) Read(p []byte) (int, error) {
	s.mu.Lock()
	closed := s.closed
	f := s.ptyFile
	s.mu.Unlock()

	if closed || f == nil {
		return 0, io.EOF
	}

	return f.Read(p)
}

// SendInterrupt delivers Ctrl+C to the child's foreground process group.
func (s *Session) SendInterrupt() error {
	_, err := s.Write([]byte{0x03})
	return err
}

// Wait blocks until the child process exits.
func (s *Session) Wait() error {
	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()
	if cmd == nil {
		return nil
	}
	return cmd.Wait()
}

// Close closes the PTY and kills the child process if still running.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.ptyFile != nil {
		s.ptyFile.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
		s.cmd.Wait()
	}

	logging.Debug("ptyio: session closed")
	return nil
}
