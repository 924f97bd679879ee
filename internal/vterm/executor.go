package vterm

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Executor applies Commands to a Screen. Screen holds a mutable
// reference and passes it into Apply rather than the executor owning
// the Screen, breaking the Screen<->Executor ownership cycle per spec
// §9's design note.
type Executor interface {
	Apply(s *Screen, cmd Command)
	// Close releases any background resources (timers, goroutines).
	Close()
}

// DirectExecutor applies every command immediately.
type DirectExecutor struct{}

func (DirectExecutor) Apply(s *Screen, cmd Command) {
	s.applyCommand(cmd)
}

func (DirectExecutor) Close() {}

// isDrawingCommand reports whether cmd mutates the grid/cursor/modes (and
// so is subject to synchronized-output buffering) as opposed to being a
// query/reply/clipboard/notification command that passes through
// immediately per spec §4.E.
func isDrawingCommand(cmd Command) bool {
	switch cmd.(type) {
	case RequestMode, RequestCursorPosition, RequestExtendedCursorPosition,
		SendDeviceAttributes, SendTerminalId, RequestStatusString, RequestTabStops,
		RequestDynamicColor, CopyToClipboard, Notify,
		BeginSynchronizedOutput, EndSynchronizedOutput:
		return false
	default:
		return true
	}
}

// SynchronizedExecutor implements mode 2026: drawing commands queue until
// an EndSynchronizedOutput command arrives or a bounded flush deadline
// elapses, whichever first; non-drawing commands apply immediately. The
// flush-timer goroutine runs under an errgroup so Close can cancel it
// deterministically.
type SynchronizedExecutor struct {
	flushAfter time.Duration

	queue []Command

	cancel context.CancelFunc
	group  *errgroup.Group
	timerC chan struct{}
}

// NewSynchronizedExecutor returns an executor that flushes queued drawing
// commands after flushAfter even without an explicit end-sync, per spec
// §5's bounded-latency requirement.
func NewSynchronizedExecutor(flushAfter time.Duration) *SynchronizedExecutor {
	if flushAfter <= 0 {
		flushAfter = 200 * time.Millisecond
	}
	return &SynchronizedExecutor{flushAfter: flushAfter}
}

func (e *SynchronizedExecutor) Apply(s *Screen, cmd Command) {
	switch cmd.(type) {
	case BeginSynchronizedOutput:
		e.startTimer(s)
		return
	case EndSynchronizedOutput:
		e.flush(s)
		return
	}
	if !isDrawingCommand(cmd) || e.timerC == nil {
		s.applyCommand(cmd)
		return
	}
	e.queue = append(e.queue, cmd)
}

func (e *SynchronizedExecutor) startTimer(s *Screen) {
	if e.timerC != nil {
		return // already buffering
	}
	if e.cancel != nil {
		e.cancel() // group left over from a period whose deadline fired
	}
	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	e.cancel = cancel
	e.group = group
	done := make(chan struct{})
	e.timerC = done
	group.Go(func() error {
		timer := time.NewTimer(e.flushAfter)
		defer timer.Stop()
		select {
		case <-timer.C:
			s.mu.Lock()
			if e.timerC == done {
				e.flushLocked(s)
				e.timerC = nil
			}
			s.mu.Unlock()
		case <-gctx.Done():
		case <-done:
		}
		return nil
	})
}

// flush drains the queue immediately. It is always called with Screen's
// lock already held by the caller (applyCommand's dispatch path), so it
// must not block waiting on the timer goroutine — that goroutine takes
// the same lock when it fires, and this call stack would deadlock
// against it. Instead flush only signals cancellation; the goroutine
// either observes it and exits without touching the lock, or (in the
// unlucky race where the timer already fired) acquires the lock later,
// sees that its buffering period has ended, and does nothing.
func (e *SynchronizedExecutor) flush(s *Screen) {
	if e.timerC != nil {
		close(e.timerC)
		e.timerC = nil
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.group = nil
	e.flushLocked(s)
}

func (e *SynchronizedExecutor) flushLocked(s *Screen) {
	for _, cmd := range e.queue {
		s.applyCommand(cmd)
	}
	e.queue = e.queue[:0]
}

func (e *SynchronizedExecutor) Close() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.group != nil {
		_ = e.group.Wait()
		e.group = nil
	}
}
