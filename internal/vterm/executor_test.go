package vterm

import "testing"

func TestSynchronizedExecutorHoldsBackPrintedText(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 2, Synchronized: true})
	defer s.Close()

	s.Write([]byte("\x1b[?2026h"))
	s.Write([]byte("hi"))
	if got := s.VisibleLine(0).plainText(); got != "" {
		t.Fatalf("expected printed text to stay queued during synchronized output, got %q", got)
	}
	s.Write([]byte("\x1b[?2026l"))
	if got := s.VisibleLine(0).plainText(); got != "hi" {
		t.Fatalf("expected queued text to appear once synchronized output ends, got %q", got)
	}
}

func TestDirectExecutorAppliesPrintedTextImmediately(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 2})
	defer s.Close()

	s.Write([]byte("hi"))
	if got := s.VisibleLine(0).plainText(); got != "hi" {
		t.Fatalf("expected immediate text without synchronized output, got %q", got)
	}
}
