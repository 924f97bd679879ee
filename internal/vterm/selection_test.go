package vterm

import "testing"

func TestSelectionLinearSingleLine(t *testing.T) {
	s := New(ScreenOptions{Columns: 5, Rows: 5})
	defer s.Close()
	s.Write([]byte("12 45\r\n678 0\r\nA CDE\r\nFGHIJ\r\nKLMNO"))

	s.BeginSelection(SelectionLinear, 1, 2)
	s.ExtendSelection(1, 4)
	s.CompleteSelection()

	if got := s.SelectedText(); got != "78 " {
		t.Fatalf("expected selected text %q, got %q", "78 ", got)
	}
}

func TestSelectionFullLine(t *testing.T) {
	s := New(ScreenOptions{Columns: 5, Rows: 3})
	defer s.Close()
	s.Write([]byte("ab   \r\ncdefg"))
	s.BeginSelection(SelectionFullLine, 0, 1)
	s.ExtendSelection(0, 1)
	s.CompleteSelection()
	if got := s.SelectedText(); got != "ab" {
		t.Fatalf("expected full-line selection to trim trailing padding, got %q", got)
	}
}

func TestSelectionRectangular(t *testing.T) {
	s := New(ScreenOptions{Columns: 5, Rows: 3})
	defer s.Close()
	s.Write([]byte("abcde\r\nfghij\r\nklmno"))
	s.BeginSelection(SelectionRectangular, 0, 3)
	s.ExtendSelection(2, 5)
	s.CompleteSelection()
	got := s.SelectedText()
	want := "cde\nhij\nmno"
	if got != want {
		t.Fatalf("expected rectangular selection %q, got %q", want, got)
	}
}

func TestSelectionWordwise(t *testing.T) {
	s := New(ScreenOptions{Columns: 11, Rows: 2})
	defer s.Close()
	s.Write([]byte("hello world"))
	s.BeginSelection(SelectionWordwise, 0, 8) // lands inside "world"
	s.ExtendSelection(0, 8)
	s.CompleteSelection()
	got := s.SelectedText()
	if got != "world" {
		t.Fatalf("expected wordwise selection to expand to the whole word, got %q", got)
	}
}

func TestSelectionClickWithoutDragStaysWaiting(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 2})
	defer s.Close()
	s.BeginSelection(SelectionLinear, 0, 3)
	if s.HasSelection() {
		t.Fatalf("expected a bare click (no drag) not to count as a selection")
	}
}

func TestSelectionClearResetsState(t *testing.T) {
	s := New(ScreenOptions{Columns: 10, Rows: 2})
	defer s.Close()
	s.BeginSelection(SelectionLinear, 0, 1)
	s.ExtendSelection(0, 5)
	if !s.HasSelection() {
		t.Fatalf("expected a dragged selection to report HasSelection")
	}
	s.ClearSelection()
	if s.HasSelection() {
		t.Fatalf("expected ClearSelection to reset the selection")
	}
}

func TestSelectionCompleteFiresEvent(t *testing.T) {
	rec := &recordingEvents{}
	s := New(ScreenOptions{Columns: 10, Rows: 2, Events: rec})
	defer s.Close()
	s.BeginSelection(SelectionLinear, 0, 1)
	s.ExtendSelection(0, 5)
	s.CompleteSelection()
	if rec.selectionCompletions != 1 {
		t.Fatalf("expected OnSelectionComplete to fire once, got %d", rec.selectionCompletions)
	}
}
