package repl

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_PersistsModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("load missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"1+2", modeEval},
		{"bind x 3", modeCtrl},
		{"'x'*2", modeEval},
		{"  ", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("add %q: %v", e.Line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if want := "E:1+2\nC:bind x 3\nE:'x'*2\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if !slices.Equal(reloaded.Entries(), h.Entries()) {
		t.Errorf("reloaded %v, want %v", reloaded.Entries(), h.Entries())
	}
}

func TestHistory_MovesDuplicateToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "b", "a"} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	want := []HistoryEntry{{"b", modeEval}, {"a", modeEval}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "E:b\nE:a\n" {
		t.Errorf("file = %q", data)
	}

	// The same line in another mode is a distinct entry.
	_ = h.Add("a", modeCtrl)
	if h.Len() != 3 {
		t.Errorf("len = %d, want 3", h.Len())
	}
}

func TestHistory_LegacyLinesAndBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	if err := os.WriteFile(path, []byte("plain\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if e, err := h.Entry(0); err != nil || e != (HistoryEntry{"plain", modeEval}) {
		t.Errorf("entry 0 = %v, %v", e, err)
	}

	if e, err := h.Entry(1); err != nil || e != (HistoryEntry{"quit", modeCtrl}) {
		t.Errorf("entry 1 = %v, %v", e, err)
	}

	if _, err := h.Entry(2); err != ErrOutOfBounds {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if err := h.Add("1", modeEval); err != nil {
		t.Fatal(err)
	}

	if err := h.Add("2", modeEval); err != nil {
		t.Fatal(err)
	}

	if err := h.Add("1", modeEval); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 2 {
		t.Errorf("len = %d, want 2", h.Len())
	}
}
