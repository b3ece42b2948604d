package history

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndRecent(t *testing.T) {
	store := openTestStore(t)

	first := Entry{
		Request:  "download the video",
		Command:  "yt-dlp URL",
		Executed: true,
	}
	second := Entry{
		Request:     "get the audio",
		Command:     "yt-dlp -x --audio-format mp3 URL",
		Executed:    false,
		Refinements: []string{"make it mp3 instead"},
	}

	if err := store.Add(first); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := store.Add(second); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent returned %d entries, want 2", len(entries))
	}

	// Most recent first.
	if entries[0].Request != second.Request {
		t.Errorf("entries[0].Request = %q, want %q", entries[0].Request, second.Request)
	}
	if entries[0].Executed {
		t.Error("entries[0].Executed = true, want false")
	}
	if len(entries[0].Refinements) != 1 || entries[0].Refinements[0] != "make it mp3 instead" {
		t.Errorf("refinements did not round-trip: %v", entries[0].Refinements)
	}
	if entries[1].Command != first.Command {
		t.Errorf("entries[1].Command = %q, want %q", entries[1].Command, first.Command)
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("timestamp was not filled in")
	}
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.Add(Entry{Request: "r", Command: "c"}); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}

	entries, err := store.Recent(3)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Recent(3) returned %d entries", len(entries))
	}
}

func TestLatest(t *testing.T) {
	store := openTestStore(t)

	entry, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if entry != nil {
		t.Errorf("Latest = %+v, want nil for an empty store", entry)
	}

	if err := store.Add(Entry{Request: "older", Command: "yt-dlp A"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := store.Add(Entry{Request: "newer", Command: "yt-dlp B"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	entry, err = store.Latest()
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if entry == nil || entry.Command != "yt-dlp B" {
		t.Errorf("Latest = %+v, want the newest entry", entry)
	}
}
