package tempfile

import (
	"testing"
	"time"
)

func TestRegistryRegisterUnregister(t *testing.T) {
	r := NewRegistry()

	r.Register("/tmp/a.mp4", "rec_1")
	if !r.Contains("/tmp/a.mp4") {
		t.Error("registered path should be present")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}

	if !r.Unregister("/tmp/a.mp4") {
		t.Error("Unregister should report success")
	}
	if r.Unregister("/tmp/a.mp4") {
		t.Error("second Unregister should report failure")
	}
	if r.Contains("/tmp/a.mp4") {
		t.Error("unregistered path should be gone")
	}
}

func TestRegistryReRegisterKeepsOriginalTime(t *testing.T) {
	r := NewRegistry()

	r.Register("/tmp/a.mp4", "rec_1")
	first := r.Entries()[0].RegisteredAt

	time.Sleep(5 * time.Millisecond)
	r.Register("/tmp/a.mp4", "rec_2")

	e := r.Entries()[0]
	if !e.RegisteredAt.Equal(first) {
		t.Error("re-registering should keep the original registration time")
	}
	if e.RecordingID != "rec_2" {
		t.Errorf("RecordingID = %q, want rec_2", e.RecordingID)
	}
}

func TestRegistryTakeStale(t *testing.T) {
	r := NewRegistry()

	r.Register("/tmp/old.mp4", "rec_1")
	r.Register("/tmp/new.mp4", "rec_2")

	// Backdate one entry past the threshold
	r.mu.Lock()
	e := r.entries["/tmp/old.mp4"]
	e.RegisteredAt = time.Now().Add(-25 * time.Hour)
	r.entries["/tmp/old.mp4"] = e
	r.mu.Unlock()

	stale := r.TakeStale(24 * time.Hour)
	if len(stale) != 1 || stale[0].Path != "/tmp/old.mp4" {
		t.Fatalf("TakeStale = %v", stale)
	}
	if r.Contains("/tmp/old.mp4") {
		t.Error("stale entry should be removed from registry")
	}
	if !r.Contains("/tmp/new.mp4") {
		t.Error("fresh entry should remain")
	}
}

func TestRegistryTakeAll(t *testing.T) {
	r := NewRegistry()
	r.Register("/tmp/a.mp4", "rec_1")
	r.Register("/tmp/b.mp4", "rec_1")

	entries := r.TakeAll()
	if len(entries) != 2 {
		t.Errorf("TakeAll returned %d entries, want 2", len(entries))
	}
	if r.Len() != 0 {
		t.Errorf("registry should be empty, has %d", r.Len())
	}
}
