// Package internal contains integration tests that verify the packages work
// together correctly: event bus routing between the recorder and its
// consumers, and crash recovery through the temp file cleanup sweeps.
package internal

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/clipforge/clipforge/internal/event"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/tempfile"
)

// TestEventBusIntegration verifies the bus routes events between components,
// simulating the UI subscribing to recorder output.
func TestEventBusIntegration(t *testing.T) {
	bus := event.NewBus()

	var mu sync.Mutex
	var received []event.Event

	bus.Subscribe(event.TypeRecordingStarted, func(e event.Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})
	bus.Subscribe(event.TypeDurationUpdate, func(e event.Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})

	var wildcard int
	bus.SubscribeAll(func(e event.Event) {
		mu.Lock()
		wildcard++
		mu.Unlock()
	})

	bus.Publish(event.NewRecordingStartedEvent("rec_1", "/tmp/rec.mp4", 1920, 1080, 30))
	bus.Publish(event.NewDurationUpdateEvent("rec_1", "recording", 1.0))
	bus.Publish(event.NewCleanupCompletedEvent(0, nil))

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Errorf("typed subscribers got %d events, want 2", len(received))
	}
	if wildcard != 3 {
		t.Errorf("wildcard subscriber got %d events, want 3", wildcard)
	}
}

// TestCrashRecoverySweep simulates a crashed session leaving a temp file
// behind, then verifies the orphan sweep reclaims it after the age threshold
// while sparing a fresh file from a hypothetical live session.
func TestCrashRecoverySweep(t *testing.T) {
	dir := t.TempDir()

	// First "process" creates a temp file and dies without cleanup; Close is
	// deliberately not called, the way a crash would leave things
	crashed, err := tempfile.NewManager(dir, logging.NopLogger())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	stalePath, err := crashed.Create("rec_dead", "mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Age the file past the orphan threshold
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stalePath, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	// A new process starts up with an empty registry and a live recording
	files, err := tempfile.NewManager(dir, logging.NopLogger())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer files.Close()

	livePath, err := files.Create("rec_live", "mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	removed, err := files.CleanupOrphaned(time.Hour)
	if err != nil {
		t.Fatalf("CleanupOrphaned failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed %d files, want 1", removed)
	}
	if _, err := os.Stat(stalePath); !os.IsNotExist(err) {
		t.Errorf("stale file %s should be gone", filepath.Base(stalePath))
	}
	if _, err := os.Stat(livePath); err != nil {
		t.Errorf("live recording was swept: %v", err)
	}
}

// TestCleanupPublishesEvent wires a sweep result through the bus the way the
// cleanup command reports to subscribers.
func TestCleanupPublishesEvent(t *testing.T) {
	bus := event.NewBus()

	done := make(chan event.CleanupCompletedEvent, 1)
	bus.Subscribe(event.TypeCleanupCompleted, func(e event.Event) {
		if ce, ok := e.(event.CleanupCompletedEvent); ok {
			done <- ce
		}
	})

	files, err := tempfile.NewManager(t.TempDir(), logging.NopLogger())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer files.Close()

	if _, err := files.Create("rec_1", "mp4"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	removed, err := files.CleanupAll()
	if err != nil {
		t.Fatalf("CleanupAll failed: %v", err)
	}
	bus.Publish(event.NewCleanupCompletedEvent(removed, nil))

	select {
	case ce := <-done:
		if ce.RemovedCount != 1 {
			t.Errorf("RemovedCount = %d, want 1", ce.RemovedCount)
		}
	case <-time.After(time.Second):
		t.Fatal("cleanup event never arrived")
	}
}
