package tempfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clipforge/clipforge/internal/errors"
	"github.com/clipforge/clipforge/internal/logging"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), logging.NopLogger())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestCreateRegistersTempFile(t *testing.T) {
	m := newTestManager(t)

	path, err := m.Create("rec_1", "mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(path), tempPrefix) {
		t.Errorf("temp name %q missing prefix", filepath.Base(path))
	}
	if !strings.HasSuffix(path, ".mp4") {
		t.Errorf("temp name %q missing extension", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("temp file should exist: %v", err)
	}
	if !m.Registry().Contains(path) {
		t.Error("temp file should be registered")
	}
}

func TestCreateProducesUniqueNames(t *testing.T) {
	m := newTestManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		path, err := m.Create("rec_1", "mp4")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if seen[path] {
			t.Fatalf("duplicate temp path %q", path)
		}
		seen[path] = true
	}
}

func TestFinalizeMovesAndUnregisters(t *testing.T) {
	m := newTestManager(t)

	path, err := m.Create("rec_1", "mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("video data"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	final := filepath.Join(t.TempDir(), "captures", "demo.mp4")
	if err := m.Finalize(path, final); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temp file should be gone after finalize")
	}
	data, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("final file missing: %v", err)
	}
	if string(data) != "video data" {
		t.Errorf("final file content = %q", data)
	}
	if m.Registry().Contains(path) {
		t.Error("finalized file should be unregistered")
	}
}

func TestDiscardRemovesFile(t *testing.T) {
	m := newTestManager(t)

	path, err := m.Create("rec_1", "mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := m.Discard(path); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("discarded file should be gone")
	}

	// Discarding an already-missing file is not an error
	if err := m.Discard(path); err != nil {
		t.Errorf("second Discard should be a no-op, got %v", err)
	}
}

func TestCloseSweepsRegisteredFiles(t *testing.T) {
	m := newTestManager(t)

	path, err := m.Create("rec_1", "mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("registered temp file should be removed on close")
	}
}

func TestCleanupAllRemovesRegisteredFiles(t *testing.T) {
	m := newTestManager(t)

	var paths []string
	for i := 0; i < 3; i++ {
		p, err := m.Create("rec_1", "mp4")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		paths = append(paths, p)
	}

	removed, err := m.CleanupAll()
	if err != nil {
		t.Fatalf("CleanupAll failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", p)
		}
	}
	if m.Registry().Len() != 0 {
		t.Errorf("registry should be empty, has %d entries", m.Registry().Len())
	}
}

func TestCleanupOrphanedRespectsAgeAndRegistry(t *testing.T) {
	m := newTestManager(t)

	// A registered file: never swept as an orphan
	registered, err := m.Create("rec_1", "mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// An old unregistered temp file: should be swept
	oldOrphan := filepath.Join(m.Dir(), tempPrefix+"20200101_000000_999.mp4")
	if err := os.WriteFile(oldOrphan, []byte("stale"), 0644); err != nil {
		t.Fatalf("failed to create orphan: %v", err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldOrphan, oldTime, oldTime); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	// A fresh unregistered temp file: too young to sweep
	freshOrphan := filepath.Join(m.Dir(), tempPrefix+"20990101_000000_998.mp4")
	if err := os.WriteFile(freshOrphan, []byte("fresh"), 0644); err != nil {
		t.Fatalf("failed to create fresh orphan: %v", err)
	}

	// A non-temp file: never touched regardless of age
	unrelated := filepath.Join(m.Dir(), "notes.txt")
	if err := os.WriteFile(unrelated, []byte("keep"), 0644); err != nil {
		t.Fatalf("failed to create unrelated file: %v", err)
	}
	if err := os.Chtimes(unrelated, oldTime, oldTime); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	removed, err := m.CleanupOrphaned(time.Hour)
	if err != nil {
		t.Fatalf("CleanupOrphaned failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if _, err := os.Stat(oldOrphan); !os.IsNotExist(err) {
		t.Error("old orphan should be removed")
	}
	if _, err := os.Stat(freshOrphan); err != nil {
		t.Error("fresh orphan should survive")
	}
	if _, err := os.Stat(registered); err != nil {
		t.Error("registered file should survive")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("unrelated file should survive")
	}
}

func TestSweepRegistryRemovesStaleEntries(t *testing.T) {
	m := newTestManager(t)

	stale, err := m.Create("rec_old", "mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	fresh, err := m.Create("rec_new", "mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Backdate the stale registry entry
	m.Registry().mu.Lock()
	e := m.Registry().entries[stale]
	e.RegisteredAt = time.Now().Add(-25 * time.Hour)
	m.Registry().entries[stale] = e
	m.Registry().mu.Unlock()

	removed, err := m.SweepRegistry(24 * time.Hour)
	if err != nil {
		t.Fatalf("SweepRegistry failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh file should survive")
	}
}

func TestNewManagerRejectsEmptyDir(t *testing.T) {
	_, err := NewManager("", logging.NopLogger())
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCheckDiskSpace(t *testing.T) {
	m := newTestManager(t)

	// A temp dir always has at least a little space free
	if err := m.CheckDiskSpace(1); err != nil {
		t.Errorf("CheckDiskSpace(1) failed: %v", err)
	}

	err := m.CheckDiskSpace(^uint64(0) / (1024 * 1024))
	if err == nil {
		t.Fatal("absurd space requirement should fail")
	}
	var diskErr *errors.DiskSpaceError
	if !errors.As(err, &diskErr) {
		t.Errorf("expected DiskSpaceError, got %T", err)
	}
}

func TestEstimateRecordingMinutes(t *testing.T) {
	// 8000 kbps = 60 MB per minute
	if got := EstimateRecordingMinutes(6000, 8000); got != 100 {
		t.Errorf("EstimateRecordingMinutes(6000, 8000) = %v, want 100", got)
	}
	if got := EstimateRecordingMinutes(1000, 0); got != 0 {
		t.Errorf("zero bitrate should yield 0, got %v", got)
	}
}

func TestWarningLevel(t *testing.T) {
	tests := []struct {
		availableMB uint64
		want        string
	}{
		{10000, DiskLevelOK},
		{2048, DiskLevelOK},
		{2047, DiskLevelLow},
		{500, DiskLevelLow},
		{499, DiskLevelCritical},
		{0, DiskLevelCritical},
	}
	for _, tt := range tests {
		if got := WarningLevel(tt.availableMB); got != tt.want {
			t.Errorf("WarningLevel(%d) = %q, want %q", tt.availableMB, got, tt.want)
		}
	}
}
