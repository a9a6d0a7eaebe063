package tempfile

import (
	"sync"
	"time"
)

// Entry describes a temp file tracked for cleanup.
type Entry struct {
	// Path is the absolute path of the temp file
	Path string
	// RecordingID is the recording that owns this file, or "" for files
	// discovered by the directory watcher
	RecordingID string
	// RegisteredAt is when the file was added to the registry
	RegisteredAt time.Time
}

// Registry tracks temp files that must be removed if the application exits
// without finalizing them. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewRegistry creates an empty cleanup registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds a path to the registry. Registering the same path twice
// updates the entry but keeps the original registration time, so a file's
// age is measured from when it was first seen.
func (r *Registry) Register(path, recordingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	registeredAt := time.Now()
	if existing, ok := r.entries[path]; ok {
		registeredAt = existing.RegisteredAt
	}

	r.entries[path] = Entry{
		Path:         path,
		RecordingID:  recordingID,
		RegisteredAt: registeredAt,
	}
}

// Unregister removes a path from the registry.
// Returns true if the path was registered.
func (r *Registry) Unregister(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[path]; !ok {
		return false
	}
	delete(r.entries, path)
	return true
}

// Contains reports whether a path is registered.
func (r *Registry) Contains(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[path]
	return ok
}

// Entries returns a snapshot of all registered entries.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	return entries
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// TakeStale removes and returns entries registered longer ago than maxAge.
// The caller is responsible for removing the underlying files.
func (r *Registry) TakeStale(maxAge time.Duration) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var stale []Entry
	for path, e := range r.entries {
		if e.RegisteredAt.Before(cutoff) {
			stale = append(stale, e)
			delete(r.entries, path)
		}
	}
	return stale
}

// TakeAll removes and returns every entry.
func (r *Registry) TakeAll() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.entries))
	for path, e := range r.entries {
		entries = append(entries, e)
		delete(r.entries, path)
	}
	return entries
}
