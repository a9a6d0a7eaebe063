// Package tempfile manages in-progress recording files. Recordings are
// written to a working directory under temp names, finalized with an atomic
// rename on success, and swept up when they are abandoned. The package also
// answers disk space questions for the working directory.
package tempfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/clipforge/clipforge/internal/errors"
	"github.com/clipforge/clipforge/internal/logging"
)

// tempPrefix marks files in the working directory as in-progress recordings.
// The orphan sweep only ever touches files carrying this prefix.
const tempPrefix = "recording_"

// timestampLayout is the timestamp embedded in temp file names.
const timestampLayout = "20060102_150405"

// maxSweepWorkers bounds parallel file removal during cleanup sweeps.
const maxSweepWorkers = 4

// Manager owns the working directory for in-progress recordings.
type Manager struct {
	dir      string
	registry *Registry
	logger   *logging.Logger
	watcher  *Watcher
	seq      int
}

// NewManager creates a Manager rooted at dir, creating the directory if
// needed. The directory is probed for writability so permission problems
// surface at startup rather than mid-recording.
func NewManager(dir string, logger *logging.Logger) (*Manager, error) {
	if dir == "" {
		return nil, errors.NewValidationError("working directory cannot be empty").WithField("dir")
	}
	if logger == nil {
		logger = logging.NopLogger()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		if os.IsPermission(err) {
			return nil, errors.NewPermissionError(dir)
		}
		return nil, errors.Wrapf(err, "failed to create working directory %s", dir)
	}

	m := &Manager{
		dir:      dir,
		registry: NewRegistry(),
		logger:   logger.WithComponent("tempfile"),
	}

	if err := m.probeWritable(); err != nil {
		return nil, err
	}

	return m, nil
}

// Dir returns the working directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// Registry returns the cleanup registry backing this manager.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Create reserves a temp file path for a recording and registers it for
// cleanup. The file itself is created empty so its age is observable even
// if the encoder never writes to it. Names follow the pattern
// recording_<timestamp>_<seq>.<ext>.
func (m *Manager) Create(recordingID, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return "", errors.NewValidationError("file extension cannot be empty").WithField("ext")
	}

	m.seq++
	name := fmt.Sprintf("%s%s_%03d.%s", tempPrefix, time.Now().Format(timestampLayout), m.seq, ext)
	path := filepath.Join(m.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsPermission(err) {
			return "", errors.NewPermissionError(m.dir)
		}
		return "", errors.Wrapf(err, "failed to create temp file %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to close temp file %s", path)
	}

	m.registry.Register(path, recordingID)
	m.logger.Debug("created temp file", "path", path, "recording_id", recordingID)
	return path, nil
}

// Finalize moves a completed temp file to its final destination and drops it
// from the cleanup registry. The move is an atomic rename when source and
// destination share a filesystem, with a copy fallback for cross-device moves.
func (m *Manager) Finalize(tempPath, finalPath string) error {
	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		return errors.Wrapf(err, "failed to create destination directory for %s", finalPath)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		// Rename fails across filesystems; fall back to copy and remove.
		if copyErr := copyFile(tempPath, finalPath); copyErr != nil {
			return errors.Wrapf(copyErr, "failed to move %s to %s", tempPath, finalPath)
		}
		if rmErr := os.Remove(tempPath); rmErr != nil {
			m.logger.Warn("finalized copy left source behind", "path", tempPath, "error", rmErr)
		}
	}

	m.registry.Unregister(tempPath)
	m.logger.Info("finalized recording file", "temp", tempPath, "final", finalPath)
	return nil
}

// Discard removes a temp file that will not be finalized, such as after a
// failed recording start. Missing files are not an error.
func (m *Manager) Discard(path string) error {
	m.registry.Unregister(path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to discard temp file %s", path)
	}
	m.logger.Debug("discarded temp file", "path", path)
	return nil
}

// CleanupAll removes every registered temp file. Files are removed in
// parallel; the returned error joins all individual failures and the count
// reports how many files were actually removed.
func (m *Manager) CleanupAll() (int, error) {
	return m.removeEntries(m.registry.TakeAll())
}

// SweepRegistry removes registered temp files older than maxAge. Recordings
// should never run this long, so anything this stale is leaked state from a
// crash or a hung encoder.
func (m *Manager) SweepRegistry(maxAge time.Duration) (int, error) {
	return m.removeEntries(m.registry.TakeStale(maxAge))
}

// removeEntries deletes the given files in parallel and reports the count
// of successful removals plus a joined error for the rest.
func (m *Manager) removeEntries(entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	var mu sync.Mutex
	var removed int
	var failed []string

	p := pool.New().WithErrors().WithMaxGoroutines(maxSweepWorkers)
	for _, e := range entries {
		p.Go(func() error {
			if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
				mu.Lock()
				failed = append(failed, e.Path)
				mu.Unlock()
				return errors.Wrapf(err, "failed to remove %s", e.Path)
			}
			mu.Lock()
			removed++
			mu.Unlock()
			return nil
		})
	}

	err := p.Wait()
	if err != nil {
		m.logger.Warn("cleanup sweep completed with failures", "removed", removed, "failed", len(failed))
		return removed, errors.NewCleanupError(
			fmt.Sprintf("removed %d of %d temp files", removed, len(entries)), err).WithPaths(failed...)
	}

	m.logger.Info("cleanup sweep completed", "removed", removed)
	return removed, nil
}

// CleanupOrphaned scans the working directory for temp files that are not in
// the registry and are older than maxAge, and removes them. Fresh unknown
// files are left alone since another process may still be writing them.
func (m *Manager) CleanupOrphaned(maxAge time.Duration) (int, error) {
	dirents, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to scan working directory %s", m.dir)
	}

	cutoff := time.Now().Add(-maxAge)
	var orphans []Entry
	for _, d := range dirents {
		if d.IsDir() || !strings.HasPrefix(d.Name(), tempPrefix) {
			continue
		}
		path := filepath.Join(m.dir, d.Name())
		if m.registry.Contains(path) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			orphans = append(orphans, Entry{Path: path})
		}
	}

	if len(orphans) > 0 {
		m.logger.Info("found orphaned temp files", "count", len(orphans))
	}
	return m.removeEntries(orphans)
}

// Watch starts a filesystem watcher on the working directory that registers
// any temp file created by an external process, so crashed helpers get swept
// up too. Call Close to stop it.
func (m *Manager) Watch() error {
	if m.watcher != nil {
		return nil
	}
	w, err := NewWatcher(m.dir, m.registry, m.logger)
	if err != nil {
		return err
	}
	m.watcher = w
	return nil
}

// Close removes every registered temp file and stops the directory watcher.
// A recording that was finalized or discarded is no longer registered, so
// only abandoned in-progress files are swept.
func (m *Manager) Close() error {
	_, cleanupErr := m.CleanupAll()
	if m.watcher != nil {
		err := m.watcher.Close()
		m.watcher = nil
		if err != nil {
			return err
		}
	}
	return cleanupErr
}

// probeWritable verifies the working directory accepts writes by creating,
// writing, and removing a probe file. Statfs alone cannot catch read-only
// mounts or ACL restrictions.
func (m *Manager) probeWritable() error {
	probe := filepath.Join(m.dir, ".clipforge-probe")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsPermission(err) {
			return errors.NewPermissionError(m.dir)
		}
		return errors.Wrapf(err, "working directory %s is not writable", m.dir)
	}
	_, writeErr := f.WriteString("probe")
	closeErr := f.Close()
	_ = os.Remove(probe)

	if writeErr != nil {
		return errors.Wrapf(writeErr, "working directory %s is not writable", m.dir)
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, "working directory %s is not writable", m.dir)
	}
	return nil
}

// copyFile copies src to dst, used when rename crosses filesystems.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
