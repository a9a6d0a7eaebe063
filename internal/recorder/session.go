package recorder

import (
	"fmt"
	"time"
)

// Status is a recording session state.
type Status string

const (
	// StatusIdle means no session is active.
	StatusIdle Status = "idle"
	// StatusRecording means frames are being captured and encoded.
	StatusRecording Status = "recording"
	// StatusPaused means the session exists but elapsed time is frozen.
	StatusPaused Status = "paused"
	// StatusStopping means shutdown is in progress.
	StatusStopping Status = "stopping"
	// StatusError means the last session failed; a new one may be started.
	StatusError Status = "error"
)

// validTransitions enumerates the allowed state machine edges. Start is
// Idle/Error -> Recording; Stop covers both Recording and Paused.
var validTransitions = map[Status][]Status{
	StatusIdle:      {StatusRecording},
	StatusError:     {StatusRecording, StatusIdle},
	StatusRecording: {StatusPaused, StatusStopping},
	StatusPaused:    {StatusRecording, StatusStopping},
	StatusStopping:  {StatusIdle, StatusError},
}

// CanTransition reports whether the state machine allows moving from one
// status to another.
func CanTransition(from, to Status) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Session is one active recording.
type Session struct {
	// ID uniquely identifies the recording.
	ID string
	// Config is the validated session configuration.
	Config Config
	// TempPath is the in-progress recording file.
	TempPath string
	// StartTime is when encoding began.
	StartTime time.Time
	// PausedAt is when the current pause began; zero when not paused.
	PausedAt time.Time
	// AccumulatedPause is the total time spent paused in completed
	// pause/resume cycles.
	AccumulatedPause time.Duration
	// Status is the session's current state.
	Status Status
}

// newSessionID derives a recording ID from the wall clock.
func newSessionID(now time.Time) string {
	return fmt.Sprintf("rec_%d", now.UnixNano())
}

// Duration returns elapsed recording time excluding pauses. While paused,
// the value is frozen at the moment the pause began.
func (s *Session) Duration(now time.Time) time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}

	paused := s.AccumulatedPause
	if !s.PausedAt.IsZero() {
		paused += now.Sub(s.PausedAt)
	}

	d := now.Sub(s.StartTime) - paused
	if d < 0 {
		return 0
	}
	return d
}

// Snapshot is a point-in-time view of the orchestrator state, safe to hand
// out without holding any lock.
type Snapshot struct {
	RecordingID     string
	Status          Status
	DurationSeconds float64
	OutputPath      string
}

// snapshot builds a Snapshot for the session at the given time.
func (s *Session) snapshot(now time.Time) Snapshot {
	return Snapshot{
		RecordingID:     s.ID,
		Status:          s.Status,
		DurationSeconds: s.Duration(now).Seconds(),
		OutputPath:      s.TempPath,
	}
}
