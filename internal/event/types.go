package event

import "time"

// Event types for recording lifecycle changes
const (
	TypeRecordingStarted = "recording.started"
	TypeRecordingPaused  = "recording.paused"
	TypeRecordingResumed = "recording.resumed"
	TypeRecordingStopped = "recording.stopped"
	TypeRecordingFailed  = "recording.failed"
	TypeDurationUpdate   = "recording.duration-update"
	TypeCleanupCompleted = "cleanup.completed"
	TypeDiskSpaceWarning = "disk.space-warning"
)

// Event is the interface all events must implement.
type Event interface {
	EventType() string
	Timestamp() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type string
	Time time.Time
}

// EventType returns the event type string.
func (e BaseEvent) EventType() string { return e.Type }

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// newBase creates a BaseEvent with the current time.
func newBase(eventType string) BaseEvent {
	return BaseEvent{Type: eventType, Time: time.Now()}
}

// RecordingStartedEvent is published when a recording session begins.
type RecordingStartedEvent struct {
	BaseEvent
	RecordingID string
	OutputPath  string
	Width       int
	Height      int
	FPS         int
}

// NewRecordingStartedEvent creates a recording started event.
func NewRecordingStartedEvent(recordingID, outputPath string, width, height, fps int) RecordingStartedEvent {
	return RecordingStartedEvent{
		BaseEvent:   newBase(TypeRecordingStarted),
		RecordingID: recordingID,
		OutputPath:  outputPath,
		Width:       width,
		Height:      height,
		FPS:         fps,
	}
}

// RecordingPausedEvent is published when a recording session is paused.
type RecordingPausedEvent struct {
	BaseEvent
	RecordingID     string
	DurationSeconds float64
}

// NewRecordingPausedEvent creates a recording paused event.
func NewRecordingPausedEvent(recordingID string, durationSeconds float64) RecordingPausedEvent {
	return RecordingPausedEvent{
		BaseEvent:       newBase(TypeRecordingPaused),
		RecordingID:     recordingID,
		DurationSeconds: durationSeconds,
	}
}

// RecordingResumedEvent is published when a paused recording resumes.
type RecordingResumedEvent struct {
	BaseEvent
	RecordingID     string
	DurationSeconds float64
}

// NewRecordingResumedEvent creates a recording resumed event.
func NewRecordingResumedEvent(recordingID string, durationSeconds float64) RecordingResumedEvent {
	return RecordingResumedEvent{
		BaseEvent:       newBase(TypeRecordingResumed),
		RecordingID:     recordingID,
		DurationSeconds: durationSeconds,
	}
}

// RecordingStoppedEvent is published when a recording session ends and the
// output file has been finalized.
type RecordingStoppedEvent struct {
	BaseEvent
	RecordingID     string
	OutputPath      string
	DurationSeconds float64
}

// NewRecordingStoppedEvent creates a recording stopped event.
func NewRecordingStoppedEvent(recordingID, outputPath string, durationSeconds float64) RecordingStoppedEvent {
	return RecordingStoppedEvent{
		BaseEvent:       newBase(TypeRecordingStopped),
		RecordingID:     recordingID,
		OutputPath:      outputPath,
		DurationSeconds: durationSeconds,
	}
}

// RecordingFailedEvent is published when a recording session fails, either
// during startup or mid-recording.
type RecordingFailedEvent struct {
	BaseEvent
	RecordingID string
	Message     string
	Suggestion  string
}

// NewRecordingFailedEvent creates a recording failed event.
func NewRecordingFailedEvent(recordingID, message, suggestion string) RecordingFailedEvent {
	return RecordingFailedEvent{
		BaseEvent:   newBase(TypeRecordingFailed),
		RecordingID: recordingID,
		Message:     message,
		Suggestion:  suggestion,
	}
}

// DurationUpdateEvent is published roughly once per second while a recording
// is active. DurationSeconds excludes paused time.
type DurationUpdateEvent struct {
	BaseEvent
	RecordingID     string
	Status          string
	DurationSeconds float64
}

// NewDurationUpdateEvent creates a duration update event.
func NewDurationUpdateEvent(recordingID, status string, durationSeconds float64) DurationUpdateEvent {
	return DurationUpdateEvent{
		BaseEvent:       newBase(TypeDurationUpdate),
		RecordingID:     recordingID,
		Status:          status,
		DurationSeconds: durationSeconds,
	}
}

// CleanupCompletedEvent is published after a temp file cleanup sweep.
type CleanupCompletedEvent struct {
	BaseEvent
	RemovedCount int
	FailedPaths  []string
}

// NewCleanupCompletedEvent creates a cleanup completed event.
func NewCleanupCompletedEvent(removedCount int, failedPaths []string) CleanupCompletedEvent {
	return CleanupCompletedEvent{
		BaseEvent:    newBase(TypeCleanupCompleted),
		RemovedCount: removedCount,
		FailedPaths:  failedPaths,
	}
}

// DiskSpaceWarningEvent is published when available disk space in the working
// directory drops below a warning threshold.
type DiskSpaceWarningEvent struct {
	BaseEvent
	AvailableMB      uint64
	EstimatedMinutes float64
	Level            string
}

// NewDiskSpaceWarningEvent creates a disk space warning event.
func NewDiskSpaceWarningEvent(availableMB uint64, estimatedMinutes float64, level string) DiskSpaceWarningEvent {
	return DiskSpaceWarningEvent{
		BaseEvent:        newBase(TypeDiskSpaceWarning),
		AvailableMB:      availableMB,
		EstimatedMinutes: estimatedMinutes,
		Level:            level,
	}
}
