package capture

import (
	"context"
	"runtime"
)

// PassthroughBackend is the backend used when FFmpeg grabs the screen
// directly from the platform device. No frames flow through the in-process
// pipeline; the backend exists so the orchestrator has one lifecycle to
// drive regardless of input mode.
type PassthroughBackend struct{}

// Available implements Backend. Device capture works wherever FFmpeg has a
// grabber for the platform.
func (PassthroughBackend) Available() (bool, string) {
	switch runtime.GOOS {
	case "darwin", "windows", "linux":
		return true, ""
	default:
		return false, "no capture device support on " + runtime.GOOS
	}
}

// Start implements Backend as a no-op; FFmpeg reads the device itself.
func (PassthroughBackend) Start(ctx context.Context, q *FrameQueue) error { return nil }

// Pause implements Backend. Device-mode pause is handled by the recorder
// state machine; the grabber keeps running.
func (PassthroughBackend) Pause() error { return nil }

// Resume implements Backend.
func (PassthroughBackend) Resume() error { return nil }

// Stop implements Backend.
func (PassthroughBackend) Stop() error { return nil }

// ProducesFrames implements Backend; no frames flow through the pipeline.
func (PassthroughBackend) ProducesFrames() bool { return false }
