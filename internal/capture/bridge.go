package capture

import "context"

// Backend is a platform frame producer. Implementations capture the screen
// and push frames into the queue they are given.
type Backend interface {
	// Available reports whether this backend can capture on this system,
	// with a reason when it cannot.
	Available() (bool, string)
	// Start begins capture, pushing frames into q until Stop is called or
	// the context ends.
	Start(ctx context.Context, q *FrameQueue) error
	// Pause suspends frame delivery without tearing down the capture session.
	Pause() error
	// Resume restarts frame delivery after Pause.
	Resume() error
	// Stop ends capture and releases platform resources.
	Stop() error
	// ProducesFrames reports whether this backend pushes frames into the
	// queue. When false, FFmpeg grabs the platform device directly and the
	// in-process pipeline is bypassed.
	ProducesFrames() bool
}

// FrameProcessor consumes frames from the pipeline, typically by writing
// them to the encoder.
type FrameProcessor interface {
	ProcessFrame(f Frame) error
}

// ProcessorFunc adapts a function to the FrameProcessor interface.
type ProcessorFunc func(f Frame) error

// ProcessFrame implements FrameProcessor.
func (fn ProcessorFunc) ProcessFrame(f Frame) error {
	return fn(f)
}
