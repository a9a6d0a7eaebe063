package recorder

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/clipforge/clipforge/internal/capture"
	"github.com/clipforge/clipforge/internal/encoder"
	"github.com/clipforge/clipforge/internal/errors"
	"github.com/clipforge/clipforge/internal/event"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/source"
	"github.com/clipforge/clipforge/internal/tempfile"
)

// Options configures an Orchestrator.
type Options struct {
	// FFmpegPath is the encoder binary, from encoder.FindFFmpeg.
	FFmpegPath string
	// Files manages the working directory for in-progress recordings.
	Files *tempfile.Manager
	// Bus receives lifecycle and duration events. Nil creates a private bus.
	Bus *event.Bus
	// Enumerator lists capture sources. Nil uses the platform default.
	Enumerator source.Enumerator
	// Logger for structured output. Nil discards.
	Logger *logging.Logger
	// Encoder tunes subprocess timeouts.
	Encoder encoder.Options
	// Capture is the frame source driven alongside the encoder. Nil uses
	// the passthrough backend, where FFmpeg grabs the platform device
	// directly. A frame-producing backend switches the encoder to raw
	// stdin input fed through the frame queue.
	Capture capture.Backend
	// QueueCapacity bounds the raw frame pipeline. Zero uses 60 frames.
	QueueCapacity int
	// MinFreeMB is the disk space floor checked before starting. Zero uses
	// the 500 MB default.
	MinFreeMB uint64
	// SkipCodecCheck bypasses the ffmpeg encoder probe at start. Tests use
	// it with fake encoder binaries.
	SkipCodecCheck bool
}

const (
	defaultMinFreeMB     = 500
	defaultQueueCapacity = 60
)

// Orchestrator runs at most one recording session at a time and owns the
// session state machine. All mutations happen under one lock; events are
// published and the encoder shutdown escalation runs outside it so handlers
// and slow processes can never deadlock the recorder.
type Orchestrator struct {
	ffmpegPath     string
	files          *tempfile.Manager
	bus            *event.Bus
	enum           source.Enumerator
	logger         *logging.Logger
	encOpts        encoder.Options
	backend        capture.Backend
	queueCap       int
	minFreeMB      uint64
	skipCodecCheck bool

	mu      sync.Mutex
	status  Status
	sess    *Session
	proc    *encoder.Process
	poller  *capture.Poller
	track   *tracker
	lastErr error
}

// New creates an Orchestrator in the idle state.
func New(opts Options) (*Orchestrator, error) {
	if opts.FFmpegPath == "" {
		return nil, errors.NewValidationError("ffmpeg path is required").WithField("ffmpeg_path")
	}
	if opts.Files == nil {
		return nil, errors.NewValidationError("temp file manager is required").WithField("files")
	}
	if opts.Bus == nil {
		opts.Bus = event.NewBus()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.MinFreeMB == 0 {
		opts.MinFreeMB = defaultMinFreeMB
	}
	if opts.Capture == nil {
		opts.Capture = capture.PassthroughBackend{}
	}
	if opts.QueueCapacity <= 0 {
		opts.QueueCapacity = defaultQueueCapacity
	}

	return &Orchestrator{
		ffmpegPath:     opts.FFmpegPath,
		files:          opts.Files,
		bus:            opts.Bus,
		enum:           opts.Enumerator,
		logger:         opts.Logger.WithComponent("orchestrator"),
		encOpts:        opts.Encoder,
		backend:        opts.Capture,
		queueCap:       opts.QueueCapacity,
		minFreeMB:      opts.MinFreeMB,
		skipCodecCheck: opts.SkipCodecCheck,
		status:         StatusIdle,
	}, nil
}

// Bus returns the event bus lifecycle events are published on.
func (o *Orchestrator) Bus() *event.Bus {
	return o.bus
}

// Start begins a new recording session. The start is atomic: either the
// session reaches the recording state with a live encoder and a registered
// temp file, or no state changes at all and the temp file is discarded.
// Exactly one of two concurrent Start calls can win; the loser gets
// ErrAlreadyRecording.
func (o *Orchestrator) Start(cfg Config) (Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return Snapshot{}, err
	}

	o.mu.Lock()

	switch o.status {
	case StatusRecording, StatusPaused, StatusStopping:
		id := ""
		if o.sess != nil {
			id = o.sess.ID
		}
		o.mu.Unlock()
		return Snapshot{}, errors.Wrapf(errors.ErrAlreadyRecording, "session %s is active", id)
	}

	snap, err := o.startLocked(cfg)
	o.mu.Unlock()

	if err != nil {
		o.publishFailure("", err)
		return Snapshot{}, err
	}

	o.bus.Publish(event.NewRecordingStartedEvent(
		snap.RecordingID, snap.OutputPath, cfg.Width, cfg.Height, cfg.FPS))
	return snap, nil
}

// startLocked performs the start sequence under the orchestrator lock.
func (o *Orchestrator) startLocked(cfg Config) (Snapshot, error) {
	if err := o.files.CheckDiskSpace(o.minFreeMB); err != nil {
		return Snapshot{}, err
	}

	if !o.skipCodecCheck {
		if err := encoder.VerifyCodec(o.ffmpegPath, cfg.Codec); err != nil {
			return Snapshot{}, err
		}
	}

	if ok, reason := o.backend.Available(); !ok {
		return Snapshot{}, errors.NewHardwareError(reason)
	}

	placement, err := o.resolvePlacement(cfg)
	if err != nil {
		return Snapshot{}, err
	}

	id := newSessionID(time.Now())

	tempPath, err := o.files.Create(id, cfg.Format)
	if err != nil {
		return Snapshot{}, err
	}

	rawFrames := o.backend.ProducesFrames()
	inputMode := encoder.InputDevice
	if rawFrames {
		inputMode = encoder.InputRawFrames
	}

	params := encoder.Params{
		Width:             cfg.Width,
		Height:            cfg.Height,
		FPS:               cfg.FPS,
		BitrateKbps:       cfg.BitrateKbps,
		Codec:             cfg.Codec,
		Format:            cfg.Format,
		OutputPath:        tempPath,
		InputMode:         inputMode,
		CaptureCursor:     cfg.CaptureCursor,
		CaptureAudio:      cfg.CaptureAudio,
		AudioCodec:        cfg.AudioCodec,
		AudioBitrateKbps:  cfg.AudioBitrateKbps,
		AudioSampleRateHz: cfg.AudioSampleRateHz,
		AudioChannels:     cfg.AudioChannels,
		DeviceInput:       placement.Screen.DeviceInput,
		Crop: encoder.CropRect{
			X: placement.Crop.X, Y: placement.Crop.Y,
			Width: placement.Crop.Width, Height: placement.Crop.Height,
		},
	}

	proc, err := encoder.Start(o.ffmpegPath, params, o.encOpts, o.logger.WithRecording(id))
	if err != nil {
		o.failStart(tempPath, err)
		return Snapshot{}, err
	}

	var poller *capture.Poller
	if rawFrames {
		queue := capture.NewFrameQueue(o.queueCap)
		poller = capture.NewPoller(queue, capture.ProcessorFunc(func(f capture.Frame) error {
			return proc.WriteFrame(f.Data)
		}), o.logger.WithRecording(id))
		poller.Start()

		if err := o.backend.Start(context.Background(), queue); err != nil {
			poller.Stop()
			proc.Close()
			o.failStart(tempPath, err)
			return Snapshot{}, err
		}
	} else if err := o.backend.Start(context.Background(), nil); err != nil {
		proc.Close()
		o.failStart(tempPath, err)
		return Snapshot{}, err
	}

	// The clock starts only once the encoder and capture backend are up, so
	// spawn and startup-probe time never counts toward the duration
	started := time.Now()

	o.sess = &Session{
		ID:        id,
		Config:    cfg,
		TempPath:  tempPath,
		StartTime: started,
		Status:    StatusRecording,
	}
	o.proc = proc
	o.poller = poller
	o.status = StatusRecording
	o.lastErr = nil
	o.track = newTracker(o.activeSnapshot, o.bus)

	o.logger.Info("recording started",
		"recording_id", id, "temp", tempPath,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), "fps", cfg.FPS)

	return o.sess.snapshot(started), nil
}

// failStart rolls back a partially started session so a failed start leaves
// nothing behind beyond the error state.
func (o *Orchestrator) failStart(tempPath string, err error) {
	if derr := o.files.Discard(tempPath); derr != nil {
		o.logger.Warn("failed to discard temp file after start failure",
			"path", tempPath, "error", derr)
	}
	o.status = StatusError
	o.lastErr = err
}

// resolvePlacement maps the config's source selection to a screen and crop.
func (o *Orchestrator) resolvePlacement(cfg Config) (source.Placement, error) {
	enum := o.enum
	if enum == nil {
		enum = source.Default(cfg.Width, cfg.Height)
	}

	switch cfg.Type {
	case TypeWindow:
		return source.ResolveWindow(enum, cfg.WindowID)
	case TypeWebcam:
		// Webcam capture rides the same device input path but needs a
		// camera device; only avfoundation exposes one through this API.
		return source.Placement{}, errors.NewHardwareError("webcam")
	default:
		return source.ResolveScreen(enum, cfg.ScreenID)
	}
}

// Pause freezes the session's elapsed time. Only valid while recording.
func (o *Orchestrator) Pause() (Snapshot, error) {
	o.mu.Lock()

	if o.sess == nil {
		o.mu.Unlock()
		return Snapshot{}, errors.ErrNoActiveRecording
	}
	if o.status != StatusRecording {
		status := o.status
		o.mu.Unlock()
		return Snapshot{}, errors.Wrapf(errors.ErrInvalidTransition, "cannot pause while %s", status)
	}

	now := time.Now()
	o.sess.PausedAt = now
	o.sess.Status = StatusPaused
	o.status = StatusPaused
	snap := o.sess.snapshot(now)
	poller := o.poller

	o.mu.Unlock()

	if poller != nil {
		poller.Pause()
	}
	if err := o.backend.Pause(); err != nil {
		o.logger.Warn("capture backend pause failed", "error", err)
	}

	o.logger.Info("recording paused", "recording_id", snap.RecordingID,
		"duration_s", snap.DurationSeconds)
	o.bus.Publish(event.NewRecordingPausedEvent(snap.RecordingID, snap.DurationSeconds))
	return snap, nil
}

// Resume continues a paused session. The time spent paused is excluded from
// the recording duration.
func (o *Orchestrator) Resume() (Snapshot, error) {
	o.mu.Lock()

	if o.sess == nil {
		o.mu.Unlock()
		return Snapshot{}, errors.ErrNoActiveRecording
	}
	if o.status != StatusPaused {
		status := o.status
		o.mu.Unlock()
		return Snapshot{}, errors.Wrapf(errors.ErrInvalidTransition, "cannot resume while %s", status)
	}

	now := time.Now()
	o.sess.AccumulatedPause += now.Sub(o.sess.PausedAt)
	o.sess.PausedAt = time.Time{}
	o.sess.Status = StatusRecording
	o.status = StatusRecording
	snap := o.sess.snapshot(now)
	poller := o.poller

	o.mu.Unlock()

	if err := o.backend.Resume(); err != nil {
		o.logger.Warn("capture backend resume failed", "error", err)
	}
	if poller != nil {
		poller.Resume()
	}

	o.logger.Info("recording resumed", "recording_id", snap.RecordingID)
	o.bus.Publish(event.NewRecordingResumedEvent(snap.RecordingID, snap.DurationSeconds))
	return snap, nil
}

// Stop ends the session, runs the encoder shutdown escalation, and moves
// the finished file to its destination. The escalation runs outside the
// orchestrator lock; State and the duration tracker stay responsive while
// a stubborn encoder is being put down.
func (o *Orchestrator) Stop(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()

	if o.sess == nil {
		o.mu.Unlock()
		return Snapshot{}, errors.ErrNoActiveRecording
	}
	if o.status == StatusStopping {
		o.mu.Unlock()
		return Snapshot{}, errors.Wrap(errors.ErrInvalidTransition, "stop already in progress")
	}

	now := time.Now()
	// Close out a live pause so the final duration is settled before the
	// potentially slow shutdown
	if !o.sess.PausedAt.IsZero() {
		o.sess.AccumulatedPause += now.Sub(o.sess.PausedAt)
		o.sess.PausedAt = time.Time{}
	}
	o.sess.Status = StatusStopping
	o.status = StatusStopping

	sess := o.sess
	proc := o.proc
	poller := o.poller
	track := o.track
	o.track = nil
	o.poller = nil

	o.mu.Unlock()

	if track != nil {
		track.Stop()
	}

	// Stop the frame source before the encoder so stdin sees EOF cleanly
	if err := o.backend.Stop(); err != nil {
		o.logger.Warn("capture backend stop failed", "error", err)
	}
	if poller != nil {
		poller.Stop()
	}

	result, stopErr := proc.Stop(ctx)

	o.mu.Lock()

	if stopErr != nil {
		o.status = StatusError
		o.lastErr = stopErr
		o.sess = nil
		o.proc = nil
		o.mu.Unlock()

		o.logger.Error("recording stop failed", "recording_id", sess.ID, "error", stopErr)
		o.publishFailure(sess.ID, stopErr)
		return Snapshot{}, stopErr
	}

	finalPath := o.finalDestination(sess)
	if err := o.files.Finalize(result.OutputPath, finalPath); err != nil {
		o.status = StatusError
		o.lastErr = err
		o.sess = nil
		o.proc = nil
		o.mu.Unlock()

		o.publishFailure(sess.ID, err)
		return Snapshot{}, err
	}

	duration := sess.Duration(now)
	o.status = StatusIdle
	o.sess = nil
	o.proc = nil
	o.lastErr = nil
	o.mu.Unlock()

	snap := Snapshot{
		RecordingID:     sess.ID,
		Status:          StatusIdle,
		DurationSeconds: duration.Seconds(),
		OutputPath:      finalPath,
	}

	o.logger.Info("recording stopped",
		"recording_id", sess.ID, "output", finalPath,
		"duration_s", snap.DurationSeconds, "forced", result.Forced)
	o.bus.Publish(event.NewRecordingStoppedEvent(sess.ID, finalPath, snap.DurationSeconds))
	return snap, nil
}

// finalDestination picks the finished recording's path.
func (o *Orchestrator) finalDestination(sess *Session) string {
	if sess.Config.OutputPath != "" {
		return sess.Config.OutputPath
	}

	dir := sess.Config.SaveDir
	if dir == "" {
		dir = o.files.Dir()
	}
	name := fmt.Sprintf("clip_%s.%s",
		sess.StartTime.Format("20060102_150405"), sess.Config.Format)
	return filepath.Join(dir, name)
}

// State returns the current orchestrator state. Safe to call at any time,
// including mid-stop.
func (o *Orchestrator) State() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil {
		return Snapshot{Status: o.status}
	}
	return o.sess.snapshot(time.Now())
}

// LastError returns the error that put the orchestrator in the error state,
// or nil.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// activeSnapshot is the tracker's view: the session snapshot and whether
// a session is still running.
func (o *Orchestrator) activeSnapshot() (Snapshot, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil || (o.status != StatusRecording && o.status != StatusPaused) {
		return Snapshot{}, false
	}
	return o.sess.snapshot(time.Now()), true
}

// publishFailure emits a failure event carrying the user-facing message and
// recovery suggestion for the error.
func (o *Orchestrator) publishFailure(recordingID string, err error) {
	o.bus.Publish(event.NewRecordingFailedEvent(
		recordingID, err.Error(), errors.RecoverySuggestion(err)))
}

// Shutdown stops any active session and tears down the tracker. Used on
// application exit; stop failures are logged but not returned since there
// is nothing left to do about them.
func (o *Orchestrator) Shutdown(ctx context.Context) {
	o.mu.Lock()
	active := o.sess != nil && o.status != StatusStopping
	o.mu.Unlock()

	if active {
		if _, err := o.Stop(ctx); err != nil {
			o.logger.Warn("shutdown stop failed", "error", err)
		}
	}
}
