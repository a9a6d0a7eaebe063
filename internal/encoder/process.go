package encoder

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/clipforge/clipforge/internal/errors"
	"github.com/clipforge/clipforge/internal/logging"
)

// Timeouts for the shutdown escalation sequence. These are defaults;
// Options can override them.
const (
	defaultQuitWriteWait = 500 * time.Millisecond
	defaultExitPollWait  = 5 * time.Second
	startupGraceWait     = 300 * time.Millisecond
	forceKillWait        = 2 * time.Second
)

// Options tunes process behavior beyond the encoding parameters.
type Options struct {
	// QuitWriteWait is how long to pause after sending the quit command
	// before checking for exit.
	QuitWriteWait time.Duration
	// ExitPollWait is how long to wait for exit after the quit command, and
	// again after the interrupt signal.
	ExitPollWait time.Duration
	// StderrTailLines is how many trailing stderr lines to keep for
	// error reports.
	StderrTailLines int
}

// fill replaces zero values with defaults.
func (o Options) fill() Options {
	if o.QuitWriteWait <= 0 {
		o.QuitWriteWait = defaultQuitWriteWait
	}
	if o.ExitPollWait <= 0 {
		o.ExitPollWait = defaultExitPollWait
	}
	if o.StderrTailLines <= 0 {
		o.StderrTailLines = 40
	}
	return o
}

// StopResult reports the outcome of stopping the encoder.
type StopResult struct {
	// OutputPath is the recording file, verified to exist and be non-empty.
	OutputPath string
	// Forced is true when the process had to be killed rather than exiting
	// on its own. The output is still usable thanks to fragmented output,
	// but the trailer may be missing.
	Forced bool
	// ExitCode is the process exit code, or -1 if killed.
	ExitCode int
}

// Process is one running FFmpeg encoding session.
type Process struct {
	params Params
	opts   Options
	logger *logging.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  *tailBuffer
	done    chan struct{}
	waitErr error
	stopped bool
}

// Start launches FFmpeg with the given parameters. It fails fast when the
// process exits within the startup grace period, which catches bad devices,
// missing permissions, and unwritable outputs before the caller believes
// recording has begun.
func Start(ffmpegPath string, params Params, opts Options, logger *logging.Logger) (*Process, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	opts = opts.fill()

	args := BuildArgs(params)
	cmd := exec.Command(ffmpegPath, args...)

	stderr := newTailBuffer(opts.StderrTailLines)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.NewCaptureError("init", "failed to open encoder stdin", err)
	}

	p := &Process{
		params: params,
		opts:   opts,
		logger: logger.WithComponent("encoder"),
		cmd:    cmd,
		stdin:  stdin,
		stderr: stderr,
		done:   make(chan struct{}),
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, errors.NewCaptureError("init", "failed to spawn encoder process", err).
			WithOutputPath(params.OutputPath)
	}

	p.logger.Info("encoder started",
		"pid", cmd.Process.Pid,
		"output", params.OutputPath,
		"codec", params.Codec,
		"size", params.Width*params.Height)

	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()

	// Fail fast on immediate exit
	select {
	case <-p.done:
		err := errors.NewCaptureError("init", "encoder exited during startup", p.waitErr).
			WithOutputPath(params.OutputPath).
			WithExitStatus(exitStatus(p.waitErr))
		if tail := stderr.Tail(); tail != "" {
			p.logger.Error("encoder startup failure", "stderr", tail)
		}
		return nil, err
	case <-time.After(startupGraceWait):
	}

	return p, nil
}

// Alive reports whether the encoder process is still running.
func (p *Process) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Pid returns the encoder process ID, or 0 if it never started.
func (p *Process) Pid() int {
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// StderrTail returns the retained trailing stderr output.
func (p *Process) StderrTail() string {
	return p.stderr.Tail()
}

// WriteFrame sends one raw RGBA frame to the encoder. Only valid in
// InputRawFrames mode. Frame length must be exactly width*height*4.
func (p *Process) WriteFrame(frame []byte) error {
	if p.params.InputMode != InputRawFrames {
		return errors.New("WriteFrame requires raw frame input mode")
	}

	expected := p.params.Width * p.params.Height * 4
	if len(frame) != expected {
		return errors.Wrapf(errors.ErrFrameSizeMismatch,
			"frame is %d bytes, want %d (%dx%d RGBA)",
			len(frame), expected, p.params.Width, p.params.Height)
	}

	if !p.Alive() {
		return errors.ErrEncoderTerminated
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return errors.ErrEncoderTerminated
	}

	if _, err := p.stdin.Write(frame); err != nil {
		// A broken pipe means the encoder died mid-recording
		if errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) {
			return errors.ErrEncoderTerminated
		}
		return errors.Wrap(err, "failed to write frame to encoder")
	}
	return nil
}

// Stop shuts down the encoder, escalating until the process is gone:
//
//  1. Ask FFmpeg to finish: write 'q' in device mode, or close stdin in raw
//     frame mode, then give it a moment to react.
//  2. Poll for exit.
//  3. Send an interrupt signal and poll again.
//  4. Kill the process and sweep any orphaned encoder processes writing to
//     the same output.
//  5. Verify the outcome: a clean exit (or a forced kill) with a non-empty
//     output file succeeds; anything else is a stop failure.
//
// Stop is safe to call once; further calls return the terminated sentinel.
func (p *Process) Stop(ctx context.Context) (StopResult, error) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return StopResult{}, errors.ErrEncoderTerminated
	}
	p.stopped = true
	p.mu.Unlock()

	forced := false

	// Stage 1: polite quit
	p.requestQuit()

	select {
	case <-p.done:
	case <-time.After(p.opts.QuitWriteWait):
	case <-ctx.Done():
		return StopResult{}, errors.Wrap(ctx.Err(), "stop canceled during quit request")
	}

	// Stage 2: poll for exit
	if !p.waitExit(ctx, p.opts.ExitPollWait) {
		// Stage 3: interrupt
		p.logger.Warn("encoder ignored quit command, sending interrupt", "pid", p.Pid())
		if err := interruptProcess(p.cmd.Process); err != nil {
			p.logger.Warn("interrupt failed", "error", err)
		}
		if !p.waitExit(ctx, p.opts.ExitPollWait) {
			// Stage 4: force kill
			p.logger.Warn("encoder ignored interrupt, killing", "pid", p.Pid())
			forced = true
			if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				p.logger.Error("kill failed", "error", err)
			}
			if !p.waitExit(ctx, forceKillWait) {
				return StopResult{}, errors.NewCaptureError("stop", "encoder survived kill", nil).
					WithOutputPath(p.params.OutputPath)
			}
			sweepOrphans(p.params.OutputPath, p.logger)
		}
	}

	return p.verifyResult(forced)
}

// requestQuit asks FFmpeg to finish writing and exit. In device mode FFmpeg
// watches stdin for 'q'; stdin is closed right after the write so an encoder
// waiting on end of input finalizes too. In raw frame mode closing stdin
// alone signals end of input.
func (p *Process) requestQuit() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.params.InputMode != InputRawFrames {
		if _, err := io.WriteString(p.stdin, "q"); err != nil {
			p.logger.Debug("quit write failed, process likely exited", "error", err)
		}
	}
	if err := p.stdin.Close(); err != nil {
		p.logger.Debug("stdin close during quit", "error", err)
	}
}

// waitExit waits up to timeout for the process to exit.
func (p *Process) waitExit(ctx context.Context, timeout time.Duration) bool {
	select {
	case <-p.done:
		return true
	case <-time.After(timeout):
		return false
	case <-ctx.Done():
		return false
	}
}

// verifyResult checks the exit status and output file after the process has
// exited. A non-zero exit only fails the stop when the process exited on
// its own; a forced kill always reports non-zero and is judged by the file
// instead.
func (p *Process) verifyResult(forced bool) (StopResult, error) {
	exitCode := 0
	if p.waitErr != nil {
		exitCode = -1
		var exitErr *exec.ExitError
		if errors.As(p.waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
	}

	if !forced && exitCode != 0 {
		return StopResult{}, errors.NewCaptureError("stop", "encoder exited abnormally", p.waitErr).
			WithOutputPath(p.params.OutputPath).
			WithExitStatus(exitStatus(p.waitErr))
	}

	info, err := os.Stat(p.params.OutputPath)
	if err != nil {
		return StopResult{}, errors.NewCaptureError("stop", "recording file is missing", err).
			WithOutputPath(p.params.OutputPath)
	}
	if info.Size() == 0 {
		return StopResult{}, errors.NewCaptureError("stop", "recording file is empty", nil).
			WithOutputPath(p.params.OutputPath)
	}

	p.logger.Info("encoder stopped",
		"output", p.params.OutputPath,
		"size_bytes", info.Size(),
		"forced", forced,
		"exit_code", exitCode)

	return StopResult{
		OutputPath: p.params.OutputPath,
		Forced:     forced,
		ExitCode:   exitCode,
	}, nil
}

// Close tears the process down without output verification, for abandoning
// a session. Safe to call after Stop.
func (p *Process) Close() error {
	p.mu.Lock()
	alreadyStopped := p.stopped
	p.stopped = true
	p.mu.Unlock()

	if !p.Alive() {
		return nil
	}
	if !alreadyStopped {
		p.requestQuit()
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(time.Second):
	}

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return errors.Wrap(err, "failed to kill encoder")
	}
	<-p.done
	return nil
}

// exitStatus renders a wait error as a short status string.
func exitStatus(err error) string {
	if err == nil {
		return "0"
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.String()
	}
	return err.Error()
}
