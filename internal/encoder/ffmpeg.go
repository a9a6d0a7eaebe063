// Package encoder wraps the FFmpeg subprocess that turns captured frames
// into a video file. It owns binary discovery, argument construction, and
// the full process lifecycle including the escalating shutdown sequence.
package encoder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/clipforge/clipforge/internal/errors"
)

const probeTimeout = 5 * time.Second

// installInstructions maps GOOS to platform-appropriate FFmpeg install help.
var installInstructions = map[string]string{
	"darwin":  "Install FFmpeg via Homebrew: brew install ffmpeg",
	"linux":   "Install FFmpeg with your package manager, e.g. apt install ffmpeg",
	"windows": "Download FFmpeg from ffmpeg.org and add it to your PATH",
}

// extraSearchPaths are common install locations checked when the binary is
// not on PATH. Homebrew on Apple Silicon installs outside the default PATH
// of GUI-launched applications.
var extraSearchPaths = []string{
	"/opt/homebrew/bin/ffmpeg",
	"/usr/local/bin/ffmpeg",
	"/usr/bin/ffmpeg",
}

// FindFFmpeg locates the FFmpeg binary. An explicit override path is
// verified as-is; otherwise PATH is searched, then common install
// locations. Returns a DependencyError with install instructions when the
// binary cannot be found.
func FindFFmpeg(override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", errors.NewDependencyError("FFmpeg", installHelp()).
				WithDetail(fmt.Sprintf("configured path %s does not exist", override))
		}
		return override, nil
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, nil
	}

	for _, candidate := range extraSearchPaths {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", errors.NewDependencyError("FFmpeg", installHelp())
}

// installHelp returns install instructions for the current platform.
func installHelp() string {
	if help, ok := installInstructions[runtime.GOOS]; ok {
		return help
	}
	return "Install FFmpeg and ensure it is on your PATH"
}

// Version runs ffmpeg -version and returns the first line of output.
// Used by diagnostics to confirm the binary actually executes.
func Version(ffmpegPath string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath, "-version")
	out, err := cmd.Output()
	if ctx.Err() != nil {
		return "", errors.NewTimeoutError("ffmpeg -version", probeTimeout)
	}
	if err != nil {
		return "", errors.NewDependencyError("FFmpeg", installHelp()).
			WithDetail(fmt.Sprintf("%s -version failed: %v", ffmpegPath, err))
	}

	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// AvailableEncoders returns the set of video encoder names the FFmpeg build
// supports, parsed from ffmpeg -encoders output.
func AvailableEncoders(ffmpegPath string) (map[string]struct{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-encoders")
	var out bytes.Buffer
	cmd.Stdout = &out
	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, errors.NewTimeoutError("ffmpeg -encoders", probeTimeout)
	}
	if err != nil {
		return nil, errors.Wrap(err, "ffmpeg -encoders failed")
	}

	encoders := make(map[string]struct{})
	for _, line := range strings.Split(out.String(), "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 2 {
			continue
		}
		// Format: " V..... libx264 ..." where fields[0] is the flag column.
		if strings.Contains(fields[0], "V") {
			encoders[fields[1]] = struct{}{}
		}
	}
	return encoders, nil
}

// VerifyCodec checks that the FFmpeg build can encode with the library
// backing the given codec name. Returns ErrCodecNotSupported when not.
func VerifyCodec(ffmpegPath, codec string) error {
	lib, ok := codecLibraries[codec]
	if !ok {
		return errors.Wrapf(errors.ErrCodecNotSupported, "unknown codec %q", codec)
	}

	available, err := AvailableEncoders(ffmpegPath)
	if err != nil {
		// Cannot enumerate encoders; let the recording attempt surface the
		// real failure rather than blocking on a probe error.
		return nil
	}
	if _, ok := available[lib]; !ok {
		return errors.Wrapf(errors.ErrCodecNotSupported, "ffmpeg build lacks %s encoder (%s)", codec, lib)
	}
	return nil
}
