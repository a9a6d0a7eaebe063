// Package recorder coordinates a recording session end to end: it validates
// the session configuration, reserves the temp file, drives the encoder, and
// runs the single-active-session state machine.
package recorder

import (
	"fmt"
	"slices"

	"github.com/clipforge/clipforge/internal/errors"
)

// Type selects what is being recorded.
type Type string

const (
	TypeScreen Type = "screen"
	TypeWindow Type = "window"
	TypeWebcam Type = "webcam"
)

// supportedCodecs maps each container format to the codecs it may carry.
var supportedCodecs = map[string][]string{
	"mp4":  {"h264", "hevc"},
	"mov":  {"h264", "hevc"},
	"webm": {"vp9"},
}

// supportedAudioCodecs maps each container format to the audio codecs it
// may carry.
var supportedAudioCodecs = map[string][]string{
	"mp4":  {"aac", "mp3"},
	"mov":  {"aac", "mp3"},
	"webm": {"vorbis", "opus"},
}

// Dimension and rate limits for a recording session.
const (
	MinDimension = 1
	MaxDimension = 7680
	MinFPS       = 1
	MaxFPS       = 120
	MinBitrate   = 1
	MaxBitrate   = 100000

	MinAudioSampleRate = 8000
	MaxAudioSampleRate = 192000
	MinAudioChannels   = 1
	MaxAudioChannels   = 8
	MinAudioBitrate    = 1
	MaxAudioBitrate    = 512
)

// Config describes one recording session.
type Config struct {
	// Width and Height are the capture dimensions in pixels.
	Width  int
	Height int
	// FPS is the capture frame rate.
	FPS int
	// BitrateKbps is the video bitrate in kilobits per second.
	BitrateKbps int
	// Format is the container: "mp4", "mov", or "webm".
	Format string
	// Codec is the video codec: "h264", "hevc", or "vp9". Must be
	// compatible with Format.
	Codec string

	// Type selects screen, window, or webcam recording.
	Type Type
	// ScreenID picks a display for screen recordings. Empty means primary.
	ScreenID string
	// WindowID picks a window for window recordings.
	WindowID string

	// CaptureCursor includes the mouse cursor.
	CaptureCursor bool
	// CaptureAudio includes system audio. The audio fields below are only
	// consulted when it is set.
	CaptureAudio bool

	// AudioSampleRateHz is the audio sample rate.
	AudioSampleRateHz int
	// AudioChannels is the channel count, 1 for mono through 8 for surround.
	AudioChannels int
	// AudioBitrateKbps is the audio bitrate in kilobits per second.
	AudioBitrateKbps int
	// AudioCodec must be compatible with Format: "aac" or "mp3" for mp4 and
	// mov, "vorbis" or "opus" for webm.
	AudioCodec string

	// SaveDir is where the finished recording lands.
	SaveDir string
	// OutputPath overrides the generated destination file name. When empty
	// the name is derived from the recording timestamp.
	OutputPath string
}

// Validate checks ranges and container/codec compatibility. The first
// problem found is returned as a ValidationError.
func (c Config) Validate() error {
	if c.Width < MinDimension || c.Width > MaxDimension {
		return errors.NewValidationError(
			fmt.Sprintf("width must be between %d and %d pixels", MinDimension, MaxDimension)).
			WithField("width").WithValue(c.Width)
	}
	if c.Height < MinDimension || c.Height > MaxDimension {
		return errors.NewValidationError(
			fmt.Sprintf("height must be between %d and %d pixels", MinDimension, MaxDimension)).
			WithField("height").WithValue(c.Height)
	}
	if c.FPS < MinFPS || c.FPS > MaxFPS {
		return errors.NewValidationError(
			fmt.Sprintf("frame rate must be between %d and %d fps", MinFPS, MaxFPS)).
			WithField("fps").WithValue(c.FPS)
	}
	if c.BitrateKbps < MinBitrate || c.BitrateKbps > MaxBitrate {
		return errors.NewValidationError(
			fmt.Sprintf("bitrate must be between %d and %d kbps", MinBitrate, MaxBitrate)).
			WithField("bitrate_kbps").WithValue(c.BitrateKbps)
	}

	codecs, ok := supportedCodecs[c.Format]
	if !ok {
		return errors.NewValidationError(
			fmt.Sprintf("unknown container format %q", c.Format)).
			WithField("format").WithValue(c.Format)
	}
	if !slices.Contains(codecs, c.Codec) {
		return errors.NewValidationError(
			fmt.Sprintf("codec %q cannot be used in a %s container", c.Codec, c.Format)).
			WithField("codec").WithValue(c.Codec)
	}

	if c.CaptureAudio {
		if c.AudioSampleRateHz < MinAudioSampleRate || c.AudioSampleRateHz > MaxAudioSampleRate {
			return errors.NewValidationError(
				fmt.Sprintf("audio sample rate must be between %d and %d Hz", MinAudioSampleRate, MaxAudioSampleRate)).
				WithField("audio_sample_rate_hz").WithValue(c.AudioSampleRateHz)
		}
		if c.AudioChannels < MinAudioChannels || c.AudioChannels > MaxAudioChannels {
			return errors.NewValidationError(
				fmt.Sprintf("audio channel count must be between %d and %d", MinAudioChannels, MaxAudioChannels)).
				WithField("audio_channels").WithValue(c.AudioChannels)
		}
		if c.AudioBitrateKbps < MinAudioBitrate || c.AudioBitrateKbps > MaxAudioBitrate {
			return errors.NewValidationError(
				fmt.Sprintf("audio bitrate must be between %d and %d kbps", MinAudioBitrate, MaxAudioBitrate)).
				WithField("audio_bitrate_kbps").WithValue(c.AudioBitrateKbps)
		}
		if !slices.Contains(supportedAudioCodecs[c.Format], c.AudioCodec) {
			return errors.NewValidationError(
				fmt.Sprintf("audio codec %q cannot be used in a %s container", c.AudioCodec, c.Format)).
				WithField("audio_codec").WithValue(c.AudioCodec)
		}
	}

	switch c.Type {
	case TypeScreen, TypeWindow, TypeWebcam, "":
	default:
		return errors.NewValidationError(
			fmt.Sprintf("unknown recording type %q", c.Type)).
			WithField("type").WithValue(string(c.Type))
	}
	if c.Type == TypeWindow && c.WindowID == "" {
		return errors.NewValidationError("window recordings require a window id").
			WithField("window_id")
	}

	return nil
}

// SupportedCodecs returns the codecs a container format can carry, or nil
// for an unknown format.
func SupportedCodecs(format string) []string {
	return slices.Clone(supportedCodecs[format])
}

// SupportedAudioCodecs returns the audio codecs a container format can
// carry, or nil for an unknown format.
func SupportedAudioCodecs(format string) []string {
	return slices.Clone(supportedAudioCodecs[format])
}

// Preset names accepted by PresetConfig.
const (
	PresetLow    = "low"
	PresetMedium = "medium"
	PresetHigh   = "high"
)

// PresetConfig returns a Config for a named quality preset. Unknown names
// fall back to medium. Every preset carries audio defaults so enabling
// CaptureAudio needs no further tuning.
func PresetConfig(preset string) Config {
	cfg := Config{
		Format: "mp4", Codec: "h264", Type: TypeScreen, CaptureCursor: true,
		AudioSampleRateHz: 48000, AudioChannels: 2,
		AudioBitrateKbps: 128, AudioCodec: "aac",
	}
	switch preset {
	case PresetLow:
		cfg.Width, cfg.Height, cfg.FPS, cfg.BitrateKbps = 1280, 720, 24, 2500
	case PresetHigh:
		cfg.Width, cfg.Height, cfg.FPS, cfg.BitrateKbps = 2560, 1440, 60, 16000
	default:
		cfg.Width, cfg.Height, cfg.FPS, cfg.BitrateKbps = 1920, 1080, 30, 8000
	}
	return cfg
}
