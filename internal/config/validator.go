package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "recording.fps")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateRecording()...)
	errors = append(errors, c.validateStorage()...)
	errors = append(errors, c.validateEncoder()...)
	errors = append(errors, c.validateCapture()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateRecording validates the RecordingConfig
func (c *Config) validateRecording() []ValidationError {
	var errors []ValidationError

	// Dimension limits match the widest resolutions FFmpeg handles sanely
	const minDimension = 1
	const maxDimension = 7680

	if c.Recording.Width < minDimension || c.Recording.Width > maxDimension {
		errors = append(errors, ValidationError{
			Field:   "recording.width",
			Value:   c.Recording.Width,
			Message: fmt.Sprintf("must be between %d and %d pixels", minDimension, maxDimension),
		})
	}
	if c.Recording.Height < minDimension || c.Recording.Height > maxDimension {
		errors = append(errors, ValidationError{
			Field:   "recording.height",
			Value:   c.Recording.Height,
			Message: fmt.Sprintf("must be between %d and %d pixels", minDimension, maxDimension),
		})
	}

	const minFPS = 1
	const maxFPS = 120
	if c.Recording.FPS < minFPS || c.Recording.FPS > maxFPS {
		errors = append(errors, ValidationError{
			Field:   "recording.fps",
			Value:   c.Recording.FPS,
			Message: fmt.Sprintf("must be between %d and %d", minFPS, maxFPS),
		})
	}

	const minBitrate = 1
	const maxBitrate = 100000
	if c.Recording.BitrateKbps < minBitrate || c.Recording.BitrateKbps > maxBitrate {
		errors = append(errors, ValidationError{
			Field:   "recording.bitrate_kbps",
			Value:   c.Recording.BitrateKbps,
			Message: fmt.Sprintf("must be between %d and %d kbps", minBitrate, maxBitrate),
		})
	}

	if c.Recording.Format != "" && !slices.Contains(ValidFormats(), c.Recording.Format) {
		errors = append(errors, ValidationError{
			Field:   "recording.format",
			Value:   c.Recording.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidFormats(), ", ")),
		})
	}

	if c.Recording.Codec != "" && !slices.Contains(ValidCodecs(), c.Recording.Codec) {
		errors = append(errors, ValidationError{
			Field:   "recording.codec",
			Value:   c.Recording.Codec,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidCodecs(), ", ")),
		})
	}

	if c.Recording.Preset != "" && !slices.Contains(ValidPresets(), c.Recording.Preset) {
		errors = append(errors, ValidationError{
			Field:   "recording.preset",
			Value:   c.Recording.Preset,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidPresets(), ", ")),
		})
	}

	const minSampleRate = 8000
	const maxSampleRate = 192000
	if c.Recording.AudioSampleRateHz < minSampleRate || c.Recording.AudioSampleRateHz > maxSampleRate {
		errors = append(errors, ValidationError{
			Field:   "recording.audio_sample_rate_hz",
			Value:   c.Recording.AudioSampleRateHz,
			Message: fmt.Sprintf("must be between %d and %d Hz", minSampleRate, maxSampleRate),
		})
	}

	const minChannels = 1
	const maxChannels = 8
	if c.Recording.AudioChannels < minChannels || c.Recording.AudioChannels > maxChannels {
		errors = append(errors, ValidationError{
			Field:   "recording.audio_channels",
			Value:   c.Recording.AudioChannels,
			Message: fmt.Sprintf("must be between %d and %d", minChannels, maxChannels),
		})
	}

	const minAudioBitrate = 1
	const maxAudioBitrate = 512
	if c.Recording.AudioBitrateKbps < minAudioBitrate || c.Recording.AudioBitrateKbps > maxAudioBitrate {
		errors = append(errors, ValidationError{
			Field:   "recording.audio_bitrate_kbps",
			Value:   c.Recording.AudioBitrateKbps,
			Message: fmt.Sprintf("must be between %d and %d kbps", minAudioBitrate, maxAudioBitrate),
		})
	}

	if c.Recording.AudioCodec != "" && !slices.Contains(ValidAudioCodecs(), c.Recording.AudioCodec) {
		errors = append(errors, ValidationError{
			Field:   "recording.audio_codec",
			Value:   c.Recording.AudioCodec,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidAudioCodecs(), ", ")),
		})
	}

	return errors
}

// validateStorage validates the StorageConfig
func (c *Config) validateStorage() []ValidationError {
	var errors []ValidationError

	if c.Storage.WorkingDir != "" {
		path := c.Storage.WorkingDir

		// Null bytes are invalid in paths on every supported platform
		if strings.ContainsRune(path, '\x00') {
			errors = append(errors, ValidationError{
				Field:   "storage.working_dir",
				Value:   path,
				Message: "path contains invalid null character",
			})
		}

		const maxPathLength = 4096
		if len(path) > maxPathLength {
			errors = append(errors, ValidationError{
				Field:   "storage.working_dir",
				Value:   path,
				Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
			})
		}
	}

	if c.Storage.OrphanMaxAgeHours <= 0 {
		errors = append(errors, ValidationError{
			Field:   "storage.orphan_max_age_hours",
			Value:   c.Storage.OrphanMaxAgeHours,
			Message: "must be positive",
		})
	}

	if c.Storage.RegistryMaxAgeHours <= 0 {
		errors = append(errors, ValidationError{
			Field:   "storage.registry_max_age_hours",
			Value:   c.Storage.RegistryMaxAgeHours,
			Message: "must be positive",
		})
	}

	// Registry sweep should be lazier than the orphan sweep; the registry
	// tracks files we know about, orphans are strays.
	if c.Storage.RegistryMaxAgeHours > 0 && c.Storage.OrphanMaxAgeHours > c.Storage.RegistryMaxAgeHours {
		errors = append(errors, ValidationError{
			Field:   "storage.orphan_max_age_hours",
			Value:   c.Storage.OrphanMaxAgeHours,
			Message: fmt.Sprintf("should not exceed registry_max_age_hours (%d)", c.Storage.RegistryMaxAgeHours),
		})
	}

	return errors
}

// validateEncoder validates the EncoderConfig
func (c *Config) validateEncoder() []ValidationError {
	var errors []ValidationError

	const minQuitTimeout = 100
	const maxQuitTimeout = 10000
	if c.Encoder.QuitWriteTimeoutMs < minQuitTimeout || c.Encoder.QuitWriteTimeoutMs > maxQuitTimeout {
		errors = append(errors, ValidationError{
			Field:   "encoder.quit_write_timeout_ms",
			Value:   c.Encoder.QuitWriteTimeoutMs,
			Message: fmt.Sprintf("must be between %dms and %dms", minQuitTimeout, maxQuitTimeout),
		})
	}

	const minPollTimeout = 1000
	const maxPollTimeout = 60000
	if c.Encoder.ExitPollTimeoutMs < minPollTimeout || c.Encoder.ExitPollTimeoutMs > maxPollTimeout {
		errors = append(errors, ValidationError{
			Field:   "encoder.exit_poll_timeout_ms",
			Value:   c.Encoder.ExitPollTimeoutMs,
			Message: fmt.Sprintf("must be between %dms and %dms", minPollTimeout, maxPollTimeout),
		})
	}

	if c.Encoder.StderrTailLines < 0 {
		errors = append(errors, ValidationError{
			Field:   "encoder.stderr_tail_lines",
			Value:   c.Encoder.StderrTailLines,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateCapture validates the CaptureConfig
func (c *Config) validateCapture() []ValidationError {
	var errors []ValidationError

	const minQueueCapacity = 1
	const maxQueueCapacity = 1000
	if c.Capture.QueueCapacity < minQueueCapacity || c.Capture.QueueCapacity > maxQueueCapacity {
		errors = append(errors, ValidationError{
			Field:   "capture.queue_capacity",
			Value:   c.Capture.QueueCapacity,
			Message: fmt.Sprintf("must be between %d and %d frames", minQueueCapacity, maxQueueCapacity),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
