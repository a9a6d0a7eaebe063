package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete ClipForge configuration
type Config struct {
	Recording RecordingConfig `mapstructure:"recording"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Encoder   EncoderConfig   `mapstructure:"encoder"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// RecordingConfig holds default recording parameters. These are the values
// used when a recording is started without explicit overrides.
type RecordingConfig struct {
	// Width is the default capture width in pixels
	Width int `mapstructure:"width"`
	// Height is the default capture height in pixels
	Height int `mapstructure:"height"`
	// FPS is the default frame rate
	FPS int `mapstructure:"fps"`
	// BitrateKbps is the default video bitrate in kilobits per second
	BitrateKbps int `mapstructure:"bitrate_kbps"`
	// Format is the default container format: "mp4", "mov", or "webm"
	Format string `mapstructure:"format"`
	// Codec is the default video codec: "h264", "hevc", or "vp9"
	Codec string `mapstructure:"codec"`
	// Preset selects a quality preset when no explicit parameters are given
	// Options: "low", "medium", "high"
	Preset string `mapstructure:"preset"`
	// CaptureCursor includes the mouse cursor in the recording
	CaptureCursor bool `mapstructure:"capture_cursor"`
	// CaptureAudio includes system audio in the recording
	CaptureAudio bool `mapstructure:"capture_audio"`
	// AudioSampleRateHz is the audio sample rate (default: 48000)
	AudioSampleRateHz int `mapstructure:"audio_sample_rate_hz"`
	// AudioChannels is the audio channel count (default: 2)
	AudioChannels int `mapstructure:"audio_channels"`
	// AudioBitrateKbps is the audio bitrate in kilobits per second
	// (default: 128)
	AudioBitrateKbps int `mapstructure:"audio_bitrate_kbps"`
	// AudioCodec is the audio codec: "aac", "mp3", "opus", or "vorbis"
	// (default: "aac")
	AudioCodec string `mapstructure:"audio_codec"`
}

// StorageConfig controls where recordings are written and how temp files
// are cleaned up
type StorageConfig struct {
	// WorkingDir is the directory where in-progress recordings are written.
	// If empty, defaults to "clipforge" under the OS temp directory.
	// Supports ~ for home directory expansion.
	WorkingDir string `mapstructure:"working_dir"`
	// OrphanMaxAgeHours is the minimum age in hours before an unregistered
	// temp file is considered orphaned and eligible for removal (default: 1)
	OrphanMaxAgeHours int `mapstructure:"orphan_max_age_hours"`
	// RegistryMaxAgeHours is the maximum age in hours a registered temp file
	// may reach before the registry sweep removes it (default: 24)
	RegistryMaxAgeHours int `mapstructure:"registry_max_age_hours"`
	// MinFreeMB is the minimum free disk space in megabytes required to
	// start a recording (default: 500)
	MinFreeMB uint64 `mapstructure:"min_free_mb"`
	// WatchWorkingDir enables filesystem watching of the working directory
	// so files created by external tools are tracked for cleanup
	WatchWorkingDir bool `mapstructure:"watch_working_dir"`
}

// EncoderConfig controls the FFmpeg subprocess
type EncoderConfig struct {
	// FFmpegPath overrides FFmpeg binary discovery. If empty, the binary is
	// located via PATH and common install locations.
	FFmpegPath string `mapstructure:"ffmpeg_path"`
	// QuitWriteTimeoutMs is how long to wait after writing 'q' to stdin
	// before polling for exit (default: 500)
	QuitWriteTimeoutMs int `mapstructure:"quit_write_timeout_ms"`
	// ExitPollTimeoutMs is how long to poll for process exit after the quit
	// command and again after an interrupt signal (default: 5000)
	ExitPollTimeoutMs int `mapstructure:"exit_poll_timeout_ms"`
	// StderrTailLines is the number of trailing stderr lines retained for
	// error reports (default: 40)
	StderrTailLines int `mapstructure:"stderr_tail_lines"`
}

// CaptureConfig controls the frame pipeline between capture and encoder
type CaptureConfig struct {
	// QueueCapacity is the maximum number of frames buffered between capture
	// and encoding. When full, the oldest frame is dropped (default: 60).
	QueueCapacity int `mapstructure:"queue_capacity"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory for log files. If empty, logs go to the
	// config directory.
	Dir string `mapstructure:"dir"`
}

// ResolveWorkingDir returns the resolved working directory path.
// If WorkingDir is empty, it returns "clipforge" under the OS temp directory.
// If WorkingDir starts with ~, it expands to the user's home directory.
func (s *StorageConfig) ResolveWorkingDir() string {
	if s.WorkingDir == "" {
		return filepath.Join(os.TempDir(), "clipforge")
	}

	path := s.WorkingDir

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return path
}

// OrphanMaxAge returns the orphan age threshold as a time.Duration
func (s *StorageConfig) OrphanMaxAge() time.Duration {
	return time.Duration(s.OrphanMaxAgeHours) * time.Hour
}

// RegistryMaxAge returns the registry age threshold as a time.Duration
func (s *StorageConfig) RegistryMaxAge() time.Duration {
	return time.Duration(s.RegistryMaxAgeHours) * time.Hour
}

// QuitWriteTimeout returns the post-quit wait as a time.Duration
func (e *EncoderConfig) QuitWriteTimeout() time.Duration {
	return time.Duration(e.QuitWriteTimeoutMs) * time.Millisecond
}

// ExitPollTimeout returns the exit poll window as a time.Duration
func (e *EncoderConfig) ExitPollTimeout() time.Duration {
	return time.Duration(e.ExitPollTimeoutMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Recording: RecordingConfig{
			Width:             1920,
			Height:            1080,
			FPS:               30,
			BitrateKbps:       8000,
			Format:            "mp4",
			Codec:             "h264",
			Preset:            "medium",
			CaptureCursor:     true,
			CaptureAudio:      false,
			AudioSampleRateHz: 48000,
			AudioChannels:     2,
			AudioBitrateKbps:  128,
			AudioCodec:        "aac",
		},
		Storage: StorageConfig{
			WorkingDir:          "", // Empty means use <tmp>/clipforge
			OrphanMaxAgeHours:   1,
			RegistryMaxAgeHours: 24,
			MinFreeMB:           500,
			WatchWorkingDir:     true,
		},
		Encoder: EncoderConfig{
			FFmpegPath:         "", // Empty means discover via PATH
			QuitWriteTimeoutMs: 500,
			ExitPollTimeoutMs:  5000,
			StderrTailLines:    40,
		},
		Capture: CaptureConfig{
			QueueCapacity: 60,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Recording defaults
	viper.SetDefault("recording.width", defaults.Recording.Width)
	viper.SetDefault("recording.height", defaults.Recording.Height)
	viper.SetDefault("recording.fps", defaults.Recording.FPS)
	viper.SetDefault("recording.bitrate_kbps", defaults.Recording.BitrateKbps)
	viper.SetDefault("recording.format", defaults.Recording.Format)
	viper.SetDefault("recording.codec", defaults.Recording.Codec)
	viper.SetDefault("recording.preset", defaults.Recording.Preset)
	viper.SetDefault("recording.capture_cursor", defaults.Recording.CaptureCursor)
	viper.SetDefault("recording.capture_audio", defaults.Recording.CaptureAudio)
	viper.SetDefault("recording.audio_sample_rate_hz", defaults.Recording.AudioSampleRateHz)
	viper.SetDefault("recording.audio_channels", defaults.Recording.AudioChannels)
	viper.SetDefault("recording.audio_bitrate_kbps", defaults.Recording.AudioBitrateKbps)
	viper.SetDefault("recording.audio_codec", defaults.Recording.AudioCodec)

	// Storage defaults
	viper.SetDefault("storage.working_dir", defaults.Storage.WorkingDir)
	viper.SetDefault("storage.orphan_max_age_hours", defaults.Storage.OrphanMaxAgeHours)
	viper.SetDefault("storage.registry_max_age_hours", defaults.Storage.RegistryMaxAgeHours)
	viper.SetDefault("storage.min_free_mb", defaults.Storage.MinFreeMB)
	viper.SetDefault("storage.watch_working_dir", defaults.Storage.WatchWorkingDir)

	// Encoder defaults
	viper.SetDefault("encoder.ffmpeg_path", defaults.Encoder.FFmpegPath)
	viper.SetDefault("encoder.quit_write_timeout_ms", defaults.Encoder.QuitWriteTimeoutMs)
	viper.SetDefault("encoder.exit_poll_timeout_ms", defaults.Encoder.ExitPollTimeoutMs)
	viper.SetDefault("encoder.stderr_tail_lines", defaults.Encoder.StderrTailLines)

	// Capture defaults
	viper.SetDefault("capture.queue_capacity", defaults.Capture.QueueCapacity)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "clipforge")
	}
	// Fall back to ~/.config/clipforge
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clipforge"
	}
	return filepath.Join(home, ".config", "clipforge")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidFormats returns the list of valid container format values
func ValidFormats() []string {
	return []string{"mp4", "mov", "webm"}
}

// ValidCodecs returns the list of valid codec values
func ValidCodecs() []string {
	return []string{"h264", "hevc", "vp9"}
}

// ValidAudioCodecs returns the list of valid audio codec values
func ValidAudioCodecs() []string {
	return []string{"aac", "mp3", "opus", "vorbis"}
}

// ValidPresets returns the list of valid preset values
func ValidPresets() []string {
	return []string{"low", "medium", "high"}
}
