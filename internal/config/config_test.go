package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("default config should be valid, got: %v", ValidationErrors(errs))
	}
}

func TestSetDefaultsAndLoad(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Recording.Width != 1920 || cfg.Recording.Height != 1080 {
		t.Errorf("default dimensions = %dx%d", cfg.Recording.Width, cfg.Recording.Height)
	}
	if cfg.Recording.Format != "mp4" {
		t.Errorf("default format = %q", cfg.Recording.Format)
	}
	if cfg.Storage.OrphanMaxAgeHours != 1 {
		t.Errorf("default orphan age = %d", cfg.Storage.OrphanMaxAgeHours)
	}
	if cfg.Encoder.QuitWriteTimeoutMs != 500 {
		t.Errorf("default quit timeout = %d", cfg.Encoder.QuitWriteTimeoutMs)
	}
	if cfg.Recording.AudioSampleRateHz != 48000 || cfg.Recording.AudioChannels != 2 {
		t.Errorf("default audio = %d Hz, %d channels",
			cfg.Recording.AudioSampleRateHz, cfg.Recording.AudioChannels)
	}
	if cfg.Recording.AudioCodec != "aac" {
		t.Errorf("default audio codec = %q", cfg.Recording.AudioCodec)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	viper.Set("recording.fps", 500)

	_, err := Load()
	if err == nil {
		t.Fatal("Load should reject fps=500")
	}
	if !strings.Contains(err.Error(), "recording.fps") {
		t.Errorf("error should name the offending field, got: %v", err)
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
recording:
  width: 1280
  height: 720
  fps: 60
storage:
  min_free_mb: 1000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	SetDefaults()
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Recording.Width != 1280 || cfg.Recording.FPS != 60 {
		t.Errorf("file values not applied: %dx%d @ %d", cfg.Recording.Width, cfg.Recording.Height, cfg.Recording.FPS)
	}
	if cfg.Storage.MinFreeMB != 1000 {
		t.Errorf("min_free_mb = %d", cfg.Storage.MinFreeMB)
	}
	// Unset fields fall back to defaults
	if cfg.Recording.Format != "mp4" {
		t.Errorf("format should default to mp4, got %q", cfg.Recording.Format)
	}
}

func TestResolveWorkingDir(t *testing.T) {
	s := StorageConfig{WorkingDir: ""}
	want := filepath.Join(os.TempDir(), "clipforge")
	if got := s.ResolveWorkingDir(); got != want {
		t.Errorf("empty WorkingDir resolved to %q, want %q", got, want)
	}

	s = StorageConfig{WorkingDir: "/var/recordings"}
	if got := s.ResolveWorkingDir(); got != "/var/recordings" {
		t.Errorf("absolute WorkingDir resolved to %q", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	s = StorageConfig{WorkingDir: "~/recordings"}
	if got := s.ResolveWorkingDir(); got != filepath.Join(home, "recordings") {
		t.Errorf("~ expansion gave %q", got)
	}
}

func TestDurationAccessors(t *testing.T) {
	s := StorageConfig{OrphanMaxAgeHours: 1, RegistryMaxAgeHours: 24}
	if s.OrphanMaxAge() != time.Hour {
		t.Errorf("OrphanMaxAge = %v", s.OrphanMaxAge())
	}
	if s.RegistryMaxAge() != 24*time.Hour {
		t.Errorf("RegistryMaxAge = %v", s.RegistryMaxAge())
	}

	e := EncoderConfig{QuitWriteTimeoutMs: 500, ExitPollTimeoutMs: 5000}
	if e.QuitWriteTimeout() != 500*time.Millisecond {
		t.Errorf("QuitWriteTimeout = %v", e.QuitWriteTimeout())
	}
	if e.ExitPollTimeout() != 5*time.Second {
		t.Errorf("ExitPollTimeout = %v", e.ExitPollTimeout())
	}
}

func TestConfigDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := ConfigDir(); got != filepath.Join("/custom/config", "clipforge") {
		t.Errorf("ConfigDir = %q", got)
	}
}
