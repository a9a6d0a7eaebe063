package cmd

import (
	"testing"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/recorder"
	"github.com/spf13/viper"
)

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"record", "sources", "doctor", "cleanup", "config"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRecordingConfigFlagPrecedence(t *testing.T) {
	defer func() {
		recordFlags.width = 0
		recordFlags.fps = 0
		recordFlags.noCursor = false
		recordFlags.window = ""
	}()

	viper.Reset()
	config.SetDefaults()
	a := &app{cfg: config.Get()}

	recordFlags.width = 2560
	recordFlags.fps = 60
	recordFlags.noCursor = true
	recordFlags.window = "win-7"

	cfg := recordingConfig(a)

	if cfg.Width != 2560 {
		t.Errorf("Width = %d, flag should override config default", cfg.Width)
	}
	if cfg.FPS != 60 {
		t.Errorf("FPS = %d, flag should override config default", cfg.FPS)
	}
	// Height was not overridden, so the config default applies
	if cfg.Height != 1080 {
		t.Errorf("Height = %d, want the configured default 1080", cfg.Height)
	}
	if cfg.CaptureCursor {
		t.Error("no-cursor flag should disable cursor capture")
	}
	if cfg.Type != recorder.TypeWindow || cfg.WindowID != "win-7" {
		t.Errorf("window flag should select window capture, got %s/%s", cfg.Type, cfg.WindowID)
	}
}

func TestRecordingConfigDefaultsAreValid(t *testing.T) {
	viper.Reset()
	config.SetDefaults()
	a := &app{cfg: config.Get()}

	if err := recordingConfig(a).Validate(); err != nil {
		t.Errorf("default recording config invalid: %v", err)
	}
}

func TestRecordingConfigAudioFlags(t *testing.T) {
	defer func() {
		recordFlags.audio = false
		recordFlags.audioCodec = ""
		recordFlags.audioBitrate = 0
	}()

	viper.Reset()
	config.SetDefaults()
	a := &app{cfg: config.Get()}

	cfg := recordingConfig(a)
	if cfg.CaptureAudio {
		t.Error("audio capture should default to off")
	}

	recordFlags.audio = true
	recordFlags.audioCodec = "mp3"
	recordFlags.audioBitrate = 192

	cfg = recordingConfig(a)
	if !cfg.CaptureAudio {
		t.Error("audio flag should enable audio capture")
	}
	if cfg.AudioCodec != "mp3" {
		t.Errorf("AudioCodec = %q, flag should override config default", cfg.AudioCodec)
	}
	if cfg.AudioBitrateKbps != 192 {
		t.Errorf("AudioBitrateKbps = %d, flag should override config default", cfg.AudioBitrateKbps)
	}
	// Sample rate and channels come from the configured defaults
	if cfg.AudioSampleRateHz != 48000 || cfg.AudioChannels != 2 {
		t.Errorf("audio defaults = %d Hz, %d channels", cfg.AudioSampleRateHz, cfg.AudioChannels)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("audio recording config invalid: %v", err)
	}
}
