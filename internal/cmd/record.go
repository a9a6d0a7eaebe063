package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/clipforge/clipforge/internal/recorder"
	"github.com/clipforge/clipforge/internal/tui"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Start a screen recording",
	Long: `Record the screen to a video file. An interactive status view shows
elapsed time; press p to pause, r to resume, and s to stop and save.`,
	RunE: runRecord,
}

var recordFlags struct {
	preset       string
	width        int
	height       int
	fps          int
	bitrate      int
	format       string
	codec        string
	screen       string
	window       string
	output       string
	saveDir      string
	noCursor     bool
	audio        bool
	audioCodec   string
	audioBitrate int
	maxDuration  time.Duration
}

func init() {
	f := recordCmd.Flags()
	f.StringVar(&recordFlags.preset, "preset", "", "quality preset: low, medium, high")
	f.IntVar(&recordFlags.width, "width", 0, "capture width in pixels")
	f.IntVar(&recordFlags.height, "height", 0, "capture height in pixels")
	f.IntVar(&recordFlags.fps, "fps", 0, "frames per second")
	f.IntVar(&recordFlags.bitrate, "bitrate", 0, "video bitrate in kbps")
	f.StringVar(&recordFlags.format, "format", "", "container format: mp4, mov, webm")
	f.StringVar(&recordFlags.codec, "codec", "", "video codec: h264, hevc, vp9")
	f.StringVar(&recordFlags.screen, "screen", "", "screen ID to capture (default: primary)")
	f.StringVar(&recordFlags.window, "window", "", "window ID to capture instead of a screen")
	f.StringVarP(&recordFlags.output, "output", "o", "", "output file path")
	f.StringVar(&recordFlags.saveDir, "save-dir", "", "directory for the finished recording")
	f.BoolVar(&recordFlags.noCursor, "no-cursor", false, "exclude the mouse cursor")
	f.BoolVar(&recordFlags.audio, "audio", false, "capture system audio")
	f.StringVar(&recordFlags.audioCodec, "audio-codec", "", "audio codec: aac, mp3, opus, vorbis")
	f.IntVar(&recordFlags.audioBitrate, "audio-bitrate", 0, "audio bitrate in kbps")
	f.DurationVar(&recordFlags.maxDuration, "max-duration", 0, "stop automatically after this long")

	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	cfg := recordingConfig(a)
	if err := cfg.Validate(); err != nil {
		return err
	}

	app := tui.New(a.orch, cfg, tui.Options{
		MaxDuration: recordFlags.maxDuration,
	})
	if err := app.Run(); err != nil {
		return err
	}

	// The TUI stops the session on exit; Shutdown covers abnormal paths
	a.orch.Shutdown(context.Background())

	if final := app.Result(); final.OutputPath != "" {
		fmt.Printf("Saved %s (%.1fs)\n", final.OutputPath, final.DurationSeconds)
	}
	return nil
}

// recordingConfig layers flag overrides on top of the configured defaults.
func recordingConfig(a *app) recorder.Config {
	preset := recordFlags.preset
	if preset == "" {
		preset = a.cfg.Recording.Preset
	}
	cfg := recorder.PresetConfig(preset)

	// Config file defaults override the preset when set
	if a.cfg.Recording.Width > 0 {
		cfg.Width = a.cfg.Recording.Width
	}
	if a.cfg.Recording.Height > 0 {
		cfg.Height = a.cfg.Recording.Height
	}
	if a.cfg.Recording.FPS > 0 {
		cfg.FPS = a.cfg.Recording.FPS
	}
	if a.cfg.Recording.BitrateKbps > 0 {
		cfg.BitrateKbps = a.cfg.Recording.BitrateKbps
	}
	if a.cfg.Recording.Format != "" {
		cfg.Format = a.cfg.Recording.Format
	}
	if a.cfg.Recording.Codec != "" {
		cfg.Codec = a.cfg.Recording.Codec
	}
	cfg.CaptureCursor = a.cfg.Recording.CaptureCursor
	cfg.CaptureAudio = a.cfg.Recording.CaptureAudio
	if a.cfg.Recording.AudioSampleRateHz > 0 {
		cfg.AudioSampleRateHz = a.cfg.Recording.AudioSampleRateHz
	}
	if a.cfg.Recording.AudioChannels > 0 {
		cfg.AudioChannels = a.cfg.Recording.AudioChannels
	}
	if a.cfg.Recording.AudioBitrateKbps > 0 {
		cfg.AudioBitrateKbps = a.cfg.Recording.AudioBitrateKbps
	}
	if a.cfg.Recording.AudioCodec != "" {
		cfg.AudioCodec = a.cfg.Recording.AudioCodec
	}

	// Explicit flags override everything
	if recordFlags.width > 0 {
		cfg.Width = recordFlags.width
	}
	if recordFlags.height > 0 {
		cfg.Height = recordFlags.height
	}
	if recordFlags.fps > 0 {
		cfg.FPS = recordFlags.fps
	}
	if recordFlags.bitrate > 0 {
		cfg.BitrateKbps = recordFlags.bitrate
	}
	if recordFlags.format != "" {
		cfg.Format = recordFlags.format
	}
	if recordFlags.codec != "" {
		cfg.Codec = recordFlags.codec
	}
	if recordFlags.noCursor {
		cfg.CaptureCursor = false
	}
	if recordFlags.audio {
		cfg.CaptureAudio = true
	}
	if recordFlags.audioCodec != "" {
		cfg.AudioCodec = recordFlags.audioCodec
	}
	if recordFlags.audioBitrate > 0 {
		cfg.AudioBitrateKbps = recordFlags.audioBitrate
	}

	cfg.ScreenID = recordFlags.screen
	if recordFlags.window != "" {
		cfg.Type = recorder.TypeWindow
		cfg.WindowID = recordFlags.window
	}
	cfg.OutputPath = recordFlags.output
	cfg.SaveDir = recordFlags.saveDir

	return cfg
}
