package cmd

import (
	"fmt"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("Config file: %s\n\n", config.ConfigFile())

	fmt.Println("[recording]")
	fmt.Printf("  size:    %dx%d @ %d fps\n", cfg.Recording.Width, cfg.Recording.Height, cfg.Recording.FPS)
	fmt.Printf("  bitrate: %d kbps\n", cfg.Recording.BitrateKbps)
	fmt.Printf("  output:  %s/%s (preset %s)\n", cfg.Recording.Format, cfg.Recording.Codec, cfg.Recording.Preset)
	fmt.Printf("  cursor:  %v, audio: %v\n", cfg.Recording.CaptureCursor, cfg.Recording.CaptureAudio)
	fmt.Printf("  audio:   %s %d kbps, %d Hz, %d ch\n",
		cfg.Recording.AudioCodec, cfg.Recording.AudioBitrateKbps,
		cfg.Recording.AudioSampleRateHz, cfg.Recording.AudioChannels)

	fmt.Println("[storage]")
	fmt.Printf("  working dir: %s\n", cfg.Storage.ResolveWorkingDir())
	fmt.Printf("  min free:    %d MB\n", cfg.Storage.MinFreeMB)
	fmt.Printf("  cleanup:     %s\n", cleanupConfigSummary(cfg.Storage))

	fmt.Println("[encoder]")
	ffmpeg := cfg.Encoder.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "(discovered via PATH)"
	}
	fmt.Printf("  ffmpeg:    %s\n", ffmpeg)
	fmt.Printf("  shutdown:  quit wait %s, exit poll %s\n",
		cfg.Encoder.QuitWriteTimeout(), cfg.Encoder.ExitPollTimeout())

	fmt.Println("[logging]")
	fmt.Printf("  enabled: %v, level: %s\n", cfg.Logging.Enabled, cfg.Logging.Level)

	return nil
}
