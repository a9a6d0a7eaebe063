package cmd

import (
	"fmt"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/encoder"
	"github.com/clipforge/clipforge/internal/errors"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/tempfile"
	"github.com/clipforge/clipforge/internal/tui/styles"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that recording can work on this machine",
	Long: `Verify the FFmpeg installation, codec availability, working directory
access, and free disk space, and report anything that would prevent a
recording from starting.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	failures := 0

	report := func(ok bool, label, detail string) {
		mark := styles.Secondary.Render("✓")
		if !ok {
			mark = styles.Error.Render("✗")
			failures++
		}
		fmt.Printf("%s %s", mark, label)
		if detail != "" {
			fmt.Printf(": %s", styles.Muted.Render(detail))
		}
		fmt.Println()
	}

	fmt.Println(styles.Title.Render("ClipForge diagnostics"))
	fmt.Printf("Config: %s\n\n", config.ConfigFile())

	// FFmpeg binary
	ffmpeg, err := encoder.FindFFmpeg(cfg.Encoder.FFmpegPath)
	if err != nil {
		report(false, "ffmpeg", err.Error())
		fmt.Printf("\n  %s\n", errors.RecoverySuggestion(err))
		return fmt.Errorf("%d check(s) failed", failures)
	}
	version := "unknown version"
	if v, verr := encoder.Version(ffmpeg); verr == nil {
		version = v
	}
	report(true, "ffmpeg", fmt.Sprintf("%s (%s)", ffmpeg, version))

	// Codec availability
	for _, codec := range config.ValidCodecs() {
		if cerr := encoder.VerifyCodec(ffmpeg, codec); cerr != nil {
			report(false, "codec "+codec, "no encoder available")
		} else {
			report(true, "codec "+codec, "")
		}
	}

	// Working directory and disk space
	workDir := cfg.Storage.ResolveWorkingDir()
	files, err := tempfile.NewManager(workDir, logging.NopLogger())
	if err != nil {
		report(false, "working directory", err.Error())
	} else {
		report(true, "working directory", workDir)

		status, derr := files.DiskStatus(cfg.Recording.BitrateKbps)
		switch {
		case derr != nil:
			report(false, "disk space", derr.Error())
		case status.Level == tempfile.DiskLevelCritical:
			report(false, "disk space",
				fmt.Sprintf("%d MB free, below the %d MB floor", status.AvailableMB, cfg.Storage.MinFreeMB))
		case status.Level == tempfile.DiskLevelLow:
			report(true, "disk space",
				fmt.Sprintf("%d MB free (low), ~%.0f min at %d kbps",
					status.AvailableMB, status.EstimatedMinutes, cfg.Recording.BitrateKbps))
		default:
			report(true, "disk space",
				fmt.Sprintf("%d MB free, ~%.0f min at %d kbps",
					status.AvailableMB, status.EstimatedMinutes, cfg.Recording.BitrateKbps))
		}

		stale := files.Registry().Len()
		if stale > 0 {
			report(true, "temp files", fmt.Sprintf("%d tracked file(s), run 'clipforge cleanup' to remove", stale))
		}
		files.Close()
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Println("\nAll checks passed")
	return nil
}
