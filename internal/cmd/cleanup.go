package cmd

import (
	"fmt"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/errors"
	"github.com/clipforge/clipforge/internal/event"
	"github.com/clipforge/clipforge/internal/tempfile"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove leftover temp recording files",
	Long: `Sweep the working directory for recordings abandoned by crashed or
killed sessions. Unregistered temp files older than the orphan age and
registered files older than the registry age are removed; anything
younger is left alone in case a recording is still in progress.`,
	RunE: runCleanup,
}

var cleanupAll bool

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupAll, "all", false, "remove every tracked temp file regardless of age")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	// The sweep needs only the storage stack, not a working encoder
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	files, err := tempfile.NewManager(cfg.Storage.ResolveWorkingDir(), logger)
	if err != nil {
		return err
	}

	storage := cfg.Storage
	bus := event.NewBus()
	removed := 0
	var failed error

	if cleanupAll {
		// A fresh process has an empty registry, so an age-zero orphan
		// sweep is what actually clears the directory
		n, err := files.CleanupAll()
		removed += n
		if err != nil {
			failed = err
		}

		n, err = files.CleanupOrphaned(0)
		removed += n
		if err != nil {
			failed = err
		}
	} else {
		n, err := files.SweepRegistry(storage.RegistryMaxAge())
		removed += n
		if err != nil {
			failed = err
		}

		n, err = files.CleanupOrphaned(storage.OrphanMaxAge())
		removed += n
		if err != nil {
			failed = err
		}
	}

	var failedPaths []string
	var cleanupErr *errors.CleanupError
	if errors.As(failed, &cleanupErr) {
		failedPaths = cleanupErr.Paths
	}
	bus.Publish(event.NewCleanupCompletedEvent(removed, failedPaths))

	if removed == 0 && failed == nil {
		fmt.Println("Nothing to clean up")
		return nil
	}
	fmt.Printf("Removed %d file(s) from %s\n", removed, files.Dir())
	if failed != nil {
		return failed
	}
	return nil
}

// cleanupConfigSummary is used by the config command to show sweep settings.
func cleanupConfigSummary(storage config.StorageConfig) string {
	return fmt.Sprintf("orphans after %s, registered files after %s",
		storage.OrphanMaxAge(), storage.RegistryMaxAge())
}
