package cmd

import (
	"fmt"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/source"
	"github.com/clipforge/clipforge/internal/tui/styles"
	"github.com/clipforge/clipforge/internal/util"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List capture sources",
	Long:  `List the screens and windows available for recording.`,
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	enum := source.Default(cfg.Recording.Width, cfg.Recording.Height)

	screens, err := enum.Screens()
	if err != nil {
		return err
	}

	fmt.Println(styles.Title.Render("Screens"))
	for _, s := range screens {
		primary := ""
		if s.Primary {
			primary = styles.Secondary.Render(" (primary)")
		}
		fmt.Printf("  %s  %s  %dx%d%s\n",
			styles.Primary.Render(s.ID), s.Name, s.Bounds.Width, s.Bounds.Height, primary)
	}

	windows, err := enum.Windows()
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		fmt.Println(styles.Muted.Render("\nNo windows reported on this platform"))
		return nil
	}

	fmt.Println(styles.Title.Render("\nWindows"))
	for _, w := range windows {
		fmt.Printf("  %s  %s\n", styles.Primary.Render(w.ID), util.TruncateANSI(w.String(), 70))
	}
	return nil
}
