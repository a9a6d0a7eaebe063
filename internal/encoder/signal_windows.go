//go:build windows

package encoder

import (
	"os"

	"github.com/clipforge/clipforge/internal/logging"
)

// interruptProcess has no SIGINT equivalent for a non-console child on
// Windows; report failure so the caller escalates straight to Kill.
func interruptProcess(p *os.Process) error {
	return os.ErrInvalid
}

// sweepOrphans is a no-op on Windows; Kill terminates the process tree
// created with the default attributes.
func sweepOrphans(outputPath string, logger *logging.Logger) {}
