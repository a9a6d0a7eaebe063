//go:build unix

package encoder

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/clipforge/clipforge/internal/errors"
	"github.com/clipforge/clipforge/internal/logging"
)

// interruptProcess sends SIGINT, which FFmpeg treats as a request to
// finalize the output and exit.
func interruptProcess(p *os.Process) error {
	return p.Signal(syscall.SIGINT)
}

// sweepOrphans kills any leftover ffmpeg processes still referencing the
// output file. A forced kill of the parent can leave a detached encoder
// holding the file open.
func sweepOrphans(outputPath string, logger *logging.Logger) {
	name := filepath.Base(outputPath)
	if name == "" || name == "." {
		return
	}

	cmd := exec.Command("pkill", "-f", "ffmpeg.*"+name)
	if err := cmd.Run(); err != nil {
		// Exit status 1 means no processes matched, which is the normal case
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return
		}
		logger.Debug("orphan sweep failed", "error", err)
		return
	}
	logger.Warn("killed orphaned encoder process", "output", name)
}
