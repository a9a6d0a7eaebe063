package tempfile

import (
	"github.com/clipforge/clipforge/internal/errors"
)

// Disk space warning levels reported by WarningLevel.
const (
	DiskLevelOK       = "ok"
	DiskLevelLow      = "low"
	DiskLevelCritical = "critical"
)

// Thresholds for disk space warnings, in megabytes.
const (
	diskLowThresholdMB      = 2048
	diskCriticalThresholdMB = 500
)

// DiskStatus reports free space in the working directory and how much
// recording time it can hold.
type DiskStatus struct {
	AvailableMB      uint64
	EstimatedMinutes float64
	Level            string
}

// CheckDiskSpace verifies the working directory has at least minFreeMB
// megabytes available. Returns a DiskSpaceError when space is short.
func (m *Manager) CheckDiskSpace(minFreeMB uint64) error {
	availableMB, err := availableSpaceMB(m.dir)
	if err != nil {
		return errors.Wrapf(err, "failed to check disk space for %s", m.dir)
	}
	if availableMB < minFreeMB {
		return errors.NewDiskSpaceError(availableMB, minFreeMB)
	}
	return nil
}

// DiskStatus returns available space alongside an estimate of how many
// minutes of recording fit at the given bitrate.
func (m *Manager) DiskStatus(bitrateKbps int) (DiskStatus, error) {
	availableMB, err := availableSpaceMB(m.dir)
	if err != nil {
		return DiskStatus{}, errors.Wrapf(err, "failed to check disk space for %s", m.dir)
	}
	return DiskStatus{
		AvailableMB:      availableMB,
		EstimatedMinutes: EstimateRecordingMinutes(availableMB, bitrateKbps),
		Level:            WarningLevel(availableMB),
	}, nil
}

// EstimateRecordingMinutes returns how many minutes of recording fit in the
// given space at the given bitrate. A zero or negative bitrate yields zero.
func EstimateRecordingMinutes(availableMB uint64, bitrateKbps int) float64 {
	if bitrateKbps <= 0 {
		return 0
	}
	// bitrate is kilobits per second; 8000 kilobits per megabyte
	mbPerMinute := float64(bitrateKbps) * 60 / 8000
	return float64(availableMB) / mbPerMinute
}

// WarningLevel classifies available space into ok, low, or critical.
func WarningLevel(availableMB uint64) string {
	switch {
	case availableMB < diskCriticalThresholdMB:
		return DiskLevelCritical
	case availableMB < diskLowThresholdMB:
		return DiskLevelLow
	default:
		return DiskLevelOK
	}
}
