package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/clipforge/clipforge/internal/event"
	"github.com/clipforge/clipforge/internal/recorder"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{9.4, "00:09"},
		{61, "01:01"},
		{599, "09:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.seconds); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestDurationUpdateEventRefreshesTimer(t *testing.T) {
	m := Model{}
	m = m.handleEvent(event.NewDurationUpdateEvent("rec_1", "recording", 42.5))
	if m.snap.DurationSeconds != 42.5 {
		t.Errorf("DurationSeconds = %v, want 42.5", m.snap.DurationSeconds)
	}
}

func TestFailedEventShowsNotice(t *testing.T) {
	m := Model{}
	m = m.handleEvent(event.NewRecordingFailedEvent("rec_1", "encoder died", "Try again"))
	if !strings.Contains(m.notice, "encoder died") {
		t.Errorf("notice %q should carry the failure message", m.notice)
	}
	if !strings.Contains(m.notice, "Try again") {
		t.Errorf("notice %q should carry the suggestion", m.notice)
	}
}

func TestViewShowsStatusAndSize(t *testing.T) {
	m := Model{
		cfg: recorder.Config{
			Width: 1920, Height: 1080, FPS: 30, Format: "mp4", Codec: "h264",
		},
		snap: recorder.Snapshot{Status: recorder.StatusRecording, DurationSeconds: 75},
	}

	view := m.View()
	for _, want := range []string{"Recording", "01:15", "1920x1080", "mp4/h264"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestFinalViewReportsSavedFile(t *testing.T) {
	m := Model{
		done:   true,
		result: recorder.Snapshot{OutputPath: "/tmp/clip.mp4", DurationSeconds: 12},
	}

	view := m.View()
	if !strings.Contains(view, "/tmp/clip.mp4") {
		t.Errorf("final view missing output path:\n%s", view)
	}
}

func TestAutoStopTriggersAtLimit(t *testing.T) {
	m := Model{opts: Options{MaxDuration: 10 * time.Second}}
	m.snap.DurationSeconds = 9
	if m.shouldAutoStop() {
		t.Error("should not auto-stop before the limit")
	}
	m.snap.DurationSeconds = 10.5
	if !m.shouldAutoStop() {
		t.Error("should auto-stop past the limit")
	}
	m.stopping = true
	if m.shouldAutoStop() {
		t.Error("should not auto-stop twice")
	}
}
