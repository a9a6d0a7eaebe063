package cmd

import (
	"fmt"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/encoder"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/recorder"
	"github.com/clipforge/clipforge/internal/tempfile"
)

// app holds the wired-up components shared by the recording commands.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	files  *tempfile.Manager
	ffmpeg string
	orch   *recorder.Orchestrator
}

// buildApp loads configuration and constructs the orchestrator stack.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return nil, err
	}

	ffmpeg, err := encoder.FindFFmpeg(cfg.Encoder.FFmpegPath)
	if err != nil {
		logger.Close()
		return nil, err
	}

	files, err := tempfile.NewManager(cfg.Storage.ResolveWorkingDir(), logger)
	if err != nil {
		logger.Close()
		return nil, err
	}
	if cfg.Storage.WatchWorkingDir {
		if err := files.Watch(); err != nil {
			logger.Warn("working directory watch unavailable", "error", err)
		}
	}

	orch, err := recorder.New(recorder.Options{
		FFmpegPath:    ffmpeg,
		Files:         files,
		Logger:        logger,
		MinFreeMB:     cfg.Storage.MinFreeMB,
		QueueCapacity: cfg.Capture.QueueCapacity,
		Encoder: encoder.Options{
			QuitWriteWait:   cfg.Encoder.QuitWriteTimeout(),
			ExitPollWait:    cfg.Encoder.ExitPollTimeout(),
			StderrTailLines: cfg.Encoder.StderrTailLines,
		},
	})
	if err != nil {
		files.Close()
		logger.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		files:  files,
		ffmpeg: ffmpeg,
		orch:   orch,
	}, nil
}

func (a *app) close() {
	a.files.Close()
	a.logger.Close()
}

func buildLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	dir := cfg.Logging.Dir
	if dir == "" {
		dir = config.ConfigDir()
	}
	logger, err := logging.NewLogger(dir, cfg.Logging.Level)
	if err != nil {
		// A broken log destination should not block recording
		return logging.NopLogger(), nil
	}
	return logger, nil
}
