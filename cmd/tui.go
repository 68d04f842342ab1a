package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/player"
	"github.com/desertthunder/ytui/internal/scheduler"
	"github.com/desertthunder/ytui/internal/server"
	"github.com/desertthunder/ytui/internal/shared"
	"github.com/desertthunder/ytui/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, logFile, err := shared.NewFileLogger(r.config.UI.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	logger := shared.WithLogger(fileLogger, "session", shared.GenerateID())

	catalogue, err := r.catalogueService(ctx, logger)
	if err != nil {
		return err
	}

	var cache server.SongCache
	if repo, db, err := r.openCache(); err != nil {
		logger.Warn("media cache unavailable, downloads will not be cached", "error", err)
	} else {
		defer db.Close()
		cache = repo
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := r.config.UI.QueueLength
	requests := make(chan server.Request, queue)
	responses := make(chan server.Response, queue)

	srv := server.New(responses, server.Options{
		Catalogue:        catalogue,
		Media:            r.mediaService(),
		Engine:           player.NewClock(models.ClampPercentage(r.config.Player.InitialVolume)),
		Cache:            cache,
		CacheDir:         r.config.Cache.Dir,
		AlbumConcurrency: r.config.Catalogue.AlbumConcurrency,
		Logger:           shared.WithLogger(logger, "component", "server"),
	})
	stopped := make(chan error, 1)
	go func() { stopped <- srv.Run(ctx, requests) }()

	sched := scheduler.New(scheduler.Options{
		ServerRequests:  requests,
		ServerResponses: responses,
		QueueLength:     queue,
		Logger:          shared.WithLogger(logger, "component", "scheduler"),
	})

	model := ui.NewModel(ctx, sched, ui.Options{
		Tick:          r.config.UI.Tick(),
		VolumeStep:    r.config.Player.VolumeStep,
		InitialVolume: models.ClampPercentage(r.config.Player.InitialVolume),
	})

	_, runErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	cancel()
	<-stopped

	if runErr != nil {
		return fmt.Errorf("error running TUI: %w", runErr)
	}
	if err := model.Err(); err != nil {
		return fmt.Errorf("scheduler stopped: %w", err)
	}
	return nil
}
