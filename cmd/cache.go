package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/ytui/internal/formatter"
	"github.com/urfave/cli/v3"
)

// CacheList lists cached songs.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	repo, db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist"] = artist
	}
	if limit := int(cmd.Int("limit")); limit > 0 {
		criteria["limit"] = limit
	}

	entries, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type row struct {
			VideoID    string    `json:"video_id"`
			Title      string    `json:"title"`
			Artist     string    `json:"artist,omitempty"`
			Path       string    `json:"path"`
			Size       int64     `json:"size_bytes"`
			LastPlayed time.Time `json:"last_played_at"`
		}
		rows := make([]row, len(entries))
		for i, e := range entries {
			rows[i] = row{e.VideoID(), e.Song().Title, e.Song().Artist, e.Path(), e.Size(), e.UpdatedAt()}
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if format == formatter.CSV {
		data, err := formatter.CacheToCSV(entries)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}
	_, err = r.output.Write(formatter.CacheToText(entries))
	return err
}

// CachePrune removes songs that have not been played recently, deleting their files.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	maxAge := r.config.Cache.MaxAge()
	if days := int(cmd.Int("days")); days > 0 {
		maxAge = time.Duration(days) * 24 * time.Hour
	}
	if maxAge <= 0 {
		return fmt.Errorf("cache max age must be positive")
	}

	repo, db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	removed, err := repo.Prune(time.Now().Add(-maxAge))
	if err != nil {
		return err
	}

	var freed int64
	for _, e := range removed {
		if err := os.Remove(e.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to remove cached file", "path", e.Path(), "error", err)
			continue
		}
		freed += e.Size()
	}

	r.logger.Info("cache pruned", "removed", len(removed))
	return r.writePlain("✓ Removed %d songs, freed %s\n", len(removed), formatter.FormatBytes(freed))
}
