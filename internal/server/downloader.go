package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/services"
	"github.com/desertthunder/ytui/internal/shared"
	"golang.org/x/time/rate"
)

// downloader handles audio downloads.
type downloader struct {
	srv      *Server
	media    services.MediaFetcher
	cache    SongCache
	dir      string
	interval time.Duration
}

func (d *downloader) download(ctx context.Context, r DownloadSong) error {
	rx := r.Task.Cancel
	progress := func(u DownloadUpdate) bool {
		return d.srv.emit(ctx, rx, SongDownloadProgress{Update: u, Song: r.Song, Task: r.Task.ID})
	}

	if !progress(DownloadUpdate{Stage: DownloadStarted}) {
		return nil
	}

	if data, ok := d.fromCache(r.VideoID); ok {
		progress(DownloadUpdate{Stage: DownloadCompleted, Percent: 100, Data: data})
		return nil
	}

	throttle := rate.Sometimes{Interval: d.interval}
	var indeterminate sync.Once
	data, err := d.media.FetchAudio(ctx, r.VideoID, func(received, total int64) {
		// Without a length there is no percentage to report; say once that bytes are arriving.
		if total <= 0 {
			indeterminate.Do(func() {
				progress(DownloadUpdate{Stage: Downloading})
			})
			return
		}
		throttle.Do(func() {
			progress(DownloadUpdate{Stage: Downloading, Percent: models.ClampPercentage(int(received * 100 / total))})
		})
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.srv.logger.Warn("download failed", "video", r.VideoID, "err", err)
		progress(DownloadUpdate{Stage: DownloadFailed})
		return nil
	}

	if err := d.store(r, data); err != nil {
		d.srv.logger.Warn("failed to cache download", "video", r.VideoID, "err", err)
	}
	progress(DownloadUpdate{Stage: DownloadCompleted, Percent: 100, Data: data})
	return nil
}

// fromCache returns the cached audio for videoID if both the index entry and the file exist.
func (d *downloader) fromCache(videoID string) ([]byte, bool) {
	if d.cache == nil {
		return nil, false
	}
	entry, err := d.cache.GetByVideoID(videoID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			d.srv.logger.Warn("cache lookup failed", "video", videoID, "err", err)
		}
		return nil, false
	}
	data, err := os.ReadFile(entry.Path())
	if err != nil {
		d.srv.logger.Warn("cached file unreadable", "video", videoID, "path", entry.Path(), "err", err)
		return nil, false
	}
	d.srv.logger.Debug("serving from cache", "video", videoID)
	return data, true
}

func (d *downloader) store(r DownloadSong, data []byte) error {
	if d.cache == nil {
		return nil
	}
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := filepath.Join(d.dir, r.VideoID+".webm")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}

	info := r.Info
	info.VideoID = r.VideoID
	if info.Title == "" {
		info.Title = r.VideoID
	}
	return d.cache.Put(models.NewCachedSong(info, path, int64(len(data))))
}
