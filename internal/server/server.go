package server

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/player"
	"github.com/desertthunder/ytui/internal/services"
	"github.com/desertthunder/ytui/internal/tasks"
)

const defaultPlayerQueue = 256

// SongCache is the media cache index used by the downloader.
type SongCache interface {
	GetByVideoID(videoID string) (*models.CachedSong, error)
	Put(c *models.CachedSong) error
}

// Options configures a [Server].
type Options struct {
	Catalogue        services.Catalogue
	Media            services.MediaFetcher
	Engine           player.Engine
	Cache            SongCache // optional
	CacheDir         string    // where downloads are written when Cache is set
	AlbumConcurrency int
	ProgressInterval time.Duration // minimum time between Downloading updates
	PlayerQueue      int           // playback requests buffered ahead of the player
	Logger           *log.Logger
}

// Server routes requests to its handlers and owns the response channel.
type Server struct {
	api        *api
	downloader *downloader
	player     *playerWorker

	logger *log.Logger
	wg     sync.WaitGroup

	mu     sync.RWMutex
	out    chan<- Response
	closed bool
}

// New creates a server that reports on out. Run closes out when it returns.
func New(out chan<- Response, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.AlbumConcurrency <= 0 {
		opts.AlbumConcurrency = 4
	}
	if opts.Engine == nil {
		opts.Engine = player.NewClock(50)
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = 100 * time.Millisecond
	}
	if opts.PlayerQueue <= 0 {
		opts.PlayerQueue = defaultPlayerQueue
	}

	s := &Server{out: out, logger: opts.Logger}
	s.api = &api{srv: s, catalogue: opts.Catalogue, concurrency: opts.AlbumConcurrency}
	s.downloader = &downloader{srv: s, media: opts.Media, cache: opts.Cache, dir: opts.CacheDir, interval: opts.ProgressInterval}
	s.player = &playerWorker{srv: s, engine: opts.Engine, requests: make(chan Request, opts.PlayerQueue)}
	return s
}

// Run handles requests until ctx is done or requests is closed, then waits for running
// workers and closes the response channel.
func (s *Server) Run(ctx context.Context, requests <-chan Request) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.wg.Wait()
		s.player.engine.Stop()
		s.mu.Lock()
		s.closed = true
		close(s.out)
		s.mu.Unlock()
		s.logger.Info("server stopped")
	}()

	s.spawn("player", func() { s.player.loop(ctx) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			s.route(ctx, req)
		}
	}
}

func (s *Server) route(ctx context.Context, req Request) {
	switch r := req.(type) {
	case NewArtistSearch:
		s.runKillable(ctx, "search_artists", r.Task, func(ctx context.Context) error {
			return s.api.searchArtists(ctx, r)
		})
	case GetSearchSuggestions:
		s.runKillable(ctx, "search_suggestions", r.Task, func(ctx context.Context) error {
			return s.api.searchSuggestions(ctx, r)
		})
	case SearchSelectedArtist:
		s.runKillable(ctx, "artist_songs", r.Task, func(ctx context.Context) error {
			return s.api.artistSongs(ctx, r)
		})
	case DownloadSong:
		s.runKillable(ctx, "download", r.Task, func(ctx context.Context) error {
			return s.downloader.download(ctx, r)
		})
	case IncreaseVolume, GetVolume, PlaySong, GetProgress, Stop, PausePlay:
		// The request loop must keep draining while the player waits on a full response channel.
		select {
		case s.player.requests <- req:
		default:
			s.logger.Warn("player queue full, dropping request", "type", fmt.Sprintf("%T", req))
		}
	default:
		s.logger.Warn("unknown request", "type", fmt.Sprintf("%T", req))
	}
}

// spawn runs fn on a tracked goroutine, recovering and logging a panic.
func (s *Server) spawn(name string, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("worker panic", "worker", name, "panic", p, "stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}

// runKillable runs job for a killable task and acknowledges it with [TaskFinished] when it
// returns without being aborted.
func (s *Server) runKillable(ctx context.Context, name string, task tasks.KillableTask, job func(context.Context) error) {
	s.spawn(name, func() {
		_, err := tasks.RunOrKill(ctx, task.Cancel, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, job(ctx)
		})
		switch {
		case errors.Is(err, tasks.ErrKilled), errors.Is(err, tasks.ErrSenderDropped):
			s.logger.Debug("task aborted", "worker", name, "task", task.ID, "reason", err)
			return
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			s.logger.Error("task failed", "worker", name, "task", task.ID, "err", err)
		}
		s.emit(ctx, task.Cancel, TaskFinished{Task: task.ID})
	})
}

// emit sends resp unless rx has fired, ctx is done or the server has shut down.
func (s *Server) emit(ctx context.Context, rx *tasks.CancelReceiver, resp Response) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	return tasks.Send(ctx, rx, s.out, resp)
}
