package server

import (
	"context"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/player"
	"github.com/desertthunder/ytui/internal/tasks"
)

// playerWorker applies playback requests in arrival order on one goroutine.
type playerWorker struct {
	srv      *Server
	engine   player.Engine
	requests chan Request

	song    models.ListSongID
	play    tasks.TaskID
	playing bool
}

func (p *playerWorker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-p.requests:
			p.handle(ctx, req)
		}
	}
}

func (p *playerWorker) handle(ctx context.Context, req Request) {
	switch r := req.(type) {
	case PlaySong:
		outcome, err := p.engine.Play(r.Data, r.Duration)
		if err != nil {
			p.srv.logger.Warn("playback failed", "song", r.Song, "err", err)
			p.playing = false
			p.srv.emit(ctx, nil, Stopped{})
			return
		}
		p.song, p.play, p.playing = r.Song, r.Play, true
		p.srv.emit(ctx, nil, Playing{Song: r.Song, Play: r.Play})
		p.srv.spawn("playback", func() {
			select {
			case natural := <-outcome:
				if natural {
					p.srv.emit(ctx, nil, DonePlaying{Song: r.Song, Play: r.Play})
				}
			case <-ctx.Done():
			}
		})

	case PausePlay:
		paused, ok := p.engine.TogglePause()
		if !ok {
			return
		}
		if paused {
			p.srv.emit(ctx, nil, Paused{Song: p.song, Play: p.play})
		} else {
			p.srv.emit(ctx, nil, Playing{Song: p.song, Play: p.play})
		}

	case Stop:
		p.engine.Stop()
		p.playing = false
		p.srv.emit(ctx, nil, Stopped{})

	case GetProgress:
		if !p.playing || r.Song != p.song {
			return
		}
		p.srv.emit(ctx, nil, PlayProgress{Song: r.Song, Elapsed: p.engine.Elapsed()})

	case IncreaseVolume:
		vol := p.engine.AdjustVolume(int(r.Delta))
		if p.srv.emit(ctx, nil, VolumeUpdate{Volume: vol, Task: r.Task}) {
			p.srv.emit(ctx, nil, TaskFinished{Task: r.Task})
		}

	case GetVolume:
		rx := r.Task.Cancel
		if p.srv.emit(ctx, rx, VolumeUpdate{Volume: p.engine.Volume(), Task: r.Task.ID}) {
			p.srv.emit(ctx, rx, TaskFinished{Task: r.Task.ID})
		}
	}
}
