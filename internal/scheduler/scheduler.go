package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytui/internal/server"
	"github.com/desertthunder/ytui/internal/tasks"
)

// DefaultQueueLength is the capacity of the request queue and of the server channels.
const DefaultQueueLength = 256

// ErrServerClosed is returned by [Scheduler.ProcessMessages] once the server's response
// channel is closed. It is terminal.
var ErrServerClosed = errors.New("scheduler: server response channel closed")

// Options configures a [Scheduler].
type Options struct {
	ServerRequests  chan<- server.Request
	ServerResponses <-chan server.Response
	QueueLength     int
	Logger          *log.Logger
}

// Scheduler owns the task registry.
type Scheduler struct {
	registry  *tasks.Registry
	queue     chan tasks.AppRequest
	toServer  chan<- server.Request
	responses <-chan server.Response

	// latestPlay is the id of the most recent PlaySong admission.
	latestPlay tasks.TaskID

	logger *log.Logger
}

func New(opts Options) *Scheduler {
	if opts.QueueLength <= 0 {
		opts.QueueLength = DefaultQueueLength
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Scheduler{
		registry:  tasks.NewRegistry(),
		queue:     make(chan tasks.AppRequest, opts.QueueLength),
		toServer:  opts.ServerRequests,
		responses: opts.ServerResponses,
		logger:    opts.Logger,
	}
}

// Sender returns the queue the presentation layer writes requests to.
func (s *Scheduler) Sender() chan<- tasks.AppRequest { return s.queue }

// Enqueue queues req without blocking. A full queue drops req with a warning.
func (s *Scheduler) Enqueue(req tasks.AppRequest) bool {
	select {
	case s.queue <- req:
		return true
	default:
		s.logger.Warn("request queue full, dropping request", "request", req)
		return false
	}
}

// ProcessRequests admits every request already queued and returns how many were admitted.
func (s *Scheduler) ProcessRequests(ctx context.Context) int {
	n := 0
	for {
		select {
		case req := <-s.queue:
			s.Admit(ctx, req)
			n++
		default:
			return n
		}
	}
}

// Admit assigns req an id, applies its category policy to older tasks and dispatches it to
// the server. Dispatch blocks while the server queue is full; if ctx ends first the request
// is dropped and its task removed.
func (s *Scheduler) Admit(ctx context.Context, req tasks.AppRequest) tasks.TaskID {
	cat := req.Category()
	policy := tasks.PolicyFor(cat)

	if !policy.Tracked() {
		id := s.registry.NextID()
		if !s.dispatch(ctx, id, toServerRequest(req, id, nil), false) {
			return id
		}
		if _, ok := req.(tasks.PlaySong); ok {
			s.latestPlay = id
		}
		return id
	}

	id, rx := s.registry.Insert(req)
	for _, c := range policy.Block {
		if blocked := s.registry.BlockCategoryExcept(c, id); len(blocked) > 0 {
			s.logger.Debug("blocked tasks", "category", c, "tasks", blocked, "by", id)
		}
	}
	for _, c := range policy.Kill {
		if killed := s.registry.KillCategoryExcept(c, id); len(killed) > 0 {
			s.logger.Debug("killed tasks", "category", c, "tasks", killed, "by", id)
		}
	}

	if policy.Dispatch == tasks.DispatchBlockable {
		rx = nil
	}
	s.dispatch(ctx, id, toServerRequest(req, id, rx), true)
	return id
}

// dispatch reports whether req reached the server.
func (s *Scheduler) dispatch(ctx context.Context, id tasks.TaskID, req server.Request, tracked bool) bool {
	select {
	case s.toServer <- req:
		return true
	case <-ctx.Done():
		s.logger.Warn("failed to dispatch request", "task", id, "request", fmt.Sprintf("%T", req), "err", ctx.Err())
		if tracked {
			s.registry.Complete(id)
		}
		return false
	}
}

// ProcessMessages drains the responses already available without blocking and returns the
// updates that belong to valid tasks, in arrival order.
//
// Once the response channel is closed it returns [ErrServerClosed] along with any updates
// drained before the closure.
func (s *Scheduler) ProcessMessages() ([]StateUpdate, error) {
	var updates []StateUpdate
	for {
		select {
		case resp, ok := <-s.responses:
			if !ok {
				s.logger.Error("server response channel closed")
				return updates, ErrServerClosed
			}
			if u, ok := s.accept(resp); ok {
				updates = append(updates, u)
			}
		default:
			return updates, nil
		}
	}
}

// accept applies the validity gate to one response.
func (s *Scheduler) accept(resp server.Response) (StateUpdate, bool) {
	switch r := resp.(type) {
	case server.TaskFinished:
		s.registry.Complete(r.Task)
		return nil, false
	case server.Tracked:
		if !s.registry.IsValid(r.TaskID()) {
			s.logger.Debug("discarding stale response", "task", r.TaskID(), "response", fmt.Sprintf("%T", resp))
			return nil, false
		}
	case server.Playback:
		if play := r.PlayID(); play != 0 && s.latestPlay.Newer(play) {
			s.logger.Debug("discarding stale playback event", "play", play, "latest", s.latestPlay)
			return nil, false
		}
	}
	return toStateUpdate(resp)
}

// IsValid reports whether id is a live tracked task.
func (s *Scheduler) IsValid(id tasks.TaskID) bool { return s.registry.IsValid(id) }

// Pending returns the number of live tracked tasks.
func (s *Scheduler) Pending() int { return s.registry.Len() }

// toServerRequest builds the server request for req. rx is nil for untracked and
// block-only requests.
func toServerRequest(req tasks.AppRequest, id tasks.TaskID, rx *tasks.CancelReceiver) server.Request {
	task := tasks.NewKillableTask(id, rx)
	switch r := req.(type) {
	case tasks.SearchArtists:
		return server.NewArtistSearch{Query: r.Query, Task: task}
	case tasks.GetSearchSuggestions:
		return server.GetSearchSuggestions{Query: r.Query, Task: task}
	case tasks.GetArtistSongs:
		return server.SearchSelectedArtist{ChannelID: r.ChannelID, Task: task}
	case tasks.DownloadSong:
		return server.DownloadSong{VideoID: r.VideoID, Song: r.Song, Info: r.Info, Task: task}
	case tasks.IncreaseVolume:
		return server.IncreaseVolume{Delta: r.Delta, Task: id}
	case tasks.GetVolume:
		return server.GetVolume{Task: task}
	case tasks.PlaySong:
		return server.PlaySong{Data: r.Data, Song: r.Song, Duration: r.Duration, Play: id}
	case tasks.GetProgress:
		return server.GetProgress{Song: r.Song}
	case tasks.Stop:
		return server.Stop{}
	case tasks.PausePlay:
		return server.PausePlay{}
	default:
		panic(fmt.Sprintf("scheduler: unhandled request %T", req))
	}
}
