package tasks

import "fmt"

// TaskID identifies one admitted request. Ids start at 1 and increase by one per admission.
// The zero value means "no task".
type TaskID uint64

func (id TaskID) String() string { return fmt.Sprintf("task#%d", uint64(id)) }

// Newer reports whether id was admitted after other.
func (id TaskID) Newer(other TaskID) bool { return id > other }

// Task is a registry record.
type Task struct {
	ID      TaskID
	Request AppRequest
	cancel  *CancelSender
}

// Registry is the ordered set of live tasks.
//
// It is not safe for concurrent use; it is owned by a single scheduler goroutine.
type Registry struct {
	cur   TaskID
	tasks []Task
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NextID allocates an id without storing a task. Used for untracked requests so that ids
// stay unique and ordered across every admission.
func (r *Registry) NextID() TaskID {
	r.cur++
	return r.cur
}

// Insert allocates the next id, stores req with a fresh cancellation sender and returns the
// id together with the receiver half for the worker.
func (r *Registry) Insert(req AppRequest) (TaskID, *CancelReceiver) {
	id := r.NextID()
	tx, rx := NewCancelPair()
	r.tasks = append(r.tasks, Task{ID: id, Request: req, cancel: tx})
	return id, rx
}

// IsValid reports whether id is still registered.
func (r *Registry) IsValid(id TaskID) bool {
	for _, t := range r.tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of live tasks.
func (r *Registry) Len() int { return len(r.tasks) }

// Tasks returns a copy of the live task records in admission order.
func (r *Registry) Tasks() []Task {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// KillCategoryExcept signals and removes every task of category c other than keep.
// It returns the ids removed.
func (r *Registry) KillCategoryExcept(c RequestCategory, keep TaskID) []TaskID {
	return r.removeWhere(func(t Task) bool {
		return t.Request.Category() == c && t.ID != keep
	}, (*CancelSender).Kill)
}

// BlockCategoryExcept removes every task of category c other than keep without signalling.
// Their senders are dropped, so the workers may keep running but nothing they produce is
// accepted. It returns the ids removed.
func (r *Registry) BlockCategoryExcept(c RequestCategory, keep TaskID) []TaskID {
	return r.removeWhere(func(t Task) bool {
		return t.Request.Category() == c && t.ID != keep
	}, (*CancelSender).Drop)
}

// Complete removes a task whose worker has finished. It reports whether id was present.
func (r *Registry) Complete(id TaskID) bool {
	removed := r.removeWhere(func(t Task) bool { return t.ID == id }, (*CancelSender).Drop)
	return len(removed) > 0
}

func (r *Registry) removeWhere(match func(Task) bool, release func(*CancelSender) bool) []TaskID {
	var removed []TaskID
	kept := r.tasks[:0]
	for _, t := range r.tasks {
		if !match(t) {
			kept = append(kept, t)
			continue
		}
		release(t.cancel)
		t.cancel = nil
		removed = append(removed, t.ID)
	}
	for i := len(kept); i < len(r.tasks); i++ {
		r.tasks[i] = Task{}
	}
	r.tasks = kept
	return removed
}
