package tasks

// RequestCategory groups requests by cancellation policy.
type RequestCategory int

const (
	Search RequestCategory = iota
	SuggestionLookup
	MetadataFetch
	Download
	VolumeChange
	VolumeQuery
	Unkillable
)

func (c RequestCategory) String() string {
	switch c {
	case Search:
		return "search"
	case SuggestionLookup:
		return "suggestion_lookup"
	case MetadataFetch:
		return "metadata_fetch"
	case Download:
		return "download"
	case VolumeChange:
		return "volume_change"
	case VolumeQuery:
		return "volume_query"
	case Unkillable:
		return "unkillable"
	default:
		return ""
	}
}

// Dispatch describes what a worker receives for a category.
type Dispatch int

const (
	// DispatchKillable hands the worker a [KillableTask].
	DispatchKillable Dispatch = iota
	// DispatchBlockable hands the worker a bare [TaskID]; it can be blocked but never killed.
	DispatchBlockable
	// DispatchUntracked hands the worker nothing; the request is never tracked.
	DispatchUntracked
)

// Policy is the supersession behaviour applied when a request of a category is admitted.
//
// Block is applied before Kill.
type Policy struct {
	Block    []RequestCategory // categories removed from the registry without a signal
	Kill     []RequestCategory // categories signalled and removed
	Dispatch Dispatch
}

// Tracked reports whether requests under this policy are stored in the registry.
func (p Policy) Tracked() bool {
	return p.Dispatch != DispatchUntracked
}

// PolicyFor returns the policy for a category. It has no side effects.
func PolicyFor(c RequestCategory) Policy {
	switch c {
	case Search, SuggestionLookup, MetadataFetch:
		return Policy{Kill: []RequestCategory{c}, Dispatch: DispatchKillable}
	case Download:
		return Policy{Dispatch: DispatchKillable}
	case VolumeChange:
		return Policy{
			Block:    []RequestCategory{VolumeChange},
			Kill:     []RequestCategory{VolumeQuery},
			Dispatch: DispatchBlockable,
		}
	case VolumeQuery:
		return Policy{
			Block:    []RequestCategory{VolumeChange},
			Kill:     []RequestCategory{VolumeQuery},
			Dispatch: DispatchKillable,
		}
	default:
		return Policy{Dispatch: DispatchUntracked}
	}
}
