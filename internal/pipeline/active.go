package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// ActiveRequests tracks the newest generation per session. Starting a new
// generation cancels the previous one; a finished generation may only apply
// its result while it is still the active one. Usage is persisted either way.
type ActiveRequests struct {
	mu      sync.Mutex
	current map[string]activeEntry
}

type activeEntry struct {
	requestID string
	cancel    context.CancelFunc
}

// NewActiveRequests returns an empty tracker.
func NewActiveRequests() *ActiveRequests {
	return &ActiveRequests{current: map[string]activeEntry{}}
}

// Begin registers a new generation for session and supersedes any earlier
// one. The returned done func must be called when the generation finishes.
func (a *ActiveRequests) Begin(parent context.Context, session string) (ctx context.Context, requestID string, done func()) {
	ctx, cancel := context.WithCancel(parent)
	requestID = uuid.NewString()
	if session == "" {
		return ctx, requestID, cancel
	}

	a.mu.Lock()
	if prev, ok := a.current[session]; ok {
		prev.cancel()
	}
	a.current[session] = activeEntry{requestID: requestID, cancel: cancel}
	a.mu.Unlock()

	return ctx, requestID, func() {
		cancel()
		a.mu.Lock()
		if cur, ok := a.current[session]; ok && cur.requestID == requestID {
			delete(a.current, session)
		}
		a.mu.Unlock()
	}
}

// IsActive reports whether requestID is still the newest generation of
// session. Requests without a session are always active.
func (a *ActiveRequests) IsActive(session, requestID string) bool {
	if session == "" {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	cur, ok := a.current[session]
	return ok && cur.requestID == requestID
}
