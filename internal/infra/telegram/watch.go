// internal/infra/telegram/watch.go
package telegram

import "sync"

// WatchRegistry tracks which users asked for live re-renders of today's
// schedule whenever their data changes. In-memory only; watch mode does
// not survive a restart.
type WatchRegistry struct {
	mu      sync.Mutex
	watched map[int64]bool
}

func NewWatchRegistry() *WatchRegistry {
	return &WatchRegistry{watched: make(map[int64]bool)}
}

func (r *WatchRegistry) Set(userID int64, on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if on {
		r.watched[userID] = true
	} else {
		delete(r.watched, userID)
	}
}

func (r *WatchRegistry) IsWatched(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.watched[userID]
}

func (r *WatchRegistry) List() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.watched))
	for id := range r.watched {
		ids = append(ids, id)
	}
	return ids
}
