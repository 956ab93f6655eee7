package diff

import "sync"

// SeenTracker records which hunks the user has already reviewed so the
// UI can fade them. It lives for the process lifetime and starts empty;
// entries for a path are dropped when that path is re-staged, and the
// whole set is cleared when the snapshot source changes.
type SeenTracker struct {
	mu   sync.Mutex
	seen map[HunkID]struct{}
}

func NewSeenTracker() *SeenTracker {
	return &SeenTracker{
		seen: make(map[HunkID]struct{}),
	}
}

func (t *SeenTracker) MarkSeen(id HunkID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[id] = struct{}{}
}

func (t *SeenTracker) IsSeen(id HunkID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[id]
	return ok
}

// RemoveFileHunks forgets every hunk recorded for the given path.
func (t *SeenTracker) RemoveFileHunks(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.seen {
		if id.Path == path {
			delete(t.seen, id)
		}
	}
}

func (t *SeenTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen = make(map[HunkID]struct{})
}
