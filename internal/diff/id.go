package diff

import "hash/fnv"

// HunkID identifies a hunk by its path, anchor coordinates and a hash
// of its body. Equal inputs always produce equal IDs; any change to
// the body changes the hash. IDs are session-scoped bookkeeping keys
// and are never persisted.
type HunkID struct {
	Path        string
	OldStart    int
	NewStart    int
	ContentHash uint64
}

// NewHunkID derives a hunk identity from its inputs.
func NewHunkID(path string, oldStart, newStart int, lines []Line) HunkID {
	h := fnv.New64a()
	for _, l := range lines {
		_, _ = h.Write([]byte{byte(l.Kind)})
		_, _ = h.Write([]byte(l.Content))
	}
	return HunkID{
		Path:        path,
		OldStart:    oldStart,
		NewStart:    newStart,
		ContentHash: h.Sum64(),
	}
}
