package diff

import "time"

// Snapshot is one computed view of every changed file between two
// endpoints. It is immutable once returned; a refresh produces a new
// Snapshot rather than mutating an old one.
type Snapshot struct {
	Timestamp time.Time
	Files     []FileChange
}

// FileChange describes the delta for a single path between the two
// compared endpoints.
type FileChange struct {
	Path   string
	Status FileStatus
	Hunks  []Hunk
}

type FileStatus string

const (
	Added    FileStatus = "Added"
	Modified FileStatus = "Modified"
	Deleted  FileStatus = "Deleted"
	Renamed  FileStatus = "Renamed"
)

// Hunk is a contiguous block of changed lines plus bounding context,
// anchored by 1-based starting line numbers in the old and new content.
//
// StagedLines, Seen and Accepted are UI-facing annotations; mutating
// them never changes OldStart, NewStart or Lines.
type Hunk struct {
	OldStart int
	NewStart int
	Lines    []Line

	StagedLines map[int]struct{}
	Seen        bool
	Accepted    bool

	ID HunkID
}

// NewHunk builds a hunk and derives its identity from the inputs.
func NewHunk(path string, oldStart, newStart int, lines []Line) Hunk {
	return Hunk{
		OldStart:    oldStart,
		NewStart:    newStart,
		Lines:       lines,
		StagedLines: make(map[int]struct{}),
		ID:          NewHunkID(path, oldStart, newStart, lines),
	}
}

// Format renders the hunk body as raw prefixed diff text.
func (h Hunk) Format() string {
	var b []byte
	for _, l := range h.Lines {
		b = append(b, byte(l.Kind))
		b = append(b, l.Content...)
	}
	return string(b)
}

// CountChanges counts logical changes in the hunk: a paired
// removal/addition counts once, unpaired change lines count
// individually.
func (h Hunk) CountChanges() int {
	var adds, removes int
	for _, l := range h.Lines {
		switch l.Kind {
		case LineAdded:
			adds++
		case LineRemoved:
			removes++
		}
	}
	pairs := adds
	if removes < pairs {
		pairs = removes
	}
	return pairs + (adds + removes - 2*pairs)
}

// ChangeLineIndices returns the indices of addition/removal lines in
// order. Context lines are not individually stageable.
func (h Hunk) ChangeLineIndices() []int {
	var out []int
	for i, l := range h.Lines {
		if l.Kind != LineContext {
			out = append(out, i)
		}
	}
	return out
}

// LineKind is the origin marker of a hunk line. The values double as
// the unified-diff prefix byte.
type LineKind byte

const (
	LineContext LineKind = ' '
	LineAdded   LineKind = '+'
	LineRemoved LineKind = '-'
)

// Line is one hunk line: an origin marker plus the raw text without
// its prefix. Content is newline-terminated so it can be written into
// patch text verbatim.
type Line struct {
	Kind    LineKind
	Content string
}

// IsChange reports whether the line is individually stageable.
func (l Line) IsChange() bool {
	return l.Kind == LineAdded || l.Kind == LineRemoved
}
