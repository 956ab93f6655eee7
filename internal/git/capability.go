package git

import "context"

// ApplyOptions select how a patch is applied to the index. Reversal is
// a property of application, never of the stored patch text.
type ApplyOptions struct {
	Reverse bool
	Recount bool
}

// IndexWriter is the capability used for every index mutation that
// goes through an external apply mechanism. Implementations are
// interchangeable; the engine's contracts do not depend on which one
// executes them.
type IndexWriter interface {
	// Apply applies unified patch text to the index. All-or-nothing:
	// on failure the index is unchanged and a *PatchApplyError is
	// returned.
	Apply(ctx context.Context, patch string, opts ApplyOptions) error

	// ResetPath removes a path's staged content from the index,
	// restoring the last-commit state for that path.
	ResetPath(ctx context.Context, path string) error

	// CommitWithEditor runs an interactive commit attached to the
	// caller's terminal and returns the exit code.
	CommitWithEditor(ctx context.Context) (int, error)
}
