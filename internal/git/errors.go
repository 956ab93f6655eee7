package git

import (
	"errors"
	"fmt"
)

var (
	// ErrRepositoryNotFound means the given path is not inside a git
	// repository.
	ErrRepositoryNotFound = errors.New("no git repository found")

	// ErrNotAWorkingRepository means the repository has no working
	// directory (bare).
	ErrNotAWorkingRepository = errors.New("repository has no working directory")

	// ErrCommitNotFound means a requested commit identifier did not
	// resolve.
	ErrCommitNotFound = errors.New("commit not found")

	// ErrDiffComputation wraps lower-level traversal failures while
	// building a snapshot.
	ErrDiffComputation = errors.New("diff computation failed")

	// ErrLineIndexOutOfBounds means a line index does not exist in the
	// hunk.
	ErrLineIndexOutOfBounds = errors.New("line index out of bounds")

	// ErrUnsupportedLineKind means the target line is not an addition
	// or removal.
	ErrUnsupportedLineKind = errors.New("only addition and removal lines can be staged")
)

// PatchApplyError reports a patch rejected by the apply mechanism. The
// index is left unchanged; Patch carries the exact rejected text for
// diagnosis.
type PatchApplyError struct {
	Patch   string
	Message string
}

func (e *PatchApplyError) Error() string {
	return fmt.Sprintf("patch did not apply: %s", e.Message)
}
