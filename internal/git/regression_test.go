package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// Staging a whole hunk against an index that already holds a partial,
// overlapping staged edit of the same region can be rejected by the
// apply mechanism with a context mismatch. Known unresolved case;
// skipped until a fix lands.
func TestStageHunkFromPartialOverlappingIndexState(t *testing.T) {
	t.Skip("whole-hunk staging over a partially staged overlapping region is not yet supported")

	base := "{\n  \"alpha\": 1,\n  \"beta\": 2,\n  \"gamma\": 3,\n  \"delta\": 4\n}\n"
	indexed := "{\n  \"alpha\": 1,\n  \"beta\": 20,\n  \"beta\": 21,\n  \"gamma\": 3,\n  \"delta\": 4\n}\n"
	worktree := "{\n  \"alpha\": 1,\n  \"beta\": 22,\n  \"gamma\": 30,\n  \"delta\": 4\n}\n"

	tr := newTestRepo(t)
	tr.write("state.lock", base)
	tr.commitAll("initial")

	tr.write("state.lock", indexed)
	tr.git("add", "state.lock")
	tr.write("state.lock", worktree)

	hunk := tr.firstHunk("state.lock")
	require.NoError(t, tr.repo.StageHunk(context.Background(), hunk, "state.lock"))
}
