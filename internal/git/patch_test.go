package git

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hunky/internal/diff"
)

func makeHunk(t *testing.T, oldStart, newStart int, raw ...string) *diff.Hunk {
	t.Helper()
	lines := make([]diff.Line, 0, len(raw))
	for _, r := range raw {
		require.NotEmpty(t, r)
		lines = append(lines, diff.Line{Kind: diff.LineKind(r[0]), Content: r[1:] + "\n"})
	}
	h := diff.NewHunk("example.txt", oldStart, newStart, lines)
	return &h
}

func TestHunkPatchRecomputesHeaderCounts(t *testing.T) {
	hunk := makeHunk(t, 1, 1,
		" one",
		"-two",
		"+two changed",
		"+extra",
		" three",
	)

	patch := HunkPatch("example.txt", hunk)
	require.Equal(t,
		"diff --git a/example.txt b/example.txt\n"+
			"--- a/example.txt\n"+
			"+++ b/example.txt\n"+
			"@@ -1,3 +1,4 @@\n"+
			" one\n"+
			"-two\n"+
			"+two changed\n"+
			"+extra\n"+
			" three\n",
		patch)
}

func TestLinePatchCollectsBoundedContext(t *testing.T) {
	hunk := makeHunk(t, 10, 10,
		" c1",
		" c2",
		" c3",
		" c4",
		"+added",
		" c5",
		" c6",
		" c7",
		" c8",
	)

	patch, err := LinePatch("example.txt", hunk, 4)
	require.NoError(t, err)

	// Three context lines on each side; c1 and c8 fall outside the
	// window. The old start advances by the one skipped context line.
	require.Equal(t,
		"diff --git a/example.txt b/example.txt\n"+
			"--- a/example.txt\n"+
			"+++ b/example.txt\n"+
			"@@ -11,6 +11,7 @@\n"+
			" c2\n"+
			" c3\n"+
			" c4\n"+
			"+added\n"+
			" c5\n"+
			" c6\n"+
			" c7\n",
		patch)
}

func TestLinePatchStopsContextAtNeighbouringChange(t *testing.T) {
	hunk := makeHunk(t, 1, 1,
		" keep",
		"-removed",
		" mid",
		"+target",
		" tail",
	)

	patch, err := LinePatch("example.txt", hunk, 3)
	require.NoError(t, err)

	// Context collection stops at the removal above; the mini-hunk
	// starts at " mid", whose exact position accounts for the earlier
	// removal on the old side only.
	require.Equal(t,
		"diff --git a/example.txt b/example.txt\n"+
			"--- a/example.txt\n"+
			"+++ b/example.txt\n"+
			"@@ -3,2 +2,3 @@\n"+
			" mid\n"+
			"+target\n"+
			" tail\n",
		patch)
}

func TestLinePatchRemovalCounts(t *testing.T) {
	hunk := makeHunk(t, 5, 5,
		" above",
		"-gone",
		" below",
	)

	patch, err := LinePatch("example.txt", hunk, 1)
	require.NoError(t, err)
	require.Contains(t, patch, "@@ -5,3 +5,2 @@\n")
	require.Contains(t, patch, "-gone\n")
}

func TestLinePatchRejectsOutOfBoundsIndex(t *testing.T) {
	hunk := makeHunk(t, 1, 1, " only", "+add")

	_, err := LinePatch("example.txt", hunk, 7)
	require.ErrorIs(t, err, ErrLineIndexOutOfBounds)

	_, err = LinePatch("example.txt", hunk, -1)
	require.ErrorIs(t, err, ErrLineIndexOutOfBounds)
}

func TestLinePatchRejectsContextTarget(t *testing.T) {
	hunk := makeHunk(t, 1, 1, " ctx", "+add")

	_, err := LinePatch("example.txt", hunk, 0)
	require.ErrorIs(t, err, ErrUnsupportedLineKind)
}
