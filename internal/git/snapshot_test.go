package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"hunky/internal/diff"
)

func TestSnapshotReportsFileStatus(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("status.txt", "hello\n")
	tr.commitAll("initial")
	tr.write("status.txt", "hello world\n")

	fc := tr.fileChange("status.txt")
	require.Equal(t, diff.Modified, fc.Status)
	require.NotEmpty(t, fc.Hunks)
}

func TestSnapshotMergesStagedAndUnstagedChanges(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("example.txt", "one\ntwo\nthree\nfour\n")
	tr.commitAll("initial")

	tr.write("example.txt", "one\ntwo-staged\nthree\nfour\n")
	tr.git("add", "example.txt")
	tr.write("example.txt", "one\ntwo-staged\nthree\nfour-unstaged\n")

	// One FileChange carrying both edits, diffed against the last commit.
	fc := tr.fileChange("example.txt")
	body := ""
	for _, h := range fc.Hunks {
		body += h.Format()
	}
	require.Contains(t, body, "+two-staged")
	require.Contains(t, body, "+four-unstaged")
}

func TestSnapshotIncludesUntrackedFiles(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("tracked.txt", "content\n")
	tr.commitAll("initial")
	tr.write("newdir/fresh.txt", "brand new\n")

	fc := tr.fileChange("newdir/fresh.txt")
	require.Equal(t, diff.Added, fc.Status)
	require.NotEmpty(t, fc.Hunks)
}

func TestSnapshotReportsDeletedFiles(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("doomed.txt", "short lived\n")
	tr.commitAll("initial")
	tr.remove("doomed.txt")

	fc := tr.fileChange("doomed.txt")
	require.Equal(t, diff.Deleted, fc.Status)
	require.NotEmpty(t, fc.Hunks)
	require.Equal(t, diff.LineRemoved, fc.Hunks[0].Lines[0].Kind)
}

func TestSnapshotOnEmptyRepositoryTreatsEverythingAsAdded(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("first.txt", "no commits yet\n")

	fc := tr.fileChange("first.txt")
	require.Equal(t, diff.Added, fc.Status)
}

func TestSnapshotSkipsCancelledOutEdits(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("example.txt", "one\ntwo\n")
	tr.commitAll("initial")

	// Stage an edit, then revert the working tree to the committed
	// content. Net change against the last commit is zero.
	tr.write("example.txt", "one\ntwo edited\n")
	tr.git("add", "example.txt")
	tr.write("example.txt", "one\ntwo\n")

	snap, err := tr.repo.Snapshot(context.Background())
	require.NoError(t, err)
	for _, f := range snap.Files {
		require.NotEqual(t, "example.txt", f.Path)
	}
}

func TestRecentCommitsReturnsNewestFirst(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "a\n")
	tr.commitAll("first commit")
	tr.write("b.txt", "b\n")
	tr.commitAll("second commit")

	commits, err := tr.repo.RecentCommits(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	require.Equal(t, "second commit", commits[0].Summary)
	require.Equal(t, "first commit", commits[1].Summary)
	require.Len(t, commits[0].ShortSHA, 7)
	require.Equal(t, "Test User", commits[0].Author)
}

func TestRecentCommitsRespectsLimit(t *testing.T) {
	tr := newTestRepo(t)
	for _, name := range []string{"one", "two", "three", "four", "five"} {
		tr.write(name+".txt", name+"\n")
		tr.commitAll(name)
	}

	commits, err := tr.repo.RecentCommits(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, commits, 3)
	require.Equal(t, "five", commits[0].Summary)
}

func TestRecentCommitsOnEmptyRepository(t *testing.T) {
	tr := newTestRepo(t)
	commits, err := tr.repo.RecentCommits(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, commits)
}

func TestCommitDiffAgainstParent(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("example.txt", "line 1\nline 2\nline 3\n")
	tr.commitAll("initial")
	tr.write("example.txt", "line 1\nline 2 updated\nline 3\n")
	tr.commitAll("update line 2")

	commits, err := tr.repo.RecentCommits(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, commits, 1)

	snap, err := tr.repo.CommitDiff(context.Background(), commits[0].SHA)
	require.NoError(t, err)
	require.Len(t, snap.Files, 1)
	require.Equal(t, "example.txt", snap.Files[0].Path)
	require.Equal(t, diff.Modified, snap.Files[0].Status)

	body := snap.Files[0].Hunks[0].Format()
	require.Contains(t, body, "-line 2\n")
	require.Contains(t, body, "+line 2 updated\n")
}

func TestCommitDiffOnInitialCommitReportsAllAdded(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "alpha\n")
	tr.write("b.txt", "beta\n")
	tr.commitAll("initial")

	commits, err := tr.repo.RecentCommits(context.Background(), 1)
	require.NoError(t, err)

	snap, err := tr.repo.CommitDiff(context.Background(), commits[0].SHA)
	require.NoError(t, err)
	require.NotEmpty(t, snap.Files)
	for _, f := range snap.Files {
		require.Equal(t, diff.Added, f.Status)
		require.NotEmpty(t, f.Hunks)
	}
}

func TestCommitDiffResolvesShortSHA(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "alpha\n")
	tr.commitAll("initial")

	commits, err := tr.repo.RecentCommits(context.Background(), 1)
	require.NoError(t, err)

	snap, err := tr.repo.CommitDiff(context.Background(), commits[0].ShortSHA)
	require.NoError(t, err)
	require.NotEmpty(t, snap.Files)
}

func TestCommitDiffUnknownCommit(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "alpha\n")
	tr.commitAll("initial")

	_, err := tr.repo.CommitDiff(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	require.ErrorIs(t, err, ErrCommitNotFound)
}
