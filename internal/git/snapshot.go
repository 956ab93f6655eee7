package git

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"hunky/internal/diff"
)

// CommitInfo is a read-only summary of one commit, newest-first in
// RecentCommits output.
type CommitInfo struct {
	SHA      string
	ShortSHA string
	Author   string
	Summary  string
	When     time.Time
}

var errStopIter = errors.New("stop iteration")

// Snapshot builds the merged last-commit vs index+working-tree view:
// staged and unstaged changes to the same path appear as a single
// FileChange. Untracked files are included, recursing into untracked
// directories. Read-only.
func (r *Repository) Snapshot(ctx context.Context) (*diff.Snapshot, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: worktree: %v", ErrDiffComputation, err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("%w: status: %v", ErrDiffComputation, err)
	}

	head, _ := headTree(repo)

	paths := make([]string, 0, len(status))
	for path := range status {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var files []diff.FileChange
	for _, path := range paths {
		fileStatus := status[path]
		if fileStatus.Staging == gogit.Unmodified && fileStatus.Worktree == gogit.Unmodified {
			continue
		}

		oldContent, oldOK := treeContent(head, path)
		newContent, newOK := r.worktreeContent(path)
		if oldContent == newContent {
			// Staged and unstaged edits cancelled out; no net change
			// between the last commit and the working tree.
			continue
		}

		files = append(files, diff.FileChange{
			Path:   path,
			Status: fileChangeStatus(fileStatus, oldOK, newOK),
			Hunks:  computeHunks(path, oldContent, newContent),
		})
	}

	return &diff.Snapshot{Timestamp: time.Now(), Files: files}, nil
}

func fileChangeStatus(status *gogit.FileStatus, oldOK, newOK bool) diff.FileStatus {
	switch {
	case status.Staging == gogit.Renamed:
		return diff.Renamed
	case !oldOK:
		return diff.Added
	case !newOK:
		return diff.Deleted
	default:
		return diff.Modified
	}
}

// CommitDiff builds the snapshot of changes a commit introduced,
// compared against its first parent, or against an empty tree for a
// parentless commit (every path reported as Added). The identifier may
// be a full or abbreviated SHA or any resolvable revision.
func (r *Repository) CommitDiff(ctx context.Context, commitID string) (*diff.Snapshot, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(commitID))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, commitID)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, commitID)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("%w: commit tree: %v", ErrDiffComputation, err)
	}

	var files []diff.FileChange
	if commit.NumParents() == 0 {
		err = tree.Files().ForEach(func(f *object.File) error {
			content, err := f.Contents()
			if err != nil {
				return err
			}
			files = append(files, diff.FileChange{
				Path:   f.Name,
				Status: diff.Added,
				Hunks:  computeHunks(f.Name, "", content),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: walk initial commit: %v", ErrDiffComputation, err)
		}
	} else {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("%w: parent commit: %v", ErrDiffComputation, err)
		}
		parentTree, err := parent.Tree()
		if err != nil {
			return nil, fmt.Errorf("%w: parent tree: %v", ErrDiffComputation, err)
		}

		changes, err := object.DiffTree(parentTree, tree)
		if err != nil {
			return nil, fmt.Errorf("%w: diff trees: %v", ErrDiffComputation, err)
		}

		for _, change := range changes {
			fc, err := commitFileChange(parentTree, tree, change)
			if err != nil {
				return nil, err
			}
			files = append(files, fc)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return &diff.Snapshot{Timestamp: time.Now(), Files: files}, nil
}

func commitFileChange(parentTree, tree *object.Tree, change *object.Change) (diff.FileChange, error) {
	action, err := change.Action()
	if err != nil {
		return diff.FileChange{}, fmt.Errorf("%w: change action: %v", ErrDiffComputation, err)
	}

	path := change.To.Name
	if path == "" {
		path = change.From.Name
	}

	var oldContent, newContent string
	if change.From.Name != "" {
		oldContent, _ = treeContent(parentTree, change.From.Name)
	}
	if change.To.Name != "" {
		newContent, _ = treeContent(tree, change.To.Name)
	}

	status := diff.Modified
	switch action {
	case merkletrie.Insert:
		status = diff.Added
	case merkletrie.Delete:
		status = diff.Deleted
	}
	if change.From.Name != "" && change.To.Name != "" && change.From.Name != change.To.Name {
		status = diff.Renamed
	}

	return diff.FileChange{
		Path:   path,
		Status: status,
		Hunks:  computeHunks(path, oldContent, newContent),
	}, nil
}

// RecentCommits returns up to limit commits reachable from HEAD,
// newest first. An empty repository yields an empty list.
func (r *Repository) RecentCommits(ctx context.Context, limit int) ([]CommitInfo, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, nil
	}

	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("%w: log: %v", ErrDiffComputation, err)
	}
	defer iter.Close()

	var commits []CommitInfo
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(commits) >= limit {
			return errStopIter
		}
		sha := c.Hash.String()
		commits = append(commits, CommitInfo{
			SHA:      sha,
			ShortSHA: sha[:7],
			Author:   c.Author.Name,
			Summary:  firstLine(c.Message),
			When:     c.Author.When,
		})
		return nil
	})
	if err != nil && !errors.Is(err, errStopIter) {
		return nil, fmt.Errorf("%w: walk commits: %v", ErrDiffComputation, err)
	}
	return commits, nil
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
