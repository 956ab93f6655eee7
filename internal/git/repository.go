package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	textdiff "github.com/shogoki/gotextdiff"

	"hunky/internal/diff"
	"hunky/internal/observability"
)

// Repository is the staging engine for one working-directory-backed
// git repository. All operations are synchronous; callers serialize
// index mutations against each other and against snapshot reads, since
// the on-disk index is a single mutable resource.
//
// The repository is reopened per operation so externally written index
// state (including our own CLI applies) is never read from a stale
// in-memory cache.
type Repository struct {
	root   string
	writer IndexWriter
	logger *observability.Logger
}

// Open discovers the repository containing path and returns an engine
// bound to its working tree root.
func Open(path string, logger *observability.Logger) (*Repository, error) {
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, path)
		}
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, ErrNotAWorkingRepository
		}
		return nil, fmt.Errorf("resolve worktree: %w", err)
	}

	root := wt.Filesystem.Root()
	return &Repository{
		root:   root,
		writer: NewCLIWriter(root),
		logger: logger,
	}, nil
}

// Root returns the repository's working tree root.
func (r *Repository) Root() string {
	return r.root
}

// CommitWithEditor hands the terminal to an interactive commit and
// returns its exit code. The index is whatever the staging operations
// left in place.
func (r *Repository) CommitWithEditor(ctx context.Context) (int, error) {
	return r.writer.CommitWithEditor(ctx)
}

func (r *Repository) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpen(r.root)
	if err != nil {
		return nil, fmt.Errorf("%w: reopen %s: %v", ErrDiffComputation, r.root, err)
	}
	return repo, nil
}

// headTree returns the tree of the last commit, or ok=false for an
// empty repository, which is diffed as an empty tree.
func headTree(repo *gogit.Repository) (*object.Tree, bool) {
	head, err := repo.Head()
	if err != nil {
		return nil, false
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, false
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, false
	}
	return tree, true
}

func treeContent(tree *object.Tree, path string) (string, bool) {
	if tree == nil {
		return "", false
	}
	f, err := tree.File(path)
	if err != nil {
		return "", false
	}
	content, err := f.Contents()
	if err != nil {
		return "", false
	}
	return content, true
}

// indexContent reads a path's blob out of the index.
func indexContent(repo *gogit.Repository, path string) (string, bool) {
	idx, err := repo.Storer.Index()
	if err != nil {
		return "", false
	}
	for _, entry := range idx.Entries {
		if entry.Name != path {
			continue
		}
		blob, err := object.GetBlob(repo.Storer, entry.Hash)
		if err != nil {
			return "", false
		}
		reader, err := blob.Reader()
		if err != nil {
			return "", false
		}
		defer reader.Close()
		content, err := io.ReadAll(reader)
		if err != nil {
			return "", false
		}
		return string(content), true
	}
	return "", false
}

func (r *Repository) worktreeContent(path string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(r.root, path))
	if err != nil {
		return "", false
	}
	return string(content), true
}

// computeHunks diffs two content versions of a path into hunks with a
// 3-line context window; adjacent changed regions inside the window
// merge into one hunk.
func computeHunks(path, oldContent, newContent string) []diff.Hunk {
	if oldContent == newContent {
		return nil
	}
	unified := textdiff.Diff(path, []byte(oldContent), path, []byte(newContent))
	return diff.ParseHunks(path, string(unified))
}
