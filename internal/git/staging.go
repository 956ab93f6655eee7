package git

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"hunky/internal/diff"
	"hunky/internal/observability"
)

// StageFile records the path's complete working-tree content in the
// index. Deleted paths are staged as removals.
func (r *Repository) StageFile(ctx context.Context, path string) error {
	repo, err := r.open()
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: worktree: %v", ErrDiffComputation, err)
	}
	if _, err := wt.Add(path); err != nil {
		return fmt.Errorf("stage file %s: %w", path, err)
	}
	r.logger.Debug("staged file", "path", path)
	return nil
}

// UnstageFile restores the path's index entry to its last-commit
// state.
func (r *Repository) UnstageFile(ctx context.Context, path string) error {
	if err := r.writer.ResetPath(ctx, path); err != nil {
		return err
	}
	r.logger.Debug("unstaged file", "path", path)
	return nil
}

// StageHunk applies the hunk to the index as one patch.
func (r *Repository) StageHunk(ctx context.Context, hunk *diff.Hunk, path string) error {
	return r.applyPatch(ctx, HunkPatch(path, hunk), ApplyOptions{}, "stage_hunk")
}

// UnstageHunk removes the hunk's changes from the index by applying
// the same patch in reverse.
func (r *Repository) UnstageHunk(ctx context.Context, hunk *diff.Hunk, path string) error {
	return r.applyPatch(ctx, HunkPatch(path, hunk), ApplyOptions{Reverse: true}, "unstage_hunk")
}

// StageLine stages a single change line. The caller's hunk comes from
// the commit-vs-working-tree view; when part of that hunk is already
// staged the index no longer matches its coordinates, so the line is
// first re-resolved against the current index-vs-working-tree diff and
// the patch is built from the resolved hunk.
func (r *Repository) StageLine(ctx context.Context, hunk *diff.Hunk, lineIndex int, path string) error {
	resolved, resolvedIndex, err := r.resolveLineAgainstUnstaged(hunk, lineIndex, path)
	if err != nil {
		return err
	}
	patch, err := LinePatch(path, resolved, resolvedIndex)
	if err != nil {
		return err
	}
	return r.applyPatch(ctx, patch, ApplyOptions{Recount: true}, "stage_line")
}

// UnstageLine reverses a single change line out of the index.
func (r *Repository) UnstageLine(ctx context.Context, hunk *diff.Hunk, lineIndex int, path string) error {
	patch, err := LinePatch(path, hunk, lineIndex)
	if err != nil {
		return err
	}
	return r.applyPatch(ctx, patch, ApplyOptions{Reverse: true, Recount: true}, "unstage_line")
}

func (r *Repository) applyPatch(ctx context.Context, patch string, opts ApplyOptions, op string) error {
	if err := r.writer.Apply(ctx, patch, opts); err != nil {
		observability.PatchRejections.WithLabelValues(op).Inc()
		r.logger.Warn("patch rejected", "op", op, "error", err)
		return err
	}
	observability.PatchApplies.WithLabelValues(op).Inc()
	return nil
}

// DetectStagedLines returns the indices of the hunk's change lines
// already present in the index. Matching is positional: each change is
// keyed by its coordinate on the last-commit side of the file plus its
// content, which both the commit-vs-index diff and the hunk's
// commit-vs-working-tree diff share as a baseline. Identical text
// elsewhere in the file never matches.
func (r *Repository) DetectStagedLines(ctx context.Context, hunk *diff.Hunk, path string) (map[int]struct{}, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	head, _ := headTree(repo)
	headState, _ := treeContent(head, path)
	indexState, _ := indexContent(repo, path)

	type changeKey struct {
		oldLine int
		content string
	}
	stagedAdditions := make(map[changeKey]struct{})
	stagedDeletions := make(map[changeKey]struct{})

	for _, stagedHunk := range computeHunks(path, headState, indexState) {
		oldLine := stagedHunk.OldStart
		for _, line := range stagedHunk.Lines {
			switch line.Kind {
			case diff.LineContext:
				oldLine++
			case diff.LineRemoved:
				stagedDeletions[changeKey{oldLine, line.Content}] = struct{}{}
				oldLine++
			case diff.LineAdded:
				// An addition has no line of its own on the
				// last-commit side; key it by the insertion point, the
				// old line it precedes. The counter does not advance.
				stagedAdditions[changeKey{oldLine, line.Content}] = struct{}{}
			}
		}
	}

	staged := make(map[int]struct{})
	oldLine := hunk.OldStart
	for i, line := range hunk.Lines {
		switch line.Kind {
		case diff.LineContext:
			oldLine++
		case diff.LineRemoved:
			if _, ok := stagedDeletions[changeKey{oldLine, line.Content}]; ok {
				staged[i] = struct{}{}
			}
			oldLine++
		case diff.LineAdded:
			if _, ok := stagedAdditions[changeKey{oldLine, line.Content}]; ok {
				staged[i] = struct{}{}
			}
		}
	}
	return staged, nil
}

// ToggleHunk moves the hunk toward fully staged unless it is already
// fully staged, in which case it is unstaged as a whole. Partially
// staged hunks always resolve toward more staged. The return value
// reports whether the hunk ended fully staged.
func (r *Repository) ToggleHunk(ctx context.Context, hunk *diff.Hunk, path string) (bool, error) {
	staged, err := r.DetectStagedLines(ctx, hunk, path)
	if err != nil {
		return false, err
	}

	changeIndices := hunk.ChangeLineIndices()
	switch {
	case len(staged) == 0:
		if err := r.StageHunk(ctx, hunk, path); err != nil {
			return false, err
		}
		return true, nil
	case len(staged) == len(changeIndices):
		if err := r.UnstageHunk(ctx, hunk, path); err != nil {
			return false, err
		}
		return false, nil
	default:
		for _, idx := range changeIndices {
			if _, ok := staged[idx]; ok {
				continue
			}
			if err := r.StageLine(ctx, hunk, idx, path); err != nil {
				return false, err
			}
		}
		return true, nil
	}
}

// resolveLineAgainstUnstaged maps a line from the commit-vs-working
// view onto the current index-vs-working-tree diff. The first unstaged
// change line of the same kind and content wins; with no match the
// caller's hunk is used as-is.
func (r *Repository) resolveLineAgainstUnstaged(hunk *diff.Hunk, lineIndex int, path string) (*diff.Hunk, int, error) {
	if lineIndex < 0 || lineIndex >= len(hunk.Lines) {
		return nil, 0, fmt.Errorf("%w: %d of %d", ErrLineIndexOutOfBounds, lineIndex, len(hunk.Lines))
	}
	selected := hunk.Lines[lineIndex]

	repo, err := r.open()
	if err != nil {
		return nil, 0, err
	}
	indexState, _ := indexContent(repo, path)
	worktreeState, _ := r.worktreeContent(path)

	unstagedHunks := computeHunks(path, indexState, worktreeState)
	for h := range unstagedHunks {
		for i, line := range unstagedHunks[h].Lines {
			if line.IsChange() && line.Kind == selected.Kind &&
				strings.TrimRight(line.Content, "\r\n") == strings.TrimRight(selected.Content, "\r\n") {
				return &unstagedHunks[h], i, nil
			}
		}
	}
	return hunk, lineIndex, nil
}

// StagedLineIndices flattens a detection result into sorted order.
func StagedLineIndices(staged map[int]struct{}) []int {
	indices := make([]int, 0, len(staged))
	for i := range staged {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}
