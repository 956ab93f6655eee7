package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"hunky/internal/diff"
	"hunky/internal/git"
	"hunky/internal/observability"
)

// Session is the facade the UI layer drives: snapshot builds, staging
// mutations, seen bookkeeping and review-mode switching for a single
// repository. Staging mutations invalidate the seen entries of the
// touched path, since its hunks are about to change identity.
type Session struct {
	repo    *git.Repository
	tracker *diff.SeenTracker
	logger  *observability.Logger
	id      string

	mu           sync.Mutex
	reviewCommit string
}

func New(repo *git.Repository, logger *observability.Logger) *Session {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	id := uuid.NewString()
	return &Session{
		repo:    repo,
		tracker: diff.NewSeenTracker(),
		logger:  logger.With("session", id),
		id:      id,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Snapshot implements the refresh pipeline's Builder: the working-state
// view normally, the reviewed commit's view in review mode. Seen flags
// are stamped onto the returned hunks.
func (s *Session) Snapshot(ctx context.Context) (*diff.Snapshot, error) {
	s.mu.Lock()
	commit := s.reviewCommit
	s.mu.Unlock()

	var (
		snap *diff.Snapshot
		err  error
	)
	if commit != "" {
		snap, err = s.repo.CommitDiff(ctx, commit)
	} else {
		snap, err = s.repo.Snapshot(ctx)
	}
	if err != nil {
		return nil, err
	}

	for f := range snap.Files {
		for h := range snap.Files[f].Hunks {
			hunk := &snap.Files[f].Hunks[h]
			hunk.Seen = s.tracker.IsSeen(hunk.ID)
		}
	}
	return snap, nil
}

func (s *Session) StageFile(ctx context.Context, path string) error {
	if err := s.repo.StageFile(ctx, path); err != nil {
		return err
	}
	s.tracker.RemoveFileHunks(path)
	return nil
}

func (s *Session) UnstageFile(ctx context.Context, path string) error {
	if err := s.repo.UnstageFile(ctx, path); err != nil {
		return err
	}
	s.tracker.RemoveFileHunks(path)
	return nil
}

func (s *Session) StageHunk(ctx context.Context, hunk *diff.Hunk, path string) error {
	if err := s.repo.StageHunk(ctx, hunk, path); err != nil {
		return err
	}
	s.tracker.RemoveFileHunks(path)
	return nil
}

func (s *Session) UnstageHunk(ctx context.Context, hunk *diff.Hunk, path string) error {
	if err := s.repo.UnstageHunk(ctx, hunk, path); err != nil {
		return err
	}
	s.tracker.RemoveFileHunks(path)
	return nil
}

func (s *Session) StageLine(ctx context.Context, hunk *diff.Hunk, lineIndex int, path string) error {
	if err := s.repo.StageLine(ctx, hunk, lineIndex, path); err != nil {
		return err
	}
	s.tracker.RemoveFileHunks(path)
	return nil
}

func (s *Session) UnstageLine(ctx context.Context, hunk *diff.Hunk, lineIndex int, path string) error {
	if err := s.repo.UnstageLine(ctx, hunk, lineIndex, path); err != nil {
		return err
	}
	s.tracker.RemoveFileHunks(path)
	return nil
}

// DetectStagedLines returns the hunk's staged change-line indices in
// ascending order, the shape the UI's staged-indicator consumes.
func (s *Session) DetectStagedLines(ctx context.Context, hunk *diff.Hunk, path string) ([]int, error) {
	staged, err := s.repo.DetectStagedLines(ctx, hunk, path)
	if err != nil {
		return nil, err
	}
	return git.StagedLineIndices(staged), nil
}

func (s *Session) ToggleHunk(ctx context.Context, hunk *diff.Hunk, path string) (bool, error) {
	stagedNow, err := s.repo.ToggleHunk(ctx, hunk, path)
	if err != nil {
		return stagedNow, err
	}
	s.tracker.RemoveFileHunks(path)
	return stagedNow, nil
}

func (s *Session) RecentCommits(ctx context.Context, limit int) ([]git.CommitInfo, error) {
	return s.repo.RecentCommits(ctx, limit)
}

func (s *Session) CommitDiff(ctx context.Context, commitID string) (*diff.Snapshot, error) {
	return s.repo.CommitDiff(ctx, commitID)
}

func (s *Session) CommitWithEditor(ctx context.Context) (int, error) {
	return s.repo.CommitWithEditor(ctx)
}

// EnterReview switches snapshots to a historical commit. The seen set
// is cleared because hunk identities from the working view do not
// carry over.
func (s *Session) EnterReview(commitID string) {
	s.mu.Lock()
	s.reviewCommit = commitID
	s.mu.Unlock()
	s.tracker.Clear()
	s.logger.Info("entered review mode", "commit", commitID)
}

// ExitReview returns to the working-state view.
func (s *Session) ExitReview() {
	s.mu.Lock()
	s.reviewCommit = ""
	s.mu.Unlock()
	s.tracker.Clear()
	s.logger.Info("left review mode")
}

func (s *Session) Reviewing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviewCommit != ""
}

func (s *Session) MarkSeen(hunk *diff.Hunk) {
	s.tracker.MarkSeen(hunk.ID)
}

func (s *Session) IsSeen(hunk *diff.Hunk) bool {
	return s.tracker.IsSeen(hunk.ID)
}
