package refresh

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/sony/gobreaker"

	"hunky/internal/diff"
	"hunky/internal/observability"
	"hunky/internal/ratelimit"
	"hunky/internal/retry"
)

// Builder produces the current snapshot on demand.
type Builder interface {
	Snapshot(ctx context.Context) (*diff.Snapshot, error)
}

// Pipeline funnels file-system events through a debounce window into
// snapshot rebuilds. Bursts coalesce into at most one pending rebuild;
// a later trigger resets the window rather than queueing behind it,
// since rebuilding from current state is idempotent. Rebuild failures
// are logged and dropped; the user can always force a manual refresh.
type Pipeline struct {
	root     string
	builder  Builder
	logger   *observability.Logger
	debounce time.Duration
	limiter  *ratelimit.Limiter
	breaker  *gobreaker.CircuitBreaker
	watcher  *fsnotify.Watcher
	ignore   gitignore.Matcher
	out      chan *diff.Snapshot
}

func New(root string, builder Builder, logger *observability.Logger, debounce time.Duration, limiter *ratelimit.Limiter) *Pipeline {
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	settings := gobreaker.Settings{
		Name:        "snapshot-rebuild",
		MaxRequests: 3,
		Interval:    0,
		Timeout:     30 * time.Second,
	}

	p := &Pipeline{
		root:     root,
		builder:  builder,
		logger:   logger,
		debounce: debounce,
		limiter:  limiter,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		out:      make(chan *diff.Snapshot, 1),
	}
	p.reloadIgnoreRules()
	return p
}

// reloadIgnoreRules re-reads the tree's .gitignore files. Called at
// construction and again whenever a .gitignore changes.
func (p *Pipeline) reloadIgnoreRules() {
	patterns, err := gitignore.ReadPatterns(osfs.New(p.root), nil)
	if err != nil {
		p.logger.Warn("read ignore rules failed", "error", err)
		return
	}
	p.ignore = gitignore.NewMatcher(patterns)
}

// Snapshots yields the latest rebuilt snapshot. The channel holds at
// most one element; an unread snapshot is replaced, never queued.
func (p *Pipeline) Snapshots() <-chan *diff.Snapshot {
	return p.out
}

// Start begins watching the repository tree and serving the debounce
// loop until ctx is cancelled.
func (p *Pipeline) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	p.watcher = watcher

	if err := p.watchTree(); err != nil {
		watcher.Close()
		return err
	}

	go p.loop(ctx)
	return nil
}

// Rebuild forces a snapshot rebuild outside the debounce window.
func (p *Pipeline) Rebuild(ctx context.Context) {
	p.rebuild(ctx, "manual")
}

func (p *Pipeline) loop(ctx context.Context) {
	defer p.watcher.Close()

	timer := time.NewTimer(p.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if !triggerEvent(event.Op) {
				continue
			}
			if !p.relevant(event.Name) {
				continue
			}
			if filepath.Base(event.Name) == ".gitignore" {
				p.reloadIgnoreRules()
			}
			if event.Op&fsnotify.Create != 0 {
				p.maybeWatchNewDir(event.Name)
			}
			// A later trigger supersedes an earlier pending one.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.debounce)

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Warn("watch error", "error", err)

		case <-timer.C:
			p.rebuild(ctx, "watch")
		}
	}
}

func (p *Pipeline) rebuild(ctx context.Context, trigger string) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return
		}
	}

	start := time.Now()
	out, err := p.breaker.Execute(func() (interface{}, error) {
		var snap *diff.Snapshot
		err := retry.Do(ctx, 3, 100*time.Millisecond, func() error {
			var err error
			snap, err = p.builder.Snapshot(ctx)
			return err
		})
		return snap, err
	})
	observability.SnapshotRebuildLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		observability.SnapshotRebuildErrors.WithLabelValues(trigger).Inc()
		p.logger.Error("snapshot rebuild failed", "trigger", trigger, "error", err)
		return
	}

	observability.SnapshotRebuilds.WithLabelValues(trigger).Inc()
	p.publish(out.(*diff.Snapshot))
}

// publish replaces any unread snapshot so the consumer always sees the
// newest state.
func (p *Pipeline) publish(snap *diff.Snapshot) {
	for {
		select {
		case p.out <- snap:
			return
		default:
			select {
			case <-p.out:
			default:
			}
		}
	}
}

// triggerEvent reports whether the event kind can change diff state.
// Permission-only changes never do.
func triggerEvent(op fsnotify.Op) bool {
	return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// relevant filters out the metadata directory (except the index file:
// external staging from another tool must still trigger a refresh) and
// gitignored paths, so a generated build directory never causes
// spurious rebuilds.
func (p *Pipeline) relevant(path string) bool {
	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		return false
	}
	if rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator)) {
		return rel == filepath.Join(".git", "index")
	}
	return !p.ignored(rel)
}

func (p *Pipeline) ignored(rel string) bool {
	if p.ignore == nil {
		return false
	}
	info, err := os.Stat(filepath.Join(p.root, rel))
	isDir := err == nil && info.IsDir()
	return p.ignore.Match(strings.Split(rel, string(filepath.Separator)), isDir)
}

func (p *Pipeline) watchTree() error {
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" && path != p.root {
			// Watch the metadata directory itself so index writes are
			// seen, but never descend into it.
			if addErr := p.watcher.Add(path); addErr != nil {
				p.logger.Warn("watch add failed", "path", path, "error", addErr)
			}
			return filepath.SkipDir
		}
		if rel, relErr := filepath.Rel(p.root, path); relErr == nil && rel != "." && p.ignored(rel) {
			return filepath.SkipDir
		}
		if addErr := p.watcher.Add(path); addErr != nil {
			p.logger.Warn("watch add failed", "path", path, "error", addErr)
		}
		return nil
	})
	return err
}

func (p *Pipeline) maybeWatchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := p.watcher.Add(path); err != nil {
		p.logger.Warn("watch add failed", "path", path, "error", err)
	}
}
