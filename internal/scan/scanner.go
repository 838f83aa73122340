package scan

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/logging"
)

// maxWarnings bounds the warnings kept per traversal.
const maxWarnings = 500

var (
	// errProtected marks a matched directory that is on the never-delete list.
	errProtected = errors.New("protected path, refusing to treat as candidate")
	// errNested marks a match that would contain a directory already
	// matched through a followed symlink.
	errNested = errors.New("contains an earlier match reached through a symlink")
)

// Scanner walks a tree and yields directories whose name matches the
// configured targets. A matched directory is never descended into.
type Scanner struct {
	cfg       config.ScanConfig
	matcher   *Matcher
	eval      *Evaluator
	protected map[string]bool
	skip      map[string]bool
	logger    *slog.Logger

	mu           sync.Mutex
	warnings     []Warning
	scannedCount atomic.Int64
}

// Option customises a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) { s.logger = logging.OrDiscard(l) }
}

// WithEvaluator replaces the default size/age evaluator.
func WithEvaluator(e *Evaluator) Option {
	return func(s *Scanner) { s.eval = e }
}

// WithProtectedPaths replaces the never-delete list.
func WithProtectedPaths(paths []string) Option {
	return func(s *Scanner) { s.protected = pathSet(paths) }
}

// NewScanner creates a scanner for cfg.
func NewScanner(cfg config.ScanConfig, opts ...Option) *Scanner {
	s := &Scanner{
		cfg:       cfg,
		matcher:   NewMatcher(cfg.Targets, cfg.Excludes, cfg.CaseInsensitive),
		eval:      NewEvaluator(cfg.AgeFromContents),
		protected: pathSet(config.GetNeverDeletePaths()),
		skip:      pathSet(cfg.SkipPaths),
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func pathSet(paths []string) map[string]bool {
	m := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p != "" {
			m[core.AbsClean(p)] = true
		}
	}
	return m
}

// Warnings returns the scan errors of the most recent traversal.
func (s *Scanner) Warnings() []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Warning(nil), s.warnings...)
}

// ScannedCount returns the number of entries looked at so far.
func (s *Scanner) ScannedCount() int64 {
	return s.scannedCount.Load()
}

func (s *Scanner) addWarning(path string, err error) {
	s.logger.Debug("scan warning", "path", path, "error", err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < maxWarnings {
		s.warnings = append(s.warnings, Warning{Path: path, Err: err})
	}
}

func (s *Scanner) reset() {
	s.mu.Lock()
	s.warnings = nil
	s.mu.Unlock()
	s.scannedCount.Store(0)
}

// ─── Traversal ───────────────────────────────────────────────────────────────

// Walk returns a lazy sequence of matches beneath root. Each range over the
// sequence starts a fresh traversal. The root itself is never a match.
func (s *Scanner) Walk(ctx context.Context, root string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		s.reset()
		root = core.AbsClean(root)

		rootReal := root
		var follow *followState
		if s.cfg.FollowSymlinks {
			if r, err := filepath.EvalSymlinks(root); err == nil {
				rootReal = r
			}
			follow = &followState{visited: map[string]bool{rootReal: true}}
		}

		s.walkDir(ctx, root, rootReal, 0, follow, yield)
	}
}

// followState tracks real paths while symlinks are followed. A link can
// lead back into a subtree that was already matched, so matches are
// remembered by real path and nothing inside or around them is matched
// again.
type followState struct {
	visited map[string]bool
	claimed []string
}

// insideClaimed reports whether real lies within an earlier match.
func (f *followState) insideClaimed(real string) bool {
	for _, c := range f.claimed {
		if core.IsWithin(real, c) {
			return true
		}
	}
	return false
}

// containsClaimed reports whether an earlier match lies within real.
func (f *followState) containsClaimed(real string) bool {
	for _, c := range f.claimed {
		if core.IsWithin(c, real) {
			return true
		}
	}
	return false
}

// walkDir reads one directory. realDir is its symlink-free path (equal to
// dir unless a followed link was crossed). It returns false once the
// consumer stops or ctx is cancelled.
func (s *Scanner) walkDir(ctx context.Context, dir, realDir string, depth int, follow *followState, yield func(Match) bool) bool {
	if ctx.Err() != nil {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.addWarning(dir, err)
		return true
	}

	childDepth := depth + 1
	for _, e := range entries {
		if ctx.Err() != nil {
			return false
		}
		s.scannedCount.Add(1)

		isLink := e.Type()&fs.ModeSymlink != 0
		if !e.IsDir() && !isLink {
			continue
		}

		name := e.Name()
		path := filepath.Join(dir, name)

		verdict := s.matcher.Match(name)
		if verdict == Excluded {
			continue
		}
		if isLink && !s.cfg.FollowSymlinks {
			continue
		}

		childReal := filepath.Join(realDir, name)
		var info fs.FileInfo
		if isLink {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				s.addWarning(path, err)
				continue
			}
			info, err = os.Stat(resolved)
			if err != nil {
				s.addWarning(path, err)
				continue
			}
			if !info.IsDir() {
				continue
			}
			childReal = resolved
		} else {
			info, err = e.Info()
			if err != nil {
				s.addWarning(path, err)
				continue
			}
		}

		if s.skip[path] || s.skip[childReal] {
			continue
		}

		// Each real directory is visited once, which also breaks link cycles.
		if follow != nil {
			if follow.visited[childReal] || follow.insideClaimed(childReal) {
				continue
			}
			follow.visited[childReal] = true
		}

		if verdict == Target {
			if s.protected[path] || s.protected[childReal] {
				s.addWarning(path, errProtected)
				continue
			}
			if follow != nil {
				if follow.containsClaimed(childReal) {
					s.addWarning(path, errNested)
					continue
				}
				follow.claimed = append(follow.claimed, childReal)
			}
			m := Match{Path: path, Name: name, Depth: childDepth, ModTime: info.ModTime()}
			if childReal != path {
				m.RealPath = childReal
			}
			s.logger.Debug("matched directory", "path", path, "depth", childDepth)
			if !yield(m) {
				return false
			}
			continue
		}

		// Entries of a directory at the depth limit would lie beyond it.
		if s.cfg.MaxDepth > 0 && childDepth >= s.cfg.MaxDepth {
			continue
		}
		if !s.walkDir(ctx, path, childReal, childDepth, follow, yield) {
			return false
		}
	}
	return true
}

// ─── Candidates ──────────────────────────────────────────────────────────────

// withAge reports whether ages must be computed for this configuration.
func (s *Scanner) withAge() bool {
	return s.cfg.MinAge > 0
}

// Candidates is Walk with every match evaluated inline, one at a time.
func (s *Scanner) Candidates(ctx context.Context, root string) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for m := range s.Walk(ctx, root) {
			if !yield(s.eval.Evaluate(m, s.withAge())) {
				return
			}
		}
	}
}

// Collect walks root and evaluates all matches with at most workers
// evaluations in flight. Matched directories never nest, so their
// evaluations touch disjoint subtrees. Discovery order is preserved.
func (s *Scanner) Collect(ctx context.Context, root string, workers int) ([]Candidate, error) {
	var matches []Match
	for m := range s.Walk(ctx, root) {
		matches = append(matches, m)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = 1
	}
	out := make([]Candidate, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range matches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = s.eval.Evaluate(m, s.withAge())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
