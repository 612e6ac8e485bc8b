package lister

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/sonemaro/lsopt/pkg/logger"
	"github.com/sonemaro/lsopt/pkg/options"
	"github.com/sonemaro/lsopt/pkg/worker"
)

// Config holds the settings for the concurrent lister.
type Config struct {
	// Workers is the number of concurrent subtree walkers.
	Workers int

	// RateLimit caps subtree walks per second (0 for unlimited).
	RateLimit int
}

// concurrentLister fans the root's sibling subtrees out over a worker pool.
// The result is set-equal to the sequential engine's; ordering within the
// result is advisory. The first filesystem error cancels sibling work and
// aborts the call.
type concurrentLister struct {
	seq    *lister
	config Config
	log    logger.Logger
}

// NewConcurrent creates a Lister that walks the root's child subtrees in
// parallel. A nil log is replaced by a no-op logger.
func NewConcurrent(fs afero.Fs, log logger.Logger, config Config) Lister {
	if log == nil {
		log = logger.Nop()
	}
	return &concurrentLister{
		seq:    &lister{fs: fs, log: log},
		config: config,
		log:    log,
	}
}

func (c *concurrentLister) List(ctx context.Context, opts options.Options, root string) ([]string, error) {
	if c.config.Workers <= 0 {
		return nil, fmt.Errorf("invalid configuration: workers count must be positive")
	}

	root = filepath.Clean(root)

	c.log.WithFields(logger.Fields{
		"root":    root,
		"workers": c.config.Workers,
	}).Debug("Starting concurrent listing")

	if !utf8.ValidString(root) {
		return nil, &EncodingError{Path: root}
	}

	info, err := c.seq.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &WalkError{Path: root, Err: err}
	}

	var out []string
	if matchesRoot(opts, filepath.Base(root), info.IsDir()) {
		out = append(out, root)
	}
	if !info.IsDir() {
		return out, nil
	}
	if !opts.Recursive && opts.Depth == 0 {
		return out, nil
	}

	entries, err := afero.ReadDir(c.seq.fs, root)
	if err != nil {
		return nil, &WalkError{Path: root, Err: err}
	}

	pool, err := worker.NewPool(worker.Config{
		Workers:   c.config.Workers,
		RateLimit: c.config.RateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	if err := pool.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start worker pool: %w", err)
	}
	defer func() {
		if err := pool.Stop(); err != nil {
			c.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Error stopping worker pool")
		}
	}()

	childOpts := descend(opts)

	for i, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		name := entry.Name()
		path := filepath.Join(root, name)

		if !utf8.ValidString(name) {
			return nil, &EncodingError{Path: path}
		}

		if wouldShow(opts, name, entry.IsDir()) {
			out = append(out, path)
		}

		if !entry.IsDir() {
			continue
		}

		subtree := path
		task := worker.Task{
			ID: i,
			Execute: func(taskCtx context.Context) (worker.Result, error) {
				paths, err := c.seq.walk(taskCtx, childOpts, subtree)
				if err != nil {
					return worker.Result{}, err
				}
				return worker.Result{Data: paths}, nil
			},
		}
		if err := pool.Submit(task); err != nil {
			// A refused submit usually means a sibling already failed;
			// prefer that error over the submit bookkeeping one.
			if _, waitErr := pool.Wait(); waitErr != nil {
				return nil, unwrapTaskError(waitErr)
			}
			return nil, fmt.Errorf("failed to submit subtree walk: %w", err)
		}
	}

	results, err := pool.Wait()
	if err != nil {
		return nil, unwrapTaskError(err)
	}

	for _, result := range results {
		if paths, ok := result.Data.([]string); ok {
			out = append(out, paths...)
		}
	}

	c.log.WithFields(logger.Fields{
		"root":    root,
		"matched": len(out),
	}).Debug("Concurrent listing completed")

	return out, nil
}

// unwrapTaskError strips the pool's wrapping so callers see the same
// *WalkError / *EncodingError kinds the sequential engine returns.
func unwrapTaskError(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}
