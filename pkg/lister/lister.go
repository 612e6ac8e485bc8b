/*
Package lister implements the traversal engine: it walks a filesystem tree
from a root path and collects every path that the configured options admit.

The filesystem is an afero.Fs collaborator, so the engine runs unchanged
against the OS filesystem, an in-memory tree, or anything else satisfying
the interface.

Basic usage:

	l := lister.New(afero.NewOsFs(), log)
	paths, err := l.List(ctx, options.Default().OnlyFiles().AddSuffix("go"), ".")

Path form: results are the cleaned root path joined with child names, so a
relative root yields relative paths and an absolute root absolute ones.
Canonicalization is lexical (filepath.Clean); afero filesystems carry no
working directory, so no Abs-style resolution is attempted.

A non-existent root is not an error: it yields an empty result. Every other
filesystem failure aborts the call with a *WalkError (or *EncodingError for
names that are not valid UTF-8) and no partial results.
*/
package lister

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/sonemaro/lsopt/pkg/logger"
	"github.com/sonemaro/lsopt/pkg/options"
)

// Lister walks a filesystem tree and returns the paths matching an Options.
type Lister interface {
	// List returns every path under root admitted by opts, root first,
	// then each child's own match immediately followed by that child's
	// subtree, in enumeration order.
	List(ctx context.Context, opts options.Options, root string) ([]string, error)
}

type lister struct {
	fs  afero.Fs
	log logger.Logger
}

// New creates a Lister over the given filesystem. A nil log is replaced by
// a no-op logger.
func New(fs afero.Fs, log logger.Logger) Lister {
	if log == nil {
		log = logger.Nop()
	}
	return &lister{fs: fs, log: log}
}

func (l *lister) List(ctx context.Context, opts options.Options, root string) ([]string, error) {
	root = filepath.Clean(root)

	l.log.WithFields(logger.Fields{
		"root":      root,
		"recursive": opts.Recursive,
		"depth":     opts.Depth,
		"suffixes":  opts.Suffixes,
	}).Debug("Starting listing")

	if !utf8.ValidString(root) {
		return nil, &EncodingError{Path: root}
	}

	info, err := l.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			// Absence is benign for a listing tool.
			l.log.WithFields(logger.Fields{
				"root": root,
			}).Debug("Root does not exist")
			return nil, nil
		}
		return nil, &WalkError{Path: root, Err: err}
	}

	var out []string

	// The root is always eligible for the match test itself; depth only
	// governs descent into children.
	if matchesRoot(opts, filepath.Base(root), info.IsDir()) {
		out = append(out, root)
	}

	if !info.IsDir() {
		return out, nil
	}

	children, err := l.walk(ctx, opts, root)
	if err != nil {
		l.log.WithFields(logger.Fields{
			"root":  root,
			"error": err,
		}).Error("Listing failed")
		return nil, err
	}
	out = append(out, children...)

	l.log.WithFields(logger.Fields{
		"root":    root,
		"matched": len(out),
	}).Debug("Listing completed")

	return out, nil
}

// walk enumerates the children of dir, tests each against the current
// level's options, and recurses into child directories with a derived
// configuration.
func (l *lister) walk(ctx context.Context, opts options.Options, dir string) ([]string, error) {
	// Once depth is exhausted a non-recursive walk produces nothing
	// below this level.
	if !opts.Recursive && opts.Depth == 0 {
		return nil, nil
	}

	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, &WalkError{Path: dir, Err: err}
	}

	l.log.WithFields(logger.Fields{
		"dir":     dir,
		"entries": len(entries),
		"depth":   opts.Depth,
	}).Trace("Scanning directory")

	childOpts := descend(opts)

	var out []string
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		name := entry.Name()
		path := filepath.Join(dir, name)

		if !utf8.ValidString(name) {
			return nil, &EncodingError{Path: path}
		}

		// The node's own visibility is judged with this level's depth,
		// not the decremented one its children will see.
		if wouldShow(opts, name, entry.IsDir()) {
			out = append(out, path)
		}

		if entry.IsDir() {
			sub, err := l.walk(ctx, childOpts, path)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
	}

	return out, nil
}

// descend derives the configuration a directory hands to its children:
// depth shrinks by one (never below zero) unless the walk is recursive,
// in which case depth is ignored entirely.
func descend(opts options.Options) options.Options {
	if !opts.Recursive && opts.Depth > 0 {
		opts.Depth--
	}
	return opts
}

// wouldShow is the match predicate: type, visibility, depth-eligibility and
// suffix checks must all hold.
func wouldShow(opts options.Options, name string, isDir bool) bool {
	return depthEligible(opts) && matchesRoot(opts, name, isDir)
}

// matchesRoot is wouldShow without the depth-eligibility conjunct; the root
// node is exempt from it.
func matchesRoot(opts options.Options, name string, isDir bool) bool {
	return typeAllowed(opts, isDir) &&
		visibilityAllowed(opts, name) &&
		suffixAllowed(opts, name)
}

func depthEligible(opts options.Options) bool {
	return opts.Recursive || opts.Depth > 0
}

func typeAllowed(opts options.Options, isDir bool) bool {
	if isDir {
		return opts.Dirs
	}
	return opts.Files
}

// visibilityAllowed applies the two independent, non-exclusive visibility
// flags: both false admits nothing, both true admits everything.
func visibilityAllowed(opts options.Options, name string) bool {
	hidden := strings.HasPrefix(name, ".")
	return (opts.Hidden && hidden) || (opts.Unhidden && !hidden)
}

// suffixAllowed compares suffixes against the final path component only, so
// an ancestor directory name can never cause an accidental match.
func suffixAllowed(opts options.Options, name string) bool {
	if len(opts.Suffixes) == 0 {
		return true
	}
	for _, suf := range opts.Suffixes {
		if strings.HasSuffix(name, suf) {
			return true
		}
	}
	return false
}
