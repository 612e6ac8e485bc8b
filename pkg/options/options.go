/*
Package options defines the configuration model for filesystem listing.

An Options is a plain value: every setter takes a value receiver and returns
a modified copy, so chained calls compose without aliasing. Reusing an
Options variable across several List calls is safe — nothing a callee does
to its copy can leak back.

Basic usage:

	opts := options.Default().
		OnlyFiles().
		WithRecursive(true).
		AddSuffix("go")

	paths, err := lister.New(fs, log).List(ctx, opts, ".")
*/
package options

// Options holds the knobs controlling which paths a listing includes and
// how far the walk descends.
type Options struct {
	// Dirs allows directories through the type filter.
	Dirs bool

	// Files allows regular files through the type filter.
	Files bool

	// Hidden allows names starting with '.' through the visibility filter.
	Hidden bool

	// Unhidden allows names not starting with '.' through the visibility filter.
	Unhidden bool

	// Recursive descends without bound, ignoring Depth entirely.
	Recursive bool

	// Depth is the remaining levels of descent when not recursive.
	// 0 means no further descent.
	Depth uint

	// Suffixes restricts matches to names ending in one of its entries.
	// Empty means no suffix restriction.
	Suffixes []string
}

// Default returns the documented defaults: both directories and files, only
// unhidden names, non-recursive with a single level of descent, and no
// suffix restriction.
func Default() Options {
	return Options{
		Dirs:     true,
		Files:    true,
		Hidden:   false,
		Unhidden: true,
		Depth:    1,
	}
}

// WithDirs sets whether directories pass the type filter.
func (o Options) WithDirs(show bool) Options {
	o.Dirs = show
	return o
}

// WithFiles sets whether regular files pass the type filter.
func (o Options) WithFiles(show bool) Options {
	o.Files = show
	return o
}

// WithHidden sets whether names starting with '.' pass the visibility filter.
func (o Options) WithHidden(show bool) Options {
	o.Hidden = show
	return o
}

// WithUnhidden sets whether names not starting with '.' pass the
// visibility filter.
func (o Options) WithUnhidden(show bool) Options {
	o.Unhidden = show
	return o
}

// WithRecursive sets unbounded descent. When true, Depth is ignored.
func (o Options) WithRecursive(recursive bool) Options {
	o.Recursive = recursive
	return o
}

// WithDepth sets the remaining levels of descent for non-recursive walks.
func (o Options) WithDepth(depth uint) Options {
	o.Depth = depth
	return o
}

// AddSuffix appends "." + ext to the suffix list, so AddSuffix("go")
// admits names ending in ".go". Repeated calls accumulate.
func (o Options) AddSuffix(ext string) Options {
	o.Suffixes = appendSuffix(o.Suffixes, "."+ext)
	return o
}

// AddSuffixes replaces the whole suffix list with "." + e for each entry.
// Unlike AddSuffix it shadows everything accumulated so far:
// AddSuffix("go").AddSuffixes([]string{"yaml"}) admits only ".yaml".
func (o Options) AddSuffixes(exts []string) Options {
	sufs := make([]string, len(exts))
	for i, e := range exts {
		sufs[i] = "." + e
	}
	o.Suffixes = sufs
	return o
}

// AddRawSuffix appends the literal string to the suffix list, with no dot
// inserted. Repeated calls accumulate.
func (o Options) AddRawSuffix(suf string) Options {
	o.Suffixes = appendSuffix(o.Suffixes, suf)
	return o
}

// AddRawSuffixes replaces the whole suffix list with the literal entries,
// shadowing everything accumulated so far.
func (o Options) AddRawSuffixes(sufs []string) Options {
	copied := make([]string, len(sufs))
	copy(copied, sufs)
	o.Suffixes = copied
	return o
}

// OnlyDirs admits directories and excludes files.
func (o Options) OnlyDirs() Options {
	o.Dirs = true
	o.Files = false
	return o
}

// OnlyFiles admits files and excludes directories.
func (o Options) OnlyFiles() Options {
	o.Dirs = false
	o.Files = true
	return o
}

// OnlyHidden admits hidden names and excludes unhidden ones.
func (o Options) OnlyHidden() Options {
	o.Hidden = true
	o.Unhidden = false
	return o
}

// OnlyUnhidden admits unhidden names and excludes hidden ones.
func (o Options) OnlyUnhidden() Options {
	o.Hidden = false
	o.Unhidden = true
	return o
}

// appendSuffix copies before appending so that two Options derived from the
// same value never share a backing array.
func appendSuffix(sufs []string, s string) []string {
	out := make([]string, len(sufs), len(sufs)+1)
	copy(out, sufs)
	return append(out, s)
}
