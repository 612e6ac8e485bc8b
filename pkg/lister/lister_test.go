package lister

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonemaro/lsopt/pkg/options"
)

// setupTestFS builds the reference tree used across the tests:
//
//	/root/a.txt
//	/root/.secret
//	/root/sub/b.txt
//	/root/sub/deep/c.log
//	/root/.git/config
func setupTestFS(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	files := []string{
		"/root/a.txt",
		"/root/.secret",
		"/root/sub/b.txt",
		"/root/sub/deep/c.log",
		"/root/.git/config",
	}
	for _, path := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte("x"), 0644))
	}

	return fs
}

func sorted(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}

func TestListScenarios(t *testing.T) {
	tests := []struct {
		name string
		opts options.Options
		root string
		want []string
	}{
		{
			name: "recursive files only skips hidden names",
			opts: options.Default().OnlyFiles().WithRecursive(true),
			root: "/root",
			want: []string{
				"/root/.git/config",
				"/root/a.txt",
				"/root/sub/b.txt",
				"/root/sub/deep/c.log",
			},
		},
		{
			name: "one level deep includes dirs and files",
			opts: options.Default(), // depth 1, non-recursive
			root: "/root",
			want: []string{
				"/root",
				"/root/a.txt",
				"/root/sub",
			},
		},
		{
			name: "depth 0 returns only the root",
			opts: options.Default().WithDepth(0),
			root: "/root",
			want: []string{"/root"},
		},
		{
			name: "depth 2 stops above the third level",
			opts: options.Default().WithDepth(2),
			root: "/root",
			want: []string{
				"/root",
				"/root/.git/config", // .git itself is hidden, its contents are not
				"/root/a.txt",
				"/root/sub",
				"/root/sub/b.txt",
				"/root/sub/deep",
			},
		},
		{
			name: "recursive ignores depth zero",
			opts: options.Default().WithRecursive(true).WithDepth(0),
			root: "/root",
			want: []string{
				"/root",
				"/root/.git",
				"/root/.git/config",
				"/root/a.txt",
				"/root/sub",
				"/root/sub/b.txt",
				"/root/sub/deep",
				"/root/sub/deep/c.log",
			},
		},
		{
			name: "hidden only",
			opts: options.Default().OnlyHidden().WithRecursive(true),
			root: "/root",
			want: []string{
				"/root/.git",
				"/root/.secret",
			},
		},
		{
			name: "both visibility flags admit everything",
			opts: options.Default().WithHidden(true).WithRecursive(true).OnlyFiles(),
			root: "/root",
			want: []string{
				"/root/.git/config",
				"/root/.secret",
				"/root/a.txt",
				"/root/sub/b.txt",
				"/root/sub/deep/c.log",
			},
		},
		{
			name: "suffix filter on extension",
			opts: options.Default().OnlyFiles().WithRecursive(true).AddSuffix("txt"),
			root: "/root",
			want: []string{
				"/root/a.txt",
				"/root/sub/b.txt",
			},
		},
		{
			name: "raw suffix matches non-extension endings",
			opts: options.Default().OnlyFiles().WithRecursive(true).AddRawSuffix("config"),
			root: "/root",
			want: []string{"/root/.git/config"},
		},
		{
			name: "file root matching",
			opts: options.Default(),
			root: "/root/a.txt",
			want: []string{"/root/a.txt"},
		},
		{
			name: "file root excluded by type filter",
			opts: options.Default().OnlyDirs(),
			root: "/root/a.txt",
			want: nil,
		},
		{
			name: "no visibility flags admit nothing",
			opts: options.Default().WithHidden(false).WithUnhidden(false).WithRecursive(true),
			root: "/root",
			want: nil,
		},
		{
			name: "no type flags admit nothing",
			opts: options.Default().WithDirs(false).WithFiles(false).WithRecursive(true),
			root: "/root",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := setupTestFS(t)
			l := New(fs, nil)

			got, err := l.List(context.Background(), tt.opts, tt.root)
			require.NoError(t, err)
			assert.Equal(t, sorted(tt.want), sorted(got))
		})
	}
}

func TestListOrdering(t *testing.T) {
	// Root first, then each child's own match immediately followed by its
	// subtree, in enumeration (name-sorted) order.
	fs := setupTestFS(t)
	l := New(fs, nil)

	got, err := l.List(context.Background(), options.Default().WithRecursive(true).WithHidden(true), "/root")
	require.NoError(t, err)

	want := []string{
		"/root",
		"/root/.git",
		"/root/.git/config",
		"/root/.secret",
		"/root/a.txt",
		"/root/sub",
		"/root/sub/b.txt",
		"/root/sub/deep",
		"/root/sub/deep/c.log",
	}
	assert.Equal(t, want, got)
}

func TestListNonExistentRoot(t *testing.T) {
	l := New(afero.NewMemMapFs(), nil)

	got, err := l.List(context.Background(), options.Default(), "/definitely/does/not/exist")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListIdempotent(t *testing.T) {
	fs := setupTestFS(t)
	l := New(fs, nil)
	opts := options.Default().WithRecursive(true)

	first, err := l.List(context.Background(), opts, "/root")
	require.NoError(t, err)
	second, err := l.List(context.Background(), opts, "/root")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSuffixMatchesBaseNameOnly(t *testing.T) {
	// A suffix must never match because an ancestor directory name ends
	// with it.
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/root/dir.rs/plain.txt", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/root/lib.rs", []byte("x"), 0644))

	l := New(fs, nil)
	got, err := l.List(context.Background(),
		options.Default().WithRecursive(true).AddRawSuffixes([]string{".rs"}), "/root")
	require.NoError(t, err)

	// dir.rs matches as a directory whose own name ends in .rs;
	// plain.txt does not, despite living under dir.rs.
	assert.Equal(t, []string{"/root/dir.rs", "/root/lib.rs"}, sorted(got))
}

func TestSuffixFiltersDirectories(t *testing.T) {
	fs := setupTestFS(t)
	l := New(fs, nil)

	got, err := l.List(context.Background(),
		options.Default().OnlyDirs().WithRecursive(true).AddRawSuffix("ub"), "/root")
	require.NoError(t, err)
	assert.Equal(t, []string{"/root/sub"}, got)
}

func TestDescendsIntoHiddenAndNonMatchingDirs(t *testing.T) {
	// Directories excluded by type or visibility are still descended into;
	// exclusive filters apply to nodes, not to the walk.
	fs := setupTestFS(t)
	l := New(fs, nil)

	got, err := l.List(context.Background(),
		options.Default().OnlyFiles().WithRecursive(true), "/root")
	require.NoError(t, err)
	assert.Contains(t, got, "/root/.git/config")
	assert.Contains(t, got, "/root/sub/deep/c.log")
}

func TestDepthBoundProperty(t *testing.T) {
	fs := setupTestFS(t)
	l := New(fs, nil)

	for depth := uint(0); depth <= 3; depth++ {
		got, err := l.List(context.Background(), options.Default().WithDepth(depth).WithHidden(true), "/root")
		require.NoError(t, err)

		for _, path := range got {
			levels := 0
			for _, c := range path[len("/root"):] {
				if c == '/' {
					levels++
				}
			}
			assert.LessOrEqual(t, uint(levels), depth,
				"path %s exceeds depth %d", path, depth)
		}
	}
}

func TestListCleansRootPath(t *testing.T) {
	fs := setupTestFS(t)
	l := New(fs, nil)

	got, err := l.List(context.Background(), options.Default().OnlyFiles(), "/root/sub/../sub/")
	require.NoError(t, err)
	assert.Equal(t, []string{"/root/sub/b.txt"}, got)
}

// failingFs forces an open failure on one path to simulate a permission
// error mid-walk.
type failingFs struct {
	afero.Fs
	failPath string
}

func (f *failingFs) Open(name string) (afero.File, error) {
	if name == f.failPath {
		return nil, fmt.Errorf("permission denied")
	}
	return f.Fs.Open(name)
}

func TestListFatalOnAccessFailure(t *testing.T) {
	fs := &failingFs{Fs: setupTestFS(t), failPath: "/root/sub"}
	l := New(fs, nil)

	got, err := l.List(context.Background(), options.Default().WithRecursive(true), "/root")
	require.Error(t, err)

	// All or nothing: no partial results alongside the error.
	assert.Nil(t, got)

	var walkErr *WalkError
	require.ErrorAs(t, err, &walkErr)
	assert.Equal(t, "/root/sub", walkErr.Path)
	assert.Contains(t, err.Error(), "/root/sub")
}

// statFailFs forces Stat failures that are not "not exist".
type statFailFs struct {
	afero.Fs
}

func (f *statFailFs) Stat(name string) (os.FileInfo, error) {
	return nil, fmt.Errorf("i/o error")
}

func TestListFatalOnRootStatFailure(t *testing.T) {
	l := New(&statFailFs{Fs: afero.NewMemMapFs()}, nil)

	_, err := l.List(context.Background(), options.Default(), "/root")
	var walkErr *WalkError
	require.ErrorAs(t, err, &walkErr)
	assert.Equal(t, "/root", walkErr.Path)
}

func TestListEncodingError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/root/bad\xffname", []byte("x"), 0644))

	l := New(fs, nil)
	got, err := l.List(context.Background(), options.Default().WithRecursive(true), "/root")
	require.Error(t, err)
	assert.Nil(t, got)

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Contains(t, encErr.Path, "/root/bad")

	// Encoding failures are a distinct kind from access failures.
	var walkErr *WalkError
	assert.False(t, errors.As(err, &walkErr))
}

func TestListContextCancellation(t *testing.T) {
	fs := setupTestFS(t)
	l := New(fs, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.List(ctx, options.Default().WithRecursive(true), "/root")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
