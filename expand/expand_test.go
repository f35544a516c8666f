package expand

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree creates files (and their parents) under a fresh temp dir and returns
// the canonical root.
func tree(t *testing.T, files ...string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o644))
	}
	return root
}

func TestResolve(t *testing.T) {
	src := filepath.Join(t.TempDir(), "pkg", "gen.go")

	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"dot slash", "./files/*.go", filepath.Join(filepath.Dir(src), "files", "*.go")},
		{"dot dot", "../files/*.go", filepath.Join(filepath.Dir(filepath.Dir(src)), "files", "*.go")},
		{"bare relative stays verbatim", "files/*.go", "files/*.go"},
		{"absolute stays verbatim", "/srv/data/*.json", "/srv/data/*.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(src, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRelativeSource(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := Resolve("gen.go", "./testdata/*")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "testdata", "*"), got)
}

func TestExpandOrder(t *testing.T) {
	root := tree(t, "files/c.go", "files/a.go", "files/b.go", "files/notes.txt")

	got, err := Expand(filepath.Join(root, "files", "*.go"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "files", "a.go"),
		filepath.Join(root, "files", "b.go"),
		filepath.Join(root, "files", "c.go"),
	}, got)
}

func TestExpandSyntax(t *testing.T) {
	root := tree(t,
		"a/x.go", "a/y.go", "a/z.txt",
		"a/deep/er/w.go",
		"b/one.md", "b/two.md",
	)

	tests := []struct {
		name      string
		pattern   string
		want      []string
		unordered bool
	}{
		{"question mark", "a/?.go", []string{"a/x.go", "a/y.go"}, false},
		{"character class", "a/[xz].*", []string{"a/x.go", "a/z.txt"}, false},
		{"alternation", "b/{one,two}.md", []string{"b/one.md", "b/two.md"}, false},
		{"double star", "a/**/*.go", []string{"a/deep/er/w.go", "a/x.go", "a/y.go"}, true},
		{"no matches", "b/*.go", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(filepath.Join(root, filepath.FromSlash(tt.pattern)), Options{})
			require.NoError(t, err)

			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = filepath.Join(root, filepath.FromSlash(w))
			}
			if tt.unordered {
				assert.ElementsMatch(t, want, got)
				return
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestExpandFilesOnly(t *testing.T) {
	root := tree(t, "d/sub/keep.txt", "d/file.txt")
	pattern := filepath.Join(root, "d", "*")

	all, err := Expand(pattern, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "d", "file.txt"), filepath.Join(root, "d", "sub")}, all)

	files, err := Expand(pattern, Options{FilesOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "d", "file.txt")}, files)
}

func TestExpandBadPattern(t *testing.T) {
	root := tree(t, "a.go")

	_, err := Expand(filepath.Join(root, "[a.go"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, doublestar.ErrBadPattern)
}

func TestExpandCanonicalizesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := tree(t, "real/a.go")
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))

	got, err := Expand(filepath.Join(root, "link", "*.go"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "real", "a.go")}, got)
}

func TestExpandDanglingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := tree(t, "dir/a.go")
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dir", "b.go")))

	got, err := Expand(filepath.Join(root, "dir", "*.go"), Options{})
	require.Error(t, err)
	assert.Nil(t, got)
}

func TestCanonicalizeMatchesDirectCall(t *testing.T) {
	root := tree(t, "x/y/z.go")
	t.Chdir(root)

	got, err := Expand("x/*/*.go", Options{})
	require.NoError(t, err)

	direct, err := Canonicalize(filepath.Join("x", "y", "z.go"))
	require.NoError(t, err)
	assert.Equal(t, []string{direct}, got)
}
