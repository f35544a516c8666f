// Package expand resolves listfiles patterns and enumerates their matches.
package expand

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrCanonicalize is wrapped when a match cannot be turned into an absolute,
// symlink-free path.
var ErrCanonicalize = errors.New("cannot canonicalize match")

// Options tune glob enumeration.
type Options struct {
	// FilesOnly drops directories from the match set.
	FilesOnly bool
	// NoFollow stops ** from descending into symlinked directories.
	NoFollow bool
}

// Resolve anchors a pattern that starts with "." to the directory holding
// sourcePath. Any other pattern is returned unchanged.
func Resolve(sourcePath, pattern string) (string, error) {
	if !strings.HasPrefix(pattern, ".") {
		return pattern, nil
	}
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", sourcePath, err)
	}
	return filepath.Join(filepath.Dir(abs), pattern), nil
}

// Expand enumerates pattern and canonicalizes every match, in the order the
// glob walk yields them. Either every match is returned or none are.
func Expand(pattern string, opts Options) ([]string, error) {
	globOpts := []doublestar.GlobOption{doublestar.WithFailOnIOErrors()}
	if opts.FilesOnly {
		globOpts = append(globOpts, doublestar.WithFilesOnly())
	}
	if opts.NoFollow {
		globOpts = append(globOpts, doublestar.WithNoFollow())
	}

	matches, err := doublestar.FilepathGlob(pattern, globOpts...)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		p, err := Canonicalize(m)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Canonicalize returns the absolute path of p with every symlink resolved.
func Canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrCanonicalize, p, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrCanonicalize, p, err)
	}
	return resolved, nil
}
