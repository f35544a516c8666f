package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputPath names the generated file for source. Test sources keep their
// _test.go ending so the output stays test-only.
func OutputPath(source, suffix string) string {
	dir, base := filepath.Split(source)
	if stem, ok := strings.CutSuffix(base, "_test.go"); ok {
		return filepath.Join(dir, stem+suffix+"_test.go")
	}
	return filepath.Join(dir, strings.TrimSuffix(base, ".go")+suffix+".go")
}

// IsOutput reports whether name looks like a file listfiles generated.
func IsOutput(name, suffix string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, suffix+".go") || strings.HasSuffix(base, suffix+"_test.go")
}

// Sources flattens paths into Go source files. Directories are read one
// level deep; generated outputs inside them are skipped. Duplicates are
// dropped and the order of first appearance is kept.
func Sources(suffix string, paths ...string) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no source files given")
	}

	var sources []string
	seen := make(map[string]bool)
	add := func(p string) {
		key := filepath.Clean(p)
		if !seen[key] {
			seen[key] = true
			sources = append(sources, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &GenerationError{Path: p, Message: "locate source", Err: err}
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, &GenerationError{Path: p, Message: "read directory", Err: err}
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || filepath.Ext(name) != ".go" || IsOutput(name, suffix) {
				continue
			}
			add(filepath.Join(p, name))
		}
	}
	return sources, nil
}
