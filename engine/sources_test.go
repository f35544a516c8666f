package engine

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		source string
		suffix string
		want   string
	}{
		{"gen.go", DefaultSuffix, "gen_listfiles.go"},
		{filepath.Join("pkg", "assets.go"), DefaultSuffix, filepath.Join("pkg", "assets_listfiles.go")},
		{filepath.Join("pkg", "assets_test.go"), DefaultSuffix, filepath.Join("pkg", "assets_listfiles_test.go")},
		{"gen.go", "_gen", "gen_gen.go"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := OutputPath(tt.source, tt.suffix); got != tt.want {
				t.Errorf("OutputPath() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSources(t *testing.T) {
	root := workspace(t, map[string]string{
		"pkg/a.go":                "package pkg\n",
		"pkg/a_listfiles.go":      "package pkg\n",
		"pkg/b_test.go":           "package pkg\n",
		"pkg/b_listfiles_test.go": "package pkg\n",
		"pkg/notes.txt":           "x\n",
		"pkg/sub/c.go":            "package sub\n",
	})
	pkg := filepath.Join(root, "pkg")

	got, err := Sources(DefaultSuffix, pkg, filepath.Join(pkg, "a.go"), filepath.Join(pkg, "sub", "c.go"))
	if err != nil {
		t.Fatalf("Sources failed: %v", err)
	}

	want := []string{
		filepath.Join(pkg, "a.go"),
		filepath.Join(pkg, "b_test.go"),
		filepath.Join(pkg, "sub", "c.go"),
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Sources() = %v, want %v", got, want)
	}
}

func TestSourcesErrors(t *testing.T) {
	if _, err := Sources(DefaultSuffix); err == nil {
		t.Error("Expected error without paths")
	}

	_, err := Sources(DefaultSuffix, filepath.Join(t.TempDir(), "missing.go"))
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Message != "locate source" {
		t.Errorf("Expected locate error, got %v", err)
	}
}

func TestMultiError(t *testing.T) {
	var m MultiError
	if m.HasErrors() || m.Error() != "no errors" {
		t.Fatalf("Empty MultiError misreports: %q", m.Error())
	}

	first := &GenerationError{Path: "a.go:3:1", Message: "expand Files", Err: errors.New("bad pattern")}
	m.Add(first)
	if m.Error() != "a.go:3:1: expand Files: bad pattern" {
		t.Errorf("Single error should be reported as is, got %q", m.Error())
	}

	m.Add(&GenerationError{Path: "b.go", Message: "read source"})
	if !strings.HasPrefix(m.Error(), "2 files failed:\n") {
		t.Errorf("Unexpected aggregate message %q", m.Error())
	}
	if !errors.Is(&m, first) {
		t.Error("MultiError should unwrap to its members")
	}
}
