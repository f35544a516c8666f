// Package processors holds the formatting stages applied to generated files.
package processors

import (
	"fmt"
	"go/format"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"
)

// GoImports adds the imports that handler selectors such as strings.ToUpper
// need, then formats the file. When goimports fails it falls back to gofmt.
type GoImports struct {
	TabWidth  int
	TabIndent bool
	// FormatOnly skips import resolution and only sorts and formats.
	FormatOnly bool
}

func NewGoImports() *GoImports {
	return &GoImports{
		TabWidth:  8,
		TabIndent: true,
	}
}

func (g *GoImports) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if !isGoFile(filePath) {
		return content, nil
	}

	options := &imports.Options{
		Comments:   true,
		TabIndent:  g.TabIndent,
		TabWidth:   g.TabWidth,
		FormatOnly: g.FormatOnly,
	}

	formatted, err := imports.Process(filePath, content, options)
	if err != nil {
		formatted, fmtErr := format.Source(content)
		if fmtErr != nil {
			return nil, fmt.Errorf("goimports (%w) and gofmt (%w) both failed", err, fmtErr)
		}
		return formatted, nil
	}
	return formatted, nil
}

// Gofmt only formats. It is used when goimports is disabled.
type Gofmt struct{}

func (Gofmt) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if !isGoFile(filePath) {
		return content, nil
	}
	formatted, err := format.Source(content)
	if err != nil {
		return nil, fmt.Errorf("gofmt: %w", err)
	}
	return formatted, nil
}

func isGoFile(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".go")
}
