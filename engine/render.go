package engine

import (
	"bytes"
	"embed"
	"text/template"
)

//go:embed templates/listfiles.go.tmpl
var templateFS embed.FS

var outputTemplate = template.Must(template.ParseFS(templateFS, "templates/listfiles.go.tmpl"))

// Decl is one generated array variable.
type Decl struct {
	Name     string
	Pattern  string
	Handler  string
	Type     string
	// Elements are Go expressions, one per match, in match order.
	Elements []string
}

type fileData struct {
	Source          string
	BuildConstraint string
	Package         string
	Decls           []Decl
}

func render(data fileData) ([]byte, error) {
	var buf bytes.Buffer
	if err := outputTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
