// Package directive finds listfiles invocations in Go source files and parses
// their arguments.
//
// An invocation is a line comment of the form
//
//	//listfiles:var Name [ElemType] = listfiles("pattern")
//	//listfiles:var Name [ElemType] = listfiles(handler, "pattern")
//
// The declared variable becomes a fixed-size array in the generated file.
package directive

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/format"
	"go/parser"
	"go/token"
	"strings"
)

// Prefix marks a directive comment.
const Prefix = "//listfiles:"

// Usage is reported for any invocation whose arguments have the wrong shape.
const Usage = `usage: listfiles("path/to/dir") | listfiles(handler, "path/to/dir")`

// ErrUsage is wrapped by every argument-shape error.
var ErrUsage = errors.New(Usage)

// Error is a parse failure tied to the directive that caused it.
type Error struct {
	Pos token.Position
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Pos, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Pos, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Invocation is one parsed directive.
type Invocation struct {
	Pos     token.Position
	Name    string
	// Type is the element type expression, nil when the directive names none.
	Type    ast.Expr
	// Handler is an identifier or selector, nil for a plain path listing.
	Handler ast.Expr
	Pattern string
}

// HandlerName returns the handler as written in the directive, or "".
func (inv Invocation) HandlerName() string {
	if inv.Handler == nil {
		return ""
	}
	return exprString(inv.Handler)
}

// TypeName returns the element type as written in the directive, or "".
func (inv Invocation) TypeName() string {
	if inv.Type == nil {
		return ""
	}
	return exprString(inv.Type)
}

// File holds the directives of a single source file.
type File struct {
	Path            string
	Package         string
	BuildConstraint string
	Invocations     []Invocation
}

// Scan parses src as a Go file and collects its directives in source order.
// src may be nil, in which case the file is read from path.
func Scan(fset *token.FileSet, path string, src any) (*File, error) {
	f, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	file := &File{
		Path:            path,
		Package:         f.Name.Name,
		BuildConstraint: buildConstraint(f),
	}

	seen := make(map[string]token.Position)
	for _, group := range f.Comments {
		for _, c := range group.List {
			if !strings.HasPrefix(c.Text, Prefix) {
				continue
			}
			pos := fset.Position(c.Slash)
			inv, err := ParseInvocation(pos, strings.TrimPrefix(c.Text, Prefix))
			if err != nil {
				return nil, err
			}
			if prev, dup := seen[inv.Name]; dup {
				return nil, &Error{Pos: pos, Msg: fmt.Sprintf("%s already declared at %s", inv.Name, prev)}
			}
			seen[inv.Name] = pos
			file.Invocations = append(file.Invocations, inv)
		}
	}
	return file, nil
}

// ParseInvocation parses the text following the directive prefix.
func ParseInvocation(pos token.Position, text string) (Invocation, error) {
	inv := Invocation{Pos: pos}

	decl, ok := strings.CutPrefix(strings.TrimSpace(text), "var")
	if !ok || (decl != "" && decl[0] != ' ' && decl[0] != '\t') {
		return inv, &Error{Pos: pos, Msg: `directive must start with "var"`}
	}

	lhs, rhs, ok := strings.Cut(decl, "=")
	if !ok {
		return inv, &Error{Pos: pos, Msg: `missing "=" in directive`}
	}

	name, typ := strings.TrimSpace(lhs), ""
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name, typ = name[:i], name[i:]
	}
	if !token.IsIdentifier(name) {
		return inv, &Error{Pos: pos, Msg: fmt.Sprintf("invalid variable name %q", name)}
	}
	inv.Name = name

	if typ = strings.TrimSpace(typ); typ != "" {
		t, err := parser.ParseExpr(typ)
		if err != nil {
			return inv, &Error{Pos: pos, Msg: fmt.Sprintf("invalid element type %q", typ), Err: err}
		}
		inv.Type = t
	}

	handler, pattern, err := parseArgs(strings.TrimSpace(rhs))
	if err != nil {
		return inv, &Error{Pos: pos, Err: err}
	}
	inv.Handler = handler
	inv.Pattern = pattern
	return inv, nil
}

func parseArgs(call string) (ast.Expr, string, error) {
	expr, err := parser.ParseExpr(call)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUsage, err)
	}

	ce, ok := expr.(*ast.CallExpr)
	if !ok || ce.Ellipsis.IsValid() {
		return nil, "", ErrUsage
	}
	if fn, ok := ce.Fun.(*ast.Ident); !ok || fn.Name != "listfiles" {
		return nil, "", ErrUsage
	}

	switch len(ce.Args) {
	case 1:
		pattern, ok := stringLit(ce.Args[0])
		if !ok {
			return nil, "", ErrUsage
		}
		return nil, pattern, nil
	case 2:
		if !isPath(ce.Args[0]) {
			return nil, "", ErrUsage
		}
		pattern, ok := stringLit(ce.Args[1])
		if !ok {
			return nil, "", ErrUsage
		}
		return ce.Args[0], pattern, nil
	default:
		return nil, "", ErrUsage
	}
}

func stringLit(e ast.Expr) (string, bool) {
	lit, ok := e.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	v := constant.MakeFromLiteral(lit.Value, lit.Kind, 0)
	if v.Kind() != constant.String {
		return "", false
	}
	return constant.StringVal(v), true
}

// isPath reports whether e is an identifier or a chain of selectors on one.
func isPath(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		return isPath(x.X)
	default:
		return false
	}
}

func buildConstraint(f *ast.File) string {
	for _, group := range f.Comments {
		if group.Pos() >= f.Package {
			break
		}
		for _, c := range group.List {
			if strings.HasPrefix(c.Text, "//go:build ") {
				return c.Text
			}
		}
	}
	return ""
}

func exprString(e ast.Expr) string {
	var buf bytes.Buffer
	if err := format.Node(&buf, token.NewFileSet(), e); err != nil {
		return fmt.Sprintf("%T", e)
	}
	return buf.String()
}
