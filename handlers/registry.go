// Package handlers turns matched paths into the element expressions of a
// generated array.
//
// A handler named in a directive is either a builtin from a Registry, which
// runs while the file is generated, or any other Go function, which is
// emitted as a call on the path literal and resolved by the compiler.
package handlers

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/cpcf/listfiles/directive"
)

// DefaultElemType is used when neither the directive nor a builtin names one.
const DefaultElemType = "string"

// BuildFunc returns the Go expression for one matched path.
type BuildFunc func(path string) (string, error)

type Builtin struct {
	Name        string
	Description string
	ElemType    string
	Build       BuildFunc
}

type Option func(*Builtin)

func WithDescription(description string) Option {
	return func(b *Builtin) {
		b.Description = description
	}
}

func WithElemType(elemType string) Option {
	return func(b *Builtin) {
		b.ElemType = elemType
	}
}

type Registry struct {
	mu       sync.RWMutex
	builtins map[string]Builtin
}

func NewRegistry() *Registry {
	return &Registry{
		builtins: make(map[string]Builtin),
	}
}

// Default returns a registry holding embedString and embedBytes.
func Default() *Registry {
	r := NewRegistry()
	r.mustRegister("embedString", embedString,
		WithDescription("file contents as a string literal"),
		WithElemType("string"))
	r.mustRegister("embedBytes", embedBytes,
		WithDescription("file contents as a []byte conversion of a string literal"),
		WithElemType("[]byte"))
	return r
}

// Register adds a builtin. Builtin names are plain identifiers, so a selector
// handler such as pkg.Func never resolves to one.
func (r *Registry) Register(name string, fn BuildFunc, opts ...Option) error {
	if fn == nil {
		return fmt.Errorf("builtin %q has no build function", name)
	}
	if strings.Contains(name, ".") || strings.TrimSpace(name) == "" {
		return fmt.Errorf("invalid builtin name %q", name)
	}

	b := Builtin{Name: name, ElemType: DefaultElemType, Build: fn}
	for _, opt := range opts {
		opt(&b)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builtins[name]; exists {
		return fmt.Errorf("builtin %q already registered", name)
	}
	r.builtins[name] = b
	return nil
}

func (r *Registry) mustRegister(name string, fn BuildFunc, opts ...Option) {
	if err := r.Register(name, fn, opts...); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (Builtin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builtins[name]
	return b, ok
}

// Names lists the registered builtins in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builtins))
	for name := range r.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Elements builds the element type and one expression per path for inv.
func (r *Registry) Elements(inv directive.Invocation, paths []string) (string, []string, error) {
	elemType := inv.TypeName()
	build := PathLiteral

	if name := inv.HandlerName(); name != "" {
		if b, ok := r.Lookup(name); ok {
			build = b.Build
			if elemType == "" {
				elemType = b.ElemType
			}
		} else {
			build = Call(name)
		}
	}
	if elemType == "" {
		elemType = DefaultElemType
	}

	exprs := make([]string, 0, len(paths))
	for _, p := range paths {
		expr, err := build(p)
		if err != nil {
			return "", nil, err
		}
		exprs = append(exprs, expr)
	}
	return elemType, exprs, nil
}

// PathLiteral renders the path itself.
func PathLiteral(path string) (string, error) {
	return strconv.Quote(path), nil
}

// Call renders handler applied to the path literal.
func Call(handler string) BuildFunc {
	return func(path string) (string, error) {
		return handler + "(" + strconv.Quote(path) + ")", nil
	}
}

func embedString(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("embed %s: %w", path, err)
	}
	return StringLiteral(string(content)), nil
}

func embedBytes(path string) (string, error) {
	lit, err := embedString(path)
	if err != nil {
		return "", err
	}
	return "[]byte(" + lit + ")", nil
}

// StringLiteral quotes s, keeping multi-line text readable as a raw string
// when it holds nothing a raw string cannot carry.
func StringLiteral(s string) string {
	if canRawQuote(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

func canRawQuote(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '`', r == '\r', r == '\uFEFF':
			return false
		case r == '\n', r == '\t':
		case r < ' ', r == utf8.RuneError, r == 0x7f:
			return false
		}
	}
	return true
}
