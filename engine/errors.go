package engine

import (
	"fmt"
	"strings"
)

// GenerationError reports a failure at a source location, either a file or a
// file:line:col directive position.
type GenerationError struct {
	Path    string
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// MultiError collects the failures of a FailAtEnd run, one per source file.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	msgs := make([]string, len(m.Errors))
	for i, err := range m.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d files failed:\n%s", len(m.Errors), strings.Join(msgs, "\n"))
}

func (m *MultiError) Unwrap() []error {
	return m.Errors
}

func (m *MultiError) Add(err error) {
	m.Errors = append(m.Errors, err)
}

func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}
