// Package write persists generated files.
package write

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Writer stores generated content. Implementations must be safe for
// concurrent use on distinct paths.
type Writer interface {
	// Write stores content at path and reports whether anything changed.
	Write(path string, content []byte) (bool, error)
	NeedsWrite(path string, content []byte) (bool, error)
	// Remove deletes a stale generated file. A missing file is not an error.
	Remove(path string) (bool, error)
}

// FileWriter writes to disk atomically and skips unchanged files.
type FileWriter struct {
	Perm fs.FileMode
}

func NewFileWriter() *FileWriter {
	return &FileWriter{Perm: 0o644}
}

func (fw *FileWriter) Write(path string, content []byte) (bool, error) {
	needs, err := fw.NeedsWrite(path, content)
	if err != nil {
		return false, err
	}
	if !needs {
		return false, nil
	}
	if err := fw.atomicWrite(path, content); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

func (fw *FileWriter) NeedsWrite(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return !bytes.Equal(existing, content), nil
}

func (fw *FileWriter) Remove(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("remove %s: %w", path, err)
}

// atomicWrite stages content in the target directory so the rename never
// crosses filesystems.
func (fw *FileWriter) atomicWrite(path string, content []byte) error {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tempPath := file.Name()

	if _, err := file.Write(content); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Chmod(tempPath, fw.Perm); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// StreamWriter prints every file to an io.Writer instead of touching disk.
type StreamWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewStreamWriter(out io.Writer) *StreamWriter {
	return &StreamWriter{out: out}
}

func (sw *StreamWriter) Write(path string, content []byte) (bool, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if _, err := fmt.Fprintf(sw.out, "// %s\n%s", path, content); err != nil {
		return false, err
	}
	return true, nil
}

func (sw *StreamWriter) NeedsWrite(string, []byte) (bool, error) {
	return true, nil
}

func (sw *StreamWriter) Remove(string) (bool, error) {
	return false, nil
}
