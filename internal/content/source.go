package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Source supplies the raw text of the canonical exam document. The engine
// does not care where the text lives.
type Source interface {
	ExamText(ctx context.Context) (string, error)
}

// FSSource reads the exam document from a markdown file under a base dir.
type FSSource struct {
	base string
	file string
}

func NewFSSource(base, file string) (*FSSource, error) {
	if base == "" {
		base = "./practices"
	}
	if file == "" {
		return nil, errors.New("empty exam file name")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSSource{base: base, file: file}, nil
}

func (s *FSSource) ExamText(_ context.Context) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.base, filepath.Clean(s.file)))
	if err != nil {
		return "", fmt.Errorf("read exam document: %w", err)
	}
	return string(b), nil
}

// StaticSource serves a fixed in-memory document. Used in tests and for
// seeding dev environments.
type StaticSource string

func (s StaticSource) ExamText(_ context.Context) (string, error) {
	return string(s), nil
}
