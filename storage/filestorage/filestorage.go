// Package filestorage writes recipes to CSV and JSONL files and reads them
// back for the loader.
package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/izorzok/crawler/recipe"
	"go.uber.org/zap"
)

type Format int

const (
	CSV Format = iota
	JSONL
)

func (f Format) String() string {
	if f == JSONL {
		return "jsonl"
	}
	return "csv"
}

// FormatOf guesses the format from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json", ".ndjson":
		return JSONL
	}
	return CSV
}

// FileStorage keeps every saved recipe and writes the whole file on Flush.
type FileStorage struct {
	path    string
	format  Format
	recipes []*recipe.Recipe
	logger  *zap.Logger
}

func New(path string, format Format, logger *zap.Logger) *FileStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStorage{path: path, format: format, logger: logger}
}

func (s *FileStorage) Save(recipes ...*recipe.Recipe) error {
	s.recipes = append(s.recipes, recipes...)
	return nil
}

func (s *FileStorage) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return err
	}

	if err := Write(f, s.format, s.recipes); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	s.logger.Info("saved recipes",
		zap.String("path", s.path),
		zap.Stringer("format", s.format),
		zap.Int("count", len(s.recipes)),
	)
	return nil
}

func Write(w io.Writer, format Format, rs []*recipe.Recipe) error {
	if format == JSONL {
		return WriteJSONL(w, rs)
	}
	return WriteCSV(w, rs)
}

func Read(r io.Reader, format Format) ([]*recipe.Recipe, error) {
	if format == JSONL {
		return ReadJSONL(r)
	}
	return ReadCSV(r)
}

func ReadFile(path string, format Format) ([]*recipe.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rs, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rs, nil
}
