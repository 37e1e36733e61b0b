package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmylchreest/menucart/internal/output"
	"github.com/jmylchreest/menucart/pkg/menu"
)

// FileStore writes one file per result into a directory.
type FileStore struct {
	dir    string
	format output.Format
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, format output.Format) (*FileStore, error) {
	if format == "" || format == output.FormatJSONL {
		format = output.FormatJSON
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &FileStore{dir: dir, format: format}, nil
}

// Path returns the file a key is written to.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+s.format.Ext())
}

// Save writes res to <dir>/<key>.<format>.
func (s *FileStore) Save(_ context.Context, key string, res *menu.Result) error {
	path := s.Path(key)
	if err := output.WriteFile(path, s.format, []any{res}); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Get reads a JSON result back. YAML stores only support writing.
func (s *FileStore) Get(_ context.Context, key string) (*menu.Result, error) {
	if s.format != output.FormatJSON {
		return nil, fmt.Errorf("reading %s files is not supported", s.format)
	}
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var res menu.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return &res, nil
}

// Keys lists stored keys in lexical order.
func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	ext := s.format.Ext()
	var keys []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
			keys = append(keys, strings.TrimSuffix(e.Name(), ext))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

// Name returns "file".
func (s *FileStore) Name() string { return "file" }
