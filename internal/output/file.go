package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stdout is the path that selects standard output.
const Stdout = "-"

// WeekPath derives the per-week file for a run that writes several weeks:
// "menu.json" becomes "menu_s7.json". A path without the format's extension
// gets the suffix and the extension appended.
func WeekPath(path string, format Format, week int) string {
	return suffixed(path, format, fmt.Sprintf("_s%d", week))
}

// KeyPath is WeekPath for menus without a week number, suffixing the
// storage key instead ("menu.json" -> "menu_pascuas.json").
func KeyPath(path string, format Format, key string) string {
	return suffixed(path, format, "_"+key)
}

func suffixed(path string, format Format, suffix string) string {
	if path == "" || path == Stdout {
		return "menu_semana" + suffix + format.Ext()
	}
	ext := filepath.Ext(path)
	if f, err := ParseFormat(ext); err == nil && ext != "" && f == format {
		return strings.TrimSuffix(path, ext) + suffix + ext
	}
	return path + suffix + format.Ext()
}

// Create opens path for writing, creating parent directories. Stdout (or
// an empty path) returns os.Stdout wrapped so that Close leaves it open.
func Create(path string) (io.WriteCloser, error) {
	if path == "" || path == Stdout {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path) //#nosec G304 -- path comes from the user
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, nil
}

// WriteFile encodes items into path in one go.
func WriteFile(path string, format Format, items []any, opts ...WriterOption) (err error) {
	out, err := Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	w, err := NewWriter(out, format, opts...)
	if err != nil {
		return err
	}
	if err := w.WriteAll(items); err != nil {
		return err
	}
	return w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
