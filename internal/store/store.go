// Package store persists extraction results locally or in a hosted
// document store. Results are keyed by week ("semana_7") or, for menus
// without a week number, by a slug of the title.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmylchreest/menucart/internal/config"
	"github.com/jmylchreest/menucart/internal/output"
	"github.com/jmylchreest/menucart/pkg/menu"
)

// ErrNotFound is returned when a key has no stored result.
var ErrNotFound = errors.New("result not found")

// Store persists results.
type Store interface {
	// Save writes res under key, replacing any previous version.
	Save(ctx context.Context, key string, res *menu.Result) error

	// Close releases connections.
	Close() error

	// Name identifies the backend in logs.
	Name() string
}

// Reader is implemented by stores that can read results back.
type Reader interface {
	Get(ctx context.Context, key string) (*menu.Result, error)
	Keys(ctx context.Context) ([]string, error)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Key returns the storage key for res.
func Key(res *menu.Result) string {
	if res.Week != nil {
		return fmt.Sprintf("semana_%d", *res.Week)
	}
	if slug := Slug(res.Title); slug != "" {
		return slug
	}
	return "menu_" + res.Generated.UTC().Format("20060102T150405")
}

// Slug folds accents and joins the remaining words with underscores.
func Slug(title string) string {
	return strings.Trim(nonSlug.ReplaceAllString(menu.Fold(title), "_"), "_")
}

// New opens the backend selected by cfg. Backend "none" returns nil.
func New(ctx context.Context, cfg config.StoreConfig, format output.Format) (Store, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "file":
		return NewFileStore(cfg.Dir, format)
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLitePath)
	case "firestore":
		return NewFirestore(ctx, FirestoreConfig{
			ProjectID:       cfg.FirestoreProject,
			CredentialsFile: cfg.FirestoreCredential,
			Collection:      cfg.FirestoreCollection,
		})
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
