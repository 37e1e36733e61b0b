package store

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/jmylchreest/menucart/internal/logger"
	"github.com/jmylchreest/menucart/pkg/menu"
)

// FirestoreConfig selects the project and collection results go to.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string // Empty uses application default credentials
	Collection      string
}

// FirestoreStore uploads each result as one document.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore connects to Firestore.
func NewFirestore(ctx context.Context, cfg FirestoreConfig) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreStore{client: client, collection: cfg.Collection}, nil
}

// Save replaces the document named key.
func (s *FirestoreStore) Save(ctx context.Context, key string, res *menu.Result) error {
	doc, err := document(res)
	if err != nil {
		return err
	}
	doc["uploadedAt"] = firestore.ServerTimestamp

	if _, err := s.client.Collection(s.collection).Doc(key).Set(ctx, doc); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	logger.Debug("uploaded to firestore", "collection", s.collection, "doc", key)
	return nil
}

// document converts res to the field map stored in Firestore, keeping the
// JSON field names.
func document(res *menu.Result) (map[string]any, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert result: %w", err)
	}
	return doc, nil
}

// Close closes the client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// Name returns "firestore".
func (s *FirestoreStore) Name() string { return "firestore" }
