package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// FirebaseStore is a KeyValueStore backed by Firebase Realtime Database.
type FirebaseStore struct {
	client *db.Client
}

// NewFirebaseStore initializes a Firebase app from service-account JSON and
// returns a store bound to the given database URL.
func NewFirebaseStore(ctx context.Context, credentials []byte, databaseURL string) (*FirebaseStore, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase database: %w", err)
	}
	return &FirebaseStore{client: client}, nil
}

// Get reads the node at path. A null node is reported as absent.
func (f *FirebaseStore) Get(ctx context.Context, path string) (json.RawMessage, bool, error) {
	var raw json.RawMessage
	if err := f.client.NewRef(path).Get(ctx, &raw); err != nil {
		return nil, false, fmt.Errorf("firebase get %s: %w", path, err)
	}
	if isNull(raw) {
		return nil, false, nil
	}
	return raw, true, nil
}

// Set overwrites the node at path.
func (f *FirebaseStore) Set(ctx context.Context, path string, value any) error {
	if err := f.client.NewRef(path).Set(ctx, value); err != nil {
		return fmt.Errorf("firebase set %s: %w", path, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
