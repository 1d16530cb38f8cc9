package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Config carries the remote store settings. The Firebase store is used only
// when valid credentials and a database URL are both present.
type Config struct {
	CredentialsJSON   string
	CredentialsBase64 string
	DatabaseURL       string
}

// ErrNoCredentials means neither credential form was supplied.
var ErrNoCredentials = errors.New("no firebase credentials")

// ParseCredentials returns the service-account JSON from the raw form, or
// from the base64 form when the raw one is empty.
func ParseCredentials(rawJSON, b64 string) ([]byte, error) {
	var data []byte
	switch {
	case strings.TrimSpace(rawJSON) != "":
		data = []byte(rawJSON)
	case strings.TrimSpace(b64) != "":
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
		if err != nil {
			return nil, fmt.Errorf("decode base64 credentials: %w", err)
		}
		data = decoded
	default:
		return nil, ErrNoCredentials
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse credentials JSON: %w", err)
	}
	return data, nil
}

// Open picks the store once for the process lifetime. Missing or unparseable
// credentials, or a missing database URL, select the in-memory store. An
// error is returned only when valid settings fail to initialize Firebase.
func Open(ctx context.Context, cfg Config) (KeyValueStore, error) {
	creds, err := ParseCredentials(cfg.CredentialsJSON, cfg.CredentialsBase64)
	if err != nil && !errors.Is(err, ErrNoCredentials) {
		slog.Warn("ignoring invalid firebase credentials", "error", err)
	}

	if creds == nil || cfg.DatabaseURL == "" {
		slog.Info("using in-memory store", "has_credentials", creds != nil, "has_database_url", cfg.DatabaseURL != "")
		return NewMemoryStore(), nil
	}

	fs, err := NewFirebaseStore(ctx, creds, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	slog.Info("firebase store initialized", "database_url", cfg.DatabaseURL)
	return fs, nil
}
