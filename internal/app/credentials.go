package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

// CredentialStoreType selects where the API key is kept.
type CredentialStoreType string

const (
	// CredentialStoreEnv reads the key from configuration only and cannot be written.
	CredentialStoreEnv CredentialStoreType = "env"
	// CredentialStoreFile keeps the key in a file readable by the current user only.
	CredentialStoreFile CredentialStoreType = "file"
	// CredentialStoreKeyring keeps the key in the OS keyring.
	CredentialStoreKeyring CredentialStoreType = "keyring"
)

// Keyring coordinates of the stored API key.
const (
	keyringService = "oai"
	keyringUser    = "api_key"
)

// ErrReadOnlyStore is returned when writing to the env store.
var ErrReadOnlyStore = errors.New("credential store is read-only")

// CredentialStore persists the API key. Writing an empty key clears it.
type CredentialStore interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, apiKey string) error
}

// NewCredentialStore returns the store selected by the configuration.
func (c *Config) NewCredentialStore() (CredentialStore, error) {
	switch c.CredentialStore {
	case CredentialStoreEnv, "":
		return envStore{apiKey: c.APIKey}, nil
	case CredentialStoreFile:
		return fileStore{path: c.CredentialFile}, nil
	case CredentialStoreKeyring:
		return keyringStore{service: keyringService, user: keyringUser}, nil
	default:
		return nil, fmt.Errorf("unknown credential store %q", c.CredentialStore)
	}
}

type envStore struct {
	apiKey string
}

func (s envStore) Read(ctx context.Context) (string, error) {
	return s.apiKey, ctx.Err()
}

func (envStore) Write(context.Context, string) error {
	return ErrReadOnlyStore
}

type fileStore struct {
	path string
}

func (s fileStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s fileStore) Write(ctx context.Context, apiKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if apiKey == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", s.path, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(s.path), err)
	}
	if err := os.WriteFile(s.path, []byte(apiKey+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

type keyringStore struct {
	service string
	user    string
}

func (s keyringStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	secret, err := keyring.Get(s.service, s.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading keyring: %w", err)
	}
	return secret, nil
}

func (s keyringStore) Write(ctx context.Context, apiKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if apiKey == "" {
		if err := keyring.Delete(s.service, s.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("deleting keyring entry: %w", err)
		}
		return nil
	}
	if err := keyring.Set(s.service, s.user, apiKey); err != nil {
		return fmt.Errorf("writing keyring: %w", err)
	}
	return nil
}
