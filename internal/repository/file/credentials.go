// Package file keeps credentials in a JSON file so a session outlives the process.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dtroode/tourdesk/internal/model"
)

const appDir = "tourdesk"

var _ model.TokenStore = (*CredentialsRepository)(nil)

// CredentialsRepository stores credentials in one file per profile.
// Set writes a temporary file and renames it over the old one, so readers in
// this or another process see either the old pair or the new pair.
type CredentialsRepository struct {
	mu   sync.RWMutex
	path string
}

// DefaultPath returns the credentials file of profile under the user config directory.
func DefaultPath(profile string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appDir, "credentials-"+profile+".json"), nil
}

func NewCredentialsRepository(path string) *CredentialsRepository {
	return &CredentialsRepository{path: path}
}

func (r *CredentialsRepository) Get(_ context.Context) (model.Credentials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Credentials{}, nil
		}
		return model.Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return model.Credentials{}, fmt.Errorf("failed to decode credentials: %w", err)
	}
	return creds, nil
}

func (r *CredentialsRepository) Set(_ context.Context, creds model.Credentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	// CreateTemp opens the file with mode 0600.
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close credentials file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

func (r *CredentialsRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
