package memory

import (
	"context"
	"sync"

	"github.com/dtroode/tourdesk/internal/model"
)

var _ model.TokenStore = (*CredentialsRepository)(nil)

// CredentialsRepository keeps credentials in process memory.
// The zero value is an empty, unauthenticated store.
type CredentialsRepository struct {
	mu    sync.RWMutex
	creds model.Credentials
}

func NewCredentialsRepository() *CredentialsRepository {
	return &CredentialsRepository{}
}

func (r *CredentialsRepository) Get(_ context.Context) (model.Credentials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.creds, nil
}

func (r *CredentialsRepository) Set(_ context.Context, creds model.Credentials) error {
	r.mu.Lock()
	r.creds = creds
	r.mu.Unlock()
	return nil
}

func (r *CredentialsRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	r.creds = model.Credentials{}
	r.mu.Unlock()
	return nil
}
