package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tourdesk/internal/model"
)

func TestCredentialsRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "credentials-default.json")
	repo := NewCredentialsRepository(path)

	creds, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, creds.Empty())

	require.NoError(t, repo.Set(ctx, model.Credentials{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, repo.Set(ctx, model.Credentials{AccessToken: "a2", RefreshToken: "r2"}))

	creds, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Credentials{AccessToken: "a2", RefreshToken: "r2"}, creds)

	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))
	creds, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, creds.Empty())
}

func TestCredentialsRepository_SharedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials-default.json")

	require.NoError(t, NewCredentialsRepository(path).Set(ctx, model.Credentials{AccessToken: "a1", RefreshToken: "r1"}))

	creds, err := NewCredentialsRepository(path).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", creds.AccessToken)
}

func TestCredentialsRepository_FileLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials-default.json")
	repo := NewCredentialsRepository(path)

	require.NoError(t, repo.Set(ctx, model.Credentials{AccessToken: "a1", RefreshToken: "r1"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accessToken":"a1","refreshToken":"r1"}`, string(data))

	// No temporary files are left next to the credentials.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestCredentialsRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials-default.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewCredentialsRepository(path).Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode credentials")
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("HOME", "/tmp/home")
	t.Setenv("AppData", "/tmp/appdata")

	path, err := DefaultPath("ops")
	require.NoError(t, err)
	assert.Equal(t, "credentials-ops.json", filepath.Base(path))
	assert.Equal(t, "tourdesk", filepath.Base(filepath.Dir(path)))
}
