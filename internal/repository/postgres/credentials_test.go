package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tourdesk/internal/model"
)

func newMockRepository(t *testing.T) (*CredentialsRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCredentialsRepository(&Connection{DB: db}, "default"), mock
}

func TestNewCredentialsRepository(t *testing.T) {
	db := &Connection{}
	repo := NewCredentialsRepository(db, "ops")

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
	assert.Equal(t, "ops", repo.profile)
}

func TestCredentialsRepository_Get(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		want    model.Credentials
		wantErr bool
	}{
		{
			name: "stored session",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT access_token, refresh_token\s+FROM sessions WHERE profile = \$1`).
					WithArgs("default").
					WillReturnRows(sqlmock.NewRows([]string{"access_token", "refresh_token"}).AddRow("a1", "r1"))
			},
			want: model.Credentials{AccessToken: "a1", RefreshToken: "r1"},
		},
		{
			name: "no session",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT access_token, refresh_token`).
					WithArgs("default").
					WillReturnError(sql.ErrNoRows)
			},
			want: model.Credentials{},
		},
		{
			name: "database error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT access_token, refresh_token`).
					WithArgs("default").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setup(mock)

			got, err := repo.Get(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to get credentials")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCredentialsRepository_Set(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO sessions .* ON CONFLICT \(profile\) DO UPDATE`).
		WithArgs("default", "a2", "r2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Set(context.Background(), model.Credentials{AccessToken: "a2", RefreshToken: "r2"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialsRepository_SetError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO sessions`).
		WillReturnError(errors.New("disk full"))

	err := repo.Set(context.Background(), model.Credentials{AccessToken: "a", RefreshToken: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialsRepository_Clear(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`DELETE FROM sessions WHERE profile = \$1`).
		WithArgs("default").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialsRepository_ClearError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`DELETE FROM sessions`).
		WillReturnError(errors.New("boom"))

	err := repo.Clear(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
