package service

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tourdesk/internal/apiclient"
	"github.com/dtroode/tourdesk/internal/mocks"
	"github.com/dtroode/tourdesk/internal/model"
	"github.com/dtroode/tourdesk/internal/repository/memory"
	"github.com/dtroode/tourdesk/internal/testutil"
)

func newAPI(b *testutil.Backend, store model.TokenStore) *apiclient.Client {
	return apiclient.New(b.BaseURL(), store, testutil.MakeNoopLogger())
}

func signedInStore(t *testing.T) *memory.CredentialsRepository {
	t.Helper()
	store := memory.NewCredentialsRepository()
	require.NoError(t, store.Set(context.Background(), model.Credentials{AccessToken: "a1", RefreshToken: "r1"}))
	return store
}

func expectInfo(n *mocks.Notifier, message string) {
	n.On("Notify", mock.Anything, model.Notification{Level: model.NotificationInfo, Message: message}).Once()
}

func apiclientAt(baseURL string, store model.TokenStore) *apiclient.Client {
	return apiclient.New(baseURL, store, testutil.MakeNoopLogger())
}

func readBody(t *testing.T, r *http.Request) string {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	return string(data)
}
