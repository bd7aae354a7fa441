package apiclient

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantSuccess bool
		wantData    string
		wantMessage string
	}{
		{
			name:        "success envelope",
			status:      http.StatusOK,
			body:        `{"success":true,"data":{"id":"1"},"message":"ok"}`,
			wantSuccess: true,
			wantData:    `{"id":"1"}`,
			wantMessage: "ok",
		},
		{
			name:        "success false on 2xx",
			status:      http.StatusOK,
			body:        `{"success":false,"data":{"id":"1"},"message":"quota exceeded"}`,
			wantMessage: "quota exceeded",
		},
		{
			name:        "error status with success true",
			status:      http.StatusInternalServerError,
			body:        `{"success":true,"data":{"id":"1"}}`,
		},
		{
			name:        "failure envelope",
			status:      http.StatusNotFound,
			body:        `{"success":false,"message":"Tour not found"}`,
			wantMessage: "Tour not found",
		},
		{
			name:        "error field fallback",
			status:      http.StatusBadRequest,
			body:        `{"error":"invalid id"}`,
			wantMessage: "invalid id",
		},
		{
			name:        "bare object",
			status:      http.StatusOK,
			body:        `{"id":"1","title":"Silk Road"}`,
			wantSuccess: true,
			wantData:    `{"id":"1","title":"Silk Road"}`,
		},
		{
			name:        "bare array",
			status:      http.StatusOK,
			body:        `[{"id":"1"}]`,
			wantSuccess: true,
			wantData:    `[{"id":"1"}]`,
		},
		{
			name:        "envelope without data",
			status:      http.StatusCreated,
			body:        `{"success":true,"message":"Created"}`,
			wantSuccess: true,
			wantMessage: "Created",
		},
		{
			name:        "empty body on 204",
			status:      http.StatusNoContent,
			wantSuccess: true,
		},
		{
			name:   "empty body on 500",
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := normalize(&response{status: tt.status, body: []byte(tt.body)})
			require.NoError(t, err)

			assert.Equal(t, tt.status, env.Status)
			assert.Equal(t, tt.wantSuccess, env.Success)
			assert.Equal(t, tt.wantMessage, env.Message)
			if tt.wantData == "" {
				assert.Empty(t, env.Data)
			} else {
				assert.JSONEq(t, tt.wantData, string(env.Data))
			}
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	for _, body := range []string{"<html></html>", `{"success":`, "plain text"} {
		_, err := normalize(&response{status: http.StatusOK, body: []byte(body)})
		assert.ErrorIs(t, err, errMalformedResponse, body)
	}
}
