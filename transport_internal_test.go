package darwin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHTTPExecutor_BodyLimit verifies a body at the limit is returned whole
// and a larger one fails instead of being truncated.
func TestHTTPExecutor_BodyLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "at limit", size: 16},
		{name: "over limit", size: 17, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			body := strings.Repeat("x", tt.size)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			e := NewHTTPExecutor(server.Client(), nil)
			e.maxBody = 16

			// Act
			resp, err := e.Do(context.Background(), &TransportRequest{
				Method: http.MethodGet,
				URL:    server.URL,
				Header: http.Header{},
			})

			// Assert
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrResponseTooLarge)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, body, string(resp.Body))
		})
	}
}

// TestDo_ResponseTooLarge verifies an oversized body surfaces as a transport
// failure rather than a decode error.
func TestDo_ResponseTooLarge(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 1, "name": "a team with a long name"}`))
	}))
	defer server.Close()

	e := NewHTTPExecutor(server.Client(), nil)
	e.maxBody = 8
	client, err := NewClient(server.URL+"/api", WithAPIKey("key"), WithExecutor(e))
	require.NoError(t, err)

	// Act
	_, err = client.Teams.Get(context.Background(), "acme")

	// Assert
	assert.Equal(t, KindTransport, KindOf(err))
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}
