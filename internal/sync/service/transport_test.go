package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_Push(t *testing.T) {
	var gotBody string
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, time.Second)
	err := transport.Push(context.Background(), `{"type":"note.update"}`)
	require.NoError(t, err)
	assert.Equal(t, "/sync/push", gotPath)
	assert.Equal(t, `{"type":"note.update"}`, gotBody)
}

func TestHTTPTransport_PushRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, time.Second)
	err := transport.Push(context.Background(), `{"type":"x"}`)
	assert.Error(t, err)
}

func TestHTTPTransport_PushUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	transport := NewHTTPTransport(server.URL, time.Second)
	err := transport.Push(context.Background(), `{"type":"x"}`)
	assert.Error(t, err)
}

func TestHTTPTransport_Pull(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync/pull", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"r1","updatedAt":"2026-03-01T12:00:00Z"}]`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, time.Second)
	records, err := transport.Pull(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "r1", records[0].ID)
	assert.Equal(t, 2026, records[0].UpdatedAt.Year())
}

func TestHTTPTransport_PullBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, time.Second)
	_, err := transport.Pull(context.Background())
	assert.Error(t, err)
}

func TestHTTPTransport_IsOnline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	transport := NewHTTPTransport(server.URL, time.Second)

	// Any response, even an error status, means the endpoint is reachable.
	assert.True(t, transport.IsOnline(context.Background()))

	server.Close()
	assert.False(t, transport.IsOnline(context.Background()))
}
