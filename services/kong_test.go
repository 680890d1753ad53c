package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKong(adminURL string) *KongClient {
	return NewKongClient(adminURL, "http://gateway.local", 2*time.Second, zerolog.Nop())
}

func TestKongConfigured(t *testing.T) {
	assert.True(t, testKong("http://kong:8001").Configured())
	assert.False(t, testKong("").Configured())
}

func TestKongHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/status", r.URL.Path)
	}))
	defer ts.Close()

	assert.NoError(t, testKong(ts.URL).Health(context.Background()))
}

func TestKongHealthDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	assert.Error(t, testKong(ts.URL).Health(context.Background()))
	assert.Error(t, testKong("").Health(context.Background()))
}

func TestKongRegisterService(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		paths = append(paths, r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	}))
	defer ts.Close()

	err := testKong(ts.URL).RegisterService(context.Background(), "http://api:8080")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/services/nit-api",
		"/services/nit-api/routes/nit-api-route",
	}, paths)
}

func TestKongRegisterServiceToleratesConflict(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer ts.Close()

	assert.NoError(t, testKong(ts.URL).RegisterService(context.Background(), "http://api:8080"))
}

func TestKongRegisterServiceFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	assert.Error(t, testKong(ts.URL).RegisterService(context.Background(), "http://api:8080"))
}

func TestKongEnsureConsumers(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
	}))
	defer ts.Close()

	err := testKong(ts.URL).EnsureConsumers(context.Background(), []string{"frontend", "", "worker"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/consumers/frontend", "/consumers/worker"}, paths)
}

func TestKongRegisterSkippedWhenUnconfigured(t *testing.T) {
	kong := testKong("")
	assert.NoError(t, kong.RegisterService(context.Background(), "http://api:8080"))
	assert.NoError(t, kong.EnsureConsumers(context.Background(), []string{"frontend"}))
}
