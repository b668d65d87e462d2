package persistence_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"go.uber.org/zap"
)

func newRemoteBackend(t *testing.T, baseURL string) *persistence.RemoteBackend {
	t.Helper()
	backend, err := persistence.NewRemoteBackend(&persistence.RemoteConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	}, zap.NewNop())
	require.NoError(t, err)
	return backend
}

func TestRemoteBackendSendsAPIKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	backend := newRemoteBackend(t, srv.URL)
	_, err := backend.FetchAll(context.Background(), domain.KindCustomer)
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
}

func TestRemoteBackendFetchOneNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	backend := newRemoteBackend(t, srv.URL)
	_, err := backend.FetchOne(context.Background(), domain.KindCustomer, 7)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestRemoteBackendRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"id":1,"name":"Acme"}`))
	}))
	defer srv.Close()

	backend := newRemoteBackend(t, srv.URL)
	rec, err := backend.FetchOne(context.Background(), domain.KindCustomer, 1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Acme"}`, string(rec))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRemoteBackendDoesNotRetryInsert(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	backend := newRemoteBackend(t, srv.URL)
	_, err := backend.Insert(context.Background(), domain.KindCustomer, json.RawMessage(`{"id":1}`))
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRemoteBackendDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	backend := newRemoteBackend(t, srv.URL)
	_, err := backend.FetchAll(context.Background(), domain.KindCustomer)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRemoteBackendRemoveMapsNotFoundToFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	backend := newRemoteBackend(t, srv.URL)
	removed, err := backend.Remove(context.Background(), domain.KindCustomer, 3)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRemoteBackendURLLayout(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"id":5}`))
	}))
	defer srv.Close()

	backend := newRemoteBackend(t, srv.URL)
	_, err := backend.Replace(context.Background(), domain.KindProject, 5, json.RawMessage(`{"id":5}`))
	require.NoError(t, err)
	assert.Equal(t, "/records/project/5", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
}
