package jobs_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/jobs"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/storage"
	"go.uber.org/zap"
)

func archiveName(prefix string) string {
	return fmt.Sprintf("%s-%s.json", prefix, time.Now().UTC().Format("2006-01-02"))
}

func TestSnapshotJobExportsAllCollections(t *testing.T) {
	backend := persistence.NewMemoryBackend()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = backend.Insert(ctx, domain.KindCustomer, json.RawMessage(`{"id":1,"name":"Acme"}`))
	require.NoError(t, err)
	_, err = backend.Insert(ctx, domain.KindProject, json.RawMessage(`{"id":1,"name":"ERP"}`))
	require.NoError(t, err)

	job := jobs.NewSnapshotJob(backend, store, "records", zap.NewNop())
	require.NoError(t, job.Run(ctx))

	rc, err := store.Get(ctx, archiveName("records"))
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)

	var export map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &export))

	// Every collection appears, populated or not.
	for _, kind := range []string{"customer", "contract", "project", "personnel", "project_task", "filter_preset"} {
		assert.Contains(t, export, kind)
	}
	require.Len(t, export["customer"], 1)
	assert.JSONEq(t, `{"id":1,"name":"Acme"}`, string(export["customer"][0]))
	assert.Empty(t, export["contract"])
}

func TestSnapshotJobOverwritesSameDayArchive(t *testing.T) {
	backend := persistence.NewMemoryBackend()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	job := jobs.NewSnapshotJob(backend, store, "records", zap.NewNop())
	require.NoError(t, job.Run(ctx))

	_, err = backend.Insert(ctx, domain.KindCustomer, json.RawMessage(`{"id":1,"name":"Acme"}`))
	require.NoError(t, err)
	require.NoError(t, job.Run(ctx))

	rc, err := store.Get(ctx, archiveName("records"))
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)

	var export map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Len(t, export["customer"], 1)
}

func TestSnapshotJobDefaultsPrefix(t *testing.T) {
	backend := persistence.NewMemoryBackend()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	job := jobs.NewSnapshotJob(backend, store, "", zap.NewNop())
	require.NoError(t, job.Run(context.Background()))

	rc, err := store.Get(context.Background(), archiveName("records"))
	require.NoError(t, err)
	rc.Close()
}
