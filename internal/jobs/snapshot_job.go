package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/storage"
	"go.uber.org/zap"
)

// snapshotKinds lists every collection included in an export.
var snapshotKinds = []domain.Kind{
	domain.KindCustomer,
	domain.KindContract,
	domain.KindProject,
	domain.KindPersonnel,
	domain.KindProjectTask,
	domain.KindFilterPreset,
}

// SnapshotJob exports every record collection to a dated JSON archive.
// Running it twice on the same day overwrites that day's archive.
type SnapshotJob struct {
	backend persistence.Backend
	store   storage.Storage
	prefix  string
	logger  *zap.Logger
}

// NewSnapshotJob creates the export job.
func NewSnapshotJob(backend persistence.Backend, store storage.Storage, prefix string, logger *zap.Logger) *SnapshotJob {
	if prefix == "" {
		prefix = "records"
	}
	return &SnapshotJob{
		backend: backend,
		store:   store,
		prefix:  prefix,
		logger:  logger,
	}
}

// Run exports all collections and uploads the archive. It is safe to call
// from the scheduler and directly.
func (j *SnapshotJob) Run(ctx context.Context) error {
	export := make(map[string][]json.RawMessage, len(snapshotKinds))
	total := 0
	for _, kind := range snapshotKinds {
		records, err := j.backend.FetchAll(ctx, kind)
		if err != nil {
			return fmt.Errorf("failed to export %s records: %w", kind, err)
		}
		export[string(kind)] = records
		total += len(records)
	}

	data, err := json.Marshal(export)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", j.prefix, time.Now().UTC().Format("2006-01-02"))
	size, err := j.store.Put(ctx, name, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", name, err)
	}

	j.logger.Info("snapshot exported",
		zap.String("archive", name),
		zap.Int("records", total),
		zap.Int64("size", size),
	)
	return nil
}
