package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/teknova-erp/resource-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RecordRow is the storage schema for the GormBackend: one row per record,
// the record body held as a JSON document. Seq preserves insertion order
// across the whole table.
type RecordRow struct {
	Seq      int64  `gorm:"primaryKey;autoIncrement"`
	Kind     string `gorm:"type:varchar(50);not null;uniqueIndex:idx_records_kind_id,priority:1"`
	RecordID int    `gorm:"not null;uniqueIndex:idx_records_kind_id,priority:2;column:record_id"`
	Data     string `gorm:"type:text;not null"`
}

// TableName overrides the default table name to match the migration
func (RecordRow) TableName() string {
	return "records"
}

// GormBackend implements Backend on top of a relational database through
// GORM. The dialector decides the engine (SQLite for local use, PostgreSQL
// in deployment), mirroring how the records table is created by cmd/migrate.
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend opens the database and ensures the records table exists.
func NewGormBackend(dialector gorm.Dialector) (*GormBackend, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&RecordRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate records table: %w", err)
	}
	return &GormBackend{db: db}, nil
}

func (g *GormBackend) FetchAll(ctx context.Context, kind domain.Kind) ([]json.RawMessage, error) {
	var rows []RecordRow
	err := g.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, len(rows))
	for i, row := range rows {
		out[i] = json.RawMessage(row.Data)
	}
	return out, nil
}

func (g *GormBackend) FetchOne(ctx context.Context, kind domain.Kind, id int) (json.RawMessage, error) {
	var row RecordRow
	err := g.db.WithContext(ctx).
		Where("kind = ? AND record_id = ?", string(kind), id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(row.Data), nil
}

func (g *GormBackend) Insert(ctx context.Context, kind domain.Kind, record json.RawMessage) (json.RawMessage, error) {
	id, err := recordID(record)
	if err != nil {
		return nil, fmt.Errorf("record has no id: %w", err)
	}
	row := RecordRow{
		Kind:     string(kind),
		RecordID: id,
		Data:     string(record),
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (g *GormBackend) Replace(ctx context.Context, kind domain.Kind, id int, record json.RawMessage) (json.RawMessage, error) {
	res := g.db.WithContext(ctx).
		Model(&RecordRow{}).
		Where("kind = ? AND record_id = ?", string(kind), id).
		Update("data", string(record))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return record, nil
}

func (g *GormBackend) Remove(ctx context.Context, kind domain.Kind, id int) (bool, error) {
	res := g.db.WithContext(ctx).
		Where("kind = ? AND record_id = ?", string(kind), id).
		Delete(&RecordRow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Ping verifies the database connection, for health checks.
func (g *GormBackend) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
