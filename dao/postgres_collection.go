// api/dao/postgres_collection.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
)

type recordModel struct {
	Collection string    `gorm:"primaryKey;size:64"`
	RecordID   int       `gorm:"primaryKey;autoIncrement:false"`
	Body       []byte    `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (recordModel) TableName() string { return "records" }

// PostgresCollection stores records in a shared table keyed by
// (collection, record_id). Appends take a transaction-scoped advisory lock
// on the collection name so max+1 is computed by a single writer.
type PostgresCollection struct {
	db   *gorm.DB
	name string
}

var _ Collection = (*PostgresCollection)(nil)

func NewPostgresCollection(db *gorm.DB, name string) (*PostgresCollection, error) {
	if err := db.AutoMigrate(&recordModel{}); err != nil {
		return nil, fmt.Errorf("migrate records table: %w", err)
	}
	return &PostgresCollection{db: db, name: name}, nil
}

func (c *PostgresCollection) Name() string { return c.name }

func (c *PostgresCollection) List(ctx context.Context) ([]json.RawMessage, error) {
	var rows []recordModel
	err := c.db.WithContext(ctx).
		Where("collection = ?", c.name).
		Order("record_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}

	items := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, json.RawMessage(row.Body))
	}
	return items, nil
}

func (c *PostgresCollection) Append(ctx context.Context, doc json.RawMessage) (json.RawMessage, error) {
	start := time.Now()
	var stored json.RawMessage

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", c.name).Error; err != nil {
			return err
		}

		var maxID int
		err := tx.Model(&recordModel{}).
			Where("collection = ?", c.name).
			Select("COALESCE(MAX(record_id), 0)").
			Scan(&maxID).
			Error
		if err != nil {
			return err
		}

		stored, err = withID(doc, maxID+1)
		if err != nil {
			return err
		}

		row := recordModel{
			Collection: c.name,
			RecordID:   maxID + 1,
			Body:       stored,
			CreatedAt:  time.Now().UTC(),
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		logger.Error("Failed to append record",
			zap.Error(err),
			zap.String("collection", c.name),
			zap.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}

	logger.Debug("Record appended",
		zap.String("collection", c.name),
		zap.Duration("duration", time.Since(start)))
	return stored, nil
}
