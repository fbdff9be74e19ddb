// api/dao/record_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
)

// RecordDAO decodes a Collection into typed records.
type RecordDAO[T model.Record] struct {
	collection Collection
	notFound   error
}

type (
	UserDAO    = RecordDAO[model.User]
	ProjectDAO = RecordDAO[model.Project]
	TaskDAO    = RecordDAO[model.Task]
)

func NewUserDAO(c Collection) *UserDAO {
	return &UserDAO{collection: c, notFound: fleet_errors.ErrUserNotFound}
}

func NewProjectDAO(c Collection) *ProjectDAO {
	return &ProjectDAO{collection: c, notFound: fleet_errors.ErrProjectNotFound}
}

func NewTaskDAO(c Collection) *TaskDAO {
	return &TaskDAO{collection: c, notFound: fleet_errors.ErrTaskNotFound}
}

func (d *RecordDAO[T]) Name() string {
	return d.collection.Name()
}

func (d *RecordDAO[T]) List(ctx context.Context) ([]T, error) {
	docs, err := d.collection.List(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]T, 0, len(docs))
	for _, doc := range docs {
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			logger.Error("Failed to decode record", zap.Error(err), zap.String("collection", d.Name()))
			return nil, fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Get scans the full collection for id.
func (d *RecordDAO[T]) Get(ctx context.Context, id int) (*T, error) {
	records, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].RecordID() == id {
			return &records[i], nil
		}
	}
	return nil, d.notFound
}

// Create appends rec and returns it with the id the collection assigned.
func (d *RecordDAO[T]) Create(ctx context.Context, rec T) (*T, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	stored, err := d.collection.Append(ctx, doc)
	if err != nil {
		return nil, err
	}
	var created T
	if err := json.Unmarshal(stored, &created); err != nil {
		return nil, fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}
	logger.Info("Record created",
		zap.String("collection", d.Name()),
		zap.Int("id", created.RecordID()))
	return &created, nil
}
