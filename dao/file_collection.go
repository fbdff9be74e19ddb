// api/dao/file_collection.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
)

// FileCollection keeps a collection as a JSON array file (<dir>/<name>.json).
// The array is loaded once and indexed in memory; every append rewrites
// the file under the collection's writer lock.
type FileCollection struct {
	name  string
	path  string
	mu    sync.RWMutex
	items []json.RawMessage
	maxID int
}

var _ Collection = (*FileCollection)(nil)

func NewFileCollection(dir, name string) (*FileCollection, error) {
	path := filepath.Join(dir, name+".json")
	items, err := readJSONArray(path)
	if err != nil {
		return nil, err
	}
	maxID, err := maxRecordID(items)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	logger.Info("Loaded file collection",
		zap.String("collection", name),
		zap.String("path", path),
		zap.Int("records", len(items)))
	return &FileCollection{name: name, path: path, items: items, maxID: maxID}, nil
}

func (c *FileCollection) Name() string { return c.name }

func (c *FileCollection) List(ctx context.Context) ([]json.RawMessage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]json.RawMessage(nil), c.items...), nil
}

func (c *FileCollection) Append(ctx context.Context, doc json.RawMessage) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, err := withID(doc, c.maxID+1)
	if err != nil {
		return nil, err
	}

	items := append(append([]json.RawMessage(nil), c.items...), stored)
	if err := writeJSONArray(c.path, items); err != nil {
		logger.Error("Failed to persist collection", zap.Error(err), zap.String("collection", c.name))
		return nil, fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}

	c.items = items
	c.maxID++
	return stored, nil
}
