// api/dao/neo4j_collection.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
)

// Neo4jCollection stores each record as a (:Record {collection, id, body})
// node. The next id is computed inside the same write transaction that
// creates the node.
type Neo4jCollection struct {
	driver neo4j.DriverWithContext
	name   string
	mu     sync.Mutex
}

var _ Collection = (*Neo4jCollection)(nil)

func NewNeo4jCollection(ctx context.Context, driver neo4j.DriverWithContext, name string) (*Neo4jCollection, error) {
	c := &Neo4jCollection{driver: driver, name: name}
	if err := c.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Neo4jCollection) ensureIndex(ctx context.Context) error {
	logger.Info("Ensuring index on Record collection and id")
	_, err := neo4j.ExecuteQuery(ctx, c.driver, `
        CREATE INDEX record_collection_id IF NOT EXISTS
        FOR (r:Record) ON (r.collection, r.id)
        `, nil, neo4j.EagerResultTransformer)
	if err != nil {
		logger.Error("Failed to ensure index on Record", zap.Error(err))
		return fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}
	return nil
}

func (c *Neo4jCollection) Name() string { return c.name }

func (c *Neo4jCollection) List(ctx context.Context) ([]json.RawMessage, error) {
	result, err := neo4j.ExecuteQuery(ctx, c.driver, `
        MATCH (r:Record {collection: $collection})
        RETURN r.body AS body
        ORDER BY r.id
        `, map[string]any{"collection": c.name},
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}

	items := make([]json.RawMessage, 0, len(result.Records))
	for _, record := range result.Records {
		body, _, err := neo4j.GetRecordValue[string](record, "body")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
		}
		items = append(items, json.RawMessage(body))
	}
	return items, nil
}

func (c *Neo4jCollection) Append(ctx context.Context, doc json.RawMessage) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
        MATCH (r:Record {collection: $collection})
        RETURN coalesce(max(r.id), 0) AS maxId
        `, map[string]any{"collection": c.name})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		maxID, _, err := neo4j.GetRecordValue[int64](record, "maxId")
		if err != nil {
			return nil, err
		}

		next := int(maxID) + 1
		stored, err := withID(doc, next)
		if err != nil {
			return nil, err
		}

		_, err = tx.Run(ctx, `
        CREATE (r:Record {collection: $collection, id: $id, body: $body})
        `, map[string]any{
			"collection": c.name,
			"id":         next,
			"body":       string(stored),
		})
		if err != nil {
			return nil, err
		}
		return stored, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to append record",
			zap.Error(err),
			zap.String("collection", c.name),
			zap.Duration("duration", duration))
		return nil, fmt.Errorf("%w: %v", fleet_errors.ErrDatabaseOperation, err)
	}

	logger.Debug("Record appended",
		zap.String("collection", c.name),
		zap.Duration("duration", duration))
	return out.(json.RawMessage), nil
}
