// api/audit/repository.go
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

const IndexName = "access-audit"

type Repository interface {
	LogAccess(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, from, to time.Time, credentialKind, resourceID string) ([]AuditLog, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
	index    string
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient, index: IndexName}, nil
}

// LogAccess indexes one access decision.
func (r *ElasticsearchRepository) LogAccess(ctx context.Context, log AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	data, err := json.Marshal(log)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: log.ID,
		Body:       bytes.NewReader(data),
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string   `json:"_id"`
			Source AuditLog `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// QueryLogs returns the decisions recorded between from and to, optionally
// filtered by credential kind and resource id, newest first.
func (r *ElasticsearchRepository) QueryLogs(ctx context.Context, from, to time.Time, credentialKind, resourceID string) ([]AuditLog, error) {
	must := []interface{}{
		map[string]interface{}{
			"range": map[string]interface{}{
				"timestamp": map[string]interface{}{
					"gte": from.UTC().Format(time.RFC3339),
					"lte": to.UTC().Format(time.RFC3339),
				},
			},
		},
	}
	if credentialKind != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"credential_kind": credentialKind},
		})
	}
	if resourceID != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"resource_id": resourceID},
		})
	}
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"sort": []interface{}{
			map[string]interface{}{"timestamp": map[string]interface{}{"order": "desc"}},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(r.index),
		r.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching documents: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("error decoding search response: %w", err)
	}

	logs := make([]AuditLog, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		log := hit.Source
		log.ID = hit.ID
		logs = append(logs, log)
	}
	return logs, nil
}
