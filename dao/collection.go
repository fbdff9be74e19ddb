// api/dao/collection.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection is an append-only set of JSON records. Append assigns the next
// id (max existing id + 1, or 1 when empty) and returns the stored record.
// Implementations serialize appends per collection.
type Collection interface {
	Name() string
	List(ctx context.Context) ([]json.RawMessage, error)
	Append(ctx context.Context, doc json.RawMessage) (json.RawMessage, error)
}

func withID(doc json.RawMessage, id int) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, fmt.Errorf("record must be a JSON object: %w", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	idJSON, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	fields["id"] = idJSON
	return json.Marshal(fields)
}

func recordID(doc json.RawMessage) (int, error) {
	var header struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(doc, &header); err != nil {
		return 0, err
	}
	return header.ID, nil
}

func maxRecordID(docs []json.RawMessage) (int, error) {
	maxID := 0
	for _, doc := range docs {
		id, err := recordID(doc)
		if err != nil {
			return 0, err
		}
		if id > maxID {
			maxID = id
		}
	}
	return maxID, nil
}
