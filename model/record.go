// api/model/record.go
package model

import (
	"encoding/json"
)

// Record is anything stored in a record collection. Collections assign
// the id on append.
type Record interface {
	RecordID() int
}

// splitExtras returns the top-level fields of a JSON object that are not
// in known. Clients may store arbitrary extra fields on records and get
// them back unchanged.
func splitExtras(data []byte, known ...string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(fields, k)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// mergeExtras adds extras to an already marshalled JSON object. Known
// fields win over extras with the same name.
func mergeExtras(base []byte, extras map[string]json.RawMessage) ([]byte, error) {
	if len(extras) == 0 {
		return base, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range extras {
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}
