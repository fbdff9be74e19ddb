// api/model/task.go
package model

import "encoding/json"

// Task is both the queued request and the processed record. While it sits
// in the queue the ID is zero; processing assigns it.
//
// Queue delivery is at-least-once up to the moment an entry is popped and
// at-most-once afterwards: a process crash between the pop and the store
// append loses that entry.
type Task struct {
	ID         int                        `json:"id,omitempty"`
	Nombre     string                     `json:"nombre" validate:"required"`
	ProyectoID int                        `json:"proyecto_id" validate:"required"`
	Extra      map[string]json.RawMessage `json:"-"`
}

func (t Task) RecordID() int { return t.ID }

type taskFields Task

func (t *Task) UnmarshalJSON(data []byte) error {
	var fields taskFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extras, err := splitExtras(data, "id", "nombre", "proyecto_id")
	if err != nil {
		return err
	}
	*t = Task(fields)
	t.Extra = extras
	return nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(taskFields(t))
	if err != nil {
		return nil, err
	}
	return mergeExtras(base, t.Extra)
}
