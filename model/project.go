// api/model/project.go
package model

import "encoding/json"

type Project struct {
	ID        int                        `json:"id"`
	Nombre    string                     `json:"nombre" validate:"required"`
	UsuarioID int                        `json:"usuario_id" validate:"required"`
	Extra     map[string]json.RawMessage `json:"-"`
}

func (p Project) RecordID() int { return p.ID }

type projectFields Project

func (p *Project) UnmarshalJSON(data []byte) error {
	var fields projectFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extras, err := splitExtras(data, "id", "nombre", "usuario_id")
	if err != nil {
		return err
	}
	*p = Project(fields)
	p.Extra = extras
	return nil
}

func (p Project) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(projectFields(p))
	if err != nil {
		return nil, err
	}
	return mergeExtras(base, p.Extra)
}
