// api/model/user.go
package model

import "encoding/json"

type User struct {
	ID     int                        `json:"id"`
	Nombre string                     `json:"nombre" validate:"required"`
	Extra  map[string]json.RawMessage `json:"-"`
}

func (u User) RecordID() int { return u.ID }

type userFields User

func (u *User) UnmarshalJSON(data []byte) error {
	var fields userFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extras, err := splitExtras(data, "id", "nombre")
	if err != nil {
		return err
	}
	*u = User(fields)
	u.Extra = extras
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(userFields(u))
	if err != nil {
		return nil, err
	}
	return mergeExtras(base, u.Extra)
}
