// api/service/remote_lookup.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dev-mohitbeniwal/fleet/api/client"
	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	"github.com/dev-mohitbeniwal/fleet/api/model"
)

// RemoteUserLookup asks the usuarios service for its full user list, the
// only listing endpoint it exposes without an id.
type RemoteUserLookup struct {
	client *client.ServiceClient
}

var _ UserLookup = &RemoteUserLookup{}

func NewRemoteUserLookup(c *client.ServiceClient) *RemoteUserLookup {
	return &RemoteUserLookup{client: c}
}

func (l *RemoteUserLookup) UserExists(ctx context.Context, userID int) (bool, error) {
	var body json.RawMessage
	if err := l.client.GetJSON(ctx, "/usuarios", &body); err != nil {
		return false, err
	}
	users, err := decodeUserList(body)
	if err != nil {
		return false, fmt.Errorf("%w: %v", fleet_errors.ErrDependencyUnavailable, err)
	}
	for _, u := range users {
		if u.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

// decodeUserList accepts both {"data": [...]} and a bare array.
func decodeUserList(body json.RawMessage) ([]model.User, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var envelope struct {
			Data []model.User `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		return envelope.Data, nil
	}
	var users []model.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// RemoteProjectLookup asks the proyectos service for one project.
type RemoteProjectLookup struct {
	client *client.ServiceClient
}

var _ ProjectLookup = &RemoteProjectLookup{}

func NewRemoteProjectLookup(c *client.ServiceClient) *RemoteProjectLookup {
	return &RemoteProjectLookup{client: c}
}

func (l *RemoteProjectLookup) ProjectExists(ctx context.Context, projectID int) (bool, error) {
	var project model.Project
	err := l.client.GetJSON(ctx, "/proyectos/"+strconv.Itoa(projectID), &project)
	if errors.Is(err, client.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
