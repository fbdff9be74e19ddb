// api/model/valet_key_test.go
package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issued = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func projectReader(constraint ConstraintValue) *ValetKey {
	return &ValetKey{
		Token:               "vk",
		Scopes:              []string{"read:proyectos"},
		AllowedMethods:      []string{"GET"},
		ResourceConstraints: map[string]ConstraintValue{"proyecto_id": constraint},
		CreatedAt:           issued,
		ExpiresAt:           issued.Add(time.Hour),
		Type:                "valet_key",
	}
}

func TestValetKeyCheck_SingleResource(t *testing.T) {
	key := projectReader(SingleValue(1))
	now := issued.Add(time.Minute)

	ok := key.Check(now, ValetRequirement{Scope: "read:proyectos", Method: "GET", Resources: map[string]string{"proyecto_id": "1"}})
	assert.True(t, ok.Allowed)

	denied := key.Check(now, ValetRequirement{Scope: "read:proyectos", Method: "GET", Resources: map[string]string{"proyecto_id": "2"}})
	assert.False(t, denied.Allowed)
	assert.Equal(t, ReasonResourceNotPermitted, denied.Reason)
	assert.Equal(t, "valet key only has access to proyecto_id=1", denied.Message)
}

func TestValetKeyCheck_ResourceSet(t *testing.T) {
	key := projectReader(ValueSet(2, 3))
	now := issued.Add(time.Minute)

	assert.True(t, key.Check(now, ValetRequirement{Resources: map[string]string{"proyecto_id": "3"}}).Allowed)

	denied := key.Check(now, ValetRequirement{Resources: map[string]string{"proyecto_id": "4"}})
	assert.Equal(t, ReasonResourceNotPermitted, denied.Reason)
	assert.Equal(t, "valet key has no access to resource proyecto_id=4", denied.Message)
}

func TestValetKeyCheck_UnconstrainedResourceIsAllowed(t *testing.T) {
	key := projectReader(SingleValue(1))
	verdict := key.Check(issued, ValetRequirement{Resources: map[string]string{"usuario_id": "99"}})
	assert.True(t, verdict.Allowed)
}

func TestValetKeyCheck_Order(t *testing.T) {
	key := projectReader(SingleValue(1))

	tests := []struct {
		name   string
		now    time.Time
		req    ValetRequirement
		reason DenialReason
	}{
		{
			name:   "expiry first",
			now:    issued.Add(2 * time.Hour),
			req:    ValetRequirement{Scope: "write:tareas", Method: "DELETE"},
			reason: ReasonExpired,
		},
		{
			name:   "scope before method",
			now:    issued,
			req:    ValetRequirement{Scope: "write:tareas", Method: "DELETE"},
			reason: ReasonMissingScope,
		},
		{
			name:   "method before resource",
			now:    issued,
			req:    ValetRequirement{Scope: "read:proyectos", Method: "POST", Resources: map[string]string{"proyecto_id": "2"}},
			reason: ReasonMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := key.Check(tt.now, tt.req)
			assert.False(t, verdict.Allowed)
			assert.Equal(t, tt.reason, verdict.Reason)
		})
	}
}

func TestValetKeyCheck_ExpiryBoundary(t *testing.T) {
	key := projectReader(SingleValue(1))
	assert.True(t, key.Check(key.ExpiresAt, ValetRequirement{}).Allowed)
	assert.Equal(t, ReasonExpired, key.Check(key.ExpiresAt.Add(time.Nanosecond), ValetRequirement{}).Reason)
}

func TestValetKeyCheck_Wildcards(t *testing.T) {
	key := &ValetKey{
		Scopes:         []string{Wildcard},
		AllowedMethods: []string{Wildcard},
		ExpiresAt:      issued.Add(time.Hour),
	}
	verdict := key.Check(issued, ValetRequirement{Scope: "write:usuarios", Method: "POST"})
	assert.True(t, verdict.Allowed)
}

func TestValetKeyCheck_ScopeMessage(t *testing.T) {
	key := projectReader(SingleValue(1))
	verdict := key.Check(issued, ValetRequirement{Scope: "read:tareas"})
	assert.Equal(t, "valet key lacks required scope: read:tareas", verdict.Message)
}

func TestConstraintValue_JSON(t *testing.T) {
	var constraints map[string]ConstraintValue
	require.NoError(t, json.Unmarshal([]byte(`{"proyecto_id": 1, "usuario_id": [2, 3], "slug": "alpha", "ratio": 7.0}`), &constraints))

	assert.False(t, constraints["proyecto_id"].IsSet())
	assert.True(t, constraints["proyecto_id"].Permits("1"))
	assert.True(t, constraints["usuario_id"].IsSet())
	assert.Equal(t, []string{"2", "3"}, constraints["usuario_id"].Values())
	assert.True(t, constraints["slug"].Permits("alpha"))
	assert.True(t, constraints["ratio"].Permits("7"))

	out, err := json.Marshal(constraints)
	require.NoError(t, err)
	assert.JSONEq(t, `{"proyecto_id": 1, "usuario_id": [2, 3], "slug": "alpha", "ratio": 7}`, string(out))
}

func TestConstraintValue_RejectsNestedValues(t *testing.T) {
	var c ConstraintValue
	assert.Error(t, json.Unmarshal([]byte(`{"a": 1}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`[[1]]`), &c))
}

func TestConstraintValue_NonNumericStringsStayQuoted(t *testing.T) {
	out, err := json.Marshal(SingleValue("NaN"))
	require.NoError(t, err)
	assert.Equal(t, `"NaN"`, string(out))
}

func TestValetKey_RoundTrip(t *testing.T) {
	key := projectReader(ValueSet(1, 2))
	data, err := json.Marshal(key)
	require.NoError(t, err)

	var decoded ValetKey
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, key.ExpiresAt.Equal(decoded.ExpiresAt))
	assert.True(t, decoded.ResourceConstraints["proyecto_id"].IsSet())
	assert.True(t, decoded.Check(issued, ValetRequirement{Resources: map[string]string{"proyecto_id": "2"}}).Allowed)
}
