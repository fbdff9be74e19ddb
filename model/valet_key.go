// api/model/valet_key.go
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"
)

const Wildcard = "*"

// ValetKey is a short-lived capability token restricted to a set of
// scopes, HTTP methods and resource ids. It is immutable once issued.
type ValetKey struct {
	Token               string                     `json:"token"`
	Scopes              []string                   `json:"scopes"`
	AllowedMethods      []string                   `json:"allowed_methods"`
	ResourceConstraints map[string]ConstraintValue `json:"resource_constraints"`
	CreatedAt           time.Time                  `json:"created_at"`
	ExpiresAt           time.Time                  `json:"expires_at"`
	Type                string                     `json:"type"`
}

// ValetRequirement is what a route demands from a valet key. Empty fields
// are not checked.
type ValetRequirement struct {
	Scope     string
	Method    string
	Resources map[string]string
}

func (k *ValetKey) IsExpired(now time.Time) bool {
	return now.After(k.ExpiresAt)
}

// Check runs the expiry, scope, method and resource checks in that order
// and reports the first failure. It has no side effects.
func (k *ValetKey) Check(now time.Time, req ValetRequirement) Verdict {
	if k.IsExpired(now) {
		return Deny(ReasonExpired, "valet key expired")
	}

	if req.Scope != "" && !containsOrWildcard(k.Scopes, req.Scope) {
		return Deny(ReasonMissingScope, fmt.Sprintf("valet key lacks required scope: %s", req.Scope))
	}

	if req.Method != "" && !containsOrWildcard(k.AllowedMethods, req.Method) {
		return Deny(ReasonMethodNotAllowed, fmt.Sprintf("valet key does not allow method %s", req.Method))
	}

	names := make([]string, 0, len(req.Resources))
	for name := range req.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		constraint, constrained := k.ResourceConstraints[name]
		if !constrained {
			continue
		}
		value := req.Resources[name]
		if !constraint.Permits(value) {
			if constraint.IsSet() {
				return Deny(ReasonResourceNotPermitted, fmt.Sprintf("valet key has no access to resource %s=%s", name, value))
			}
			return Deny(ReasonResourceNotPermitted, fmt.Sprintf("valet key only has access to %s=%s", name, constraint.values[0]))
		}
	}

	return Allow()
}

func containsOrWildcard(values []string, want string) bool {
	for _, v := range values {
		if v == want || v == Wildcard {
			return true
		}
	}
	return false
}

// ConstraintValue is either a single allowed value or a set of allowed
// values. Values compare by canonical string form, so the JSON number 7
// and the path parameter "7" are equal.
type ConstraintValue struct {
	values []string
	set    bool
}

// SingleValue constrains a resource to exactly v.
func SingleValue(v interface{}) ConstraintValue {
	return ConstraintValue{values: []string{canonical(v)}}
}

// ValueSet constrains a resource to any of vs.
func ValueSet(vs ...interface{}) ConstraintValue {
	c := ConstraintValue{set: true, values: make([]string, 0, len(vs))}
	for _, v := range vs {
		c.values = append(c.values, canonical(v))
	}
	return c
}

func (c ConstraintValue) IsSet() bool { return c.set }

func (c ConstraintValue) Values() []string {
	return append([]string(nil), c.values...)
}

func (c ConstraintValue) Permits(value string) bool {
	for _, allowed := range c.values {
		if allowed == value {
			return true
		}
	}
	return false
}

func (c *ConstraintValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		values := make([]string, 0, len(items))
		for _, item := range items {
			v, err := canonicalJSON(item)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		*c = ConstraintValue{values: values, set: true}
		return nil
	}

	v, err := canonicalJSON(data)
	if err != nil {
		return err
	}
	*c = ConstraintValue{values: []string{v}}
	return nil
}

func (c ConstraintValue) MarshalJSON() ([]byte, error) {
	if !c.set {
		if len(c.values) == 0 {
			return []byte("null"), nil
		}
		return scalarJSON(c.values[0]), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range c.values {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(scalarJSON(v))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func canonicalJSON(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return "", fmt.Errorf("resource constraint values must be scalars, got %s", string(raw))
	}
	return canonical(v), nil
}

func canonical(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return canonicalFloat(f)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return canonicalFloat(float64(t))
	case float64:
		return canonicalFloat(t)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		return fmt.Sprint(t)
	}
}

func canonicalFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func scalarJSON(v string) []byte {
	if jsonNumber.MatchString(v) {
		return []byte(v)
	}
	if v == "true" || v == "false" || v == "null" {
		return []byte(v)
	}
	quoted, _ := json.Marshal(v)
	return quoted
}
