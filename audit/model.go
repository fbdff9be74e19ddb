// api/audit/model.go
package audit

import (
	"time"

	"github.com/dev-mohitbeniwal/fleet/api/model"
)

type AuditLog struct {
	ID             string    `json:"-"`
	Timestamp      time.Time `json:"timestamp"`
	CredentialKind string    `json:"credential_kind"`
	Method         string    `json:"method"`
	Path           string    `json:"path"`
	ResourceID     string    `json:"resource_id,omitempty"`
	AccessGranted  bool      `json:"access_granted"`
	Status         int       `json:"status"`
	Reason         string    `json:"reason,omitempty"`
}

// FromDecision converts a gatekeeper decision into its audit record.
func FromDecision(d model.AccessDecision) AuditLog {
	return AuditLog{
		Timestamp:      d.Timestamp.UTC(),
		CredentialKind: d.Kind.String(),
		Method:         d.Method,
		Path:           d.Path,
		ResourceID:     d.ResourceID,
		AccessGranted:  d.Decision.Allowed,
		Status:         d.Decision.Status,
		Reason:         string(d.Decision.Reason),
	}
}
