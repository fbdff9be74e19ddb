// test/mock/audit.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/fleet/api/audit"
)

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) LogAccess(ctx context.Context, log audit.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditRepository) QueryLogs(ctx context.Context, from, to time.Time, credentialKind, resourceID string) ([]audit.AuditLog, error) {
	args := m.Called(ctx, from, to, credentialKind, resourceID)
	if logs := args.Get(0); logs != nil {
		return logs.([]audit.AuditLog), args.Error(1)
	}
	return nil, args.Error(1)
}
