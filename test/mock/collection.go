// test/mock/collection.go
package mock

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/fleet/api/dao"
	"github.com/dev-mohitbeniwal/fleet/api/model"
)

// MockCollection is a mock implementation of dao.Collection
type MockCollection struct {
	mock.Mock
}

var _ dao.Collection = (*MockCollection)(nil)

func (m *MockCollection) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCollection) List(ctx context.Context) ([]json.RawMessage, error) {
	args := m.Called(ctx)
	if docs := args.Get(0); docs != nil {
		return docs.([]json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCollection) Append(ctx context.Context, doc json.RawMessage) (json.RawMessage, error) {
	args := m.Called(ctx, doc)
	if stored := args.Get(0); stored != nil {
		return stored.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTokenRegistry is a mock implementation of dao.TokenRegistry
type MockTokenRegistry struct {
	mock.Mock
}

var _ dao.TokenRegistry = (*MockTokenRegistry)(nil)

func (m *MockTokenRegistry) Register(ctx context.Context, token model.BearerToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRegistry) Contains(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}
