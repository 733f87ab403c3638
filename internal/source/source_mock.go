package source

import (
	"context"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/schema"
	"github.com/stretchr/testify/mock"
)

// MockSourceLoader is a mock implementation of SourceLoader for testing.
type MockSourceLoader struct {
	mock.Mock
}

var _ contract.SourceLoader = &MockSourceLoader{} // Compile-time check

// Load implements the SourceLoader interface.
func (m *MockSourceLoader) Load(ctx context.Context, origin schema.Origin) (schema.RawTable, error) {
	args := m.Called(ctx, origin)
	return args.Get(0).(schema.RawTable), args.Error(1)
}
