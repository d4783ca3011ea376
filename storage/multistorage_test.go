package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/attestia/certificate-registry-backend/interfaces"
)

// MockStateStore implements interfaces.StateStore for testing
type MockStateStore struct {
	mock.Mock
	name string
}

func (m *MockStateStore) Load(ctx context.Context) (*interfaces.RegistryState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.RegistryState), args.Error(1)
}

func (m *MockStateStore) Save(ctx context.Context, state *interfaces.RegistryState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockStateStore) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockStateStore) Name() string {
	return m.name
}

func (m *MockStateStore) LocationURI() string {
	return "mock:"
}

func testState(owner byte) *interfaces.RegistryState {
	state := interfaces.NewRegistryState()
	state.Owner = interfaces.Identity{owner}
	state.AuthorizedIssuers[state.Owner] = true
	state.IssuerHistory = []interfaces.Identity{state.Owner}
	return state
}

func TestMultiStore_Available(t *testing.T) {
	tests := []struct {
		name     string
		stores   []bool
		expected bool
	}{
		{
			name:     "all stores available",
			stores:   []bool{true, true, true},
			expected: true,
		},
		{
			name:     "some stores available",
			stores:   []bool{false, true, false},
			expected: true,
		},
		{
			name:     "no stores available",
			stores:   []bool{false, false, false},
			expected: false,
		},
		{
			name:     "no stores",
			stores:   []bool{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stores []interfaces.StateStore
			for i, available := range tt.stores {
				mockStore := &MockStateStore{name: fmt.Sprintf("mock-%d", i)}
				mockStore.On("Available", mock.Anything).Return(available).Maybe()
				stores = append(stores, mockStore)
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			multi := NewMultiStore(stores, logger)

			result := multi.Available(context.Background())
			assert.Equal(t, tt.expected, result)

			for _, store := range stores {
				store.(*MockStateStore).AssertExpectations(t)
			}
		})
	}
}

func TestMultiStore_Load(t *testing.T) {
	state := testState(0x01)
	testErr := errors.New("test error")

	tests := []struct {
		name          string
		setupMocks    func() []interfaces.StateStore
		expectedState *interfaces.RegistryState
		expectedErr   error
		expectAnyErr  bool
	}{
		{
			name: "first store holds snapshot",
			setupMocks: func() []interfaces.StateStore {
				mock1 := &MockStateStore{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Load", mock.Anything).Return(state, nil)

				mock2 := &MockStateStore{name: "mock-B"}
				// Not reached: the first store satisfies the load.

				return []interfaces.StateStore{mock1, mock2}
			},
			expectedState: state,
		},
		{
			name: "first store empty, second holds snapshot",
			setupMocks: func() []interfaces.StateStore {
				mock1 := &MockStateStore{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Load", mock.Anything).Return(nil, interfaces.ErrStateNotFound)

				mock2 := &MockStateStore{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Load", mock.Anything).Return(state, nil)

				return []interfaces.StateStore{mock1, mock2}
			},
			expectedState: state,
		},
		{
			name: "all stores empty",
			setupMocks: func() []interfaces.StateStore {
				mock1 := &MockStateStore{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Load", mock.Anything).Return(nil, interfaces.ErrStateNotFound)

				mock2 := &MockStateStore{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Load", mock.Anything).Return(nil, interfaces.ErrStateNotFound)

				return []interfaces.StateStore{mock1, mock2}
			},
			expectedErr: interfaces.ErrStateNotFound,
		},
		{
			name: "store failures surface as errors, not empty state",
			setupMocks: func() []interfaces.StateStore {
				mock1 := &MockStateStore{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Load", mock.Anything).Return(nil, testErr)

				mock2 := &MockStateStore{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Load", mock.Anything).Return(nil, interfaces.ErrStateNotFound)

				return []interfaces.StateStore{mock1, mock2}
			},
			expectAnyErr: true,
		},
		{
			name: "unavailable stores are skipped",
			setupMocks: func() []interfaces.StateStore {
				mock1 := &MockStateStore{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(false)

				mock2 := &MockStateStore{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Load", mock.Anything).Return(state, nil)

				return []interfaces.StateStore{mock1, mock2}
			},
			expectedState: state,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores := tt.setupMocks()
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			multi := NewMultiStore(stores, logger)

			loaded, err := multi.Load(context.Background())

			switch {
			case tt.expectedErr != nil:
				require.ErrorIs(t, err, tt.expectedErr)
			case tt.expectAnyErr:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.expectedState, loaded)
			}

			for _, store := range stores {
				store.(*MockStateStore).AssertExpectations(t)
			}
		})
	}
}

func TestMultiStore_Save(t *testing.T) {
	state := testState(0x01)
	testErr := errors.New("test error")

	tests := []struct {
		name        string
		setupMocks  func() []interfaces.StateStore
		expectedErr bool
	}{
		{
			name: "all stores successful",
			setupMocks: func() []interfaces.StateStore {
				mock1 := &MockStateStore{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Save", mock.Anything, state).Return(nil)

				mock2 := &MockStateStore{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Save", mock.Anything, state).Return(nil)

				return []interfaces.StateStore{mock1, mock2}
			},
			expectedErr: false,
		},
		{
			name: "some stores fail",
			setupMocks: func() []interfaces.StateStore {
				mock1 := &MockStateStore{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Save", mock.Anything, state).Return(nil)

				mock2 := &MockStateStore{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Save", mock.Anything, state).Return(testErr)

				return []interfaces.StateStore{mock1, mock2}
			},
			expectedErr: false,
		},
		{
			name: "all stores fail",
			setupMocks: func() []interfaces.StateStore {
				mock1 := &MockStateStore{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(true)
				mock1.On("Save", mock.Anything, state).Return(testErr)

				mock2 := &MockStateStore{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Save", mock.Anything, state).Return(testErr)

				return []interfaces.StateStore{mock1, mock2}
			},
			expectedErr: true,
		},
		{
			name: "unavailable stores are skipped",
			setupMocks: func() []interfaces.StateStore {
				mock1 := &MockStateStore{name: "mock-A"}
				mock1.On("Available", mock.Anything).Return(false)

				mock2 := &MockStateStore{name: "mock-B"}
				mock2.On("Available", mock.Anything).Return(true)
				mock2.On("Save", mock.Anything, state).Return(nil)

				return []interfaces.StateStore{mock1, mock2}
			},
			expectedErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores := tt.setupMocks()
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			multi := NewMultiStore(stores, logger)

			err := multi.Save(context.Background(), state)

			if tt.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, store := range stores {
				store.(*MockStateStore).AssertExpectations(t)
			}
		})
	}
}

func TestMultiStore_LocationURI(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	multi := NewMultiStore([]interfaces.StateStore{NewMemoryStore(), NewMemoryStore()}, logger)

	assert.Equal(t, "multi:[mem://,mem://]", multi.LocationURI())
	assert.Equal(t, "multi-store", multi.Name())
}
