package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/grid-engine/pkg/state"
)

// MockStorage is an in-memory Storage implementation for testing
type MockStorage struct {
	PingFunc    func(ctx context.Context) error
	GetMapFunc  func(ctx context.Context, name string) (*state.MapData, error)
	ListMapsFn  func(ctx context.Context) ([]string, error)
	SaveErr     error
	LoadErr     error
	DeleteErr   error

	mu       sync.Mutex
	sessions map[uuid.UUID][]byte
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID][]byte),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := gs.Snapshot()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = data
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	data, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var gs state.GameState
	if err := gs.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return &gs, nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStorage) GetMap(ctx context.Context, name string) (*state.MapData, error) {
	if m.GetMapFunc != nil {
		return m.GetMapFunc(ctx, name)
	}
	return &state.MapData{
		Name:   name,
		Width:  10,
		Height: 10,
	}, nil
}

func (m *MockStorage) ListMaps(ctx context.Context) ([]string, error) {
	if m.ListMapsFn != nil {
		return m.ListMapsFn(ctx)
	}
	return []string{"forest_clearing"}, nil
}
