package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/grid-engine/pkg/chat"
)

// MockAgent is a mock implementation of chat.Agent for testing
type MockAgent struct {
	InitializeFunc func(ctx context.Context, snapshot []byte) error
	GetActionsFunc func(ctx context.Context, snapshot []byte, event string) ([]chat.AgentAction, error)

	// Track calls for testing
	InitializeCalls [][]byte
	GetActionsCalls []GetActionsCall

	mu sync.Mutex // protects all fields above
}

type GetActionsCall struct {
	Snapshot []byte
	Event    string
}

// NewMockAgent creates a new mock narrative agent
func NewMockAgent() *MockAgent {
	return &MockAgent{
		InitializeCalls: make([][]byte, 0),
		GetActionsCalls: make([]GetActionsCall, 0),
	}
}

// Initialize mocks session initialization
func (m *MockAgent) Initialize(ctx context.Context, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitializeCalls = append(m.InitializeCalls, snapshot)

	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, snapshot)
	}
	return nil
}

// GetActions mocks agent action generation. The default reply is a
// single narration.
func (m *MockAgent) GetActions(ctx context.Context, snapshot []byte, event string) ([]chat.AgentAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetActionsCalls = append(m.GetActionsCalls, GetActionsCall{
		Snapshot: snapshot,
		Event:    event,
	})

	if m.GetActionsFunc != nil {
		return m.GetActionsFunc(ctx, snapshot, event)
	}
	return []chat.AgentAction{{
		Function: chat.FuncNarrate,
		Args:     chat.AgentArgs{Text: "Mock narration"},
	}}, nil
}

// SetGetActionsError sets up the mock to return an error on GetActions
func (m *MockAgent) SetGetActionsError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetActionsFunc = func(ctx context.Context, snapshot []byte, event string) ([]chat.AgentAction, error) {
		return nil, err
	}
}

// SetActions sets up the mock to return a fixed action list
func (m *MockAgent) SetActions(actions []chat.AgentAction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetActionsFunc = func(ctx context.Context, snapshot []byte, event string) ([]chat.AgentAction, error) {
		return actions, nil
	}
}

// Reset clears all call tracking
func (m *MockAgent) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitializeCalls = make([][]byte, 0)
	m.GetActionsCalls = make([]GetActionsCall, 0)
}

// Calls returns a copy of the call tracking data in a thread-safe way
func (m *MockAgent) Calls() ([][]byte, []GetActionsCall) {
	m.mu.Lock()
	defer m.mu.Unlock()

	initCalls := make([][]byte, len(m.InitializeCalls))
	copy(initCalls, m.InitializeCalls)

	actionCalls := make([]GetActionsCall, len(m.GetActionsCalls))
	copy(actionCalls, m.GetActionsCalls)

	return initCalls, actionCalls
}
