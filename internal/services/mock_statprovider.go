package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/grid-engine/pkg/srd"
)

// MockStatProvider is a mock implementation of srd.StatProvider for
// testing
type MockStatProvider struct {
	GetMonsterFunc func(ctx context.Context, index string) (*srd.MonsterStats, error)
	GetClassFunc   func(ctx context.Context, index string) (*srd.ClassStats, error)
	GetRaceFunc    func(ctx context.Context, index string) (*srd.RaceStats, error)

	// Track calls for testing
	GetMonsterCalls []string
	GetClassCalls   []string
	GetRaceCalls    []string

	mu sync.Mutex // protects all fields above
}

// NewMockStatProvider creates a new mock stat provider
func NewMockStatProvider() *MockStatProvider {
	return &MockStatProvider{
		GetMonsterCalls: make([]string, 0),
		GetClassCalls:   make([]string, 0),
		GetRaceCalls:    make([]string, 0),
	}
}

// GetMonster mocks monster lookup. The default is a goblin-shaped stat
// block.
func (m *MockStatProvider) GetMonster(ctx context.Context, index string) (*srd.MonsterStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetMonsterCalls = append(m.GetMonsterCalls, index)

	if m.GetMonsterFunc != nil {
		return m.GetMonsterFunc(ctx, index)
	}
	return &srd.MonsterStats{
		Index:            index,
		Name:             "Goblin",
		ArmorClass:       15,
		HitPoints:        7,
		HitDice:          "2d6",
		Strength:         8,
		Dexterity:        14,
		Constitution:     10,
		Intelligence:     10,
		Wisdom:           8,
		Charisma:         8,
		ChallengeRating:  0.25,
		ProficiencyBonus: 2,
	}, nil
}

// GetClass mocks class lookup. The default is the fighter record.
func (m *MockStatProvider) GetClass(ctx context.Context, index string) (*srd.ClassStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetClassCalls = append(m.GetClassCalls, index)

	if m.GetClassFunc != nil {
		return m.GetClassFunc(ctx, index)
	}
	return &srd.ClassStats{
		Index:  index,
		Name:   "Fighter",
		HitDie: 10,
	}, nil
}

// GetRace mocks race lookup. The default is the human record.
func (m *MockStatProvider) GetRace(ctx context.Context, index string) (*srd.RaceStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetRaceCalls = append(m.GetRaceCalls, index)

	if m.GetRaceFunc != nil {
		return m.GetRaceFunc(ctx, index)
	}
	return &srd.RaceStats{
		Index: index,
		Name:  "Human",
		Speed: 30,
		AbilityBonuses: []srd.AbilityBonus{
			{Ability: "strength", Bonus: 1},
			{Ability: "dexterity", Bonus: 1},
			{Ability: "constitution", Bonus: 1},
			{Ability: "intelligence", Bonus: 1},
			{Ability: "wisdom", Bonus: 1},
			{Ability: "charisma", Bonus: 1},
		},
	}, nil
}

// SetErrors sets up the mock to fail every lookup with err
func (m *MockStatProvider) SetErrors(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMonsterFunc = func(ctx context.Context, index string) (*srd.MonsterStats, error) {
		return nil, err
	}
	m.GetClassFunc = func(ctx context.Context, index string) (*srd.ClassStats, error) {
		return nil, err
	}
	m.GetRaceFunc = func(ctx context.Context, index string) (*srd.RaceStats, error) {
		return nil, err
	}
}

// Reset clears all call tracking
func (m *MockStatProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMonsterCalls = make([]string, 0)
	m.GetClassCalls = make([]string, 0)
	m.GetRaceCalls = make([]string, 0)
}
