// Package storage persists game sessions in Redis and serves static
// map data from the filesystem.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/grid-engine/pkg/state"
)

// Storage is the persistence interface for game sessions and maps.
type Storage interface {
	// Ping tests the storage connection
	Ping(ctx context.Context) error

	// Close closes the storage connection
	Close() error

	// SaveGameState persists a session snapshot
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error

	// LoadGameState retrieves a session; (nil, nil) means not found
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)

	// DeleteGameState removes a session
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// GetMap loads a named map from static data
	GetMap(ctx context.Context, name string) (*state.MapData, error)

	// ListMaps returns the available map names
	ListMaps(ctx context.Context) ([]string, error)
}
