package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/grid-engine/internal/storage"
	"github.com/jwebster45206/grid-engine/pkg/grid"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

func testMapStorage() *storage.MockStorage {
	store := storage.NewMockStorage()
	store.GetMapFunc = func(ctx context.Context, name string) (*state.MapData, error) {
		if name != "forest_clearing" {
			return nil, errors.New("map not found: " + name)
		}
		return &state.MapData{
			Name:   "Forest Clearing",
			Width:  10,
			Height: 10,
			StartingPositions: map[string]grid.Point{
				"player":   {X: 1, Y: 1},
				"goblin_1": {X: 7, Y: 7},
			},
		}, nil
	}
	return store
}

func TestCreateSession(t *testing.T) {
	store := testMapStorage()
	h := NewSessionHandler(store, nil, testLogger())

	body := strings.NewReader(`{"map": "forest_clearing"}`)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions", body))

	require.Equal(t, http.StatusCreated, w.Code)

	var gs state.GameState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gs))
	assert.NotEqual(t, uuid.Nil, gs.ID)
	assert.Equal(t, "Forest Clearing", gs.Map().Name)
	require.NotNil(t, gs.Character("player"))
	assert.Equal(t, "Hero", gs.Character("player").Name)

	// The session is persisted and retrievable.
	stored, err := store.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestCreateSessionUnknownMap(t *testing.T) {
	h := NewSessionHandler(testMapStorage(), nil, testLogger())

	body := strings.NewReader(`{"map": "atlantis"}`)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSessionValidation(t *testing.T) {
	h := NewSessionHandler(testMapStorage(), nil, testLogger())

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing map", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestReadSession(t *testing.T) {
	store := testMapStorage()
	h := NewSessionHandler(store, nil, testLogger())

	gs := state.NewGameState(nil)
	require.NoError(t, store.SaveGameState(context.Background(), gs.ID, gs))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/sessions/"+gs.ID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var loaded state.GameState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, gs.ID, loaded.ID)
}

func TestReadSessionNotFound(t *testing.T) {
	h := NewSessionHandler(testMapStorage(), nil, testLogger())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/sessions/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadSessionInvalidID(t *testing.T) {
	h := NewSessionHandler(testMapStorage(), nil, testLogger())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/sessions/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSession(t *testing.T) {
	store := testMapStorage()
	h := NewSessionHandler(store, nil, testLogger())

	gs := state.NewGameState(nil)
	require.NoError(t, store.SaveGameState(context.Background(), gs.ID, gs))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+gs.ID.String(), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	loaded, err := store.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionMethodNotAllowed(t *testing.T) {
	h := NewSessionHandler(testMapStorage(), nil, testLogger())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/sessions", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
