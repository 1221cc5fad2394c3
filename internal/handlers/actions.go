package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/grid-engine/internal/storage"
	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/engine"
	"github.com/jwebster45206/grid-engine/pkg/srd"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

// EngineFactory builds an engine over a freshly loaded game state.
// Injected so tests can pin the dice source and the agent.
type EngineFactory func(gs *state.GameState) *engine.Engine

// ActionResponse is the result of routing one action.
type ActionResponse struct {
	Success      bool                `json:"success"`
	Log          []string            `json:"log"`
	CombatActive bool                `json:"combat_active"`
	CurrentTurn  string              `json:"current_turn,omitempty"`
	Actions      []action.Descriptor `json:"actions,omitempty"`
}

// ActionsHandler routes player actions into a session's engine.
// Routes:
// POST /v1/sessions/{id}/actions - Process one action
// GET /v1/sessions/{id}/actions  - List available actions for a character
type ActionsHandler struct {
	storage  storage.Storage
	provider srd.StatProvider
	factory  EngineFactory
	logger   *slog.Logger
}

func NewActionsHandler(storage storage.Storage, provider srd.StatProvider, factory EngineFactory, logger *slog.Logger) *ActionsHandler {
	return &ActionsHandler{
		storage:  storage,
		provider: provider,
		factory:  factory,
		logger:   logger,
	}
}

func (h *ActionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Path shape: /v1/sessions/{id}/actions
	path := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	idStr := strings.TrimSuffix(path, "/actions")
	if idStr == path {
		writeError(w, h.logger, http.StatusNotFound, "Not found")
		return
	}
	sessionID, err := uuid.Parse(strings.Trim(idStr, "/"))
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	gs, err := h.storage.LoadGameState(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "id", sessionID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if gs == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}
	// A deserialized state has no provider attached.
	gs.SetStatProvider(h.provider)

	switch r.Method {
	case http.MethodPost:
		h.handleProcess(w, r, sessionID, gs)
	case http.MethodGet:
		h.handleList(w, r, gs)
	default:
		h.logger.Warn("Method not allowed for actions endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET")
	}
}

func (h *ActionsHandler) handleProcess(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID, gs *state.GameState) {
	var a action.Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if a.Type == "" {
		writeError(w, h.logger, http.StatusBadRequest, "type field is required")
		return
	}

	eng := h.factory(gs)
	logBefore := len(gs.Log())
	ok := eng.Process(a)

	if err := h.storage.SaveGameState(r.Context(), sessionID, gs); err != nil {
		h.logger.Error("Failed to save session", "error", err, "id", sessionID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return
	}

	resp := ActionResponse{
		Success:      ok,
		Log:          gs.Log()[logBefore:],
		CombatActive: gs.CombatActive,
	}
	if current := eng.CurrentCharacter(); current != nil {
		resp.CurrentTurn = current.ID
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode action response", "error", err)
	}
}

func (h *ActionsHandler) handleList(w http.ResponseWriter, r *http.Request, gs *state.GameState) {
	characterID := r.URL.Query().Get("character_id")
	if characterID == "" {
		characterID = "player"
	}

	eng := h.factory(gs)
	resp := ActionResponse{
		Success:      true,
		Log:          []string{},
		CombatActive: gs.CombatActive,
		Actions:      eng.AvailableActions(characterID),
	}
	if current := eng.CurrentCharacter(); current != nil {
		resp.CurrentTurn = current.ID
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode actions response", "error", err)
	}
}
