package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jwebster45206/grid-engine/pkg/chat"
)

const (
	veniceBaseURL = "https://api.venice.ai/api/v1"

	DefaultVeniceTemperature = 0.7
	DefaultVeniceMaxTokens   = 512
)

const dmSystemPrompt = `You are a dungeon master narrating a turn-based tabletop combat encounter on a grid. You control the monsters. Respond only with the structured actions requested: narrate for prose, move_character and attack_character for monster actions. Keep narration to one or two vivid sentences. Never invent characters or positions not present in the game state.`

// VeniceAgent implements the narrative agent against the Venice AI
// chat completions API.
type VeniceAgent struct {
	apiKey     string
	modelName  string
	httpClient *http.Client

	messages []veniceMessage
}

type veniceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type VeniceResponseFormat struct {
	Type       string           `json:"type"`
	JSONSchema VeniceJSONSchema `json:"json_schema"`
}

type VeniceJSONSchema struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type VeniceParameters struct {
	IncludeVeniceSystemPrompt bool   `json:"include_venice_system_prompt"`
	EnableWebSearch           string `json:"enable_web_search"`
}

// VeniceChatRequest represents the request structure for Venice AI chat completions
type VeniceChatRequest struct {
	Model            string                `json:"model"`
	Messages         []veniceMessage       `json:"messages"`
	Temperature      float64               `json:"temperature,omitempty"`
	MaxTokens        int                   `json:"max_tokens,omitempty"`
	Stream           bool                  `json:"stream"`
	ResponseFormat   *VeniceResponseFormat `json:"response_format,omitempty"`
	VeniceParameters VeniceParameters      `json:"venice_parameters"`
}

// VeniceChatResponse represents the response structure for Venice AI chat completions
type VeniceChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewVeniceAgent creates a new Venice AI narrative agent
func NewVeniceAgent(apiKey, modelName string) *VeniceAgent {
	return &VeniceAgent{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Initialize starts a session: the system prompt plus the opening game
// state snapshot seed the conversation.
func (v *VeniceAgent) Initialize(ctx context.Context, snapshot []byte) error {
	v.messages = []veniceMessage{
		{Role: "system", Content: dmSystemPrompt},
		{Role: "user", Content: "Here is the opening game state:\n" + string(snapshot)},
	}
	return nil
}

// GetActions sends the current state and event to the model and parses
// the structured action list from its reply.
func (v *VeniceAgent) GetActions(ctx context.Context, snapshot []byte, event string) ([]chat.AgentAction, error) {
	if len(v.messages) == 0 {
		if err := v.Initialize(ctx, snapshot); err != nil {
			return nil, err
		}
	}
	prompt := fmt.Sprintf("Current game state:\n%s\n\nEvent: %s", snapshot, event)
	v.messages = append(v.messages, veniceMessage{Role: "user", Content: prompt})

	content, err := v.chatCompletion(ctx, v.messages, getActionsResponseFormat())
	if err != nil {
		return nil, err
	}
	v.messages = append(v.messages, veniceMessage{Role: "assistant", Content: content})

	return parseAgentActions(content)
}

// parseAgentActions decodes the structured reply. Plain prose replies
// degrade to a single narrate action.
func parseAgentActions(content string) ([]chat.AgentAction, error) {
	var parsed struct {
		Actions []chat.AgentAction `json:"actions"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		if content == "" {
			return nil, fmt.Errorf("empty agent response")
		}
		return []chat.AgentAction{{
			Function: chat.FuncNarrate,
			Args:     chat.AgentArgs{Text: content},
		}}, nil
	}
	return parsed.Actions, nil
}

func (v *VeniceAgent) chatCompletion(ctx context.Context, messages []veniceMessage, responseFormat *VeniceResponseFormat) (string, error) {
	veniceReq := VeniceChatRequest{
		Model:          v.modelName,
		Messages:       messages,
		Temperature:    DefaultVeniceTemperature,
		MaxTokens:      DefaultVeniceMaxTokens,
		Stream:         false,
		ResponseFormat: responseFormat,
		VeniceParameters: VeniceParameters{
			IncludeVeniceSystemPrompt: false,
			EnableWebSearch:           "off",
		},
	}

	reqBody, err := json.Marshal(veniceReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", veniceBaseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var veniceResp VeniceChatResponse
	if err := json.Unmarshal(body, &veniceResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if veniceResp.Error != nil {
		return "", fmt.Errorf("API error: %s", veniceResp.Error.Message)
	}
	if len(veniceResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return veniceResp.Choices[0].Message.Content, nil
}

// getActionsResponseFormat constrains replies to the structured action
// list the engine can execute.
func getActionsResponseFormat() *VeniceResponseFormat {
	return &VeniceResponseFormat{
		Type: "json_schema",
		JSONSchema: VeniceJSONSchema{
			Name:   "agent_actions",
			Strict: true,
			Schema: map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"actions": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":                 "object",
							"additionalProperties": false,
							"properties": map[string]interface{}{
								"function": map[string]interface{}{
									"type": "string",
									"enum": []string{"narrate", "move_character", "attack_character"},
								},
								"args": map[string]interface{}{
									"type":                 "object",
									"additionalProperties": false,
									"properties": map[string]interface{}{
										"text": map[string]interface{}{
											"type": []string{"string", "null"},
										},
										"character_id": map[string]interface{}{
											"type": []string{"string", "null"},
										},
										"new_position": map[string]interface{}{
											"type": []string{"array", "null"},
											"items": map[string]interface{}{
												"type": "integer",
											},
										},
										"attacker_id": map[string]interface{}{
											"type": []string{"string", "null"},
										},
										"target_id": map[string]interface{}{
											"type": []string{"string", "null"},
										},
									},
								},
							},
							"required": []string{"function", "args"},
						},
					},
				},
				"required": []string{"actions"},
			},
		},
	}
}
