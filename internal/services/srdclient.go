package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jwebster45206/grid-engine/pkg/srd"
)

const DefaultSRDBaseURL = "https://www.dnd5eapi.co/api"

// SRDClient fetches monster, class and race stat blocks from a 5e SRD
// REST API and caches them. Records are static, so cache entries live
// for the process lifetime.
type SRDClient struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	log        *slog.Logger
}

func NewSRDClient(baseURL string, cache Cache, log *slog.Logger) *SRDClient {
	if baseURL == "" {
		baseURL = DefaultSRDBaseURL
	}
	return &SRDClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache,
		log:   log,
	}
}

// get fetches a resource path, serving from cache when possible.
func (c *SRDClient) get(ctx context.Context, path string) ([]byte, error) {
	if cached, ok := c.cache.Get(ctx, path); ok {
		return []byte(cached), nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	c.cache.Set(ctx, path, string(body))
	return body, nil
}

// monsterJSON matches the SRD API monster shape. Armor class arrives
// as a list of typed entries; the first value wins.
type monsterJSON struct {
	Index      string `json:"index"`
	Name       string `json:"name"`
	ArmorClass []struct {
		Value int `json:"value"`
	} `json:"armor_class"`
	HitPoints        int     `json:"hit_points"`
	HitDice          string  `json:"hit_dice"`
	Strength         int     `json:"strength"`
	Dexterity        int     `json:"dexterity"`
	Constitution     int     `json:"constitution"`
	Intelligence     int     `json:"intelligence"`
	Wisdom           int     `json:"wisdom"`
	Charisma         int     `json:"charisma"`
	ChallengeRating  float64 `json:"challenge_rating"`
	ProficiencyBonus int     `json:"proficiency_bonus"`
	Actions          []struct {
		Name string `json:"name"`
		Desc string `json:"desc"`
	} `json:"actions"`
	Size      string `json:"size"`
	Type      string `json:"type"`
	Alignment string `json:"alignment"`
}

func (c *SRDClient) GetMonster(ctx context.Context, index string) (*srd.MonsterStats, error) {
	body, err := c.get(ctx, "/monsters/"+index)
	if err != nil {
		return nil, err
	}
	var m monsterJSON
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("failed to parse monster %q: %w", index, err)
	}

	ac := 12
	if len(m.ArmorClass) > 0 {
		ac = m.ArmorClass[0].Value
	}
	stats := &srd.MonsterStats{
		Index:            m.Index,
		Name:             m.Name,
		ArmorClass:       ac,
		HitPoints:        m.HitPoints,
		HitDice:          m.HitDice,
		Strength:         m.Strength,
		Dexterity:        m.Dexterity,
		Constitution:     m.Constitution,
		Intelligence:     m.Intelligence,
		Wisdom:           m.Wisdom,
		Charisma:         m.Charisma,
		ChallengeRating:  m.ChallengeRating,
		ProficiencyBonus: m.ProficiencyBonus,
		Size:             m.Size,
		Type:             m.Type,
		Alignment:        m.Alignment,
	}
	for _, a := range m.Actions {
		stats.Actions = append(stats.Actions, srd.MonsterAttack{Name: a.Name, Description: a.Desc})
	}
	return stats, nil
}

type classJSON struct {
	Index        string `json:"index"`
	Name         string `json:"name"`
	HitDie       int    `json:"hit_die"`
	SavingThrows []struct {
		Name string `json:"name"`
	} `json:"saving_throws"`
}

func (c *SRDClient) GetClass(ctx context.Context, index string) (*srd.ClassStats, error) {
	body, err := c.get(ctx, "/classes/"+index)
	if err != nil {
		return nil, err
	}
	var cl classJSON
	if err := json.Unmarshal(body, &cl); err != nil {
		return nil, fmt.Errorf("failed to parse class %q: %w", index, err)
	}
	stats := &srd.ClassStats{
		Index:  cl.Index,
		Name:   cl.Name,
		HitDie: cl.HitDie,
	}
	for _, st := range cl.SavingThrows {
		stats.SavingThrows = append(stats.SavingThrows, strings.ToLower(st.Name))
	}
	return stats, nil
}

type raceJSON struct {
	Index          string `json:"index"`
	Name           string `json:"name"`
	AbilityBonuses []struct {
		AbilityScore struct {
			Name string `json:"name"`
		} `json:"ability_score"`
		Bonus int `json:"bonus"`
	} `json:"ability_bonuses"`
	Size  string `json:"size"`
	Speed int    `json:"speed"`
}

func (c *SRDClient) GetRace(ctx context.Context, index string) (*srd.RaceStats, error) {
	body, err := c.get(ctx, "/races/"+index)
	if err != nil {
		return nil, err
	}
	var r raceJSON
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("failed to parse race %q: %w", index, err)
	}
	stats := &srd.RaceStats{
		Index: r.Index,
		Name:  r.Name,
		Size:  r.Size,
		Speed: r.Speed,
	}
	for _, b := range r.AbilityBonuses {
		stats.AbilityBonuses = append(stats.AbilityBonuses, srd.AbilityBonus{
			Ability: strings.ToLower(b.AbilityScore.Name),
			Bonus:   b.Bonus,
		})
	}
	return stats, nil
}

// ListMonsters returns the available monster indexes, used as a
// startup connectivity probe.
func (c *SRDClient) ListMonsters(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/monsters")
	if err != nil {
		return nil, err
	}
	var list struct {
		Results []struct {
			Index string `json:"index"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse monster list: %w", err)
	}
	out := make([]string, 0, len(list.Results))
	for _, r := range list.Results {
		out = append(out, r.Index)
	}
	return out, nil
}
