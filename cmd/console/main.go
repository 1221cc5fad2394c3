package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/grid-engine/internal/config"
	"github.com/jwebster45206/grid-engine/internal/logger"
	"github.com/jwebster45206/grid-engine/internal/services"
	"github.com/jwebster45206/grid-engine/pkg/chat"
	"github.com/jwebster45206/grid-engine/pkg/dice"
	"github.com/jwebster45206/grid-engine/pkg/engine"
	"github.com/jwebster45206/grid-engine/pkg/srd"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

const defaultMap = "forest_clearing"

// The console runs the engine in-process: no API server required.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg)

	var agent chat.Agent
	if cfg.AgentProvider == "venice" && cfg.VeniceAPIKey != "" {
		agent = services.NewVeniceAgent(cfg.VeniceAPIKey, cfg.ModelName)
	} else {
		agent = services.NewMockAgent()
	}

	var provider srd.StatProvider
	srdClient := services.NewSRDClient(cfg.SRDAPIURL, services.NewMemoryCache(), log)
	if _, err := srdClient.ListMonsters(context.Background()); err == nil {
		provider = srdClient
	} else {
		fmt.Fprintln(os.Stderr, "Stat API unavailable, using fixed defaults")
	}

	mapName := defaultMap
	if len(os.Args) > 1 {
		mapName = os.Args[1]
	}
	m, err := readMapFile(cfg.DataDir, mapName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load map %q: %v\n", mapName, err)
		os.Exit(1)
	}

	gs := state.NewGameState(provider)
	gs.ApplyMap(context.Background(), *m)

	eng := engine.New(gs, dice.NewSource(cfg.RNGSeed), agent, log)

	p := tea.NewProgram(NewConsoleUI(eng, gs),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func readMapFile(dataDir, name string) (*state.MapData, error) {
	path := filepath.Join(dataDir, "maps", name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}
	var m state.MapData
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal map: %w", err)
	}
	return &m, nil
}
