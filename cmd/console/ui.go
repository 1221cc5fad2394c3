package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/engine"
	"github.com/jwebster45206/grid-engine/pkg/grid"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

const (
	PlayerID        = "player"
	PlaceHolderText = "move 4 5 | attack goblin_1 | say hello | help"
)

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	gridPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	monsterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	dmStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")) // green

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	eng         *engine.Engine
	gs          *state.GameState
	logViewport viewport.Model
	gridViewport viewport.Model
	textarea    textarea.Model
	ready       bool
	width       int
	height      int
	loading     bool

	showQuitModal bool
}

// chatDoneMsg signals that a DM chat round-trip finished.
type chatDoneMsg struct{}

func NewConsoleUI(eng *engine.Engine, gs *state.GameState) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true
	gridVp := viewport.New(30, 20)

	return ConsoleUI{
		eng:          eng,
		gs:           gs,
		textarea:     ta,
		logViewport:  logVp,
		gridViewport: gridVp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		gvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logWidth := int(float64(m.width)*0.6) - 4
		gridWidth := m.width - logWidth - 6

		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 7
		m.gridViewport.Width = gridWidth - 2
		m.gridViewport.Height = m.height - 4
		m.textarea.SetWidth(logWidth - 4)

		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.handleCommand(input)
		}

	case chatDoneMsg:
		m.loading = false
		m.refresh()
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.gridViewport, gvCmd = m.gridViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, gvCmd)
}

// handleCommand parses one console command and routes it through the
// engine. Unknown commands print usage instead of failing silently.
func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "quit", "exit":
		m.showQuitModal = true
		return m, nil

	case "help":
		m.gs.AddLog(helpText)

	case "move":
		if len(args) < 2 {
			m.gs.AddLog("Usage: move <x> <y>")
			break
		}
		x, errX := strconv.Atoi(args[0])
		y, errY := strconv.Atoi(args[1])
		if errX != nil || errY != nil {
			m.gs.AddLog("Usage: move <x> <y>")
			break
		}
		m.eng.Process(action.Action{
			Type:        action.TypeMove,
			CharacterID: PlayerID,
			Position:    &grid.Point{X: x, Y: y},
		})

	case "dash":
		m.eng.Process(action.Action{Type: action.TypeDash, CharacterID: PlayerID})

	case "attack":
		if len(args) < 1 {
			m.gs.AddLog("Usage: attack <target>")
			break
		}
		m.eng.Process(action.Action{
			Type:       action.TypeAttack,
			AttackerID: PlayerID,
			TargetID:   args[0],
		})

	case "cast":
		if len(args) < 1 {
			m.gs.AddLog("Usage: cast <spell> [target]")
			break
		}
		a := action.Action{
			Type:        action.TypeCastSpell,
			CharacterID: PlayerID,
			SpellName:   args[0],
		}
		if len(args) > 1 {
			a.TargetID = args[1]
		}
		m.eng.Process(a)

	case "equip", "unequip", "use", "drop":
		if len(args) < 1 {
			m.gs.AddLog("Usage: " + verb + " <item>")
			break
		}
		types := map[string]action.Type{
			"equip":   action.TypeEquip,
			"unequip": action.TypeUnequip,
			"use":     action.TypeUseItem,
			"drop":    action.TypeDropItem,
		}
		m.eng.Process(action.Action{
			Type:        types[verb],
			CharacterID: PlayerID,
			ItemName:    strings.Join(args, " "),
		})

	case "say":
		if len(args) < 1 {
			m.gs.AddLog("Usage: say <message>")
			break
		}
		message := strings.Join(args, " ")
		m.loading = true
		m.refresh()
		return m, func() tea.Msg {
			m.eng.Process(action.Action{
				Type:    action.TypeChatWithDM,
				Message: message,
			})
			return chatDoneMsg{}
		}

	case "start":
		m.eng.StartCombat()

	case "end":
		next := m.eng.AdvanceTurn()
		if next != nil {
			m.gs.Logf("It is now %s's turn.", next.Name)
		}
		if m.eng.IsCombatOver() && m.gs.CombatActive {
			m.gs.CombatActive = false
			m.gs.AddLog("Combat is over!")
		}

	case "actions":
		descriptors := m.eng.AvailableActions(PlayerID)
		var b strings.Builder
		b.WriteString("Available actions:")
		for _, d := range descriptors {
			b.WriteString("\n  " + d.Name)
		}
		m.gs.AddLog(b.String())

	default:
		m.gs.AddLog("Unknown command: " + verb + " (try 'help')")
	}

	m.refresh()
	return m, nil
}

const helpText = `Commands:
  move <x> <y>       Move to a grid square
  dash               Double movement for this turn
  attack <target>    Melee attack a target by id
  cast <spell> [t]   Cast a spell, e.g. cast cure_wounds
  equip <item>       Equip a weapon, armor or shield
  use <item>         Use a consumable
  drop <item>        Drop an item
  say <message>      Talk to the DM
  start              Roll initiative and start combat
  end                End your turn
  actions            List available actions
  quit               Quit`

// refresh redraws both panels from the current game state.
func (m *ConsoleUI) refresh() {
	m.writeLogContent()
	m.gridViewport.SetContent(m.renderGrid())
}

func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("GRID ENGINE") + "\n\n")
	content.WriteString("Type commands below to play.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(logWidth-6, 1))) + "\n\n")

	for _, line := range m.gs.Log() {
		styled := line
		if strings.HasPrefix(line, "[DM]") {
			styled = dmStyle.Render(line)
		}
		content.WriteString(wordwrap.String(styled, max(logWidth, 20)) + "\n")
	}
	if m.loading {
		content.WriteString("\n" + promptStyle.Render("The DM is thinking..."))
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

// renderGrid draws the battle map as ASCII with a roster legend.
func (m *ConsoleUI) renderGrid() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(m.gs.Map().Name)) + "\n\n")

	w, h := m.gs.Map().Bounds()
	occupants := make(map[grid.Point]string)
	for _, c := range m.gs.Characters() {
		if c.HP > 0 {
			occupants[c.Position] = c.ID
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := grid.Point{X: x, Y: y}
			switch {
			case occupants[p] != "":
				glyph := strings.ToUpper(occupants[p][:1])
				if occupants[p] == PlayerID {
					content.WriteString(playerStyle.Render("@"))
				} else {
					content.WriteString(monsterStyle.Render(glyph))
				}
			case m.gs.Map().BlocksMovement(p):
				content.WriteString("#")
			default:
				content.WriteString(".")
			}
			content.WriteString(" ")
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	for _, c := range m.gs.Characters() {
		status := fmt.Sprintf("%s  HP %d/%d  AC %d  %s", c.Name, c.HP, c.MaxHP, c.AC, c.Position)
		if c.HP <= 0 {
			status += "  (defeated)"
		}
		if c.ID == PlayerID {
			content.WriteString(playerStyle.Render(status) + "\n")
		} else {
			content.WriteString(monsterStyle.Render(status) + "\n")
		}
	}

	if m.gs.CombatActive {
		content.WriteString("\nCombat active")
		if current := m.eng.CurrentCharacter(); current != nil {
			content.WriteString("  |  Turn: " + current.Name)
		}
		info := m.eng.MovementInfo(PlayerID)
		content.WriteString(fmt.Sprintf("\nMovement: %d/%d feet", info.Remaining, info.Speed))
	}

	return content.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to abandon the battle?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.6) - 4
	gridWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(logWidth-4, 1))),
			m.textarea.View(),
		),
	)

	gridPanel := gridPanelStyle.Width(gridWidth).Height(m.height - 2).Render(
		m.gridViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, gridPanel)
}
