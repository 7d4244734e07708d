package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type Screen int

const (
	screenMenu Screen = iota
	screenGame
	screenThemes
	screenConfig
)

type tickMsg struct{}
type countdownTickMsg struct{}

// Gravity runs at a fixed interval; there is no level-based speed-up.
const fallInterval = 500 * time.Millisecond

const scorePopupDuration = 900 * time.Millisecond

type Model struct {
	screen       Screen
	width        int
	height       int
	menuIndex    int
	themeIndex   int
	configIndex  int
	config       Config
	game         Game
	startCount   int
	lastDelta    int
	lastEventTil time.Time
}

func NewModel() Model {
	config, err := loadConfig()
	if err != nil {
		DebugLogf("config load error: %v", err)
	}
	index := themeIndexByName(config.Theme)
	if index < 0 {
		index = 0
		config.Theme = themes[index].Name
	}
	return Model{
		screen:     screenMenu,
		config:     config,
		themeIndex: index,
		game:       NewGame(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.screen != screenGame || m.game.Over {
			// No rescheduling: the timer stops on game over and
			// on leaving the game screen.
			return m, nil
		}
		if m.startCount > 0 {
			return m, nil
		}
		if m.game.Paused {
			return m, tickCmd()
		}
		m.updatePopup()
		result := m.game.Step()
		if m.game.Over {
			DebugLogf("game over score=%d lines=%d", m.game.Score, m.game.Lines)
			return m, nil
		}
		m.applyScoreEvent(result)
		return m, tickCmd()
	case countdownTickMsg:
		if m.screen != screenGame || m.game.Over {
			return m, nil
		}
		if m.startCount <= 0 {
			// Stale message from an abandoned countdown; only the
			// decrement that reaches zero may arm gravity.
			return m, nil
		}
		m.startCount--
		if m.startCount > 0 {
			return m, countdownTickCmd()
		}
		return m, tickCmd()
	case tea.KeyMsg:
		switch m.screen {
		case screenMenu:
			return m, m.updateMenu(msg)
		case screenGame:
			return m, m.updateGame(msg)
		case screenThemes:
			return m, m.updateThemes(msg)
		case screenConfig:
			return m, m.updateConfig(msg)
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch m.screen {
	case screenMenu:
		return viewMenu(m)
	case screenGame:
		return viewGame(m)
	case screenThemes:
		return viewThemes(m)
	case screenConfig:
		return viewConfig(m)
	default:
		return ""
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(fallInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func countdownTickCmd() tea.Cmd {
	return tea.Tick(380*time.Millisecond, func(time.Time) tea.Msg { return countdownTickMsg{} })
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		switch m.menuIndex {
		case 0:
			return m.startGame()
		case 1:
			m.screen = screenThemes
		case 2:
			m.screen = screenConfig
		case 3:
			return tea.Quit
		}
	case "q", "esc":
		return tea.Quit
	}
	return nil
}

// startGame resets every piece of game state and re-arms the gravity
// timer behind a short countdown.
func (m *Model) startGame() tea.Cmd {
	m.game = NewGame()
	m.lastDelta = 0
	m.lastEventTil = time.Time{}
	m.startCount = 2
	m.screen = screenGame
	return countdownTickCmd()
}

func (m *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	if m.game.Over {
		// Terminal state: only restart or leaving the screen.
		switch msg.String() {
		case "r", "enter":
			return m.startGame()
		case "q", "esc":
			m.screen = screenMenu
		}
		return nil
	}

	if m.startCount > 0 {
		switch msg.String() {
		case "q", "esc":
			m.screen = screenMenu
		}
		return nil
	}

	switch msg.String() {
	case "left", "h":
		m.game.Move(-1)
	case "right", "l":
		m.game.Move(1)
	case "down", "j":
		result := m.game.SoftDrop()
		m.applyScoreEvent(result)
	case " ":
		result := m.game.HardDrop()
		m.applyScoreEvent(result)
		if m.game.Over {
			DebugLogf("game over score=%d lines=%d", m.game.Score, m.game.Lines)
		}
	case "up", "x":
		m.game.Rotate(1)
	case "z":
		m.game.Rotate(-1)
	case "p":
		m.game.Paused = !m.game.Paused
	case "q", "esc":
		m.screen = screenMenu
	}
	return nil
}

func (m *Model) updateThemes(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.themeIndex > 0 {
			m.themeIndex--
		}
	case "down", "j":
		if m.themeIndex < len(themes)-1 {
			m.themeIndex++
		}
	case "enter":
		m.config.Theme = themes[m.themeIndex].Name
		_ = saveConfig(m.config)
		m.screen = screenMenu
	case "q", "esc":
		m.screen = screenMenu
	}
	return nil
}

func (m *Model) updateConfig(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.configIndex > 0 {
			m.configIndex--
		}
	case "down", "j":
		if m.configIndex < len(configItems)-1 {
			m.configIndex++
		}
	case "enter":
		switch m.configIndex {
		case 0:
			m.config.Shadow = !m.config.Shadow
			_ = saveConfig(m.config)
		case 1:
			m.adjustScale(1)
		}
	case "left", "h":
		if m.configIndex == 1 {
			m.adjustScale(-1)
		}
	case "right", "l":
		if m.configIndex == 1 {
			m.adjustScale(1)
		}
	case "q", "esc":
		m.screen = screenMenu
	}
	return nil
}

var menuItems = []string{
	"Start Game",
	"Themes",
	"Config",
	"Quit",
}

var configItems = []string{
	"Shadow",
	"Game Scale",
}

func (m *Model) adjustScale(delta int) {
	newScale := clampScale(m.config.Scale + delta)
	if newScale != m.config.Scale {
		m.config.Scale = newScale
		_ = saveConfig(m.config)
	}
}

func (m *Model) applyScoreEvent(result StepResult) {
	if result.Cleared == 0 {
		return
	}
	m.lastDelta = result.Cleared * rowScore
	m.lastEventTil = time.Now().Add(scorePopupDuration)
}

// activeDelta returns the score popup value, or zero once the popup has
// expired. Expiry is checked here because gravity ticks stop on game
// over and skip the popup bookkeeping while paused.
func (m Model) activeDelta() int {
	if m.lastDelta == 0 || m.lastEventTil.IsZero() || time.Now().After(m.lastEventTil) {
		return 0
	}
	return m.lastDelta
}

func (m *Model) updatePopup() {
	if !m.lastEventTil.IsZero() && time.Now().After(m.lastEventTil) {
		m.lastDelta = 0
		m.lastEventTil = time.Time{}
	}
}
