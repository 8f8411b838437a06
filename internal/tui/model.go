// Package tui implements the interactive message checker.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/Veraticus/scamguard/internal/model"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current checker state.
type State int

// Checker states.
const (
	StateInput State = iota
	StateAnalyzing
)

// reserved lines for the header, input box, status and help.
const chromeHeight = 9

var errEmptyMessage = errors.New("enter a message to analyze")

// Model is the main TUI model.
type Model struct {
	ctx       context.Context
	lastError error
	current   *model.AnalysisReport
	keymap    KeyMap
	help      help.Model
	input     textinput.Model
	spinner   spinner.Model
	viewport  viewport.Model
	history   []*model.AnalysisReport
	stats     model.Statistics
	config    Config
	state     State
	width     int
	height    int
}

func newModel(ctx context.Context, cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "Paste a suspicious message..."
	input.CharLimit = 2000
	input.Prompt = "› "
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = cfg.Theme.StatusInfo

	vp := viewport.New(cfg.Width, max(cfg.Height-chromeHeight, 3))

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		ctx:      ctx,
		config:   cfg,
		keymap:   DefaultKeyMap(),
		help:     h,
		input:    input,
		spinner:  spin,
		viewport: vp,
		width:    cfg.Width,
		height:   cfg.Height,
		state:    StateInput,
	}
	m.input.Width = max(cfg.Width-6, 10)
	m.refreshViewport()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadStatsCmd(m.config.Analyzer))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case statsLoadedMsg:
		m.stats = msg.stats
		return m, nil

	case analysisDoneMsg:
		m.state = StateInput
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.lastError = nil
		m.current = msg.report
		m.history = append([]*model.AnalysisReport{msg.report}, m.history...)
		if m.config.HistorySize > 0 && len(m.history) > m.config.HistorySize {
			m.history = m.history[:m.config.HistorySize]
		}
		m.input.Reset()
		m.refreshViewport()
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.state != StateAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.state == StateAnalyzing {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.lastError = errEmptyMessage
			return m, nil
		}
		m.lastError = nil
		m.state = StateAnalyzing
		return m, tea.Batch(
			m.spinner.Tick,
			analyzeCmd(m.ctx, m.config.Analyzer, text, m.config.AnalysisTimeout),
		)

	case key.Matches(msg, m.keymap.Clear):
		m.input.Reset()
		m.current = nil
		m.history = nil
		m.lastError = nil
		m.refreshViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.input.Width = max(width-6, 10)
	m.viewport.Width = width
	m.viewport.Height = max(height-chromeHeight, 3)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderResults())
}

// History returns past reports, newest first.
func (m Model) History() []*model.AnalysisReport {
	return m.history
}

// Current returns the most recent report.
func (m Model) Current() *model.AnalysisReport {
	return m.current
}

// State returns the checker state.
func (m Model) State() State {
	return m.state
}

// Err returns the last error shown to the user.
func (m Model) Err() error {
	return m.lastError
}
