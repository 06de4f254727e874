// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mudlark/internal/render"
	"github.com/jeranaias/mudlark/internal/ui/styles"
)

// DefaultMaxMessages is the per-stream scrollback when Config leaves it unset.
const DefaultMaxMessages = 2000

// MainTab is the tab label of the main stream.
const MainTab = "main"

// Config holds configuration for the viewer.
type Config struct {
	// Theme colors the tabs and status bar (default: styles.Default())
	Theme *styles.Theme

	// Renderer converts messages to terminal text (default: lipgloss's)
	Renderer *lipgloss.Renderer

	// MaxMessages bounds each stream's scrollback (default: 2000)
	MaxMessages int

	// Title is shown at the left of the header
	Title string
}

// stream is one tab's scrollback.
type stream struct {
	id       string
	messages []render.Message
	unread   int
}

// =============================================================================
// VIEWER MODEL
// =============================================================================

// Model is the Bubble Tea model for the viewer.
type Model struct {
	theme    *styles.Theme
	re       *lipgloss.Renderer
	title    string
	maxMsgs  int
	viewport viewport.Model

	// Dimensions
	width  int
	height int
	ready  bool

	streams []*stream
	active  int
	follow  bool

	done      bool
	delivered int
	err       error
}

// New creates a viewer with only the main stream.
func New(cfg Config) Model {
	if cfg.Theme == nil {
		cfg.Theme = styles.Default()
	}
	if cfg.Renderer == nil {
		cfg.Renderer = lipgloss.DefaultRenderer()
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = DefaultMaxMessages
	}
	if cfg.Title == "" {
		cfg.Title = "mudlark"
	}
	return Model{
		theme:   cfg.Theme,
		re:      cfg.Renderer,
		title:   cfg.Title,
		maxMsgs: cfg.MaxMessages,
		streams: []*stream{{id: ""}},
		follow:  true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case DeliverMsg:
		m.handleDeliver(msg)
		return m, nil

	case ClearMsg:
		if s := m.stream(msg.Stream); s != nil {
			s.messages = nil
			s.unread = 0
			if m.streams[m.active] == s {
				m.refresh()
			}
		}
		return m, nil

	case ThemeMsg:
		if msg.Theme != nil && msg.Theme.Name == m.theme.Name {
			m.theme = msg.Theme
		}
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

const (
	headerHeight    = 1
	statusBarHeight = 1
)

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := max(msg.Height-headerHeight-statusBarHeight, 1)
	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.switchTo((m.active + 1) % len(m.streams))
		return m, nil

	case "shift+tab":
		m.switchTo((m.active + len(m.streams) - 1) % len(m.streams))
		return m, nil

	case "g", "home":
		m.viewport.GotoTop()
		m.follow = false
		return m, nil

	case "G", "end":
		m.viewport.GotoBottom()
		m.follow = true
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.follow = m.viewport.AtBottom()
	return m, cmd
}

func (m *Model) handleDeliver(msg DeliverMsg) {
	m.delivered++
	s := m.stream(msg.Stream)
	if s == nil {
		s = &stream{id: msg.Stream}
		m.streams = append(m.streams, s)
	}

	s.messages = append(s.messages, msg.Message)
	if over := len(s.messages) - m.maxMsgs; over > 0 {
		s.messages = append(s.messages[:0], s.messages[over:]...)
	}

	if m.streams[m.active] == s {
		m.refresh()
	} else {
		s.unread++
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) stream(id string) *stream {
	for _, s := range m.streams {
		if s.id == id {
			return s
		}
	}
	return nil
}

func (m *Model) switchTo(i int) {
	m.active = i
	m.streams[i].unread = 0
	m.follow = true
	m.refresh()
}

// refresh re-renders the active stream into the viewport. Messages are
// concatenated as the server sent them, then wrapped as one.
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	s := m.streams[m.active]
	var all render.Message
	for _, msg := range s.messages {
		all = append(all, msg...)
	}
	m.viewport.SetContent(render.ANSI(render.Wrap(all, m.viewport.Width), m.re))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func tabLabel(id string) string {
	if id == "" {
		return MainTab
	}
	return id
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the viewer.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderStatusBar(),
	)
}

func (m Model) color(c styles.Color, ok bool) lipgloss.TerminalColor {
	if !ok {
		return lipgloss.NoColor{}
	}
	return c.Lipgloss()
}

func (m Model) renderHeader() string {
	titleStyle := m.re.NewStyle().Bold(true).Foreground(m.color(m.theme.SemanticColor(styles.SemanticLink)))
	parts := []string{titleStyle.Render(m.title)}

	for i, s := range m.streams {
		label := tabLabel(s.id)
		if s.unread > 0 {
			label = fmt.Sprintf("%s(%d)", label, s.unread)
		}

		c, ok := m.theme.CategoryColor(s.id)
		if !ok {
			c, ok = m.theme.SemanticColor(styles.SemanticText)
		}
		style := m.re.NewStyle().Padding(0, 1).Foreground(m.color(c, ok))
		if i == m.active {
			style = style.Bold(true).Underline(true)
		}
		parts = append(parts, style.Render(label))
	}
	return truncateLine(strings.Join(parts, " "), m.width)
}

func (m Model) renderStatusBar() string {
	s := m.streams[m.active]

	status := "live"
	switch {
	case m.err != nil:
		status = "error: " + m.err.Error()
	case m.done:
		status = "done"
	}
	text := fmt.Sprintf("%s | %d/%d msgs | %3.0f%% | %s",
		tabLabel(s.id), len(s.messages), m.delivered, m.viewport.ScrollPercent()*100, status)

	c, ok := m.theme.SemanticColor(styles.SemanticTimestamp)
	return truncateLine(m.re.NewStyle().Foreground(m.color(c, ok)).Render(text), m.width)
}

// truncateLine cuts s to width cells, keeping escape sequences intact.
func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
