// Package ui renders the interactive catalog browser.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gamedb/internal/driver"
	"gamedb/internal/game"
	"gamedb/internal/watch"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// gameItem adapts game.Game to list.Item
type gameItem struct {
	g *game.Game
}

func (i gameItem) Title() string { return i.g.Name }

func (i gameItem) Description() string {
	parts := make([]string, 0, 3)
	parts = append(parts, strconv.FormatInt(i.g.Year, 10))
	if i.g.Status != nil {
		parts = append(parts, i.g.Status.String())
	}
	if len(i.g.Genres) > 0 {
		parts = append(parts, strings.Join(i.g.Genres, "/"))
	}
	return strings.Join(parts, " · ")
}

func (i gameItem) FilterValue() string {
	return i.g.Name + " " + strings.Join(i.g.Genres, " ") + " " + strings.Join(i.g.Tags, " ")
}

type watchMsg watch.Event
type watchClosedMsg struct{}

type reloadedMsg struct {
	res *driver.Result
	err error
}

type browseModel struct {
	path     string
	opts     driver.Options
	res      *driver.Result
	events   <-chan watch.Event
	list     list.Model
	viewport viewport.Model
	spinner  spinner.Model
	selected *game.Game

	focusViewport bool
	loading       bool
	width         int
	height        int
	ready         bool
}

// NewBrowser returns a Bubble Tea model over an already parsed
// database. events may be nil; a non-nil channel turns on live reload:
// every settled change re-parses path with the same options.
func NewBrowser(res *driver.Result, path string, opts driver.Options, events <-chan watch.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	m := &browseModel{
		path:    path,
		opts:    opts,
		res:     res,
		events:  events,
		list:    l,
		spinner: sp,
	}
	m.setResult(res)
	return m
}

func (m *browseModel) Init() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return m.listenForChange()
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "q", "esc", "ctrl+c":
				return m, tea.Quit
			case "tab":
				m.focusViewport = !m.focusViewport
				return m, nil
			}
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case watchMsg:
		ev := watch.Event(msg)
		if ev.Removed {
			cmds = append(cmds, m.list.NewStatusMessage(errorStyle.Render("database file removed")))
			cmds = append(cmds, m.listenForChange())
			return m, tea.Batch(cmds...)
		}
		m.loading = true
		cmds = append(cmds, m.spinner.Tick, m.reload(), m.listenForChange())
		return m, tea.Batch(cmds...)

	case watchClosedMsg:
		return m, nil

	case reloadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.list.NewStatusMessage(errorStyle.Render("reload failed: " + msg.err.Error()))
		}
		m.setResult(msg.res)
		return m, m.list.NewStatusMessage("reloaded")
	}

	// Клавиши идут в одну панель, остальные сообщения в обе
	_, isKey := msg.(tea.KeyMsg)
	updateList := !isKey || !m.focusViewport || m.list.FilterState() == list.Filtering
	updateViewport := !isKey || (m.focusViewport && m.list.FilterState() != list.Filtering)

	if updateList {
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	if updateViewport {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	if sel, ok := m.list.SelectedItem().(gameItem); ok {
		if m.selected == nil || m.selected.ID != sel.g.ID || m.selected.Name != sel.g.Name {
			m.selected = sel.g
			m.viewport.SetContent(m.renderGame(sel.g))
			m.viewport.GotoTop()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *browseModel) View() string {
	if !m.ready {
		return ""
	}

	listPaneWidth := int(float64(m.width) * 0.4)
	viewPaneWidth := m.width - listPaneWidth

	base := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	focused := lipgloss.Color("6")
	blurred := lipgloss.Color("8")

	listStyle, viewStyle := base.BorderForeground(focused), base.BorderForeground(blurred)
	if m.focusViewport {
		listStyle, viewStyle = base.BorderForeground(blurred), base.BorderForeground(focused)
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Width(listPaneWidth-4).Render(m.list.View()),
		viewStyle.Width(viewPaneWidth-4).Render(m.viewport.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left, panes, m.statusLine())
}

// statusLine — итог разбора плюс подсказка по клавишам
func (m *browseModel) statusLine() string {
	var sb strings.Builder
	if m.loading {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" reloading  ")
	}

	bag := m.res.Bag
	summary := fmt.Sprintf(" %d games", m.res.Catalog.Len())
	if bag.Len() > 0 {
		summary += fmt.Sprintf(" · %d diagnostics", bag.Len())
	}
	switch {
	case bag.HasErrors():
		sb.WriteString(errorStyle.Render(summary))
	case bag.HasWarnings():
		sb.WriteString(warnStyle.Render(summary))
	default:
		sb.WriteString(headerStyle.Render(summary))
	}

	sb.WriteString(mutedStyle.Render("  • /: filter • tab: focus • q: quit"))
	return sb.String()
}

func (m *browseModel) setResult(res *driver.Result) {
	m.res = res

	items := make([]list.Item, 0, res.Catalog.Len())
	games := res.Catalog.Games()
	for i := range games {
		items = append(items, gameItem{g: &games[i]})
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("%s (%d games)", m.path, len(items))

	m.selected = nil
	if len(items) == 0 {
		m.viewport.SetContent(mutedStyle.Render("no valid games in this file"))
	}
}

func (m *browseModel) setSize(w, h int) {
	m.width = w
	m.height = h

	listPaneWidth := int(float64(w) * 0.4)
	viewPaneWidth := w - listPaneWidth
	chromeW := 4
	paneH := h - 3

	if !m.ready {
		m.viewport = viewport.New(viewPaneWidth-chromeW, paneH)
		m.ready = true
	} else {
		m.viewport.Width = viewPaneWidth - chromeW
		m.viewport.Height = paneH
	}
	m.list.SetSize(listPaneWidth-chromeW, paneH)

	if m.selected != nil {
		m.viewport.SetContent(m.renderGame(m.selected))
	}
}

func (m *browseModel) listenForChange() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return watchClosedMsg{}
		}
		return watchMsg(ev)
	}
}

func (m *browseModel) reload() tea.Cmd {
	path, opts := m.path, m.opts
	return func() tea.Msg {
		res, err := driver.Parse(context.Background(), path, opts)
		return reloadedMsg{res: res, err: err}
	}
}

func (m *browseModel) renderGame(g *game.Game) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(g.Name))
	sb.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(" ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	row("id:", strconv.FormatInt(g.ID, 10))
	row("year:", strconv.FormatInt(g.Year, 10))
	if g.Status != nil {
		row("status:", g.Status.String())
	}
	row("dev:", str(g.Dev))
	row("publisher:", str(g.Publisher))
	row("version:", str(g.Version))
	row("engine:", str(g.Engine))
	row("runtime:", str(g.Runtime))
	row("genres:", strings.Join(g.Genres, ", "))
	row("tags:", strings.Join(g.Tags, ", "))
	row("store:", strings.Join(g.Store, "\n       "))
	row("cover:", str(g.Cover))
	row("setup:", str(g.Setup))
	row("hints:", str(g.Hints))

	width := m.viewport.Width
	if width <= 0 {
		return sb.String()
	}
	return lipgloss.NewStyle().Width(width).Render(sb.String())
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Browse runs the interactive browser until the user quits.
func Browse(res *driver.Result, path string, opts driver.Options, events <-chan watch.Event) error {
	prog := tea.NewProgram(NewBrowser(res, path, opts, events), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
