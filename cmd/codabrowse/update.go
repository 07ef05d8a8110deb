package main

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scicoda/coda/cmd/codabrowse/logger"
)

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.loadDetail()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.rows)-1 {
			m.selected++
			m.loadDetail()
		}
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.selected = 0
		m.loadDetail()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.selected = len(m.rows) - 1
		m.loadDetail()
		return m, nil

	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Enter):
		m.expandSelected()
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.collapseSelectedOrParent()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m.copySelected()
	}
	return m, nil
}

func (m *Model) expandSelected() {
	if len(m.rows) == 0 {
		return
	}
	r := m.rows[m.selected]
	if r.kind == "leaf" {
		return
	}
	m.expanded[pathKey(r.segs)] = true
	m.refresh()
}

func (m *Model) collapseSelectedOrParent() {
	if len(m.rows) == 0 {
		return
	}
	r := m.rows[m.selected]
	rowKey := pathKey(r.segs)
	if r.kind != "leaf" && m.expanded[rowKey] {
		delete(m.expanded, rowKey)
		m.refresh()
		return
	}
	if len(r.segs) == 0 {
		return
	}
	parent := r.segs[:len(r.segs)-1]
	parentKey := pathKey(parent)
	delete(m.expanded, parentKey)
	m.refresh()
	for i, row := range m.rows {
		if pathKey(row.segs) == parentKey {
			m.selected = i
			break
		}
	}
	m.loadDetail()
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	if len(m.rows) == 0 {
		return m, nil
	}
	r := m.rows[m.selected]
	text := pathKey(r.segs)
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warn("clipboard write failed", "error", err)
		m.statusMsg = "clipboard unavailable"
	} else {
		m.statusMsg = "copied " + text
	}
	return m, clearStatusAfter(2 * time.Second)
}
