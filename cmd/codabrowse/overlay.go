package main

import (
	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// mainViewModel wraps the tree/detail/status view for use as the overlay's
// background, mirroring cmd/hiveexplorer/mainview.go's MainViewModel.
type mainViewModel struct {
	m Model
}

func (v mainViewModel) Init() tea.Cmd                         { return nil }
func (v mainViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return v, nil }
func (v mainViewModel) View() string                          { return v.m.viewMain() }

// helpViewModel wraps the keyboard-shortcut help text for use as the
// overlay's foreground.
type helpViewModel struct {
	m Model
}

func (v helpViewModel) Init() tea.Cmd                         { return nil }
func (v helpViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return v, nil }
func (v helpViewModel) View() string                          { return v.m.viewHelp() }

func (m Model) viewHelpOverlay() string {
	ov := overlay.New(
		helpViewModel{m},
		mainViewModel{m},
		overlay.Center,
		overlay.Center,
		0,
		0,
	)
	return ov.View()
}
