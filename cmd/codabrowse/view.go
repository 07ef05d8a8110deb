package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("error: %v\n", m.err)) + "\npress q to quit\n"
	}
	if m.showHelp {
		return m.viewHelpOverlay()
	}
	return m.viewMain()
}

// viewMain renders the tree/detail/status layout without the help overlay,
// used both as the normal view and as the overlay's background.
func (m Model) viewMain() string {
	header := headerStyle.Render(fmt.Sprintf("codabrowse — %s", m.path))

	treeHeight := m.height - 8
	if treeHeight < 3 {
		treeHeight = 3
	}
	tree := paneStyle.Width(m.width - 2).Height(treeHeight).Render(m.viewTree(treeHeight))

	detail := paneStyle.Width(m.width - 2).Render(m.viewDetail())

	status := statusStyle.Width(m.width - 2).Render(m.viewStatus())

	return lipgloss.JoinVertical(lipgloss.Left, header, tree, detail, status)
}

func (m Model) viewTree(height int) string {
	if len(m.rows) == 0 {
		return "(empty)"
	}

	start := m.selected - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > len(m.rows) {
		end = len(m.rows)
		start = end - height
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		r := m.rows[i]
		line := renderRow(r)
		if i == m.selected {
			line = treeSelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func renderRow(r row) string {
	indent := strings.Repeat("  ", r.depth)
	switch r.kind {
	case "record":
		prefix := "+"
		if r.expanded {
			prefix = "-"
		}
		return treeRecordStyle.Render(fmt.Sprintf("%s%s %s (%d fields)", indent, prefix, r.name, r.count))
	case "array":
		prefix := "+"
		if r.expanded {
			prefix = "-"
		}
		return treeArrayStyle.Render(fmt.Sprintf("%s%s %s (%d elements)", indent, prefix, r.name, r.count))
	default:
		return treeLeafStyle.Render(fmt.Sprintf("%s  %s", indent, r.name))
	}
}

func (m Model) viewDetail() string {
	if len(m.rows) == 0 {
		return "no value selected"
	}
	r := m.rows[m.selected]
	path := pathStyle.Render(pathKey(r.segs))
	if r.kind != "leaf" {
		return path
	}
	if m.detailErr != nil {
		return path + "\n" + errorStyle.Render(m.detailErr.Error())
	}
	return path + "\n" + m.detail
}

func (m Model) viewStatus() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}
	return "↑/k ↓/j move · →/l/enter expand · ←/h collapse · y copy path · ? help · q quit"
}

func (m Model) viewHelp() string {
	title := helpTitleStyle.Render("codabrowse help")
	entries := [][2]string{
		{"↑/k, ↓/j", "move selection"},
		{"→/l, enter", "expand record or array"},
		{"←/h", "collapse, or go to parent"},
		{"home/g, end/G", "jump to first/last row"},
		{"y", "copy current path to clipboard"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	for _, e := range entries {
		b.WriteString(helpKeyStyle.Render(e[0]))
		b.WriteString(helpDescStyle.Render(e[1]))
		b.WriteByte('\n')
	}
	return modalStyle.Render(b.String())
}
