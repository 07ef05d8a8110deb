package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scicoda/coda/cmd/codabrowse/logger"
	"github.com/scicoda/coda/pkg/product"
)

// Model is the top-level bubbletea model for codabrowse: a tree pane over
// the product's type tree, driven by a fresh cursor navigation per redraw
// (see buildRows), plus a detail pane for the selected leaf's value.
type Model struct {
	path    string
	product *product.Product
	keys    KeyMap

	rows     []row
	expanded map[string]bool
	selected int

	width  int
	height int

	detail    string
	detailErr error
	statusMsg string
	showHelp  bool
	err       error
}

func NewModel(path string) (Model, error) {
	p, err := openProduct(path)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		path:     path,
		product:  p,
		keys:     DefaultKeyMap(),
		expanded: map[string]bool{"/": true},
	}
	m.refresh()
	return m, nil
}

func (m *Model) refresh() {
	rows, err := buildRows(m.product, m.expanded)
	if err != nil {
		m.err = err
		return
	}
	m.rows = rows
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.loadDetail()
}

func (m *Model) loadDetail() {
	if len(m.rows) == 0 {
		m.detail, m.detailErr = "", nil
		return
	}
	r := m.rows[m.selected]
	if r.kind != "leaf" {
		m.detail = ""
		m.detailErr = nil
		return
	}
	v, err := readLeaf(m.product, r.segs)
	m.detail = v
	m.detailErr = err
}

func (m Model) Init() tea.Cmd { return nil }

// Close releases the open product's underlying source.
func (m Model) Close() error {
	if m.product == nil {
		return nil
	}
	logger.Info("closing product", "path", m.path)
	return m.product.Close()
}
