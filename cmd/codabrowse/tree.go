package main

import (
	"fmt"
	"strings"

	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/cursor"
	"github.com/scicoda/coda/pkg/product"
)

// segKind distinguishes a record-field step from an array-element step in a
// path from the product root.
type segKind int

const (
	segField segKind = iota
	segIndex
)

type seg struct {
	kind segKind
	name string
	idx  int64
}

// pathKey renders segs the way codainspect's "read" path argument
// does, so a path copied from codabrowse can be pasted straight into it.
func pathKey(segs []seg) string {
	if len(segs) == 0 {
		return "/"
	}
	parts := make([]string, len(segs))
	for i, s := range segs {
		if s.kind == segIndex {
			parts[i] = fmt.Sprint(s.idx)
		} else {
			parts[i] = s.name
		}
	}
	return "/" + strings.Join(parts, "/")
}

func gotoSegs(c *cursor.Cursor, segs []seg) error {
	c.GotoRoot()
	for _, s := range segs {
		if s.kind == segIndex {
			if err := c.GotoArrayElement([]int64{s.idx}); err != nil {
				return err
			}
			continue
		}
		if err := c.GotoField(s.name); err != nil {
			return err
		}
	}
	return nil
}

// row is one visible line of the tree pane.
type row struct {
	segs     []seg
	name     string
	depth    int
	kind     string // "record", "array", "leaf"
	count    int64  // field/element count, meaningful for record/array
	expanded bool
}

// buildRows flattens the product's tree into the rows currently visible,
// given which container paths are expanded. Containers are re-navigated
// from the root on every call rather than cached, trading some redundant
// work for never holding a long-lived cursor position across redraws.
func buildRows(p *product.Product, expanded map[string]bool) ([]row, error) {
	c, err := p.NewCursor()
	if err != nil {
		return nil, err
	}

	var rows []row
	var walk func(segs []seg, name string, depth int) error
	walk = func(segs []seg, name string, depth int) error {
		if err := gotoSegs(c, segs); err != nil {
			rows = append(rows, row{segs: segs, name: name + " (unreadable)", depth: depth, kind: "leaf"})
			return nil
		}

		switch t := c.GetType().(type) {
		case *typemodel.Record:
			key := pathKey(segs)
			exp := expanded[key]
			rows = append(rows, row{segs: segs, name: name, depth: depth, kind: "record", count: int64(t.FieldCount()), expanded: exp})
			if !exp {
				return nil
			}
			for k := 0; k < t.FieldCount(); k++ {
				f, err := t.FieldByIndex(k)
				if err != nil {
					return err
				}
				child := append(append([]seg{}, segs...), seg{kind: segField, name: f.Name})
				if err := walk(child, f.Name, depth+1); err != nil {
					return err
				}
			}
			return nil

		case *typemodel.Array:
			n, err := c.GetNumElements()
			if err != nil {
				return err
			}
			key := pathKey(segs)
			exp := expanded[key]
			rows = append(rows, row{segs: segs, name: name, depth: depth, kind: "array", count: n, expanded: exp})
			if !exp {
				return nil
			}
			for i := int64(0); i < n; i++ {
				child := append(append([]seg{}, segs...), seg{kind: segIndex, idx: i})
				if err := walk(child, fmt.Sprintf("[%d]", i), depth+1); err != nil {
					return err
				}
			}
			return nil

		default:
			rows = append(rows, row{segs: segs, name: name, depth: depth, kind: "leaf"})
			return nil
		}
	}

	if err := walk(nil, p.FileName(), 0); err != nil {
		return nil, err
	}
	return rows, nil
}

// readLeaf renders the scalar or array value at segs as display text,
// mirroring codainspect's "read" command.
func readLeaf(p *product.Product, segs []seg) (string, error) {
	c, err := p.NewCursor()
	if err != nil {
		return "", err
	}
	if err := gotoSegs(c, segs); err != nil {
		return "", err
	}

	if _, ok := c.GetType().(*typemodel.Array); ok {
		raws, err := c.ReadArrayRaw()
		if err != nil {
			return "", err
		}
		parts := make([]string, len(raws))
		for i, r := range raws {
			parts[i] = fmt.Sprint(r)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	}

	v, err := c.ReadAny()
	if err != nil {
		return "", err
	}
	return formatValue(v), nil
}
