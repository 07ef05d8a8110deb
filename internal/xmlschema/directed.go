package xmlschema

import (
	"io"

	"github.com/scicoda/coda/internal/backend"
	"github.com/scicoda/coda/internal/dynamictype"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// Validate implements spec.md §4.8's schema-directed mode: each open-tag
// looks up the declared field by XML name against defRoot; unknown
// elements/attributes, absent mandatory elements/attributes, or text in
// elements declared as records all produce a *Product error with line
// and byte offset (surfaced via the driver's ParseError wrapping).
func Validate(r io.Reader, defRoot typemodel.Type) (*dynamictype.Node, error) {
	ctx := &directedCtx{typeStack: []typemodel.Type{defRoot}}
	root, err := run(r, ctx.onOpen, ctx.onClose)
	if err != nil {
		return nil, err
	}
	n, _ := root.node.(*dynamictype.Node)
	return n, nil
}

type directedCtx struct {
	typeStack []typemodel.Type // parallel to driver.stack; top is the current element's declared type
}

func (c *directedCtx) onOpen(d *driver, name qname, attrs map[string]string, attrOrder []string) error {
	// The root element's declared type is c.typeStack's sole initial
	// entry (the defRoot Validate was called with); every subsequent
	// element looks its declared type up as a field of its parent.
	if len(d.stack) == 0 {
		if err := c.checkAttrs(c.typeStack[0], attrs); err != nil {
			return err
		}
		return nil
	}
	parent := c.typeStack[len(c.typeStack)-1]
	rec, ok := parent.(*typemodel.Record)
	if !ok {
		return errs.New(errs.Product, "element %q has no declared child fields (parent is not a record type)", name.Local)
	}
	_, field, ok := rec.FieldByName(name.Local)
	if !ok {
		return errs.New(errs.Product, "unknown element %q", name.Local)
	}
	if err := c.checkAttrs(field.Type, attrs); err != nil {
		return err
	}
	c.typeStack = append(c.typeStack, field.Type)
	return nil
}

func (c *directedCtx) checkAttrs(t typemodel.Type, attrs map[string]string) error {
	declared := t.Attributes()
	for name := range attrs {
		if declared == nil {
			return errs.New(errs.Product, "unexpected attribute %q", name)
		}
		if _, _, ok := declared.FieldByName(name); !ok {
			return errs.New(errs.Product, "unexpected attribute %q", name)
		}
	}
	if declared != nil {
		for _, f := range declared.Fields {
			if f.Optional {
				continue
			}
			if _, ok := attrs[f.Name]; !ok {
				return errs.New(errs.Product, "missing mandatory attribute %q", f.Name)
			}
		}
	}
	return nil
}

func (c *directedCtx) onClose(d *driver, e *elem) (*built, error) {
	t := c.typeStack[len(c.typeStack)-1]
	c.typeStack = c.typeStack[:len(c.typeStack)-1]

	switch declared := t.(type) {
	case *typemodel.Record:
		if e.sawNonWS {
			return nil, errs.New(errs.Product, "text content in element %q declared as a record", e.name)
		}
		for _, f := range declared.Fields {
			if f.Optional {
				continue
			}
			if _, ok := e.childrenByName[f.Name]; !ok {
				return nil, errs.New(errs.Product, "missing mandatory element %q", f.Name)
			}
		}
		node := &dynamictype.Node{Type: declared, BitOffset: -1}
		for _, f := range declared.Fields {
			group := e.childrenByName[f.Name]
			if len(group) == 0 {
				continue
			}
			if _, isArr := f.Type.(*typemodel.Array); isArr {
				arrNode := &dynamictype.Node{Type: f.Type, BitOffset: -1}
				for _, b := range group {
					if n, ok := b.node.(*dynamictype.Node); ok {
						arrNode.ExtendChild(n)
					}
				}
				node.ExtendChild(arrNode)
			} else if n, ok := group[0].node.(*dynamictype.Node); ok {
				node.ExtendChild(n)
			}
		}
		return &built{typ: declared, node: node}, nil

	case *typemodel.Text:
		if e.sawElement {
			return nil, errs.New(errs.Product, "element content in element %q declared as text", e.name)
		}
		node := &dynamictype.Node{Type: declared, BitOffset: -1, Native: &backend.XMLValue{Text: e.text.String()}}
		return &built{typ: declared, node: node}, nil

	default:
		node := &dynamictype.Node{Type: t, BitOffset: -1, Native: &backend.XMLValue{Text: e.text.String()}}
		return &built{typ: t, node: node}, nil
	}
}
