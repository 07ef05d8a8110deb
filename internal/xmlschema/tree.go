// Package xmlschema implements C8, spec.md §4.8: a SAX-style XML driver
// that either validates a document against a supplied definition
// (schema-directed mode, directed.go) or synthesizes a typed tree from
// the document's own shape when no definition is given (schema-synthesis
// mode, synthesize.go). Both modes share the streaming token loop in
// driver.go.
package xmlschema

import "strings"

// elem is the driver's working representation of one open (or just
// closed) XML element while its subtree is being accumulated. It is the
// shared scratch structure both synthesis and directed-validation modes
// build incrementally as tokens arrive, then convert to a (typemodel
// type, dynamic-type node) pair once the element's end tag is seen.
type elem struct {
	ns         string
	name       string
	attrs      map[string]string // local attribute name -> value, first wins on duplicate
	attrOrder  []string
	text       strings.Builder
	sawText    bool // any text, including whitespace-only
	sawNonWS   bool // text with non-whitespace content
	sawElement bool // at least one child element

	// childOrder is the first-seen order of distinct child element
	// names; childrenByName groups every occurrence under its name,
	// which is exactly what the promotion rule (spec.md §4.8: "If a
	// field recurs within the same parent, its single instance is
	// promoted to an array") needs to decide single-vs-array per name.
	childOrder    []string
	childrenByName map[string][]*built
}

func newElem(name string) *elem {
	return &elem{name: name, attrs: map[string]string{}, childrenByName: map[string][]*built{}}
}

func (e *elem) addAttr(name, value string) {
	if _, dup := e.attrs[name]; dup {
		return // "the first wins" (spec.md §4.8)
	}
	e.attrs[name] = value
	e.attrOrder = append(e.attrOrder, name)
}

func (e *elem) addChild(name string, b *built) {
	if _, seen := e.childrenByName[name]; !seen {
		e.childOrder = append(e.childOrder, name)
	}
	e.childrenByName[name] = append(e.childrenByName[name], b)
	e.sawElement = true
}

func (e *elem) addText(s string) {
	e.sawText = true
	if strings.TrimSpace(s) != "" {
		e.sawNonWS = true
	}
	e.text.WriteString(s)
}

// built is the finished (type, dynamic-node) result of converting one
// elem after its end tag closes it. Typed as `any` here rather than
// importing internal/typemodel/internal/dynamictype into this file;
// synthesize.go and directed.go, which do the real construction, store
// the actual *typemodel.Type-family and *dynamictype.Node values.
type built struct {
	typ  any
	node any
}
