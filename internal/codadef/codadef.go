// Package codadef is the external-collaborator contract for product
// definitions (spec.md §1 explicitly scopes the .codadef archive format
// itself out: "the definition loader is specified only by the interface
// the core consumes"). pkg/product depends only on Definition/Loader;
// a real .codadef zip/XML reader is a separate concern this module does
// not implement.
package codadef

import (
	"strconv"
	"sync"

	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/typemodel"
)

// Definition is one product type's compiled description: its root Type
// (almost always a Record) plus the identifying triple spec.md's glossary
// calls "product class/type/version".
type Definition struct {
	Class   string
	Type    string
	Version int
	Root    typemodel.Type
}

// Loader resolves a product class/type/version triple to a Definition.
// Real definition sources (a .codadef archive, a directory of compiled
// definitions) implement this; Registry below is the in-process
// implementation this module ships, used by tests and by callers that
// construct definitions programmatically rather than from a file.
type Loader interface {
	Load(class, typ string, version int) (*Definition, error)
}

// Registry is a simple in-memory Loader, keyed by class/type/version.
// XML products do not go through it: spec.md §4.8's schema-synthesis/
// schema-directed modes both produce a root Type directly, and
// pkg/product.OpenTree wraps that root in a Definition it builds itself.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]*Definition
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*Definition)}
}

// Register adds or replaces a Definition.
func (r *Registry) Register(d *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[key(d.Class, d.Type, d.Version)] = d
}

// Load implements Loader.
func (r *Registry) Load(class, typ string, version int) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byKey[key(class, typ, version)]
	if !ok {
		return nil, errs.New(errs.DataDefinition, "codadef: no definition registered for %s/%s v%d", class, typ, version)
	}
	return d, nil
}

func key(class, typ string, version int) string {
	return class + "\x00" + typ + "\x00" + strconv.Itoa(version)
}
