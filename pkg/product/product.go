// Package product implements the product handle: spec.md §5's "open a
// file, bind it to a definition, hand back a root cursor" lifecycle. It
// is the sole implementer of pkg/cursor.Product, and the only package
// that decides mmap vs buffered access (pkg/options.UseMmap) and owns a
// product's reference count and variable ($name) storage.
package product

import (
	"os"

	"github.com/scicoda/coda/internal/backend"
	"github.com/scicoda/coda/internal/codadef"
	"github.com/scicoda/coda/internal/dynamictype"
	"github.com/scicoda/coda/internal/errs"
	"github.com/scicoda/coda/internal/mmfile"
	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/pkg/cursor"
	"github.com/scicoda/coda/pkg/options"
)

// memSource is a backend.Source over an already-resident byte slice,
// used both for UseMmap=false products and for FormatMemory products
// that were never backed by a file at all (spec.md §1's "memory" format).
type memSource struct{ data []byte }

func (s memSource) Bytes() []byte { return s.data }

// Product is an open product handle (spec.md §5). Its zero value is not
// usable; construct one with Open or OpenMemory.
type Product struct {
	path    string
	def     *codadef.Definition
	source  backend.Source
	cleanup func() error
	root    *dynamictype.Node
	opts    options.Options

	refCount int

	vars map[string][]int64
}

// Open reads (or maps, per pkg/options.UseMmap) the file at path and
// binds it to def, per spec.md §5's open_product. The definition itself
// is never loaded from a .codadef archive by this module (spec.md §1
// scopes that out); callers resolve one via internal/codadef.Loader, or
// one of internal/xmlschema's Synthesize/Validate, before calling Open.
func Open(path string, def *codadef.Definition, opts ...options.Options) (*Product, error) {
	o := options.GetDefault()
	if len(opts) > 0 {
		o = opts[0]
	}

	var data []byte
	var cleanup func() error
	if o.UseMmap {
		d, c, err := mmfile.Map(path)
		if err != nil {
			return nil, errs.New(errs.FileRead, "product: %v", err)
		}
		data, cleanup = d, c
	} else {
		d, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.New(errs.FileRead, "product: %v", err)
		}
		data, cleanup = d, func() error { return nil }
	}

	p := &Product{
		path:     path,
		def:      def,
		source:   memSource{data: data},
		cleanup:  cleanup,
		opts:     o,
		refCount: 1,
		vars:     make(map[string][]int64),
	}
	p.root = &dynamictype.Node{Type: def.Root, BitOffset: 0, BitSize: int64(len(data)) * 8}
	return p, nil
}

// OpenMemory binds an in-memory byte buffer to def without touching the
// filesystem, spec.md §1's "memory" format ("read binary data already
// resident in the caller's address space, rather than a file").
func OpenMemory(name string, data []byte, def *codadef.Definition, opts ...options.Options) *Product {
	o := options.GetDefault()
	if len(opts) > 0 {
		o = opts[0]
	}
	p := &Product{
		path:     name,
		def:      def,
		source:   memSource{data: data},
		cleanup:  func() error { return nil },
		opts:     o,
		refCount: 1,
		vars:     make(map[string][]int64),
	}
	p.root = &dynamictype.Node{Type: def.Root, BitOffset: 0, BitSize: int64(len(data)) * 8}
	return p
}

// OpenTree wraps an already-constructed (Type, Node) pair directly — the
// path internal/xmlschema's Synthesize/Validate returns through, since an
// XML product's dynamic-type tree is built by the parser itself rather
// than resolved lazily from a static definition (spec.md §4.8).
func OpenTree(name string, root typemodel.Type, node *dynamictype.Node, opts ...options.Options) *Product {
	o := options.GetDefault()
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Product{
		path:     name,
		def:      &codadef.Definition{Class: "xml", Type: root.Name(), Root: root},
		source:   memSource{},
		cleanup:  func() error { return nil },
		root:     node,
		opts:     o,
		refCount: 1,
		vars:     make(map[string][]int64),
	}
}

// Dup increments the reference count (spec.md §5's "reference-counted
// init/done": multiple logical opens of the same handle share one
// mapping). Close must be called once per Dup (and once for Open itself).
func (p *Product) Dup() *Product {
	p.refCount++
	return p
}

// Close implements spec.md §5's done: decrements the reference count,
// unmapping/releasing the underlying bytes only when it reaches zero.
func (p *Product) Close() error {
	p.refCount--
	if p.refCount > 0 {
		return nil
	}
	return p.cleanup()
}

// NewCursor returns a cursor positioned at the product's root, per
// spec.md §4.3's set_product.
func (p *Product) NewCursor() (*cursor.Cursor, error) {
	return cursor.SetProduct(p)
}

// RootNode implements pkg/cursor.Product.
func (p *Product) RootNode() *dynamictype.Node { return p.root }

// Source implements pkg/cursor.Product.
func (p *Product) Source() backend.Source { return p.source }

// FileSize implements pkg/cursor.Product and pkg/expr.Host (via Cursor).
func (p *Product) FileSize() (int64, error) { return int64(len(p.source.Bytes())), nil }

// FileName implements pkg/cursor.Product.
func (p *Product) FileName() string { return p.path }

// ProductClass implements pkg/cursor.Product.
func (p *Product) ProductClass() string { return p.def.Class }

// ProductType implements pkg/cursor.Product.
func (p *Product) ProductType() string { return p.def.Type }

// ProductFormat implements pkg/cursor.Product.
func (p *Product) ProductFormat() string { return p.root.Type.Format().String() }

// ProductVersion implements pkg/cursor.Product.
func (p *Product) ProductVersion() int { return p.def.Version }

// Options implements pkg/cursor.Product.
func (p *Product) Options() options.Options { return p.opts }

// SetOptions replaces this product's Options (spec.md §4.9: per-handle
// overrides of the process-wide default, set at Open time or later).
func (p *Product) SetOptions(o options.Options) { p.opts = o }

// VarGet implements pkg/cursor.Product and pkg/expr.Host's $name[idx]
// product-variable reads (spec.md §4.9's glossary "product variable").
// idx == nil addresses the scalar (index-less) variable.
func (p *Product) VarGet(name string, idx *int64) (int64, error) {
	vals, ok := p.vars[name]
	if !ok {
		return 0, errs.New(errs.InvalidArgument, "product: no variable named %q", name)
	}
	i := int64(0)
	if idx != nil {
		i = *idx
	}
	if i < 0 || int(i) >= len(vals) {
		return 0, errs.New(errs.InvalidIndex, "product: variable %q index %d out of range [0,%d)", name, i, len(vals))
	}
	return vals[i], nil
}

// VarSet implements pkg/cursor.Product; setting past the end of an
// existing variable extends it, per spec.md §4.9's "variables may grow".
func (p *Product) VarSet(name string, idx *int64, val int64) error {
	i := int64(0)
	if idx != nil {
		i = *idx
	}
	if i < 0 {
		return errs.New(errs.InvalidIndex, "product: variable %q index %d negative", name, i)
	}
	vals := p.vars[name]
	if int(i) >= len(vals) {
		grown := make([]int64, i+1)
		copy(grown, vals)
		vals = grown
	}
	vals[i] = val
	p.vars[name] = vals
	return nil
}

// VarSize implements pkg/cursor.Product.
func (p *Product) VarSize(name string) (int64, error) {
	vals, ok := p.vars[name]
	if !ok {
		return 0, errs.New(errs.InvalidArgument, "product: no variable named %q", name)
	}
	return int64(len(vals)), nil
}

// DeclareVar pre-registers a product variable of the given length, all
// zero-initialized (spec.md §4.9: variables referenced by name in
// expressions must exist before a definition's expressions can use them).
func (p *Product) DeclareVar(name string, length int64) {
	p.vars[name] = make([]int64, length)
}
