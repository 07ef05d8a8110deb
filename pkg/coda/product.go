package coda

import (
	"github.com/scicoda/coda/internal/codadef"
	"github.com/scicoda/coda/pkg/options"
	"github.com/scicoda/coda/pkg/product"
)

// Product is an open product handle, re-exported from pkg/product so
// callers of this facade need only this one import.
type Product = product.Product

// Open reads the file at path and binds it to def, failing if Init has
// not been called (spec.md §4.9: "the global init function must be
// called before first use").
func Open(path string, def *codadef.Definition, opts ...options.Options) (*Product, error) {
	mu.Lock()
	err := requireInit()
	mu.Unlock()
	if err != nil {
		return nil, err
	}
	return product.Open(path, def, opts...)
}

// OpenMemory binds an in-memory byte buffer to def without touching the
// filesystem, failing if Init has not been called.
func OpenMemory(name string, data []byte, def *codadef.Definition, opts ...options.Options) (*Product, error) {
	mu.Lock()
	err := requireInit()
	mu.Unlock()
	if err != nil {
		return nil, err
	}
	return product.OpenMemory(name, data, def, opts...), nil
}
