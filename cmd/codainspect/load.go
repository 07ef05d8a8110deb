package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scicoda/coda/internal/codadef"
	"github.com/scicoda/coda/internal/typemodel"
	"github.com/scicoda/coda/internal/xmlschema"
	"github.com/scicoda/coda/pkg/coda"
	"github.com/scicoda/coda/pkg/product"
)

// openProduct opens path against a definition this module can construct
// without a .codadef archive reader (out of scope, see DESIGN.md): XML
// documents go through schema synthesis (internal/xmlschema), every other
// extension opens as a flat byte array over the "memory" format so its raw
// content is still navigable.
func openProduct(path string) (*product.Product, error) {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return openXML(path)
	}
	return openRaw(path)
}

func openXML(path string) (*product.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("codainspect: %w", err)
	}
	defer f.Close()

	root, node, err := xmlschema.Synthesize(f)
	if err != nil {
		return nil, fmt.Errorf("codainspect: synthesizing schema for %s: %w", path, err)
	}
	return product.OpenTree(path, root, node), nil
}

func openRaw(path string) (*product.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("codainspect: %w", err)
	}

	byteType, err := typemodel.NewNumber("byte", typemodel.ClassInteger, typemodel.RTUint8,
		typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 8}, nil, typemodel.FormatMemory, "", false, nil)
	if err != nil {
		return nil, err
	}
	arr, err := typemodel.NewArray("contents", typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: int64(len(data)) * 8},
		nil, typemodel.FormatMemory, byteType, 1, []typemodel.Dim{{Literal: int64(len(data))}}, typemodel.OrderC)
	if err != nil {
		return nil, err
	}

	def := &codadef.Definition{Class: "raw", Type: "bytes", Version: 1, Root: arr}
	return coda.OpenMemory(path, data, def)
}
