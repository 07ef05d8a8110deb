package codadef

import (
	"testing"

	"github.com/scicoda/coda/internal/typemodel"
)

func dummyType(t *testing.T) typemodel.Type {
	t.Helper()
	ty, err := typemodel.NewNumber("x", typemodel.ClassInteger, typemodel.RTInt32,
		typemodel.BitSize{Kind: typemodel.BitSizeLiteral, Literal: 32}, nil, typemodel.FormatBinary, "", false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ty
}

func TestRegistryRegisterAndLoad(t *testing.T) {
	r := NewRegistry()
	def := &Definition{Class: "product", Type: "foo", Version: 2, Root: dummyType(t)}
	r.Register(def)

	got, err := r.Load("product", "foo", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != def {
		t.Error("Load returned a different Definition than was registered")
	}
}

func TestRegistryLoadUnknownTriple(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Load("product", "missing", 1); err == nil {
		t.Fatal("expected an error loading an unregistered definition")
	}
}

func TestRegistryVersionsAreDistinctKeys(t *testing.T) {
	r := NewRegistry()
	v1 := &Definition{Class: "p", Type: "t", Version: 1, Root: dummyType(t)}
	v2 := &Definition{Class: "p", Type: "t", Version: 2, Root: dummyType(t)}
	r.Register(v1)
	r.Register(v2)

	got1, err := r.Load("p", "t", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got1 != v1 {
		t.Error("version 1 lookup returned the wrong Definition")
	}

	got2, err := r.Load("p", "t", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got2 != v2 {
		t.Error("version 2 lookup returned the wrong Definition")
	}
}

func TestRegistryNegativeVersion(t *testing.T) {
	r := NewRegistry()
	def := &Definition{Class: "p", Type: "t", Version: -5, Root: dummyType(t)}
	r.Register(def)
	got, err := r.Load("p", "t", -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != def {
		t.Error("negative-version lookup returned the wrong Definition")
	}
}
