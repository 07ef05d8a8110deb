package coda

import "testing"

// resetState is a test helper undoing any Init/Done imbalance a prior
// test in this package left behind.
func resetState(t *testing.T) {
	t.Helper()
	for RefCount() > 0 {
		if err := Done(); err != nil {
			t.Fatalf("resetState: Done: %v", err)
		}
	}
}

func TestInitDoneIsReferenceCounted(t *testing.T) {
	resetState(t)
	defer resetState(t)

	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := Init(); err != nil {
		t.Fatalf("Init (second): %v", err)
	}
	if got := RefCount(); got != 2 {
		t.Fatalf("RefCount = %d, want 2", got)
	}

	if err := Done(); err != nil {
		t.Fatalf("Done (first): %v", err)
	}
	if got := RefCount(); got != 1 {
		t.Fatalf("RefCount = %d, want 1", got)
	}
	if _, err := Definitions(); err != nil {
		t.Fatalf("Definitions still live at refcount 1: %v", err)
	}

	if err := Done(); err != nil {
		t.Fatalf("Done (last): %v", err)
	}
	if got := RefCount(); got != 0 {
		t.Fatalf("RefCount = %d, want 0", got)
	}
	if _, err := Definitions(); err == nil {
		t.Fatal("expected Definitions to fail after the last Done")
	}
}

func TestDoneWithoutInitFails(t *testing.T) {
	resetState(t)
	if err := Done(); err == nil {
		t.Fatal("expected Done without a matching Init to fail")
	}
}

func TestOpenRequiresInit(t *testing.T) {
	resetState(t)
	if _, err := OpenMemory("test", []byte("x"), nil); err == nil {
		t.Fatal("expected OpenMemory before Init to fail")
	}
}
