package coda

import "testing"

func TestKindOfRecognizesPackageErrors(t *testing.T) {
	err := (&Error{Code: ErrInvalidIndex, Message: "boom"})
	if got := KindOf(err); got != ErrInvalidIndex {
		t.Errorf("KindOf = %v, want %v", got, ErrInvalidIndex)
	}
}

func TestKindOfDefaultsForForeignErrors(t *testing.T) {
	err := errUnrecognized{}
	if got := KindOf(err); got != ErrInvalidFormat {
		t.Errorf("KindOf = %v, want %v", got, ErrInvalidFormat)
	}
}

type errUnrecognized struct{}

func (errUnrecognized) Error() string { return "not ours" }
