package coerce

import (
	"math"
	"testing"

	"github.com/scicoda/coda/internal/typemodel"
)

func TestConversionApply(t *testing.T) {
	conv := &typemodel.Conversion{Numerator: 2, Denominator: 4, AddOffset: 1}
	if got := ApplyConversion(10, conv); got != 6 {
		t.Errorf("got %v, want 6 (10*2/4+1)", got)
	}
}

func TestConversionApplyInvalidSentinel(t *testing.T) {
	conv := &typemodel.Conversion{Numerator: 1, Denominator: 1, InvalidSet: true, InvalidValue: -999}
	if got := ApplyConversion(-999, conv); !math.IsNaN(got) {
		t.Errorf("expected NaN at the invalid sentinel, got %v", got)
	}
	if got := ApplyConversion(5, conv); got != 5 {
		t.Errorf("got %v, want 5 for a non-sentinel value", got)
	}
}

func TestEffectiveReadType(t *testing.T) {
	tests := []struct {
		name               string
		stored             typemodel.ReadType
		hasConversion      bool
		conversionsEnabled bool
		want               typemodel.ReadType
	}{
		{"no conversion declared", typemodel.RTInt32, false, true, typemodel.RTInt32},
		{"conversion disabled by options", typemodel.RTInt32, true, false, typemodel.RTInt32},
		{"conversion enabled and declared", typemodel.RTInt32, true, true, typemodel.RTDouble},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveReadType(tt.stored, tt.hasConversion, tt.conversionsEnabled); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
