package main

import (
	"fmt"

	"github.com/scicoda/coda/pkg/expr"
)

func formatValue(v expr.Value) string {
	switch v.Kind {
	case expr.KindBool:
		return fmt.Sprint(v.Bool)
	case expr.KindInt:
		return fmt.Sprint(v.Int)
	case expr.KindFloat:
		return fmt.Sprint(v.Float)
	case expr.KindString:
		return v.Str
	default:
		return fmt.Sprintf("%v", v)
	}
}
