// Package options implements the thread-local boolean flags of spec.md
// §4.9 ("Option state (C9)"). Go has no portable goroutine-local storage,
// so this module narrows the source's "per-OS-thread" semantics to
// "explicit value threaded through Cursor/Product, with a process-wide
// default overlay" — the direction spec.md §9's design notes recommend
// ("retain a TLS default for API compatibility but make it an overlay,
// not the source of truth"). Callers needing per-goroutine isolation set
// Options explicitly on each Cursor rather than relying on the default.
package options

import "sync/atomic"

// Options gates conversions, boundary checks, mmap use, fast-size
// expressions, and special-type bypass (spec.md §4.9).
type Options struct {
	BypassSpecialTypes     bool
	PerformBoundaryChecks  bool
	PerformConversions     bool
	UseFastSizeExpressions bool
	UseMmap                bool
}

// Default matches spec.md §4.9's stated defaults: bypass_special_types=0,
// perform_boundary_checks=1, perform_conversions=1,
// use_fast_size_expressions=1, use_mmap=1.
func Default() Options {
	return Options{
		BypassSpecialTypes:     false,
		PerformBoundaryChecks:  true,
		PerformConversions:     true,
		UseFastSizeExpressions: true,
		UseMmap:                true,
	}
}

// processDefault is the package-level overlay standing in for the
// source's thread-local default: every newly opened Product/Cursor that
// does not pass explicit Options inherits this snapshot at construction
// time. It is process-wide, not per-goroutine — see the package doc for
// why, and pkg/product's Open for where it is captured.
var processDefault atomic.Value

func init() {
	processDefault.Store(Default())
}

// SetDefault replaces the process-wide default overlay. Per spec.md
// §4.9, changing use_mmap "affects only subsequently opened products" —
// callers must call SetDefault before Open, not after.
func SetDefault(o Options) {
	processDefault.Store(o)
}

// GetDefault returns the current process-wide default overlay.
func GetDefault() Options {
	return processDefault.Load().(Options)
}
