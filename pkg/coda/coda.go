// Package coda is the public facade: the reference-counted Init/Done
// lifecycle (spec.md §4.9, §5: "the global init function must be called
// before first use; it is reference-counted and the final shutdown
// releases all loaded definitions"), error codes, definition-path
// search, and the Product/Cursor handles every other package in this
// module exists to serve.
//
// Concurrency follows spec.md §5: Init/Done and the definition-path
// state are process-wide and guarded by a mutex (there is no portable
// per-OS-thread storage in Go; see pkg/options's package doc for the
// same tradeoff), while every Product/Cursor handle remains
// single-threaded-per-handle, exactly as pkg/product and pkg/cursor
// already implement it.
package coda

import (
	"os"
	"sync"

	"github.com/scicoda/coda/internal/codadef"
	"github.com/scicoda/coda/internal/errs"
)

// Logger is the optional hook Init/Done and definition-path resolution
// report through; nil (the default) discards everything.
type Logger func(format string, args ...any)

var (
	mu       sync.Mutex
	refCount int
	logger   Logger

	// definitions is the process-wide definition registry Init creates
	// and Done tears down (spec.md §5: "the last done releases ... the
	// definition-path ... and any memoized empty singletons").
	definitions *codadef.Registry

	// definitionPath is the resolved search path SetDefinitionPath /
	// SetDefinitionPathConditional last set, or "" if neither has run
	// and CODA_DEFINITION is unset.
	definitionPath string
)

// SetLogger installs (or, with nil, removes) the diagnostic hook Init,
// Done, and the definition-path functions report through.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func logf(format string, args ...any) {
	if logger != nil {
		logger(format, args...)
	}
}

// Init must be called before any Product is opened. It is reference
// counted: N calls to Init require N calls to Done before the
// process-wide state it owns (the definition registry and the definition
// path) is released. The first call performs the
// actual setup; later calls only bump the count.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	refCount++
	if refCount > 1 {
		logf("coda: init (refcount now %d)", refCount)
		return nil
	}
	definitions = codadef.NewRegistry()
	if env := os.Getenv(envDefinitionPath); env != "" {
		definitionPath = env
	}
	logf("coda: init (first caller, refcount 1)")
	return nil
}

// Done releases one reference taken by Init. The last Done resets every
// piece of process-wide state Init set up; Product handles still open at
// that point are left dangling, exactly as spec.md §5 warns ("dangling
// handles after shutdown are undefined behavior") — Done does not (and
// cannot, without tracking every handle) close them.
func Done() error {
	mu.Lock()
	defer mu.Unlock()
	if refCount == 0 {
		return errs.New(errs.InvalidArgument, "coda: done called without a matching init")
	}
	refCount--
	if refCount > 0 {
		logf("coda: done (refcount now %d)", refCount)
		return nil
	}
	definitions = nil
	definitionPath = ""
	logf("coda: done (last caller, state released)")
	return nil
}

// RefCount reports the current Init/Done reference count, for tests and
// diagnostics.
func RefCount() int {
	mu.Lock()
	defer mu.Unlock()
	return refCount
}

// requireInit returns an error if Init has not (yet, or any longer) been
// called; every operation that touches process-wide state checks this
// first.
func requireInit() error {
	if refCount == 0 {
		return errs.New(errs.InvalidArgument, "coda: library not initialized, call coda.Init first")
	}
	return nil
}

// Definitions returns the process-wide definition registry Init
// constructed, for registering synthesized or programmatically-built
// definitions before opening a Product against them. Returns an error if
// Init has not been called.
func Definitions() (*codadef.Registry, error) {
	mu.Lock()
	defer mu.Unlock()
	if err := requireInit(); err != nil {
		return nil, err
	}
	return definitions, nil
}
