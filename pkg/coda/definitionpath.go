package coda

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/scicoda/coda/internal/errs"
)

// envDefinitionPath is spec.md §6's CODA_DEFINITION environment variable:
// when set, it always wins over SetDefinitionPathConditional.
const envDefinitionPath = "CODA_DEFINITION"

// SetDefinitionPath unconditionally sets the process-wide search path
// definitions are resolved against, overriding CODA_DEFINITION.
func SetDefinitionPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	definitionPath = path
	logf("coda: definition path set to %q", path)
}

// SetDefinitionPathConditional implements spec.md §6's
// set_definition_path_conditional: it only takes effect when
// CODA_DEFINITION is unset in the environment. When it applies, it
// searches each directory named in searchPath (a PATH-like string, its
// entries separated by os.PathListSeparator) for file; the first
// directory containing file wins, and the definition path is set to that
// directory with relativeLocation appended. Typical use passes
// os.Args[0] as file and "PATH" as the environment variable supplying
// searchPath, so the definitions directory is found relative to the
// running executable regardless of its install location.
func SetDefinitionPathConditional(file, searchPath, relativeLocation string) error {
	mu.Lock()
	defer mu.Unlock()

	if os.Getenv(envDefinitionPath) != "" {
		logf("coda: %s is set, leaving definition path untouched", envDefinitionPath)
		return nil
	}

	dir, err := searchForFile(file, searchPath)
	if err != nil {
		return err
	}
	definitionPath = filepath.Join(dir, relativeLocation)
	logf("coda: definition path conditionally set to %q (found %q in %q)", definitionPath, file, dir)
	return nil
}

// searchForFile walks each directory in a PATH-like string looking for
// file, returning the first directory in which it exists. An empty file
// is an InvalidArgument error; an absolute file is checked directly
// without consulting searchPath.
func searchForFile(file, searchPath string) (string, error) {
	if file == "" {
		return "", errs.New(errs.InvalidArgument, "coda: set_definition_path_conditional requires a non-empty file")
	}
	if filepath.IsAbs(file) {
		if _, err := os.Stat(file); err == nil {
			return filepath.Dir(file), nil
		}
		return "", errs.New(errs.DataDefinition, "coda: %q not found", file)
	}

	for _, dir := range strings.Split(searchPath, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, file)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}
	}
	return "", errs.New(errs.DataDefinition, "coda: %q not found in any directory of the search path", file)
}

// DefinitionPath reports the search path currently in effect, for tests
// and diagnostics.
func DefinitionPath() string {
	mu.Lock()
	defer mu.Unlock()
	return definitionPath
}
