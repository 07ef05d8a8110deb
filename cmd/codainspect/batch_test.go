package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scicoda/coda/pkg/coda"
)

// TestMain brackets the whole package's tests with a single Init/Done pair
// so openProduct (which now routes raw files through coda.OpenMemory) keeps
// working outside of the execute() call that does this in production.
func TestMain(m *testing.M) {
	if err := coda.Init(); err != nil {
		panic(err)
	}
	code := m.Run()
	if err := coda.Done(); err != nil {
		panic(err)
	}
	os.Exit(code)
}

func TestScanOneReportsMetadataForRawFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "granule.bin")
	if err := os.WriteFile(path, []byte("abcdef"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := scanOne(path)
	if r.err != nil {
		t.Fatalf("scanOne: %v", r.err)
	}
	if r.class != "raw" || r.typ != "bytes" {
		t.Errorf("got class/type %s/%s, want raw/bytes", r.class, r.typ)
	}
	if r.size != 6 {
		t.Errorf("got size %d, want 6", r.size)
	}
}

func TestScanOneReportsOpenFailure(t *testing.T) {
	r := scanOne(filepath.Join(t.TempDir(), "does-not-exist.bin"))
	if r.err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestRunBatchFailsWhenAnyFileFails(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.bin")
	if err := os.WriteFile(ok, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	missing := filepath.Join(dir, "missing.bin")

	jsonOut = true
	defer func() { jsonOut = false }()

	if err := runBatch([]string{ok, missing}); err == nil {
		t.Fatal("expected runBatch to report a failure when one file is missing")
	}
}
