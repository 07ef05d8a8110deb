package coda

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetDefinitionPath(t *testing.T) {
	SetDefinitionPath("/opt/definitions")
	if got := DefinitionPath(); got != "/opt/definitions" {
		t.Errorf("DefinitionPath = %q, want /opt/definitions", got)
	}
}

func TestSetDefinitionPathConditionalFindsFileOnSearchPath(t *testing.T) {
	os.Unsetenv(envDefinitionPath)

	dirA := t.TempDir()
	dirB := t.TempDir()
	marker := filepath.Join(dirB, "product.codadef")
	if err := os.WriteFile(marker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	searchPath := dirA + string(os.PathListSeparator) + dirB
	if err := SetDefinitionPathConditional("product.codadef", searchPath, "definitions"); err != nil {
		t.Fatalf("SetDefinitionPathConditional: %v", err)
	}

	want := filepath.Join(dirB, "definitions")
	if got := DefinitionPath(); got != want {
		t.Errorf("DefinitionPath = %q, want %q", got, want)
	}
}

func TestSetDefinitionPathConditionalFailsWhenNotFound(t *testing.T) {
	os.Unsetenv(envDefinitionPath)
	dir := t.TempDir()
	if err := SetDefinitionPathConditional("nonexistent.codadef", dir, "definitions"); err == nil {
		t.Fatal("expected an error when the search file cannot be found")
	}
}

func TestSetDefinitionPathConditionalYieldsToEnvVar(t *testing.T) {
	t.Setenv(envDefinitionPath, "/from/env")
	SetDefinitionPath("/previous")

	if err := SetDefinitionPathConditional("anything", t.TempDir(), "definitions"); err != nil {
		t.Fatalf("SetDefinitionPathConditional: %v", err)
	}
	if got := DefinitionPath(); got != "/previous" {
		t.Errorf("DefinitionPath changed to %q, want unchanged /previous", got)
	}
}
