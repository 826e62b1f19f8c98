package profile

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateDefaultsSQLiteDSN(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{
		Mode:   "dev",
		Data:   dir,
		Driver: "sqlite",
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	want := filepath.Join(dir, "vocavault_dev.db")
	if p.DSN != want {
		t.Errorf("DSN: expected %q, got %q", want, p.DSN)
	}
	if p.Version == "" {
		t.Error("Version should be populated by Validate()")
	}
}

func TestValidateUnknownModeFallsBackToDemo(t *testing.T) {
	p := &Profile{
		Mode:   "staging",
		Data:   t.TempDir(),
		Driver: "sqlite",
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if p.Mode != "demo" {
		t.Errorf("Mode: expected %q, got %q", "demo", p.Mode)
	}
}

func TestValidatePostgresRequiresDSN(t *testing.T) {
	p := &Profile{
		Mode:   "dev",
		Data:   t.TempDir(),
		Driver: "postgres",
	}
	err := p.Validate()
	if err == nil {
		t.Fatal("Validate() should fail when postgres driver has no DSN")
	}
	if !strings.Contains(err.Error(), "dsn") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateTrimsTrailingSlash(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{
		Mode:   "dev",
		Data:   dir + "/",
		Driver: "sqlite",
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if p.Data != dir {
		t.Errorf("Data: expected %q, got %q", dir, p.Data)
	}
}
