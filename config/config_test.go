package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestXKBFromEnv(t *testing.T) {
	t.Setenv("XKB_DEFAULT_LAYOUT", "us")
	t.Setenv("XKB_DEFAULT_VARIANT", "dvorak")
	xkb := XKBFromEnv()
	if xkb.Layout != "us" || xkb.Variant != "dvorak" {
		t.Fatalf("unexpected xkb config: %+v", xkb)
	}
}

func TestExportCursorEnv(t *testing.T) {
	if err := ExportCursorEnv("Adwaita", 32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if os.Getenv("XCURSOR_THEME") != "Adwaita" || os.Getenv("XCURSOR_SIZE") != "32" {
		t.Fatalf("expected exported cursor env vars")
	}
}

func TestFindInitPrefersXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	initPath := filepath.Join(dir, "waytile", "init")
	if err := os.MkdirAll(filepath.Dir(initPath), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(initPath, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if got := FindInit(); got != initPath {
		t.Fatalf("expected %q, got %q", initPath, got)
	}
}

func TestFindInitSkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", "/nonexistent-home-for-test")

	initPath := filepath.Join(dir, "waytile", "init")
	if err := os.MkdirAll(filepath.Dir(initPath), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(initPath, []byte("not executable"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if got := FindInit(); got != "" {
		t.Fatalf("expected no init file found, got %q", got)
	}
}
