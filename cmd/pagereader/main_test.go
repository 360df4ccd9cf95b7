package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)

	book := filepath.Join(dir, "book.txt")
	if err := os.WriteFile(book, []byte("one\n\ntwo\nthree\nfour\n"), 0o644); err != nil {
		t.Fatalf("Failed to write book: %v", err)
	}
	cfg := filepath.Join(dir, "cfg.txt")
	content := "path=" + book + "\nsize=2\nmark=yes\nlog.level=error\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return cfg
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// TestPageCommand tests printing a page without the server
func TestPageCommand(t *testing.T) {
	cfg := writeFixture(t)

	out, err := execute(t, "page", "1", "--config", cfg)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if out != "one  n\ntwo\n" {
		t.Errorf("Unexpected output: %q", out)
	}

	out, err = execute(t, "page", "1", "--config", cfg, "--size", "3", "--mark=false")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if out != "one\ntwo\nthree\n" {
		t.Errorf("Expected flags to override cfg.txt, got %q", out)
	}

	out, err = execute(t, "page", "9", "--config", cfg)
	if err != nil {
		t.Fatalf("Expected no error past the end, got: %v", err)
	}
	if out != "" {
		t.Errorf("Expected no output past the end, got %q", out)
	}
}

// TestPageCommandErrors tests argument and configuration failures
func TestPageCommandErrors(t *testing.T) {
	cfg := writeFixture(t)

	testCases := []struct {
		name string
		args []string
	}{
		{"Non-numeric page", []string{"page", "x", "--config", cfg}},
		{"Zero page", []string{"page", "0", "--config", cfg}},
		{"Missing argument", []string{"page", "--config", cfg}},
		{"Missing config file", []string{"page", "1", "--config", filepath.Join(t.TempDir(), "none.txt")}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := execute(t, tc.args...); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("Expected version %s in output, got %q", Version, out)
	}
}
