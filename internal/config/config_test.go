package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// writeConfig writes a cfg.txt into a temporary directory and isolates HOME
// so that no user configuration is picked up.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// TestLoadDefaults tests that unset keys fall back to defaults
func TestLoadDefaults(t *testing.T) {
	file := writeConfig(t, "path=/books/novel.txt\n")

	cfg, err := Load(file, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Path != filepath.Clean("/books/novel.txt") {
		t.Errorf("Expected path '/books/novel.txt', got '%s'", cfg.Path)
	}
	if cfg.Size != 5 {
		t.Errorf("Expected size 5, got %d", cfg.Size)
	}
	if cfg.Mark {
		t.Error("Expected mark to be false")
	}
	if cfg.Hide {
		t.Error("Expected hide to be false")
	}
	if cfg.Port != 8996 {
		t.Errorf("Expected port 8996, got %d", cfg.Port)
	}
	if cfg.Addr() != "127.0.0.1:8996" {
		t.Errorf("Expected addr '127.0.0.1:8996', got '%s'", cfg.Addr())
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Expected read timeout 30s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.IdleTimeout != 60*time.Second {
		t.Errorf("Expected idle timeout 60s, got %v", cfg.Server.IdleTimeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected log level 'info', got '%s'", cfg.Log.Level)
	}
	if cfg.Journal.Enabled {
		t.Error("Expected journal to be disabled")
	}
	if cfg.File != file {
		t.Errorf("Expected file '%s', got '%s'", file, cfg.File)
	}
}

// TestLoadKeyValueFile tests the hand-written cfg.txt format
func TestLoadKeyValueFile(t *testing.T) {
	file := writeConfig(t, strings.Join([]string{
		"# reader settings",
		"",
		"path = /books/a=b.txt",
		"size= 12",
		"mark =YES",
		"hide=0",
		"port=9001",
		"not a setting",
		"log.level=DEBUG",
		"server.read_timeout=10s",
	}, "\n"))

	cfg, err := Load(file, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Path != filepath.Clean("/books/a=b.txt") {
		t.Errorf("Expected value split on first '=', got '%s'", cfg.Path)
	}
	if cfg.Size != 12 {
		t.Errorf("Expected size 12, got %d", cfg.Size)
	}
	if !cfg.Mark {
		t.Error("Expected mark=YES to be true")
	}
	if cfg.Hide {
		t.Error("Expected hide=0 to be false")
	}
	if cfg.Port != 9001 {
		t.Errorf("Expected port 9001, got %d", cfg.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected normalized log level 'debug', got '%s'", cfg.Log.Level)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("Expected read timeout 10s, got %v", cfg.Server.ReadTimeout)
	}
}

// TestLoadPrecedence tests env and flag overrides
func TestLoadPrecedence(t *testing.T) {
	t.Run("Environment variables override file", func(t *testing.T) {
		file := writeConfig(t, "path=/books/novel.txt\nsize=3\n")
		t.Setenv("PAGEREADER_SIZE", "7")
		t.Setenv("PAGEREADER_MARK", "yes")
		t.Setenv("PAGEREADER_LOG_LEVEL", "warn")

		cfg, err := Load(file, nil)
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if cfg.Size != 7 {
			t.Errorf("Expected size 7, got %d", cfg.Size)
		}
		if !cfg.Mark {
			t.Error("Expected mark to be true")
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("Expected log level 'warn', got '%s'", cfg.Log.Level)
		}
	})

	t.Run("Flags override environment", func(t *testing.T) {
		file := writeConfig(t, "path=/books/novel.txt\nport=9001\n")
		t.Setenv("PAGEREADER_PORT", "9002")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("port", 0, "")
		if err := flags.Parse([]string{"--port", "9003"}); err != nil {
			t.Fatalf("Failed to parse flags: %v", err)
		}

		cfg, err := Load(file, flags)
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if cfg.Port != 9003 {
			t.Errorf("Expected port 9003, got %d", cfg.Port)
		}
	})

	t.Run("Unset flags do not override", func(t *testing.T) {
		file := writeConfig(t, "path=/books/novel.txt\nsize=4\n")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("size", 99, "")
		if err := flags.Parse(nil); err != nil {
			t.Fatalf("Failed to parse flags: %v", err)
		}

		cfg, err := Load(file, flags)
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if cfg.Size != 4 {
			t.Errorf("Expected size 4, got %d", cfg.Size)
		}
	})
}

// TestLoadValidation tests that invalid configurations are rejected
func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errPart string
	}{
		{"Missing path", "size=5\n", "path is required"},
		{"Zero size", "path=/b.txt\nsize=0\n", "size must be greater than 0"},
		{"Huge size", "path=/b.txt\nsize=5000\n", "size too large"},
		{"Port out of range", "path=/b.txt\nport=70000\n", "port out of range"},
		{"Invalid host", "path=/b.txt\nhost=not a host\n", "host must be"},
		{"Invalid log level", "path=/b.txt\nlog.level=verbose\n", "log.level must be one of"},
		{"Timeout too small", "path=/b.txt\nserver.read_timeout=10ms\n", "server.read_timeout too small"},
		{"Journal path escape", "path=/b.txt\njournal.enabled=true\njournal.path=../x.db\n", "journal.path cannot contain"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			file := writeConfig(t, tc.content)
			_, err := Load(file, nil)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("Expected error containing '%s', got '%v'", tc.errPart, err)
			}
		})
	}

	t.Run("Explicit file must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.txt"), nil)
		if err == nil || !strings.Contains(err.Error(), "config file error") {
			t.Errorf("Expected config file error, got %v", err)
		}
	})
}

// TestRelativePath tests that the book path is made absolute
func TestRelativePath(t *testing.T) {
	file := writeConfig(t, "path=books/novel.txt\n")

	cfg, err := Load(file, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if !filepath.IsAbs(cfg.Path) {
		t.Errorf("Expected absolute path, got '%s'", cfg.Path)
	}
	if !strings.HasSuffix(cfg.Path, filepath.Join("books", "novel.txt")) {
		t.Errorf("Expected path to end with books/novel.txt, got '%s'", cfg.Path)
	}
}

func TestParseKeyValue(t *testing.T) {
	values, err := parseKeyValue(strings.NewReader("\ufeffPath=/x\nlog.level=debug\nlog.file=/tmp/r.log\n=orphan\n"))
	if err == nil {
		t.Fatal("Expected error for empty key, got nil")
	}
	if values != nil {
		t.Errorf("Expected nil values on error, got %v", values)
	}

	values, err = parseKeyValue(strings.NewReader("\ufeffPath=/x\nlog.level=debug\nlog.file=/tmp/r.log\n"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if values["path"] != "/x" {
		t.Errorf("Expected path '/x', got %v", values["path"])
	}
	logValues, ok := values["log"].(map[string]any)
	if !ok {
		t.Fatalf("Expected nested log map, got %T", values["log"])
	}
	if logValues["level"] != "debug" || logValues["file"] != "/tmp/r.log" {
		t.Errorf("Unexpected log values: %v", logValues)
	}
}

func TestParseFlag(t *testing.T) {
	testCases := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{" Yes ", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"on", false},
		{"", false},
	}
	for _, tc := range testCases {
		if got := parseFlag(tc.value); got != tc.expected {
			t.Errorf("parseFlag(%q): expected %v, got %v", tc.value, tc.expected, got)
		}
	}
}
