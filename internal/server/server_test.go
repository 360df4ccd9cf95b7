package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pagereader/internal/config"
)

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	book := filepath.Join(dir, "book.txt")
	if err := os.WriteFile(book, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatalf("Failed to write book: %v", err)
	}
	return &config.Config{
		Path: book,
		Size: 5,
		Host: "127.0.0.1",
		Port: freePort(t),
		Server: config.ServerConfig{
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
		},
		Journal: config.JournalConfig{
			Path:      filepath.Join(dir, "data", "journal.db"),
			Retention: time.Hour,
		},
	}
}

// waitForListener polls addr until the HTTP server accepts connections.
func waitForListener(t *testing.T, addr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("Server did not start listening on %s", addr)
}

// TestServerLifecycle tests startup and graceful shutdown
func TestServerLifecycle(t *testing.T) {
	for _, journal := range []bool{false, true} {
		cfg := testConfig(t)
		cfg.Journal.Enabled = journal

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- New(cfg, "test").Start(ctx)
		}()

		waitForListener(t, cfg.Addr())
		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Journal %v: expected clean shutdown, got: %v", journal, err)
			}
		case <-time.After(shutdownTimeout + time.Second):
			t.Fatalf("Journal %v: server did not stop", journal)
		}

		if _, err := os.Stat(cfg.Journal.Path); (err == nil) != journal {
			t.Errorf("Journal %v: unexpected journal file state: %v", journal, err)
		}
	}
}

// TestServerPortInUse tests that a listen failure is reported
func TestServerPortInUse(t *testing.T) {
	cfg := testConfig(t)
	l, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		t.Fatalf("Failed to occupy port: %v", err)
	}
	defer l.Close()

	done := make(chan error, 1)
	go func() {
		done <- New(cfg, "test").Start(context.Background())
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Expected error for occupied port, got nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not report the occupied port")
	}
}
