package config

import (
	"fmt"
	"net"
	"slices"
	"strings"
	"time"
)

// Package-level constants for performance optimization
var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal", "panic"}
)

// maxPageSize bounds the configured page size.
const maxPageSize = 1000

// validateConfig validates the configuration and returns an error if invalid.
func validateConfig(c *Config) error {
	for _, validate := range []func() error{
		func() error { return validateBookConfig(c) },
		func() error { return validateListenConfig(c.Host, c.Port) },
		func() error { return validateServerConfig(c.Server) },
		func() error { return validateLogConfig(c.Log) },
		func() error { return validateJournalConfig(c.Journal) },
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateBookConfig validates the book path and paging settings.
func validateBookConfig(c *Config) error {
	if c.Path == "" {
		return fmt.Errorf("path is required: create %s next to the executable with a line like path=/home/me/books/book.txt", FileName)
	}
	if c.Size < 1 {
		return fmt.Errorf("size must be greater than 0")
	}
	if c.Size > maxPageSize {
		return fmt.Errorf("size too large (max %d)", maxPageSize)
	}
	return nil
}

// validateListenConfig validates the listen host and port.
func validateListenConfig(host string, port int) error {
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("host must be an IP address or localhost: %s", host)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port out of range (1-65535)")
	}
	return nil
}

// validateServerConfig validates server timeouts.
func validateServerConfig(s ServerConfig) error {
	if s.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be greater than 0")
	}
	if s.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be greater than 0")
	}
	if s.IdleTimeout <= 0 {
		return fmt.Errorf("server.idle_timeout must be greater than 0")
	}

	// Validate timeout ranges (reasonable limits)
	if s.ReadTimeout > 5*time.Minute {
		return fmt.Errorf("server.read_timeout too large (max 5m)")
	}
	if s.WriteTimeout > 5*time.Minute {
		return fmt.Errorf("server.write_timeout too large (max 5m)")
	}
	if s.IdleTimeout > 30*time.Minute {
		return fmt.Errorf("server.idle_timeout too large (max 30m)")
	}

	// Minimum timeout validation
	if s.ReadTimeout < time.Second {
		return fmt.Errorf("server.read_timeout too small (min 1s)")
	}
	if s.WriteTimeout < time.Second {
		return fmt.Errorf("server.write_timeout too small (min 1s)")
	}

	return nil
}

// validateLogConfig validates log configuration.
func validateLogConfig(l LogConfig) error {
	if !slices.Contains(validLogLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error, fatal, panic")
	}
	return nil
}

// validateJournalConfig validates the request journal settings.
func validateJournalConfig(j JournalConfig) error {
	if !j.Enabled {
		return nil
	}
	if j.Path == "" {
		return fmt.Errorf("journal.path cannot be empty when the journal is enabled")
	}

	// Validate path format (basic check)
	if strings.Contains(j.Path, "..") {
		return fmt.Errorf("journal.path cannot contain '..' for security")
	}
	if j.Retention < time.Hour {
		return fmt.Errorf("journal.retention too small (min 1h)")
	}
	return nil
}
