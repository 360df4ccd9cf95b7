package config

import "github.com/spf13/viper"

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Book defaults
	v.SetDefault("path", "")
	v.SetDefault("size", 5)
	v.SetDefault("mark", false)
	v.SetDefault("hide", false)

	// Server defaults
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8996)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
	v.SetDefault("log.file", "")

	// Journal defaults
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", "pagereader.db")
	v.SetDefault("journal.retention", "720h")
}
