package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the configuration file looked up next to the executable.
const FileName = "cfg.txt"

// Config represents the complete configuration of the reader.
//
// Configuration sources (in order of precedence):
//  1. Defaults
//  2. Configuration file (optional)
//  3. Environment variables
//  4. Command-line flags
//
// A loaded Config is treated as immutable and passed by pointer to its consumers.
type Config struct {
	// Path is the absolute path of the book being read.
	Path string `mapstructure:"path" yaml:"path"`
	// Size is the number of non-blank lines per page.
	Size int `mapstructure:"size" yaml:"size"`
	// Mark folds blank lines into the previous line as a break marker.
	Mark bool `mapstructure:"mark" yaml:"mark"`
	// Hide hides the console window on platforms that have one.
	Hide bool `mapstructure:"hide" yaml:"hide"`

	Host    string        `mapstructure:"host" yaml:"host"`
	Port    int           `mapstructure:"port" yaml:"port"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Journal JournalConfig `mapstructure:"journal" yaml:"journal"`

	// File is the configuration file that was read, empty if none.
	File string `mapstructure:"-" yaml:"-"`
}

type ServerConfig struct {
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error, fatal, panic
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"` // human-readable console output
	File   string `mapstructure:"file" yaml:"file"`     // optional rotated log file
}

type JournalConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Path      string        `mapstructure:"path" yaml:"path"`
	Retention time.Duration `mapstructure:"retention" yaml:"retention"` // events older than this are pruned at startup
}

// Addr returns the listen address built from Host and Port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"path": "path",
	"size": "size",
	"mark": "mark",
	"port": "port",
	"hide": "hide",
	"host": "host",
}

// boolKeys accept the lenient true/1/yes spelling.
var boolKeys = []string{"mark", "hide", "log.pretty", "journal.enabled"}

// Load loads configuration from defaults, the configuration file,
// environment variables and flags, then validates the result.
//
// explicitFile, when non-empty, must exist. Otherwise cfg.txt is searched
// for next to the executable, in the working directory and in the
// per-user config directory; a missing file is not an error.
// flags may be nil.
func Load(explicitFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Register default values
	setDefaults(v)

	// Environment variable support
	v.SetEnvPrefix("PAGEREADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(false)
	v.AutomaticEnv()

	file, err := locateConfigFile(explicitFile)
	if err != nil {
		return nil, err
	}
	if file != "" {
		if err := mergeFile(v, file); err != nil {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	// Booleans are written by hand in cfg.txt; accept the same spellings everywhere.
	for _, key := range boolKeys {
		v.Set(key, parseFlag(v.GetString(key)))
	}

	// Unmarshal configuration into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = file

	// Normalize configuration
	normalizeConfig(&cfg)

	// Validate final configuration
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeFile reads a key=value file into v.
func mergeFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	values, err := parseKeyValue(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return v.MergeConfigMap(values)
}

// locateConfigFile returns the configuration file to read, or "" if none exists.
func locateConfigFile(explicitFile string) (string, error) {
	if explicitFile != "" {
		if _, err := os.Stat(explicitFile); err != nil {
			return "", fmt.Errorf("config file error: %w", err)
		}
		return explicitFile, nil
	}

	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config file error: %w", err)
		}
	}
	return "", nil
}

// searchDirs lists directories searched for cfg.txt, most specific first.
func searchDirs() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	dirs = append(dirs, ".")
	if configDir := getConfigDir(); configDir != "" {
		dirs = append(dirs, configDir)
	}
	return dirs
}

// getConfigDir returns the appropriate config directory for the current OS
func getConfigDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "pagereader")
		}
		return ""
	}

	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".pagereader")
	}
	return ""
}
