package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Config represents the goap configuration.
type Config struct {
	// Global options that apply to all commands
	Global map[string]string
	// Command-specific options, keyed by section name
	Commands map[string]map[string]string
	// Search holds the planner and search limits from the [search] section.
	Search SearchConfig
	// Warnings contains any warnings generated during config loading
	Warnings []string
}

// SearchConfig bounds the planner tables and the A* working sets.
type SearchConfig struct {
	MaxOpen    int `default:"1024"`
	MaxClosed  int `default:"1024"`
	MaxAtoms   int `default:"64"`
	MaxActions int `default:"64"`
}

// NewConfig creates a new empty configuration.
func NewConfig() *Config {
	return &Config{
		Global:   make(map[string]string),
		Commands: make(map[string]map[string]string),
		Search: SearchConfig{
			MaxOpen:    1024,
			MaxClosed:  1024,
			MaxAtoms:   64,
			MaxActions: 64,
		},
		Warnings: make([]string, 0),
	}
}

// Load loads configuration from the default config file path.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config path")
	}
	return LoadFromPath(configPath)
}

// LoadFromPath loads configuration from the specified file path. A missing
// file yields an empty configuration. Symlinks are rejected.
//
// The file uses dnsmasq-style lines, "optionName remainingLineIsTheValue",
// with [section] headers for command-specific options.
func LoadFromPath(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, errors.Wrap(err, "failed to stat config file")
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, errors.Newf("symlink not allowed in config path: %s", path)
	}

	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader loads configuration from an io.Reader. Unknown options and
// malformed values become Warnings; a bad [search] value leaves that limit
// at its previous value.
func LoadFromReader(r io.Reader) (*Config, error) {
	config := NewConfig()
	scanner := bufio.NewScanner(r)

	var section string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(strings.Trim(line, "[]"))
			if section != searchSection && config.Commands[section] == nil {
				config.Commands[section] = make(map[string]string)
			}
			continue
		}

		name, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)

		switch section {
		case "":
			config.Global[name] = value
		case searchSection:
			if err := parseSearchOption(&config.Search, name, value); err != nil {
				config.addWarning("line %d: invalid search option %q, keeping %s: %v",
					lineNo, name, searchValue(config.Search, name), err)
			}
		default:
			config.Commands[section][name] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading config")
	}

	for _, issue := range ValidateConfig(config, DefaultSchema()) {
		config.addWarning("%s", issue)
	}
	return config, nil
}

func (c *Config) addWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("[Config] " + msg)
}

const searchSection = "search"

// parseSearchOption applies one line of the [search] section.
func parseSearchOption(sc *SearchConfig, name, value string) error {
	var target *int
	lo, hi := 1, 0
	switch name {
	case "max-open":
		target = &sc.MaxOpen
	case "max-closed":
		target = &sc.MaxClosed
	case "max-atoms":
		target, hi = &sc.MaxAtoms, 64
	case "max-actions":
		target, hi = &sc.MaxActions, 64
	default:
		return errors.Newf("unknown search option: %s", name)
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return errors.Wrapf(err, "invalid integer value %q", value)
	}
	if n < lo || (hi > 0 && n > hi) {
		if hi > 0 {
			return errors.Newf("%s must be between %d and %d: %d", name, lo, hi, n)
		}
		return errors.Newf("%s must be at least %d: %d", name, lo, n)
	}
	*target = n
	return nil
}

func searchValue(sc SearchConfig, name string) string {
	switch name {
	case "max-open":
		return strconv.Itoa(sc.MaxOpen)
	case "max-closed":
		return strconv.Itoa(sc.MaxClosed)
	case "max-atoms":
		return strconv.Itoa(sc.MaxAtoms)
	case "max-actions":
		return strconv.Itoa(sc.MaxActions)
	}
	return "nothing"
}

// parseBool accepts true, false, 1, 0, yes, no, on and off, ignoring case.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, errors.Newf("invalid boolean value: %s", s)
	}
}

// GetGlobalOption returns a global configuration option.
func (c *Config) GetGlobalOption(name string) (string, bool) {
	value, exists := c.Global[name]
	return value, exists
}

// GetCommandOption returns a command-specific configuration option, falling
// back to the global option of the same name.
func (c *Config) GetCommandOption(command, name string) (string, bool) {
	if cmdOptions, exists := c.Commands[command]; exists {
		if value, exists := cmdOptions[name]; exists {
			return value, true
		}
	}
	return c.GetGlobalOption(name)
}

// SetGlobalOption sets a global configuration option.
func (c *Config) SetGlobalOption(name, value string) {
	c.Global[name] = value
}

// SetCommandOption sets a command-specific configuration option.
func (c *Config) SetCommandOption(command, name, value string) {
	if c.Commands[command] == nil {
		c.Commands[command] = make(map[string]string)
	}
	c.Commands[command][name] = value
}

// HasWarnings returns true if there are any warnings.
func (c *Config) HasWarnings() bool {
	return len(c.Warnings) > 0
}
