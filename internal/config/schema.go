package config

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// OptionType represents the expected type of a configuration option value.
type OptionType string

const (
	// TypeString is a plain string value (the default for all config values).
	TypeString OptionType = "string"
	// TypeBool is a boolean value (true/false/yes/no/1/0/on/off).
	TypeBool OptionType = "bool"
	// TypeInt is an integer value.
	TypeInt OptionType = "int"
	// TypeDuration is a Go time.Duration value (e.g. "10ms", "1s").
	TypeDuration OptionType = "duration"
	// TypeEnum is one of the option's Choices, compared case-insensitively.
	TypeEnum OptionType = "enum"
)

// ConfigOption declares a single configuration option.
type ConfigOption struct {
	// Key is the option name as it appears in the config file (kebab-case).
	Key string
	Type OptionType
	// Choices lists the accepted values of a TypeEnum option.
	Choices []string
	// Default is the default value as a string, or "" for no default.
	Default     string
	Description string
	// Section is "" for global options, or a command/section name.
	Section string
	// EnvVar is the environment variable that overrides this option, or "".
	EnvVar string
}

// ConfigSchema declares the known configuration options. It drives
// validation, the "config schema" listing, and env var overrides.
type ConfigSchema struct {
	options   []*ConfigOption
	bySection map[string]map[string]*ConfigOption
}

// NewSchema creates a new empty ConfigSchema.
func NewSchema() *ConfigSchema {
	return &ConfigSchema{bySection: make(map[string]map[string]*ConfigOption)}
}

// Register adds an option. A later registration of the same section and key
// replaces the earlier one.
func (s *ConfigSchema) Register(opt ConfigOption) {
	ref := new(ConfigOption)
	*ref = opt
	sec := s.bySection[opt.Section]
	if sec == nil {
		sec = make(map[string]*ConfigOption)
		s.bySection[opt.Section] = sec
	}
	if old := sec[opt.Key]; old != nil {
		s.options = slices.DeleteFunc(s.options, func(o *ConfigOption) bool { return o == old })
	}
	sec[opt.Key] = ref
	s.options = append(s.options, ref)
}

// RegisterAll adds multiple options.
func (s *ConfigSchema) RegisterAll(opts []ConfigOption) {
	for _, opt := range opts {
		s.Register(opt)
	}
}

// Options returns every registered option in registration order.
func (s *ConfigSchema) Options() []ConfigOption {
	out := make([]ConfigOption, len(s.options))
	for i, o := range s.options {
		out[i] = *o
	}
	return out
}

// Lookup returns the option for a key in a section ("" for global), or nil.
func (s *ConfigSchema) Lookup(section, key string) *ConfigOption {
	return s.bySection[section][key]
}

// IsKnown reports whether key may appear in section. Global keys may appear
// in any command section, where they shadow the global value.
func (s *ConfigSchema) IsKnown(section, key string) bool {
	return s.Lookup(section, key) != nil || s.Lookup("", key) != nil
}

// SectionOptions returns the options of one section, in registration order.
func (s *ConfigSchema) SectionOptions(section string) []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections returns the sorted names of all non-global sections.
func (s *ConfigSchema) Sections() []string {
	out := make([]string, 0, len(s.bySection))
	for sec := range s.bySection {
		if sec != "" {
			out = append(out, sec)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve returns the effective value of a global key: its environment
// variable if set, then the config value, then the schema default.
func (s *ConfigSchema) Resolve(c *Config, key string) string {
	opt := s.Lookup("", key)
	if opt != nil && opt.EnvVar != "" {
		if v, ok := os.LookupEnv(opt.EnvVar); ok {
			return v
		}
	}
	if v, ok := c.GetGlobalOption(key); ok {
		return v
	}
	if opt != nil {
		return opt.Default
	}
	return ""
}

// ResolveCommand returns the effective value of key for a command: the
// command section's value, then the global resolution, then the section
// default.
func (s *ConfigSchema) ResolveCommand(c *Config, command, key string) string {
	if opts, ok := c.Commands[command]; ok {
		if v, ok := opts[key]; ok {
			return v
		}
	}
	if s.Lookup("", key) != nil {
		return s.Resolve(c, key)
	}
	if v, ok := c.GetGlobalOption(key); ok {
		return v
	}
	if opt := s.Lookup(command, key); opt != nil {
		return opt.Default
	}
	return ""
}

// ValidateConfig checks a loaded Config against the schema and returns
// sorted, human-readable issues: unknown options and type mismatches.
func ValidateConfig(c *Config, s *ConfigSchema) []string {
	var issues []string

	for key, value := range c.Global {
		opt := s.Lookup("", key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown global option: %q (value: %q)", key, value))
			continue
		}
		if err := opt.Validate(value); err != nil {
			issues = append(issues, fmt.Sprintf("global option %q: %v", key, err))
		}
	}

	for section, opts := range c.Commands {
		for key, value := range opts {
			opt := s.Lookup(section, key)
			if opt == nil {
				opt = s.Lookup("", key)
			}
			if opt == nil {
				issues = append(issues, fmt.Sprintf("unknown option for command %q: %q (value: %q)", section, key, value))
				continue
			}
			if err := opt.Validate(value); err != nil {
				issues = append(issues, fmt.Sprintf("option %q in [%s]: %v", key, section, err))
			}
		}
	}

	sort.Strings(issues)
	return issues
}

// Validate checks that value is acceptable for the option's type.
func (o *ConfigOption) Validate(value string) error {
	switch o.Type {
	case TypeString, "":
		return nil
	case TypeBool:
		if _, err := parseBool(value); err != nil {
			return errors.Newf("expected bool, got %q", value)
		}
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return errors.Newf("expected int, got %q", value)
		}
	case TypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return errors.Newf("expected duration, got %q", value)
		}
	case TypeEnum:
		for _, c := range o.Choices {
			if strings.EqualFold(c, value) {
				return nil
			}
		}
		return errors.Newf("expected one of %s, got %q", strings.Join(o.Choices, "|"), value)
	default:
		return errors.Newf("unknown option type %q", o.Type)
	}
	return nil
}

// ParseBool parses a value the way TypeBool options are validated.
func ParseBool(value string) (bool, error) { return parseBool(value) }

// GetBool returns the global option key as a boolean, false if it is unset
// or malformed.
func (c *Config) GetBool(key string) bool {
	v, ok := c.GetGlobalOption(key)
	if !ok {
		return false
	}
	b, err := parseBool(v)
	return err == nil && b
}

// GetInt returns the global option key as an integer, 0 if it is unset or
// malformed.
func (c *Config) GetInt(key string) int {
	v, ok := c.GetGlobalOption(key)
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return i
}

// GetDuration returns the global option key as a duration, 0 if it is unset
// or malformed.
func (c *Config) GetDuration(key string) time.Duration {
	v, ok := c.GetGlobalOption(key)
	if !ok {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

// FormatHelp renders every option, globals first, then one block per section.
func (s *ConfigSchema) FormatHelp() string {
	var b strings.Builder
	if globals := s.SectionOptions(""); len(globals) > 0 {
		b.WriteString("Global Options:\n")
		for _, o := range globals {
			writeOptionHelp(&b, o)
		}
	}
	for _, sec := range s.Sections() {
		opts := s.SectionOptions(sec)
		if len(opts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		for _, o := range opts {
			writeOptionHelp(&b, o)
		}
	}
	return b.String()
}

func writeOptionHelp(b *strings.Builder, o ConfigOption) {
	fmt.Fprintf(b, "  %-20s %s", o.Key, o.Description)
	parts := make([]string, 0, 3)
	switch o.Type {
	case TypeString, "":
	case TypeEnum:
		parts = append(parts, "one of: "+strings.Join(o.Choices, "|"))
	default:
		parts = append(parts, fmt.Sprintf("type: %s", o.Type))
	}
	if o.Default != "" {
		parts = append(parts, fmt.Sprintf("default: %s", o.Default))
	}
	if o.EnvVar != "" {
		parts = append(parts, fmt.Sprintf("env: %s", o.EnvVar))
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// DefaultSchema returns the schema of every option goap understands.
func DefaultSchema() *ConfigSchema {
	s := NewSchema()
	s.RegisterAll([]ConfigOption{
		{Key: "log.level", Type: TypeEnum, Choices: []string{"debug", "info", "warn", "error"}, Default: "warn", Description: "Minimum level of log records", EnvVar: "GOAP_LOG_LEVEL"},
		{Key: "log.format", Type: TypeEnum, Choices: []string{"text", "json"}, Default: "text", Description: "Log record encoding", EnvVar: "GOAP_LOG_FORMAT"},
		{Key: "log.file", Type: TypeString, Description: "Append logs to this file instead of stderr", EnvVar: "GOAP_LOG_FILE"},
		{Key: "color", Type: TypeEnum, Choices: []string{"auto", "always", "never"}, Default: "auto", Description: "Styled terminal output"},
		{Key: "domain", Type: TypeString, Description: "Domain file used when -domain is not given", EnvVar: "GOAP_DOMAIN"},

		{Key: "max-open", Section: searchSection, Type: TypeInt, Default: "1024", Description: "Capacity of the A* open set"},
		{Key: "max-closed", Section: searchSection, Type: TypeInt, Default: "1024", Description: "Capacity of the A* closed set"},
		{Key: "max-atoms", Section: searchSection, Type: TypeInt, Default: "64", Description: "Size of the planner's atom table (1-64)"},
		{Key: "max-actions", Section: searchSection, Type: TypeInt, Default: "64", Description: "Size of the planner's action table (1-64)"},

		{Key: "execute", Section: "plan", Type: TypeBool, Default: "false", Description: "Execute the plan after finding it"},
		{Key: "format", Section: "plan", Type: TypeEnum, Choices: []string{"text", "yaml"}, Default: "text", Description: "Plan output format"},
		{Key: "interval", Section: "plan", Type: TypeDuration, Default: "10ms", Description: "Tick interval while executing a step"},
	})
	return s
}
