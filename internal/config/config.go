// Package config resolves dis8080 settings from defaults, an optional JSON
// file and the environment. Command-line flags are applied last by the
// caller.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrNoInput is returned when no program image path was given.
	ErrNoInput = errors.New("make sure to input a filename")

	// ErrInvalid wraps every malformed configuration value.
	ErrInvalid = errors.New("invalid configuration")
)

// Themes accepted by the Theme setting.
const (
	ThemeCharm  = "charm"
	ThemeVSCode = "vscode"
)

// Environment variables read by FromEnv and Resolve.
const (
	EnvConfig   = "DIS8080_CONFIG"
	EnvNoColor  = "DIS8080_NO_COLOR"
	EnvLogLevel = "DIS8080_LOG_LEVEL"
)

// Config holds every setting of the disassembler.
type Config struct {
	Origin       uint16 `json:"origin" jsonschema:"title=Origin,description=Address of the first byte of the image,minimum=0,maximum=65535"`
	Undocumented bool   `json:"undocumented" jsonschema:"title=Undocumented,description=Decode CB/D9/DD/ED/FD as JMP/RET/CALL aliases"`
	ShowBytes    bool   `json:"showBytes" jsonschema:"title=Show Bytes,description=Print the raw instruction bytes column"`
	NoColor      bool   `json:"noColor" jsonschema:"title=No Color,description=Disable listing syntax highlighting"`
	Theme        string `json:"theme,omitempty" jsonschema:"title=Theme,description=Markdown theme for reports,enum=charm,enum=vscode"`
	Debug        bool   `json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{Theme: ThemeCharm}
}

// Load reads a JSON configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv applies environment overrides to cfg.
func FromEnv(cfg *Config) {
	if os.Getenv(EnvNoColor) != "" {
		cfg.NoColor = true
	}
	if os.Getenv(EnvLogLevel) == "debug" {
		cfg.Debug = true
	}
}

// Resolve builds the effective configuration. An empty path falls back to
// $DIS8080_CONFIG; no file at all means defaults.
func Resolve(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}

	FromEnv(&cfg)
	return cfg, nil
}

// Validate checks values that the JSON decoder cannot.
func (c Config) Validate() error {
	switch c.Theme {
	case "", ThemeCharm, ThemeVSCode:
		return nil
	}
	return fmt.Errorf("%w: unknown theme %q", ErrInvalid, c.Theme)
}

// ParseOrigin parses a start address. Decimal, 0x1234, $1234 and 1234h are
// accepted.
func ParseOrigin(s string) (uint16, error) {
	v := strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(v, "0x"), strings.HasPrefix(v, "0X"):
		v, base = v[2:], 16
	case strings.HasPrefix(v, "$"):
		v, base = v[1:], 16
	case strings.HasSuffix(v, "h"), strings.HasSuffix(v, "H"):
		v, base = v[:len(v)-1], 16
	}

	n, err := strconv.ParseUint(v, base, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: origin %q: must be an address between 0 and FFFF", ErrInvalid, s)
	}
	return uint16(n), nil
}
