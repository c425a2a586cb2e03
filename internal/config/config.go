// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/jeranaias/tgl/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tgl configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Pacing  PacingConfig  `toml:"pacing" json:"pacing"`
	Game    GameConfig    `toml:"game" json:"game"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	Notes   NotesConfig   `toml:"notes" json:"notes"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

// PacingConfig controls how fast text is typed and how long pauses last.
type PacingConfig struct {
	// TypeIntervalMS is the delay between typed characters in milliseconds.
	TypeIntervalMS int `toml:"type_interval_ms" json:"type_interval_ms"`
	// Speed divides every delay. 2.0 plays twice as fast.
	Speed float64 `toml:"speed" json:"speed"`
	// Instant removes all delays.
	Instant bool `toml:"instant" json:"instant"`
}

// GameConfig contains session rules.
type GameConfig struct {
	// MinActions and MaxActions bound a new player's budget, [min, max).
	MinActions int `toml:"min_actions" json:"min_actions"`
	MaxActions int `toml:"max_actions" json:"max_actions"`
	// StateKey is the storage key of the session blob.
	StateKey string `toml:"state_key" json:"state_key"`
}

// StorageConfig selects where sessions are kept.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `toml:"backend" json:"backend"`
	// Path is the state file or database. Empty uses ~/.tgl/state.json or
	// ~/.tgl/state.db depending on the backend.
	Path string `toml:"path" json:"path"`
}

// NotesConfig points at the note collection.
type NotesConfig struct {
	// Path is a .json, .yaml or legacy .js collection. Empty uses the
	// collection built into the binary.
	Path string `toml:"path" json:"path"`
}

// UIConfig contains display settings.
type UIConfig struct {
	// Mode is "auto", "tui" or "plain".
	Mode string `toml:"mode" json:"mode"`
	// NoColor disables escape-sequence styling.
	NoColor bool `toml:"no_color" json:"no_color"`
	// OSC52Clipboard falls back to the terminal clipboard escape sequence
	// when no system clipboard is available.
	OSC52Clipboard bool `toml:"osc52_clipboard" json:"osc52_clipboard"`
}

// LoggingConfig controls the event log.
type LoggingConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the log file. Empty uses ~/.tgl/tgl.log.
	Path string `toml:"path" json:"path"`
}

// Accepted enum values.
var (
	StorageBackends = []string{"file", "sqlite", "memory"}
	UIModes         = []string{"auto", "tui", "plain"}
)

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Pacing: PacingConfig{
			TypeIntervalMS: 10,
			Speed:          1.0,
		},
		Game: GameConfig{
			MinActions: 5,
			MaxActions: 10,
			StateKey:   "tgl_game_state",
		},
		Storage: StorageConfig{
			Backend: "file",
		},
		UI: UIConfig{
			Mode:           "auto",
			OSC52Clipboard: true,
		},
		Logging: LoggingConfig{
			Enabled: true,
		},
	}
}

// TypeInterval returns the per-character delay.
func (c *Config) TypeInterval() time.Duration {
	return time.Duration(c.Pacing.TypeIntervalMS) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the tgl configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tgl"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir creates the configuration directory if it does not exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	if path, err := ConfigPathTOML(); err == nil && fileExists(path) {
		return LoadFromPath(path)
	}
	if path, err := ConfigPathJSON(); err == nil && fileExists(path) {
		return LoadFromPath(path)
	}
	return finish(Default())
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. The format follows the extension; anything but .json is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finish(cfg)
}

// finish applies env overrides, resolves defaults and validates.
func finish(cfg *Config) (*Config, error) {
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in values a partial file left empty.
// Booleans cannot be told apart from an explicit false and are left alone.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.Pacing.TypeIntervalMS == 0 {
		cfg.Pacing.TypeIntervalMS = defaults.Pacing.TypeIntervalMS
	}
	if cfg.Pacing.Speed == 0 {
		cfg.Pacing.Speed = defaults.Pacing.Speed
	}

	if cfg.Game.MinActions == 0 && cfg.Game.MaxActions == 0 {
		cfg.Game.MinActions = defaults.Game.MinActions
		cfg.Game.MaxActions = defaults.Game.MaxActions
	}
	if cfg.Game.StateKey == "" {
		cfg.Game.StateKey = defaults.Game.StateKey
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = defaults.UI.Mode
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML with a short header.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# tgl configuration file")
	fmt.Fprintln(&buf, "# Environment variables (TGL_*) override these values.")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration as indented JSON.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Pacing.TypeIntervalMS < 0 || c.Pacing.TypeIntervalMS > 1000 {
		errs = append(errs, ValidationError{
			Field:   "pacing.type_interval_ms",
			Message: fmt.Sprintf("must be between 0 and 1000, got %d", c.Pacing.TypeIntervalMS),
		})
	}
	if c.Pacing.Speed <= 0 || c.Pacing.Speed > 100 {
		errs = append(errs, ValidationError{
			Field:   "pacing.speed",
			Message: fmt.Sprintf("must be greater than 0 and at most 100, got %g", c.Pacing.Speed),
		})
	}

	if c.Game.MinActions < 0 {
		errs = append(errs, ValidationError{
			Field:   "game.min_actions",
			Message: fmt.Sprintf("must not be negative, got %d", c.Game.MinActions),
		})
	}
	if c.Game.MaxActions <= c.Game.MinActions {
		errs = append(errs, ValidationError{
			Field:   "game.max_actions",
			Message: fmt.Sprintf("must be greater than min_actions (%d), got %d", c.Game.MinActions, c.Game.MaxActions),
		})
	}
	if strings.TrimSpace(c.Game.StateKey) == "" {
		errs = append(errs, ValidationError{Field: "game.state_key", Message: "must not be empty"})
	}

	if !contains(StorageBackends, c.Storage.Backend) {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(StorageBackends, ", "), c.Storage.Backend),
		})
	}
	if !contains(UIModes, c.UI.Mode) {
		errs = append(errs, ValidationError{
			Field:   "ui.mode",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(UIModes, ", "), c.UI.Mode),
		})
	}

	if c.Notes.Path != "" {
		switch strings.ToLower(filepath.Ext(c.Notes.Path)) {
		case ".json", ".yaml", ".yml", ".js":
		default:
			errs = append(errs, ValidationError{
				Field:   "notes.path",
				Message: fmt.Sprintf("unsupported collection format %q", filepath.Ext(c.Notes.Path)),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults normalizes enum casing and resolves default file locations.
func (c *Config) SetDefaults() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.UI.Mode = strings.ToLower(strings.TrimSpace(c.UI.Mode))

	dir, err := ConfigDir()
	if err != nil {
		return
	}
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case "file":
			c.Storage.Path = filepath.Join(dir, "state.json")
		case "sqlite":
			c.Storage.Path = filepath.Join(dir, "state.db")
		}
	}
	if c.Logging.Path == "" {
		c.Logging.Path = filepath.Join(dir, "tgl.log")
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides mirrors the settings that can come from the environment.
// Unset variables leave their pointer nil.
type envOverrides struct {
	TypeIntervalMS *int     `env:"TGL_TYPE_INTERVAL_MS"`
	Speed          *float64 `env:"TGL_SPEED"`
	Instant        *bool    `env:"TGL_INSTANT"`
	StateKey       *string  `env:"TGL_STATE_KEY"`
	StorageBackend *string  `env:"TGL_STORAGE_BACKEND"`
	StoragePath    *string  `env:"TGL_STORAGE_PATH"`
	NotesPath      *string  `env:"TGL_NOTES_PATH"`
	UIMode         *string  `env:"TGL_UI_MODE"`
	NoColor        *bool    `env:"TGL_NO_COLOR"`
	OSC52Clipboard *bool    `env:"TGL_OSC52_CLIPBOARD"`
	LogEnabled     *bool    `env:"TGL_LOG_ENABLED"`
	LogPath        *string  `env:"TGL_LOG_PATH"`
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TGL_TYPE_INTERVAL_MS, TGL_SPEED, TGL_INSTANT: pacing
//   - TGL_STATE_KEY: game.state_key
//   - TGL_STORAGE_BACKEND, TGL_STORAGE_PATH: storage
//   - TGL_NOTES_PATH: notes.path
//   - TGL_UI_MODE, TGL_NO_COLOR, TGL_OSC52_CLIPBOARD: ui
//   - TGL_LOG_ENABLED, TGL_LOG_PATH: logging
func (c *Config) ApplyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setIf(&c.Pacing.TypeIntervalMS, o.TypeIntervalMS)
	setIf(&c.Pacing.Speed, o.Speed)
	setIf(&c.Pacing.Instant, o.Instant)
	setIf(&c.Game.StateKey, o.StateKey)
	setIf(&c.Storage.Backend, o.StorageBackend)
	setIf(&c.Storage.Path, o.StoragePath)
	setIf(&c.Notes.Path, o.NotesPath)
	setIf(&c.UI.Mode, o.UIMode)
	setIf(&c.UI.NoColor, o.NoColor)
	setIf(&c.UI.OSC52Clipboard, o.OSC52Clipboard)
	setIf(&c.Logging.Enabled, o.LogEnabled)
	setIf(&c.Logging.Path, o.LogPath)
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "pacing.speed").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if field.Kind() == reflect.Struct {
		return fmt.Errorf("cannot set section %q", key)
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go
// field equivalent. Matching is case-insensitive, so "osc52_clipboard"
// finds OSC52Clipboard and "type_interval_ms" finds TypeIntervalMS.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	return strings.Join(parts, "")
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation, using the
// TOML names.
func GetAllKeys() []string {
	var keys []string
	collectKeys(reflect.TypeOf(Config{}), "", &keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("toml"), ",")[0]
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct {
			collectKeys(f.Type, name, keys)
			continue
		}
		*keys = append(*keys, name)
	}
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg, _ = finish(Default())
			if cfg == nil {
				cfg = Default()
			}
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
