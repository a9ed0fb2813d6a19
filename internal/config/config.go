// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/foodscout-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete foodscout configuration. The same file
// drives the terminal client and the `serve` backend.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Client (TUI and REPL) settings
	Client ClientConfig `toml:"client" json:"client"`

	// UI appearance
	UI UIConfig `toml:"ui" json:"ui"`

	// Backend server settings
	Server ServerConfig `toml:"server" json:"server"`

	// Session store backing the server
	Store StoreConfig `toml:"store" json:"store"`

	// Food bot (LLM) settings
	Bot BotConfig `toml:"bot" json:"bot"`

	// Logging
	Log LogConfig `toml:"log" json:"log"`
}

// ClientConfig configures the API client used by the TUI and REPL.
type ClientConfig struct {
	// BaseURL is the backend root, e.g. http://localhost:5000
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs bounds each request. 0 disables the timeout.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// CookieFile persists the session cookie between runs.
	// Empty means ~/.foodscout/cookies.json
	CookieFile string `toml:"cookie_file" json:"cookie_file"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowIcons prefixes list items with the keyword icon
	ShowIcons bool `toml:"show_icons" json:"show_icons"`
	// Compact hides the time-ago/message-count line in the list
	Compact bool `toml:"compact" json:"compact"`
	// ExportDir is where ctrl+e writes transcripts
	ExportDir string `toml:"export_dir" json:"export_dir"`
}

// ServerConfig configures the HTTP backend.
type ServerConfig struct {
	Addr string `toml:"addr" json:"addr"`
	// SecretKey signs session cookies. Required when serving.
	SecretKey       string  `toml:"secret_key" json:"secret_key"`
	SessionTTLHours int     `toml:"session_ttl_hours" json:"session_ttl_hours"`
	RateLimitRPS    float64 `toml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst  int     `toml:"rate_limit_burst" json:"rate_limit_burst"`
	MaxBodyBytes    int64   `toml:"max_body_bytes" json:"max_body_bytes"`
	// SecureCookie sets the Secure attribute (enable behind TLS)
	SecureCookie bool `toml:"secure_cookie" json:"secure_cookie"`
}

// StoreConfig selects and configures the session store.
type StoreConfig struct {
	// Backend is "memory", "redis" or "sqlite"
	Backend    string `toml:"backend" json:"backend"`
	RedisURL   string `toml:"redis_url" json:"redis_url"`
	SQLitePath string `toml:"sqlite_path" json:"sqlite_path"`
	KeyPrefix  string `toml:"key_prefix" json:"key_prefix"`
}

// BotConfig configures the OpenAI-compatible chat completion backend.
type BotConfig struct {
	APIKey          string  `toml:"api_key" json:"api_key"`
	BaseURL         string  `toml:"base_url" json:"base_url"`
	Model           string  `toml:"model" json:"model"`
	Temperature     float64 `toml:"temperature" json:"temperature"`
	MaxTokens       int     `toml:"max_tokens" json:"max_tokens"`
	HistoryMessages int     `toml:"history_messages" json:"history_messages"`
	TimeoutSecs     int     `toml:"timeout_secs" json:"timeout_secs"`
}

// LogConfig configures zap.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error"
	Level string `toml:"level" json:"level"`
	// File receives client logs. Empty means ~/.foodscout/foodscout.log
	File string `toml:"file" json:"file"`
}

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = "1"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Client: ClientConfig{
			BaseURL:     "http://localhost:5000",
			TimeoutSecs: 90,
		},
		UI: UIConfig{
			Theme:     "auto",
			ShowIcons: true,
			ExportDir: ".",
		},
		Server: ServerConfig{
			Addr:            ":5000",
			SessionTTLHours: 24,
			RateLimitRPS:    5,
			RateLimitBurst:  20,
			MaxBodyBytes:    64 * 1024,
		},
		Store: StoreConfig{
			Backend:   "memory",
			RedisURL:  "redis://localhost:6379/0",
			KeyPrefix: "food_bot:",
		},
		Bot: BotConfig{
			BaseURL:         "https://qianfan.baidubce.com/v2",
			Model:           "ernie-3.5-8k",
			Temperature:     0.7,
			MaxTokens:       1024,
			HistoryMessages: 16,
			TimeoutSecs:     60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ClientTimeout returns the client request timeout as a duration.
func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.Client.TimeoutSecs) * time.Second
}

// SessionTTL returns the server session lifetime.
func (c ServerConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the foodscout configuration directory path.
// FOODSCOUT_HOME overrides the default of ~/.foodscout.
func ConfigDir() (string, error) {
	if dir := os.Getenv("FOODSCOUT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".foodscout"), nil
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

// DataPath joins name onto the config directory.
func DataPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions tightens config files to 0600. They hold the bot
// API key and the cookie-signing secret.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults. A .env file in the
// working directory is read before environment overrides are applied.
func Load() (*Config, error) {
	LoadDotEnv()

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		return LoadFromPath(path)
	}

	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Keys missing from the file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish runs the post-decode pipeline shared by every loader.
func (c *Config) finish() error {
	c.ApplyEnvOverrides()
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
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

// SaveTOML writes cfg as TOML with a short header, atomically and 0600.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# foodscout configuration file\n")
	sb.WriteString("# Generated by foodscout - edit with care\n\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg as indented JSON, atomically and 0600.
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
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = map[string]bool{"auto": true, "dark": true, "light": true}
	validBackends  = map[string]bool{"memory": true, "redis": true, "sqlite": true}
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate validates the configuration and returns ValidateErrors when any
// field is out of range.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Client
	if err := validateHTTPURL(c.Client.BaseURL); err != nil {
		errs = append(errs, ValidationError{Field: "client.base_url", Message: err.Error()})
	}
	if c.Client.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "client.timeout_secs", Message: "cannot be negative"})
	}

	// UI
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	// Server
	if c.Server.SessionTTLHours <= 0 {
		errs = append(errs, ValidationError{Field: "server.session_ttl_hours", Message: "must be positive"})
	}
	if c.Server.RateLimitRPS < 0 {
		errs = append(errs, ValidationError{Field: "server.rate_limit_rps", Message: "cannot be negative"})
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst < 1 {
		errs = append(errs, ValidationError{Field: "server.rate_limit_burst", Message: "must be at least 1 when rate limiting is enabled"})
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, ValidationError{Field: "server.max_body_bytes", Message: "must be positive"})
	}

	// Store
	backend := strings.ToLower(c.Store.Backend)
	if !validBackends[backend] {
		errs = append(errs, ValidationError{
			Field:   "store.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: memory, redis, sqlite", c.Store.Backend),
		})
	}
	if backend == "redis" && c.Store.RedisURL == "" {
		errs = append(errs, ValidationError{Field: "store.redis_url", Message: "required for the redis backend"})
	}

	// Bot
	if c.Bot.BaseURL != "" {
		if err := validateHTTPURL(c.Bot.BaseURL); err != nil {
			errs = append(errs, ValidationError{Field: "bot.base_url", Message: err.Error()})
		}
	}
	if c.Bot.Temperature < 0 || c.Bot.Temperature > 2 {
		errs = append(errs, ValidationError{Field: "bot.temperature", Message: "must be between 0 and 2"})
	}
	if c.Bot.MaxTokens < 1 {
		errs = append(errs, ValidationError{Field: "bot.max_tokens", Message: "must be at least 1"})
	}
	if c.Bot.HistoryMessages < 0 {
		errs = append(errs, ValidationError{Field: "bot.history_messages", Message: "cannot be negative"})
	}

	// Log
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme '%s', must be http or https", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}

// SetDefaults fills zero-valued fields that have no meaningful zero.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Client.BaseURL == "" {
		c.Client.BaseURL = d.Client.BaseURL
	}
	c.Client.BaseURL = strings.TrimRight(c.Client.BaseURL, "/")
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.ExportDir == "" {
		c.UI.ExportDir = d.UI.ExportDir
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.SessionTTLHours == 0 {
		c.Server.SessionTTLHours = d.Server.SessionTTLHours
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = d.Server.MaxBodyBytes
	}
	if c.Store.Backend == "" {
		c.Store.Backend = d.Store.Backend
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = d.Store.KeyPrefix
	}
	if c.Bot.BaseURL == "" {
		c.Bot.BaseURL = d.Bot.BaseURL
	}
	if c.Bot.Model == "" {
		c.Bot.Model = d.Bot.Model
	}
	if c.Bot.MaxTokens == 0 {
		c.Bot.MaxTokens = d.Bot.MaxTokens
	}
	if c.Bot.TimeoutSecs == 0 {
		c.Bot.TimeoutSecs = d.Bot.TimeoutSecs
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Supported environment variables:
//   - FOODSCOUT_BASE_URL: client.base_url
//   - FOODSCOUT_TIMEOUT: client.timeout_secs
//   - FOODSCOUT_ADDR: server.addr
//   - FOODSCOUT_SECRET_KEY: server.secret_key
//   - FOODSCOUT_STORE: store.backend
//   - FOODSCOUT_REDIS_URL / REDIS_URL: store.redis_url
//   - FOODSCOUT_SQLITE_PATH: store.sqlite_path
//   - FOODSCOUT_BOT_API_KEY / BAIDU_API_KEY: bot.api_key
//   - FOODSCOUT_BOT_MODEL: bot.model
//   - FOODSCOUT_LOG_LEVEL: log.level
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FOODSCOUT_BASE_URL"); v != "" {
		c.Client.BaseURL = v
	}
	if v := os.Getenv("FOODSCOUT_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Client.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("FOODSCOUT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("FOODSCOUT_SECRET_KEY"); v != "" {
		c.Server.SecretKey = v
	}
	if v := os.Getenv("FOODSCOUT_STORE"); v != "" {
		c.Store.Backend = v
	}

	// REDIS_URL is the conventional name used by hosting platforms
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Store.RedisURL = v
	}
	if v := os.Getenv("FOODSCOUT_REDIS_URL"); v != "" {
		c.Store.RedisURL = v
	}
	if v := os.Getenv("FOODSCOUT_SQLITE_PATH"); v != "" {
		c.Store.SQLitePath = v
	}

	// BAIDU_API_KEY is what existing .env files carry
	if v := os.Getenv("BAIDU_API_KEY"); v != "" {
		c.Bot.APIKey = v
	}
	if v := os.Getenv("FOODSCOUT_BOT_API_KEY"); v != "" {
		c.Bot.APIKey = v
	}
	if v := os.Getenv("FOODSCOUT_BOT_MODEL"); v != "" {
		c.Bot.Model = v
	}
	if v := os.Getenv("FOODSCOUT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "bot.model").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
// String values are converted to the field's kind.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
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

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(part[:1]))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
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
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
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

// Clone returns a copy of the config. Config holds no reference types, so a
// value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as JSON with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Bot.APIKey != "" {
		safe.Bot.APIKey = "[REDACTED]"
	}
	if safe.Server.SecretKey != "" {
		safe.Server.SecretKey = "[REDACTED]"
	}
	if u, err := url.Parse(safe.Store.RedisURL); err == nil && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			u.User = url.UserPassword(u.User.Username(), "REDACTED")
			safe.Store.RedisURL = u.String()
		}
	}

	data, _ := json.MarshalIndent(safe, "", "  ")
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
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
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
