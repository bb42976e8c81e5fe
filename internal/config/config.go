// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for convolens.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.convolens/config.toml
//   - ~/.convolens/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/rating"
	"github.com/jeranaias/convolens/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete convolens configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Labeller thresholds
	Labeller LabellerConfig `toml:"labeller" json:"labeller"`

	// Rating system parameters
	Rating RatingConfig `toml:"rating" json:"rating"`

	// Dataset configuration
	Dataset DatasetConfig `toml:"dataset" json:"dataset"`

	// Collector configuration
	Collector CollectorConfig `toml:"collector" json:"collector"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// LabellerConfig contains the score ladder the labeller assigns from.
// Thresholds are rubric averages on the 0-5 scale and must descend.
type LabellerConfig struct {
	BestThreshold       float64 `toml:"best_threshold" json:"best_threshold"`
	ExcellentThreshold  float64 `toml:"excellent_threshold" json:"excellent_threshold"`
	GoodThreshold       float64 `toml:"good_threshold" json:"good_threshold"`
	InaccuracyThreshold float64 `toml:"inaccuracy_threshold" json:"inaccuracy_threshold"`
	MistakeThreshold    float64 `toml:"mistake_threshold" json:"mistake_threshold"`
	// BrillianceThreshold is the minimum average for a sacrifice to
	// count as brilliant rather than merely risky.
	BrillianceThreshold float64 `toml:"brilliance_threshold" json:"brilliance_threshold"`
	// RecoveryThreshold is the prior-message average below which the
	// conversation counts as dipped, enabling great/miss calls.
	RecoveryThreshold float64 `toml:"recovery_threshold" json:"recovery_threshold"`
}

// RatingConfig contains Elo-style rating parameters.
type RatingConfig struct {
	// KFactor is the rating adjustment speed for established players
	KFactor float64 `toml:"k_factor" json:"k_factor"`
	// ProvisionalKFactor applies while a player has few rated games
	ProvisionalKFactor float64 `toml:"provisional_k_factor" json:"provisional_k_factor"`
	// ProvisionalGames is how many games the provisional K lasts
	ProvisionalGames int `toml:"provisional_games" json:"provisional_games"`
	// Floor is the minimum rating
	Floor float64 `toml:"floor" json:"floor"`
	// Initial is the starting rating for new players
	Initial float64 `toml:"initial" json:"initial"`
}

// DatasetConfig contains labelled-corpus configuration.
type DatasetConfig struct {
	// DatabasePath is the SQLite file (empty = ~/.convolens/dataset.db)
	DatabasePath string `toml:"database_path" json:"database_path"`
	// InboxDir is watched for labelled JSON drops (empty = ~/.convolens/inbox)
	InboxDir string `toml:"inbox_dir" json:"inbox_dir"`
	// Target is the labelled-message collection goal
	Target int `toml:"target" json:"target"`
	// WatchEnabled starts the inbox watcher with `convolens dataset watch`
	WatchEnabled bool `toml:"watch_enabled" json:"watch_enabled"`
	// WatchDebounceMs is the inbox settle window in milliseconds
	WatchDebounceMs int `toml:"watch_debounce_ms" json:"watch_debounce_ms"`
}

// CollectorConfig contains screenshot collector configuration.
type CollectorConfig struct {
	// BaseURL is the listing server root
	BaseURL string `toml:"base_url" json:"base_url"`
	// Community is the listing to pull from
	Community string `toml:"community" json:"community"`
	// SaveDir is where screenshots land (empty = ~/.convolens/screenshots)
	SaveDir string `toml:"save_dir" json:"save_dir"`
	// PostLimit is how many posts to examine per run
	PostLimit int `toml:"post_limit" json:"post_limit"`
	// UserAgent for outgoing requests
	UserAgent string `toml:"user_agent" json:"user_agent"`
	// RequestIntervalMs is the minimum gap between downloads
	RequestIntervalMs int `toml:"request_interval_ms" json:"request_interval_ms"`
}

// StorageConfig contains session store configuration.
type StorageConfig struct {
	// Dir is the conversation directory (empty = ~/.convolens/conversations)
	Dir string `toml:"dir" json:"dir"`
	// MaxConversations limits stored conversations (0 = unlimited)
	MaxConversations int `toml:"max_conversations" json:"max_conversations"`
	// Encrypt enables at-rest encryption; a passphrase is prompted for
	Encrypt bool `toml:"encrypt" json:"encrypt"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowEval displays the evaluation bar in the review TUI
	ShowEval bool `toml:"show_eval" json:"show_eval"`
	// ShowExplanations displays label explanations inline
	ShowExplanations bool `toml:"show_explanations" json:"show_explanations"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	lt := label.DefaultThresholds()
	rp := rating.DefaultParams()

	return &Config{
		Version: "1.0.0",

		Labeller: LabellerConfig{
			BestThreshold:       lt.Best,
			ExcellentThreshold:  lt.Excellent,
			GoodThreshold:       lt.Good,
			InaccuracyThreshold: lt.Inaccuracy,
			MistakeThreshold:    lt.Mistake,
			BrillianceThreshold: lt.Brilliance,
			RecoveryThreshold:   lt.Recovery,
		},

		Rating: RatingConfig{
			KFactor:            rp.K,
			ProvisionalKFactor: rp.ProvisionalK,
			ProvisionalGames:   rp.ProvisionalGames,
			Floor:              rp.Floor,
			Initial:            rp.Initial,
		},

		Dataset: DatasetConfig{
			Target:          10000,
			WatchEnabled:    false,
			WatchDebounceMs: 500,
		},

		Collector: CollectorConfig{
			BaseURL:           "https://www.reddit.com",
			Community:         "Textingtheory",
			PostLimit:         100,
			UserAgent:         "convolens-collector/1.0",
			RequestIntervalMs: 300,
		},

		Storage: StorageConfig{
			MaxConversations: 100,
			Encrypt:          false,
		},

		UI: UIConfig{
			Theme:            "dark",
			ShowEval:         true,
			ShowExplanations: true,
			CompactMode:      false,
		},
	}
}

// Thresholds converts the labeller section to engine thresholds.
func (c *Config) Thresholds() label.Thresholds {
	return label.Thresholds{
		Best:       c.Labeller.BestThreshold,
		Excellent:  c.Labeller.ExcellentThreshold,
		Good:       c.Labeller.GoodThreshold,
		Inaccuracy: c.Labeller.InaccuracyThreshold,
		Mistake:    c.Labeller.MistakeThreshold,
		Brilliance: c.Labeller.BrillianceThreshold,
		Recovery:   c.Labeller.RecoveryThreshold,
	}
}

// RatingParams converts the rating section to rating parameters.
func (c *Config) RatingParams() rating.Params {
	return rating.Params{
		K:                c.Rating.KFactor,
		ProvisionalK:     c.Rating.ProvisionalKFactor,
		ProvisionalGames: c.Rating.ProvisionalGames,
		Floor:            c.Rating.Floor,
		Initial:          c.Rating.Initial,
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the convolens configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".convolens"), nil
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

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	// Defaults only (with any load error for informational purposes)
	cfg, err = finish(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// finish applies env overrides, defaults, and validation.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
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
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
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

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Write header comment
	fmt.Fprintln(file, "# convolens configuration file")
	fmt.Fprintln(file, "# Generated by convolens - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

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

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Labeller: the score ladder must descend and stay on the 0-5 scale
	if err := c.Thresholds().Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "labeller",
			Message: err.Error(),
		})
	}

	// Rating
	if c.Rating.KFactor <= 0 {
		errs = append(errs, ValidationError{
			Field:   "rating.k_factor",
			Message: "must be positive",
		})
	}
	if c.Rating.ProvisionalKFactor < c.Rating.KFactor {
		errs = append(errs, ValidationError{
			Field:   "rating.provisional_k_factor",
			Message: "must be at least k_factor",
		})
	}
	if c.Rating.ProvisionalGames < 0 {
		errs = append(errs, ValidationError{
			Field:   "rating.provisional_games",
			Message: "must be non-negative",
		})
	}
	if c.Rating.Floor < 0 || c.Rating.Floor > c.Rating.Initial {
		errs = append(errs, ValidationError{
			Field:   "rating.floor",
			Message: fmt.Sprintf("must be between 0 and initial rating %g", c.Rating.Initial),
		})
	}

	// Dataset
	if c.Dataset.Target <= 0 {
		errs = append(errs, ValidationError{
			Field:   "dataset.target",
			Message: "must be positive",
		})
	}
	if c.Dataset.WatchDebounceMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "dataset.watch_debounce_ms",
			Message: "must be non-negative",
		})
	}

	// Collector
	if c.Collector.PostLimit < 1 || c.Collector.PostLimit > 1000 {
		errs = append(errs, ValidationError{
			Field:   "collector.post_limit",
			Message: fmt.Sprintf("must be 1-1000, got %d", c.Collector.PostLimit),
		})
	}
	if c.Collector.RequestIntervalMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "collector.request_interval_ms",
			Message: "must be non-negative",
		})
	}

	// Storage
	if c.Storage.MaxConversations < 0 {
		errs = append(errs, ValidationError{
			Field:   "storage.max_conversations",
			Message: "must be non-negative",
		})
	}

	// UI
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	// Labeller: a fully zero section means unset, take the defaults
	if c.Labeller == (LabellerConfig{}) {
		c.Labeller = defaults.Labeller
	}

	// Rating
	if c.Rating.KFactor == 0 {
		c.Rating.KFactor = defaults.Rating.KFactor
	}
	if c.Rating.ProvisionalKFactor == 0 {
		c.Rating.ProvisionalKFactor = defaults.Rating.ProvisionalKFactor
	}
	if c.Rating.ProvisionalGames == 0 {
		c.Rating.ProvisionalGames = defaults.Rating.ProvisionalGames
	}
	if c.Rating.Floor == 0 {
		c.Rating.Floor = defaults.Rating.Floor
	}
	if c.Rating.Initial == 0 {
		c.Rating.Initial = defaults.Rating.Initial
	}

	// Dataset
	if c.Dataset.Target == 0 {
		c.Dataset.Target = defaults.Dataset.Target
	}
	if c.Dataset.WatchDebounceMs == 0 {
		c.Dataset.WatchDebounceMs = defaults.Dataset.WatchDebounceMs
	}

	// Collector
	if c.Collector.BaseURL == "" {
		c.Collector.BaseURL = defaults.Collector.BaseURL
	}
	if c.Collector.Community == "" {
		c.Collector.Community = defaults.Collector.Community
	}
	if c.Collector.PostLimit == 0 {
		c.Collector.PostLimit = defaults.Collector.PostLimit
	}
	if c.Collector.UserAgent == "" {
		c.Collector.UserAgent = defaults.Collector.UserAgent
	}
	if c.Collector.RequestIntervalMs == 0 {
		c.Collector.RequestIntervalMs = defaults.Collector.RequestIntervalMs
	}

	// Storage
	if c.Storage.MaxConversations == 0 {
		c.Storage.MaxConversations = defaults.Storage.MaxConversations
	}

	// UI
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CONVOLENS_COMMUNITY: overrides collector.community
//   - CONVOLENS_BASE_URL: overrides collector.base_url
//   - CONVOLENS_USER_AGENT: overrides collector.user_agent
//   - CONVOLENS_DATASET_TARGET: overrides dataset.target
//   - CONVOLENS_STORAGE_DIR: overrides storage.dir
//   - CONVOLENS_ENCRYPT: set to "1" or "true" to encrypt stored sessions
//   - CONVOLENS_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if community := os.Getenv("CONVOLENS_COMMUNITY"); community != "" {
		c.Collector.Community = community
	}

	if baseURL := os.Getenv("CONVOLENS_BASE_URL"); baseURL != "" {
		c.Collector.BaseURL = baseURL
	}

	if agent := os.Getenv("CONVOLENS_USER_AGENT"); agent != "" {
		c.Collector.UserAgent = agent
	}

	if target := os.Getenv("CONVOLENS_DATASET_TARGET"); target != "" {
		if n, err := strconv.Atoi(target); err == nil && n > 0 {
			c.Dataset.Target = n
		}
	}

	if dir := os.Getenv("CONVOLENS_STORAGE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}

	if encrypt := os.Getenv("CONVOLENS_ENCRYPT"); encrypt != "" {
		c.Storage.Encrypt = encrypt == "1" || strings.ToLower(encrypt) == "true"
	}

	if theme := os.Getenv("CONVOLENS_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		// If this is the last part, return the value
		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		// If this is the last part, set the value
		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go
// field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with
// type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	// Handle string input with type conversion
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
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	// Direct assignment for matching types
	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	// Type conversion for compatible types
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"labeller.best_threshold",
		"labeller.excellent_threshold",
		"labeller.good_threshold",
		"labeller.inaccuracy_threshold",
		"labeller.mistake_threshold",
		"labeller.brilliance_threshold",
		"labeller.recovery_threshold",
		"rating.k_factor",
		"rating.provisional_k_factor",
		"rating.provisional_games",
		"rating.floor",
		"rating.initial",
		"dataset.database_path",
		"dataset.inbox_dir",
		"dataset.target",
		"dataset.watch_enabled",
		"dataset.watch_debounce_ms",
		"collector.base_url",
		"collector.community",
		"collector.save_dir",
		"collector.post_limit",
		"collector.user_agent",
		"collector.request_interval_ms",
		"storage.dir",
		"storage.max_conversations",
		"storage.encrypt",
		"ui.theme",
		"ui.show_eval",
		"ui.show_explanations",
		"ui.compact_mode",
	}
}

// String returns a string representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		loaded, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			loaded = Default()
		}
		globalConfig = loaded
	}
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
}
