// Package config loads gx configuration from config.toml, guidex.toml and
// the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/internal/paths"
	"github.com/joho/godotenv"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = "guidex.toml"

// Environment variables consulted by Load.
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvLegacyAPIKey = "API_KEY"
	EnvOwner        = "GUIDEX_OWNER"
)

// Config represents the merged configuration.
type Config struct {
	Account Account `toml:"account"`
	Store   Store   `toml:"store"`
	Insight Insight `toml:"insight"`
	Goals   Goals   `toml:"goals"`
	Metrics Metrics `toml:"metrics"`
	Server  Server  `toml:"server"`
	Log     Log     `toml:"log"`
}

// Account names the signed-in owner when no session state exists.
type Account struct {
	Owner string `toml:"owner"`
	Email string `toml:"email"`
}

// Store selects the record store backend.
type Store struct {
	// Backend is one of file, sqlite or memory.
	Backend string `toml:"backend"`
	// Path is the data directory for file, or the database file for sqlite.
	Path string `toml:"path"`
}

// Insight configures the generative model.
type Insight struct {
	Model       string `toml:"model"`
	SpeechModel string `toml:"speech-model"`
	Voice       string `toml:"voice"`
	APIKey      string `toml:"api-key"`
}

// Goals configures goal creation.
type Goals struct {
	Categories []string `toml:"categories"`
}

// Metrics tunes the dashboard analytics.
type Metrics struct {
	// MoodWindow is how many recent entries the dashboard charts. Zero or
	// less keeps every entry.
	MoodWindow        int     `toml:"mood-window"`
	JournalMoodWindow int     `toml:"journal-mood-window"`
	ReflectionHours   float64 `toml:"reflection-hours"`
	DeepWorkHours     float64 `toml:"deep-work-hours"`
	TopActive         int     `toml:"top-active"`
}

// Server configures gx serve.
type Server struct {
	Addr           string   `toml:"addr"`
	JWTSecret      string   `toml:"jwt-secret"`
	AllowedOrigins []string `toml:"allowed-origins"`
}

// Log configures the log file.
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the configuration used when no file sets a value.
func Default() Config {
	categories := make([]string, 0, len(goal.DefaultCategories()))
	for _, category := range goal.DefaultCategories() {
		categories = append(categories, string(category))
	}
	return Config{
		Store: Store{Backend: "file"},
		Insight: Insight{
			Model:       "gemini-3-flash-preview",
			SpeechModel: "gemini-2.5-flash-preview-tts",
			Voice:       "Kore",
		},
		Goals: Goals{Categories: categories},
		Metrics: Metrics{
			MoodWindow:        10,
			JournalMoodWindow: 7,
			ReflectionHours:   0.5,
			DeepWorkHours:     1.5,
			TopActive:         3,
		},
		Server: Server{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Log: Log{Level: "info"},
	}
}

// GoalCategories returns the configured categories.
func (c *Config) GoalCategories() []goal.Category {
	out := make([]goal.Category, 0, len(c.Goals.Categories))
	for _, category := range c.Goals.Categories {
		if category = strings.TrimSpace(category); category != "" {
			out = append(out, goal.Category(category))
		}
	}
	if len(out) == 0 {
		return goal.DefaultCategories()
	}
	return out
}

// Load reads the global config file and the project file in projectDir,
// loads projectDir/.env, and applies environment overrides. Missing files
// are not an error.
func Load(projectDir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(projectDir, ProjectFile))
	if err != nil {
		return nil, err
	}

	if err := loadDotenv(filepath.Join(projectDir, ".env")); err != nil {
		return nil, err
	}

	merged := mergeConfigs(
		layer{cfg: globalCfg, meta: globalMeta},
		layer{cfg: projectCfg, meta: projectMeta},
	)
	applyEnv(merged)
	return merged, nil
}

func globalConfigPath() (string, error) {
	dir, err := paths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

// loadDotenv loads path into the environment without overriding variables
// that are already set.
func loadDotenv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type layer struct {
	cfg  *Config
	meta toml.MetaData
}

func (l layer) defined(key ...string) bool {
	return l.cfg != nil && l.meta.IsDefined(key...)
}

func override[T any](dst *T, value T, defined bool) {
	if defined {
		*dst = value
	}
}

func mergeConfigs(layers ...layer) *Config {
	merged := Default()
	for _, l := range layers {
		if l.cfg == nil {
			continue
		}
		c := l.cfg
		override(&merged.Account.Owner, strings.TrimSpace(c.Account.Owner), l.defined("account", "owner"))
		override(&merged.Account.Email, strings.TrimSpace(c.Account.Email), l.defined("account", "email"))
		override(&merged.Store.Backend, strings.TrimSpace(c.Store.Backend), l.defined("store", "backend"))
		override(&merged.Store.Path, strings.TrimSpace(c.Store.Path), l.defined("store", "path"))
		override(&merged.Insight.Model, strings.TrimSpace(c.Insight.Model), l.defined("insight", "model"))
		override(&merged.Insight.SpeechModel, strings.TrimSpace(c.Insight.SpeechModel), l.defined("insight", "speech-model"))
		override(&merged.Insight.Voice, strings.TrimSpace(c.Insight.Voice), l.defined("insight", "voice"))
		override(&merged.Insight.APIKey, strings.TrimSpace(c.Insight.APIKey), l.defined("insight", "api-key"))
		override(&merged.Goals.Categories, append([]string(nil), c.Goals.Categories...), l.defined("goals", "categories"))
		override(&merged.Metrics.MoodWindow, c.Metrics.MoodWindow, l.defined("metrics", "mood-window"))
		override(&merged.Metrics.JournalMoodWindow, c.Metrics.JournalMoodWindow, l.defined("metrics", "journal-mood-window"))
		override(&merged.Metrics.ReflectionHours, c.Metrics.ReflectionHours, l.defined("metrics", "reflection-hours"))
		override(&merged.Metrics.DeepWorkHours, c.Metrics.DeepWorkHours, l.defined("metrics", "deep-work-hours"))
		override(&merged.Metrics.TopActive, c.Metrics.TopActive, l.defined("metrics", "top-active"))
		override(&merged.Server.Addr, strings.TrimSpace(c.Server.Addr), l.defined("server", "addr"))
		override(&merged.Server.JWTSecret, c.Server.JWTSecret, l.defined("server", "jwt-secret"))
		override(&merged.Server.AllowedOrigins, append([]string(nil), c.Server.AllowedOrigins...), l.defined("server", "allowed-origins"))
		override(&merged.Log.Level, strings.TrimSpace(c.Log.Level), l.defined("log", "level"))
		override(&merged.Log.File, strings.TrimSpace(c.Log.File), l.defined("log", "file"))
	}
	return &merged
}

func applyEnv(cfg *Config) {
	if cfg.Insight.APIKey == "" {
		cfg.Insight.APIKey = firstEnv(EnvAPIKey, EnvLegacyAPIKey)
	}
	if owner := strings.TrimSpace(os.Getenv(EnvOwner)); owner != "" {
		cfg.Account.Owner = owner
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}
