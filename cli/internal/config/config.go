// Package config provides commitcraft configuration with a defined load order:
// CLI flags > process environment > repo .env > repo config > global config > defaults.
//
// Paths:
//   - Repo: .commitcraft.toml and .env (relative to repo root)
//   - Global: XDG config dir, e.g. ~/.config/commitcraft/config.toml (see os.UserConfigDir)
//
// Environment variables:
//   - OLLAMA_URL, OLLAMA_MODEL (inference server and model name).
//   - LLM_TEMPERATURE (0.0-2.0), LLM_TOP_P (0.0-1.0), LLM_MAX_TOKENS (positive).
//   - MAX_SUGGESTIONS (1-10).
//   - REQUEST_TIMEOUT (integer seconds or Go duration string; positive).
//   - AUTO_CONFIRM, COMMITCRAFT_DEBUG (1/true/yes/on = true, 0/false/no/off = false).
//   - COMMITCRAFT_CONTEXT_LIMIT (model context in tokens for the prompt-size warning; 0 disables).
//
// The .env file is read, never exported: values in it do not leak into git
// subprocesses.
package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"commitcraft/cli/internal/erruser"
)

// Config is the process-wide configuration snapshot. Load builds it once;
// nothing mutates it afterwards.
type Config struct {
	OllamaURL      string        `validate:"required,http_url"`
	Model          string        `validate:"required"`
	Temperature    float64       `validate:"gte=0,lte=2"`
	TopP           float64       `validate:"gte=0,lte=1"`
	MaxTokens      int           `validate:"gte=1"`
	MaxSuggestions int           `validate:"gte=1,lte=10"`
	RequestTimeout time.Duration `validate:"gt=0"`
	AutoConfirm    bool
	// Debug prints rejected suggestions and other diagnostics.
	Debug bool
	// ContextLimit is the model context size in tokens; 0 disables the prompt-size warning.
	ContextLimit int `validate:"gte=0"`
}

// Overrides represents optional CLI flag overrides. Non-nil pointer means
// "override with this value".
type Overrides struct {
	OllamaURL   *string
	Model       *string
	AutoConfirm *bool
	Debug       *bool
}

// LoadOptions configures Load. All fields are optional.
type LoadOptions struct {
	// RepoRoot is the repository root; if set, RepoRoot/.commitcraft.toml and RepoRoot/.env are read.
	RepoRoot string
	// GlobalConfigPath is the global config file path; if empty, XDG path is used.
	GlobalConfigPath string
	// Env is the environment key=value slice; if nil, os.Environ() is used.
	Env []string
	// Overrides are applied last (highest precedence).
	Overrides *Overrides
}

const (
	_defaultOllamaURL      = "http://localhost:11434"
	_defaultModel          = "llama3.2:latest"
	_defaultTemperature    = 0.7
	_defaultTopP           = 0.9
	_defaultMaxTokens      = 300
	_defaultMaxSuggestions = 5
	_defaultRequestTimeout = 30 * time.Second
	_defaultContextLimit   = 8192

	repoConfigFile = ".commitcraft.toml"
	dotEnvFile     = ".env"
)

// errIntOverflow is returned when an int64 value does not fit in int (e.g. on 32-bit or huge TOML/env values).
var errIntOverflow = errors.New("value out of range for int")

func int64ToInt(n int64) (int, error) {
	if n < int64(math.MinInt) || n > int64(math.MaxInt) {
		return 0, errIntOverflow
	}
	return int(n), nil
}

// DefaultConfig returns the default configuration (no I/O).
func DefaultConfig() Config {
	return Config{
		OllamaURL:      _defaultOllamaURL,
		Model:          _defaultModel,
		Temperature:    _defaultTemperature,
		TopP:           _defaultTopP,
		MaxTokens:      _defaultMaxTokens,
		MaxSuggestions: _defaultMaxSuggestions,
		RequestTimeout: _defaultRequestTimeout,
		ContextLimit:   _defaultContextLimit,
	}
}

// Load loads configuration with precedence: defaults < global file < repo file
// < repo .env < env < overrides, then validates it. Missing files are ignored.
// Invalid TOML, unparsable values or out-of-range values return a ConfigError.
func Load(ctx context.Context, opts LoadOptions) (Config, error) {
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	cfg := DefaultConfig()

	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, configErr("Could not determine config directory.", err)
		}
		globalPath = filepath.Join(dir, "commitcraft", "config.toml")
	}
	if err := mergeFile(&cfg, globalPath); err != nil {
		return Config{}, err
	}

	vals := make(map[string]string)
	if opts.RepoRoot != "" {
		if err := mergeFile(&cfg, filepath.Join(opts.RepoRoot, repoConfigFile)); err != nil {
			return Config{}, err
		}
		dotenv, err := readDotEnv(filepath.Join(opts.RepoRoot, dotEnvFile))
		if err != nil {
			return Config{}, err
		}
		for k, v := range dotenv {
			vals[k] = strings.TrimSpace(v)
		}
	}
	for k, v := range envMap(opts.Env) {
		vals[k] = v
	}
	if err := applyEnv(&cfg, vals); err != nil {
		return Config{}, err
	}

	applyOverrides(&cfg, opts.Overrides)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configErr(msg string, err error) error {
	return erruser.NewKind(erruser.ConfigError, msg, err)
}

func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, configErr("Could not read .env file.", err)
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, configErr("Invalid .env file.", err)
	}
	return vals, nil
}

// mergeFile reads path and merges into cfg. Only fields present in the file
// are overwritten. Missing file is skipped (no error).
func mergeFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return configErr("Invalid configuration file.", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return configErr("Could not read configuration file.", err)
	}
	var file struct {
		OllamaURL      *string  `toml:"ollama_url"`
		Model          *string  `toml:"model"`
		Temperature    *float64 `toml:"temperature"`
		TopP           *float64 `toml:"top_p"`
		MaxTokens      *int64   `toml:"max_tokens"`
		MaxSuggestions *int64   `toml:"max_suggestions"`
		RequestTimeout any      `toml:"request_timeout"`
		AutoConfirm    *bool    `toml:"auto_confirm"`
		Debug          *bool    `toml:"debug"`
		ContextLimit   *int64   `toml:"context_limit"`
	}
	if _, err := toml.Decode(string(data), &file); err != nil {
		return configErr(fmt.Sprintf("Invalid configuration in %s.", filepath.Base(path)), err)
	}
	if file.OllamaURL != nil && *file.OllamaURL != "" {
		cfg.OllamaURL = *file.OllamaURL
	}
	if file.Model != nil && *file.Model != "" {
		cfg.Model = *file.Model
	}
	if file.Temperature != nil {
		cfg.Temperature = *file.Temperature
	}
	if file.TopP != nil {
		cfg.TopP = *file.TopP
	}
	if file.MaxTokens != nil {
		v, err := int64ToInt(*file.MaxTokens)
		if err != nil {
			return configErr("Configuration max_tokens value out of range.", err)
		}
		cfg.MaxTokens = v
	}
	if file.MaxSuggestions != nil {
		v, err := int64ToInt(*file.MaxSuggestions)
		if err != nil {
			return configErr("Configuration max_suggestions value out of range.", err)
		}
		cfg.MaxSuggestions = v
	}
	switch v := file.RequestTimeout.(type) {
	case nil:
	case int64:
		cfg.RequestTimeout = time.Duration(v) * time.Second
	case string:
		d, err := parseDuration(v)
		if err != nil {
			return configErr("Configuration request_timeout is invalid.", err)
		}
		cfg.RequestTimeout = d
	default:
		return configErr("Configuration request_timeout is invalid.", fmt.Errorf("unsupported type %T", v))
	}
	if file.AutoConfirm != nil {
		cfg.AutoConfirm = *file.AutoConfirm
	}
	if file.Debug != nil {
		cfg.Debug = *file.Debug
	}
	if file.ContextLimit != nil {
		v, err := int64ToInt(*file.ContextLimit)
		if err != nil {
			return configErr("Configuration context_limit value out of range.", err)
		}
		cfg.ContextLimit = v
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	// Integer seconds first: REQUEST_TIMEOUT=30 means 30s.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// env key names for config
const (
	envOllamaURL      = "OLLAMA_URL"
	envModel          = "OLLAMA_MODEL"
	envTemperature    = "LLM_TEMPERATURE"
	envTopP           = "LLM_TOP_P"
	envMaxTokens      = "LLM_MAX_TOKENS"
	envMaxSuggestions = "MAX_SUGGESTIONS"
	envRequestTimeout = "REQUEST_TIMEOUT"
	envAutoConfirm    = "AUTO_CONFIRM"
	envDebug          = "COMMITCRAFT_DEBUG"
	envContextLimit   = "COMMITCRAFT_CONTEXT_LIMIT"
)

func envMap(env []string) map[string]string {
	vals := make(map[string]string, len(env))
	for _, e := range env {
		idx := strings.Index(e, "=")
		if idx <= 0 {
			continue
		}
		vals[strings.TrimSpace(e[:idx])] = strings.TrimSpace(e[idx+1:])
	}
	return vals
}

func applyEnv(cfg *Config, vals map[string]string) error {
	if v := vals[envOllamaURL]; v != "" {
		cfg.OllamaURL = v
	}
	if v := vals[envModel]; v != "" {
		cfg.Model = v
	}
	if v := vals[envTemperature]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return configErr(envTemperature+" must be a valid number.", err)
		}
		cfg.Temperature = f
	}
	if v := vals[envTopP]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return configErr(envTopP+" must be a valid number.", err)
		}
		cfg.TopP = f
	}
	if v := vals[envMaxTokens]; v != "" {
		n, err := parseInt(envMaxTokens, v)
		if err != nil {
			return err
		}
		cfg.MaxTokens = n
	}
	if v := vals[envMaxSuggestions]; v != "" {
		n, err := parseInt(envMaxSuggestions, v)
		if err != nil {
			return err
		}
		cfg.MaxSuggestions = n
	}
	if v := vals[envRequestTimeout]; v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return configErr(envRequestTimeout+" must be a number of seconds or a duration.", err)
		}
		cfg.RequestTimeout = d
	}
	if v := vals[envAutoConfirm]; v != "" {
		b, err := parseBool(v)
		if err != nil {
			return configErr(envAutoConfirm+" must be 1/true/yes/on or 0/false/no/off.", err)
		}
		cfg.AutoConfirm = b
	}
	if v := vals[envDebug]; v != "" {
		b, err := parseBool(v)
		if err != nil {
			return configErr(envDebug+" must be 1/true/yes/on or 0/false/no/off.", err)
		}
		cfg.Debug = b
	}
	if v := vals[envContextLimit]; v != "" {
		n, err := parseInt(envContextLimit, v)
		if err != nil {
			return err
		}
		cfg.ContextLimit = n
	}
	return nil
}

func parseInt(key, v string) (int, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, configErr(key+" must be a valid number.", err)
	}
	i, err := int64ToInt(n)
	if err != nil {
		return 0, configErr(key+" value out of range.", err)
	}
	return i, nil
}

// parseBool parses common boolean env values: 1/true/yes/on = true, 0/false/no/off = false (case-insensitive).
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o == nil {
		return
	}
	if o.OllamaURL != nil && *o.OllamaURL != "" {
		cfg.OllamaURL = *o.OllamaURL
	}
	if o.Model != nil && *o.Model != "" {
		cfg.Model = *o.Model
	}
	if o.AutoConfirm != nil {
		cfg.AutoConfirm = *o.AutoConfirm
	}
	if o.Debug != nil {
		cfg.Debug = *o.Debug
	}
}

// Entry is one displayed configuration value.
type Entry struct {
	Key   string
	Value string
}

// Entries lists the effective values under their environment names, for doctor output.
func (c Config) Entries() []Entry {
	return []Entry{
		{envOllamaURL, c.OllamaURL},
		{envModel, c.Model},
		{envTemperature, strconv.FormatFloat(c.Temperature, 'g', -1, 64)},
		{envTopP, strconv.FormatFloat(c.TopP, 'g', -1, 64)},
		{envMaxTokens, strconv.Itoa(c.MaxTokens)},
		{envMaxSuggestions, strconv.Itoa(c.MaxSuggestions)},
		{envRequestTimeout, c.RequestTimeout.String()},
		{envAutoConfirm, strconv.FormatBool(c.AutoConfirm)},
		{envDebug, strconv.FormatBool(c.Debug)},
		{envContextLimit, strconv.Itoa(c.ContextLimit)},
	}
}
