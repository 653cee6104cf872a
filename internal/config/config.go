package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider"`
	DefaultModel    string                    `yaml:"default_model" mapstructure:"default_model"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
	Storage         StorageConfig             `yaml:"storage" mapstructure:"storage"`
	Session         SessionConfig             `yaml:"session" mapstructure:"session"`
	AdminEmail      string                    `yaml:"admin_email" mapstructure:"admin_email"`
	Log             LogConfig                 `yaml:"log" mapstructure:"log"`
	Theme           string                    `yaml:"theme" mapstructure:"theme"`
	RequestTimeout  time.Duration             `yaml:"request_timeout" mapstructure:"request_timeout"`
}

type ProviderConfig struct {
	Type    string `yaml:"type" mapstructure:"type"`
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model   string `yaml:"model,omitempty" mapstructure:"model"`
}

type StorageConfig struct {
	// Backend is one of file, sqlite, redis or memory.
	Backend   string `yaml:"backend" mapstructure:"backend"`
	Dir       string `yaml:"dir" mapstructure:"dir"`
	RedisAddr string `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
}

type SessionConfig struct {
	// Scope is "memory" (session ends with the process) or "file" (shared
	// by processes started from the same terminal until logout or reboot).
	Scope string `yaml:"scope" mapstructure:"scope"`
	// Dir overrides the runtime directory used by the file scope.
	Dir string `yaml:"dir,omitempty" mapstructure:"dir"`
}

type LogConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"`
	File string `yaml:"file,omitempty" mapstructure:"file"`
}

var (
	validProviderTypes = map[string]bool{"openai": true, "google": true}
	validBackends      = map[string]bool{"file": true, "sqlite": true, "redis": true, "memory": true}
	validScopes        = map[string]bool{"memory": true, "file": true}
	validLogModes      = map[string]bool{"dev": true, "prod": true}
)

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

// expandEnv replaces $VARS; unset variables expand to nothing.
func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(strings.TrimPrefix(match, "$"))
	})
}

func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: "gemini",
		DefaultModel:    "gemini-2.5-flash",
		Theme:           "sky",
		AdminEmail:      "admin@learnsimply.ai",
		RequestTimeout:  60 * time.Second,
		Providers: map[string]ProviderConfig{
			"gemini": {Type: "google", APIKey: "$GEMINI_API_KEY"},
			"ollama": {Type: "openai", BaseURL: "http://localhost:11434/v1", Model: "llama3.1"},
		},
		Storage: StorageConfig{
			Backend:   "file",
			Dir:       DataDir(),
			RedisAddr: "localhost:6379",
			Namespace: "learnsimply_",
		},
		Session: SessionConfig{Scope: "memory"},
		Log:     LogConfig{Mode: "dev", File: filepath.Join(DataDir(), "learnsimply.log")},
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "learnsimply")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "learnsimply")
}

// Path is where Save writes the user config by default.
func Path() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DataDir holds the file and sqlite stores and the log file.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "learnsimply")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "learnsimply")
}

// RuntimeDir is where the file session scope keeps the session record:
// $XDG_RUNTIME_DIR/learnsimply/<terminal>, or a per-user directory under
// the system temp dir. The terminal is identified by the parent shell, so
// each terminal gets its own login and none of them survive a reboot.
func RuntimeDir() string {
	term := strconv.Itoa(os.Getppid())
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "learnsimply", term)
	}
	return filepath.Join(os.TempDir(), "learnsimply-"+strconv.Itoa(os.Getuid()), term)
}

// SessionDir is the directory of the file session scope.
func (c *Config) SessionDir() string {
	if c.Session.Dir != "" {
		return c.Session.Dir
	}
	return RuntimeDir()
}

// Load reads configuration from path, or from the usual search locations
// when path is empty. A .env file in the working directory is loaded first
// so the AI service credential can live there.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir())
	}

	v.SetEnvPrefix("LEARNSIMPLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, val := range map[string]any{
		"default_provider":   cfg.DefaultProvider,
		"default_model":      cfg.DefaultModel,
		"theme":              cfg.Theme,
		"admin_email":        cfg.AdminEmail,
		"request_timeout":    cfg.RequestTimeout,
		"storage.backend":    cfg.Storage.Backend,
		"storage.dir":        cfg.Storage.Dir,
		"storage.redis_addr": cfg.Storage.RedisAddr,
		"storage.namespace":  cfg.Storage.Namespace,
		"session.scope":      cfg.Session.Scope,
		"session.dir":        cfg.Session.Dir,
		"log.mode":           cfg.Log.Mode,
		"log.file":           cfg.Log.File,
	} {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	for name, p := range cfg.Providers {
		p.APIKey = expandEnv(p.APIKey)
		p.BaseURL = expandEnv(p.BaseURL)
		if p.Type == "google" && p.APIKey == "" {
			p.APIKey = os.Getenv("API_KEY")
		}
		cfg.Providers[name] = p
	}
	cfg.Storage.Dir = expandEnv(cfg.Storage.Dir)
	cfg.Session.Dir = expandEnv(cfg.Session.Dir)
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ProviderFor(name string) (ProviderConfig, bool) {
	p, ok := c.Providers[name]
	return p, ok
}

// ActiveProvider returns the default provider with the model resolved.
func (c *Config) ActiveProvider() (string, ProviderConfig) {
	p := c.Providers[c.DefaultProvider]
	if p.Model == "" {
		p.Model = c.DefaultModel
	}
	return c.DefaultProvider, p
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DefaultProvider == "" {
		return fmt.Errorf("config: default_provider is required")
	}
	if _, ok := c.Providers[c.DefaultProvider]; !ok {
		return fmt.Errorf("config: default_provider %q not found in providers", c.DefaultProvider)
	}
	for name, p := range c.Providers {
		if !validProviderTypes[p.Type] {
			return fmt.Errorf("config: provider %q has invalid type %q (must be google or openai)", name, p.Type)
		}
		if p.Type == "openai" && p.BaseURL == "" {
			return fmt.Errorf("config: provider %q (type openai) requires base_url", name)
		}
	}
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("config: storage.backend %q must be file, sqlite, redis or memory", c.Storage.Backend)
	}
	if (c.Storage.Backend == "file" || c.Storage.Backend == "sqlite") && c.Storage.Dir == "" {
		return fmt.Errorf("config: storage.dir is required for the %s backend", c.Storage.Backend)
	}
	if c.Storage.Backend == "redis" && c.Storage.RedisAddr == "" {
		return fmt.Errorf("config: storage.redis_addr is required for the redis backend")
	}
	if !validScopes[c.Session.Scope] {
		return fmt.Errorf("config: session.scope %q must be memory or file", c.Session.Scope)
	}
	if !validLogModes[c.Log.Mode] {
		return fmt.Errorf("config: log.mode %q must be dev or prod", c.Log.Mode)
	}
	if c.AdminEmail == "" {
		return fmt.Errorf("config: admin_email is required")
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}
	return nil
}

// Warnings lists problems that do not stop the app but will make AI calls fail.
func (c *Config) Warnings() []string {
	var out []string
	name, p := c.ActiveProvider()
	if p.Type == "google" && p.APIKey == "" {
		out = append(out, fmt.Sprintf("provider %q has no API key (set GEMINI_API_KEY or add it to .env)", name))
	}
	return out
}
