// internal/config/config.go
//
// This package handles configuration and the .liuyao directory structure.
// Running `liuyao init` (or any command) in a directory gives it a .liuyao/
// folder holding config.yaml and logs.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectDirName is the name of the directory we create in each project
	ProjectDirName = ".liuyao"

	BackendOffline = "offline"
	BackendGemini  = "gemini"
	BackendOpenAI  = "openai"

	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8787
	DefaultAllowOrigin   = "*"
	DefaultMaxBodyBytes  = int64(64 << 10)
	DefaultAPIKeyEnv     = "LIUYAO_API_KEY"
	DefaultTimeout       = 60 * time.Second
	DefaultTemperature   = 0.7
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	maxTemperature       = 2.0
	defaultLateZiNextDay = true
	configFileName       = "config.yaml"
	logsDirName          = "logs"
)

const defaultProjectConfigYAML = `# liuyao project configuration
version: 1

# HTTP API served by ` + "`liuyao serve`" + `.
server:
  host: 127.0.0.1
  port: 8787
  allow_origin: "*"
  max_body_bytes: 65536

# Text-generation backend for advice: offline, gemini or openai.
# The API key is read from the environment variable named by api_key_env.
advisor:
  backend: offline
  # model: gemini-2.0-flash
  # base_url: https://api.openai.com/v1
  api_key_env: LIUYAO_API_KEY
  timeout: 60s
  temperature: 0.7

calendar:
  # Start the day pillar at 23:00 (the late 子 hour) instead of midnight.
  late_zi_next_day: true

logging:
  debug: false
`

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	AllowOrigin  string `yaml:"allow_origin"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// AdvisorConfig selects and tunes the text-generation backend.
type AdvisorConfig struct {
	Backend     string        `yaml:"backend"`
	Model       string        `yaml:"model,omitempty"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float64       `yaml:"temperature"`
}

// CalendarConfig tunes pillar computation.
type CalendarConfig struct {
	LateZiNextDay *bool `yaml:"late_zi_next_day,omitempty"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// ProjectConfig models .liuyao/config.yaml.
type ProjectConfig struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Advisor  AdvisorConfig  `yaml:"advisor"`
	Calendar CalendarConfig `yaml:"calendar"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Config holds the runtime configuration for liuyao.
type Config struct {
	// ProjectDir is the directory liuyao was started from (or --dir)
	ProjectDir string

	// ConfigDir is ProjectDir/.liuyao
	ConfigDir string

	Project ProjectConfig
}

// InitProjectDir creates the .liuyao directory structure in the given project
// directory and writes a commented default config.yaml if none exists.
//
// Structure created:
// .liuyao/
// ├── config.yaml
// └── logs/
func InitProjectDir(projectDir string) error {
	dir := filepath.Join(projectDir, ProjectDirName)
	if err := os.MkdirAll(filepath.Join(dir, logsDirName), 0755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(dir, configFileName))
}

// NewConfig loads the project config, falling back to defaults when the file
// is missing, then applies LIUYAO_BACKEND and LIUYAO_MODEL overrides.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		ConfigDir:  filepath.Join(projectDir, ProjectDirName),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	cfg.Project.applyEnvOverrides()
	cfg.Project.normalize()
	if err := cfg.Project.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.ConfigDir, logsDirName)
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.ConfigDir, configFileName)
}

// LateZiNextDay reports whether 23:00 starts the next day pillar.
func (c *Config) LateZiNextDay() bool {
	if c.Project.Calendar.LateZiNextDay == nil {
		return defaultLateZiNextDay
	}
	return *c.Project.Calendar.LateZiNextDay
}

// APIKey reads the advisor key from the configured environment variable.
func (c *Config) APIKey() string {
	return strings.TrimSpace(os.Getenv(c.Project.Advisor.APIKeyEnv))
}

// SetBackend switches the advisor backend and persists the change to
// .liuyao/config.yaml. Model and base URL reset to the backend defaults.
func (c *Config) SetBackend(backend string) error {
	backend = normalizeBackend(backend)
	if backend == "" {
		return fmt.Errorf("config: backend is required")
	}
	if backend != c.Project.Advisor.Backend {
		c.Project.Advisor.Model = ""
		c.Project.Advisor.BaseURL = ""
	}
	c.Project.Advisor.Backend = backend
	return c.Save()
}

// Save validates and writes the project config.
func (c *Config) Save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure project dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	pc.normalize()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Server.Host == "" {
		pc.Server.Host = DefaultHost
	}
	if pc.Server.Port == 0 {
		pc.Server.Port = DefaultPort
	}
	if pc.Server.AllowOrigin == "" {
		pc.Server.AllowOrigin = DefaultAllowOrigin
	}
	if pc.Server.MaxBodyBytes == 0 {
		pc.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if pc.Advisor.Backend == "" {
		pc.Advisor.Backend = BackendOffline
	}
	if pc.Advisor.APIKeyEnv == "" {
		pc.Advisor.APIKeyEnv = DefaultAPIKeyEnv
	}
	if pc.Advisor.Timeout == 0 {
		pc.Advisor.Timeout = DefaultTimeout
	}
	if pc.Advisor.Temperature == 0 {
		pc.Advisor.Temperature = DefaultTemperature
	}
}

func (pc *ProjectConfig) applyEnvOverrides() {
	if backend := strings.TrimSpace(os.Getenv("LIUYAO_BACKEND")); backend != "" {
		if normalizeBackend(backend) != normalizeBackend(pc.Advisor.Backend) {
			pc.Advisor.Model = ""
			pc.Advisor.BaseURL = ""
		}
		pc.Advisor.Backend = backend
	}
	if model := strings.TrimSpace(os.Getenv("LIUYAO_MODEL")); model != "" {
		pc.Advisor.Model = model
	}
	if raw := strings.TrimSpace(os.Getenv("LIUYAO_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			pc.Advisor.Timeout = d
		}
	}
	if raw := strings.TrimSpace(os.Getenv("LIUYAO_DEBUG")); raw != "" {
		if debug, err := strconv.ParseBool(raw); err == nil {
			pc.Logging.Debug = debug
		}
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Server.Host = strings.TrimSpace(pc.Server.Host)
	pc.Server.AllowOrigin = strings.TrimSpace(pc.Server.AllowOrigin)
	pc.Advisor.Backend = normalizeBackend(pc.Advisor.Backend)
	pc.Advisor.Model = strings.TrimSpace(pc.Advisor.Model)
	pc.Advisor.BaseURL = strings.TrimRight(strings.TrimSpace(pc.Advisor.BaseURL), "/")
	pc.Advisor.APIKeyEnv = strings.TrimSpace(pc.Advisor.APIKeyEnv)
	switch pc.Advisor.Backend {
	case BackendGemini:
		if pc.Advisor.Model == "" {
			pc.Advisor.Model = DefaultGeminiModel
		}
	case BackendOpenAI:
		if pc.Advisor.Model == "" {
			pc.Advisor.Model = DefaultOpenAIModel
		}
		if pc.Advisor.BaseURL == "" {
			pc.Advisor.BaseURL = DefaultOpenAIBaseURL
		}
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if pc.Server.Port <= 0 || pc.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if pc.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	switch pc.Advisor.Backend {
	case BackendOffline, BackendGemini, BackendOpenAI:
	default:
		return fmt.Errorf("advisor.backend must be 'offline', 'gemini' or 'openai'")
	}
	if pc.Advisor.Timeout < 0 {
		return fmt.Errorf("advisor.timeout must be positive")
	}
	if pc.Advisor.Temperature < 0 || pc.Advisor.Temperature > maxTemperature {
		return fmt.Errorf("advisor.temperature must be between 0 and %.0f", maxTemperature)
	}
	if pc.Advisor.Backend != BackendOffline && pc.Advisor.APIKeyEnv == "" {
		return fmt.Errorf("advisor.api_key_env is required for the %s backend", pc.Advisor.Backend)
	}
	return nil
}

func normalizeBackend(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}
