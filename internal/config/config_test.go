package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, projectDir, body string) {
	t.Helper()
	dir := filepath.Join(projectDir, ProjectDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(strings.TrimSpace(body)), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if c.Project.Server.Port != DefaultPort || c.Project.Server.Host != DefaultHost {
		t.Fatalf("unexpected server defaults: %+v", c.Project.Server)
	}
	if c.Project.Advisor.Backend != BackendOffline {
		t.Fatalf("expected offline backend, got %q", c.Project.Advisor.Backend)
	}
	if !c.LateZiNextDay() {
		t.Fatalf("expected late zi to default on")
	}
	if c.LogsDir() != filepath.Join(projectDir, ".liuyao", "logs") {
		t.Fatalf("unexpected logs dir %s", c.LogsDir())
	}
}

func TestInitProjectDirWritesParsableDefault(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitProjectDir(projectDir); err != nil {
		t.Fatalf("InitProjectDir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, ".liuyao", "logs")); err != nil {
		t.Fatalf("expected logs dir: %v", err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("default config should parse: %v", err)
	}
	if c.Project.Advisor.Timeout != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %s", c.Project.Advisor.Timeout)
	}
	if c.Project.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Fatalf("expected %d body limit, got %d", DefaultMaxBodyBytes, c.Project.Server.MaxBodyBytes)
	}
}

func TestInitProjectDirKeepsExistingConfig(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, "version: 1\nserver:\n  port: 9000\n")
	if err := InitProjectDir(projectDir); err != nil {
		t.Fatalf("InitProjectDir: %v", err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if c.Project.Server.Port != 9000 {
		t.Fatalf("existing config was overwritten, port %d", c.Project.Server.Port)
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, `
version: 1
server:
  host: 0.0.0.0
  port: 9100
  allow_origin: https://example.com
advisor:
  backend: OpenAI
  base_url: http://localhost:11434/v1/
  timeout: 15s
  temperature: 0.2
calendar:
  late_zi_next_day: false
`)
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	adv := c.Project.Advisor
	if adv.Backend != BackendOpenAI {
		t.Fatalf("expected backend to normalise to openai, got %q", adv.Backend)
	}
	if adv.BaseURL != "http://localhost:11434/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", adv.BaseURL)
	}
	if adv.Model != DefaultOpenAIModel {
		t.Fatalf("expected default openai model, got %q", adv.Model)
	}
	if adv.Timeout != 15*time.Second || adv.Temperature != 0.2 {
		t.Fatalf("unexpected advisor tuning: %+v", adv)
	}
	if c.LateZiNextDay() {
		t.Fatalf("expected late zi disabled")
	}
	if c.Project.Server.AllowOrigin != "https://example.com" {
		t.Fatalf("unexpected allow origin %q", c.Project.Server.AllowOrigin)
	}
}

func TestNewConfigValidation(t *testing.T) {
	cases := map[string]string{
		"backend":     "advisor:\n  backend: claude-on-a-napkin\n",
		"port":        "server:\n  port: 70000\n",
		"temperature": "advisor:\n  temperature: 3.5\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			projectDir := t.TempDir()
			writeConfig(t, projectDir, body)
			if _, err := NewConfig(projectDir); err == nil {
				t.Fatalf("expected validation error but got none")
			}
		})
	}
}

func TestNewConfigEnvOverrides(t *testing.T) {
	projectDir := t.TempDir()
	t.Setenv("LIUYAO_BACKEND", "gemini")
	t.Setenv("LIUYAO_MODEL", "gemini-2.5-pro")
	t.Setenv("LIUYAO_TIMEOUT", "5s")
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if c.Project.Advisor.Backend != BackendGemini || c.Project.Advisor.Model != "gemini-2.5-pro" {
		t.Fatalf("env overrides not applied: %+v", c.Project.Advisor)
	}
	if c.Project.Advisor.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", c.Project.Advisor.Timeout)
	}
}

func TestSetBackendPersists(t *testing.T) {
	projectDir := t.TempDir()
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if err := c.SetBackend("gemini"); err != nil {
		t.Fatalf("SetBackend: %v", err)
	}
	reloaded, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Project.Advisor.Backend != BackendGemini {
		t.Fatalf("expected persisted gemini backend, got %q", reloaded.Project.Advisor.Backend)
	}
	if reloaded.Project.Advisor.Model != DefaultGeminiModel {
		t.Fatalf("expected default gemini model, got %q", reloaded.Project.Advisor.Model)
	}
	if err := c.SetBackend("bogus"); err == nil {
		t.Fatalf("expected invalid backend to be rejected")
	}
}

func TestAPIKeyReadsConfiguredEnv(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, "advisor:\n  api_key_env: MY_KEY\n")
	t.Setenv("MY_KEY", "  secret ")
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if c.APIKey() != "secret" {
		t.Fatalf("expected trimmed key, got %q", c.APIKey())
	}
}
