package server

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/liuyao/internal/config"
)

const (
	// DefaultReadTimeout guards hung clients.
	DefaultReadTimeout = 15 * time.Second
	// DefaultIdleTimeout bounds keep-alive connections.
	DefaultIdleTimeout = 60 * time.Second
	// writeMargin is added to the advisor timeout so a slow backend can still
	// degrade to offline text before the connection is cut.
	writeMargin = 15 * time.Second
)

// Settings captures runtime configuration for the HTTP API.
type Settings struct {
	Host         string
	Port         int
	AllowOrigin  string
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// LateZiNextDay starts the day pillar at 23:00.
	LateZiNextDay bool
	// Location interprets request times without a zone and the server clock.
	Location *time.Location
}

// SettingsFromConfig builds Settings using the project's .liuyao config and
// LIUYAO_HOST / LIUYAO_PORT overrides.
func SettingsFromConfig(cfg *config.Config) Settings {
	settings := Settings{
		Host:          config.DefaultHost,
		Port:          config.DefaultPort,
		AllowOrigin:   config.DefaultAllowOrigin,
		MaxBodyBytes:  config.DefaultMaxBodyBytes,
		ReadTimeout:   DefaultReadTimeout,
		WriteTimeout:  config.DefaultTimeout + writeMargin,
		IdleTimeout:   DefaultIdleTimeout,
		LateZiNextDay: true,
		Location:      time.Local,
	}
	if cfg != nil {
		raw := cfg.Project.Server
		if host := strings.TrimSpace(raw.Host); host != "" {
			settings.Host = host
		}
		if isValidPort(raw.Port) {
			settings.Port = raw.Port
		}
		if origin := strings.TrimSpace(raw.AllowOrigin); origin != "" {
			settings.AllowOrigin = origin
		}
		if raw.MaxBodyBytes > 0 {
			settings.MaxBodyBytes = raw.MaxBodyBytes
		}
		if cfg.Project.Advisor.Timeout > 0 {
			settings.WriteTimeout = cfg.Project.Advisor.Timeout + writeMargin
		}
		settings.LateZiNextDay = cfg.LateZiNextDay()
	}
	settings.applyEnvOverrides()
	settings.normalize()
	return settings
}

func (s *Settings) applyEnvOverrides() {
	if s == nil {
		return
	}
	if host := strings.TrimSpace(os.Getenv("LIUYAO_HOST")); host != "" {
		s.Host = host
	}
	if port := strings.TrimSpace(os.Getenv("LIUYAO_PORT")); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil && isValidPort(parsed) {
			s.Port = parsed
		}
	}
}

func (s *Settings) normalize() {
	if s == nil {
		return
	}
	s.Host = strings.TrimSpace(s.Host)
	if s.Host == "" {
		s.Host = config.DefaultHost
	}
	if s.Port < 0 || s.Port > 65535 {
		s.Port = config.DefaultPort
	}
	if s.AllowOrigin == "" {
		s.AllowOrigin = config.DefaultAllowOrigin
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = config.DefaultTimeout + writeMargin
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.Location == nil {
		s.Location = time.Local
	}
}

// Address returns the TCP bind address in host:port form.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the HTTP base URL for the server.
func (s Settings) URL() string {
	return "http://" + s.Address()
}

func isValidPort(port int) bool {
	return port > 0 && port <= 65535
}
