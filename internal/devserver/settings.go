package devserver

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/regimen/internal/config"
)

const (
	DefaultHost         = config.DefaultDevServerHost
	DefaultPort         = config.DefaultDevServerPort
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 15 * time.Second
	DefaultIdleTimeout  = 60 * time.Second
)

// DefaultMaxBodyBytes limits request payloads to 1 MB.
const DefaultMaxBodyBytes int64 = 1 << 20

// Settings captures runtime configuration for the stub backend.
type Settings struct {
	Host         string
	Port         int
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SettingsFromConfig builds Settings from the regimen config and the
// REGIMEN_DEV_HOST override.
func SettingsFromConfig(cfg *config.Config) Settings {
	settings := Settings{
		Host:         DefaultHost,
		Port:         DefaultPort,
		MaxBodyBytes: DefaultMaxBodyBytes,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}
	if cfg != nil {
		if host := strings.TrimSpace(cfg.File.DevServer.Host); host != "" {
			settings.Host = host
		}
		if isValidPort(cfg.File.DevServer.Port) {
			settings.Port = cfg.File.DevServer.Port
		}
	}
	if host := strings.TrimSpace(os.Getenv("REGIMEN_DEV_HOST")); host != "" {
		settings.Host = host
	}
	settings.normalize()
	return settings
}

func (s *Settings) normalize() {
	s.Host = strings.TrimSpace(s.Host)
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Port != 0 && !isValidPort(s.Port) {
		s.Port = DefaultPort
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
}

// Address returns the TCP bind address in host:port form. Port 0 binds an
// ephemeral port.
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
