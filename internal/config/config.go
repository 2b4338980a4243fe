// internal/config/config.go
//
// This package handles configuration and the regimen home directory.
// Every user gets a ~/.regimen/ folder (or $REGIMEN_HOME) holding the
// config file, logs and the small amount of state the shell remembers.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// HomeDirName is the directory created under the user's home.
	HomeDirName = ".regimen"

	DefaultBaseURL             = "http://127.0.0.1:8780"
	DefaultTimeout             = 20 * time.Second
	DefaultMaxBodyBytes  int64 = 1 << 20
	DefaultDevServerHost       = "127.0.0.1"
	DefaultDevServerPort       = 8780
)

const defaultConfigYAML = `# regimen configuration
version: 1

# Program backend used by the setup wizard.
api:
  base_url: http://127.0.0.1:8780
  timeout: 20s
  # max_body_bytes: 1048576

# Optional catalog override. Leave empty to use the bundled catalog.
catalog:
  path: ""

# Local stub backend started by ` + "`regimen stub`" + `.
dev_server:
  host: 127.0.0.1
  port: 8780
`

// APIConfig describes the program backend.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes,omitempty"`
}

// CatalogConfig points at an optional catalog file.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// DevServerConfig binds the local stub backend.
type DevServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// FileConfig models <home>/config.yaml.
type FileConfig struct {
	Version   int             `yaml:"version"`
	API       APIConfig       `yaml:"api"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	DevServer DevServerConfig `yaml:"dev_server"`
}

// LastProgram is the program the user created most recently.
type LastProgram struct {
	ID        string    `yaml:"id"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Config holds the runtime configuration for regimen.
type Config struct {
	// HomeDir is where config.yaml, logs/ and state/ live
	HomeDir string

	File FileConfig
}

// ResolveHome returns $REGIMEN_HOME or ~/.regimen.
func ResolveHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("REGIMEN_HOME")); home != "" {
		return filepath.Clean(home), nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home: %w", err)
	}
	return filepath.Join(userHome, HomeDirName), nil
}

// InitHomeDir creates the home directory structure.
//
// Structure created:
// <home>/
// ├── config.yaml
// ├── logs/   <- wizard journey and diagnostics
// └── state/  <- last created program
func InitHomeDir(home string) error {
	dirs := []string{
		filepath.Join(home, "logs"),
		filepath.Join(home, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: ensure %s: %w", dir, err)
		}
	}
	return ensureConfigFile(filepath.Join(home, "config.yaml"))
}

// NewConfig loads <home>/config.yaml and applies environment overrides.
func NewConfig(home string) (*Config, error) {
	cfg := &Config{
		HomeDir: home,
		File:    defaultFileConfig(),
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	cfg.File.applyEnvOverrides()
	cfg.File.normalize(home)
	if err := cfg.File.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.HomeDir, "logs")
}

// StateDir returns the path to the state directory
func (c *Config) StateDir() string {
	return filepath.Join(c.HomeDir, "state")
}

// ConfigPath returns the on-disk location of the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.HomeDir, "config.yaml")
}

// LastProgramPath returns the file remembering the last created program.
func (c *Config) LastProgramPath() string {
	return filepath.Join(c.StateDir(), "last_program.yaml")
}

// DevServerAddress returns the stub backend bind address.
func (c *Config) DevServerAddress() string {
	return fmt.Sprintf("%s:%d", c.File.DevServer.Host, c.File.DevServer.Port)
}

// LastProgram returns the remembered program, ok=false when none is stored.
func (c *Config) LastProgram() (LastProgram, bool, error) {
	data, err := os.ReadFile(c.LastProgramPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LastProgram{}, false, nil
		}
		return LastProgram{}, false, fmt.Errorf("config: read last program: %w", err)
	}
	var last LastProgram
	if err := yaml.Unmarshal(data, &last); err != nil {
		return LastProgram{}, false, fmt.Errorf("config: parse last program: %w", err)
	}
	if strings.TrimSpace(last.ID) == "" {
		return LastProgram{}, false, nil
	}
	return last, true, nil
}

// SaveLastProgram remembers id as the most recently created program.
func (c *Config) SaveLastProgram(id string, at time.Time) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("config: program id is required")
	}
	if err := os.MkdirAll(c.StateDir(), 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	data, err := yaml.Marshal(LastProgram{ID: id, CreatedAt: at.UTC()})
	if err != nil {
		return fmt.Errorf("config: encode last program: %w", err)
	}
	if err := os.WriteFile(c.LastProgramPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write last program: %w", err)
	}
	return nil
}

func (c *Config) loadFile() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultFileConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.File = parsed
	return nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		API: APIConfig{
			BaseURL:      DefaultBaseURL,
			Timeout:      DefaultTimeout,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		DevServer: DevServerConfig{
			Host: DefaultDevServerHost,
			Port: DefaultDevServerPort,
		},
	}
}

func (fc *FileConfig) applyEnvOverrides() {
	if value := strings.TrimSpace(os.Getenv("REGIMEN_API_URL")); value != "" {
		fc.API.BaseURL = value
	}
	if value := strings.TrimSpace(os.Getenv("REGIMEN_API_TIMEOUT")); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			fc.API.Timeout = d
		}
	}
	if value := strings.TrimSpace(os.Getenv("REGIMEN_CATALOG")); value != "" {
		fc.Catalog.Path = value
	}
	if value := strings.TrimSpace(os.Getenv("REGIMEN_DEV_PORT")); value != "" {
		if port, err := strconv.Atoi(value); err == nil {
			fc.DevServer.Port = port
		}
	}
}

func (fc *FileConfig) normalize(base string) {
	if fc.Version == 0 {
		fc.Version = 1
	}
	fc.API.BaseURL = strings.TrimRight(strings.TrimSpace(fc.API.BaseURL), "/")
	if fc.API.BaseURL == "" {
		fc.API.BaseURL = DefaultBaseURL
	}
	if fc.API.Timeout <= 0 {
		fc.API.Timeout = DefaultTimeout
	}
	if fc.API.MaxBodyBytes <= 0 {
		fc.API.MaxBodyBytes = DefaultMaxBodyBytes
	}
	fc.Catalog.Path = resolvePath(base, fc.Catalog.Path)
	fc.DevServer.Host = strings.TrimSpace(fc.DevServer.Host)
	if fc.DevServer.Host == "" {
		fc.DevServer.Host = DefaultDevServerHost
	}
	if fc.DevServer.Port == 0 {
		fc.DevServer.Port = DefaultDevServerPort
	}
}

func (fc *FileConfig) validate() error {
	if fc.Version != 1 {
		return fmt.Errorf("config version must be 1")
	}
	u, err := url.Parse(fc.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host")
	}
	if fc.DevServer.Port < 0 || fc.DevServer.Port > 65535 {
		return fmt.Errorf("dev_server.port %d is out of range", fc.DevServer.Port)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
