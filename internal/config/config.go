package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the seoscribe app shell configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Backend BackendConfig `yaml:"backend"`
	Storage StorageConfig `yaml:"storage"`
	CORS    CORSConfig    `yaml:"cors"`
	Shell   ShellConfig   `yaml:"shell"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" env:"SEOSCRIBE_LOG_LEVEL"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port" env:"SEOSCRIBE_PORT"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// BackendConfig locates the content backend. Relative bases resolve against Origin.
type BackendConfig struct {
	Origin     string `yaml:"origin" env:"SEOSCRIBE_ORIGIN"`
	APIBase    string `yaml:"api_base" env:"SEOSCRIBE_API_BASE"`
	AuthBase   string `yaml:"auth_base" env:"SEOSCRIBE_AUTH_BASE"`
	TimeoutSec int    `yaml:"timeout_sec" env:"SEOSCRIBE_BACKEND_TIMEOUT_SEC"`
}

// StorageConfig holds local storage settings for the session and usage cache.
type StorageConfig struct {
	Driver           string   `yaml:"driver" env:"SEOSCRIBE_STORAGE_DRIVER"` // sqlite, redis, memory (default: sqlite)
	Path             string   `yaml:"path" env:"SEOSCRIBE_STORAGE_PATH"`     // sqlite file
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	TTLHours         int      `yaml:"ttl_hours"` // redis key expiry, 0 keeps keys forever
}

// CORSConfig lists browser origins allowed to call the shell.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"SEOSCRIBE_CORS_ORIGINS" envSeparator:","`
}

// ShellConfig holds settings of the app shell itself.
type ShellConfig struct {
	// PublicURL is where the browser reaches the shell; sign-in redirects land on it.
	PublicURL string `yaml:"public_url" env:"SEOSCRIBE_PUBLIC_URL"`
}

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod),
// then applies SEOSCRIBE_* environment overrides.
func Load(env string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return parse(data)
}

// loadDotEnv exports variables from a local .env file. Variables already set
// in the environment win. A missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// generation requests stream through the shell and take a while
		c.HTTP.WriteTimeoutSec = 180
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Backend.APIBase == "" {
		c.Backend.APIBase = "/api"
	}
	if c.Backend.AuthBase == "" {
		c.Backend.AuthBase = "/auth"
	}
	if c.Backend.TimeoutSec <= 0 {
		c.Backend.TimeoutSec = 150
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	if c.Storage.Driver == DriverSQLite && c.Storage.Path == "" {
		c.Storage.Path = "seoscribe.db"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "seoscribe:"
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}
	if c.Shell.PublicURL == "" {
		c.Shell.PublicURL = fmt.Sprintf("http://localhost:%d", c.HTTP.Port)
	}
	c.Shell.PublicURL = strings.TrimRight(c.Shell.PublicURL, "/")
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	if c.Backend.Origin != "" && !isAbsURL(c.Backend.Origin) {
		return fmt.Errorf("backend.origin must be an absolute URL, got %q", c.Backend.Origin)
	}
	if c.Backend.Origin == "" && (!isAbsURL(c.Backend.APIBase) || !isAbsURL(c.Backend.AuthBase)) {
		return fmt.Errorf("backend.origin is required when api_base or auth_base is relative")
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case DriverRedis:
		if len(c.Storage.Addrs) == 0 {
			return fmt.Errorf("storage.addrs is required for the redis driver")
		}
		if c.Storage.TTLHours < 0 {
			return fmt.Errorf("storage.ttl_hours must be >= 0, got %d", c.Storage.TTLHours)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver must be one of sqlite, redis, memory, got %q", c.Storage.Driver)
	}

	if !isAbsURL(c.Shell.PublicURL) {
		return fmt.Errorf("shell.public_url must be an absolute URL, got %q", c.Shell.PublicURL)
	}
	return nil
}

func isAbsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && u.Host != ""
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
