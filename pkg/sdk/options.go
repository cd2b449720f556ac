package seoscribe

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	origin   string
	apiBase  string
	authBase string
	timeout  time.Duration
	client   *http.Client

	driver    string // "sqlite", "redis" or "memory"
	path      string
	addrs     []string
	password  string
	keyPrefix string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithOrigin sets the origin that relative API and auth bases resolve against.
func WithOrigin(origin string) Option {
	return optionFunc(func(c *clientConfig) {
		c.origin = origin
	})
}

// WithAPIBase overrides the API base. Default: /api.
func WithAPIBase(base string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiBase = base
	})
}

// WithAuthBase overrides the auth base. Default: /auth.
func WithAuthBase(base string) Option {
	return optionFunc(func(c *clientConfig) {
		c.authBase = base
	})
}

// WithTimeout bounds every backend request. Generation can take minutes,
// so keep this generous. Default: 150s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient replaces the HTTP client used for backend calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.client = hc
	})
}

// WithSQLite keeps the session and usage cache in a local SQLite file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.path = path
	})
}

// WithRedis keeps the session and usage cache in Redis or Valkey.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMemoryStorage keeps everything in process memory (default).
// The session is lost on restart.
func WithMemoryStorage() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
	})
}

// WithKeyPrefix namespaces storage keys. Default: "seoscribe:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
