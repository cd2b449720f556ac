package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/seoscribe/internal/version"
)

// NewLogger builds the shell's zap logger.
// prod writes JSON, local/dev/docker write colored console lines, test is a no-op.
// A non-empty level (debug, info, warn, error) replaces the environment default.
func NewLogger(env string, level ...string) (*zap.Logger, error) {
	if env == "test" {
		return zap.NewNop(), nil
	}

	cfg, err := configFor(env)
	if err != nil {
		return nil, err
	}
	if len(level) > 0 && level[0] != "" {
		lvl, perr := zapcore.ParseLevel(level[0])
		if perr != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level[0], perr)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("service", "seoscribe"),
			zap.String("version", version.Version),
			zap.String("env", env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

func configFor(env string) (zap.Config, error) {
	switch env {
	case "prod":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg, nil
	case "local", "dev", "docker":
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg, nil
	default:
		return zap.Config{}, fmt.Errorf("unknown environment %q for logger", env)
	}
}

// Secret logs a credential by length and its last four characters only.
func Secret(key, value string) zap.Field {
	if value == "" {
		return zap.String(key, "")
	}
	const tail = 4
	if len(value) <= tail {
		return zap.String(key, fmt.Sprintf("***(%d)", len(value)))
	}
	return zap.String(key, fmt.Sprintf("***%s(%d)", value[len(value)-tail:], len(value)))
}
