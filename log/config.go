package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"moul.io/zapfilter"
)

// Config describes the optional log config file.
// Filters use the zapfilter rule syntax, e.g. "debug:benchmark,traffic".
// Named loggers not matched by any rule fall back to DefaultLevel.
type Config struct {
	DefaultLevel string   `yaml:"defaultLevel"`
	Filters      []string `yaml:"filters"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ret := &Config{DefaultLevel: "info"}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("invalid log config %s: %w", path, err)
	}
	return ret, nil
}

// NewWithConfig creates a JSON logger whose output is additionally
// filtered by the rules of cfg.
func NewWithConfig(w io.Writer, cfg *Config, opts ...Option) (*Logger, error) {
	level, err := ParseLevel(cfg.DefaultLevel)
	if err != nil {
		return nil, err
	}
	if len(cfg.Filters) == 0 {
		return New(w, level, opts...), nil
	}
	rules, err := zapfilter.ParseRules(strings.Join(cfg.Filters, " "))
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	filtered := zapfilter.NewFilteringCore(core, func(e zapcore.Entry, f []zapcore.Field) bool {
		if rules(e, f) {
			return true
		}
		return e.LoggerName == "" && e.Level >= level
	})
	return &Logger{l: zap.New(filtered, opts...), level: level}, nil
}
