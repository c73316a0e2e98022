package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment 決定 logger 的基本設定
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
)

// Config logger 初始化參數
type Config struct {
	Environment Environment `yaml:"environment"`
	Level       string      `yaml:"level"`
	// OutputPaths 預設 stderr，stdout 留給 CSV 結果
	OutputPaths []string `yaml:"output_paths"`
}

// New 建立 zap logger
//
// 參數:
//
//	cfg: logger 設定
//
// 回傳:
//
//	*zap.Logger: logger 實例
//	error: 設定錯誤 (例如未知的 level)
func New(cfg Config) (*zap.Logger, error) {
	base, err := buildConfig(cfg.Environment)
	if err != nil {
		return nil, err
	}

	level, err := ParseLevel(cfg.Level, cfg.Environment)
	if err != nil {
		return nil, err
	}
	base.Level = zap.NewAtomicLevelAt(level)
	base.DisableStacktrace = true

	base.OutputPaths = []string{"stderr"}
	if len(cfg.OutputPaths) > 0 {
		base.OutputPaths = cfg.OutputPaths
	}
	base.ErrorOutputPaths = []string{"stderr"}

	built, err := base.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return built, nil
}

// ParseLevel 解析 level 字串；空字串時 development 為 debug，其他為 info
func ParseLevel(text string, env Environment) (zapcore.Level, error) {
	if strings.TrimSpace(text) == "" {
		if env == EnvironmentDevelopment {
			return zapcore.DebugLevel, nil
		}
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.Set(text); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid level %q: %w", text, err)
	}
	return level, nil
}

func buildConfig(env Environment) (zap.Config, error) {
	var cfg zap.Config
	switch env {
	case EnvironmentDevelopment:
		cfg = zap.NewDevelopmentConfig()
	case EnvironmentProduction, "":
		cfg = zap.NewProductionConfig()
	default:
		return zap.Config{}, fmt.Errorf("invalid environment %q", env)
	}
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg, nil
}
