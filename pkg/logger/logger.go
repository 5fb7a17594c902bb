package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New(level, format string) (*zap.Logger, error) {
	var config zap.Config

	switch format {
	case "json":
		config = zap.NewProductionConfig()
	default:
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Установка уровня логирования
	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return config.Build()
}

// Структурированное логирование фиксаций профиля
func CommitLog(logger *zap.Logger, userID, profileID uint, action, result string, metadata map[string]interface{}) {
	fields := []zap.Field{
		zap.Uint("user_id", userID),
		zap.Uint("profile_id", profileID),
		zap.String("action", action),
		zap.String("result", result),
		zap.Time("timestamp", time.Now()),
	}

	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}

	logger.Info("profile_commit", fields...)
}
