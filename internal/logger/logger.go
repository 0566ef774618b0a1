package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

var log *slog.Logger

// Init инициализирует глобальный логгер.
// env: "development" - текст с debug-уровнем, иначе JSON с info-уровнем.
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

// InitWithWriter - то же самое, но с произвольным io.Writer (используется в тестах)
func InitWithWriter(env string, w io.Writer) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: env != "test",
	}

	switch env {
	case "development":
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	case "test":
		opts.Level = slog.LevelWarn
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

// ============================================
// Быстрое логирование
// ============================================

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// With создает логгер с дополнительными полями
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// ============================================
// Специализированные логгеры
// ============================================

// WorkerLog логирует операцию фонового воркера
func WorkerLog(worker, operation string, affected int64, err error) {
	fields := []any{
		"worker", worker,
		"operation", operation,
		"affected", affected,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("worker operation failed", fields...)
		return
	}
	if affected > 0 {
		GetLogger().Info("worker operation completed", fields...)
	} else {
		GetLogger().Debug("worker operation completed", fields...)
	}
}

// DBLog логирует медленную или упавшую операцию с БД
func DBLog(operation string, duration time.Duration, err error) {
	fields := []any{
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("database operation failed", fields...)
		return
	}
	GetLogger().Debug("database operation", fields...)
}
