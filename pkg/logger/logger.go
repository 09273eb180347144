package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger обертка над zap.SugaredLogger для единого стиля логирования в сервисе.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New создает новый Logger с указанным уровнем ("debug", "info", "warn", "error").
func New(level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Конфигурация по умолчанию всегда валидна, сюда попадать не должны
		zl = zap.NewNop()
	}

	return &Logger{sugar: zl.Sugar()}
}

// NewDevelopment создает логгер с человекочитаемым выводом для локальной разработки.
func NewDevelopment() *Logger {
	zl, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		zl = zap.NewNop()
	}
	return &Logger{sugar: zl.Sugar()}
}

// NewNop возвращает логгер, который ничего не пишет (для тестов).
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Debug логирует отладочное сообщение в printf-стиле.
func (l *Logger) Debug(format string, v ...any) { l.sugar.Debugf(format, v...) }

// Info логирует информационное сообщение в printf-стиле.
func (l *Logger) Info(format string, v ...any) { l.sugar.Infof(format, v...) }

// Warn логирует предупреждение в printf-стиле.
func (l *Logger) Warn(format string, v ...any) { l.sugar.Warnf(format, v...) }

// Error логирует ошибку в printf-стиле.
func (l *Logger) Error(format string, v ...any) { l.sugar.Errorf(format, v...) }

// Fatal логирует фатальную ошибку и завершает процесс.
func (l *Logger) Fatal(format string, v ...any) { l.sugar.Fatalf(format, v...) }

// Debugw логирует отладочное сообщение с парами ключ-значение.
func (l *Logger) Debugw(msg string, keysAndValues ...any) { l.sugar.Debugw(msg, keysAndValues...) }

// Infow логирует информационное сообщение с парами ключ-значение.
func (l *Logger) Infow(msg string, keysAndValues ...any) { l.sugar.Infow(msg, keysAndValues...) }

// Warnw логирует предупреждение с парами ключ-значение.
func (l *Logger) Warnw(msg string, keysAndValues ...any) { l.sugar.Warnw(msg, keysAndValues...) }

// Errorw логирует ошибку с парами ключ-значение.
func (l *Logger) Errorw(msg string, keysAndValues ...any) { l.sugar.Errorw(msg, keysAndValues...) }

// Fatalw логирует фатальную ошибку с парами ключ-значение и завершает процесс.
func (l *Logger) Fatalw(msg string, keysAndValues ...any) { l.sugar.Fatalw(msg, keysAndValues...) }

// Sync сбрасывает буферы логгера. Вызывать перед завершением процесса.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
