// Package log はmapclassifyの構造化ログインターフェースを提供します。
//
// Logger は log/slog 互換の最小インターフェースで、デフォルト実装は
// zerolog をバックエンドにしています。分類器は適合時にデバッグレベルで
// スキーム名・サンプル数・クラス数などを出力します。
//
// 使用例:
//
//	log.SetLogger(log.NewZerologLogger(os.Stderr, log.LevelDebug))
//	log.InstallWarningHook()
//	logger := log.GetLogger().With(log.ClassifierKey, "FisherJenks")
//	logger.Debug("fit complete", log.SamplesKey, 58, log.ClassesKey, 5)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// The With method returns a child logger carrying pre-populated fields, so a
// classifier can tag every record of a fit with its scheme name.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If an error value is passed among
	// the fields it is recorded under ErrAttrKey.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	// Use it to skip building expensive fields such as per-class tables.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
