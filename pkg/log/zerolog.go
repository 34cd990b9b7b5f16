package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/mapclassify/pkg/errors"
)

// ZerologLogger は zerolog をバックエンドとする Logger の実装です。
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger はwに対してJSON行を出力するロガーを作成します。
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	return &ZerologLogger{
		logger: zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger(),
	}
}

// NewZerologLoggerFrom は既存の zerolog.Logger をラップします。
func NewZerologLoggerFrom(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: l}
}

// Zerolog は内部の zerolog.Logger を返します。
func (z *ZerologLogger) Zerolog() *zerolog.Logger {
	return &z.logger
}

func (z *ZerologLogger) Debug(msg string, fields ...any) { emit(z.logger.Debug(), msg, fields) }
func (z *ZerologLogger) Info(msg string, fields ...any)  { emit(z.logger.Info(), msg, fields) }
func (z *ZerologLogger) Warn(msg string, fields ...any)  { emit(z.logger.Warn(), msg, fields) }
func (z *ZerologLogger) Error(msg string, fields ...any) { emit(z.logger.Error(), msg, fields) }

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.logger.With()
	kv, err := pairs(fields)
	if err != nil {
		ctx = ctx.Str(ErrAttrKey, err.Error())
	}
	return &ZerologLogger{logger: ctx.Fields(kv).Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	zl := toZerologLevel(level)
	return zl >= z.logger.GetLevel() && zl >= zerolog.GlobalLevel()
}

func emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	kv, err := pairs(fields)
	if err != nil {
		e = e.Err(err)
	}
	e.Fields(kv).Msg(msg)
}

// pairs splits fields into key-value pairs. An error in key position is
// returned separately so it can be recorded under ErrAttrKey.
func pairs(fields []any) ([]interface{}, error) {
	var found error
	kv := make([]interface{}, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		if err, ok := fields[i].(error); ok && found == nil {
			found = err
			continue
		}
		if i+1 >= len(fields) {
			break
		}
		kv = append(kv, fmt.Sprint(fields[i]), fields[i+1])
		i++
	}
	return kv, found
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ===========================================================================
//
//	デフォルトロガー
//
// ===========================================================================

var (
	loggerMu      sync.RWMutex
	defaultLogger Logger = NewZerologLogger(os.Stderr, LevelWarn)
)

// GetLogger はパッケージ全体のデフォルトロガーを返します。
// 初期状態では標準エラー出力に警告レベル以上を出力します。
func GetLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// SetLogger はデフォルトロガーを置き換えます。nilを渡すと初期状態に戻ります。
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		l = NewZerologLogger(os.Stderr, LevelWarn)
	}
	defaultLogger = l
}

// InstallWarningHook は errors.Warn で発生した警告をデフォルトロガーに流します。
// 警告型が zerolog.LogObjectMarshaler を実装していれば構造化フィールドとして埋め込みます。
func InstallWarningHook() {
	errors.SetZerologWarnFunc(func(w error) {
		logger := GetLogger()
		if zl, ok := logger.(*ZerologLogger); ok {
			e := zl.logger.Warn()
			if obj, ok := w.(zerolog.LogObjectMarshaler); ok {
				e = e.EmbedObject(obj)
			}
			e.Msg(w.Error())
			return
		}
		logger.Warn(w.Error(), ErrorTypeKey, fmt.Sprintf("%T", w))
	})
}

// UninstallWarningHook は InstallWarningHook を取り消します。
func UninstallWarningHook() {
	errors.SetZerologWarnFunc(nil)
}
