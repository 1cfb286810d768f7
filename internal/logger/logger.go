package logger

import (
	"context"
	"os"
	"path/filepath"

	"blogplatform/internal/config"
	"blogplatform/internal/reqctx"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log = zap.NewNop()

const logFile = "blogplatform.log"

// InitLogger: при LOG=dev цветной dev-логгер в консоль, иначе JSON в ротируемый
// файл плюс консоль.
func InitLogger(cfg *config.Config) {
	level := parseLevel(cfg.LogLevel)

	if cfg.Log == "dev" {
		devCfg := zap.NewDevelopmentConfig()
		devCfg.Level = zap.NewAtomicLevelAt(level)
		devCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if l, err := devCfg.Build(); err == nil {
			Log = l
			return
		}
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:      "time",
		LevelKey:     "level",
		NameKey:      "logger",
		MessageKey:   "message",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stdout), level),
	}
	sink, sinkErr := fileSink(cfg.LogDir)
	if sinkErr == nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, level))
	}

	Log = zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", "blogplatform"), zap.String("env", cfg.Env)),
	)
	if sinkErr != nil {
		// без файла остаётся консоль
		Log.Warn("Файловый лог отключён", zap.String("dir", cfg.LogDir), zap.Error(sinkErr))
	}
}

func fileSink(dir string) (zapcore.WriteSyncer, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, logFile),
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     7,
		Compress:   true,
	}), nil
}

// WithCtx: глобальный логгер с request_id и user_id из контекста запроса.
func WithCtx(ctx context.Context) *zap.Logger {
	l := Log
	if ctx == nil {
		return l
	}
	if rid, ok := reqctx.GetRequestID(ctx); ok {
		l = l.With(zap.String("request_id", rid))
	}
	if a := reqctx.Actor(ctx); a.IsAuthenticated() {
		l = l.With(zap.String("user_id", a.ID), zap.String("role", a.Role))
	}
	return l
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
