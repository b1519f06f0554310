package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 日志接口：业务代码只依赖这里，底层可在 logrus / zap 之间切换。
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
}

// Options 日志初始化参数。
type Options struct {
	Level  string // debug / info / warn / error
	Format string // json / text
	Output string // stdout / file
	Path   string // Output == file 时的文件路径
	Driver string // logrus / zap，默认 logrus
}

// New 按配置创建 Logger。
func New(o Options) (Logger, error) {
	if o.Driver == "zap" {
		return newZap(o)
	}
	return newLogrus(o)
}

func openWriter(o Options) (io.Writer, error) {
	if o.Output != "file" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(o.Path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(o.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, err
	}
	// 文件输出时同时保留 stdout，容器环境仍可收集
	return io.MultiWriter(os.Stdout, f), nil
}

// ---- logrus 实现 ----

type logrusLogger struct {
	entry *logrus.Entry
}

func newLogrus(o Options) (Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(o.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if o.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	w, err := openWriter(o)
	if err != nil {
		return nil, err
	}
	log.SetOutput(w)

	return &logrusLogger{entry: logrus.NewEntry(log)}, nil
}

func (l *logrusLogger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *logrusLogger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

func (l *logrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// ---- zap 实现 ----

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func newZap(o Options) (Logger, error) {
	var level zapcore.Level
	switch o.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if o.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	w, err := openWriter(o)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	z := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &zapLogger{sugar: z.Sugar()}, nil
}

func (l *zapLogger) Debug(args ...interface{})                 { l.sugar.Debug(args...) }
func (l *zapLogger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *zapLogger) Info(args ...interface{})                  { l.sugar.Info(args...) }
func (l *zapLogger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *zapLogger) Warn(args ...interface{})                  { l.sugar.Warn(args...) }
func (l *zapLogger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *zapLogger) Error(args ...interface{})                 { l.sugar.Error(args...) }
func (l *zapLogger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *zapLogger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

func (l *zapLogger) WithFields(fields map[string]interface{}) Logger {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &zapLogger{sugar: l.sugar.With(kv...)}
}
