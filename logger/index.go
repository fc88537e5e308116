package logger

import "github.com/avicd/go-utilx/logx"

var logger logx.Logger

func init() {
	logger = logx.Default()
}

func IsDebug() bool {
	return logx.DEBUG >= logger.GetLevel()
}

// Use replaces the default logger, e.g. to route into an
// application-level log panel.
func Use(nlog logx.Logger) {
	logger = nlog
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}
