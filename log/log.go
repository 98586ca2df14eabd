package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

var root = logrus.New()

func init() {
	root.SetOutput(os.Stderr)
	root.SetLevel(logrus.InfoLevel)
	root.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
		FullTimestamp:   true,
	})
}

// Root returns the shared logger all packages write through.
func Root() *logrus.Logger {
	return root
}

func SetLevel(level logrus.Level) {
	root.SetLevel(level)
}

func WithField(key string, value interface{}) *logrus.Entry {
	return root.WithField(key, value)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return root.WithFields(fields)
}

func Debug(args ...interface{}) { root.Debug(args...) }
func Info(args ...interface{})  { root.Info(args...) }
func Warn(args ...interface{})  { root.Warn(args...) }
func Error(args ...interface{}) { root.Error(args...) }

func Debugf(format string, args ...interface{}) { root.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { root.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { root.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { root.Errorf(format, args...) }
