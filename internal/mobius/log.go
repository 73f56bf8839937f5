package mobius

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logging surface the session layer uses. The default is
// logrus writing to stderr; callers embed their own by setting
// Config.Logger.
type Logger interface {
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
}

func buildDefaultLogger() Logger {
	l := &logrus.Logger{
		Formatter: &logrus.TextFormatter{DisableTimestamp: true},
		Level:     logrus.InfoLevel,
		Out:       os.Stderr,
		Hooks:     make(logrus.LevelHooks),
	}
	return l.WithField("component", "mobius")
}
