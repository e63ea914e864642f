package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates the application logger. Development gets human-readable text, everything else JSON.
func NewLogger(appName, env string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if env == "development" {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return log
}

func LogError(log logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	log.WithFields(fields).Error(msg)
}
