package config

import (
	"log"
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the standard logrus logger and routes the stdlib
// log package through it.
func InitLogger(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)

	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	log.SetFlags(0)
	log.SetOutput(logrus.StandardLogger().Writer())
}
