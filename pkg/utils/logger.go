package utils

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = newLogger(os.Stdout)
	ErrorLogger = newLogger(os.Stderr)
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// InitLogger mengatur level & format kedua logger sesuai config.
func InitLogger(level string, jsonFormat bool) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}

	var formatter logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if jsonFormat {
		formatter = &logrus.JSONFormatter{}
	}

	InfoLogger.SetLevel(lvl)
	InfoLogger.SetFormatter(formatter)

	// ErrorLogger minimal selalu warn ke atas
	if lvl < logrus.WarnLevel {
		ErrorLogger.SetLevel(lvl)
	} else {
		ErrorLogger.SetLevel(logrus.WarnLevel)
	}
	ErrorLogger.SetFormatter(formatter)
}

// SilenceLoggers dipakai test biar output bersih.
func SilenceLoggers() {
	InfoLogger.SetOutput(io.Discard)
	ErrorLogger.SetOutput(io.Discard)
}
