package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/yourssweeper/internal/config"
)

// New builds the process logger. Text goes to stderr; when a log file is
// configured the same entries are also written to it as JSON lines,
// rotated by size.
func New(c config.Config) (*logrus.Logger, error) {
	return newLogger(c, os.Stderr)
}

func newLogger(c config.Config, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	if c.Development && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:   c.Development,
		FullTimestamp: true,
	})

	if c.Log.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   c.Log.File,
			MaxSize:    c.Log.MaxSize,
			MaxBackups: c.Log.MaxBackups,
			MaxAge:     c.Log.MaxAge,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, fmt.Errorf("unable to open log file %s: %w", c.Log.File, err)
		}
		log.AddHook(hook)
	}
	return log, nil
}
