// Package log configures the process-wide logrus logger.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/llehouerou/musichub/internal/config"
)

// Setup applies cfg to the standard logger and returns it together with
// a closer for the log file, if one was opened. Unknown levels fall back
// to info.
func Setup(fs afero.Fs, cfg config.LogConfig) (*logrus.Logger, io.Closer, error) {
	l := logrus.StandardLogger()
	closer, err := configure(l, fs, cfg)
	return l, closer, err
}

func configure(l *logrus.Logger, fs afero.Fs, cfg config.LogConfig) (io.Closer, error) {
	var closer io.Closer = nopCloser{}

	if cfg.File == "" {
		l.SetOutput(os.Stderr)
	} else {
		if err := fs.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return closer, fmt.Errorf("create log directory: %w", err)
		}
		f, err := fs.OpenFile(cfg.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return closer, fmt.Errorf("open log file: %w", err)
		}
		l.SetOutput(f)
		closer = f
	}

	if cfg.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			DisableColors:    cfg.File != "",
			QuoteEmptyFields: true,
		})
	}

	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return closer, nil
}

// DefaultFile is where interactive sessions log when no file is
// configured, so output does not corrupt the terminal UI.
func DefaultFile() (string, error) {
	return xdg.StateFile(filepath.Join("musichub", "musichub.log"))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
