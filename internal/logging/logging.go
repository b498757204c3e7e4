// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"orange/internal/config"
)

// Setup points the standard logger at w. Debug raises the level to trace so
// editor transitions show up; otherwise only warnings and errors are written.
func Setup(cfg *config.Config, w io.Writer) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	if cfg.Debug {
		log.SetLevel(log.TraceLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// SetupFile sends log output to the config directory's log file, for use
// while the terminal UI owns stdout. The returned closer must be called on
// exit. If the file cannot be opened logging is discarded.
func SetupFile(cfg *config.Config) io.Closer {
	if err := cfg.EnsureDir(); err == nil {
		f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err == nil {
			Setup(cfg, f)
			return f
		}
	}
	Setup(cfg, io.Discard)
	return io.NopCloser(nil)
}
