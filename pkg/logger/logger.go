// Package logger writes diagnostics for stackcheck. Check reports are not
// logged; they are printed by pkg/result.
package logger

import (
	"io"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	SetOutput(os.Stderr, os.Stderr)
	SetDebug(false)
}

// SetOutput rebuilds the package logger. Debug, info and warn lines go to out,
// error and above go to errOut.
func SetOutput(out, errOut io.Writer) {
	writer := zerolog.MultiLevelWriter(
		levelWriter(out, zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel),
		levelWriter(errOut, zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel),
	)
	log = zerolog.New(writer).With().Timestamp().Logger()
}

func levelWriter(w io.Writer, levels ...zerolog.Level) SpecificLevelWriter {
	return SpecificLevelWriter{
		Writer: zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		},
		Levels: levels,
	}
}

// SetDebug toggles debug output for the whole process.
func SetDebug(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func Debugf(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

func Infof(format string, args ...interface{}) {
	log.Info().Msgf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	log.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	log.Error().Msgf(format, args...)
}

// SpecificLevelWriter forwards only the listed levels and drops the rest.
type SpecificLevelWriter struct {
	io.Writer
	Levels []zerolog.Level
}

func (w SpecificLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if !slices.Contains(w.Levels, level) {
		return len(p), nil
	}
	return w.Write(p)
}
