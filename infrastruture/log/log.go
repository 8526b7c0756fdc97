// Package log provides the named, coloured component loggers used across
// the application.
package log

import (
	"errors"
	"io"

	"github.com/beka-birhanu/vinom-dwarfs/service/i"
	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
)

var ErrNilWriter = errors.New("logger needs a writer")

var _ i.Logger = &Logger{}

// Logger prefixes every line with a coloured component name.
type Logger struct {
	l *charmlog.Logger
}

// New returns a logger writing to w with prefix shown in color, an ANSI
// palette index such as config.ColorCyan.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}

	l := charmlog.NewWithOptions(w, charmlog.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	styles := charmlog.DefaultStyles()
	styles.Prefix = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	l.SetStyles(styles)

	return &Logger{l: l}, nil
}

// SetDebug toggles debug output.
func (l *Logger) SetDebug(on bool) {
	if on {
		l.l.SetLevel(charmlog.DebugLevel)
		return
	}
	l.l.SetLevel(charmlog.InfoLevel)
}

// Debug implements i.Logger.
func (l *Logger) Debug(msg string) { l.l.Debug(msg) }

// Info implements i.Logger.
func (l *Logger) Info(msg string) { l.l.Info(msg) }

// Warning implements i.Logger.
func (l *Logger) Warning(msg string) { l.l.Warn(msg) }

// Error implements i.Logger.
func (l *Logger) Error(msg string) { l.l.Error(msg) }
