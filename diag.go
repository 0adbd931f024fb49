package ghostconv

import (
	"fmt"
	"log/slog"
)

// Level classifies a diagnostic message.
type Level int

// Diagnostic levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// Message is one leveled diagnostic entry.
type Message struct {
	Level Level
	Text  string
}

// String formats the message as "[LEVEL] text".
func (m Message) String() string {
	return "[" + m.Level.String() + "] " + m.Text
}

// Result is the outcome of one conversion run. Messages accumulate through
// the whole run and are returned even when the run fails.
type Result struct {
	Success bool

	// OutputPaths lists the final artifacts: one entry for single-file
	// output, one per numbered page for multi-page raster output.
	OutputPaths []string

	// Messages is the ordered diagnostic sequence for the run.
	Messages []Message
}

// recorder accumulates the run's ordered diagnostics and optionally mirrors
// them to a structured logger.
type recorder struct {
	logger *slog.Logger
	msgs   []Message
}

func (r *recorder) debugf(format string, args ...any) {
	r.append(LevelDebug, fmt.Sprintf(format, args...))
}

func (r *recorder) infof(format string, args ...any) {
	r.append(LevelInfo, fmt.Sprintf(format, args...))
}

func (r *recorder) errorf(format string, args ...any) {
	r.append(LevelError, fmt.Sprintf(format, args...))
}

func (r *recorder) append(level Level, text string) {
	r.msgs = append(r.msgs, Message{Level: level, Text: text})
	if r.logger == nil {
		return
	}
	switch level {
	case LevelDebug:
		r.logger.Debug(text)
	case LevelInfo:
		r.logger.Info(text)
	case LevelError:
		r.logger.Error(text)
	}
}
