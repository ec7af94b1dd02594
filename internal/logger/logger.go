// Package logger is the process-wide structured logger: a leveled,
// tag-prefixed surface backed by zerolog's console writer.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

// SetLevel sets the minimum level that reaches the sink. An unrecognized
// name falls back to info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// Info logs a routine, tag-scoped message.
func Info(tag, msg string) {
	log.Info().Str("tag", tag).Msg(msg)
}

// Success logs a completed-action message at info level, flagged so a
// console reader can tell it apart from routine progress.
func Success(tag, msg string) {
	log.Info().Str("tag", tag).Bool("ok", true).Msg(msg)
}

// Warn logs a recoverable but noteworthy condition.
func Warn(tag, msg string) {
	log.Warn().Str("tag", tag).Msg(msg)
}

// Error logs a failure. Callers still propagate the error themselves;
// this only records it.
func Error(tag, msg string) {
	log.Error().Str("tag", tag).Msg(msg)
}

// Banner prints a one-line startup banner naming the running version. A
// blank version renders as "dev".
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Printf("trading-algorithm %s\n", version)
}

// Section prints a visual break before a new phase of output (e.g. between
// a backtest run's setup and its report).
func Section(title string) {
	fmt.Printf("\n-- %s --\n", title)
}

// Stats prints a single key/value line, used for end-of-run metric dumps.
func Stats(key string, value any) {
	fmt.Printf("  %-24s %v\n", key+":", value)
}
