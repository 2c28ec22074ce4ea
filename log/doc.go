// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Time formatting, caller information, level, and output format are fixed
// when a [Logger] is created, using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("rendered", slog.Int("bytes", n))
//
// # Levels
//
// In addition to the slog levels, [LevelTrace] sits below Debug and is used
// for per-expression evaluation tracing.
//
// # Pretty output
//
// With [WithPretty] (the default), keys and values are styled with
// lipgloss when the output is a color terminal. Text output is written as
// key=value pairs and JSON output as an indented object.
//
// # Zero value
//
// The zero Logger discards everything. Packages that accept an optional
// Logger can store it by value and log without nil checks.
//
// # Package-level logger
//
// [Default] returns a logger writing to standard error. [Config] and
// [SetDefault] replace it; the package-level [Info], [Debug], and related
// functions write through it.
package log
