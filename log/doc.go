// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options. A [Logger] is immutable; [Logger.Wrap],
// [Logger.With] and [Logger.WithGroup] derive new ones.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("compiled", slog.String("source", "1+2*3"))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Level] and [Format] implement [encoding.TextUnmarshaler], so they can be
// decoded directly from command-line flags and configuration files.
//
// # Zero Value
//
// The zero [Logger] discards everything. Libraries accept a Logger by
// value and log unconditionally; callers that want output supply one.
//
// # Package-Level Logger
//
// The package-level functions ([Info], [ErrorContext], ...) write through
// a default logger that starts out writing to standard error. Use
// [Config] to reconfigure it and [Default] to hand it to other packages.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Messages below the
// configured level are discarded.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and
// [FormatText]. With pretty printing enabled (the default), both are
// rendered for a human reader and colored when the output is a terminal.
package log
