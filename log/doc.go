// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("table generated", slog.String("name", "Sum"))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("Kitchen"),
//		log.WithPretty(true))
//
// The package-level logger used by [Info], [Error], and friends is adjusted
// with [Config]. The lutgen CLI calls [Config] while parsing its --log-*
// flags.
//
// # Zero Value
//
// A zero [Logger] discards every message. Library packages such as lang,
// table, and gen hold a zero Logger unless the caller supplies one, so they
// never write output on their own.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is used for per-token and per-cell
// detail that is too noisy for Debug.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON]. [WithPretty] renders text output
// on a single styled line using lipgloss.
package log
