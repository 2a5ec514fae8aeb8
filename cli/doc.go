// Package cli contains the command line interface for lutgen.
//
// # Usage
//
//	lutgen [flags] <command> [args]
//
// Commands:
//
//   - gen: generate a Go file from a manifest or an inline specification
//     (the default command)
//   - check: validate specifications and print diagnostics
//   - inspect native|json|yaml: print a parsed specification
//   - eval: evaluate cells of an expr-lang table at run time
//   - version: print version information
//
// A typical go:generate directive generates the tables listed in a manifest
// next to it, or a single inline table into <$GOFILE>_lut.go:
//
//	//go:generate go tool lutgen tables.yaml
//	//go:generate go tool lutgen gen -n Sum -s "|x @ 0..8, y @ 0..16| -> uint32 { x + y }"
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (for example ~/.config/lutgen). YAML keys may
// nest, so "log: {level: debug}" sets --log-level. Environment variables
// named after the flag with a LUTGEN_ prefix, such as LUTGEN_LOG_LEVEL,
// override both files. The --package flag reads $GOPACKAGE instead.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lutgen .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/lutgen/pprof)
package cli
