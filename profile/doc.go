// Package profile provides optional runtime profiling for lutgen.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag ([Tag]). Without it, [Modes] is empty and
// [Profiler.Start] returns a no-op stopper.
//
//	go build -tags pprof ./...
//	lutgen --pprof-mode cpu gen tables.yaml
//	go tool pprof -http=: $XDG_CACHE_HOME/lutgen/pprof/cpu.pprof
//
// Generating large tables in [github.com/ardnew/lutgen/gen] is dominated by
// source formatting, so "cpu" and "allocs" are the useful modes.
package profile
