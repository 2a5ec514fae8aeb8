package profile

import (
	"log/slog"
	"os"

	"github.com/ardnew/lutgen/log"
	"github.com/ardnew/lutgen/pkg"
)

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Profiler configures a profiling session.
type Profiler struct {
	Logger log.Logger
	Mode   string // One of [Modes]; empty disables profiling
	Path   string // Output directory
	Quiet  bool
}

// Start starts the profiler and returns a [Stopper] that ends the session.
//
// The output directory is created on demand. If the binary was built without
// [Tag], the mode is empty or unknown, or the directory cannot be created,
// Start returns a no-op. Both Start and Stop are always safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" || !Enabled {
		return ignore{}
	}

	// pkg/profile exits the process if it cannot create the directory.
	if p.Path != "" {
		if err := os.MkdirAll(p.Path, pkg.DefaultDirMode); err != nil {
			p.Logger.Warn("profiling disabled",
				slog.String("dir", p.Path),
				slog.String("error", err.Error()))

			return ignore{}
		}
	}

	s := start(p.Mode, p.Path, p.Quiet)
	if _, ok := s.(ignore); ok {
		p.Logger.Warn("unknown profiling mode", slog.String("mode", p.Mode))

		return s
	}

	p.Logger.Debug("pprof start",
		slog.String("mode", p.Mode),
		slog.String("dir", p.Path))

	return stopper{Stopper: s, p: p}
}

type stopper struct {
	Stopper
	p Profiler
}

func (s stopper) Stop() {
	s.Stopper.Stop()
	s.p.Logger.Debug("pprof stop",
		slog.String("mode", s.p.Mode),
		slog.String("dir", s.p.Path))
}

type ignore struct{}

func (ignore) Stop() {}
