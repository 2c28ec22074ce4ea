// Package profile provides optional runtime profiling for mdse.
//
// Profiling is built on [github.com/pkg/profile] and is only compiled in
// with the "pprof" build tag. Without the tag, [Modes] is empty and
// [Profiler.Start] returns a no-op.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/mdse-profiles"}
//	defer p.Start().Stop()
//
// Supported modes: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread, and trace. Profiles are written to Path with names matching the
// mode (cpu.pprof, mem.pprof, and so on) and can be inspected with
//
//	go tool pprof -http=: /tmp/mdse-profiles/cpu.pprof
//
// Building with the tag also registers the [net/http/pprof] handlers on the
// default HTTP mux.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Profiler describes one profiling session.
type Profiler struct {
	Mode  string // One of [Modes]; empty disables profiling
	Path  string // Output directory; empty uses the working directory
	Quiet bool   // Suppress the profiler's own log output
}

// Stopper stops a running profiler.
type Stopper interface{ Stop() }

// Start begins profiling as configured by p.
//
// If p.Mode is empty or unsupported, or the binary was built without the
// pprof tag, Start returns a Stopper that does nothing. Both Start and Stop
// are always safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
