// Package profile provides optional runtime profiling for the formula
// command.
//
// Profiling is backed by [github.com/pkg/profile] and compiled in only when
// building with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Profiler.Start] always returns a
// no-op [Stopper], so callers never need their own build constraints.
//
// # Available Profiling Modes
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/formula"}
//	defer p.Start().Stop()
//
// Profile files are written to Path with names matching the profiling mode
// (e.g., cpu.pprof, mem.pprof). Analyze them with go tool pprof:
//
//	go tool pprof -http=: ./formula /tmp/formula/cpu.pprof
//
// A typical target is a batch evaluation, which stresses the compile cache
// and the evaluator's machine pool:
//
//	formula --pprof-mode cpu batch -r rows.yaml '"x" * 2 + sum("v")'
package profile
