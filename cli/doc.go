// Package cli contains the command line interface for formula.
//
// # Usage
//
//	formula [flags] <command> [args]
//
// The eval command is the default, so a bare formula is evaluated:
//
//	formula '1 + 2 * 3'
//	formula 'component("v", 1) * 2' -s v={10,20,30}
//
// # Configuration
//
// Flag defaults are read from <user-config-dir>/formula/config.yaml (and
// config.json, if present) before the command line is parsed. Keys are
// flag names; see [resolveYAML] for the accepted shapes. The init command
// writes the current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output on terminals
//
// Trace level shows each compilation and evaluation performed by the
// core, including token, instruction and slot counts.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     <user-cache-dir>/formula/pprof)
package cli
