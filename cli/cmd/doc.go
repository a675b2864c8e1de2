// Package cmd implements the formula subcommands: eval, check, batch,
// funcs, disasm, repl and init.
//
// Every command compiles through one process-wide [lang.Cache] over the
// default catalog from [builtin.Registry], so a formula used repeatedly
// (for example by batch or the REPL) is compiled once.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the YAML configuration file.
	ConfigIdentifier = "config"
)
