// Package cmd implements the mdse subcommands: eval, fmt, init, and repl.
//
// Commands receive their shared state (the kong context, the --source
// inputs, and the evaluator) through the [context.Context] passed to Run.
package cmd

const (
	// CacheIdentifier is the kong variable holding the runtime cache
	// directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the configuration file
	// path.
	ConfigIdentifier = "config"
)
