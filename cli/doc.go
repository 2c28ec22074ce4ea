// Package cli contains the command line interface for mdse.
//
// # Usage
//
// Without a command, arguments are evaluated as one document and the
// resulting markdown is written to stdout:
//
//	mdse '(define greet (who) Hello who)' '(greet world)'
//
// Source files given with --source are evaluated first, in order, so their
// definitions are visible to the arguments, the REPL, and stdin:
//
//	mdse -s macros.mdse -s page.mdse --html
//	mdse -s macros.mdse repl
//
// # Commands
//
//   - eval (default): evaluate and render markdown or HTML
//   - fmt: reformat a document as native, json, yaml, or tree
//   - repl: interactive session with completion and history
//   - init: write the effective configuration to config.yaml
//
// # Configuration
//
// Flags may also be set in config.yaml or config.json in the user config
// directory (for example ~/.config/mdse). Nested YAML keys join with a
// hyphen, so "log: {level: debug}" sets --log-level. Command-line flags
// take precedence.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --[no-]log-caller: include caller information
//   - --[no-]log-pretty: colorize output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: profile kind (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: output directory (default ~/.cache/mdse/pprof)
package cli
