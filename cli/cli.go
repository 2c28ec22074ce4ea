package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mdse/cli/cmd"
	"github.com/ardnew/mdse/lang"
	"github.com/ardnew/mdse/log"
	"github.com/ardnew/mdse/pkg"
)

// CLI is the top-level command-line interface for mdse.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Source   []string `help:"Evaluate source file(s) first, or '-' for stdin." name:"source" short:"s" type:"existingfile"`
	MaxDepth int      `default:"${maxDepthDefault}"                            help:"Maximum evaluation depth."`

	Init cmd.Init `cmd:"" help:"Write the current configuration to the config file."`
	Fmt  cmd.Fmt  `cmd:"" help:"Format a parsed document."`
	Repl cmd.Repl `cmd:"" help:"Start an interactive session."`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate expressions and write markdown."`
}

// Run executes the mdse CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(configYAML),
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Version(),
		"maxDepthDefault":    "1000",
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags take effect before parsing so parse errors honor them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		// Commands receive the context as enriched below, after parsing.
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(configJSON)),
		kong.Configuration(loadYAML, configPath(configYAML)),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	ev := lang.New(
		lang.WithMaxDepth(cli.MaxDepth),
		lang.WithLogger(log.Default()),
	)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithEvaluator(ctx, ev)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
