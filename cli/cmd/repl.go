package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/mdse/cli/cmd/repl"
	"github.com/ardnew/mdse/log"
	"github.com/ardnew/mdse/markdown"
)

// Repl starts an interactive session. The --source documents are evaluated
// first so their defines are available, and their output is printed.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ev := evaluatorFrom(ctx)

	if srcs := sourcesFrom(ctx); !srcs.IsZero() {
		in, err := srcs.Open(stdinFrom(ctx))
		if err != nil {
			return err
		}

		mr := markdown.New(markdown.WithEvaluator(ev), markdown.WithLogger(log.Default()))
		err = mr.Markdown(ctx, stdoutFrom(ctx), in)
		_ = in.Close()

		if err != nil {
			return ErrEvaluate.Wrap(err).With(slog.String("input", "sources"))
		}
	}

	cacheDir := os.TempDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			cacheDir = dir
		}
	}

	return repl.Run(ctx, ev, cacheDir, log.Default())
}
