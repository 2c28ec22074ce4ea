package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/mdse/log"
	"github.com/ardnew/mdse/markdown"
)

// Eval expands the --source documents followed by the EXPR text.
//
// Sources are evaluated first, so their defines act as a prelude visible to
// EXPR. With neither sources nor EXPR, standard input is the document.
type Eval struct {
	Expr   []string `arg:"" help:"Document text evaluated after the sources." name:"expr" optional:""`
	HTML   bool     `help:"Convert the expanded markdown to HTML."`
	Unsafe bool     `help:"Pass raw HTML through when converting."`
	Output string   `help:"Write output to file instead of stdout." short:"o" type:"path"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	r := markdown.New(
		markdown.WithEvaluator(evaluatorFrom(ctx)),
		markdown.WithUnsafe(e.Unsafe),
		markdown.WithLogger(log.Default()),
	)

	text, err := e.expand(ctx, r)
	if err != nil {
		return err
	}

	w := stdoutFrom(ctx)

	if e.Output != "" {
		f, ferr := os.Create(e.Output)
		if ferr != nil {
			return ErrWriteOutput.Wrap(ferr).With(slog.String("file", e.Output))
		}

		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = ErrWriteOutput.Wrap(cerr).With(slog.String("file", e.Output))
			}
		}()

		w = f
	}

	if e.HTML {
		err = r.Convert(ctx, w, text)
	} else if text != "" {
		_, err = fmt.Fprintln(w, text)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	log.DebugContext(ctx, "evaluated",
		slog.Int("bytes", len(text)),
		slog.Bool("html", e.HTML),
		slog.String("output", e.Output),
	)

	return nil
}

// expand evaluates every input document in order and joins the non-empty
// results with newlines.
func (e *Eval) expand(ctx context.Context, r *markdown.Renderer) (string, error) {
	var parts []string

	add := func(name string, src io.Reader) error {
		text, err := r.Expand(ctx, src)
		if err != nil {
			return ErrEvaluate.Wrap(err).With(slog.String("input", name))
		}

		if text != "" {
			parts = append(parts, text)
		}

		return nil
	}

	srcs := sourcesFrom(ctx)

	if srcs.IsZero() && len(e.Expr) == 0 {
		if err := add(stdinSource, stdinFrom(ctx)); err != nil {
			return "", err
		}

		return strings.Join(parts, "\n"), nil
	}

	if !srcs.IsZero() {
		in, err := srcs.Open(stdinFrom(ctx))
		if err != nil {
			return "", err
		}

		err = add("sources", in)
		_ = in.Close()

		if err != nil {
			return "", err
		}
	}

	if len(e.Expr) > 0 {
		if err := add("expr", strings.NewReader(strings.Join(e.Expr, " "))); err != nil {
			return "", err
		}
	}

	return strings.Join(parts, "\n"), nil
}
