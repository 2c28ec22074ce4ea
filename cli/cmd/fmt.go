package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/mdse/lang"
)

// Fmt parses a document and prints its tree in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source text (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	Tree   Tree   `cmd:""                    help:"Print the parsed tree."`
}

// input is the positional source shared by every fmt subcommand.
type input struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// parse reads and parses the positional source.
func (in input) parse(ctx context.Context, format string) (lang.Expression, error) {
	r, err := openInput(ctx, in.Source)
	if err != nil {
		return lang.Expression{}, err
	}
	defer r.Close()

	doc, err := lang.ParseReader(ctx, r)
	if err != nil {
		return lang.Expression{}, lang.WrapError(err).
			With(slog.String("format", format), slog.String("source", in.Source))
	}

	return doc, nil
}

// Native formats input as canonical source text.
type Native struct {
	input

	Indent int `default:"2" help:"Indent width; 0 writes each item on one line." short:"i"`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context) error {
	doc, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	if err := lang.Format(ctx, stdoutFrom(ctx), doc, f.Indent); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "native"))
	}

	return nil
}

// JSON formats input as nested JSON arrays of strings.
type JSON struct {
	input

	Indent int `default:"2" help:"Indent width for JSON output." short:"i"`
}

// Run executes the json format command.
func (j *JSON) Run(ctx context.Context) error {
	doc, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	if err := lang.FormatJSON(ctx, stdoutFrom(ctx), doc, j.Indent); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "json"))
	}

	return nil
}

// YAML formats input as nested YAML sequences.
type YAML struct {
	input

	Indent int `default:"2" help:"Indent width for YAML output; 0 uses flow style." short:"i"`
}

// Run executes the yaml format command.
func (y *YAML) Run(ctx context.Context) error {
	doc, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	if err := lang.FormatYAML(ctx, stdoutFrom(ctx), doc, y.Indent); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "yaml"))
	}

	return nil
}

// Tree prints the parsed node tree.
type Tree struct {
	input
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) error {
	doc, err := t.parse(ctx, "tree")
	if err != nil {
		return err
	}

	lang.Print(stdoutFrom(ctx), doc)

	return nil
}
