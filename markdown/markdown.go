package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ardnew/mdse/lang"
	"github.com/ardnew/mdse/log"
)

// Renderer expands macro documents with a shared [lang.Evaluator].
type Renderer struct {
	logger log.Logger
	eval   *lang.Evaluator
	md     goldmark.Markdown
	parse  []lang.ParseOption
	unsafe bool
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithEvaluator sets the evaluator used to expand documents.
func WithEvaluator(ev *lang.Evaluator) Option {
	return func(r *Renderer) { r.eval = ev }
}

// WithUnsafe controls whether raw HTML in the expanded markdown is passed
// through to the HTML output.
func WithUnsafe(unsafe bool) Option {
	return func(r *Renderer) { r.unsafe = unsafe }
}

// WithLogger sets the logger used for render tracing.
func WithLogger(logger log.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// WithParseOptions sets the options applied when parsing source documents.
func WithParseOptions(opts ...lang.ParseOption) Option {
	return func(r *Renderer) { r.parse = opts }
}

// New returns a Renderer. Without [WithEvaluator], a new evaluator with
// default settings is created.
func New(opts ...Option) *Renderer {
	r := new(Renderer)

	for _, opt := range opts {
		opt(r)
	}

	if r.eval == nil {
		r.eval = lang.New(lang.WithLogger(r.logger))
	}

	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}

	if r.unsafe {
		rendererOpts = append(rendererOpts,
			goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	r.md = goldmark.New(rendererOpts...)

	return r
}

// Evaluator returns the evaluator shared by all documents of r.
func (r *Renderer) Evaluator() *lang.Evaluator { return r.eval }

// Expand parses src as a document and evaluates it.
func (r *Renderer) Expand(ctx context.Context, src io.Reader) (string, error) {
	doc, err := lang.ParseReader(ctx, src, r.parse...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExpand, err)
	}

	out, err := r.eval.Eval(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExpand, err)
	}

	r.logger.TraceContext(ctx, "expand",
		slog.Int("items", doc.Len()),
		slog.Int("bytes", len(out.Value())),
	)

	return out.Value(), nil
}

// Markdown expands src and writes the result followed by a newline.
// Nothing is written for a document that expands to empty text.
func (r *Renderer) Markdown(ctx context.Context, w io.Writer, src io.Reader) error {
	text, err := r.Expand(ctx, src)
	if err != nil {
		return err
	}

	return writeText(w, text)
}

// HTML expands src and writes the result converted to HTML.
func (r *Renderer) HTML(ctx context.Context, w io.Writer, src io.Reader) error {
	text, err := r.Expand(ctx, src)
	if err != nil {
		return err
	}

	return r.Convert(ctx, w, text)
}

// Convert writes the HTML rendering of the markdown text.
func (r *Renderer) Convert(ctx context.Context, w io.Writer, text string) error {
	var buf bytes.Buffer

	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return fmt.Errorf("%w: %w", ErrConvert, err)
	}

	r.logger.TraceContext(ctx, "convert",
		slog.Int("markdown_bytes", len(text)),
		slog.Int("html_bytes", buf.Len()),
		slog.Bool("unsafe", r.unsafe),
	)

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

func writeText(w io.Writer, text string) error {
	if text == "" {
		return nil
	}

	if _, err := io.WriteString(w, text+"\n"); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}
