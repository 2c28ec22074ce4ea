package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mdse/lang"
)

type (
	contextKey   struct{}
	sourcesKey   struct{}
	evaluatorKey struct{}
	stdioKey     struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// WithEvaluator returns a new context.Context carrying the evaluator shared
// by all commands of one invocation.
func WithEvaluator(ctx context.Context, ev *lang.Evaluator) context.Context {
	return context.WithValue(ctx, evaluatorKey{}, ev)
}

// evaluatorFrom returns the evaluator stored by [WithEvaluator], or a new
// evaluator with default settings.
func evaluatorFrom(ctx context.Context) *lang.Evaluator {
	if ev, ok := ctx.Value(evaluatorKey{}).(*lang.Evaluator); ok && ev != nil {
		return ev
	}

	return lang.New()
}

type stdio struct {
	in  io.Reader
	out io.Writer
}

// WithStdio returns a new context.Context whose commands read standard input
// from in and write results to out. A nil reader or writer keeps the
// process default.
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out})
}

func stdinFrom(ctx context.Context) io.Reader {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok && s.in != nil {
		return s.in
	}

	return os.Stdin
}

func stdoutFrom(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok && s.out != nil {
		return s.out
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Sources is the ordered, de-duplicated set of input files given with
// --source. Standard input, if named, is always read last.
type Sources struct {
	paths []string
	stdin bool
}

// NewSources resolves paths into a [Sources].
//
// Paths naming the same file (through symlinks, relative and absolute
// spellings, or hard links) are kept once, at their first position. Every
// occurrence of "-" collapses into a single read of standard input.
// Paths that cannot be resolved are dropped.
func NewSources(paths []string) *Sources {
	var (
		s    Sources
		seen []os.FileInfo
	)

	for _, p := range paths {
		if p == stdinSource {
			s.stdin = true

			continue
		}

		resolved, info, ok := resolve(p)
		if !ok {
			continue
		}

		dup := false

		for _, prev := range seen {
			if os.SameFile(prev, info) {
				dup = true

				break
			}
		}

		if dup {
			continue
		}

		seen = append(seen, info)
		s.paths = append(s.paths, resolved)
	}

	return &s
}

func resolve(path string) (string, os.FileInfo, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return "", nil, false
	}

	return resolved, info, true
}

// IsZero reports whether s names no input at all.
func (s *Sources) IsZero() bool {
	return s == nil || (len(s.paths) == 0 && !s.stdin)
}

// Paths returns the resolved file paths in read order, excluding stdin.
func (s *Sources) Paths() []string {
	if s == nil {
		return nil
	}

	return append([]string(nil), s.paths...)
}

// Stdin reports whether standard input is one of the sources.
func (s *Sources) Stdin() bool { return s != nil && s.stdin }

// Open returns a reader over the concatenation of all sources, with a
// newline between consecutive inputs so that a symbol at the end of one
// file never merges with one at the start of the next. stdin is read in
// place of os.Stdin. Closing the returned reader closes every opened file.
func (s *Sources) Open(stdin io.Reader) (io.ReadCloser, error) {
	var (
		readers []io.Reader
		files   []*os.File
	)

	closeAll := func() error {
		var first error

		for _, f := range files {
			if err := f.Close(); err != nil && first == nil {
				first = err
			}
		}

		return first
	}

	if s != nil {
		for _, p := range s.paths {
			f, err := os.Open(p)
			if err != nil {
				_ = closeAll()

				return nil, ErrOpenSource.Wrap(err)
			}

			if len(readers) > 0 {
				readers = append(readers, strings.NewReader("\n"))
			}

			files = append(files, f)
			readers = append(readers, f)
		}

		if s.stdin {
			if len(readers) > 0 {
				readers = append(readers, strings.NewReader("\n"))
			}

			readers = append(readers, stdin)
		}
	}

	return readCloser{io.MultiReader(readers...), closeAll}, nil
}

type readCloser struct {
	io.Reader

	close func() error
}

func (r readCloser) Close() error { return r.close() }

// WithSourceFiles returns a new context.Context carrying the [Sources]
// built from paths.
func WithSourceFiles(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, sourcesKey{}, NewSources(paths))
}

// sourcesFrom returns the [Sources] stored by [WithSourceFiles], or nil.
func sourcesFrom(ctx context.Context) *Sources {
	s, _ := ctx.Value(sourcesKey{}).(*Sources)

	return s
}

// openInput returns the reader for a single positional source argument,
// where "-" or an empty path is standard input.
func openInput(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "" || path == stdinSource {
		return io.NopCloser(stdinFrom(ctx)), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrOpenSource.Wrap(err)
	}

	return f, nil
}
