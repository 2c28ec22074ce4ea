package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// parsed caches documents keyed by source and parser settings.
var parsed sync.Map

// entry holds the parse result of one source.
type entry struct {
	once sync.Once
	doc  Expression
	err  error
}

// ParseReader reads all of r and parses it as a document.
//
// Parse results are cached by a hash of the source text and the parser
// settings, so repeated reads of identical input are parsed once. Cached
// documents are immutable and shared between callers.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...ParseOption,
) (Expression, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return Expression{}, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	settings := newParser("", opts...)

	sourceHash := xxh3.Hash(data)
	key := strconv.FormatUint(sourceHash, 36) + ":" +
		strconv.Itoa(max(settings.maxNesting, 0))

	value, hit := parsed.LoadOrStore(key, new(entry))

	settings.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.Int("source_bytes", len(data)),
		slog.Bool("cache_hit", hit),
	)

	e, ok := value.(*entry)
	if !ok {
		return ParseString(ctx, string(data), opts...)
	}

	e.once.Do(func() {
		e.doc, e.err = ParseString(ctx, string(data), opts...)
	})

	return e.doc, e.err
}

// ClearCache removes all cached parse results.
func ClearCache() {
	parsed.Clear()
}
