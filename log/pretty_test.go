package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// A bytes.Buffer is not a terminal, so the pretty handler writes plain text.

func TestPretty_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithTimeLayout("none"),
		WithLevel(LevelTrace),
	)

	logger.Trace("eval",
		slog.String("head", "greet"),
		slog.Int("depth", 2),
		slog.Bool("cached", true),
		slog.Duration("took", time.Millisecond),
		slog.Group("src", slog.String("file", "a.md"), slog.Int("line", 4)),
	)

	want := "level=TRACE msg=eval head=greet depth=2 cached=true took=1ms " +
		"src.file=a.md src.line=4\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPretty_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"))

	logger.Warn("slow", slog.String("name", "x"), slog.Any("missing", nil))

	want := "{\n" +
		`  "level": "WARN",` + "\n" +
		`  "msg": "slow",` + "\n" +
		`  "name": "x",` + "\n" +
		`  "missing": null` + "\n" +
		"}\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPretty_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	logger := base.With(slog.String("cmd", "eval"))

	logger.Logger = slog.New(logger.Handler().WithGroup("req"))
	logger.Info("done", slog.Int("n", 1))

	want := "level=INFO msg=done cmd=eval req.n=1\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

type valuer struct{ err error }

func (v valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("cause", v.err.Error()))
}

func TestPretty_Values(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))

	logger.Error("failed",
		slog.Any("error", errors.New("boom")),
		slog.Any("detail", valuer{errors.New("bad input")}),
		slog.Float64("ratio", 0.5),
		slog.Uint64("size", 7),
	)

	out := buf.String()

	for _, want := range []string{
		"level=ERROR",
		"error=boom",
		"detail.cause=bad input",
		"ratio=0.5",
		"size=7",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
