package repl

import (
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after paren", "(no-sp", 6, "no-sp", 1, 6},
		{"mid word", "foobar", 3, "foobar", 0, 6},
		{"at start", "foo", 0, "foo", 0, 3},
		{"empty at boundary", "(a ", 3, "", 3, 3},
		{"inside nested", "(a (bc d)", 6, "bc", 4, 6},
		{"after quote", `"ab`, 3, "ab", 1, 3},
		{"cursor past end", "ab", 9, "ab", 0, 2},
		{"punctuation kept", "**bold**", 2, "**bold**", 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func matchStrings(c completion) []string {
	out := make([]string, len(c.matches))
	for i, m := range c.matches {
		out[i] = m.Str
	}

	return out
}

func TestComplete(t *testing.T) {
	functions := []string{"define", "em", "no-spaces", "paren"}

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"head prefix", "(par", []string{"paren"}},
		{"head fuzzy", "(nsp", []string{"no-spaces"}},
		{"empty head lists all", "(", functions},
		{"head after space", "( de", []string{"define"}},
		{"argument position", "(em par", nil},
		{"top level word", "par", nil},
		{"command", ":he", []string{"help"}},
		{"command fuzzy", ":q", []string{"quit"}},
		{"command argument", ":help x", nil},
		{"bare prefix", ":", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := complete(tt.input, len(tt.input), functions)

			got := matchStrings(c)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("complete(%q) = %q, want %q", tt.input, got, tt.want)
			}

			if len(got) > 0 && c.end != len(tt.input) {
				t.Errorf("complete(%q) end = %d, want %d", tt.input, c.end, len(tt.input))
			}
		})
	}
}

func TestCompletion_Exact(t *testing.T) {
	c := completion{matches: fuzzy.Matches{{Str: "em"}}}

	if !c.exact("em") || c.exact("e") {
		t.Error("exact() mismatch")
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("a", []string{"alpha", "beta", "gamma", "delta"})

	if got := renderCandidateBar(nil, -1, 80); got != "" {
		t.Errorf("empty matches rendered %q", got)
	}

	full := plain(renderCandidateBar(matches, -1, 80))
	for _, m := range matches {
		if !strings.Contains(full, m.Str) {
			t.Errorf("bar %q missing %q", full, m.Str)
		}
	}

	narrow := plain(renderCandidateBar(matches, 0, 12))
	if !strings.Contains(narrow, "...") {
		t.Errorf("narrow bar %q not ellipsized", narrow)
	}
}
