package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// commandPrefix marks an input line as a REPL command.
const commandPrefix = ":"

// commands are the REPL commands, without the prefix.
var commands = []string{"clear", "edit", "help", "list", "quit"}

// isWordBoundary reports whether r separates symbols in source text.
func isWordBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == '"'
}

// wordBounds returns the symbol under the cursor and its byte offsets in
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inHead reports whether the word starting at start is the head of an
// expression, the only position where a function name is meaningful.
func inHead(input string, start int) bool {
	prefix := strings.TrimRightFunc(input[:start], unicode.IsSpace)

	return strings.HasSuffix(prefix, "(")
}

// completion is the candidate state for the word under the cursor.
type completion struct {
	matches    fuzzy.Matches
	start, end int
}

// complete ranks the candidates for the word under cursor. Command lines
// complete command names; elsewhere, the head of an expression completes
// against functions.
func complete(input string, cursor int, functions []string) completion {
	if rest, ok := strings.CutPrefix(input, commandPrefix); ok {
		word, start, end := wordBounds(rest, cursor-len(commandPrefix))
		if start != 0 || word == "" {
			return completion{}
		}

		return completion{
			matches: fuzzy.Find(word, commands),
			start:   start + len(commandPrefix),
			end:     end + len(commandPrefix),
		}
	}

	word, start, end := wordBounds(input, cursor)
	if !inHead(input, start) || len(functions) == 0 {
		return completion{start: start, end: end}
	}

	if word == "" {
		all := make(fuzzy.Matches, len(functions))
		for i, f := range functions {
			all[i] = fuzzy.Match{Str: f, Index: i}
		}

		return completion{matches: all, start: start, end: end}
	}

	return completion{matches: fuzzy.Find(word, functions), start: start, end: end}
}

// exact reports whether the only match equals word.
func (c completion) exact(word string) bool {
	return len(c.matches) == 1 && c.matches[0].Str == word
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit width. The candidate at selected is highlighted; -1 selects none.
func renderCandidateBar(matches fuzzy.Matches, selected, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched runes emphasized.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, emphasis := suggestionStyle, matchStyle
	if selected {
		base, emphasis = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(emphasis.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
