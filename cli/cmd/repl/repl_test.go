package repl

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/mdse/lang"
	"github.com/ardnew/mdse/log"
)

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*m")

// plain strips terminal styling so assertions hold on color terminals.
func plain(s string) string { return ansiEscape.ReplaceAllString(s, "") }

func testModel(t *testing.T) model {
	t.Helper()

	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), lang.New(), h, log.Logger{})
}

func typeText(m model, s string) model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return next.(model)
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})

	return next.(model), cmd
}

func TestModel_SubmitPersistsDefines(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "(define em (t) ((no-spaces * t *)))")
	m, _ = press(m, tea.KeyEnter)

	if m.input.Value() != "" {
		t.Errorf("input after submit = %q", m.input.Value())
	}

	if m.history.Len() != 1 || m.historyIdx != 1 {
		t.Errorf("history len = %d, idx = %d", m.history.Len(), m.historyIdx)
	}

	doc, err := lang.ParseString(t.Context(), "(em word)")
	if err != nil {
		t.Fatal(err)
	}

	out, err := m.evaluate(doc)
	if err != nil || out != "*word*" {
		t.Errorf("evaluate() = %q, %v; want *word*", out, err)
	}
}

func TestModel_Evaluate(t *testing.T) {
	m := testModel(t)

	doc, err := lang.ParseString(t.Context(), "(define f)")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.evaluate(doc); !errors.Is(err, lang.ErrMalformedDefine) {
		t.Errorf("evaluate() error = %v, want %v", err, lang.ErrMalformedDefine)
	}

	if m.print("", nil) != nil {
		t.Error("print of empty output returned a command")
	}
}

func TestModel_TabCompletion(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "(no")
	if len(m.comp.matches) != 1 {
		t.Fatalf("matches = %v", matchStrings(m.comp))
	}

	m, _ = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "(no-spaces" {
		t.Errorf("input after tab = %q, want %q", got, "(no-spaces")
	}

	if m.suggIdx != -1 || len(m.comp.matches) != 0 {
		t.Errorf("single completion left state: idx %d, matches %d", m.suggIdx, len(m.comp.matches))
	}
}

func TestModel_TabCycle(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "(")
	n := len(m.comp.matches)

	if n < 2 {
		t.Fatalf("expected every function as candidate, got %d", n)
	}

	m, _ = press(m, tea.KeyTab)
	first := m.input.Value()

	m, _ = press(m, tea.KeyTab)
	second := m.input.Value()

	if first == second || !strings.HasPrefix(second, "(") {
		t.Errorf("tab did not cycle: %q then %q", first, second)
	}

	m, _ = press(m, tea.KeyShiftTab)
	if m.input.Value() != first {
		t.Errorf("shift-tab = %q, want %q", m.input.Value(), first)
	}

	m, _ = press(m, tea.KeyEsc)
	if m.input.Value() != "(" || m.suggIdx != -1 {
		t.Errorf("esc restored %q (idx %d)", m.input.Value(), m.suggIdx)
	}
}

func TestModel_HistoryRecall(t *testing.T) {
	m := testModel(t)

	for _, line := range []string{"one", "two"} {
		m = typeText(m, line)
		m, _ = press(m, tea.KeyEnter)
	}

	m, _ = press(m, tea.KeyUp)
	if m.input.Value() != "two" {
		t.Errorf("up = %q, want two", m.input.Value())
	}

	m, _ = press(m, tea.KeyUp)
	m, _ = press(m, tea.KeyUp)

	if m.input.Value() != "one" {
		t.Errorf("up past oldest = %q, want one", m.input.Value())
	}

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("down past newest = %q (idx %d)", m.input.Value(), m.historyIdx)
	}
}

func TestModel_Commands(t *testing.T) {
	m := testModel(t)

	m, cmd := m.command("list")
	if cmd == nil || m.quitting {
		t.Error(":list did not print")
	}

	list := plain(m.list())
	for _, want := range []string{"(define name (params) body)", "(paren args...)"} {
		if !strings.Contains(list, want) {
			t.Errorf("list() = %q, missing %q", list, want)
		}
	}

	m, _ = m.command("bogus")
	if m.quitting {
		t.Error("unknown command quit")
	}

	m = typeText(m, ":quit")
	m, _ = press(m, tea.KeyEnter)

	if !m.quitting || m.View() != "" {
		t.Error(":quit did not quit")
	}
}

func TestModel_CtrlC(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "partial")
	m, _ = press(m, tea.KeyCtrlC)

	if m.quitting || m.input.Value() != "" {
		t.Errorf("ctrl-c with input: quitting %v, input %q", m.quitting, m.input.Value())
	}

	m, _ = press(m, tea.KeyCtrlC)
	if !m.quitting {
		t.Error("ctrl-c on empty line did not quit")
	}
}

func TestModel_Hint(t *testing.T) {
	m := testModel(t)

	if !strings.Contains(plain(m.hint()), ":help") {
		t.Errorf("empty hint = %q", m.hint())
	}

	m = typeText(m, "(paren x ")
	if got := plain(m.hint()); !strings.Contains(got, "(paren args...)") {
		t.Errorf("call hint = %q", got)
	}
}

func TestRun_NoEvaluator(t *testing.T) {
	if err := Run(t.Context(), nil, t.TempDir(), log.Logger{}); !errors.Is(err, ErrNoEvaluator) {
		t.Errorf("Run() error = %v, want %v", err, ErrNoEvaluator)
	}
}
