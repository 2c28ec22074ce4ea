package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/mdse/lang"
	"github.com/ardnew/mdse/log"
)

const prompt = "➜ "

func helpMessage() string {
	return `
Commands:

  :help     Print this help
  :list     List defined functions
  :edit     Write a document in $EDITOR and evaluate it
  :clear    Clear screen
  :quit     Exit REPL

Usage:
  Type a document to expand it; defines persist between lines
  Completions for function names appear at the head of an expression
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)

	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// editDoneMsg is sent when an edit session ends with a parsed document.
type editDoneMsg struct{ doc lang.Expression }

// editCancelledMsg is sent when the user left the editor buffer empty.
type editCancelledMsg struct{ draft string }

// editErrorMsg is sent when the edit session fails.
type editErrorMsg struct{ err error }

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx        context.Context
	ev         *lang.Evaluator
	logger     log.Logger
	history    *History
	input      textinput.Model
	comp       completion
	draft      string // last editor buffer
	historyIdx int
	suggIdx    int    // selected candidate while tab-cycling; -1 otherwise
	preTab     string // input before tab-cycling began
	preCursor  int
	width      int
	quitting   bool
}

// Run starts the REPL on ev. History is kept in cacheDir.
func Run(
	ctx context.Context,
	ev *lang.Evaluator,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if ev == nil {
		return ErrNoEvaluator
	}

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, ev, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	ev *lang.Evaluator,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		ev:         ev,
		logger:     logger,
		history:    history,
		input:      ti,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(prompt)-2, 1)

		return m, nil

	case editDoneMsg:
		m.draft = ""

		return m, m.print(m.evaluate(msg.doc))

	case editCancelledMsg:
		m.draft = msg.draft

		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		if errors.Is(msg.err, ErrEditDeclined) {
			return m, tea.Println(hintStyle.Render("edit discarded"))
		}

		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(m.hint())
	b.WriteByte('\n')

	return b.String()
}

// hint returns the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))

	case strings.TrimSpace(input) == "":
		return hintStyle.Render("Type a document, or :help for commands")

	case len(m.comp.matches) > 0:
		return renderCandidateBar(m.comp.matches, m.suggIdx, m.width)
	}

	if c, ok := detectCall(input, m.input.Position()); ok {
		if sig, ok := lookupSignature(m.ev, c.head); ok {
			return sig.render(sig.current(c.arg))
		}
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.suggIdx = -1
		m.historyIdx = m.history.Len()
		m.refresh()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.suggIdx >= 0 {
			m.suggIdx = -1
			m.refresh()

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1), nil

	case tea.KeyDown:
		return m.recall(1), nil

	case tea.KeyEsc:
		if m.suggIdx >= 0 {
			m.input.SetValue(m.preTab)
			m.input.SetCursor(m.preCursor)
			m.suggIdx = -1
			m.refresh()
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.suggIdx = -1
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// functions returns the sorted names of the evaluator's functions.
func (m model) functions() []string {
	var names []string

	for name := range m.ev.Functions() {
		names = append(names, name.Value())
	}

	return names
}

// refresh recomputes completion candidates for the current input.
func (m *model) refresh() {
	m.comp = complete(m.input.Value(), m.input.Position(), m.functions())

	word := m.input.Value()[m.comp.start:m.comp.end]
	if m.comp.exact(word) {
		m.comp.matches = nil
	}
}

// cycle moves the tab selection by step and substitutes the candidate.
func (m model) cycle(step int) model {
	n := len(m.comp.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceWord(m.comp.matches[0].Str)
		m.comp.matches = nil
		m.suggIdx = -1

		return m
	}

	if m.suggIdx < 0 {
		m.preTab = m.input.Value()
		m.preCursor = m.input.Position()

		if step > 0 {
			m.suggIdx = 0
		} else {
			m.suggIdx = n - 1
		}
	} else {
		m.suggIdx = (m.suggIdx + step + n) % n
	}

	m.replaceWord(m.comp.matches[m.suggIdx].Str)

	return m
}

// replaceWord substitutes s for the word being completed.
func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.comp.start] + s + input[m.comp.end:])
	m.input.SetCursor(m.comp.start + len(s))
	m.comp.end = m.comp.start + len(s)
}

// recall moves through history by step; moving past the newest entry
// clears the input.
func (m model) recall(step int) model {
	idx := min(max(m.historyIdx+step, 0), m.history.Len())
	if idx == m.historyIdx {
		return m
	}

	m.historyIdx = idx
	m.suggIdx = -1

	line, err := m.history.Line(idx)
	if err != nil {
		line = ""
	}

	m.input.SetValue(line)
	m.input.SetCursor(len(line))
	m.refresh()

	return m
}

// submit runs the current input line.
func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())

	m.input.SetValue("")
	m.comp = completion{}

	if line == "" {
		return m, nil
	}

	if err := m.history.Write(line); err != nil {
		m.logger.WarnContext(m.ctx, "could not write history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(line))

	if name, ok := strings.CutPrefix(line, commandPrefix); ok {
		var cmd tea.Cmd

		m, cmd = m.command(strings.TrimSpace(name))

		return m, tea.Sequence(echo, cmd)
	}

	doc, err := lang.ParseString(m.ctx, line)
	if err != nil {
		return m, tea.Sequence(echo, m.print("", err))
	}

	return m, tea.Sequence(echo, m.print(m.evaluate(doc)))
}

// evaluate expands doc with the session evaluator.
func (m model) evaluate(doc lang.Expression) (string, error) {
	out, err := m.ev.Eval(m.ctx, doc)

	m.logger.TraceContext(m.ctx, "repl eval",
		slog.Int("items", doc.Len()),
		slog.Bool("ok", err == nil),
	)

	return out.Value(), err
}

// print renders an evaluation result.
func (m model) print(out string, err error) tea.Cmd {
	if err != nil {
		return tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	if out == "" {
		return nil
	}

	return tea.Println(resultStyle.Render(out))
}

// command runs a REPL command given without its prefix.
func (m model) command(name string) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl command", slog.String("command", name))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "h", "help", "?":
		return m, tea.Println(helpMessage())

	case "l", "list":
		return m, tea.Println(m.list())

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, m.edit()

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + name + " (try :help)"),
		)
	}
}

// list describes every function bound in the evaluator.
func (m model) list() string {
	var b strings.Builder

	names := m.functions()
	slices.Sort(names)

	for _, name := range names {
		if sig, ok := lookupSignature(m.ev, name); ok {
			fmt.Fprintf(&b, "  %s\n", sig.String())
		} else {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// edit opens the external editor on the last draft.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{ctx: m.ctx, logger: m.logger, draft: m.draft}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case err != nil:
			return editErrorMsg{err: err}
		case !cmd.parsed:
			return editCancelledMsg{draft: cmd.draft}
		default:
			return editDoneMsg{doc: cmd.doc}
		}
	})
}
