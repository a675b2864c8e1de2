package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
)

// editBindingsMsg is sent when editing the bindings completes successfully.
type editBindingsMsg struct{ bindings *lang.Bindings }

// editDeclinedMsg is sent when the user declined to re-edit after a decode
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-decode error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help                Print this cruft
  bind NAME VALUE     Bind a custom item to a number or {vector}
  unbind NAME...      Remove custom item bindings
  list                List bound custom items
  funcs [FILTER]      List constants and functions
  disasm FORMULA      Print the compiled program of a formula
  edit                Edit bindings as YAML in external $EDITOR
  clear               Clear screen
  quit                Exit REPL

Usage:
  Type a formula to evaluate it; quote custom items as 'name'
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the echo line of a formula.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the echo line of a control command.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// ValueFunc converts a command argument or a decoded YAML value into a
// custom item value.
type ValueFunc func(any) (lang.Value, error)

// Config configures a REPL session.
type Config struct {
	// Cache compiles every formula entered. Required.
	Cache *lang.Cache
	// Bindings are the initial custom item values. The session works on a
	// copy.
	Bindings *lang.Bindings
	// Value parses the values given to bind and decoded from the editor.
	Value ValueFunc
	// HistoryFile persists entered lines. Empty keeps history in memory.
	HistoryFile string
	Logger      log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	cache        *lang.Cache
	bindings     *lang.Bindings
	value        ValueFunc
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive session and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Cache == nil {
		return ErrNoCache
	}

	cfg.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("history", cfg.HistoryFile),
		slog.Int("bindings", cfg.Bindings.Len()),
	)

	history := NewHistory(cfg.HistoryFile)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	cfg.Logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, cfg, history), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	value := cfg.Value
	if value == nil {
		value = scalarValue
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		cache:      cfg.Cache,
		bindings:   cfg.Bindings.Clone(),
		value:      value,
		logger:     cfg.Logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
		suggIdx:    -1,
	}
}

// scalarValue accepts only plain numbers.
func scalarValue(v any) (lang.Value, error) {
	s, ok := v.(string)
	if !ok {
		return lang.Value{}, fmt.Errorf("%v (%T) is not a number", v, v)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return lang.Value{}, err
	}

	return lang.Scalar(f), nil
}

func (m model) registry() *lang.Registry { return m.cache.Registry() }

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editBindingsMsg:
		m.bindings = msg.bindings
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("bindings", m.bindings.Len()),
		)

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("bindings updated (%d)", m.bindings.Len()),
		))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
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
	b.WriteString("\n")
	b.WriteString(m.hintView())
	b.WriteString("\n")

	return b.String()
}

// hintView renders the line below the input: the history position, a usage
// hint, the signature of the enclosing call, or the completion bar.
func (m model) hintView() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a formula or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if len(m.matches) > 0 && (m.tabActive || m.wordEnd > m.wordStart) {
		return renderCandidateBar(m.registry(), m.matches, m.suggIdx, m.tabActive, m.width)
	}

	if m.mode == modeEval {
		call := detectFunctionCall(input, m.input.Position())
		if params, ok := signatureOf(m.registry(), call.name); call.inCall && ok {
			hint := renderSignatureHint(call.name, params, call.argIndex)
			if e, ok := m.registry().Lookup(call.name); ok && e.Description() != "" {
				hint += hintStyle.Render("  " + e.Description())
			}

			return hint
		}
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space accepts the candidate being cycled.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Other keys edit or move without completing.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle selects the next (step 1) or previous (step -1) candidate. A sole
// candidate is completed immediately.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input and moves the
// cursor to its end.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the matches for the current input. With
// autoConfirm, a word that already equals its sole candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	return m, tea.Sequence(
		tea.Println(formatCommand(input)),
		tea.Println(m.evaluate(input)),
	)
}

// evaluate compiles and evaluates a formula with the session bindings and
// returns the rendered result or error.
func (m model) evaluate(input string) string {
	ctx := m.ctxFunc()

	p, err := m.cache.Compile(ctx, input)
	if err != nil {
		var d *lang.Diagnostic
		if errors.As(err, &d) {
			return errorStyle.Render(d.Caret(input) + "\n" + d.Error())
		}

		return errorStyle.Render("error: " + err.Error())
	}

	result, err := p.Evaluate(ctx, m.bindings)
	if err != nil {
		m.logger.TraceContext(ctx, "repl eval failed", slog.Any("error", err))

		return errorStyle.Render("error: " + err.Error())
	}

	m.logger.TraceContext(ctx, "repl eval",
		slog.String("formula", p.Source()),
		slog.Float64("result", result),
	)

	return resultStyle.Render(strconv.FormatFloat(result, 'g', -1, 64))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	echo := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", name),
		slog.String("args", rest),
	)

	var out string

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		out = helpMessage()

	case "b", "bind":
		out = m.bind(rest)

	case "u", "unbind":
		for _, n := range strings.Fields(rest) {
			m.bindings.Delete(n)
		}

		out = m.listBindings()

	case "l", "list":
		out = m.listBindings()

	case "f", "funcs":
		out = m.listFuncs(rest)

	case "d", "disasm":
		out = m.disasm(rest)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + name + " (try 'help')"),
		)
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

// bind parses "NAME VALUE" and binds the custom item.
func (m model) bind(args string) string {
	name, text, ok := strings.Cut(args, " ")
	if !ok {
		return errorStyle.Render("usage: bind NAME VALUE")
	}

	v, err := m.value(strings.TrimSpace(text))
	if err == nil {
		err = m.bindings.Bind(name, v)
	}

	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	return hintStyle.Render(fmt.Sprintf("'%s' = %s", name, v))
}

func (m model) listBindings() string {
	if m.bindings.Len() == 0 {
		return hintStyle.Render("  no bindings")
	}

	var b strings.Builder

	for _, name := range m.bindings.Names() {
		v, _ := m.bindings.Get(name)
		fmt.Fprintf(&b, "  '%s' %s\n", name, hintStyle.Render(v.String()))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) listFuncs(filter string) string {
	reg := m.registry()

	names := reg.Names()
	if filter != "" {
		names = reg.Suggest(filter)
	}

	var b strings.Builder

	for _, name := range names {
		desc, _ := reg.Describe(name)
		fmt.Fprintf(&b, "  %s\n", hintStyle.Render(desc))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) disasm(formula string) string {
	p, err := m.cache.Compile(m.ctxFunc(), formula)
	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	return strings.TrimSuffix(p.String(), "\n")
}

func (m model) edit() tea.Cmd {
	cmd := &editBindingsCommand{
		bindings: m.bindings,
		value:    m.value,
		ctxFunc:  m.ctxFunc,
		logger:   m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		default:
			return editBindingsMsg{bindings: cmd.result}
		}
	})
}

// historyStep moves through history by step entries. Within mode, only
// entries of the current mode are visited; otherwise the mode follows the
// entry. Stepping past the newest entry clears the input.
func (m model) historyStep(step int, withinMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if withinMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches input mode, saving and restoring the text of each.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
