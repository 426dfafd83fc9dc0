// Package tui provides the terminal front end of codepad.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/codepad/internal/execclient"
	"github.com/leapstack-labs/codepad/internal/language"
	"github.com/leapstack-labs/codepad/internal/session"
	"github.com/muesli/termenv"
)

const noticeText = "Your code runs on a remote execution service; the first run can take a few seconds. " +
	"Nothing is saved: switching language starts over from the sample program."

// Config holds configuration for the terminal editor.
type Config struct {
	Session  *session.Session
	Executor session.Executor
	// PrefersDark overrides terminal background detection when set.
	PrefersDark *bool
	Logger      *slog.Logger
}

// runFinishedMsg carries the outcome of one execution request.
type runFinishedMsg struct {
	ticket session.Ticket
	result execclient.Result
	err    error
}

// Model is the Bubble Tea model of the terminal editor. All editor state
// lives in the session; the model only holds widgets.
type Model struct {
	ctx      context.Context
	session  *session.Session
	executor session.Executor
	logger   *slog.Logger

	editor  textarea.Model
	preview viewport.Model
	output  viewport.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  Styles

	previewing bool
	width      int
	height     int
}

// New creates a terminal editor model.
func New(ctx context.Context, cfg Config) (Model, error) {
	if cfg.Session == nil || cfg.Executor == nil {
		return Model{}, errors.New("tui: session and executor are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.PrefersDark != nil {
		cfg.Session.DetectTheme(*cfg.PrefersDark)
	}

	ed := textarea.New()
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.ShowLineNumbers = true
	ed.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		session:  cfg.Session,
		executor: cfg.Executor,
		logger:   cfg.Logger,
		editor:   ed,
		preview:  viewport.New(80, 12),
		output:   viewport.New(80, 8),
		spinner:  sp,
		help:     help.New(),
		keys:     defaultKeyMap(),
		width:    80,
		height:   30,
	}
	snap := m.session.Snapshot()
	m.editor.SetValue(snap.Source)
	m.applyTheme(snap.Dark)
	m.layout()
	m.refresh()
	return m, nil
}

// Run starts the terminal editor and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	if cfg.PrefersDark == nil {
		dark := termenv.HasDarkBackground()
		cfg.PrefersDark = &dark
	}
	m, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.refresh()
		return m, nil

	case runFinishedMsg:
		applied := m.session.FinishRun(msg.ticket, msg.result, msg.err)
		m.logger.Debug("run finished", "generation", msg.ticket.Generation, "applied", applied)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.session.Snapshot().Running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Dismiss):
		m.session.DismissNotice()
		return m, nil

	case key.Matches(msg, m.keys.NextLanguage):
		return m.cycleLanguage(1), nil

	case key.Matches(msg, m.keys.PrevLanguage):
		return m.cycleLanguage(-1), nil

	case key.Matches(msg, m.keys.Run):
		return m.startRun()

	case key.Matches(msg, m.keys.Clear):
		m.session.ClearOutput()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.session.ToggleTheme()
		m.applyTheme(m.session.Snapshot().Dark)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Preview):
		m.previewing = !m.previewing
		if m.previewing {
			m.editor.Blur()
		} else {
			m.editor.Focus()
		}
		m.refresh()
		return m, nil
	}

	if m.previewing {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.session.EditSource(after)
	}
	return m, cmd
}

func (m Model) cycleLanguage(step int) Model {
	tags := language.Tags()
	current := m.session.Snapshot().Language.Tag
	idx := 0
	for i, t := range tags {
		if t == current {
			idx = i
			break
		}
	}
	next := tags[(idx+step+len(tags))%len(tags)]

	if err := m.session.SelectLanguage(next); err != nil {
		m.logger.Error("select language", "error", err)
		return m
	}
	m.editor.SetValue(m.session.Snapshot().Source)
	m.refresh()
	return m
}

func (m Model) startRun() (tea.Model, tea.Cmd) {
	ticket, ok := m.session.BeginRun()
	if !ok {
		m.logger.Debug("run ignored, another run is in flight")
		return m, nil
	}
	m.refresh()
	return m, tea.Batch(m.execute(ticket), m.spinner.Tick)
}

// execute sends the ticket's source to the executor off the UI goroutine.
func (m Model) execute(t session.Ticket) tea.Cmd {
	exec, ctx := m.executor, m.ctx
	return func() tea.Msg {
		res, err := exec.Execute(ctx, t.Language, t.Source)
		return runFinishedMsg{ticket: t, result: res, err: err}
	}
}

func (m *Model) applyTheme(dark bool) {
	m.styles = NewStyles(dark)
	m.spinner.Style = m.styles.Spinner
}

func (m *Model) layout() {
	inner := max(m.width-2, 20)
	// tabs, filename, help and two pane borders each
	avail := max(m.height-9, 6)
	editorHeight := avail * 2 / 3
	outputHeight := avail - editorHeight

	m.editor.SetWidth(inner)
	m.editor.SetHeight(editorHeight)
	m.preview.Width, m.preview.Height = inner, editorHeight
	m.output.Width, m.output.Height = inner, outputHeight
	m.help.Width = m.width
}

// refresh re-renders the viewports from the session.
func (m *Model) refresh() {
	snap := m.session.Snapshot()

	if m.previewing {
		var b strings.Builder
		if err := snap.Language.HighlightTerminal(&b, snap.Source, snap.Dark); err != nil {
			m.preview.SetContent(snap.Source)
		} else {
			m.preview.SetContent(b.String())
		}
	}

	style := m.styles.Success
	if snap.Outcome == session.Failure {
		style = m.styles.Error
	}
	m.output.SetContent(style.Render(snap.Output))
	m.output.GotoBottom()
}

// View implements tea.Model.
func (m Model) View() string {
	snap := m.session.Snapshot()
	s := m.styles

	tabs := make([]string, 0, len(language.Tags()))
	for _, cfg := range language.All() {
		style := s.Tab
		if cfg.Tag == snap.Language.Tag {
			style = s.ActiveTab
		}
		tabs = append(tabs, style.Render(cfg.DisplayName))
	}

	status := s.ThemeLabel
	if snap.Running {
		status = m.spinner.View() + " running"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		s.Filename.Render(snap.Filename()), "  ", s.Help.Render("["+status+"]"))

	body := m.editor.View()
	if m.previewing {
		body = m.preview.View()
	}

	sections := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		header,
		s.Pane.Render(body),
	}
	if snap.NoticeVisible {
		sections = append(sections, s.Notice.Width(max(m.width-4, 20)).Render(noticeText+"  (esc)"))
	}
	sections = append(sections,
		s.PaneTitle.Render("Output:"),
		s.Pane.Render(m.output.View()),
		m.help.View(m.keys),
	)

	return s.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
