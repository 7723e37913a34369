package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/config"
	"github.com/fyrsmithlabs/qtask/internal/logging"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

// Status messages shown on the status line.
const (
	StatusNominal = "Quantum systems nominal"
	StatusAdded   = "Task quantum-encoded successfully!"
)

// Tab identifies a dashboard view.
type Tab int

const (
	TabGrid Tab = iota
	TabScatter
	TabAnalytics
)

var tabTitles = []string{"Task Grid", "Quantum Visualization", "Analytics"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabTitles) {
		return "Unknown"
	}
	return tabTitles[t]
}

type focusArea int

const (
	focusForm focusArea = iota
	focusBoard
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

type status struct {
	text string
	kind statusKind
	seq  int
}

// clearStatusMsg resets the status line if no newer status replaced it.
type clearStatusMsg struct{ seq int }

// Options configures a dashboard Model.
type Options struct {
	DefaultPriority int
	StatusDuration  time.Duration
	ScatterWidth    int
	ScatterHeight   int
	Logger          *logging.Logger
	TaskOptions     []task.Option
}

// OptionsFromConfig maps the dashboard config section.
func OptionsFromConfig(cfg config.DashboardConfig, logger *logging.Logger) Options {
	return Options{
		DefaultPriority: cfg.DefaultPriority,
		StatusDuration:  cfg.StatusDuration,
		ScatterWidth:    cfg.ScatterWidth,
		ScatterHeight:   cfg.ScatterHeight,
		Logger:          logger,
	}
}

func (o *Options) applyDefaults() {
	if o.DefaultPriority < task.MinPriority || o.DefaultPriority > task.MaxPriority {
		o.DefaultPriority = task.DefaultPriority
	}
	if o.StatusDuration <= 0 {
		o.StatusDuration = 2 * time.Second
	}
	if o.ScatterWidth <= 0 {
		o.ScatterWidth = 60
	}
	if o.ScatterHeight <= 0 {
		o.ScatterHeight = 16
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
}

// Model is the bubbletea dashboard model for one session store.
type Model struct {
	store *task.Store
	opts  Options
	log   *logging.Logger

	keys  keyMap
	help  help.Model
	input textinput.Model
	bar   progress.Model

	priority int
	focus    focusArea
	tab      Tab
	cursor   int
	status   status
	width    int
	quitting bool
}

// NewModel creates a dashboard over store.
func NewModel(store *task.Store, opts Options) Model {
	opts.applyDefaults()

	input := textinput.New()
	input.Placeholder = "Enter a new task"
	input.Prompt = "› "
	input.CharLimit = task.MaxDescriptionLen
	input.Width = 50
	input.Focus()

	return Model{
		store:    store,
		opts:     opts,
		log:      opts.Logger.Named("dashboard"),
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    input,
		bar:      progress.New(progress.WithGradient("#ff00cc", "#00ffff"), progress.WithWidth(30)),
		priority: opts.DefaultPriority,
		focus:    focusForm,
		tab:      TabGrid,
		status:   status{text: StatusNominal},
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.status.seq {
			m.status = status{text: StatusNominal, seq: m.status.seq}
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.focus == focusForm {
			return m.updateForm(msg)
		}
		return m.updateBoard(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	up, down := m.keys.formPriority()
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.addTask()
	case key.Matches(msg, m.keys.Blur):
		m.focus = focusBoard
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabTitles))
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + Tab(len(tabTitles)) - 1) % Tab(len(tabTitles))
		return m, nil
	case key.Matches(msg, up):
		m.priority = min(m.priority+1, task.MaxPriority)
		return m, nil
	case key.Matches(msg, down):
		m.priority = max(m.priority-1, task.MinPriority)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.FocusForm):
		m.focus = focusForm
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabTitles))
	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + Tab(len(tabTitles)) - 1) % Tab(len(tabTitles))
	case key.Matches(msg, m.keys.GridTab):
		m.tab = TabGrid
	case key.Matches(msg, m.keys.ScatterTab):
		m.tab = TabScatter
	case key.Matches(msg, m.keys.StatsTab):
		m.tab = TabAnalytics
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PriorityUp):
		m.priority = min(m.priority+1, task.MaxPriority)
	case key.Matches(msg, m.keys.PriorityDown):
		m.priority = max(m.priority-1, task.MinPriority)
	case key.Matches(msg, m.keys.Complete):
		return m.completeSelected()
	case key.Matches(msg, m.keys.Randomize):
		return m.randomize()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) addTask() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	t, err := task.New(m.input.Value(), m.priority, m.opts.TaskOptions...)
	if err != nil {
		m.log.Debug(ctx, "task rejected", zap.Error(err))
		return m.setStatus(err.Error(), statusError)
	}

	index := m.store.Add(t)
	m.input.Reset()
	m.log.Info(ctx, "task added",
		zap.String("task.id", t.ID),
		zap.Int("index", index),
		zap.Int("priority", t.Priority),
		zap.String("state", t.State.String()),
	)
	return m.setStatus(StatusAdded, statusSuccess)
}

func (m Model) completeSelected() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	t, err := m.store.Complete(m.cursor)
	if err != nil {
		m.log.Debug(ctx, "complete failed", zap.Int("index", m.cursor), zap.Error(err))
		return m.setStatus("No task selected to complete", statusError)
	}

	m.log.Info(ctx, "task completed", zap.String("task.id", t.ID), zap.Int("index", m.cursor))
	return m.setStatus(fmt.Sprintf("Task #%d collapsed", m.cursor+1), statusSuccess)
}

func (m Model) randomize() (tea.Model, tea.Cmd) {
	n := m.store.RandomizeStates()
	m.log.Info(context.Background(), "states randomized", zap.Int("count", n))
	return m.setStatus(fmt.Sprintf("Randomized %d quantum states", n), statusInfo)
}

// setStatus shows text and schedules its removal.
func (m Model) setStatus(text string, kind statusKind) (tea.Model, tea.Cmd) {
	seq := m.status.seq + 1
	m.status = status{text: text, kind: kind, seq: seq}
	return m, tea.Tick(m.opts.StatusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	tasks := m.store.All()

	var content string
	switch m.tab {
	case TabScatter:
		content = renderScatter(tasks, m.opts.ScatterWidth, m.opts.ScatterHeight)
	case TabAnalytics:
		content = renderAnalytics(tasks)
	default:
		content = renderGrid(tasks, m.cursor, m.bar)
	}

	keys := m.keys
	keys.formFocused = m.focus == focusForm

	return containerStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(" Quantum Task Explorer "),
		subtitleStyle.Render("Manage your tasks in a quantum-dimensional space!"),
		m.renderForm(),
		m.renderTabs(),
		sectionStyle.Render("┃ "+m.tab.String()),
		content,
		"",
		m.renderStatus(),
		m.help.View(keys),
	))
}

func (m Model) renderForm() string {
	title := "┃ Task Entanglement"
	if m.focus != focusForm {
		title += dimStyle.Render("  (press a to add)")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(title),
		m.input.View(),
		labelStyle.Render("Priority: ")+valueStyle.Render(FormatPriority(m.priority)),
	)
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if Tab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = inactiveTabStyle.Render(label)
		}
	}
	return "\n" + strings.Join(tabs, " ")
}

func (m Model) renderStatus() string {
	switch m.status.kind {
	case statusSuccess:
		return successStyle.Render("✓ " + m.status.text)
	case statusError:
		return errorStyle.Render("✗ " + m.status.text)
	}
	return dimStyle.Render("⚛ " + m.status.text)
}

// Run starts the dashboard program and blocks until it exits or ctx is done.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
