package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/nissyi-gh/planner/internal/agenda"
	"github.com/nissyi-gh/planner/internal/history"
	"github.com/nissyi-gh/planner/internal/model"
	"github.com/nissyi-gh/planner/internal/reminder"
	"github.com/nissyi-gh/planner/internal/store"
)

type appState int

const (
	stateList appState = iota
	stateForm
	stateNotice
)

var (
	appStyle    = lipgloss.NewStyle().Padding(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212"))
	detailStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
)

type extraKeyMap struct {
	Add      key.Binding
	Delete   key.Binding
	Edit     key.Binding
	Complete key.Binding
	Copy     key.Binding
}

func newExtraKeyMap() extraKeyMap {
	return extraKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a/n", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Complete: key.NewBinding(
			key.WithKeys("x", "enter"),
			key.WithHelp("x/enter", "complete"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
	}
}

// Options configures the TUI.
type Options struct {
	Interval     time.Duration
	CatchUp      bool
	DefaultColor string
	// History receives fired reminders; nil disables it.
	History   *history.Log
	Logger    *log.Logger
	Now       func() time.Time
	Clipboard func(string) error
}

type notice struct {
	title string
	body  string
}

// editOrigin remembers where an edited task came from.
type editOrigin struct {
	index int
	task  model.Task
}

// Model is the top-level BubbleTea model for the planner TUI.
type Model struct {
	state    appState
	returnTo appState
	list     list.Model
	form     taskForm
	store    *store.TaskStore
	scanner  *reminder.Scanner
	opts     Options
	keys     extraKeyMap
	color    string
	editing  *editOrigin
	notices  []notice
	status   string
	warning  string
	width    int
	height   int
}

// NewModel creates a new TUI model.
func NewModel(s *store.TaskStore, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Interval <= 0 {
		opts.Interval = reminder.DefaultInterval
	}
	if opts.DefaultColor == "" {
		opts.DefaultColor = model.DefaultColor
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	keys := newExtraKeyMap()

	l := list.New(nil, taskDelegate{}, 0, 0)
	l.Title = "planner"
	l.Styles.Title = titleStyle
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("task", "tasks")
	// d deletes.
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete, keys.Edit, keys.Complete, keys.Copy}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete, keys.Edit, keys.Complete, keys.Copy}
	}

	sc := reminder.NewScanner(s, opts.CatchUp)
	sc.Now = opts.Now

	m := Model{
		state:   stateList,
		list:    l,
		form:    newTaskForm(),
		store:   s,
		scanner: sc,
		opts:    opts,
		keys:    keys,
		color:   opts.DefaultColor,
	}
	if err := s.LoadWarning(); err != nil {
		m.warning = fmt.Sprintf("%s was ignored: %v", s.Path(), err)
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return reminder.TickCmd(m.opts.Interval)
}

// refresh rebuilds the list from the store, keeping the cursor in range.
func (m *Model) refresh() {
	tasks := m.store.List()
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = TaskItem{Task: t}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

func (m Model) selectedIndex() int {
	if m.list.SelectedItem() == nil {
		return store.NoSelection
	}
	return m.list.Index()
}

func (m *Model) pushNotice(title, body string) {
	if m.state != stateNotice {
		m.returnTo = m.state
		m.state = stateNotice
	}
	m.notices = append(m.notices, notice{title: title, body: body})
}

func (m *Model) showError(err error) {
	title := "Error"
	switch {
	case errors.Is(err, store.ErrValidation):
		title = "Invalid task"
	case errors.Is(err, store.ErrNotFound):
		title = "No task selected"
	case errors.Is(err, store.ErrFormat):
		title = "Wrong format"
	}
	m.pushNotice(title, err.Error())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-2)
		return m, nil

	case reminder.TickMsg:
		m.checkReminders()
		return m, reminder.TickCmd(m.opts.Interval)
	}

	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateForm:
		return m.updateForm(msg)
	case stateNotice:
		return m.updateNotice(msg)
	}

	return m, nil
}

func (m *Model) checkReminders() {
	t, firedAt, ok := m.scanner.Tick()
	if !ok {
		return
	}
	m.opts.Logger.Info("reminder fired", "id", t.ID, "description", t.Description)
	if m.opts.History != nil {
		if err := m.opts.History.Record(context.Background(), t, firedAt); err != nil {
			m.opts.Logger.Error("record reminder", "err", err)
		}
	}
	m.refresh()
	m.pushNotice("Reminder", "Time to do: "+agenda.Line(t))
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Add):
			m.state = stateForm
			m.editing = nil
			cmd := m.form.reset(m.opts.Now(), m.color)
			return m, cmd
		case key.Matches(keyMsg, m.keys.Delete):
			if err := m.store.Delete(m.selectedIndex()); err != nil {
				m.showError(err)
				return m, nil
			}
			m.refresh()
			return m, nil
		case key.Matches(keyMsg, m.keys.Edit):
			idx := m.selectedIndex()
			t, err := m.store.Edit(idx)
			if err != nil {
				m.showError(err)
				return m, nil
			}
			m.editing = &editOrigin{index: idx, task: t}
			m.refresh()
			m.state = stateForm
			cmd := m.form.load(t)
			return m, cmd
		case key.Matches(keyMsg, m.keys.Complete):
			if err := m.store.Complete(m.selectedIndex()); err != nil {
				m.showError(err)
				return m, nil
			}
			m.refresh()
			return m, nil
		case key.Matches(keyMsg, m.keys.Copy):
			item, ok := m.list.SelectedItem().(TaskItem)
			if !ok {
				m.showError(fmt.Errorf("%w: select a task to copy", store.ErrNotFound))
				return m, nil
			}
			if err := m.opts.Clipboard(agenda.Line(item.Task)); err != nil {
				m.showError(fmt.Errorf("copy to clipboard: %w", err))
				return m, nil
			}
			m.status = "Copied: " + agenda.Line(item.Task)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m.submitForm()
		case "esc":
			if m.editing != nil {
				if err := m.store.Restore(m.editing.index, m.editing.task); err != nil {
					m.opts.Logger.Error("restore edited task", "err", err)
					m.showError(err)
					return m, nil
				}
				m.refresh()
				m.list.Select(m.editing.index)
				m.editing = nil
			}
			m.state = stateList
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg, m.opts.Now())
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	t, err := m.form.task()
	if err != nil {
		m.showError(err)
		return m, nil
	}

	if m.editing != nil {
		t.ID = m.editing.task.ID
		if err := m.store.Restore(m.editing.index, t); err != nil {
			m.showError(err)
			return m, nil
		}
		m.refresh()
		m.list.Select(m.editing.index)
		m.editing = nil
	} else {
		if _, err := m.store.Add(t.Description, t.Date, t.Time, t.Color); err != nil {
			m.showError(err)
			return m, nil
		}
		m.refresh()
	}

	m.color = t.Color
	m.form.description.Reset()
	m.form.clock.SetClock(model.ClockOf(m.opts.Now()))
	m.state = stateList
	return m, nil
}

func (m Model) updateNotice(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		m.notices = m.notices[1:]
		if len(m.notices) == 0 {
			m.state = m.returnTo
		}
	}
	return m, nil
}

func (m Model) View() string {
	var statusView string
	if m.warning != "" {
		statusView += "\n" + errorStyle.Render("Warning: "+m.warning)
	}
	if m.status != "" {
		statusView += "\n" + statusStyle.Render(m.status)
	}

	switch m.state {
	case stateNotice:
		n := m.notices[0]
		return appStyle.Render(
			noticeStyle.Render(
				titleStyle.Render(n.title) + "\n\n" +
					n.body + "\n\n" +
					statusStyle.Render("press any key"),
			),
		)
	case stateForm:
		header := "New Task"
		if m.editing != nil {
			header = "Edit Task"
		}
		return appStyle.Render(
			titleStyle.Render(header) + "\n\n" +
				m.form.View(m.opts.Now()) + "\n\n" +
				statusStyle.Render("tab: next field • ←/→: date/time part • ↑/↓: day • ctrl+n: color • enter: save • esc: cancel"),
		)
	default:
		if m.store.Len() == 0 {
			statusView += "\n" + statusStyle.Render("No tasks yet. Press 'a' to add one.")
		}
		return appStyle.Render(m.list.View() + statusView)
	}
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, s *store.TaskStore, opts Options) error {
	p := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
