// Package tui is a terminal front end for the todo API built on the same
// list controller as the web page.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todo-api/ui"
)

type focus int

const (
	focusInput focus = iota
	focusList
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("167"))
	cursorStyle    = lipgloss.NewStyle().Bold(true)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	helpStyle      = lipgloss.NewStyle().Faint(true)
	statusStyles   = map[ui.Kind]lipgloss.Style{
		ui.Loading: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		ui.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		ui.Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
)

type notificationMsg ui.Notification

type doneMsg struct{ err error }

// Model is the bubbletea model for the list.
type Model struct {
	ctx           context.Context
	ctrl          *ui.Controller
	notifications chan ui.Notification

	focus  focus
	cursor int
	status *ui.Notification
}

// New creates a model over gateway. Calls run with ctx.
func New(ctx context.Context, gateway ui.Gateway) Model {
	notifications := make(chan ui.Notification, 16)
	notifier := ui.NotifierFunc(func(n ui.Notification) {
		select {
		case notifications <- n:
		default:
		}
	})
	return Model{
		ctx:           ctx,
		ctrl:          ui.NewController(gateway, notifier),
		notifications: notifications,
	}
}

// Controller exposes the underlying list state.
func (m Model) Controller() *ui.Controller {
	return m.ctrl
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.run(m.ctrl.Mount))
}

func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-m.notifications:
			return notificationMsg(n)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) run(action func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: action(m.ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationMsg:
		n := ui.Notification(msg)
		m.status = &n
		return m, m.listen()
	case doneMsg:
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if _, editing := m.ctrl.Editing(); editing {
			return m.updateEditing(msg)
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.run(m.ctrl.SubmitNew)
	case tea.KeyTab, tea.KeyEsc, tea.KeyDown:
		m.focus = focusList
	case tea.KeyBackspace:
		m.ctrl.SetNewTitle(dropLastRune(m.ctrl.NewTitle()))
	case tea.KeySpace:
		m.ctrl.SetNewTitle(m.ctrl.NewTitle() + " ")
	case tea.KeyRunes:
		m.ctrl.SetNewTitle(m.ctrl.NewTitle() + string(msg.Runes))
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	todos := m.ctrl.Todos()
	switch msg.String() {
	case "tab", "i":
		m.focus = focusInput
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.focus = focusInput
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(todos)-1 {
			m.cursor++
		}
		return m, nil
	case "q":
		return m, tea.Quit
	}
	if len(todos) == 0 {
		return m, nil
	}
	m.clampCursor()
	selected := todos[m.cursor]
	switch msg.String() {
	case " ", "x":
		return m, m.run(func(ctx context.Context) error { return m.ctrl.Toggle(ctx, selected.ID) })
	case "e", "enter":
		_ = m.ctrl.StartEdit(selected.ID)
	case "d":
		return m, m.run(func(ctx context.Context) error { return m.ctrl.Delete(ctx, selected.ID) })
	}
	return m, nil
}

// updateEditing handles keys while a title is being edited. Enter confirms;
// Esc leaves the field, which commits the same way.
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	edit, _ := m.ctrl.Editing()
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		return m, m.run(m.ctrl.CommitEdit)
	case tea.KeyBackspace:
		m.ctrl.SetEditTitle(dropLastRune(edit.Title))
	case tea.KeySpace:
		m.ctrl.SetEditTitle(edit.Title + " ")
	case tea.KeyRunes:
		m.ctrl.SetEditTitle(edit.Title + string(msg.Runes))
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Todos())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("todos"))
	b.WriteString("\n\n")

	prompt := "  "
	if m.focus == focusInput {
		prompt = cursorStyle.Render("> ")
	}
	input := m.ctrl.NewTitle()
	if input == "" {
		input = helpStyle.Render("What needs to be done?")
	}
	b.WriteString(prompt + input + "\n\n")

	edit, editing := m.ctrl.Editing()
	for i, todo := range m.ctrl.Todos() {
		pointer := "  "
		if m.focus == focusList && i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if todo.Completed {
			check = "[x]"
		}
		label := todo.Title
		switch {
		case editing && edit.ID == todo.ID:
			label = cursorStyle.Render(edit.Title + "_")
		case todo.Completed:
			label = completedStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s%s %s\n", pointer, check, label)
	}

	if m.status != nil {
		b.WriteString("\n" + statusStyles[m.status.Kind].Render(m.status.Message) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter add/save · tab switch · space toggle · e edit · d delete · ctrl+c quit") + "\n")
	return b.String()
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
