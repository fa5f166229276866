package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmDoneMsg struct {
	confirmed bool
}

// ConfirmView is a yes/no question that defaults to no.
type ConfirmView struct {
	prompt string
	detail string
}

func NewConfirmView(prompt, detail string) *ConfirmView {
	return &ConfirmView{prompt: prompt, detail: detail}
}

func (c *ConfirmView) Update(msg tea.Msg) (*ConfirmView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch key.String() {
	case "y", "Y":
		return c, answer(true)
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		return c, answer(false)
	}
	return c, nil
}

func answer(yes bool) tea.Cmd {
	return func() tea.Msg { return confirmDoneMsg{confirmed: yes} }
}

func (c *ConfirmView) View() string {
	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	detailStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	out := promptStyle.Render(fmt.Sprintf("%s [y/N] ", c.prompt))
	if c.detail != "" {
		out += "\n" + detailStyle.Render(c.detail)
	}
	return out
}

// confirmModel runs a ConfirmView as a program of its own.
type confirmModel struct {
	view      *ConfirmView
	confirmed bool
	done      bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(confirmDoneMsg); ok {
		m.confirmed = msg.confirmed
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	return m.view.View()
}

// Confirm asks a yes/no question outside the branch tree and returns the
// answer. Anything but y counts as no.
func Confirm(prompt, detail string, opts ...tea.ProgramOption) (bool, error) {
	p := tea.NewProgram(confirmModel{view: NewConfirmView(prompt, detail)}, opts...)
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	return final.(confirmModel).confirmed, nil
}
