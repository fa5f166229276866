package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
)

type branchInputDoneMsg struct {
	row  branches.Row
	name string
}

type branchInputCancelMsg struct{}

// BranchInputView asks for the new name of a branch.
type BranchInputView struct {
	row       branches.Row
	textInput textinput.Model
	width     int
}

// NewBranchInputView returns an input pre-filled with the row's name.
func NewBranchInputView(row branches.Row) *BranchInputView {
	ti := textinput.New()
	ti.Placeholder = "feature/my-branch"
	ti.CharLimit = 250
	ti.Width = 40
	ti.SetValue(row.Name)
	ti.CursorEnd()
	ti.Focus()

	return &BranchInputView{
		row:       row,
		textInput: ti,
	}
}

func (b *BranchInputView) Init() tea.Cmd {
	return textinput.Blink
}

func (b *BranchInputView) Update(msg tea.Msg) (*BranchInputView, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			row, name := b.row, b.textInput.Value()
			return b, func() tea.Msg { return branchInputDoneMsg{row: row, name: name} }
		case "esc":
			return b, func() tea.Msg { return branchInputCancelMsg{} }
		}

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.textInput.Width = max(20, min(60, msg.Width-30))
	}

	b.textInput, cmd = b.textInput.Update(msg)
	return b, cmd
}

func (b *BranchInputView) View() string {
	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	return promptStyle.Render("Rename "+b.row.Name+" to: ") + b.textInput.View() + "\n" +
		helpStyle.Render("enter to rename • esc to cancel")
}
