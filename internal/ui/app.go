package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
	"github.com/Johannes-Berggren/BranchGoblin/internal/log"
)

type mode int

const (
	modeList mode = iota
	modeFilter
	modeRename
	modeConfirm
)

// refreshMsg asks for the branch list to be re-read.
type refreshMsg struct{}

// reportMsg carries the notices of a finished action. Refresh reports
// replace the listing notices, so a recovered listing clears them.
type reportMsg struct {
	report  branches.Report
	refresh bool
}

type renamePlanMsg struct {
	row     branches.Row
	newName string
	plan    branches.RenamePlan
	err     error
}

// Model is the root bubbletea model of the branch tree.
type Model struct {
	ctx      context.Context
	surface  *branches.Surface
	patterns []string
	changes  <-chan struct{}

	branchView *BranchView
	input      *BranchInputView
	confirm    *ConfirmView
	onConfirm  tea.Cmd
	filter     textinput.Model
	keys       keyMap
	help       help.Model

	mode        mode
	notices     branches.Report
	listNotices branches.Report
	width       int
	height      int
}

// NewModel builds the UI around s. changes delivers repository change
// events and may be nil.
func NewModel(ctx context.Context, s *branches.Surface, changes <-chan struct{}) Model {
	fi := textinput.New()
	fi.Prompt = "/"
	fi.Placeholder = "filter branches"
	fi.CharLimit = 100

	return Model{
		ctx:        ctx,
		surface:    s,
		patterns:   s.Manager().Policy().Patterns,
		changes:    changes,
		branchView: NewBranchView(),
		filter:     fi,
		keys:       newKeyMap(),
		help:       help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refresh()}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

// waitForChange turns the next watcher event into a refreshMsg.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

func (m Model) refresh() tea.Cmd {
	ctx, s := m.ctx, m.surface
	return func() tea.Msg {
		return reportMsg{report: s.Refresh(ctx), refresh: true}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.branchView.SetHeight(m.listHeight())
		if m.input != nil {
			m.input, _ = m.input.Update(msg)
		}
		return m, nil

	case refreshMsg:
		var cmds []tea.Cmd
		cmds = append(cmds, m.refresh())
		if m.changes != nil {
			cmds = append(cmds, waitForChange(m.changes))
		}
		return m, tea.Batch(cmds...)

	case reportMsg:
		switch {
		case msg.refresh:
			m.listNotices = msg.report
			m.logReport(msg.report)
		case len(msg.report) > 0:
			m.notices = msg.report
			m.logReport(msg.report)
		}
		m.present()
		return m, nil

	case renamePlanMsg:
		return m.confirmRename(msg)

	case branchInputDoneMsg:
		m.input = nil
		m.mode = modeList
		return m, m.rename(msg.row, msg.name)

	case branchInputCancelMsg:
		m.input = nil
		m.mode = modeList
		return m, nil

	case confirmDoneMsg:
		cmd = m.onConfirm
		m.confirm = nil
		m.onConfirm = nil
		m.mode = modeList
		if !msg.confirmed {
			return m, nil
		}
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case modeConfirm:
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		case modeRename:
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		case modeFilter:
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}

	switch m.mode {
	case modeRename:
		m.input, cmd = m.input.Update(msg)
	case modeFilter:
		m.filter, cmd = m.filter.Update(msg)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	manager := m.surface.Manager()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.branchView.Filter() != "" {
			m.filter.SetValue("")
			m.branchView.SetFilter("")
		}
		return m, nil

	case "?":
		m.help.ShowAll = !m.help.ShowAll
		m.branchView.SetHeight(m.listHeight())
		return m, nil

	case "r":
		return m, m.refresh()

	case " ", "space":
		if row, ok := m.branchView.Selected(); ok && row.Deletable() {
			manager.Toggle(row.Name, row.Checkbox != branches.CheckChecked)
			m.present()
		}
		return m, nil

	case "V":
		manager.ResetChecked(m.branchView.VisibleNames())
		m.present()
		return m, nil

	case "a":
		ctx, s := m.ctx, m.surface
		return m, func() tea.Msg {
			_, report := s.SelectAll(ctx)
			return reportMsg{report}
		}

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(msg.String()[0] - '1')
		if i >= len(m.patterns) {
			return m, nil
		}
		ctx, s, pattern := m.ctx, m.surface, m.patterns[i]
		return m, func() tea.Msg {
			_, report := s.SelectPattern(ctx, pattern)
			return reportMsg{report}
		}

	case "d":
		checked := manager.Checked()
		if len(checked) == 0 {
			m.notices = branches.Report{{Level: branches.LevelInfo, Text: "select branches to delete first"}}
			return m, nil
		}
		ctx, s := m.ctx, m.surface
		m.ask(
			fmt.Sprintf("Delete %s?", countBranches(len(checked))),
			strings.Join(checked, ", "),
			func() tea.Msg { return reportMsg{s.Delete(ctx, checked)} },
		)
		return m, nil

	case "R", "m":
		row, ok := m.branchView.Selected()
		if !ok {
			return m, nil
		}
		m.input = NewBranchInputView(row)
		m.mode = modeRename
		return m, m.input.Init()

	case "y":
		row, ok := m.branchView.Selected()
		if !ok {
			return m, nil
		}
		s := m.surface
		return m, func() tea.Msg { return reportMsg{s.CopyName(row.Name)} }

	case "/":
		m.mode = modeFilter
		m.filter.SetValue(m.branchView.Filter())
		m.filter.CursorEnd()
		return m, m.filter.Focus()
	}

	var cmd tea.Cmd
	m.branchView, cmd = m.branchView.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.filter.Blur()
		return m, nil
	case "esc":
		m.mode = modeList
		m.filter.Blur()
		m.filter.SetValue("")
		m.branchView.SetFilter("")
		return m, nil
	case "up", "down":
		var cmd tea.Cmd
		m.branchView, cmd = m.branchView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.branchView.SetFilter(m.filter.Value())
	return m, cmd
}

// rename starts renaming row to name. Renaming the current branch checks
// out another branch first, so it is confirmed with a plan.
func (m Model) rename(row branches.Row, name string) tea.Cmd {
	name = strings.TrimSpace(name)
	if name == "" || name == row.Name {
		return nil
	}

	ctx, s := m.ctx, m.surface
	if row.Kind != branches.KindCurrent {
		return func() tea.Msg { return reportMsg{s.Rename(ctx, row, name)} }
	}
	return func() tea.Msg {
		plan, err := s.Manager().PlanRename(ctx, row.Name, true)
		return renamePlanMsg{row: row, newName: name, plan: plan, err: err}
	}
}

func (m Model) confirmRename(msg renamePlanMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.notices = branches.Report{{
			Level: branches.LevelError,
			Text:  fmt.Sprintf("cannot rename %s: %v", msg.row.Name, msg.err),
		}}
		m.logReport(m.notices)
		return m, nil
	}

	detail := fmt.Sprintf("%s is checked out, so %s is checked out while renaming", msg.row.Name, msg.plan.Temp)
	if msg.plan.Changes > 0 {
		detail += fmt.Sprintf("; %s will be carried along", countChanges(msg.plan.Changes))
	}

	ctx, s, row, name := m.ctx, m.surface, msg.row, msg.newName
	m.ask(
		fmt.Sprintf("Rename current branch %s to %s?", row.Name, name),
		detail,
		func() tea.Msg { return reportMsg{s.Rename(ctx, row, name)} },
	)
	return m, nil
}

func (m *Model) ask(prompt, detail string, onYes tea.Cmd) {
	m.confirm = NewConfirmView(prompt, detail)
	m.onConfirm = onYes
	m.mode = modeConfirm
}

// present pulls the manager state into the branch view.
func (m Model) present() {
	branches.Present(m.surface.Manager(), m.branchView)
}

func (m Model) logReport(r branches.Report) {
	logger := log.FromContext(m.ctx)
	for _, n := range r {
		logger.Printf("%s: %s: %s\n", branches.ViewID, n.Level, n.Text)
	}
}

// listHeight is the number of branch rows that fit between header and footer.
func (m Model) listHeight() int {
	if m.height == 0 {
		return 0
	}
	footer := 4
	if m.help.ShowAll {
		footer += 4
	}
	return max(1, m.height-3-footer)
}

func (m Model) View() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.branchView.View(),
		m.renderFooter(),
	)
	return content
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("170")).
		MarginRight(2)

	idStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	dividerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238"))

	title := titleStyle.Render("🧙 BranchGoblin")
	headerLine := lipgloss.JoinHorizontal(lipgloss.Top, title, idStyle.Render(branches.ViewID))
	flags := flagLabels(m.branchView.Flags(), m.patterns)
	divider := dividerStyle.Render(strings.Repeat("─", max(m.width, 1)))

	return lipgloss.JoinVertical(lipgloss.Left, headerLine, flags, divider)
}

func (m Model) renderFooter() string {
	dividerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238"))

	lines := []string{dividerStyle.Render(strings.Repeat("─", max(m.width, 1)))}

	switch m.mode {
	case modeConfirm:
		lines = append(lines, m.confirm.View())
	case modeRename:
		lines = append(lines, m.input.View())
	case modeFilter:
		lines = append(lines, m.filter.View())
	default:
		if f := m.branchView.Filter(); f != "" {
			lines = append(lines, m.filter.View())
		}
		for _, n := range m.listNotices {
			lines = append(lines, renderNotice(n))
		}
		for _, n := range m.notices {
			lines = append(lines, renderNotice(n))
		}
		lines = append(lines, m.help.View(m.keys))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderNotice(n branches.Notice) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	switch n.Level {
	case branches.LevelWarn:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	case branches.LevelError:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		return style.Render("Error: " + n.Text)
	}
	return style.Render(n.Text)
}

func countBranches(n int) string {
	if n == 1 {
		return "1 branch"
	}
	return fmt.Sprintf("%d branches", n)
}

func countChanges(n int) string {
	if n == 1 {
		return "1 uncommitted change"
	}
	return fmt.Sprintf("%d uncommitted changes", n)
}
