package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
)

var (
	branchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("white"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green")).
			Bold(true)

	protectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Faint(true)

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("yellow"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("238"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// rowSource implements fuzzy.Source over branch names.
type rowSource []branches.Row

func (s rowSource) String(i int) string { return s[i].Name }
func (s rowSource) Len() int            { return len(s) }

// BranchView is the checkbox list of local branches. It implements
// branches.Presenter; rows only change through Render.
type BranchView struct {
	rows    []branches.Row
	flags   branches.Flags
	loaded  bool
	filter  string
	visible []fuzzy.Match // filtered rows, Index points into rows
	cursor  int           // position in visible
	offset  int           // first visible line
	width   int
	height  int
}

func NewBranchView() *BranchView {
	return &BranchView{}
}

// Render replaces the displayed rows, keeping the cursor on the same
// branch when it still exists.
func (b *BranchView) Render(rows []branches.Row, flags branches.Flags) {
	var keep string
	if row, ok := b.Selected(); ok {
		keep = row.Name
	}

	b.rows = rows
	b.flags = flags
	b.loaded = true
	b.applyFilter()

	if keep == "" {
		return
	}
	for i, m := range b.visible {
		if b.rows[m.Index].Name == keep {
			b.cursor = i
			break
		}
	}
	b.scroll()
}

// Flags returns the flags of the last render.
func (b *BranchView) Flags() branches.Flags {
	return b.flags
}

// SetFilter narrows the list to names fuzzily matching filter.
func (b *BranchView) SetFilter(filter string) {
	b.filter = filter
	b.applyFilter()
}

func (b *BranchView) Filter() string {
	return b.filter
}

// Selected returns the row under the cursor.
func (b *BranchView) Selected() (branches.Row, bool) {
	if b.cursor < 0 || b.cursor >= len(b.visible) {
		return branches.Row{}, false
	}
	return b.rows[b.visible[b.cursor].Index], true
}

// VisibleNames returns the checkable rows that pass the filter.
func (b *BranchView) VisibleNames() []string {
	var names []string
	for _, m := range b.visible {
		if r := b.rows[m.Index]; r.Deletable() {
			names = append(names, r.Name)
		}
	}
	return names
}

// Len returns the number of visible rows.
func (b *BranchView) Len() int {
	return len(b.visible)
}

func (b *BranchView) applyFilter() {
	if b.filter == "" {
		b.visible = make([]fuzzy.Match, len(b.rows))
		for i, r := range b.rows {
			b.visible[i] = fuzzy.Match{Str: r.Name, Index: i}
		}
	} else {
		b.visible = fuzzy.FindFrom(b.filter, rowSource(b.rows))
	}

	if b.cursor >= len(b.visible) {
		b.cursor = max(0, len(b.visible)-1)
	}
	b.scroll()
}

func (b *BranchView) Update(msg tea.Msg) (*BranchView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if b.cursor < len(b.visible)-1 {
				b.cursor++
			}

		case "k", "up":
			if b.cursor > 0 {
				b.cursor--
			}

		case "g", "home":
			b.cursor = 0

		case "G", "end":
			b.cursor = max(0, len(b.visible)-1)
		}
		b.scroll()

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.scroll()
	}

	return b, nil
}

// SetHeight sets how many rows fit on screen; zero means unbounded.
func (b *BranchView) SetHeight(h int) {
	b.height = h
	b.scroll()
}

func (b *BranchView) scroll() {
	if b.height <= 0 {
		b.offset = 0
		return
	}
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+b.height {
		b.offset = b.cursor - b.height + 1
	}
	if b.offset > max(0, len(b.visible)-b.height) {
		b.offset = max(0, len(b.visible)-b.height)
	}
}

func (b *BranchView) View() string {
	if !b.loaded {
		return emptyStyle.Render("Loading branches...")
	}
	if len(b.visible) == 0 {
		if b.filter != "" {
			return emptyStyle.Render(fmt.Sprintf("No branches match %q", b.filter))
		}
		return emptyStyle.Render("No local branches")
	}

	end := len(b.visible)
	if b.height > 0 {
		end = min(end, b.offset+b.height)
	}

	var out strings.Builder
	for i := b.offset; i < end; i++ {
		line := renderRow(b.rows[b.visible[i].Index])
		if i == b.cursor {
			line = selectedStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		out.WriteString(line + "\n")
	}
	return strings.TrimRight(out.String(), "\n")
}

func renderRow(r branches.Row) string {
	var line string
	switch r.Kind {
	case branches.KindCurrent:
		line = checkbox(r.Checkbox) + " " + currentStyle.Render(r.Name)
	case branches.KindProtected, branches.KindWorktree:
		line = checkbox(r.Checkbox) + " " + protectedStyle.Render(r.Name)
	default:
		line = checkbox(r.Checkbox) + " " + branchStyle.Render(r.Name)
	}
	if r.Description != "" {
		line += " " + descStyle.Render(r.Description)
	}
	return line
}

func checkbox(state branches.CheckState) string {
	switch state {
	case branches.CheckChecked:
		return checkedStyle.Render("[x]")
	case branches.CheckUnchecked:
		return "[ ]"
	default:
		return protectedStyle.Render("[-]")
	}
}

// flagLabels renders the select-all and pattern toggles for the header.
func flagLabels(flags branches.Flags, patterns []string) string {
	labels := make([]string, 0, len(patterns)+1)
	labels = append(labels, flagLabel(flags.All, "all"))
	for i, p := range patterns {
		labels = append(labels, fmt.Sprintf("%d:%s", i+1, flagLabel(flags.Patterns[p], p)))
	}
	return strings.Join(labels, "  ")
}

func flagLabel(on bool, name string) string {
	if on {
		return checkedStyle.Render("[x]") + " " + name
	}
	return "[ ] " + name
}
