package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
)

var (
	currentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	protectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// rowJSON is the --json shape of a row.
type rowJSON struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Deletable bool   `json:"deletable"`
	Note      string `json:"note,omitempty"`
}

// listPresenter prints the branch tree as plain lines or JSON.
type listPresenter struct {
	out    io.Writer
	asJSON bool
	err    error
}

func (p *listPresenter) Render(rows []branches.Row, _ branches.Flags) {
	if p.asJSON {
		out := make([]rowJSON, 0, len(rows))
		for _, r := range rows {
			out = append(out, rowJSON{
				Name:      r.Name,
				Kind:      kindName(r.Kind),
				Deletable: r.Deletable(),
				Note:      r.Tooltip,
			})
		}
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		p.err = enc.Encode(out)
		return
	}

	for _, r := range rows {
		var line string
		switch r.Kind {
		case branches.KindCurrent:
			line = "* " + currentStyle.Render(r.Name) + " " + protectedStyle.Render(r.Description)
		case branches.KindProtected:
			line = "! " + protectedStyle.Render(r.Name+" "+r.Description)
		case branches.KindWorktree:
			line = "+ " + protectedStyle.Render(r.Name+" "+r.Description)
		default:
			line = "  " + r.Name
		}
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			p.err = err
			return
		}
	}
}

func kindName(k branches.RowKind) string {
	switch k {
	case branches.KindCurrent:
		return "current"
	case branches.KindProtected:
		return "protected"
	case branches.KindWorktree:
		return "worktree"
	default:
		return "branch"
	}
}

// printReport writes info notices to out and warnings to errOut. Errors are
// left to reportError.
func printReport(out, errOut io.Writer, r branches.Report) {
	for _, n := range r {
		switch n.Level {
		case branches.LevelInfo:
			fmt.Fprintln(out, n.Text)
		case branches.LevelWarn:
			fmt.Fprintln(errOut, warnStyle.Render("warning: "+n.Text))
		}
	}
}

// reportError returns the report's error notices as one error.
func reportError(r branches.Report) error {
	var errs []error
	for _, n := range r {
		if n.Level == branches.LevelError {
			errs = append(errs, errors.New(n.Text))
		}
	}
	return errors.Join(errs...)
}
