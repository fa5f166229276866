package branches

import "github.com/Johannes-Berggren/BranchGoblin/internal/models"

// ViewID identifies the branch tree in the host UI.
const ViewID = "branchgoblin.branches"

// CheckState is the checkbox shown for a row.
type CheckState int

const (
	// CheckNone marks a row the user cannot check.
	CheckNone CheckState = iota
	CheckUnchecked
	CheckChecked
)

// RowKind distinguishes current, protected, other-worktree and ordinary
// branches.
type RowKind int

const (
	KindBranch RowKind = iota
	KindCurrent
	KindProtected
	KindWorktree
)

// Row is one display line of the branch tree.
type Row struct {
	Name        string
	Description string
	Tooltip     string
	Kind        RowKind
	Checkbox    CheckState
}

// Deletable reports whether the row can take part in a bulk delete.
func (r Row) Deletable() bool {
	return r.Checkbox != CheckNone
}

// Presenter is implemented by anything that displays the branch tree.
// Toggle events flow back through Manager.Toggle.
type Presenter interface {
	Render(rows []Row, flags Flags)
}

// RowFor maps a branch to its display row. Current wins over protected,
// which wins over other-worktree.
func RowFor(b models.Branch) Row {
	switch {
	case b.IsCurrent:
		return Row{
			Name:        b.Name,
			Description: "(current branch)",
			Tooltip:     "cannot delete the current branch",
			Kind:        KindCurrent,
			Checkbox:    CheckNone,
		}
	case b.IsProtected:
		return Row{
			Name:        b.Name,
			Description: "(protected branch)",
			Tooltip:     "cannot delete a protected branch",
			Kind:        KindProtected,
			Checkbox:    CheckNone,
		}
	case b.IsWorktree:
		return Row{
			Name:        b.Name,
			Description: "(checked out in another worktree)",
			Tooltip:     "cannot delete a branch checked out in another worktree",
			Kind:        KindWorktree,
			Checkbox:    CheckNone,
		}
	}

	state := CheckUnchecked
	if b.IsChecked {
		state = CheckChecked
	}
	return Row{Name: b.Name, Kind: KindBranch, Checkbox: state}
}

// Rows maps branches to rows, keeping their order.
func Rows(branches []models.Branch) []Row {
	rows := make([]Row, 0, len(branches))
	for _, b := range branches {
		rows = append(rows, RowFor(b))
	}
	return rows
}

// Present renders the manager's current state through p.
func Present(m *Manager, p Presenter) {
	p.Render(Rows(m.Branches()), m.Flags())
}
