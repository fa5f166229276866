package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
)

func newRepo() *fakeGit {
	return newFakeGit("main", "main", "develop", "feature/a", "feature/b", "hotfix/x")
}

func lastNotice(t *testing.T, m Model) branches.Notice {
	t.Helper()
	require.NotEmpty(t, m.notices)
	return m.notices[len(m.notices)-1]
}

func TestModel_InitialRender(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, newRepo())
	assert.Equal(t, 5, m.branchView.Len())

	view := m.View()
	assert.Contains(t, view, branches.ViewID)
	assert.Contains(t, view, "(current branch)")
	assert.Contains(t, view, "feature/a")
	assert.Contains(t, view, "[ ] all")
	assert.Contains(t, view, "[ ] feature")
}

func TestModel_Toggle(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, newRepo())
	manager := m.surface.Manager()

	m = moveTo(t, m, "feature/a")
	m = press(t, m, " ")
	assert.Equal(t, []string{"feature/a"}, manager.Checked())
	assert.Contains(t, m.View(), "[x]")

	m = press(t, m, " ")
	assert.Empty(t, manager.Checked())

	m = moveTo(t, m, "main")
	press(t, m, " ")
	assert.Empty(t, manager.Checked(), "current branch cannot be checked")
}

func TestModel_DeleteConfirmed(t *testing.T) {
	t.Parallel()

	g := newRepo()
	m, _ := newTestModel(t, g)

	m = moveTo(t, m, "feature/a")
	m = press(t, m, " ", "d")
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), "Delete 1 branch? [y/N]")

	m = press(t, m, "y")
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, []string{"branch -D feature/a"}, g.mutations())
	assert.NotContains(t, m.View(), "feature/a")
	assert.Equal(t, "deleted 1 branch", lastNotice(t, m).Text)
	assert.Empty(t, m.surface.Manager().Checked())
}

func TestModel_DeleteDeclined(t *testing.T) {
	t.Parallel()

	g := newRepo()
	m, _ := newTestModel(t, g)

	m = moveTo(t, m, "feature/b")
	m = press(t, m, " ", "d", "n")
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, g.mutations())
	assert.Equal(t, []string{"feature/b"}, m.surface.Manager().Checked())
}

func TestModel_DeleteNothingChecked(t *testing.T) {
	t.Parallel()

	g := newRepo()
	m, _ := newTestModel(t, g)

	m = press(t, m, "d")
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "select branches to delete first", lastNotice(t, m).Text)
	assert.Empty(t, g.mutations())
}

func TestModel_DeleteFailureKeepsSelection(t *testing.T) {
	t.Parallel()

	g := newRepo()
	g.failOn["branch -D hotfix/x"] = "error: branch 'hotfix/x' is locked"
	m, _ := newTestModel(t, g)

	m.surface.Manager().ResetChecked([]string{"feature/a", "hotfix/x"})
	m = press(t, m, "d", "y")

	n := lastNotice(t, m)
	assert.Equal(t, branches.LevelError, n.Level)
	assert.Contains(t, n.Text, "failed to delete branch hotfix/x")
	assert.Contains(t, m.View(), "Error: ")
	assert.Equal(t, []string{"branch -D feature/a"}, g.mutations())
}

func TestModel_SelectPattern(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, newRepo())
	manager := m.surface.Manager()

	// patterns are develop, feature, hotfix, release
	m = press(t, m, "2")
	assert.Equal(t, []string{"feature/a", "feature/b"}, manager.Checked())
	assert.True(t, m.branchView.Flags().Patterns["feature"])
	assert.Contains(t, m.View(), "[x] feature")

	m = press(t, m, "2")
	assert.Empty(t, manager.Checked())
	assert.False(t, m.branchView.Flags().Patterns["feature"])

	press(t, m, "9")
	assert.Empty(t, manager.Checked())
}

func TestModel_SelectAll(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, newRepo())

	m = press(t, m, "a")
	assert.Equal(t, []string{"develop", "feature/a", "feature/b", "hotfix/x"}, m.surface.Manager().Checked())
	assert.True(t, m.branchView.Flags().All)
	assert.Contains(t, m.View(), "[x] all")
}

func TestModel_RenameBranch(t *testing.T) {
	t.Parallel()

	g := newRepo()
	m, _ := newTestModel(t, g)

	m = moveTo(t, m, "feature/b")
	m = press(t, m, "R")
	require.Equal(t, modeRename, m.mode)
	assert.Equal(t, "feature/b", m.input.textInput.Value())

	m = typeText(t, m, "-v2")
	m = press(t, m, "enter")

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, []string{"branch -m feature/b feature/b-v2"}, g.mutations())
	assert.Equal(t, "renamed feature/b to feature/b-v2", lastNotice(t, m).Text)
	row, ok := m.branchView.Selected()
	require.True(t, ok)
	assert.Equal(t, "feature/b-v2", row.Name)
}

func TestModel_RenameUnchangedOrCancelled(t *testing.T) {
	t.Parallel()

	g := newRepo()
	m, _ := newTestModel(t, g)

	m = moveTo(t, m, "develop")
	m = press(t, m, "m", "enter")
	assert.Equal(t, modeList, m.mode)

	m = press(t, m, "m")
	m = typeText(t, m, "x")
	m = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.input)

	assert.Empty(t, g.mutations())
}

func TestModel_RenameCurrentBranchConfirms(t *testing.T) {
	t.Parallel()

	g := newRepo()
	g.status = " M README.md\n?? notes.txt\n"
	m, _ := newTestModel(t, g)

	m = moveTo(t, m, "main")
	m = press(t, m, "R", "ctrl+u")
	m = typeText(t, m, "trunk")
	m = press(t, m, "enter")

	require.Equal(t, modeConfirm, m.mode)
	view := m.View()
	assert.Contains(t, view, "Rename current branch main to trunk?")
	assert.Contains(t, view, "develop is checked out while renaming")
	assert.Contains(t, view, "2 uncommitted changes")
	assert.Empty(t, g.mutations())

	m = press(t, m, "y")
	assert.Equal(t, []string{
		"checkout develop",
		"branch -m main trunk",
		"checkout trunk",
	}, g.mutations())
	assert.Equal(t, "renamed main to trunk", lastNotice(t, m).Text)

	row, ok := m.branchView.Selected()
	require.True(t, ok)
	assert.Equal(t, "trunk", row.Name)
	assert.Equal(t, branches.KindCurrent, row.Kind)
}

func TestModel_RenameCurrentBranchDeclined(t *testing.T) {
	t.Parallel()

	g := newRepo()
	m, _ := newTestModel(t, g)

	m = moveTo(t, m, "main")
	m = press(t, m, "R", "ctrl+u")
	m = typeText(t, m, "trunk")
	m = press(t, m, "enter", "n")

	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, g.mutations())
}

func TestModel_RenameCurrentWithoutOtherBranch(t *testing.T) {
	t.Parallel()

	g := newFakeGit("main", "main")
	m, _ := newTestModel(t, g)

	m = press(t, m, "R", "ctrl+u")
	m = typeText(t, m, "trunk")
	m = press(t, m, "enter")

	assert.Equal(t, modeList, m.mode)
	n := lastNotice(t, m)
	assert.Equal(t, branches.LevelError, n.Level)
	assert.Contains(t, n.Text, "cannot rename main")
	assert.Empty(t, g.mutations())
}

func TestModel_RenameDetachedHeadRejected(t *testing.T) {
	t.Parallel()

	g := newFakeGit("(HEAD detached at 1a2b3c4)", "(HEAD detached at 1a2b3c4)", "main", "develop")
	m, _ := newTestModel(t, g)

	m = moveTo(t, m, "(HEAD detached at 1a2b3c4)")
	m = press(t, m, "R", "ctrl+u")
	m = typeText(t, m, "rescued")
	m = press(t, m, "enter")

	assert.Equal(t, modeList, m.mode)
	n := lastNotice(t, m)
	assert.Equal(t, branches.LevelError, n.Level)
	assert.Contains(t, n.Text, "detached HEAD is not a branch")
	assert.Empty(t, g.mutations())
}

func TestModel_Filter(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, newRepo())

	m = press(t, m, "/")
	require.Equal(t, modeFilter, m.mode)
	m = typeText(t, m, "fb")
	assert.Equal(t, 1, m.branchView.Len())
	row, _ := m.branchView.Selected()
	assert.Equal(t, "feature/b", row.Name)

	m = press(t, m, "enter")
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "fb", m.branchView.Filter())

	m = press(t, m, "esc")
	assert.Empty(t, m.branchView.Filter())
	assert.Equal(t, 5, m.branchView.Len())
}

func TestModel_RefreshFailureEmptiesList(t *testing.T) {
	t.Parallel()

	g := newRepo()
	m, _ := newTestModel(t, g)

	g.mu.Lock()
	g.failOn["branch"] = "fatal: not a git repository"
	g.mu.Unlock()

	m = press(t, m, "r")
	require.Len(t, m.listNotices, 1)
	n := m.listNotices[0]
	assert.Equal(t, branches.LevelError, n.Level)
	assert.Contains(t, n.Text, "failed to list branches")
	assert.Equal(t, 0, m.branchView.Len())
	assert.Contains(t, m.View(), "No local branches")

	g.mu.Lock()
	delete(g.failOn, "branch")
	g.mu.Unlock()

	m = press(t, m, "r")
	assert.Empty(t, m.listNotices)
	assert.Equal(t, 5, m.branchView.Len())
	assert.NotContains(t, m.View(), "failed to list branches")
}

func TestModel_RefreshKeepsActionNotice(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, newRepo())

	m = moveTo(t, m, "hotfix/x")
	m = press(t, m, "y")
	m = drain(t, m, func() tea.Msg { return refreshMsg{} })
	assert.Equal(t, "copied branch name: hotfix/x", lastNotice(t, m).Text)
	assert.Empty(t, m.listNotices)
}

func TestModel_CopyName(t *testing.T) {
	t.Parallel()

	m, clip := newTestModel(t, newRepo())

	m = moveTo(t, m, "hotfix/x")
	m = press(t, m, "y")
	assert.Equal(t, "hotfix/x", clip.text)
	assert.Equal(t, "copied branch name: hotfix/x", lastNotice(t, m).Text)
}

func TestModel_RefreshMsgPicksUpChanges(t *testing.T) {
	t.Parallel()

	g := newRepo()
	m, _ := newTestModel(t, g)

	g.mu.Lock()
	g.names = append(g.names, "feature/c")
	g.mu.Unlock()

	next, cmd := m.Update(refreshMsg{})
	m = drain(t, next.(Model), cmd)
	assert.Equal(t, 6, m.branchView.Len())
	assert.Contains(t, m.View(), "feature/c")
}

func TestWaitForChange(t *testing.T) {
	t.Parallel()

	changes := make(chan struct{}, 1)
	changes <- struct{}{}
	assert.Equal(t, refreshMsg{}, waitForChange(changes)())

	close(changes)
	assert.Nil(t, waitForChange(changes)())
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, newRepo())
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_CheckVisibleRows(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, newRepo())
	manager := m.surface.Manager()
	manager.Toggle("develop", true)

	m = press(t, m, "/")
	m = typeText(t, m, "feat")
	m = press(t, m, "enter", "V")
	assert.Equal(t, []string{"feature/a", "feature/b"}, manager.Checked())

	// protected and current rows are never checked
	m = press(t, m, "esc", "V")
	assert.Equal(t, []string{"develop", "feature/a", "feature/b", "hotfix/x"}, manager.Checked())
	assert.True(t, m.branchView.Flags().All)
}
