package branches

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Johannes-Berggren/BranchGoblin/internal/git"
	"github.com/Johannes-Berggren/BranchGoblin/internal/log"
	"github.com/Johannes-Berggren/BranchGoblin/internal/models"
)

// SkipReason says why a requested branch was left out of a bulk delete.
type SkipReason int

const (
	SkipProtected SkipReason = iota
	SkipCurrent
	SkipWorktree
)

func (r SkipReason) String() string {
	switch r {
	case SkipCurrent:
		return "current branch"
	case SkipWorktree:
		return "checked out in another worktree"
	default:
		return "protected branch"
	}
}

// Skipped is a branch a bulk delete refused to touch.
type Skipped struct {
	Name   string
	Reason SkipReason
}

// DeleteResult lists what a bulk delete did. Deleted is filled even when
// the delete stops early.
type DeleteResult struct {
	Deleted []string
	Skipped []Skipped
}

// RenamePlan describes what renaming a branch will do before it happens.
type RenamePlan struct {
	Temp    string // branch checked out meanwhile; empty for non-current renames
	Changes int    // uncommitted paths that ride along with the checkout
}

// Manager lists branches, tracks the selection and performs deletes and
// renames. Git is always invoked one step at a time.
type Manager struct {
	runner git.Runner
	policy Policy

	mu        sync.Mutex
	listing   models.Listing
	listed    bool
	selection *Selection
}

// NewManager creates a manager that runs git through r.
func NewManager(r git.Runner, policy Policy) *Manager {
	return &Manager{
		runner:    r,
		policy:    policy,
		selection: NewSelection(policy),
	}
}

// Policy returns the protected names and patterns in effect.
func (m *Manager) Policy() Policy {
	return m.policy
}

// IsProtected reports whether name may never be deleted.
func (m *Manager) IsProtected(name string) bool {
	return m.policy.IsProtected(name)
}

// Refresh re-lists branches and recomputes the selection flags. A failed
// listing replaces the cached one with an empty listing so that stale rows
// are never shown.
func (m *Manager) Refresh(ctx context.Context) (models.Listing, error) {
	listing, err := git.ListBranches(ctx, m.runner)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.listing = models.Listing{All: []string{}}
		m.listed = false
		m.selection.Recompute(m.listing)
		return m.listing, fmt.Errorf("failed to list branches: %w", err)
	}

	m.listing = listing
	m.listed = true
	m.selection.Recompute(listing)
	return listing, nil
}

// Listing returns the most recent listing.
func (m *Manager) Listing() models.Listing {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listing
}

// Branches returns the most recent listing with the derived attributes
// filled in.
func (m *Manager) Branches() []models.Branch {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Branch, 0, len(m.listing.All))
	for _, name := range m.listing.All {
		out = append(out, models.Branch{
			Name:        name,
			IsCurrent:   name == m.listing.Current,
			IsProtected: m.policy.IsProtected(name),
			IsWorktree:  m.listing.InOtherWorktree(name),
			IsChecked:   m.selection.Has(name),
		})
	}
	return out
}

// Toggle checks or unchecks one branch against the cached listing.
func (m *Manager) Toggle(name string, checked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection.Toggle(name, checked)
}

// ResetChecked replaces the selection, e.g. after a multi-row pick.
func (m *Manager) ResetChecked(names []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection.Reset(names)
}

// IsChecked reports whether name is selected.
func (m *Manager) IsChecked(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selection.Has(name)
}

// Checked returns the selected branch names, sorted.
func (m *Manager) Checked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selection.Names()
}

// Flags returns the current select-all and per-pattern flags.
func (m *Manager) Flags() Flags {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selection.Flags()
}

// SelectAll re-lists and then toggles the whole selectable set.
func (m *Manager) SelectAll(ctx context.Context) (Flags, error) {
	listing, err := m.Refresh(ctx)
	if err != nil {
		return Flags{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection.SelectAll(listing)
	return m.selection.Flags(), nil
}

// SelectPattern re-lists and then toggles every selectable branch with the
// given prefix. It returns whether the pattern is now fully selected.
func (m *Manager) SelectPattern(ctx context.Context, pattern string) (bool, error) {
	if !m.policy.HasPattern(pattern) {
		return false, fmt.Errorf("%w: %q", ErrUnknownPattern, pattern)
	}
	listing, err := m.Refresh(ctx)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selection.SelectPattern(listing, pattern)
}

// Delete force-deletes names one after another. Protected names, the
// current branch and branches of other worktrees are skipped and reported
// in the result. The first git failure stops the batch with a *DeleteError
// and leaves the selection untouched; only a fully successful batch clears
// it.
func (m *Manager) Delete(ctx context.Context, names []string) (DeleteResult, error) {
	listing, err := m.cachedListing(ctx)
	if err != nil {
		return DeleteResult{}, err
	}

	var result DeleteResult
	var todo []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		switch {
		case m.policy.IsProtected(name):
			result.Skipped = append(result.Skipped, Skipped{Name: name, Reason: SkipProtected})
		case name == listing.Current:
			result.Skipped = append(result.Skipped, Skipped{Name: name, Reason: SkipCurrent})
		case listing.InOtherWorktree(name):
			result.Skipped = append(result.Skipped, Skipped{Name: name, Reason: SkipWorktree})
		default:
			todo = append(todo, name)
		}
	}

	logger := log.FromContext(ctx)
	if len(result.Skipped) > 0 {
		logger.Warnf("skipping %s", DescribeSkipped(result.Skipped))
	}
	if len(todo) == 0 {
		return result, nil
	}

	for _, name := range todo {
		if err := git.DeleteBranch(ctx, m.runner, name); err != nil {
			m.refreshQuietly(ctx)
			return result, &DeleteError{Branch: name, Message: git.ErrorDetail(err), Err: err}
		}
		result.Deleted = append(result.Deleted, name)
	}

	m.mu.Lock()
	m.selection.Clear()
	m.mu.Unlock()

	m.refreshQuietly(ctx)
	return result, nil
}

// PlanRename reports which temporary branch a rename of oldName would use
// and how many uncommitted changes would travel with the checkout.
func (m *Manager) PlanRename(ctx context.Context, oldName string, isCurrent bool) (RenamePlan, error) {
	if git.IsDetachedHead(oldName) {
		return RenamePlan{}, ErrDetachedHead
	}
	if !isCurrent {
		return RenamePlan{}, nil
	}

	listing, err := m.Refresh(ctx)
	if err != nil {
		return RenamePlan{}, err
	}
	temp, err := m.tempBranch(oldName, listing.All)
	if err != nil {
		return RenamePlan{}, err
	}
	changes, err := git.ChangeCount(ctx, m.runner)
	if err != nil {
		return RenamePlan{}, fmt.Errorf("failed to read working tree status: %w", err)
	}
	return RenamePlan{Temp: temp, Changes: changes}, nil
}

// Rename renames oldName to newName. The current branch cannot be renamed
// in place, so it is renamed from a temporary branch and checked out again
// afterwards. A failure at any step is returned as a *RenameError and is not
// rolled back.
func (m *Manager) Rename(ctx context.Context, oldName, newName string, isCurrent bool) error {
	newName = strings.TrimSpace(newName)
	switch {
	case git.IsDetachedHead(oldName):
		return ErrDetachedHead
	case newName == "":
		return ErrEmptyName
	case newName == oldName:
		return ErrSameName
	}

	if !isCurrent {
		if err := git.RenameBranch(ctx, m.runner, oldName, newName); err != nil {
			return renameError(StepRename, oldName, newName, "", err)
		}
		m.renamed(ctx, oldName, newName)
		return nil
	}

	listing, err := m.Refresh(ctx)
	if err != nil {
		return err
	}
	temp, err := m.tempBranch(oldName, listing.All)
	if err != nil {
		return err
	}

	if err := git.Checkout(ctx, m.runner, temp); err != nil {
		return renameError(StepCheckoutTemp, oldName, newName, temp, err)
	}
	if err := git.RenameBranch(ctx, m.runner, oldName, newName); err != nil {
		m.refreshQuietly(ctx)
		return renameError(StepRename, oldName, newName, temp, err)
	}
	if err := git.Checkout(ctx, m.runner, newName); err != nil {
		m.renamed(ctx, oldName, newName)
		return renameError(StepCheckoutNew, oldName, newName, temp, err)
	}

	m.renamed(ctx, oldName, newName)
	return nil
}

// tempBranch prefers a protected branch, in configured order, and falls
// back to the first other branch in the listing.
func (m *Manager) tempBranch(oldName string, all []string) (string, error) {
	for _, p := range m.policy.Protected {
		if p != oldName && slices.Contains(all, p) {
			return p, nil
		}
	}
	for _, b := range all {
		if b != oldName {
			return b, nil
		}
	}
	return "", ErrNoTargetBranch
}

// cachedListing returns the last listing, listing only if there is none.
func (m *Manager) cachedListing(ctx context.Context) (models.Listing, error) {
	m.mu.Lock()
	listed, listing := m.listed, m.listing
	m.mu.Unlock()
	if listed {
		return listing, nil
	}
	return m.Refresh(ctx)
}

func (m *Manager) renamed(ctx context.Context, oldName, newName string) {
	m.mu.Lock()
	m.selection.Rename(oldName, newName)
	m.mu.Unlock()
	m.refreshQuietly(ctx)
}

// refreshQuietly re-lists after a mutation. A failure here only means the
// next refresh trigger has to catch up, so it is logged rather than
// returned.
func (m *Manager) refreshQuietly(ctx context.Context) {
	if _, err := m.Refresh(ctx); err != nil {
		log.FromContext(ctx).Warnf("%v", err)
	}
}

func renameError(step RenameStep, oldName, newName, temp string, err error) error {
	return &RenameError{
		Step:    step,
		Old:     oldName,
		New:     newName,
		Temp:    temp,
		Message: git.ErrorDetail(err),
		Err:     err,
	}
}

// DescribeSkipped lists skipped branches grouped by reason, for example
// "main, master (protected branch); feature/x (current branch)".
func DescribeSkipped(skipped []Skipped) string {
	var groups []string
	for _, reason := range []SkipReason{SkipProtected, SkipCurrent, SkipWorktree} {
		var names []string
		for _, s := range skipped {
			if s.Reason == reason {
				names = append(names, s.Name)
			}
		}
		if len(names) > 0 {
			groups = append(groups, fmt.Sprintf("%s (%s)", strings.Join(names, ", "), reason))
		}
	}
	return strings.Join(groups, "; ")
}
