package branches

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Johannes-Berggren/BranchGoblin/internal/models"
)

// ErrUnknownPattern is returned when a bulk selection names a prefix that is
// not configured.
var ErrUnknownPattern = errors.New("unknown branch pattern")

// Flags are the derived "fully selected" booleans a UI shows next to its
// select-all and per-pattern actions.
type Flags struct {
	All      bool
	Patterns map[string]bool
}

// Selection is the set of branches the user has checked.
//
// Protected branches, the current branch and branches checked out in
// another worktree are never members. The flags are derived data and are
// recomputed after every change to the set and after every fresh listing.
type Selection struct {
	policy  Policy
	listing models.Listing
	checked map[string]struct{}
	flags   Flags
}

// NewSelection returns an empty selection governed by policy.
func NewSelection(policy Policy) *Selection {
	s := &Selection{
		policy:  policy,
		checked: make(map[string]struct{}),
	}
	s.resetFlags()
	return s
}

// Toggle checks or unchecks a single branch. Protected branches, the
// current branch and branches of other worktrees are ignored.
func (s *Selection) Toggle(name string, checked bool) {
	if s.policy.locked(s.listing, name) {
		return
	}
	if checked {
		s.checked[name] = struct{}{}
	} else {
		delete(s.checked, name)
	}
	s.recompute()
}

// Recompute adopts a fresh listing and rederives the flags from it.
func (s *Selection) Recompute(listing models.Listing) {
	s.listing = listing
	s.recompute()
}

// SelectPattern flips the selection of every selectable branch starting
// with pattern: all of them are added unless they were already fully
// selected, in which case all of them are removed. It returns the new flag.
func (s *Selection) SelectPattern(listing models.Listing, pattern string) (bool, error) {
	if !s.policy.HasPattern(pattern) {
		return false, fmt.Errorf("%w: %q", ErrUnknownPattern, pattern)
	}
	s.Recompute(listing)

	wasSelected := s.flags.Patterns[pattern]
	for _, name := range matching(pattern, s.selectable()) {
		if wasSelected {
			delete(s.checked, name)
		} else {
			s.checked[name] = struct{}{}
		}
	}

	s.recompute()
	return s.flags.Patterns[pattern], nil
}

// SelectAll checks every selectable branch, or clears the whole set when
// everything was already selected. Selections outside the current listing
// are not preserved either way.
func (s *Selection) SelectAll(listing models.Listing) {
	s.Recompute(listing)

	wasAll := s.flags.All
	clear(s.checked)
	if !wasAll {
		for _, name := range s.selectable() {
			s.checked[name] = struct{}{}
		}
	}

	s.recompute()
}

// Reset replaces the set with names, skipping branches that cannot be checked.
func (s *Selection) Reset(names []string) {
	clear(s.checked)
	for _, name := range names {
		if s.policy.locked(s.listing, name) {
			continue
		}
		s.checked[name] = struct{}{}
	}
	s.recompute()
}

// Rename moves a checked entry to its new name.
func (s *Selection) Rename(oldName, newName string) {
	if _, ok := s.checked[oldName]; !ok {
		return
	}
	delete(s.checked, oldName)
	if !s.policy.IsProtected(newName) {
		s.checked[newName] = struct{}{}
	}
	s.recompute()
}

// Clear empties the set.
func (s *Selection) Clear() {
	clear(s.checked)
	s.recompute()
}

// Has reports whether name is checked.
func (s *Selection) Has(name string) bool {
	_, ok := s.checked[name]
	return ok
}

// Len returns the number of checked branches.
func (s *Selection) Len() int {
	return len(s.checked)
}

// Names returns the checked branches sorted by name.
func (s *Selection) Names() []string {
	return slices.Sorted(maps.Keys(s.checked))
}

// Flags returns a copy of the derived flags.
func (s *Selection) Flags() Flags {
	return Flags{
		All:      s.flags.All,
		Patterns: maps.Clone(s.flags.Patterns),
	}
}

func (s *Selection) selectable() []string {
	return s.policy.selectable(s.listing)
}

func (s *Selection) resetFlags() {
	s.flags.All = false
	s.flags.Patterns = make(map[string]bool, len(s.policy.Patterns))
	for _, p := range s.policy.Patterns {
		s.flags.Patterns[p] = false
	}
}

func (s *Selection) recompute() {
	for name := range s.checked {
		if s.policy.locked(s.listing, name) {
			delete(s.checked, name)
		}
	}

	s.resetFlags()
	selectable := s.selectable()
	s.flags.All = allChecked(selectable, s.checked)
	for _, p := range s.policy.Patterns {
		s.flags.Patterns[p] = allChecked(matching(p, selectable), s.checked)
	}
}

// allChecked is false for an empty group so that "nothing to select" never
// reads as "fully selected".
func allChecked(names []string, checked map[string]struct{}) bool {
	if len(names) == 0 {
		return false
	}
	for _, n := range names {
		if _, ok := checked[n]; !ok {
			return false
		}
	}
	return true
}
