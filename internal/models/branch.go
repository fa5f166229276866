package models

import "slices"

// Branch is a local branch as seen in one listing. It has no identity
// beyond its name and is rebuilt on every refresh.
type Branch struct {
	Name        string
	IsCurrent   bool
	IsProtected bool
	IsWorktree  bool // checked out in another linked worktree
	IsChecked   bool
}

// Listing is the parsed output of `git branch`.
type Listing struct {
	Current string   // empty when no line carried the current marker
	All     []string // in the order git printed them, current included
	Linked  []string // checked out in other worktrees ("+ " marker)
}

// Contains reports whether name appears in the listing.
func (l Listing) Contains(name string) bool {
	return slices.Contains(l.All, name)
}

// InOtherWorktree reports whether name is checked out by a linked worktree.
func (l Listing) InOtherWorktree(name string) bool {
	return slices.Contains(l.Linked, name)
}
