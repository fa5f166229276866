package branches

import (
	"slices"
	"strings"

	"github.com/Johannes-Berggren/BranchGoblin/internal/models"
)

// Policy holds the repository conventions the selection rules depend on.
type Policy struct {
	Protected []string // never deletable, preferred as rename stand-ins
	Patterns  []string // name prefixes offered as bulk selections
}

// DefaultPolicy matches the usual long-lived branch names and git-flow
// prefixes.
func DefaultPolicy() Policy {
	return Policy{
		Protected: []string{"master", "main"},
		Patterns:  []string{"develop", "feature", "hotfix", "release"},
	}
}

// IsProtected reports whether name is one of the protected branches.
func (p Policy) IsProtected(name string) bool {
	return slices.Contains(p.Protected, name)
}

// HasPattern reports whether pattern is configured.
func (p Policy) HasPattern(pattern string) bool {
	return slices.Contains(p.Patterns, pattern)
}

// locked reports whether name can never be checked in listing: protected,
// current, or checked out by another worktree.
func (p Policy) locked(listing models.Listing, name string) bool {
	return name == listing.Current || p.IsProtected(name) || listing.InOtherWorktree(name)
}

// selectable returns the branches a user may check, in listing order.
func (p Policy) selectable(listing models.Listing) []string {
	out := make([]string, 0, len(listing.All))
	for _, b := range listing.All {
		if p.locked(listing, b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matching(pattern string, names []string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, pattern) {
			out = append(out, n)
		}
	}
	return out
}
