package git

import (
	"bufio"
	"context"
	"strings"

	"github.com/Johannes-Berggren/BranchGoblin/internal/models"
)

const (
	// currentMarker prefixes the checked-out branch in `git branch` output.
	currentMarker = "* "
	// worktreeMarker prefixes branches checked out in a linked worktree.
	worktreeMarker = "+ "
)

// IsDetachedHead reports whether a listing entry is git's placeholder for
// a detached HEAD, such as "(HEAD detached at 1a2b3c4)" or
// "(no branch, rebasing main)", rather than a branch name.
func IsDetachedHead(name string) bool {
	return strings.HasPrefix(name, "(HEAD detached ") || strings.HasPrefix(name, "(no branch")
}

// ListBranches runs `git branch` and parses its output.
func ListBranches(ctx context.Context, r Runner) (models.Listing, error) {
	output, err := r.Run(ctx, "branch")
	if err != nil {
		return models.Listing{}, err
	}
	return ParseBranches(output), nil
}

// ParseBranches turns `git branch` output into a listing. Lines are trimmed
// and empty lines dropped; the marked line counts both as the current branch
// and as a normal entry. Branches marked as checked out in another worktree
// are entries too and are also recorded in Linked. Order is preserved and
// nothing is de-duplicated.
func ParseBranches(output string) models.Listing {
	listing := models.Listing{All: []string{}}
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, currentMarker) {
			line = strings.TrimPrefix(line, currentMarker)
			if listing.Current == "" {
				listing.Current = line
			}
		} else if strings.HasPrefix(line, worktreeMarker) {
			line = strings.TrimPrefix(line, worktreeMarker)
			listing.Linked = append(listing.Linked, line)
		}

		listing.All = append(listing.All, line)
	}

	return listing
}

// DeleteBranch force-deletes a local branch.
func DeleteBranch(ctx context.Context, r Runner, name string) error {
	_, err := r.Run(ctx, "branch", "-D", name)
	return err
}

// RenameBranch renames a local branch.
func RenameBranch(ctx context.Context, r Runner, oldName, newName string) error {
	_, err := r.Run(ctx, "branch", "-m", oldName, newName)
	return err
}

// Checkout switches the working tree to another branch.
func Checkout(ctx context.Context, r Runner, name string) error {
	_, err := r.Run(ctx, "checkout", name)
	return err
}
