// Package branches holds the selection rules and branch mutations behind
// the branch tree.
//
// A [Manager] owns the cached listing and the [Selection]. It enforces the
// protection rules: protected branches, the current branch and branches
// checked out in another worktree are never selectable and never deleted.
// Bulk deletes run one branch at a time and
// stop at the first failure; renaming the current branch steps through a
// temporary branch. [Rows] turns branches into display rows for any
// [Presenter], and [Surface] wraps the user-facing actions so that every
// outcome becomes a [Notice].
package branches
