package branches

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTargetBranch is returned when the current branch cannot be
	// renamed because there is no other branch to stand on meanwhile.
	ErrNoTargetBranch = errors.New("no other branch to switch to")

	// ErrSameName is returned when a rename would not change anything.
	ErrSameName = errors.New("new name equals the old name")

	// ErrDetachedHead is returned for a rename of the detached HEAD entry,
	// which names no branch. Nothing is checked out in that case.
	ErrDetachedHead = errors.New("detached HEAD is not a branch; create a branch from it first")

	// ErrEmptyName is returned for a blank rename target.
	ErrEmptyName = errors.New("branch name cannot be empty")
)

// DeleteError reports the branch that stopped a bulk delete. Branches after
// it in the batch were not attempted and the selection was left intact.
type DeleteError struct {
	Branch  string
	Message string
	Err     error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("failed to delete branch %s: %s", e.Branch, e.Message)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// RenameStep identifies which git invocation of a rename failed.
type RenameStep int

const (
	StepCheckoutTemp RenameStep = iota
	StepRename
	StepCheckoutNew
)

func (s RenameStep) String() string {
	switch s {
	case StepCheckoutTemp:
		return "switching to the temporary branch"
	case StepRename:
		return "renaming"
	case StepCheckoutNew:
		return "switching back to the renamed branch"
	default:
		return "unknown step"
	}
}

// RenameError reports a failed rename. Nothing is rolled back: the
// repository stays in whatever state the failing step left it in, and the
// message says what that state is.
type RenameError struct {
	Step    RenameStep
	Old     string
	New     string
	Temp    string // empty when the branch was not current
	Message string
	Err     error
}

func (e *RenameError) Error() string {
	msg := fmt.Sprintf("failed to rename branch %s to %s while %s: %s", e.Old, e.New, e.Step, e.Message)
	if e.Temp == "" {
		return msg
	}
	return msg + "; no rollback was attempted, " + e.State()
}

// State describes where a current-branch rename left the repository.
func (e *RenameError) State() string {
	switch e.Step {
	case StepCheckoutTemp:
		return fmt.Sprintf("%s is still checked out", e.Old)
	case StepRename:
		return fmt.Sprintf("%s is checked out and %s was not renamed", e.Temp, e.Old)
	case StepCheckoutNew:
		return fmt.Sprintf("the branch is now %s but %s is checked out", e.New, e.Temp)
	default:
		return "repository state unknown"
	}
}

func (e *RenameError) Unwrap() error {
	return e.Err
}
