package git

import (
	"context"
	"strings"
)

// ChangeCount returns how many paths `git status --porcelain` reports.
// A non-zero count means switching branches may carry or refuse changes.
func ChangeCount(ctx context.Context, r Runner) (int, error) {
	output, err := r.Run(ctx, "status", "--porcelain")
	if err != nil {
		return 0, err
	}

	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return 0, nil
	}
	return len(strings.Split(trimmed, "\n")), nil
}
