package branches

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/Johannes-Berggren/BranchGoblin/internal/log"
)

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user-facing message produced by an action.
type Notice struct {
	Level Level
	Text  string
}

// Report collects the notices of one action.
type Report []Notice

func (r *Report) info(format string, args ...any) {
	*r = append(*r, Notice{Level: LevelInfo, Text: fmt.Sprintf(format, args...)})
}

func (r *Report) warn(format string, args ...any) {
	*r = append(*r, Notice{Level: LevelWarn, Text: fmt.Sprintf(format, args...)})
}

func (r *Report) fail(err error) {
	*r = append(*r, Notice{Level: LevelError, Text: err.Error()})
}

// Failed reports whether any notice is an error.
func (r Report) Failed() bool {
	for _, n := range r {
		if n.Level == LevelError {
			return true
		}
	}
	return false
}

// Clipboard receives copied branch names.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Surface is the set of user-invokable branch actions. Every error is
// turned into an error notice here; callers only display reports.
type Surface struct {
	manager   *Manager
	clipboard Clipboard
}

// NewSurface wires the actions to a manager and a clipboard.
func NewSurface(m *Manager, c Clipboard) *Surface {
	if c == nil {
		c = SystemClipboard{}
	}
	return &Surface{manager: m, clipboard: c}
}

// Manager returns the manager behind the actions.
func (s *Surface) Manager() *Manager {
	return s.manager
}

// Refresh re-lists branches. A failure leaves an empty listing behind.
func (s *Surface) Refresh(ctx context.Context) Report {
	var r Report
	if _, err := s.manager.Refresh(ctx); err != nil {
		r.fail(err)
	}
	return r
}

// DeleteSelected deletes every checked branch.
func (s *Surface) DeleteSelected(ctx context.Context) Report {
	return s.Delete(ctx, s.manager.Checked())
}

// Delete deletes the named branches, warning about the ones it skips.
func (s *Surface) Delete(ctx context.Context, names []string) Report {
	var r Report
	if len(names) == 0 {
		r.info("select branches to delete first")
		return r
	}

	result, err := s.manager.Delete(ctx, names)
	if len(result.Skipped) > 0 {
		r.warn("skipped %s", DescribeSkipped(result.Skipped))
	}
	if err != nil {
		if len(result.Deleted) > 0 {
			r.info("deleted %s before stopping", plural(len(result.Deleted), "branch", "branches"))
		}
		r.fail(err)
		log.FromContext(ctx).Println(err)
		return r
	}
	if len(result.Deleted) > 0 {
		r.info("deleted %s", plural(len(result.Deleted), "branch", "branches"))
	}
	return r
}

// Rename renames a branch. An empty or unchanged name does nothing.
func (s *Surface) Rename(ctx context.Context, row Row, newName string) Report {
	var r Report
	err := s.manager.Rename(ctx, row.Name, newName, row.Kind == KindCurrent)
	switch {
	case errors.Is(err, ErrEmptyName), errors.Is(err, ErrSameName):
		return r
	case err != nil:
		r.fail(err)
		log.FromContext(ctx).Println(err)
	default:
		r.info("renamed %s to %s", row.Name, newName)
	}
	return r
}

// SelectAll toggles the selection of every selectable branch.
func (s *Surface) SelectAll(ctx context.Context) (Flags, Report) {
	var r Report
	flags, err := s.manager.SelectAll(ctx)
	if err != nil {
		r.fail(fmt.Errorf("select all failed: %w", err))
	}
	return flags, r
}

// SelectPattern toggles the selection of every selectable branch with the
// given prefix and returns whether the pattern is now fully selected.
func (s *Surface) SelectPattern(ctx context.Context, pattern string) (bool, Report) {
	var r Report
	selected, err := s.manager.SelectPattern(ctx, pattern)
	if err != nil {
		r.fail(fmt.Errorf("selecting %s branches failed: %w", pattern, err))
	}
	return selected, r
}

// CopyName puts a branch name on the clipboard.
func (s *Surface) CopyName(name string) Report {
	var r Report
	if err := s.clipboard.WriteAll(name); err != nil {
		r.fail(fmt.Errorf("failed to copy branch name: %w", err))
		return r
	}
	r.info("copied branch name: %s", name)
	return r
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
