package ui

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Johannes-Berggren/BranchGoblin/internal/branches"
	"github.com/Johannes-Berggren/BranchGoblin/internal/git"
)

// fakeGit keeps a branch list in memory and applies delete, rename and
// checkout invocations to it.
type fakeGit struct {
	mu       sync.Mutex
	current  string
	names    []string
	status   string
	failOn   map[string]string
	mutation []string
}

func newFakeGit(current string, names ...string) *fakeGit {
	return &fakeGit{current: current, names: names, failOn: map[string]string{}}
}

func (f *fakeGit) Run(_ context.Context, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.Join(args, " ")
	if msg, ok := f.failOn[key]; ok {
		return "", &git.CommandError{Args: args, Message: msg, Err: errors.New("exit status 1")}
	}

	switch {
	case key == "branch":
		sorted := slices.Clone(f.names)
		slices.Sort(sorted)
		var out strings.Builder
		for _, n := range sorted {
			if n == f.current {
				out.WriteString("* " + n + "\n")
			} else {
				out.WriteString("  " + n + "\n")
			}
		}
		return out.String(), nil
	case key == "status --porcelain":
		return f.status, nil
	}

	f.mutation = append(f.mutation, key)
	switch args[0] {
	case "checkout":
		f.current = args[1]
	case "branch":
		switch args[1] {
		case "-D":
			f.names = slices.DeleteFunc(f.names, func(n string) bool { return n == args[2] })
		case "-m":
			i := slices.Index(f.names, args[2])
			if i >= 0 {
				f.names[i] = args[3]
			}
			if f.current == args[2] {
				f.current = args[3]
			}
		}
	}
	return "", nil
}

func (f *fakeGit) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.mutation)
}

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newTestModel(t *testing.T, g *fakeGit) (Model, *fakeClipboard) {
	t.Helper()
	clip := &fakeClipboard{}
	manager := branches.NewManager(g, branches.DefaultPolicy())
	m := NewModel(context.Background(), branches.NewSurface(manager, clip), nil)
	return drain(t, m, m.Init()), clip
}

// runCmd executes cmd, giving up on commands that wait on timers such as
// cursor blinking.
func runCmd(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// drain runs cmd and feeds the model's own messages back into Update until
// no more work is produced.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}

	switch msg := runCmd(cmd).(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	case refreshMsg, reportMsg, renamePlanMsg, branchInputDoneMsg, branchInputCancelMsg, confirmDoneMsg:
		next, c := m.Update(msg)
		m = next.(Model)
		m = drain(t, m, c)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// moveTo presses j until the cursor is on name.
func moveTo(t *testing.T, m Model, name string) Model {
	t.Helper()
	for range m.branchView.Len() {
		if row, ok := m.branchView.Selected(); ok && row.Name == name {
			return m
		}
		m = press(t, m, "j")
	}
	row, _ := m.branchView.Selected()
	require.Equal(t, name, row.Name, "branch not found in view")
	return m
}
