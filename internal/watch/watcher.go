// Package watch turns changes to a repository's branch metadata into
// refresh signals.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Johannes-Berggren/BranchGoblin/internal/git"
	"github.com/Johannes-Berggren/BranchGoblin/internal/log"
)

// DefaultDebounce is how long a burst of file events is collected before a
// single refresh signal goes out.
const DefaultDebounce = 150 * time.Millisecond

// Watcher observes HEAD, refs/heads and packed-refs.
type Watcher struct {
	fs       *fsnotify.Watcher
	head     string
	packed   string
	heads    string
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// New starts watching repo. Signals are coalesced over debounce; zero
// sends one signal per relevant event (still collapsing signals nobody has
// received yet).
func New(ctx context.Context, repo git.Repo, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		fs:       fw,
		head:     filepath.Join(repo.GitDir, "HEAD"),
		packed:   filepath.Join(repo.CommonDir, "packed-refs"),
		heads:    filepath.Join(repo.CommonDir, "refs", "heads"),
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan struct{}, 1),
	}

	if err := w.addDirs(repo.GitDir, repo.CommonDir); err != nil {
		cancel()
		fw.Close()
		return nil, err
	}
	if err := w.addTree(w.heads); err != nil {
		cancel()
		fw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Events returns the refresh signal channel. It is closed by Close.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		w.wg.Wait()
		err = w.fs.Close()
		close(w.events)
	})
	return err
}

func (w *Watcher) addDirs(dirs ...string) error {
	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return nil
}

// addTree watches root and every directory below it. fsnotify is not
// recursive, and branch names like feature/x live in subdirectories.
func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	logger := log.FromContext(w.ctx)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) && w.underHeads(ev.Name) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						logger.Warnf("%v", err)
					}
				}
			}
			if w.debounce <= 0 {
				w.signal()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			}

		case <-fire:
			timer, fire = nil, nil
			w.signal()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warnf("watcher: %v", err)
		}
	}
}

// signal never blocks: an undelivered signal already covers this change.
func (w *Watcher) signal() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if strings.HasSuffix(ev.Name, ".lock") {
		return false
	}
	return ev.Name == w.head || ev.Name == w.packed || w.underHeads(ev.Name)
}

func (w *Watcher) underHeads(name string) bool {
	return name == w.heads || strings.HasPrefix(name, w.heads+string(filepath.Separator))
}
