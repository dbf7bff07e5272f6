package petsite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls rebuild after files under the source directory change,
// coalescing bursts of events within the configured debounce. It blocks
// until ctx is done. Rebuilds never overlap; changes during a rebuild
// queue exactly one more.
func (s *Site) Watch(ctx context.Context, rebuild func(context.Context)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer w.Close()

	root := s.Config.SourceDir
	skip := s.watchExcluded()
	if err := addDirsRecursive(w, root, skip, s.log); err != nil {
		return err
	}
	s.log.Info("Watching for changes", "dir", root, "debounce", s.Config.WatchDebounce)

	req, trigger := newDebouncer(s.Config.WatchDebounce)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-req:
				rebuild(ctx)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) || underAny(ev.Name, skip) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(w, ev.Name, skip, s.log)
				}
			}
			s.log.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
			trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("Watcher error", "error", err)
		}
	}
}

// watchExcluded are directories whose writes come from the build itself.
func (s *Site) watchExcluded() []string {
	var out []string
	for _, d := range []string{s.Config.OutputDir, s.Config.CacheDir} {
		if abs, err := filepath.Abs(d); err == nil {
			out = append(out, abs)
		}
	}
	return out
}

// newDebouncer returns a channel that receives once per burst of trigger
// calls, after d of quiet.
func newDebouncer(d time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

func addDirsRecursive(w *fsnotify.Watcher, root string, skip []string, log *slog.Logger) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if underAny(path, skip) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			log.Warn("Watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

func underAny(p string, dirs []string) bool {
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	for _, d := range dirs {
		if abs == d || strings.HasPrefix(abs, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent reports editor temp files and other noise.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
