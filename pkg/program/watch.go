package program

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/raytone/pkg/patch"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// ReloadHandler receives programs that changed on disk and asked to be
// reloaded with RAYTONE_RELOAD(true). It runs on the watcher goroutine.
type ReloadHandler func(progs []patch.VoiceProgram)

// Watcher keeps a [Library] in sync with its directory.
type Watcher struct {
	lib      *Library
	fsw      *fsnotify.Watcher
	handler  ReloadHandler
	debounce time.Duration
	logger   *log.Logger
}

// NewWatcher watches every directory under lib's root. handler may be nil.
func NewWatcher(lib *Library, handler ReloadHandler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		lib:      lib,
		fsw:      fsw,
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   lib.logger,
	}
	if err := w.addRecursive(lib.Dir()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// SetDebounce overrides the settle window. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.Warn("watch directory", "path", event.Name, "err", err)
					}
					continue
				}
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			name, ok := w.lib.NameFor(event.Name)
			if !ok {
				continue
			}
			pending[name] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("program watcher", "err", err)
		case <-timer.C:
			w.flush(pending)
			clear(pending)
		}
	}
}

// Close stops the watcher; Run returns shortly after.
func (w *Watcher) Close() error { return w.fsw.Close() }

func (w *Watcher) flush(pending map[string]struct{}) {
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	slices.Sort(names)

	var reload []patch.VoiceProgram
	for _, name := range names {
		prog, ok, err := w.lib.Refresh(name)
		switch {
		case err != nil:
			w.logger.Warn("refresh program", "program", name, "err", err)
		case !ok:
			w.logger.Info("program removed", "program", name)
		default:
			w.logger.Debug("program changed", "program", name, "reload", prog.Reload)
			if prog.Reload {
				reload = append(reload, prog)
			}
		}
	}
	if len(reload) > 0 && w.handler != nil {
		w.handler(reload)
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return w.fsw.Add(path)
	})
}
