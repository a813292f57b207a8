package library

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Change is sent when the library tree changed on disk.
type Change struct {
	Path string
	At   time.Time
}

// Watcher reports library changes, coalescing bursts of events within the
// debounce window into a single Change.
type Watcher struct {
	root     string
	debounce time.Duration
	log      zerolog.Logger
	fsw      *fsnotify.Watcher
	updateCh chan Change

	mu      sync.Mutex
	timer   *time.Timer
	pending string
}

// NewWatcher watches root and every directory below it.
func NewWatcher(root string, debounce time.Duration, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:     root,
		debounce: debounce,
		log:      log,
		fsw:      fsw,
		updateCh: make(chan Change, 1),
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Updates returns the channel that receives change notifications.
func (w *Watcher) Updates() <-chan Change {
	return w.updateCh
}

// Start begins processing events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("library watcher error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	// Attribute changes alone do not alter the listing.
	if ev.Op == fsnotify.Chmod {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.log.Warn().Err(err).Str("dir", ev.Name).Msg("watch new category")
			}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = ev.Name
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.emit)
}

func (w *Watcher) emit() {
	w.mu.Lock()
	change := Change{Path: w.pending, At: time.Now()}
	w.mu.Unlock()

	// Non-blocking send; if a change is already queued, replace it.
	select {
	case w.updateCh <- change:
	default:
		select {
		case <-w.updateCh:
		default:
		}
		select {
		case w.updateCh <- change:
		default:
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.fsw.Add(path)
	})
}
