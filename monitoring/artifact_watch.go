package monitoring

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ArtifactWatcher reports changes to the model file on disk. The loaded
// model is never swapped; a change only means a restart is needed.
type ArtifactWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	logger   *zap.Logger
	onChange func(op fsnotify.Op)
	debounce time.Duration

	mu       sync.Mutex
	lastSeen time.Time
	started  bool
	done     chan struct{}
}

// NewArtifactWatcher watches the directory containing path, since
// training pipelines usually replace the file rather than write it.
func NewArtifactWatcher(path string, logger *zap.Logger) (*ArtifactWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	aw := &ArtifactWatcher{
		watcher:  watcher,
		path:     abs,
		logger:   logger,
		debounce: 500 * time.Millisecond,
		done:     make(chan struct{}),
	}
	aw.onChange = aw.warn
	return aw, nil
}

// OnChange replaces the default warning. Call before Start.
func (aw *ArtifactWatcher) OnChange(fn func(op fsnotify.Op)) {
	aw.onChange = fn
}

func (aw *ArtifactWatcher) Start(ctx context.Context) {
	aw.mu.Lock()
	aw.started = true
	aw.mu.Unlock()
	go aw.run(ctx)
}

func (aw *ArtifactWatcher) Stop() error {
	err := aw.watcher.Close()
	aw.mu.Lock()
	started := aw.started
	aw.mu.Unlock()
	if started {
		<-aw.done
	}
	return err
}

func (aw *ArtifactWatcher) run(ctx context.Context) {
	defer close(aw.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-aw.watcher.Events:
			if !ok {
				return
			}
			aw.handle(event)
		case err, ok := <-aw.watcher.Errors:
			if !ok {
				return
			}
			aw.logger.Warn("artifact watcher error", zap.Error(err))
		}
	}
}

func (aw *ArtifactWatcher) handle(event fsnotify.Event) {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != aw.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	aw.mu.Lock()
	now := time.Now()
	if now.Sub(aw.lastSeen) < aw.debounce {
		aw.mu.Unlock()
		return
	}
	aw.lastSeen = now
	aw.mu.Unlock()

	aw.onChange(event.Op)
}

func (aw *ArtifactWatcher) warn(op fsnotify.Op) {
	aw.logger.Warn("model artifact changed on disk, restart to serve it",
		zap.String("path", aw.path),
		zap.String("op", op.String()))
}
