package skillhub

import (
	"context"
	"fmt"

	"skillswap/backend/internal/storage"

	"go.uber.org/zap"
)

// watcher is a single subscription to one collection path.
type watcher struct {
	path   string
	notify chan struct{}
}

func newWatcher(path string) *watcher {
	return &watcher{path: path, notify: make(chan struct{}, 1)}
}

// Hub fans change notifications from a ChangeSource out to watchers.
// Registration goes through channels so the watcher set is only touched by
// the Run loop.
type Hub struct {
	Source storage.ChangeSource

	registerCh   chan *watcher
	unregisterCh chan *watcher

	watchers map[*watcher]struct{}
	done     chan struct{}
	log      *zap.Logger
}

// NewHub creates a hub over src. Call Run to start it.
func NewHub(src storage.ChangeSource, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		Source:       src,
		registerCh:   make(chan *watcher),
		unregisterCh: make(chan *watcher),
		watchers:     make(map[*watcher]struct{}),
		done:         make(chan struct{}),
		log:          log,
	}
}

// Done is closed once Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Run subscribes to the source and dispatches until ctx ends or the
// subscription drops.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	changes, err := h.Source.Changes(ctx)
	if err != nil {
		return fmt.Errorf("subscribing to changes: %w", err)
	}
	h.log.Info("change hub started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case w := <-h.registerCh:
			h.watchers[w] = struct{}{}

		case w := <-h.unregisterCh:
			delete(h.watchers, w)

		case path, ok := <-changes:
			if !ok {
				h.log.Warn("change subscription closed")
				return storage.ErrRemoteUnavailable
			}
			for w := range h.watchers {
				if w.path != path {
					continue
				}
				// A pending notification already covers this change.
				select {
				case w.notify <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (h *Hub) register(ctx context.Context, w *watcher) bool {
	select {
	case h.registerCh <- w:
		return true
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (h *Hub) unregister(w *watcher) {
	select {
	case h.unregisterCh <- w:
	case <-h.done:
	}
}
