package skillhub

import (
	"context"
	"time"

	"skillswap/backend/internal/models"
	"skillswap/backend/internal/storage"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

// Feed delivers full snapshots of a collection whenever it changes. The first
// snapshot is sent right away. Channels hold only the latest snapshot and are
// closed when ctx ends. Receivers must not modify the slices.
type Feed interface {
	Skills(ctx context.Context) <-chan []models.Skill
	Messages(ctx context.Context, chatID string) <-chan []models.Message
}

// offer replaces whatever is buffered in out with v. out must have capacity 1
// and a single sender.
func offer[T any](out chan T, v T) {
	select {
	case out <- v:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	out <- v
}

// PollFeed re-reads the service on an interval and sends only when the
// snapshot differs from the last one sent.
type PollFeed struct {
	Service  *Service
	Interval time.Duration
}

func (p *PollFeed) Skills(ctx context.Context) <-chan []models.Skill {
	return poll(ctx, p.Interval, p.Service.ListSkills)
}

func (p *PollFeed) Messages(ctx context.Context, chatID string) <-chan []models.Message {
	return poll(ctx, p.Interval, func(ctx context.Context) ([]models.Message, error) {
		return p.Service.ListMessages(ctx, chatID)
	})
}

type fetchFunc[T any] func(ctx context.Context) ([]T, error)

// tracker remembers the last snapshot sent.
type tracker[T any] struct {
	out  chan []T
	last []T
	sent bool
}

func (t *tracker[T]) emit(ctx context.Context, fetch fetchFunc[T]) {
	snap, err := fetch(ctx)
	if err != nil {
		return
	}
	if t.sent && cmp.Equal(t.last, snap) {
		return
	}
	t.last, t.sent = snap, true
	offer(t.out, snap)
}

func poll[T any](ctx context.Context, interval time.Duration, fetch fetchFunc[T]) <-chan []T {
	t := &tracker[T]{out: make(chan []T, 1)}
	go func() {
		defer close(t.out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		t.emit(ctx, fetch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.emit(ctx, fetch)
			}
		}
	}()
	return t.out
}

// PushFeed re-reads the service when the hub reports a change to the
// watched path. If the hub stops, it keeps going by polling every Fallback.
type PushFeed struct {
	Service  *Service
	Hub      *Hub
	Fallback time.Duration
}

func (p *PushFeed) Skills(ctx context.Context) <-chan []models.Skill {
	return push(ctx, p.Hub, p.Fallback, storage.PathSkills, p.Service.ListSkills)
}

func (p *PushFeed) Messages(ctx context.Context, chatID string) <-chan []models.Message {
	return push(ctx, p.Hub, p.Fallback, storage.MessagesPath(chatID), func(ctx context.Context) ([]models.Message, error) {
		return p.Service.ListMessages(ctx, chatID)
	})
}

func push[T any](ctx context.Context, hub *Hub, fallback time.Duration, path string, fetch fetchFunc[T]) <-chan []T {
	t := &tracker[T]{out: make(chan []T, 1)}
	go func() {
		defer close(t.out)

		w := newWatcher(path)
		hubDone := hub.Done()
		var tick <-chan time.Time
		if hub.register(ctx, w) {
			defer hub.unregister(w)
		} else if ctx.Err() != nil {
			return
		} else {
			hubDone = nil
			ticker := time.NewTicker(fallback)
			defer ticker.Stop()
			tick = ticker.C
		}

		t.emit(ctx, fetch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.notify:
				t.emit(ctx, fetch)
			case <-tick:
				t.emit(ctx, fetch)
			case <-hubDone:
				hubDone = nil
				ticker := time.NewTicker(fallback)
				defer ticker.Stop()
				tick = ticker.C
				t.emit(ctx, fetch)
			}
		}
	}()
	return t.out
}

// NewFeed picks a PushFeed when the remote can report changes and a PollFeed
// otherwise. The hub, if any, runs until ctx ends.
func NewFeed(ctx context.Context, svc *Service, remote storage.Remote, interval time.Duration, log *zap.Logger) Feed {
	if log == nil {
		log = zap.NewNop()
	}
	src, ok := remote.(storage.ChangeSource)
	if !ok {
		log.Info("remote has no change notifications, polling", zap.Duration("interval", interval))
		return &PollFeed{Service: svc, Interval: interval}
	}

	hub := NewHub(src, log)
	go func() {
		if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
			log.Warn("change hub stopped, falling back to polling", zap.Error(err))
		}
	}()
	return &PushFeed{Service: svc, Hub: hub, Fallback: interval}
}
