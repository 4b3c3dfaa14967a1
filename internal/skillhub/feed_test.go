package skillhub_test

import (
	"context"
	"testing"
	"time"

	"skillswap/backend/internal/config"
	"skillswap/backend/internal/models"
	"skillswap/backend/internal/skillhub"
	"skillswap/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const waitFor = 2 * time.Second

func quietService() *skillhub.Service {
	return skillhub.NewService(storage.NewMemoryMirror(), storage.Offline{}, config.DefaultAppConfig())
}

// recvUntil reads snapshots until one satisfies ok.
func recvUntil[T any](t *testing.T, ch <-chan []T, ok func([]T) bool) []T {
	t.Helper()
	deadline := time.After(waitFor)
	for {
		select {
		case snap, open := <-ch:
			require.True(t, open, "feed closed early")
			if ok(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
			return nil
		}
	}
}

func drain[T any](t *testing.T, ch <-chan []T) {
	t.Helper()
	deadline := time.After(waitFor)
	for {
		select {
		case _, open := <-ch:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("feed did not close")
		}
	}
}

func hasLen[T any](n int) func([]T) bool {
	return func(s []T) bool { return len(s) == n }
}

func TestPollFeed_DeliversChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := quietService()
	feed := &skillhub.PollFeed{Service: svc, Interval: 10 * time.Millisecond}

	ch := feed.Skills(ctx)
	first := recvUntil(t, ch, hasLen[models.Skill](0))
	assert.NotNil(t, first)

	addSkill(t, svc, "Guitar", "Alice")
	addSkill(t, svc, "Piano", "Bob")
	got := recvUntil(t, ch, hasLen[models.Skill](2))
	assert.Equal(t, "Piano", got[0].Title)

	cancel()
	drain(t, ch)
	goleak.VerifyNone(t)
}

func TestPollFeed_SkipsUnchangedSnapshots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := quietService()
	addSkill(t, svc, "Guitar", "Alice")
	feed := &skillhub.PollFeed{Service: svc, Interval: 5 * time.Millisecond}

	ch := feed.Skills(ctx)
	recvUntil(t, ch, hasLen[models.Skill](1))

	select {
	case snap := <-ch:
		t.Fatalf("unexpected snapshot %v", snap)
	case <-time.After(60 * time.Millisecond):
	}

	cancel()
	drain(t, ch)
	goleak.VerifyNone(t)
}

func TestPushFeed_ReactsToChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := quietService()
	src := newFakeChanges()
	hub := skillhub.NewHub(src, nil)
	go hub.Run(ctx)

	feed := &skillhub.PushFeed{Service: svc, Hub: hub, Fallback: time.Hour}
	ch := feed.Messages(ctx, "Alice_Bob")
	recvUntil(t, ch, hasLen[models.Message](0))

	_, err := svc.SendMessage(ctx, "Alice_Bob", "Alice", "hello")
	require.NoError(t, err)

	src.ch <- storage.PathSkills
	select {
	case snap := <-ch:
		t.Fatalf("change to another path produced %v", snap)
	case <-time.After(50 * time.Millisecond):
	}

	src.ch <- storage.MessagesPath("Alice_Bob")
	got := recvUntil(t, ch, hasLen[models.Message](1))
	assert.Equal(t, "hello", got[0].Message)

	cancel()
	drain(t, ch)
	<-hub.Done()
	goleak.VerifyNone(t)
}

func TestPushFeed_FallsBackToPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := quietService()
	src := newFakeChanges()
	hub := skillhub.NewHub(src, nil)
	go hub.Run(ctx)

	feed := &skillhub.PushFeed{Service: svc, Hub: hub, Fallback: 10 * time.Millisecond}
	ch := feed.Skills(ctx)
	recvUntil(t, ch, hasLen[models.Skill](0))

	close(src.ch)
	<-hub.Done()

	addSkill(t, svc, "Guitar", "Alice")
	recvUntil(t, ch, hasLen[models.Skill](1))

	cancel()
	drain(t, ch)
	goleak.VerifyNone(t)
}

func TestHub_RunFailsWhenSubscribeFails(t *testing.T) {
	src := &fakeChanges{err: storage.ErrRemoteUnavailable}
	hub := skillhub.NewHub(src, nil)

	err := hub.Run(context.Background())
	assert.ErrorIs(t, err, storage.ErrRemoteUnavailable)

	select {
	case <-hub.Done():
	default:
		t.Fatal("hub not marked done")
	}
}

type pushRemote struct {
	storage.Offline
	*fakeChanges
}

func TestNewFeed_SelectsByRemote(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := quietService()

	poll := skillhub.NewFeed(ctx, svc, storage.Offline{}, time.Second, nil)
	assert.IsType(t, &skillhub.PollFeed{}, poll)

	push := skillhub.NewFeed(ctx, svc, pushRemote{fakeChanges: newFakeChanges()}, time.Second, nil)
	require.IsType(t, &skillhub.PushFeed{}, push)

	cancel()
	<-push.(*skillhub.PushFeed).Hub.Done()
	goleak.VerifyNone(t)
}
