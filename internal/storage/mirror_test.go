package storage_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"skillswap/backend/internal/models"
	"skillswap/backend/internal/storage"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileMirror(t *testing.T) (*storage.Mirror, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "skillswap.json")
	m, err := storage.OpenMirror(path, nil)
	require.NoError(t, err)
	return m, path
}

func TestMirror_PersistsAndReloads(t *testing.T) {
	m, path := newFileMirror(t)

	require.NoError(t, m.AddSkill(models.Skill{ID: "s1", Title: "Guitar", Owner: "Alice", Timestamp: 1}))
	require.NoError(t, m.AddSkill(models.Skill{ID: "s2", Title: "Chess", Owner: "Bob", Timestamp: 2}))
	require.NoError(t, m.AddRequest(models.Request{ID: "r1", SkillID: "s1", Requester: "Bob", Status: models.StatusPending}))
	_, created, err := m.PutChatRoomIfAbsent(models.ChatRoom{ID: "Alice_Bob", Participants: pq.StringArray{"Alice", "Bob"}})
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, m.AppendMessage("Alice_Bob", models.Message{ID: "m1", Sender: "Bob", Message: "hi", Timestamp: 3}, 3))

	reloaded, err := storage.OpenMirror(path, nil)
	require.NoError(t, err)

	skills := reloaded.Skills()
	require.Len(t, skills, 2)
	assert.Equal(t, "s2", skills[0].ID, "new skills are prepended")
	assert.Len(t, reloaded.Requests(), 1)
	msgs := reloaded.Messages("Alice_Bob")
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Message)

	room, ok := reloaded.ChatRoom("Alice_Bob")
	require.True(t, ok)
	assert.Equal(t, int64(3), room.LastActivity)
}

func TestMirror_FileHasThreeCollections(t *testing.T) {
	m, path := newFileMirror(t)
	require.NoError(t, m.AddSkill(models.Skill{ID: "s1"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc, 3)
	assert.Contains(t, doc, "skills")
	assert.Contains(t, doc, "requests")
	assert.Contains(t, doc, "chats")
}

func TestMirror_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skillswap.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	m, err := storage.OpenMirror(path, nil)
	require.NoError(t, err)
	assert.Empty(t, m.Skills())

	require.NoError(t, m.AddSkill(models.Skill{ID: "s1"}))
	reloaded, err := storage.OpenMirror(path, nil)
	require.NoError(t, err)
	assert.Len(t, reloaded.Skills(), 1)
}

func TestMirror_RemoveSkill(t *testing.T) {
	m := storage.NewMemoryMirror()
	require.NoError(t, m.AddSkill(models.Skill{ID: "s1"}))
	require.NoError(t, m.AddSkill(models.Skill{ID: "s2"}))

	require.NoError(t, m.RemoveSkill("s1"))
	require.NoError(t, m.RemoveSkill("unknown"))

	_, found := m.FindSkill("s1")
	assert.False(t, found)
	_, found = m.FindSkill("s2")
	assert.True(t, found)
}

func TestMirror_PutChatRoomIfAbsentKeepsExisting(t *testing.T) {
	m := storage.NewMemoryMirror()
	pair := pq.StringArray{"Alice", "Bob"}
	_, _, err := m.PutChatRoomIfAbsent(models.ChatRoom{ID: "Alice_Bob", Participants: pair, SkillTitle: "Guitar"})
	require.NoError(t, err)
	require.NoError(t, m.AppendMessage("Alice_Bob", models.Message{ID: "m1"}, 10))

	room, created, err := m.PutChatRoomIfAbsent(models.ChatRoom{ID: "Alice_Bob", Participants: pair, SkillTitle: "Chess"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Guitar", room.SkillTitle)
	assert.Len(t, room.Messages, 1)
	assert.Len(t, m.ChatRooms(), 1)
}

func TestMirror_PutChatRoomIfAbsentCompletesStub(t *testing.T) {
	m := storage.NewMemoryMirror()
	require.NoError(t, m.AppendMessage("Alice_Bob", models.Message{ID: "m1", Timestamp: 10}, 10))

	room, created, err := m.PutChatRoomIfAbsent(models.ChatRoom{
		ID: "Alice_Bob", Participants: pq.StringArray{"Alice", "Bob"}, SkillTitle: "Guitar", LastActivity: 5, Created: 5,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Guitar", room.SkillTitle)
	assert.Len(t, room.Messages, 1)
	assert.Equal(t, int64(10), room.LastActivity)
}

func TestMirror_AppendMessageToUnknownChatCreatesStub(t *testing.T) {
	m := storage.NewMemoryMirror()

	require.NoError(t, m.AppendMessage("ghost_room", models.Message{ID: "m1", Message: "hello?"}, 7))

	room, ok := m.ChatRoom("ghost_room")
	require.True(t, ok)
	assert.Empty(t, room.Participants)
	assert.Equal(t, int64(7), room.LastActivity)
	assert.Len(t, room.Messages, 1)
}

func TestMirror_ReturnedSlicesAreCopies(t *testing.T) {
	m := storage.NewMemoryMirror()
	require.NoError(t, m.AddSkill(models.Skill{ID: "s1", Title: "Guitar"}))

	skills := m.Skills()
	skills[0].Title = "changed"

	s, _ := m.FindSkill("s1")
	assert.Equal(t, "Guitar", s.Title)
}

func TestMirror_MessagesOfUnknownChat(t *testing.T) {
	m := storage.NewMemoryMirror()
	msgs := m.Messages("nope")
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestOffline_AlwaysUnavailable(t *testing.T) {
	ctx := context.Background()
	var r storage.Remote = storage.Offline{}

	_, err := r.ListSkills(ctx)
	assert.ErrorIs(t, err, storage.ErrRemoteUnavailable)
	assert.ErrorIs(t, r.PutSkill(ctx, models.Skill{}), storage.ErrRemoteUnavailable)
	assert.ErrorIs(t, r.AppendMessage(ctx, "c", models.Message{}, 0), storage.ErrRemoteUnavailable)
	assert.NoError(t, r.Close())
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "chats/Alice_Bob/messages", storage.MessagesPath("Alice_Bob"))
	assert.Equal(t, "chats/Alice_Bob/lastActivity", storage.LastActivityPath("Alice_Bob"))
}
