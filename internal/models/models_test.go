package models_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"skillswap/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewID_TimeOrderedUUID verifies that generated IDs are version 7 UUIDs.
func TestNewID_TimeOrderedUUID(t *testing.T) {
	id := models.NewID()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err, "ID must be a valid UUID string")
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

// TestNewID_Unique verifies that sequential IDs never collide.
func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := models.NewID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 1000)
}

func TestParticipantPair_KeyIsOrderIndependent(t *testing.T) {
	ab := models.NewParticipantPair("Alice", "Bob")
	ba := models.NewParticipantPair("Bob", "Alice")

	assert.Equal(t, "Alice_Bob", ab.Key())
	assert.Equal(t, ab, ba)
	assert.Equal(t, ab.Key(), ba.Key())
	assert.Equal(t, []string{"Alice", "Bob"}, ba.Members())
}

func TestParticipantPair_SameUser(t *testing.T) {
	p := models.NewParticipantPair("Solo", "Solo")
	assert.Equal(t, "Solo_Solo", p.Key())
}

func TestChatRoom_Participants(t *testing.T) {
	room := models.ChatRoom{
		ID:           "Alice_Bob",
		Participants: pq.StringArray{"Alice", "Bob"},
	}

	assert.True(t, room.HasParticipant("Alice"))
	assert.True(t, room.HasParticipant("Bob"))
	assert.False(t, room.HasParticipant("Carol"))
	assert.Equal(t, "Bob", room.Peer("Alice"))
	assert.Equal(t, "Alice", room.Peer("Bob"))
}

// TestChatRoom_CloneDoesNotShareMessages guards the mirror against callers
// mutating returned rooms.
func TestChatRoom_CloneDoesNotShareMessages(t *testing.T) {
	room := models.ChatRoom{
		ID:           "Alice_Bob",
		Participants: pq.StringArray{"Alice", "Bob"},
		Messages:     []models.Message{{ID: "m1", Sender: "Alice", Message: "hi", Timestamp: 1}},
	}

	clone := room.Clone()
	clone.Messages = append(clone.Messages, models.Message{ID: "m2"})
	clone.Messages[0].Message = "changed"
	clone.Participants[0] = "Mallory"

	assert.Len(t, room.Messages, 1)
	assert.Equal(t, "hi", room.Messages[0].Message)
	assert.Equal(t, "Alice", room.Participants[0])
}

// TestSnapshot_JSONShape verifies the persisted document has exactly the
// three top-level collections.
func TestSnapshot_JSONShape(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Chats["Alice_Bob"] = models.ChatRoom{ID: "Alice_Bob", Participants: pq.StringArray{"Alice", "Bob"}}

	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"skills", "requests", "chats"}, keys)
	assert.JSONEq(t, `[]`, string(doc["skills"]))
}

func TestSnapshot_NormalizeFillsMissingCollections(t *testing.T) {
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"skills":[{"id":"s1"}]}`), &snap))

	snap.Normalize()

	assert.Len(t, snap.Skills, 1)
	assert.NotNil(t, snap.Requests)
	assert.NotNil(t, snap.Chats)
}

// TestMessage_ChatIDNotSerialised keeps nested messages free of the parent id.
func TestMessage_ChatIDNotSerialised(t *testing.T) {
	raw, err := json.Marshal(models.Message{ID: "m1", ChatID: "Alice_Bob", Sender: "Alice", Message: "hi", Timestamp: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"m1","sender":"Alice","message":"hi","timestamp":5}`, string(raw))
}

// TestStructTags verifies that struct tags used by the SQL remote are present.
func TestStructTags(t *testing.T) {
	roomType := reflect.TypeOf(models.ChatRoom{})

	idField, found := roomType.FieldByName("ID")
	assert.True(t, found)
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey")

	partField, found := roomType.FieldByName("Participants")
	assert.True(t, found)
	assert.Contains(t, partField.Tag.Get("gorm"), "type:text[]", "Participants should use PostgreSQL array type")

	reqType := reflect.TypeOf(models.Request{})
	skillIDField, _ := reqType.FieldByName("SkillID")
	assert.Equal(t, "skillId", skillIDField.Tag.Get("json"))
}

// BenchmarkNewID measures ID generation performance.
func BenchmarkNewID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = models.NewID()
	}
}
