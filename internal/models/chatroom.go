package models

import (
	"strings"

	"github.com/lib/pq"
)

// ChatKeySeparator joins the two usernames of a chat room ID. Usernames must
// not contain it, or two different pairs could share a key.
const ChatKeySeparator = "_"

// ChatRoom represents a two-participant conversation tied to one skill.
// Its ID is derived from the participants, so looking a room up by the same
// pair of usernames always yields the same room.
type ChatRoom struct {
	// ID is ParticipantPair.Key() of the two participants.
	ID string `gorm:"primaryKey" json:"id"`
	// Participants holds exactly two usernames in canonical order.
	Participants pq.StringArray `gorm:"type:text[]" json:"participants"`
	// SkillTitle labels the room with the skill it was opened for.
	SkillTitle string `gorm:"type:text" json:"skillTitle"`
	// Messages is the append-only history, ascending by timestamp.
	Messages []Message `gorm:"foreignKey:ChatID;references:ID" json:"messages"`
	// LastActivity is bumped on every message (unix millis).
	LastActivity int64 `gorm:"index" json:"lastActivity"`
	// Created is the room creation time (unix millis).
	Created int64 `json:"created"`
}

// HasParticipant reports whether username takes part in the room.
func (r *ChatRoom) HasParticipant(username string) bool {
	for _, p := range r.Participants {
		if p == username {
			return true
		}
	}
	return false
}

// Peer returns the participant that is not username.
func (r *ChatRoom) Peer(username string) string {
	for _, p := range r.Participants {
		if p != username {
			return p
		}
	}
	return ""
}

// Clone returns a copy that shares no slices with r.
func (r ChatRoom) Clone() ChatRoom {
	c := r
	c.Participants = make(pq.StringArray, len(r.Participants))
	copy(c.Participants, r.Participants)
	c.Messages = make([]Message, len(r.Messages))
	copy(c.Messages, r.Messages)
	return c
}

// ParticipantPair is an unordered pair of usernames kept in canonical order.
type ParticipantPair struct {
	lo, hi string
}

// NewParticipantPair canonicalises (a, b) so that (a, b) and (b, a) compare equal.
func NewParticipantPair(a, b string) ParticipantPair {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return ParticipantPair{lo: a, hi: b}
}

// Key is the chat room ID for the pair, e.g. "Alice_Bob".
func (p ParticipantPair) Key() string {
	return p.lo + ChatKeySeparator + p.hi
}

// Members returns both usernames in canonical order.
func (p ParticipantPair) Members() []string {
	return []string{p.lo, p.hi}
}
