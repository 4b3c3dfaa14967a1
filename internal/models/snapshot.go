package models

import "github.com/google/uuid"

// Snapshot is the persisted shape of the local entity mirror.
type Snapshot struct {
	Skills   []Skill             `json:"skills"`
	Requests []Request           `json:"requests"`
	Chats    map[string]ChatRoom `json:"chats"`
}

// NewSnapshot returns an empty snapshot with all collections allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Skills:   []Skill{},
		Requests: []Request{},
		Chats:    map[string]ChatRoom{},
	}
}

// Normalize replaces nil collections left by a partial JSON document.
func (s *Snapshot) Normalize() {
	if s.Skills == nil {
		s.Skills = []Skill{}
	}
	if s.Requests == nil {
		s.Requests = []Request{}
	}
	if s.Chats == nil {
		s.Chats = map[string]ChatRoom{}
	}
}

// NewID returns a time-ordered identifier with a random tail (UUIDv7).
// Uniqueness is best-effort.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
