package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"skillswap/backend/internal/models"

	"go.uber.org/zap"
)

// Mirror is the local copy of every entity collection. It is the source of
// truth whenever the remote is unreachable. Every mutation rewrites the whole
// snapshot file; the rename makes each write atomic on its own, but nothing
// spans several calls.
type Mirror struct {
	mu   sync.RWMutex
	path string
	data *models.Snapshot
	log  *zap.Logger
}

// OpenMirror loads the snapshot at path. A missing file starts empty; an
// unreadable or corrupt one is logged and replaced on the next write.
func OpenMirror(path string, log *zap.Logger) (*Mirror, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Mirror{path: path, data: models.NewSnapshot(), log: log}
	if path == "" {
		return m, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading local snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Error("local snapshot is corrupt, starting empty", zap.String("path", path), zap.Error(err))
		return m, nil
	}
	snap.Normalize()
	m.data = &snap
	return m, nil
}

// NewMemoryMirror returns a mirror that is never persisted.
func NewMemoryMirror() *Mirror {
	m, _ := OpenMirror("", nil)
	return m
}

// Path returns the snapshot file, or "" for memory-only mirrors.
func (m *Mirror) Path() string { return m.path }

// save writes the snapshot. Callers must hold m.mu.
func (m *Mirror) save() error {
	if m.path == "" {
		return nil
	}
	raw, err := json.Marshal(m.data)
	if err != nil {
		return fmt.Errorf("encoding local snapshot: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".skillswap-*.json")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// AddSkill puts skill at the front of the skill list.
func (m *Mirror) AddSkill(skill models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Skills = append([]models.Skill{skill}, m.data.Skills...)
	return m.save()
}

// ReplaceSkills swaps the whole skill list, e.g. after loading it from the remote.
func (m *Mirror) ReplaceSkills(skills []models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Skills = append([]models.Skill{}, skills...)
	return m.save()
}

// RemoveSkill drops the skill with id. Unknown ids are a no-op.
func (m *Mirror) RemoveSkill(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.data.Skills[:0]
	for _, s := range m.data.Skills {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	m.data.Skills = kept
	return m.save()
}

// FindSkill looks a skill up by id.
func (m *Mirror) FindSkill(id string) (models.Skill, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.data.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return models.Skill{}, false
}

// Skills returns a copy of the skill list in stored order.
func (m *Mirror) Skills() []models.Skill {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Skill{}, m.data.Skills...)
}

// AddRequest appends req.
func (m *Mirror) AddRequest(req models.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Requests = append(m.data.Requests, req)
	return m.save()
}

// Requests returns a copy of the request list in stored order.
func (m *Mirror) Requests() []models.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Request{}, m.data.Requests...)
}

// ChatRoom returns a copy of the room with id.
func (m *Mirror) ChatRoom(id string) (models.ChatRoom, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.data.Chats[id]
	if !ok {
		return models.ChatRoom{}, false
	}
	return room.Clone(), true
}

// PutChatRoomIfAbsent stores room unless its ID is taken and returns whichever
// room ends up stored.
func (m *Mirror) PutChatRoomIfAbsent(room models.ChatRoom) (models.ChatRoom, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data.Chats[room.ID]; ok {
		if len(existing.Participants) > 0 {
			return existing.Clone(), false, nil
		}
		// A room that only exists because messages arrived for it first.
		room.Messages = existing.Messages
		if existing.LastActivity > room.LastActivity {
			room.LastActivity = existing.LastActivity
		}
	}
	if room.Messages == nil {
		room.Messages = []models.Message{}
	}
	m.data.Chats[room.ID] = room.Clone()
	return room, true, m.save()
}

// AppendMessage adds msg to the chat, creating a bare room entry when the
// chat is unknown, and bumps its last activity.
func (m *Mirror) AppendMessage(chatID string, msg models.Message, lastActivity int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.data.Chats[chatID]
	if !ok {
		room = models.ChatRoom{ID: chatID, Messages: []models.Message{}}
	}
	msg.ChatID = chatID
	room.Messages = append(room.Messages, msg)
	room.LastActivity = lastActivity
	m.data.Chats[chatID] = room
	return m.save()
}

// ChatRooms returns copies of every stored room in no particular order.
func (m *Mirror) ChatRooms() []models.ChatRoom {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rooms := make([]models.ChatRoom, 0, len(m.data.Chats))
	for _, room := range m.data.Chats {
		rooms = append(rooms, room.Clone())
	}
	return rooms
}

// Messages returns a copy of one chat's messages; unknown chats yield none.
func (m *Mirror) Messages(chatID string) []models.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.data.Chats[chatID]
	if !ok {
		return []models.Message{}
	}
	return append([]models.Message{}, room.Messages...)
}

// Snapshot returns a deep copy of the whole mirror.
func (m *Mirror) Snapshot() models.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := models.Snapshot{
		Skills:   append([]models.Skill{}, m.data.Skills...),
		Requests: append([]models.Request{}, m.data.Requests...),
		Chats:    make(map[string]models.ChatRoom, len(m.data.Chats)),
	}
	for id, room := range m.data.Chats {
		snap.Chats[id] = room.Clone()
	}
	return snap
}
