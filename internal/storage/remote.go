package storage

import (
	"context"
	"errors"

	"skillswap/backend/internal/models"
)

// ErrRemoteUnavailable is returned by the offline remote and wraps transport
// failures of the real ones. Callers treat every remote error the same way.
var ErrRemoteUnavailable = errors.New("remote database unavailable")

// Collection paths of the remote tree. Redis keys and change notifications
// use them verbatim.
const (
	PathSkills   = "skills"
	PathRequests = "requests"
	PathChats    = "chats"
)

// MessagesPath is the collection holding one chat's messages.
func MessagesPath(chatID string) string {
	return PathChats + "/" + chatID + "/messages"
}

// LastActivityPath holds one chat's last activity timestamp.
func LastActivityPath(chatID string) string {
	return PathChats + "/" + chatID + "/lastActivity"
}

// Remote is the write-through mirror of the entity collections. It holds no
// authority: the local Mirror is always updated regardless of what a Remote
// call returns.
type Remote interface {
	PutSkill(ctx context.Context, skill models.Skill) error
	DeleteSkill(ctx context.Context, id string) error
	ListSkills(ctx context.Context) ([]models.Skill, error)

	PutRequest(ctx context.Context, req models.Request) error
	ListRequests(ctx context.Context) ([]models.Request, error)

	// CreateChatRoom inserts the room unless one with the same ID exists.
	CreateChatRoom(ctx context.Context, room models.ChatRoom) error
	ListChatRooms(ctx context.Context) ([]models.ChatRoom, error)

	// AppendMessage adds msg to the chat and sets its last activity.
	AppendMessage(ctx context.Context, chatID string, msg models.Message, lastActivity int64) error
	ListMessages(ctx context.Context, chatID string) ([]models.Message, error)

	Close() error
}

// ChangeSource is implemented by remotes that can push change notifications.
// Changes yields collection paths (PathSkills, MessagesPath(id), ...) until
// ctx is cancelled.
type ChangeSource interface {
	Changes(ctx context.Context) (<-chan string, error)
}
