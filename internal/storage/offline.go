package storage

import (
	"context"

	"skillswap/backend/internal/models"
)

// Offline is the Remote used when no remote database is configured or it
// could not be reached at startup. Every call fails with ErrRemoteUnavailable.
type Offline struct{}

var _ Remote = Offline{}

func (Offline) PutSkill(context.Context, models.Skill) error { return ErrRemoteUnavailable }
func (Offline) DeleteSkill(context.Context, string) error    { return ErrRemoteUnavailable }
func (Offline) ListSkills(context.Context) ([]models.Skill, error) {
	return nil, ErrRemoteUnavailable
}
func (Offline) PutRequest(context.Context, models.Request) error { return ErrRemoteUnavailable }
func (Offline) ListRequests(context.Context) ([]models.Request, error) {
	return nil, ErrRemoteUnavailable
}
func (Offline) CreateChatRoom(context.Context, models.ChatRoom) error { return ErrRemoteUnavailable }
func (Offline) ListChatRooms(context.Context) ([]models.ChatRoom, error) {
	return nil, ErrRemoteUnavailable
}
func (Offline) AppendMessage(context.Context, string, models.Message, int64) error {
	return ErrRemoteUnavailable
}
func (Offline) ListMessages(context.Context, string) ([]models.Message, error) {
	return nil, ErrRemoteUnavailable
}
func (Offline) Close() error { return nil }
