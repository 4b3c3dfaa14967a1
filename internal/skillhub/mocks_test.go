package skillhub_test

import (
	"context"

	"skillswap/backend/internal/models"
	"skillswap/backend/internal/notify"

	"github.com/stretchr/testify/mock"
)

type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) PutSkill(ctx context.Context, skill models.Skill) error {
	args := m.Called(skill)
	return args.Error(0)
}

func (m *MockRemote) DeleteSkill(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRemote) ListSkills(ctx context.Context) ([]models.Skill, error) {
	args := m.Called()
	skills, _ := args.Get(0).([]models.Skill)
	return skills, args.Error(1)
}

func (m *MockRemote) PutRequest(ctx context.Context, req models.Request) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockRemote) ListRequests(ctx context.Context) ([]models.Request, error) {
	args := m.Called()
	reqs, _ := args.Get(0).([]models.Request)
	return reqs, args.Error(1)
}

func (m *MockRemote) CreateChatRoom(ctx context.Context, room models.ChatRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockRemote) ListChatRooms(ctx context.Context) ([]models.ChatRoom, error) {
	args := m.Called()
	rooms, _ := args.Get(0).([]models.ChatRoom)
	return rooms, args.Error(1)
}

func (m *MockRemote) AppendMessage(ctx context.Context, chatID string, msg models.Message, lastActivity int64) error {
	args := m.Called(chatID, msg, lastActivity)
	return args.Error(0)
}

func (m *MockRemote) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	args := m.Called(chatID)
	msgs, _ := args.Get(0).([]models.Message)
	return msgs, args.Error(1)
}

func (m *MockRemote) Close() error {
	return m.Called().Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyRequest(ctx context.Context, n notify.RequestNotification) error {
	args := m.Called(n)
	return args.Error(0)
}

// fakeChanges is a ChangeSource driven by the test.
type fakeChanges struct {
	ch  chan string
	err error
}

func newFakeChanges() *fakeChanges {
	return &fakeChanges{ch: make(chan string, 8)}
}

func (f *fakeChanges) Changes(ctx context.Context) (<-chan string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ch, nil
}
