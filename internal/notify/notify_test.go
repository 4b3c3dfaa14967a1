package notify_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"skillswap/backend/internal/localization"
	"skillswap/backend/internal/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type MockDialer struct {
	mock.Mock
	sent []*gomail.Message
}

func (m *MockDialer) DialAndSend(msgs ...*gomail.Message) error {
	m.sent = append(m.sent, msgs...)
	args := m.Called(len(msgs))
	return args.Error(0)
}

type MockBot struct {
	mock.Mock
}

func (m *MockBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyRequest(ctx context.Context, n notify.RequestNotification) error {
	args := m.Called(n)
	return args.Error(0)
}

var sample = notify.RequestNotification{
	ToName:     "Alice",
	FromName:   "Bob",
	SkillTitle: "Guitar",
	Message:    "Teach me",
	ReplyTo:    "noreply@skillswap.com",
}

func TestEmailNotifier_SendsRenderedMessage(t *testing.T) {
	dialer := new(MockDialer)
	dialer.On("DialAndSend", 1).Return(nil)

	n := &notify.EmailNotifier{
		Dialer: dialer,
		From:   "skillswap@example.com",
		To:     "inbox@example.com",
		Lang:   "en",
		Texts:  localization.Default(),
	}

	require.NoError(t, n.NotifyRequest(context.Background(), sample))
	require.Len(t, dialer.sent, 1)

	m := dialer.sent[0]
	assert.Equal(t, []string{"inbox@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"noreply@skillswap.com"}, m.GetHeader("Reply-To"))
	assert.Equal(t, []string{"New SkillSwap request: Guitar"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Hi Alice")
	assert.Contains(t, buf.String(), "Teach me")
}

func ukrainianTexts(t *testing.T) *localization.Localizer {
	t.Helper()
	dir := t.TempDir()
	uk := `{"request_email_subject": "Новий запит: {skill_title}", "request_telegram": "{from_name} просить навчити \"{skill_title}\""}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uk.json"), []byte(uk), 0o600))
	texts, err := localization.NewLocalizer(dir)
	require.NoError(t, err)
	return texts
}

func TestNewEmailNotifier_UsesConfiguredLanguage(t *testing.T) {
	n := notify.NewEmailNotifier("smtp.example.com", 587, "user", "secret", "skillswap@example.com", "inbox@example.com", "uk", ukrainianTexts(t))
	assert.Equal(t, "uk", n.Lang)

	dialer := new(MockDialer)
	dialer.On("DialAndSend", 1).Return(nil)
	n.Dialer = dialer

	require.NoError(t, n.NotifyRequest(context.Background(), sample))
	require.Len(t, dialer.sent, 1)
	assert.Equal(t, []string{"Новий запит: Guitar"}, dialer.sent[0].GetHeader("Subject"))

	fallback := notify.NewEmailNotifier("smtp.example.com", 587, "", "", "a@example.com", "b@example.com", "", nil)
	assert.Equal(t, localization.DefaultLanguage, fallback.Lang)
}

func TestTelegramNotifier_UsesLanguage(t *testing.T) {
	bot := new(MockBot)
	bot.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.Text == `Bob просить навчити "Guitar"`
	})).Return(nil)

	n := &notify.TelegramNotifier{Bot: bot, ChatID: 42, Lang: "uk", Texts: ukrainianTexts(t)}

	require.NoError(t, n.NotifyRequest(context.Background(), sample))
	bot.AssertExpectations(t)
}

func TestEmailNotifier_WrapsDialError(t *testing.T) {
	dialer := new(MockDialer)
	dialer.On("DialAndSend", 1).Return(errors.New("connection refused"))

	n := &notify.EmailNotifier{Dialer: dialer, Texts: localization.Default()}
	err := n.NotifyRequest(context.Background(), sample)
	assert.ErrorContains(t, err, "connection refused")
}

func TestEmailNotifier_CancelledContext(t *testing.T) {
	dialer := new(MockDialer)
	n := &notify.EmailNotifier{Dialer: dialer, Texts: localization.Default()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, n.NotifyRequest(ctx, sample), context.Canceled)
	dialer.AssertNotCalled(t, "DialAndSend", mock.Anything)
}

func TestTelegramNotifier_PostsToChat(t *testing.T) {
	bot := new(MockBot)
	bot.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && bytes.Contains([]byte(msg.Text), []byte(`Bob asked Alice to teach "Guitar"`))
	})).Return(nil)

	n := &notify.TelegramNotifier{Bot: bot, ChatID: 42, Lang: "en", Texts: localization.Default()}

	require.NoError(t, n.NotifyRequest(context.Background(), sample))
	bot.AssertExpectations(t)
}

func TestMulti_CallsAllAndJoinsErrors(t *testing.T) {
	first := new(MockNotifier)
	second := new(MockNotifier)
	first.On("NotifyRequest", sample).Return(errors.New("smtp down"))
	second.On("NotifyRequest", sample).Return(nil)

	err := notify.Combine(first, second).NotifyRequest(context.Background(), sample)

	assert.ErrorContains(t, err, "smtp down")
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestCombine(t *testing.T) {
	assert.IsType(t, notify.Nop{}, notify.Combine())
	single := new(MockNotifier)
	assert.Same(t, single, notify.Combine(single))
	assert.NoError(t, notify.Nop{}.NotifyRequest(context.Background(), sample))
}
