// Package skillhub is the entity store: skills, requests, chat rooms and
// messages kept in the local mirror and written through to the remote.
// Remote failures never reach the caller; reads fall back to the mirror.
package skillhub

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"skillswap/backend/internal/config"
	"skillswap/backend/internal/models"
	"skillswap/backend/internal/notify"
	"skillswap/backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Service implements every entity operation.
type Service struct {
	Mirror   *storage.Mirror
	Remote   storage.Remote
	Notifier notify.Notifier
	Policy   config.AppConfig
	ReplyTo  string

	log      *zap.Logger
	validate *validator.Validate
	clock    func() time.Time

	tsMu   sync.Mutex
	lastTS int64
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithNotifier sets the request notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.Notifier = n }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithReplyTo sets the reply address put into notifications.
func WithReplyTo(addr string) Option {
	return func(s *Service) { s.ReplyTo = addr }
}

// NewService wires the mirror with a remote. A nil remote means offline.
func NewService(mirror *storage.Mirror, remote storage.Remote, policy config.AppConfig, opts ...Option) *Service {
	if remote == nil {
		remote = storage.Offline{}
	}
	s := &Service{
		Mirror:   mirror,
		Remote:   remote,
		Notifier: notify.Nop{},
		Policy:   policy,
		ReplyTo:  config.DefaultReplyTo,
		log:      zap.NewNop(),
		validate: validator.New(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp returns the current time in unix millis, strictly increasing
// across calls so recency orderings never tie.
func (s *Service) timestamp() int64 {
	s.tsMu.Lock()
	defer s.tsMu.Unlock()
	ts := s.clock().UnixMilli()
	if ts <= s.lastTS {
		ts = s.lastTS + 1
	}
	s.lastTS = ts
	return ts
}

func (s *Service) remoteFailed(op string, err error) {
	if errors.Is(err, storage.ErrRemoteUnavailable) {
		s.log.Debug("remote skipped, using local mirror", zap.String("op", op))
		return
	}
	s.log.Warn("remote call failed, using local mirror", zap.String("op", op), zap.Error(err))
}

func (s *Service) localFailed(op string, err error) {
	s.log.Error("saving local mirror failed", zap.String("op", op), zap.Error(err))
}

func (s *Service) checkText(field, value string, max int) error {
	if err := s.validate.Var(value, fmt.Sprintf("required,max=%d", max)); err != nil {
		return fmt.Errorf("%w: %s must be between 1 and %d characters", ErrInvalidInput, field, max)
	}
	return nil
}

func (s *Service) checkName(field, value string) error {
	if err := s.validate.Var(value, "required"); err != nil {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

// checkUsername also keeps the chat key separator out of names, so every
// chat ID maps back to exactly one pair of users.
func (s *Service) checkUsername(field, value string) error {
	if err := s.checkName(field, value); err != nil {
		return err
	}
	if err := s.validate.Var(value, "excludes="+models.ChatKeySeparator); err != nil {
		return fmt.Errorf("%w: %s must not contain %q", ErrInvalidInput, field, models.ChatKeySeparator)
	}
	return nil
}

// AddSkill creates a skill owned by in.Owner.
func (s *Service) AddSkill(ctx context.Context, in models.NewSkill) (models.Skill, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if err := s.checkUsername("owner", in.Owner); err != nil {
		return models.Skill{}, err
	}
	if err := s.checkText("title", title, s.Policy.MaxSkillTitleLength); err != nil {
		return models.Skill{}, err
	}
	if err := s.checkText("description", description, s.Policy.MaxSkillDescriptionLength); err != nil {
		return models.Skill{}, err
	}

	skill := models.Skill{
		ID:          models.NewID(),
		Title:       title,
		Description: description,
		Owner:       in.Owner,
		Timestamp:   s.timestamp(),
	}

	if err := s.Remote.PutSkill(ctx, skill); err != nil {
		s.remoteFailed("add skill", err)
	}
	if err := s.Mirror.AddSkill(skill); err != nil {
		s.localFailed("add skill", err)
	}

	s.log.Info("skill added", zap.String("skill_id", skill.ID), zap.String("owner", skill.Owner))
	return skill, nil
}

// ListSkills returns every skill, newest first.
func (s *Service) ListSkills(ctx context.Context) ([]models.Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	skills, err := s.Remote.ListSkills(ctx)
	if err != nil {
		s.remoteFailed("list skills", err)
		skills = s.Mirror.Skills()
	}
	if skills == nil {
		skills = []models.Skill{}
	}
	sort.SliceStable(skills, func(i, j int) bool { return skills[i].Timestamp > skills[j].Timestamp })
	return skills, nil
}

// findSkill looks in the mirror first and then in the remote.
func (s *Service) findSkill(ctx context.Context, id string) (models.Skill, bool) {
	if skill, ok := s.Mirror.FindSkill(id); ok {
		return skill, true
	}
	remote, err := s.Remote.ListSkills(ctx)
	if err != nil {
		s.remoteFailed("find skill", err)
		return models.Skill{}, false
	}
	for _, skill := range remote {
		if skill.ID == id {
			return skill, true
		}
	}
	return models.Skill{}, false
}

// DeleteSkill removes a skill if actingUser owns it. Unknown ids and foreign
// skills both yield ErrUnauthorized.
func (s *Service) DeleteSkill(ctx context.Context, id, actingUser string) error {
	skill, ok := s.findSkill(ctx, id)
	if !ok || actingUser == "" || skill.Owner != actingUser {
		s.log.Info("skill delete refused", zap.String("skill_id", id), zap.String("user", actingUser))
		return ErrUnauthorized
	}

	if err := s.Remote.DeleteSkill(ctx, id); err != nil {
		s.remoteFailed("delete skill", err)
	}
	if err := s.Mirror.RemoveSkill(id); err != nil {
		s.localFailed("delete skill", err)
	}

	s.log.Info("skill deleted", zap.String("skill_id", id), zap.String("owner", actingUser))
	return nil
}

// SendRequest records a request to learn a skill. With auto-accept on, the
// request is accepted immediately and a chat room between requester and
// owner is opened. The owner is then notified; notification failures are
// only logged.
func (s *Service) SendRequest(ctx context.Context, in models.NewRequest) (models.Request, error) {
	message := strings.TrimSpace(in.Message)
	if err := s.checkUsername("requester", in.Requester); err != nil {
		return models.Request{}, err
	}
	if err := s.checkUsername("skillOwner", in.SkillOwner); err != nil {
		return models.Request{}, err
	}
	if err := s.checkName("skillId", in.SkillID); err != nil {
		return models.Request{}, err
	}
	if err := s.checkText("message", message, s.Policy.MaxMessageLength); err != nil {
		return models.Request{}, err
	}
	if in.Requester == in.SkillOwner {
		return models.Request{}, ErrOwnSkill
	}

	title := in.SkillTitle
	if title == "" {
		if skill, ok := s.Mirror.FindSkill(in.SkillID); ok {
			title = skill.Title
		}
	}

	status := models.StatusPending
	if s.Policy.AutoAcceptRequests {
		status = models.StatusAccepted
	}

	req := models.Request{
		ID:         models.NewID(),
		SkillID:    in.SkillID,
		SkillTitle: title,
		SkillOwner: in.SkillOwner,
		Requester:  in.Requester,
		Message:    message,
		Status:     status,
		Timestamp:  s.timestamp(),
	}

	if err := s.Remote.PutRequest(ctx, req); err != nil {
		s.remoteFailed("send request", err)
	}
	if err := s.Mirror.AddRequest(req); err != nil {
		s.localFailed("send request", err)
	}

	if s.Policy.AutoAcceptRequests {
		if _, err := s.CreateChatRoom(ctx, req.SkillOwner, req.Requester, req.SkillTitle); err != nil {
			s.log.Error("opening chat for accepted request failed", zap.String("request_id", req.ID), zap.Error(err))
		}
	}

	err := s.Notifier.NotifyRequest(ctx, notify.RequestNotification{
		ToName:     req.SkillOwner,
		FromName:   req.Requester,
		SkillTitle: req.SkillTitle,
		Message:    req.Message,
		ReplyTo:    s.ReplyTo,
	})
	if err != nil {
		s.log.Warn("request notification failed", zap.String("request_id", req.ID), zap.Error(err))
	}

	s.log.Info("request sent",
		zap.String("request_id", req.ID),
		zap.String("skill_id", req.SkillID),
		zap.String("requester", req.Requester),
		zap.String("status", string(req.Status)),
	)
	return req, nil
}

// ListRequests returns the requests made by username, newest first.
func (s *Service) ListRequests(ctx context.Context, username string) ([]models.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := s.Remote.ListRequests(ctx)
	if err != nil {
		s.remoteFailed("list requests", err)
		all = s.Mirror.Requests()
	}

	reqs := make([]models.Request, 0, len(all))
	for _, r := range all {
		if r.Requester == username {
			reqs = append(reqs, r)
		}
	}
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].Timestamp > reqs[j].Timestamp })
	return reqs, nil
}

// CreateChatRoom opens the room between a and b, or returns it unchanged if
// it already exists.
func (s *Service) CreateChatRoom(ctx context.Context, a, b, skillTitle string) (models.ChatRoom, error) {
	if err := s.checkUsername("participant", a); err != nil {
		return models.ChatRoom{}, err
	}
	if err := s.checkUsername("participant", b); err != nil {
		return models.ChatRoom{}, err
	}
	if a == b {
		return models.ChatRoom{}, fmt.Errorf("%w: a chat needs two different participants", ErrInvalidInput)
	}

	pair := models.NewParticipantPair(a, b)
	if existing, ok := s.Mirror.ChatRoom(pair.Key()); ok && len(existing.Participants) == 2 {
		return existing, nil
	}

	ts := s.timestamp()
	room := models.ChatRoom{
		ID:           pair.Key(),
		Participants: pair.Members(),
		SkillTitle:   skillTitle,
		Messages:     []models.Message{},
		LastActivity: ts,
		Created:      ts,
	}

	if err := s.Remote.CreateChatRoom(ctx, room); err != nil {
		s.remoteFailed("create chat", err)
	}
	stored, created, err := s.Mirror.PutChatRoomIfAbsent(room)
	if err != nil {
		s.localFailed("create chat", err)
	}
	if created {
		s.log.Info("chat room created", zap.String("chat_id", room.ID), zap.String("skill_title", skillTitle))
	}
	return stored, nil
}

// MemberChatRoom returns the chat if username is one of its participants.
// The mirror is consulted first, then the remote. Unknown chats and foreign
// chats both yield ErrNotParticipant.
func (s *Service) MemberChatRoom(ctx context.Context, chatID, username string) (models.ChatRoom, error) {
	if room, ok := s.Mirror.ChatRoom(chatID); ok && len(room.Participants) > 0 {
		if room.HasParticipant(username) {
			return room, nil
		}
		return models.ChatRoom{}, ErrNotParticipant
	}

	rooms, err := s.Remote.ListChatRooms(ctx)
	if err != nil {
		s.remoteFailed("find chat", err)
		return models.ChatRoom{}, ErrNotParticipant
	}
	for _, room := range rooms {
		if room.ID == chatID && room.HasParticipant(username) {
			return room, nil
		}
	}
	return models.ChatRoom{}, ErrNotParticipant
}

// SendMessage appends a message to the chat.
func (s *Service) SendMessage(ctx context.Context, chatID, sender, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if err := s.checkName("chatId", chatID); err != nil {
		return models.Message{}, err
	}
	if err := s.checkUsername("sender", sender); err != nil {
		return models.Message{}, err
	}
	if err := s.checkText("message", text, s.Policy.MaxMessageLength); err != nil {
		return models.Message{}, err
	}

	ts := s.timestamp()
	msg := models.Message{
		ID:        models.NewID(),
		ChatID:    chatID,
		Sender:    sender,
		Message:   text,
		Timestamp: ts,
	}

	if err := s.Remote.AppendMessage(ctx, chatID, msg, ts); err != nil {
		s.remoteFailed("send message", err)
	}
	if err := s.Mirror.AppendMessage(chatID, msg, ts); err != nil {
		s.localFailed("send message", err)
	}
	return msg, nil
}

// ListChatRooms returns the rooms username takes part in, most recently
// active first.
func (s *Service) ListChatRooms(ctx context.Context, username string) ([]models.ChatRoom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := s.Remote.ListChatRooms(ctx)
	if err != nil {
		s.remoteFailed("list chats", err)
		all = s.Mirror.ChatRooms()
	}

	rooms := make([]models.ChatRoom, 0, len(all))
	for _, room := range all {
		if !room.HasParticipant(username) {
			continue
		}
		if room.Messages == nil {
			room.Messages = []models.Message{}
		}
		sortMessages(room.Messages)
		rooms = append(rooms, room)
	}
	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].LastActivity > rooms[j].LastActivity })
	return rooms, nil
}

// ListMessages returns a chat's messages, oldest first. Unknown chats have none.
func (s *Service) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	msgs, err := s.Remote.ListMessages(ctx, chatID)
	if err != nil {
		s.remoteFailed("list messages", err)
		msgs = s.Mirror.Messages(chatID)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	sortMessages(msgs)
	return msgs, nil
}

func sortMessages(msgs []models.Message) {
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp < msgs[j].Timestamp })
}

// Load replaces the mirror's skills with the remote's when the remote
// answers. Nothing is pushed the other way: entities created while offline
// stay local.
func (s *Service) Load(ctx context.Context) error {
	skills, err := s.Remote.ListSkills(ctx)
	if err != nil {
		s.remoteFailed("load skills", err)
		return nil
	}
	if err := s.Mirror.ReplaceSkills(skills); err != nil {
		return fmt.Errorf("storing remote skills locally: %w", err)
	}
	s.log.Info("loaded skills from remote", zap.Int("count", len(skills)))
	return nil
}

// SeedSamples adds the sample skills when there are none and reports how
// many were added.
func (s *Service) SeedSamples(ctx context.Context, samples []config.SampleSkill) (int, error) {
	existing, err := s.ListSkills(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, sample := range samples {
		_, err := s.AddSkill(ctx, models.NewSkill{
			Title:       sample.Title,
			Description: sample.Description,
			Owner:       sample.Owner,
		})
		if err != nil {
			return 0, fmt.Errorf("seeding %q: %w", sample.Title, err)
		}
	}
	return len(samples), nil
}
