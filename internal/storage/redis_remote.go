package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"skillswap/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisRemote keeps the entity tree in Redis:
//
//	{prefix}skills                   hash  id -> skill JSON
//	{prefix}requests                 hash  id -> request JSON
//	{prefix}chats                    hash  id -> room JSON (without messages)
//	{prefix}chats/{id}/messages      hash  id -> message JSON
//	{prefix}chats/{id}/lastActivity  string
//
// Every write publishes the changed collection path on {prefix}changes.
type RedisRemote struct {
	Redis  *redis.Client
	Prefix string
}

var (
	_ Remote       = (*RedisRemote)(nil)
	_ ChangeSource = (*RedisRemote)(nil)
)

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("%w: redis ping: %v", ErrRemoteUnavailable, err)
	}
	return rdb, nil
}

// NewRedisRemote wraps an existing client.
func NewRedisRemote(rdb *redis.Client, prefix string) *RedisRemote {
	return &RedisRemote{Redis: rdb, Prefix: prefix}
}

func (r *RedisRemote) key(path string) string { return r.Prefix + path }

func (r *RedisRemote) changesChannel() string { return r.Prefix + "changes" }

func (r *RedisRemote) publish(ctx context.Context, pipe redis.Pipeliner, paths ...string) {
	for _, p := range paths {
		pipe.Publish(ctx, r.changesChannel(), p)
	}
}

func (r *RedisRemote) PutSkill(ctx context.Context, skill models.Skill) error {
	raw, err := json.Marshal(skill)
	if err != nil {
		return err
	}
	_, err = r.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key(PathSkills), skill.ID, raw)
		r.publish(ctx, pipe, PathSkills)
		return nil
	})
	return err
}

func (r *RedisRemote) DeleteSkill(ctx context.Context, id string) error {
	_, err := r.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, r.key(PathSkills), id)
		r.publish(ctx, pipe, PathSkills)
		return nil
	})
	return err
}

func (r *RedisRemote) ListSkills(ctx context.Context) ([]models.Skill, error) {
	entries, err := r.Redis.HGetAll(ctx, r.key(PathSkills)).Result()
	if err != nil {
		return nil, err
	}
	skills := make([]models.Skill, 0, len(entries))
	for id, raw := range entries {
		var s models.Skill
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("decoding skill %s: %w", id, err)
		}
		s.ID = id
		skills = append(skills, s)
	}
	return skills, nil
}

func (r *RedisRemote) PutRequest(ctx context.Context, req models.Request) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return err
	}
	_, err = r.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key(PathRequests), req.ID, raw)
		r.publish(ctx, pipe, PathRequests)
		return nil
	})
	return err
}

func (r *RedisRemote) ListRequests(ctx context.Context) ([]models.Request, error) {
	entries, err := r.Redis.HGetAll(ctx, r.key(PathRequests)).Result()
	if err != nil {
		return nil, err
	}
	reqs := make([]models.Request, 0, len(entries))
	for id, raw := range entries {
		var req models.Request
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, fmt.Errorf("decoding request %s: %w", id, err)
		}
		req.ID = id
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func (r *RedisRemote) CreateChatRoom(ctx context.Context, room models.ChatRoom) error {
	meta := room
	meta.Messages = nil
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	created, err := r.Redis.HSetNX(ctx, r.key(PathChats), room.ID, raw).Result()
	if err != nil {
		return err
	}
	if !created {
		return nil
	}
	_, err = r.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, r.key(LastActivityPath(room.ID)), room.LastActivity, 0)
		r.publish(ctx, pipe, PathChats)
		return nil
	})
	return err
}

func (r *RedisRemote) ListChatRooms(ctx context.Context) ([]models.ChatRoom, error) {
	entries, err := r.Redis.HGetAll(ctx, r.key(PathChats)).Result()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []models.ChatRoom{}, nil
	}

	type roomCmds struct {
		room     models.ChatRoom
		activity *redis.StringCmd
		messages *redis.MapStringStringCmd
	}
	pending := make([]*roomCmds, 0, len(entries))

	_, err = r.Redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, raw := range entries {
			var room models.ChatRoom
			if err := json.Unmarshal([]byte(raw), &room); err != nil {
				return fmt.Errorf("decoding chat %s: %w", id, err)
			}
			room.ID = id
			pending = append(pending, &roomCmds{
				room:     room,
				activity: pipe.Get(ctx, r.key(LastActivityPath(id))),
				messages: pipe.HGetAll(ctx, r.key(MessagesPath(id))),
			})
		}
		return nil
	})
	// A chat without a lastActivity key makes the pipeline report redis.Nil.
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	rooms := make([]models.ChatRoom, 0, len(pending))
	for _, p := range pending {
		room := p.room
		if v, err := p.activity.Result(); err == nil {
			if ts, convErr := strconv.ParseInt(v, 10, 64); convErr == nil {
				room.LastActivity = ts
			}
		}
		msgs, err := decodeMessages(room.ID, p.messages.Val())
		if err != nil {
			return nil, err
		}
		room.Messages = msgs
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (r *RedisRemote) AppendMessage(ctx context.Context, chatID string, msg models.Message, lastActivity int64) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = r.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key(MessagesPath(chatID)), msg.ID, raw)
		pipe.Set(ctx, r.key(LastActivityPath(chatID)), lastActivity, 0)
		r.publish(ctx, pipe, MessagesPath(chatID), PathChats)
		return nil
	})
	return err
}

func (r *RedisRemote) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	entries, err := r.Redis.HGetAll(ctx, r.key(MessagesPath(chatID))).Result()
	if err != nil {
		return nil, err
	}
	return decodeMessages(chatID, entries)
}

func decodeMessages(chatID string, entries map[string]string) ([]models.Message, error) {
	msgs := make([]models.Message, 0, len(entries))
	for id, raw := range entries {
		var m models.Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decoding message %s: %w", id, err)
		}
		m.ID = id
		m.ChatID = chatID
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Changes subscribes to the change channel. The returned channel is closed
// when ctx ends or the subscription drops.
func (r *RedisRemote) Changes(ctx context.Context) (<-chan string, error) {
	pubsub := r.Redis.Subscribe(ctx, r.changesChannel())
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", r.changesChannel(), err)
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				path := strings.TrimSpace(msg.Payload)
				select {
				case out <- path:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (r *RedisRemote) Close() error {
	return r.Redis.Close()
}
