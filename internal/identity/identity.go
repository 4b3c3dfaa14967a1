// Package identity hands out guest display names and keeps the per-user
// session state. The display name is the only identity credential the
// system has.
package identity

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"skillswap/backend/internal/config"

	"github.com/patrickmn/go-cache"
)

// Generator builds names like "HappyPanda42" from two word lists.
type Generator struct {
	Adjectives []string
	Nouns      []string
	// Intn returns a value in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
}

// NewGenerator uses the configured word lists.
func NewGenerator() *Generator {
	return &Generator{
		Adjectives: config.UsernameAdjectives,
		Nouns:      config.UsernameNouns,
		Intn:       rand.IntN,
	}
}

// Username returns a fresh guest name. Uniqueness against other users is not
// checked.
func (g *Generator) Username() string {
	intn := g.Intn
	if intn == nil {
		intn = rand.IntN
	}
	adjective := g.Adjectives[intn(len(g.Adjectives))]
	noun := g.Nouns[intn(len(g.Nouns))]
	return fmt.Sprintf("%s%s%d", adjective, noun, intn(config.UsernameSuffixRange))
}

// Section is the part of the app the user is looking at.
type Section string

const (
	SectionLearn    Section = "learn"
	SectionShare    Section = "share"
	SectionRequests Section = "requests"
	SectionChat     Section = "chat"
)

// Session is the state kept for one guest between calls.
type Session struct {
	Username string
	Created  time.Time

	mu             sync.Mutex
	currentChat    string
	currentSection Section
	lastSeen       map[string]int64
}

// NewSession starts a session in the learn section.
func NewSession(username string, now time.Time) *Session {
	return &Session{
		Username:       username,
		Created:        now,
		currentSection: SectionLearn,
		lastSeen:       make(map[string]int64),
	}
}

// OpenChat records chatID as the open chat and marks it seen at ts.
func (s *Session) OpenChat(chatID string, ts int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentChat = chatID
	s.lastSeen[chatID] = ts
}

// CloseChat clears the open chat.
func (s *Session) CloseChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentChat = ""
}

// CurrentChat returns the open chat, if any.
func (s *Session) CurrentChat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentChat
}

// SwitchSection changes the current section.
func (s *Session) SwitchSection(section Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSection = section
}

// CurrentSection returns the current section.
func (s *Session) CurrentSection() Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSection
}

// HasNew reports whether a chat saw activity after the user last opened it.
func (s *Session) HasNew(chatID string, lastActivity int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lastActivity > s.lastSeen[chatID]
}

// Registry keeps sessions in memory and forgets them after ttl of inactivity.
type Registry struct {
	sessions *cache.Cache
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates a registry; ttl <= 0 keeps sessions forever.
func NewRegistry(ttl time.Duration) *Registry {
	exp := ttl
	if exp <= 0 {
		exp = cache.NoExpiration
	}
	return &Registry{
		sessions: cache.New(exp, 10*time.Minute),
		ttl:      exp,
		now:      time.Now,
	}
}

// Get returns the session for username, creating one if it expired or never
// existed, and refreshes its expiry.
func (r *Registry) Get(username string) *Session {
	if v, ok := r.sessions.Get(username); ok {
		s := v.(*Session)
		r.sessions.Set(username, s, r.ttl)
		return s
	}
	s := NewSession(username, r.now())
	r.sessions.Set(username, s, r.ttl)
	return s
}

// Drop forgets a session.
func (r *Registry) Drop(username string) {
	r.sessions.Delete(username)
}
