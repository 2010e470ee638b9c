package memory

import (
	"sync"
	"time"

	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository holds the live bot sessions, keyed by chat id. It is the
// only shared mutable resource of the bot subsystem; callers serialize all
// per-chat work through LockChat.
type SessionRepository struct {
	cache *cache.Cache
	locks sync.Map // chat id -> *sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	// The cache expiry is only a backstop; the idle sweeper is the real
	// reaper. Purge expired entries hourly.
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ChatId.String(), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(chatId uuid.UUID) (*store.Session, bool) {
	if x, found := r.cache.Get(chatId.String()); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(chatId uuid.UUID) {
	r.cache.Delete(chatId.String())
}

func (r *SessionRepository) Exists(chatId uuid.UUID) bool {
	_, found := r.cache.Get(chatId.String())
	return found
}

// ForEach visits every live session.
func (r *SessionRepository) ForEach(fn func(session *store.Session)) {
	for _, item := range r.cache.Items() {
		if session, ok := item.Object.(*store.Session); ok {
			fn(session)
		}
	}
}

// ForEachIdleBefore visits every session whose last activity predates the
// cutoff. The visit runs outside the per-chat lock; callers that mutate must
// re-lock through LockChat.
func (r *SessionRepository) ForEachIdleBefore(cutoff time.Time, fn func(session *store.Session)) {
	for _, item := range r.cache.Items() {
		session, ok := item.Object.(*store.Session)
		if !ok {
			continue
		}
		if session.IdleSince(cutoff) {
			fn(session)
		}
	}
}

// LockChat acquires the mutex for one chat id and returns its release func.
// Locking is per key: unrelated chats never contend.
func (r *SessionRepository) LockChat(chatId uuid.UUID) func() {
	m, _ := r.locks.LoadOrStore(chatId.String(), &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
