package store

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session is the live state of one bot conversation: where the chat is in
// its flow plus everything captured along the way. Exactly one session may
// exist per chat at a time.
//
// Cursor and variables are guarded by the repository's per-chat lock. The
// activity timestamp is atomic because the idle sweeper scans it without
// taking that lock.
type Session struct {
	ChatId        uuid.UUID
	FlowId        uuid.UUID
	CurrentNodeId string
	Variables     map[string]interface{}
	CreatedAt     time.Time

	lastActivity atomic.Int64 // unix nanoseconds
}

func NewSession(chatId, flowId uuid.UUID, startNodeId string, defaults map[string]interface{}) *Session {
	variables := make(map[string]interface{}, len(defaults))
	for k, v := range defaults {
		variables[k] = v
	}
	now := time.Now()
	s := &Session{
		ChatId:        chatId,
		FlowId:        flowId,
		CurrentNodeId: startNodeId,
		Variables:     variables,
		CreatedAt:     now,
	}
	s.lastActivity.Store(now.UnixNano())
	return s
}

// Touch bumps the activity timestamp. It never moves backwards.
func (s *Session) Touch() {
	now := time.Now().UnixNano()
	for {
		prev := s.lastActivity.Load()
		if now <= prev || s.lastActivity.CompareAndSwap(prev, now) {
			return
		}
	}
}

// LastActivityAt returns the moment of the most recent activity.
func (s *Session) LastActivityAt() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// SetLastActivityAt overwrites the activity timestamp.
func (s *Session) SetLastActivityAt(t time.Time) {
	s.lastActivity.Store(t.UnixNano())
}

// IdleSince reports whether the session has seen no activity since the cutoff.
func (s *Session) IdleSince(cutoff time.Time) bool {
	return s.lastActivity.Load() < cutoff.UnixNano()
}

// Snapshot produces the serializable view mirrored onto the chat record as
// bot_context.
func (s *Session) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"flow_id":          s.FlowId.String(),
		"current_node_id":  s.CurrentNodeId,
		"variables":        s.Variables,
		"created_at":       s.CreatedAt,
		"last_activity_at": s.LastActivityAt(),
	}
}
