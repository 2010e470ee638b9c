package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTouchNeverMovesBackwards(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New(), "inicio", nil)

	future := time.Now().Add(time.Hour)
	s.SetLastActivityAt(future)
	s.Touch()

	if got := s.LastActivityAt(); !got.Equal(future) {
		t.Errorf("LastActivityAt = %v, want %v", got, future)
	}
}

func TestIdleSince(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New(), "inicio", nil)

	if s.IdleSince(time.Now().Add(-time.Minute)) {
		t.Error("new session reported idle against a past cutoff")
	}

	s.SetLastActivityAt(time.Now().Add(-time.Hour))
	if !s.IdleSince(time.Now().Add(-30 * time.Minute)) {
		t.Error("stale session not reported idle")
	}
}
