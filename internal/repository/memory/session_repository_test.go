package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/store"
)

func TestConcurrentActivityDuringIdleScan(t *testing.T) {
	repo := NewSessionRepository()
	chatId := uuid.New()
	repo.Save(store.NewSession(chatId, uuid.New(), "inicio", nil))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			unlock := repo.LockChat(chatId)
			if s, ok := repo.Get(chatId); ok {
				s.Touch()
			}
			unlock()
		}
	}()

	cutoff := time.Now().Add(-time.Minute)
	for i := 0; i < 200; i++ {
		repo.ForEachIdleBefore(cutoff, func(s *store.Session) {
			t.Error("freshly touched session reported idle")
		})
	}

	close(stop)
	wg.Wait()

	s, ok := repo.Get(chatId)
	require.True(t, ok)
	assert.False(t, s.IdleSince(cutoff))
}

func TestForEachIdleBeforeSelectsOnlyStale(t *testing.T) {
	repo := NewSessionRepository()

	stale := store.NewSession(uuid.New(), uuid.New(), "inicio", nil)
	stale.SetLastActivityAt(time.Now().Add(-time.Hour))
	repo.Save(stale)

	fresh := store.NewSession(uuid.New(), uuid.New(), "inicio", nil)
	repo.Save(fresh)

	var visited []uuid.UUID
	repo.ForEachIdleBefore(time.Now().Add(-30*time.Minute), func(s *store.Session) {
		visited = append(visited, s.ChatId)
	})

	assert.Equal(t, []uuid.UUID{stale.ChatId}, visited)
}
