package bot

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/store"
)

// Sweeper discards sessions whose chats have gone quiet past the engine's
// idle timeout. Abandoned sessions vanish without any outbound message; the
// chat row keeps its last status.
type Sweeper struct {
	engine *Engine
	cron   *cron.Cron
}

func NewSweeper(engine *Engine) *Sweeper {
	return &Sweeper{
		engine: engine,
		cron:   cron.New(),
	}
}

// Start schedules the sweep every minute. Call Stop on shutdown.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep runs one expiry pass. Each candidate is rechecked under its chat
// lock so a message racing the sweep keeps its session alive.
func (s *Sweeper) Sweep() {
	eng := s.engine
	cutoff := time.Now().Add(-eng.IdleTimeout())

	var expired []*store.Session
	eng.Sessions().ForEachIdleBefore(cutoff, func(session *store.Session) {
		expired = append(expired, session)
	})

	for _, session := range expired {
		unlock := eng.Sessions().LockChat(session.ChatId)

		current, ok := eng.Sessions().Get(session.ChatId)
		if !ok || !current.IdleSince(cutoff) {
			unlock()
			continue
		}
		eng.Sessions().Delete(session.ChatId)
		eng.flowCacheMaybeEvict(current.FlowId)
		eng.logger.Info("BotEngine", "Idle session expired", map[string]interface{}{
			"chat_id": session.ChatId.String(),
			"flow_id": current.FlowId.String(),
		})
		unlock()
	}
}
