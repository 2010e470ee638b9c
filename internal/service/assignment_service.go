// FILE: internal/service/assignment_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/mailer"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/specification"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/unitofwork"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/websocket"
)

type IAssignmentService interface {
	Consume(ctx context.Context) error
}

// assignmentService reacts to terminal-node signals: hand-offs get routed to
// the least-loaded active agent, resolutions get announced to the console.
type assignmentService struct {
	pubSub       *gochannel.GoChannel
	uowFactory   unitofwork.RepositoryFactory
	hub          *websocket.Hub
	emailService mailer.IEmailService
}

func NewAssignmentService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	hub *websocket.Hub,
	emailService mailer.IEmailService,
) IAssignmentService {
	return &assignmentService{
		pubSub:       pubSub,
		uowFactory:   uowFactory,
		hub:          hub,
		emailService: emailService,
	}
}

func (s *assignmentService) Consume(ctx context.Context) error {
	handoffs, err := s.pubSub.Subscribe(ctx, TopicChatHandoff)
	if err != nil {
		return err
	}
	resolved, err := s.pubSub.Subscribe(ctx, TopicChatResolved)
	if err != nil {
		return err
	}

	go func() {
		for msg := range handoffs {
			s.processHandoff(ctx, msg)
		}
	}()
	go func() {
		for msg := range resolved {
			s.processResolved(msg)
		}
	}()

	return nil
}

func (s *assignmentService) processHandoff(ctx context.Context, msg *message.Message) {
	var signal ChatSignal
	if err := json.Unmarshal(msg.Payload, &signal); err != nil {
		log.Printf("[ERROR] Failed to unmarshal handoff signal: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	chatId, err := uuid.Parse(signal.ChatId)
	if err != nil {
		log.Printf("[ERROR] Handoff signal carried bad chat id %q", signal.ChatId)
		msg.Ack()
		return
	}

	agent, err := s.pickAgent(ctx)
	if err != nil {
		log.Printf("[ERROR] Failed to query agents for handoff: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if agent == nil {
		// No one is available. The chat stays in the waiting pool; the
		// console shows it through the unassigned-active filter.
		log.Printf("[WARN] No active agent for chat %s, left unassigned", chatId)
		s.hub.Broadcast(websocket.Event{
			Type: "chat.waiting",
			Data: map[string]interface{}{
				"chat_id":      signal.ChatId,
				"phone":        signal.Phone,
				"contact_name": signal.ContactName,
			},
		})
		msg.Ack()
		return
	}

	if err := s.assign(ctx, chatId, agent.Id); err != nil {
		log.Printf("[ERROR] Failed to assign chat %s to agent %s: %v", chatId, agent.Id, err)
		msg.Nack()
		return
	}

	s.hub.Send(agent.Id, websocket.Event{
		Type: "chat.assigned",
		Data: map[string]interface{}{
			"chat_id":      signal.ChatId,
			"phone":        signal.Phone,
			"contact_name": signal.ContactName,
		},
	})

	go func() {
		if err := s.emailService.SendHandoffNotice(agent.Email, signal.ContactName, signal.Phone); err != nil {
			log.Printf("[WARN] Failed to mail handoff notice to %s: %v", agent.Email, err)
		}
	}()

	msg.Ack()
}

func (s *assignmentService) processResolved(msg *message.Message) {
	var signal ChatSignal
	if err := json.Unmarshal(msg.Payload, &signal); err != nil {
		log.Printf("[ERROR] Failed to unmarshal resolved signal: %v", err)
		msg.Ack()
		return
	}

	s.hub.Broadcast(websocket.Event{
		Type: "chat.resolved",
		Data: map[string]interface{}{
			"chat_id": signal.ChatId,
			"phone":   signal.Phone,
		},
	})
	msg.Ack()
}

// pickAgent returns the active agent with the fewest open chats, nil when
// nobody is active.
func (s *assignmentService) pickAgent(ctx context.Context) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	agents, err := uow.UserRepository().FindAll(ctx, specification.ActiveAgents{})
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, nil
	}

	var best *entity.User
	var bestLoad int64
	for _, agent := range agents {
		load, err := uow.ChatRepository().CountOpenByAgent(ctx, agent.Id)
		if err != nil {
			return nil, err
		}
		if best == nil || load < bestLoad {
			best = agent
			bestLoad = load
		}
	}
	return best, nil
}

func (s *assignmentService) assign(ctx context.Context, chatId, agentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return err
	}
	if chat == nil {
		return nil
	}

	chat.AssignedAgentId = &agentId
	return uow.ChatRepository().Update(ctx, chat)
}
