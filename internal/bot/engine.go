package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/constant"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/logger"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/memory"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/store"

	"github.com/google/uuid"
)

// Well-known variable bag keys written by the engine.
const (
	VarUserResponse   = "user_response"
	VarSelectedButton = "selected_button"
	VarDebtor         = "debtor"
	VarDebtorFound    = "debtorFound"
)

// maxChainHops bounds a single auto-advance chain. Cycles are legal in
// flows, but a chain that never suspends is a misconfiguration.
const maxChainHops = 64

// FlowLoader resolves an active flow definition. Implementations return
// ErrFlowNotFound for missing or non-active flows.
type FlowLoader interface {
	LoadActiveFlow(ctx context.Context, flowId uuid.UUID) (*entity.Flow, error)
}

// ChoiceOption is one interactive reply option handed to the transport.
type ChoiceOption struct {
	Id    string
	Label string
}

// Messenger delivers outbound WhatsApp content. SendChoice renders up to 3
// options as reply buttons and falls back to a list widget beyond that.
type Messenger interface {
	SendText(ctx context.Context, chat *entity.Chat, text string) (messageId string, err error)
	SendChoice(ctx context.Context, chat *entity.Chat, title, body string, options []ChoiceOption) (messageId string, err error)
}

// ChatGateway reads and mirrors the chat record and its message history.
type ChatGateway interface {
	GetChat(ctx context.Context, chatId uuid.UUID) (*entity.Chat, error)
	UpdateChat(ctx context.Context, chat *entity.Chat) error
	RecordOutbound(ctx context.Context, chatId uuid.UUID, content, externalId string, buttons []map[string]interface{}, failed bool) error
}

// DebtorGateway is the CRM lookup used by the document-capture input step.
type DebtorGateway interface {
	FindByDocument(ctx context.Context, documentType, documentNumber string) (*entity.Debtor, error)
	TouchLastContacted(ctx context.Context, debtorId uuid.UUID) error
}

// Signaler notifies the surrounding workflows when a session reaches a
// terminal node or identifies a debtor.
type Signaler interface {
	HandOff(ctx context.Context, chat *entity.Chat) error
	Resolved(ctx context.Context, chat *entity.Chat) error
	DebtorContacted(ctx context.Context, chat *entity.Chat, debtorId uuid.UUID) error
}

// Options tune per-deployment engine behavior.
type Options struct {
	// IdleTimeout is how long a session may sit without activity before the
	// sweeper reaps it.
	IdleTimeout time.Duration
	// DocumentVariable is the input-node variable name that triggers the
	// debtor lookup.
	DocumentVariable string
	// DocumentType is the document type the lookup queries with.
	DocumentType string
}

func (o *Options) applyDefaults() {
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 30 * time.Minute
	}
	if o.DocumentVariable == "" {
		o.DocumentVariable = "document_number"
	}
	if o.DocumentType == "" {
		o.DocumentType = "CC"
	}
}

// Engine walks flow graphs per chat session: it executes nodes, suspends on
// input-waiting node types, routes inbound messages and decides when the
// conversation leaves bot control. All work for one chat runs under that
// chat's lock; unrelated chats never contend.
type Engine struct {
	flows     FlowLoader
	sessions  *memory.SessionRepository
	messenger Messenger
	chats     ChatGateway
	debtors   DebtorGateway
	signals   Signaler
	logger    logger.ILogger
	opts      Options

	// Loaded flow definitions, immutable for the lifetime of the sessions
	// that reference them. Flow edits never affect sessions in progress.
	flowCache sync.Map // uuid.UUID -> *entity.Flow
}

func NewEngine(
	flows FlowLoader,
	sessions *memory.SessionRepository,
	messenger Messenger,
	chats ChatGateway,
	debtors DebtorGateway,
	signals Signaler,
	log logger.ILogger,
	opts Options,
) *Engine {
	opts.applyDefaults()
	return &Engine{
		flows:     flows,
		sessions:  sessions,
		messenger: messenger,
		chats:     chats,
		debtors:   debtors,
		signals:   signals,
		logger:    log,
		opts:      opts,
	}
}

// Sessions exposes the session repository for the sweeper and for status
// queries by the service layer.
func (e *Engine) Sessions() *memory.SessionRepository {
	return e.sessions
}

// IdleTimeout returns the configured idle threshold.
func (e *Engine) IdleTimeout() time.Duration {
	return e.opts.IdleTimeout
}

// StartFlow begins the given flow for a chat. Any prior session for the
// chat is replaced entirely; its variables are discarded.
func (e *Engine) StartFlow(ctx context.Context, chatId, flowId uuid.UUID) error {
	flow, err := e.flows.LoadActiveFlow(ctx, flowId)
	if err != nil {
		return err
	}
	if flow.StartNodeId == "" {
		return newConfigError(flow.Id, "", "flow has no start node")
	}
	if flow.FindNode(flow.StartNodeId) == nil {
		return newConfigError(flow.Id, flow.StartNodeId, "start node does not exist")
	}

	unlock := e.sessions.LockChat(chatId)
	defer unlock()

	chat, err := e.chats.GetChat(ctx, chatId)
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("%w: %s", ErrChatNotFound, chatId)
	}

	e.flowCache.Store(flow.Id, flow)

	session := store.NewSession(chatId, flow.Id, flow.StartNodeId, flow.Variables)
	e.sessions.Save(session)

	chat.Status = constant.ChatStatusBot
	e.syncChat(ctx, chat, session)

	e.logger.Info("BotEngine", "Flow started", map[string]interface{}{
		"chat_id": chatId.String(),
		"flow_id": flowId.String(),
	})

	return e.runChain(ctx, chat, flow, session, flow.StartNodeId)
}

// HandleIncoming feeds one inbound user message into the chat's session.
// It reports false when no session exists for the chat, in which case the
// caller decides whether to start a flow or leave the chat to a human.
func (e *Engine) HandleIncoming(ctx context.Context, chatId uuid.UUID, input string) (bool, error) {
	unlock := e.sessions.LockChat(chatId)
	defer unlock()

	session, found := e.sessions.Get(chatId)
	if !found {
		return false, nil
	}

	flow, err := e.flowForSession(ctx, session)
	if err != nil {
		return true, err
	}

	node := flow.FindNode(session.CurrentNodeId)
	if node == nil {
		// Corrupt cursor: fatal for this session.
		e.sessions.Delete(chatId)
		return true, fmt.Errorf("%w: %s", ErrNodeNotFound, session.CurrentNodeId)
	}

	chat, err := e.chats.GetChat(ctx, chatId)
	if err != nil {
		return true, err
	}
	if chat == nil {
		e.sessions.Delete(chatId)
		return true, fmt.Errorf("%w: %s", ErrChatNotFound, chatId)
	}

	session.Touch()

	nextId, routed, err := e.routeInput(ctx, chat, flow, session, node, input)
	if err != nil {
		e.sessions.Save(session)
		e.syncChat(ctx, chat, session)
		return true, err
	}
	if !routed {
		// Soft outcome: validation failure or no matching rule. The cursor
		// stays parked and the next inbound message tries again.
		e.sessions.Save(session)
		e.syncChat(ctx, chat, session)
		return true, nil
	}

	return true, e.runChain(ctx, chat, flow, session, nextId)
}

// runChain executes nodes starting at nodeId, following auto-advances until
// the chain suspends or the flow terminates.
func (e *Engine) runChain(ctx context.Context, chat *entity.Chat, flow *entity.Flow, session *store.Session, nodeId string) error {
	for hops := 0; hops < maxChainHops; hops++ {
		node := flow.FindNode(nodeId)
		if node == nil {
			e.sessions.Save(session)
			e.syncChat(ctx, chat, session)
			return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeId)
		}

		lastGoodNodeId := session.CurrentNodeId
		session.CurrentNodeId = node.Id
		session.Touch()

		result, err := e.executeNode(ctx, chat, flow, session, node)
		if err != nil {
			// Leave the session parked on its last good node.
			session.CurrentNodeId = lastGoodNodeId
			e.sessions.Save(session)
			e.syncChat(ctx, chat, session)
			return err
		}

		if result.terminal {
			e.sessions.Delete(session.ChatId)
			e.flowCacheMaybeEvict(flow.Id)
			chat.Status = result.status
			chat.BotContext = nil
			if err := e.chats.UpdateChat(ctx, chat); err != nil {
				e.logger.Error("BotEngine", "Failed to update chat on flow end", map[string]interface{}{
					"chat_id": chat.Id.String(),
					"error":   err.Error(),
				})
			}
			return nil
		}

		if result.suspend {
			if result.next != "" {
				session.CurrentNodeId = result.next
			}
			e.sessions.Save(session)
			e.syncChat(ctx, chat, session)
			return nil
		}

		if result.next == "" {
			// Dead end: nothing to advance to and nothing to wait for.
			e.logger.Warn("BotEngine", "Flow dead end, suspending in place", map[string]interface{}{
				"chat_id": chat.Id.String(),
				"node_id": node.Id,
			})
			e.sessions.Save(session)
			e.syncChat(ctx, chat, session)
			return nil
		}

		nodeId = result.next
	}

	e.logger.Warn("BotEngine", "Auto-advance hop limit reached, suspending", map[string]interface{}{
		"chat_id": chat.Id.String(),
		"node_id": session.CurrentNodeId,
	})
	e.sessions.Save(session)
	e.syncChat(ctx, chat, session)
	return nil
}

// flowForSession returns the definition the session was started with,
// loading it only when the engine restarted since.
func (e *Engine) flowForSession(ctx context.Context, session *store.Session) (*entity.Flow, error) {
	if cached, ok := e.flowCache.Load(session.FlowId); ok {
		return cached.(*entity.Flow), nil
	}
	flow, err := e.flows.LoadActiveFlow(ctx, session.FlowId)
	if err != nil {
		return nil, err
	}
	e.flowCache.Store(flow.Id, flow)
	return flow, nil
}

// flowCacheMaybeEvict drops a cached flow once no session references it.
func (e *Engine) flowCacheMaybeEvict(flowId uuid.UUID) {
	inUse := false
	e.sessions.ForEach(func(s *store.Session) {
		if s.FlowId == flowId {
			inUse = true
		}
	})
	if !inUse {
		e.flowCache.Delete(flowId)
	}
}

// syncChat mirrors the session snapshot onto the chat record so external
// viewers see consistent bot state.
func (e *Engine) syncChat(ctx context.Context, chat *entity.Chat, session *store.Session) {
	if session != nil {
		chat.BotContext = session.Snapshot()
	} else {
		chat.BotContext = nil
	}
	if err := e.chats.UpdateChat(ctx, chat); err != nil {
		e.logger.Error("BotEngine", "Failed to sync chat record", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
	}
}

// deliverText sends plain text and records the attempt, marking it failed
// on transport errors. Delivery failures are absorbed; retrying is the
// transport's business.
func (e *Engine) deliverText(ctx context.Context, chat *entity.Chat, text string) {
	messageId, err := e.messenger.SendText(ctx, chat, text)
	failed := err != nil
	if failed {
		e.logger.Error("BotEngine", "Text delivery failed", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
	}
	if err := e.chats.RecordOutbound(ctx, chat.Id, text, messageId, nil, failed); err != nil {
		e.logger.Error("BotEngine", "Failed to record outbound message", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
	}
}

// deliverChoice sends an interactive prompt, falling back to a numbered
// plain-text rendering when the transport rejects the interactive payload.
// The button set is recorded with the outbound message for audit.
func (e *Engine) deliverChoice(ctx context.Context, chat *entity.Chat, title, body string, options []ChoiceOption) {
	audit := make([]map[string]interface{}, 0, len(options))
	for _, opt := range options {
		audit = append(audit, map[string]interface{}{"id": opt.Id, "label": opt.Label})
	}

	messageId, err := e.messenger.SendChoice(ctx, chat, title, body, options)
	if err != nil {
		e.logger.Warn("BotEngine", "Interactive delivery failed, falling back to text", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
		fallback := renderNumbered(body, options)
		messageId, err = e.messenger.SendText(ctx, chat, fallback)
		if recErr := e.chats.RecordOutbound(ctx, chat.Id, fallback, messageId, audit, err != nil); recErr != nil {
			e.logger.Error("BotEngine", "Failed to record outbound message", map[string]interface{}{
				"chat_id": chat.Id.String(),
				"error":   recErr.Error(),
			})
		}
		return
	}

	if recErr := e.chats.RecordOutbound(ctx, chat.Id, body, messageId, audit, false); recErr != nil {
		e.logger.Error("BotEngine", "Failed to record outbound message", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   recErr.Error(),
		})
	}
}

func renderNumbered(body string, options []ChoiceOption) string {
	out := body
	for i, opt := range options {
		out += fmt.Sprintf("\n%d. %s", i+1, opt.Label)
	}
	return out
}
