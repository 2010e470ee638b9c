package bot

import (
	"context"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/constant"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/store"
)

// Default copy for terminal nodes without an authored message.
const (
	defaultTransferMessage = "En un momento uno de nuestros asesores continuará con tu atención."
	defaultEndMessage      = "Gracias por contactarnos. ¡Hasta pronto!"
)

// stepResult is the outcome of executing one node.
type stepResult struct {
	// next is the auto-advance target, or the cursor to park on when
	// suspending with a redirect (message nodes awaiting a button press).
	next     string
	suspend  bool
	terminal bool
	// status is the chat status mirrored when the flow terminates.
	status string
}

// executeNode produces the node's outbound content and decides whether the
// chain auto-advances, suspends for input, or terminates the session.
func (e *Engine) executeNode(ctx context.Context, chat *entity.Chat, flow *entity.Flow, session *store.Session, node *entity.Node) (stepResult, error) {
	cfg, err := ParseNodeConfig(node)
	if err != nil {
		return stepResult{}, err
	}

	switch c := cfg.(type) {
	case *MessageConfig:
		return e.executeMessage(ctx, chat, session, node, c)
	case *MenuConfig:
		return e.executeMenu(ctx, chat, session, node, c)
	case *InputConfig:
		return e.executeInput(ctx, chat, session, node, c)
	case *ConditionConfig:
		return e.executeCondition(chat, session, node, c)
	case *APICallConfig:
		// Pass-through: external call execution is not implemented.
		return stepResult{next: node.NextNodeId, suspend: node.NextNodeId == ""}, nil
	case *TransferConfig:
		return e.executeTransfer(ctx, chat, session, c)
	case *EndConfig:
		return e.executeEnd(ctx, chat, session, c)
	default:
		return stepResult{}, newConfigError(node.FlowId, node.Id, "unhandled node config type")
	}
}

func (e *Engine) executeMessage(ctx context.Context, chat *entity.Chat, session *store.Session, node *entity.Node, cfg *MessageConfig) (stepResult, error) {
	if cfg.Message == "" {
		return stepResult{}, newConfigError(node.FlowId, node.Id, "message node requires a message")
	}

	text := Interpolate(cfg.Message, session.Variables)

	if cfg.UseButtons && len(cfg.Buttons) > 0 {
		options := make([]ChoiceOption, 0, len(cfg.Buttons))
		for _, b := range cfg.Buttons {
			options = append(options, ChoiceOption{Id: b.Key(), Label: b.Label})
		}
		e.deliverChoice(ctx, chat, node.Name, text, options)

		if cfg.ResponseNodeId != "" {
			// Park on the response node (typically a condition) and wait
			// for the button press.
			return stepResult{next: cfg.ResponseNodeId, suspend: true}, nil
		}
	} else {
		e.deliverText(ctx, chat, text)
	}

	if node.NextNodeId != "" {
		return stepResult{next: node.NextNodeId}, nil
	}
	return stepResult{suspend: true}, nil
}

func (e *Engine) executeMenu(ctx context.Context, chat *entity.Chat, session *store.Session, node *entity.Node, cfg *MenuConfig) (stepResult, error) {
	if len(cfg.Options) == 0 {
		return stepResult{}, newConfigError(node.FlowId, node.Id, "menu node requires options")
	}

	body := Interpolate(cfg.Message, session.Variables)
	options := make([]ChoiceOption, 0, len(cfg.Options))
	for _, opt := range cfg.Options {
		options = append(options, ChoiceOption{Id: menuOptionKey(opt), Label: opt.Label})
	}
	e.deliverChoice(ctx, chat, node.Name, body, options)

	// Menus always wait; the input router resumes the chain.
	return stepResult{suspend: true}, nil
}

func (e *Engine) executeInput(ctx context.Context, chat *entity.Chat, session *store.Session, node *entity.Node, cfg *InputConfig) (stepResult, error) {
	if cfg.Message == "" {
		return stepResult{}, newConfigError(node.FlowId, node.Id, "input node requires a prompt message")
	}

	text := Interpolate(cfg.Message, session.Variables)
	if cfg.UseButtons && len(cfg.Buttons) > 0 {
		options := make([]ChoiceOption, 0, len(cfg.Buttons))
		for _, b := range cfg.Buttons {
			options = append(options, ChoiceOption{Id: b.Key(), Label: b.Label})
		}
		e.deliverChoice(ctx, chat, node.Name, text, options)
	} else {
		e.deliverText(ctx, chat, text)
	}

	return stepResult{suspend: true}, nil
}

// executeCondition resolves synchronously to a next node id; it sends
// nothing itself.
func (e *Engine) executeCondition(chat *entity.Chat, session *store.Session, node *entity.Node, cfg *ConditionConfig) (stepResult, error) {
	nextId, ok := evaluateConditions(cfg, node.NextNodeId, session.Variables)
	if !ok {
		e.logger.Warn("BotEngine", "Condition matched no route", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"node_id": node.Id,
		})
		return stepResult{suspend: true}, nil
	}
	return stepResult{next: nextId}, nil
}

func (e *Engine) executeTransfer(ctx context.Context, chat *entity.Chat, session *store.Session, cfg *TransferConfig) (stepResult, error) {
	text := cfg.Message
	if text == "" {
		text = defaultTransferMessage
	}
	e.deliverText(ctx, chat, Interpolate(text, session.Variables))

	if err := e.signals.HandOff(ctx, chat); err != nil {
		e.logger.Error("BotEngine", "Hand-off signal failed", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
	}

	return stepResult{terminal: true, status: constant.ChatStatusActive}, nil
}

func (e *Engine) executeEnd(ctx context.Context, chat *entity.Chat, session *store.Session, cfg *EndConfig) (stepResult, error) {
	text := cfg.Message
	if text == "" {
		text = defaultEndMessage
	}
	e.deliverText(ctx, chat, Interpolate(text, session.Variables))

	if err := e.signals.Resolved(ctx, chat); err != nil {
		e.logger.Error("BotEngine", "Resolve signal failed", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
	}

	return stepResult{terminal: true, status: constant.ChatStatusResolved}, nil
}

func menuOptionKey(opt MenuOption) string {
	if opt.Id != "" {
		return opt.Id
	}
	if opt.Value != "" {
		return opt.Value
	}
	return opt.Label
}
