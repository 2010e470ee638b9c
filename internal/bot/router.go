package bot

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/store"
)

const defaultValidationMessage = "La información ingresada no es válida. Por favor intenta de nuevo."

// routeInput maps one inbound user message to the next node id according to
// the current node's type-specific rules. routed is false for the soft
// outcomes (validation failure, no matching rule): the cursor stays put and
// the caller re-suspends.
func (e *Engine) routeInput(ctx context.Context, chat *entity.Chat, flow *entity.Flow, session *store.Session, node *entity.Node, input string) (nextId string, routed bool, err error) {
	cfg, err := ParseNodeConfig(node)
	if err != nil {
		return "", false, err
	}

	switch c := cfg.(type) {
	case *MessageConfig:
		next := e.routeMessageReply(chat, session, node, c, input)
		return next, next != "", nil
	case *MenuConfig:
		return e.routeMenuReply(chat, session, node, c, input)
	case *InputConfig:
		return e.routeInputReply(ctx, chat, session, node, c, input)
	case *ConditionConfig:
		session.Variables[VarUserResponse] = input
		next, ok := evaluateConditions(c, node.NextNodeId, session.Variables)
		if !ok {
			e.logger.Warn("BotEngine", "Condition matched no route", map[string]interface{}{
				"chat_id": chat.Id.String(),
				"node_id": node.Id,
			})
			return "", false, nil
		}
		return next, true, nil
	default:
		// Nodes that never suspend have no inbound-routing rule; treat the
		// default successor as the route when present.
		if node.NextNodeId != "" {
			return node.NextNodeId, true, nil
		}
		return "", false, nil
	}
}

func (e *Engine) messageReplyTarget(node *entity.Node, cfg *MessageConfig) string {
	if cfg.ResponseNodeId != "" {
		return cfg.ResponseNodeId
	}
	return node.NextNodeId
}

// routeMessageReply records the raw input and, for button messages, the
// matched button id under selected_button.
func (e *Engine) routeMessageReply(chat *entity.Chat, session *store.Session, node *entity.Node, cfg *MessageConfig, input string) string {
	session.Variables[VarUserResponse] = input

	if cfg.UseButtons {
		if btn, ok := matchButton(cfg.Buttons, input); ok {
			session.Variables[VarSelectedButton] = btn.Key()
		}
	}

	return e.messageReplyTarget(node, cfg)
}

// matchButton tries, case-insensitively: id, value, exact label, then
// substring either direction. First button to satisfy a rule wins.
func matchButton(buttons []Button, input string) (Button, bool) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return Button{}, false
	}

	for _, b := range buttons {
		if strings.ToLower(b.Id) == needle && b.Id != "" {
			return b, true
		}
	}
	for _, b := range buttons {
		if strings.ToLower(b.Value) == needle && b.Value != "" {
			return b, true
		}
	}
	for _, b := range buttons {
		if strings.ToLower(b.Label) == needle && b.Label != "" {
			return b, true
		}
	}
	for _, b := range buttons {
		label := strings.ToLower(b.Label)
		if label == "" {
			continue
		}
		if strings.Contains(label, needle) || strings.Contains(needle, label) {
			return b, true
		}
	}
	return Button{}, false
}

// routeMenuReply resolves a menu selection. Rules in order: numeric index,
// id/value equality, exact label, label substring. Ties inside a rule go to
// the first option in list order. No match leaves the session parked.
func (e *Engine) routeMenuReply(chat *entity.Chat, session *store.Session, node *entity.Node, cfg *MenuConfig, input string) (string, bool, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false, nil
	}

	if opt, ok := matchMenuOption(cfg.Options, trimmed); ok {
		session.Variables[VarUserResponse] = input
		session.Variables[VarSelectedButton] = menuOptionKey(opt)
		return opt.NextNodeId, opt.NextNodeId != "", nil
	}

	e.logger.Info("BotEngine", "Menu input matched no option", map[string]interface{}{
		"chat_id": chat.Id.String(),
		"node_id": node.Id,
	})
	return "", false, nil
}

func matchMenuOption(options []MenuOption, input string) (MenuOption, bool) {
	// Rule 1: numeric index 1..N. Out-of-range numbers fall through to the
	// remaining rules, where they may still match an id or label.
	if k, err := strconv.Atoi(input); err == nil && k >= 1 && k <= len(options) {
		return options[k-1], true
	}

	needle := strings.ToLower(input)

	// Rule 2: id/value equality.
	for _, opt := range options {
		if (opt.Id != "" && strings.ToLower(opt.Id) == needle) ||
			(opt.Value != "" && strings.ToLower(opt.Value) == needle) {
			return opt, true
		}
	}
	// Rule 3: exact label.
	for _, opt := range options {
		if opt.Label != "" && strings.ToLower(opt.Label) == needle {
			return opt, true
		}
	}
	// Rule 4: label substring.
	for _, opt := range options {
		if opt.Label != "" && strings.Contains(strings.ToLower(opt.Label), needle) {
			return opt, true
		}
	}
	return MenuOption{}, false
}

// routeInputReply validates free-text capture, stores it, and runs the
// debtor lookup when the captured variable is the document number.
func (e *Engine) routeInputReply(ctx context.Context, chat *entity.Chat, session *store.Session, node *entity.Node, cfg *InputConfig, input string) (string, bool, error) {
	trimmed := strings.TrimSpace(input)

	if cfg.Validation != nil {
		if msg, ok := validateInput(cfg.Validation, trimmed); !ok {
			// Soft failure: re-prompt and stay parked. The bag is untouched.
			e.deliverText(ctx, chat, msg)
			return "", false, nil
		}
	}

	if cfg.VariableName != "" {
		session.Variables[cfg.VariableName] = input

		if cfg.VariableName == e.opts.DocumentVariable {
			e.lookupDebtor(ctx, chat, session, trimmed)
		}
	}

	if node.NextNodeId == "" {
		return "", false, nil
	}
	return node.NextNodeId, true, nil
}

func validateInput(v *InputValidation, trimmed string) (errorMessage string, ok bool) {
	msg := v.ErrorMessage
	if msg == "" {
		msg = defaultValidationMessage
	}

	if v.Required && trimmed == "" {
		return msg, false
	}
	if v.Pattern != "" {
		re, err := regexp.Compile(v.Pattern)
		if err != nil {
			// An unparseable pattern never blocks the user.
			return "", true
		}
		if !re.MatchString(trimmed) {
			return msg, false
		}
	}
	return "", true
}

// lookupDebtor resolves the CRM record for a captured document number and
// merges it into the bag. Lookup failures are invisible to the user; only
// the debtorFound flag records the outcome.
func (e *Engine) lookupDebtor(ctx context.Context, chat *entity.Chat, session *store.Session, rawNumber string) {
	normalized := normalizeDocument(rawNumber)

	debtor, err := e.debtors.FindByDocument(ctx, e.opts.DocumentType, normalized)
	if err != nil {
		e.logger.Error("BotEngine", "Debtor lookup failed", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
	}
	if err != nil || debtor == nil {
		session.Variables[VarDebtorFound] = false
		return
	}

	session.Variables[VarDebtor] = debtorVariables(debtor)
	session.Variables[VarDebtorFound] = true

	if err := e.debtors.TouchLastContacted(ctx, debtor.Id); err != nil {
		e.logger.Warn("BotEngine", "Failed to touch debtor contact time", map[string]interface{}{
			"debtor_id": debtor.Id.String(),
			"error":     err.Error(),
		})
	}
	if err := e.signals.DebtorContacted(ctx, chat, debtor.Id); err != nil {
		e.logger.Warn("BotEngine", "Debtor contact signal failed", map[string]interface{}{
			"debtor_id": debtor.Id.String(),
			"error":     err.Error(),
		})
	}
}

var documentSeparators = strings.NewReplacer(" ", "", ".", "", "-", "", ",", "")

func normalizeDocument(raw string) string {
	return documentSeparators.Replace(strings.TrimSpace(raw))
}

// debtorVariables builds the nested debtor object exposed to templates.
// Every field exists; absent source values fall back to the sentinel.
func debtorVariables(d *entity.Debtor) map[string]interface{} {
	vars := map[string]interface{}{
		"name":       Sentinel,
		"document":   Sentinel,
		"company":    Sentinel,
		"total_debt": Sentinel,
		"due_date":   Sentinel,
		"phone":      Sentinel,
		"email":      Sentinel,
	}

	if d.FullName != "" {
		vars["name"] = d.FullName
	}
	if d.DocumentNumber != "" {
		vars["document"] = d.DocumentNumber
	}
	if d.CompanyName != "" {
		vars["company"] = d.CompanyName
	}
	vars["total_debt"] = d.TotalDebt
	if d.DueDate != nil {
		vars["due_date"] = d.DueDate.Format("02/01/2006")
	}
	if d.Phone != "" {
		vars["phone"] = d.Phone
	}
	if d.Email != "" {
		vars["email"] = d.Email
	}
	return vars
}
