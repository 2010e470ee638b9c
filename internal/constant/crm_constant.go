package constant

// Chat lifecycle statuses mirrored on the chat record.
const (
	ChatStatusBot      = "bot"
	ChatStatusActive   = "active"
	ChatStatusResolved = "resolved"
	ChatStatusClosed   = "closed"
)

// Sender types stored per message.
const (
	SenderTypeBot     = "BOT"
	SenderTypeContact = "CONTACT"
	SenderTypeAgent   = "AGENT"
)

// Flow statuses. Only active flows may be started.
const (
	FlowStatusActive   = "active"
	FlowStatusInactive = "inactive"
	FlowStatusDraft    = "draft"
)

// Agent user roles and statuses.
const (
	UserRoleAdmin = "admin"
	UserRoleAgent = "agent"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// Event codes published to the bus when a session reaches a terminal node.
const (
	EventChatHandoff     = "CHAT_HANDOFF"
	EventChatResolved    = "CHAT_RESOLVED"
	EventDebtorContacted = "DEBTOR_CONTACTED"
)
