package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/constant"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
)

func TestSweepRemovesIdleSessions(t *testing.T) {
	flow := newFlow("I1",
		node("I1", entity.NodeTypeInput, `{"message":"Documento","variableName":"document_number"}`, "E"),
		node("E", entity.NodeTypeEnd, `{}`, ""),
	)
	h := newHarness(t, flow)
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	sentBefore := len(h.messenger.sent)
	statusBefore := h.chats.chat.Status

	session := mustSession(t, h)
	session.SetLastActivityAt(time.Now().Add(-time.Hour))
	h.engine.Sessions().Save(session)

	NewSweeper(h.engine).Sweep()

	_, found := h.engine.Sessions().Get(h.chatId)
	assert.False(t, found, "idle session must be reaped")
	assert.Len(t, h.messenger.sent, sentBefore, "expiry sends nothing to the user")
	assert.Equal(t, statusBefore, h.chats.chat.Status, "the chat record is left untouched")
	assert.Equal(t, constant.ChatStatusBot, h.chats.chat.Status)
}

func TestSweepKeepsActiveSessions(t *testing.T) {
	flow := newFlow("I1",
		node("I1", entity.NodeTypeInput, `{"message":"Documento","variableName":"document_number"}`, "E"),
		node("E", entity.NodeTypeEnd, `{}`, ""),
	)
	h := newHarness(t, flow)

	require.NoError(t, h.engine.StartFlow(context.Background(), h.chatId, h.flowId))

	NewSweeper(h.engine).Sweep()

	_, found := h.engine.Sessions().Get(h.chatId)
	assert.True(t, found, "a fresh session survives the sweep")
}
