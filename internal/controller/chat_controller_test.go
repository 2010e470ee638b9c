// FILE: internal/controller/chat_controller_test.go
package controller

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/dto"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
)

type stubChatService struct {
	listCalls    int
	listStatus   string
	listAssigned uuid.UUID
}

func (s *stubChatService) List(_ context.Context, status string, assignedTo uuid.UUID, _, _ int) (*dto.ChatListResponse, error) {
	s.listCalls++
	s.listStatus = status
	s.listAssigned = assignedTo
	return &dto.ChatListResponse{}, nil
}

func (s *stubChatService) History(_ context.Context, _ uuid.UUID, _, _ int) (*dto.ChatHistoryResponse, error) {
	return &dto.ChatHistoryResponse{}, nil
}

func (s *stubChatService) AgentReply(_ context.Context, _, _ uuid.UUID, _ string) (*dto.MessageResponse, error) {
	return &dto.MessageResponse{}, nil
}

func (s *stubChatService) CloseChat(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubChatService) AssignAgent(_ context.Context, _, _ uuid.UUID) error { return nil }

func (s *stubChatService) UpsertByPhone(_ context.Context, _, _ string) (*entity.Chat, error) {
	return nil, nil
}

func (s *stubChatService) RecordInbound(_ context.Context, _ *entity.Chat, _, _ string) error {
	return nil
}

func (s *stubChatService) GetChat(_ context.Context, _ uuid.UUID) (*entity.Chat, error) {
	return nil, nil
}

func (s *stubChatService) UpdateChat(_ context.Context, _ *entity.Chat) error { return nil }

func (s *stubChatService) RecordOutbound(_ context.Context, _ uuid.UUID, _, _ string, _ []map[string]interface{}, _ bool) error {
	return nil
}

func newChatTestApp(t *testing.T) (*fiber.App, *stubChatService) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	svc := &stubChatService{}
	app := fiber.New()
	NewChatController(svc).RegisterRoutes(app.Group("/api"))
	return app, svc
}

func agentToken(t *testing.T, agentId uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": agentId.String(),
		"role":    "agent",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestChatListFiltersByAssignee(t *testing.T) {
	app, svc := newChatTestApp(t)
	agentId := uuid.New()

	req := httptest.NewRequest("GET", "/api/chats?status=active&assigned_to="+agentId.String(), nil)
	req.Header.Set("Authorization", "Bearer "+agentToken(t, agentId))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, svc.listCalls)
	assert.Equal(t, "active", svc.listStatus)
	assert.Equal(t, agentId, svc.listAssigned)
}

func TestChatListWithoutAssigneeFilter(t *testing.T) {
	app, svc := newChatTestApp(t)

	req := httptest.NewRequest("GET", "/api/chats", nil)
	req.Header.Set("Authorization", "Bearer "+agentToken(t, uuid.New()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, uuid.Nil, svc.listAssigned)
}

func TestChatListRejectsMalformedAssignee(t *testing.T) {
	app, svc := newChatTestApp(t)

	req := httptest.NewRequest("GET", "/api/chats?assigned_to=not-a-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+agentToken(t, uuid.New()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, svc.listCalls)
}
