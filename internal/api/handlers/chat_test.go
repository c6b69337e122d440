package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parleyhq/parley/internal/domain"
	"github.com/parleyhq/parley/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Chat(ctx context.Context, input service.ChatInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func TestChatHandler(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc)

	svc.On("Chat", mock.Anything, service.ChatInput{
		AdvisorID: "a-123",
		UserID:    "u-1",
		Message:   "How do I price my product?",
	}).Return("Start from value, not cost.", nil)

	body, _ := json.Marshal(ChatRequest{Message: "How do I price my product?"})
	req := httptest.NewRequest(http.MethodPost, "/advisors/a-123/chat", bytes.NewReader(body))
	req = withUserID(withURLParam(req, "id", "a-123"), "u-1")
	w := httptest.NewRecorder()
	handler.Chat(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Start from value, not cost.", resp.Data.Reply)
	assert.Equal(t, "a-123", resp.Data.AdvisorID)
}

func TestChatHandler_EmptyMessage(t *testing.T) {
	handler := NewChatHandler(new(MockChatService))

	body, _ := json.Marshal(ChatRequest{})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/advisors/a-123/chat", bytes.NewReader(body)), "id", "a-123")
	w := httptest.NewRecorder()
	handler.Chat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_NotConfigured(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc)

	svc.On("Chat", mock.Anything, mock.Anything).Return("", domain.ErrChatNotConfigured)

	body, _ := json.Marshal(ChatRequest{Message: "hello"})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/advisors/a-123/chat", bytes.NewReader(body)), "id", "a-123")
	w := httptest.NewRecorder()
	handler.Chat(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
