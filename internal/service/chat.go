package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/parleyhq/parley/internal/domain"
	"github.com/parleyhq/parley/internal/openai"
	"github.com/parleyhq/parley/internal/telemetry"
)

// ChatClient defines the interface for persona chat completions
type ChatClient interface {
	Complete(ctx context.Context, messages []openai.ChatMessage) (string, error)
}

// ChatService proxies a single stateless chat turn to an advisor persona.
// No conversation history is stored.
type ChatService struct {
	advisorRepo AdvisorRepositoryInterface
	client      ChatClient
}

// NewChatService creates a new ChatService instance. A nil client means
// persona chat is not configured.
func NewChatService(advisorRepo AdvisorRepositoryInterface, client ChatClient) *ChatService {
	return &ChatService{advisorRepo: advisorRepo, client: client}
}

// ChatInput carries a single user message for an advisor persona.
type ChatInput struct {
	AdvisorID string
	UserID    string
	Message   string
}

// Chat sends one message to the advisor's persona and returns the reply.
func (s *ChatService) Chat(ctx context.Context, input ChatInput) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.Chat", telemetry.SpanAttributes{
		UserID:    input.UserID,
		AdvisorID: input.AdvisorID,
		Operation: "chat",
	})
	defer span.End()

	if s.client == nil {
		return "", domain.ErrChatNotConfigured
	}
	if strings.TrimSpace(input.Message) == "" {
		return "", domain.NewDomainError(domain.ErrCodeValidation, "message is required")
	}

	advisor, err := s.advisorRepo.GetByID(ctx, input.AdvisorID)
	if err != nil {
		span.SetError(err)
		return "", err
	}
	if !advisor.Visible() {
		return "", domain.ErrAdvisorNotFound
	}

	reply, err := s.client.Complete(ctx, []openai.ChatMessage{
		{Role: "system", Content: personaPrompt(advisor)},
		{Role: "user", Content: input.Message},
	})
	if err != nil {
		span.SetError(err)
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "persona chat failed", err)
	}
	return reply, nil
}

// personaPrompt renders the advisor profile into a system prompt.
func personaPrompt(a *domain.AdvisorProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s", a.DisplayName())
	if a.Persona.Title != "" {
		fmt.Fprintf(&b, ", %s", a.Persona.Title)
	}
	b.WriteString(".")
	if a.Persona.Description != "" {
		fmt.Fprintf(&b, " %s", a.Persona.Description)
	}
	if len(a.Persona.Specialties) > 0 {
		fmt.Fprintf(&b, " Your specialties are: %s.", strings.Join(a.Persona.Specialties, ", "))
	}
	if a.Persona.Experience != "" {
		fmt.Fprintf(&b, " You have %s of experience.", a.Persona.Experience)
	}
	b.WriteString(" Stay in character and answer as this advisor.")
	return b.String()
}
