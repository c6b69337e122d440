package openai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the model used for persona chat completions
	DefaultChatModel = openai.GPT4oMini
)

var (
	// ErrEmptyMessage is returned when the user message is empty
	ErrEmptyMessage = errors.New("message cannot be empty")
	// ErrEmptyCompletion is returned when the API returns no choices
	ErrEmptyCompletion = errors.New("completion returned no choices")
)

// ChatMessage is a single turn in a persona conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatAdapter wraps the OpenAI chat completion API.
type ChatAdapter struct {
	client *openai.Client
	model  string
}

func NewChatAdapter(apiKey, model string) *ChatAdapter {
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatAdapter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Complete sends the conversation and returns the assistant reply.
func (a *ChatAdapter) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyMessage
	}

	apiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		apiMessages = append(apiMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: apiMessages,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
