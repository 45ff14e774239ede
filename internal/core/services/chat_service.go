package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
)

// ChatForwarder sends a chat turn to the workflow engine and returns the
// assistant reply.
type ChatForwarder interface {
	SendChatMessage(ctx context.Context, msg webhook.ChatMessage) (string, error)
}

// ChatService validates and forwards chat turns. The workflow engine holds
// all conversational logic; this side only ships messages and files across.
type ChatService struct {
	forwarder ChatForwarder
	log       *logger.Logger
}

func NewChatService(forwarder ChatForwarder, log *logger.Logger) *ChatService {
	return &ChatService{forwarder: forwarder, log: log}
}

type ChatReply struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

func (s *ChatService) SendMessage(ctx context.Context, msg webhook.ChatMessage) (*ChatReply, error) {
	if strings.TrimSpace(msg.Content) == "" && len(msg.Files) == 0 {
		return nil, ErrChatEmptyMessage
	}
	if msg.ConversationID == "" {
		msg.ConversationID = uuid.New().String()
	}

	reply, err := s.forwarder.SendChatMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &ChatReply{ConversationID: msg.ConversationID, Reply: reply}, nil
}

// ConversationTitle derives a short title from the first message of a
// conversation.
func ConversationTitle(firstMessage string) string {
	trimmed := strings.TrimSpace(firstMessage)
	if trimmed == "" {
		return "New conversation"
	}
	words := strings.Fields(trimmed)
	if len(words) <= 5 {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:5], " ") + "..."
}
