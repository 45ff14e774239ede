package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
)

type fakeForwarder struct {
	lastMsg webhook.ChatMessage
	reply   string
	err     error
}

func (f *fakeForwarder) SendChatMessage(_ context.Context, msg webhook.ChatMessage) (string, error) {
	f.lastMsg = msg
	return f.reply, f.err
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	service := NewChatService(&fakeForwarder{}, testLogger())

	_, err := service.SendMessage(context.Background(), webhook.ChatMessage{Content: "   "})
	assert.ErrorIs(t, err, ErrChatEmptyMessage)
}

func TestSendMessageFileOnlyIsAllowed(t *testing.T) {
	forwarder := &fakeForwarder{reply: "got your file"}
	service := NewChatService(forwarder, testLogger())

	reply, err := service.SendMessage(context.Background(), webhook.ChatMessage{
		Files: []webhook.ChatFile{{Name: "list.csv", Content: []byte("a,b")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "got your file", reply.Reply)
}

func TestSendMessageGeneratesConversationID(t *testing.T) {
	forwarder := &fakeForwarder{reply: "hello"}
	service := NewChatService(forwarder, testLogger())

	reply, err := service.SendMessage(context.Background(), webhook.ChatMessage{Content: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.ConversationID)
	assert.Equal(t, reply.ConversationID, forwarder.lastMsg.ConversationID)

	reply, err = service.SendMessage(context.Background(), webhook.ChatMessage{
		Content:        "hi again",
		ConversationID: "conv-42",
	})
	require.NoError(t, err)
	assert.Equal(t, "conv-42", reply.ConversationID)
}

func TestConversationTitle(t *testing.T) {
	assert.Equal(t, "New conversation", ConversationTitle("  "))
	assert.Equal(t, "check example.com", ConversationTitle("check example.com"))
	assert.Equal(t, "can you check these five...", ConversationTitle("can you check these five domains for me please"))
}
