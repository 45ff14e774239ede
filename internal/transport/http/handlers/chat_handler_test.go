package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiserse/toolbox/internal/core/services"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
	"go.uber.org/zap"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakeForwarder struct {
	lastMsg webhook.ChatMessage
	reply   string
	err     error
}

func (f *fakeForwarder) SendChatMessage(_ context.Context, msg webhook.ChatMessage) (string, error) {
	f.lastMsg = msg
	return f.reply, f.err
}

func newChatApp(forwarder *fakeForwarder) *fiber.App {
	app := fiber.New()
	handler := NewChatHandler(services.NewChatService(forwarder, testLogger()), testLogger())
	app.Post("/chat/messages", handler.SendMessage)
	return app
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, form.WriteField(key, value))
	}
	if fileName != "" {
		part, err := form.CreateFormFile("file_0", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())
	return &buf, form.FormDataContentType()
}

func TestChatHandlerForwardsMessageAndFiles(t *testing.T) {
	forwarder := &fakeForwarder{reply: "sure, checking now"}
	app := newChatApp(forwarder)

	body, contentType := multipartBody(t, map[string]string{
		"message":         "check example.com please",
		"conversation_id": "conv-7",
		"user":            "user-1",
	}, "domains.csv", []byte("a.com"))

	req := httptest.NewRequest(http.MethodPost, "/chat/messages", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var reply services.ChatReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, "conv-7", reply.ConversationID)
	assert.Equal(t, "sure, checking now", reply.Reply)

	assert.Equal(t, "check example.com please", forwarder.lastMsg.Content)
	require.Len(t, forwarder.lastMsg.Files, 1)
	assert.Equal(t, "domains.csv", forwarder.lastMsg.Files[0].Name)
}

func TestChatHandlerRejectsEmptyMessage(t *testing.T) {
	app := newChatApp(&fakeForwarder{})

	body, contentType := multipartBody(t, map[string]string{"message": "   "}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/chat/messages", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatHandlerMapsSubmissionErrorToBadGateway(t *testing.T) {
	forwarder := &fakeForwarder{err: &webhook.SubmissionError{Endpoint: "http://x", Err: assert.AnError}}
	app := newChatApp(forwarder)

	body, contentType := multipartBody(t, map[string]string{"message": "hello"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/chat/messages", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestParseDateQuery(t *testing.T) {
	parsed, err := parseDateQuery("2026-08-01")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, 2026, parsed.Year())

	parsed, err = parseDateQuery("")
	require.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = parseDateQuery("01/08/2026")
	assert.Error(t, err)
}
