package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/wiserse/toolbox/internal/core/services"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
	"github.com/wiserse/toolbox/internal/infrastructure/webhook"
)

type ChatHandler struct {
	service *services.ChatService
	logger  *logger.Logger
}

func NewChatHandler(service *services.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: logger}
}

// SendMessage accepts a multipart form (message, conversation_id, language,
// user, plus any number of file attachments) and forwards it to the chat
// workflow.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	msg := webhook.ChatMessage{
		Content:        c.FormValue("message"),
		ConversationID: c.FormValue("conversation_id"),
		Language:       c.FormValue("language"),
		User:           c.FormValue("user"),
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, headers := range form.File {
			for _, header := range headers {
				file, err := header.Open()
				if err != nil {
					h.logger.Warnw("chat_file_open_failed", "name", header.Filename, "error", err)
					continue
				}
				content, err := io.ReadAll(file)
				file.Close()
				if err != nil {
					h.logger.Warnw("chat_file_read_failed", "name", header.Filename, "error", err)
					continue
				}
				msg.Files = append(msg.Files, webhook.ChatFile{Name: header.Filename, Content: content})
			}
		}
	}

	h.logger.Infow("chat_message_request", "conversation_id", msg.ConversationID, "files", len(msg.Files))
	reply, err := h.service.SendMessage(c.Context(), msg)
	if err != nil {
		if errors.Is(err, services.ErrChatEmptyMessage) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is empty"})
		}
		h.logger.Errorw("chat_message_failed", "conversation_id", msg.ConversationID, "error", err)
		return c.Status(submissionStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(reply)
}
