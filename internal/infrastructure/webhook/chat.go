package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ChatFile is an uploaded attachment forwarded alongside a chat message.
type ChatFile struct {
	Name    string
	Content []byte
}

// ChatMessage is one user turn forwarded to the chat workflow.
type ChatMessage struct {
	Content        string
	ConversationID string
	Language       string
	User           string
	Files          []ChatFile
}

// SendChatMessage forwards the message as a multipart form and returns the
// assistant reply text. Unlike job submission, an empty 2xx body is an error:
// the chat flow has nothing to show without a reply.
func (c *Client) SendChatMessage(ctx context.Context, msg ChatMessage) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	lang := msg.Language
	if lang == "" {
		lang = "en"
	}
	fields := map[string]string{
		"chatInput":      msg.Content,
		"conversationId": msg.ConversationID,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"language":       lang,
		"user":           msg.User,
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return "", &SubmissionError{Endpoint: c.cfg.ChatURL, Err: err}
		}
	}
	for i, file := range msg.Files {
		part, err := form.CreateFormFile(fmt.Sprintf("file_%d", i), file.Name)
		if err != nil {
			return "", &SubmissionError{Endpoint: c.cfg.ChatURL, Err: err}
		}
		if _, err := part.Write(file.Content); err != nil {
			return "", &SubmissionError{Endpoint: c.cfg.ChatURL, Err: err}
		}
	}
	if len(msg.Files) > 0 {
		if err := form.WriteField("fileCount", strconv.Itoa(len(msg.Files))); err != nil {
			return "", &SubmissionError{Endpoint: c.cfg.ChatURL, Err: err}
		}
	}
	if err := form.Close(); err != nil {
		return "", &SubmissionError{Endpoint: c.cfg.ChatURL, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ChatURL, &buf)
	if err != nil {
		return "", &SubmissionError{Endpoint: c.cfg.ChatURL, Err: err}
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	c.log.Infow("chat_forward", "conversation_id", msg.ConversationID, "files", len(msg.Files))

	resp, err := c.lookup.Do(httpReq)
	if err != nil {
		return "", &SubmissionError{Endpoint: c.cfg.ChatURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SubmissionError{Endpoint: c.cfg.ChatURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SubmissionError{
			Endpoint: c.cfg.ChatURL,
			Err:      fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(raw), 200)),
		}
	}

	reply, err := ExtractReply(raw)
	if err != nil {
		c.log.Errorw("chat_reply_invalid", "conversation_id", msg.ConversationID, "error", err)
		return "", err
	}

	c.log.Infow("chat_forward_ok", "conversation_id", msg.ConversationID, "reply_len", len(reply))
	return reply, nil
}

// replyKeys are probed in order against JSON responses; workflow nodes are
// inconsistent about which field carries the reply text.
var replyKeys = []string{"output", "message", "text", "content", "response", "result"}

// ExtractReply pulls the reply text out of a webhook response body. The body
// may be a JSON array (first element wins), a JSON object, a bare JSON
// string, or plain text. Empty bodies are rejected.
func ExtractReply(raw []byte) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "", fmt.Errorf("chat webhook returned an empty response")
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Not JSON, treat the raw body as the reply.
		return validateReply(trimmed)
	}

	switch v := decoded.(type) {
	case string:
		return validateReply(strings.TrimSpace(v))
	case []interface{}:
		if len(v) == 0 {
			return "", fmt.Errorf("chat webhook returned an empty array")
		}
		if obj, ok := v[0].(map[string]interface{}); ok {
			return replyFromObject(obj)
		}
		return validateReply(strings.TrimSpace(fmt.Sprintf("%v", v[0])))
	case map[string]interface{}:
		return replyFromObject(v)
	default:
		return validateReply(trimmed)
	}
}

func replyFromObject(obj map[string]interface{}) (string, error) {
	for _, key := range replyKeys {
		if value, ok := obj[key]; ok {
			if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
				return validateReply(strings.TrimSpace(s))
			}
		}
	}
	fallback, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("chat webhook returned an unrecognized response")
	}
	return validateReply(string(fallback))
}

func validateReply(reply string) (string, error) {
	if reply == "" || reply == "null" || reply == "undefined" {
		return "", fmt.Errorf("chat webhook returned an invalid reply")
	}
	return reply, nil
}
