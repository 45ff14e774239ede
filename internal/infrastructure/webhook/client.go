package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wiserse/toolbox/internal/config"
	"github.com/wiserse/toolbox/internal/infrastructure/logger"
)

// SubmissionError reports a failed job-submission request. Submissions are
// never retried automatically; the caller surfaces the failure and waits for
// an explicit re-trigger.
type SubmissionError struct {
	Endpoint string
	Err      error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("webhook submission to %s failed: %v", e.Endpoint, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Client talks to the external workflow-automation webhooks. Submissions wait
// only for request acknowledgment (any 2xx), never for job completion.
type Client struct {
	cfg    config.WebhooksConfig
	submit *http.Client
	lookup *http.Client
	log    *logger.Logger
}

func NewClient(cfg config.WebhooksConfig, log *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		submit: &http.Client{Timeout: cfg.SubmitTimeout},
		lookup: &http.Client{Timeout: cfg.LookupTimeout},
		log:    log,
	}
}

// DomainCheckRequest is the job-start payload for one domain.
type DomainCheckRequest struct {
	TaskID     string   `json:"taskId"`
	Domain     string   `json:"domain"`
	Checks     []string `json:"checks"`
	Mode       string   `json:"mode"`
	Timestamp  string   `json:"timestamp"`
	User       string   `json:"user"`
	DBRecordID *string  `json:"dbRecordId"`
	BatchID    *string  `json:"batchId"`
}

// SubmitDomainCheck dispatches a domain-check job. The workflow engine writes
// results into the shared store asynchronously; an empty 2xx body is fine
// here, unlike the chat flow.
func (c *Client) SubmitDomainCheck(ctx context.Context, req DomainCheckRequest) error {
	if req.Mode == "" {
		req.Mode = "database_polling"
	}
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return &SubmissionError{Endpoint: c.cfg.DomainCheckURL, Err: err}
	}

	c.log.Infow("domain_check_submit", "task_id", req.TaskID, "domain", req.Domain, "checks", len(req.Checks))

	if err := c.postJSON(ctx, c.submit, c.cfg.DomainCheckURL, body, nil); err != nil {
		c.log.Errorw("domain_check_submit_failed", "task_id", req.TaskID, "domain", req.Domain, "error", err)
		return err
	}

	c.log.Infow("domain_check_submit_ok", "task_id", req.TaskID, "domain", req.Domain)
	return nil
}

// postJSON sends a JSON body and decodes the 2xx response into out when out is
// non-nil and the body is non-empty. Any transport error or non-2xx status is
// wrapped in a SubmissionError.
func (c *Client) postJSON(ctx context.Context, client *http.Client, url string, body []byte, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &SubmissionError{Endpoint: url, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return &SubmissionError{Endpoint: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &SubmissionError{Endpoint: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &SubmissionError{
			Endpoint: url,
			Err:      fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(raw), 200)),
		}
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &SubmissionError{
				Endpoint: url,
				Err:      fmt.Errorf("non-JSON response: %s", truncate(string(raw), 200)),
			}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
