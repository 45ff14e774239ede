package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SalesforceAccount is one matched CRM account for a looked-up domain.
type SalesforceAccount struct {
	Domain        string `json:"domain"`
	AccountName   string `json:"accountName,omitempty"`
	AccountOwner  string `json:"accountOwner,omitempty"`
	Opportunities int    `json:"opportunities,omitempty"`
	Stage         string `json:"stage,omitempty"`
	Found         bool   `json:"found"`
}

type salesforceLookupRequest struct {
	Domains   []string `json:"domains"`
	Timestamp string   `json:"timestamp"`
	User      string   `json:"user,omitempty"`
}

type salesforceLookupResponse struct {
	Accounts []SalesforceAccount `json:"accounts"`
}

// LookupSalesforceAccounts asks the CRM-lookup workflow which of the given
// domains map to known accounts. This endpoint must answer JSON; unlike the
// fire-and-forget submitters the caller needs the payload.
func (c *Client) LookupSalesforceAccounts(ctx context.Context, domains []string, user string) ([]SalesforceAccount, error) {
	req := salesforceLookupRequest{
		Domains:   domains,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		User:      user,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &SubmissionError{Endpoint: c.cfg.SalesforceURL, Err: err}
	}

	c.log.Infow("salesforce_lookup", "domains", len(domains))

	var out salesforceLookupResponse
	if err := c.postJSON(ctx, c.lookup, c.cfg.SalesforceURL, body, &out); err != nil {
		c.log.Errorw("salesforce_lookup_failed", "error", err)
		return nil, err
	}
	if out.Accounts == nil {
		return nil, &SubmissionError{
			Endpoint: c.cfg.SalesforceURL,
			Err:      fmt.Errorf("unexpected response shape: missing accounts"),
		}
	}

	c.log.Infow("salesforce_lookup_ok", "accounts", len(out.Accounts))
	return out.Accounts, nil
}
