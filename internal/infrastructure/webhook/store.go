package webhook

import (
	"context"
	"encoding/json"
	"time"
)

// Retailer is one manually-entered store in a collection request.
type Retailer struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Domain  string `json:"domain,omitempty"`
}

// StoreCollectionData carries the method-specific input: a retailer list for
// manual mode, a site URL for website mode, or a brand for brand mode.
type StoreCollectionData struct {
	Retailers    []Retailer `json:"retailers,omitempty"`
	WebsiteURL   string     `json:"websiteUrl,omitempty"`
	BrandName    string     `json:"brandName,omitempty"`
	BrandCountry string     `json:"brandCountry,omitempty"`
}

type StoreCollectionRequest struct {
	CollectionID string              `json:"collectionId"`
	Method       string              `json:"method"` // manual | website | brand
	Data         StoreCollectionData `json:"data"`
	Timestamp    string              `json:"timestamp"`
	User         string              `json:"user,omitempty"`
}

type StoreCollectionResponse struct {
	Success         bool   `json:"success"`
	CollectionID    string `json:"collectionId"`
	Message         string `json:"message,omitempty"`
	EstimatedStores int    `json:"estimatedStores,omitempty"`
	TaskID          string `json:"taskId,omitempty"`
}

// SubmitStoreCollection dispatches a store-list collection job.
func (c *Client) SubmitStoreCollection(ctx context.Context, req StoreCollectionRequest) (*StoreCollectionResponse, error) {
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &SubmissionError{Endpoint: c.cfg.StoreCollectorURL, Err: err}
	}

	c.log.Infow("store_collection_submit", "collection_id", req.CollectionID, "method", req.Method)

	var out StoreCollectionResponse
	if err := c.postJSON(ctx, c.submit, c.cfg.StoreCollectorURL, body, &out); err != nil {
		c.log.Errorw("store_collection_submit_failed", "collection_id", req.CollectionID, "error", err)
		return nil, err
	}
	if out.CollectionID == "" {
		out.CollectionID = req.CollectionID
	}

	c.log.Infow("store_collection_submit_ok", "collection_id", out.CollectionID, "estimated", out.EstimatedStores)
	return &out, nil
}
