package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
)

// Check names understood by the external workflow engine.
const (
	CheckBotBlockers        = "botBlockers"
	CheckCrawlStatus        = "crawlStatus"
	CheckClientUsage        = "clientUsage"
	CheckDomainProfile      = "domainProfile"
	CheckEcommercePlatform  = "ecommercePlatform"
	CheckProductIdentifiers = "productIdentifiers"
)

// AllChecks lists every check the workflow engine can run, in display order.
func AllChecks() []string {
	return []string{
		CheckBotBlockers,
		CheckCrawlStatus,
		CheckClientUsage,
		CheckDomainProfile,
		CheckEcommercePlatform,
		CheckProductIdentifiers,
	}
}

// RawResults is the results column as stored. The workflow engine sometimes
// writes a JSON object and sometimes a JSON-encoded string containing the
// object; both shapes must scan without failing the enclosing query.
type RawResults []byte

func (r RawResults) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return []byte(r), nil
}

func (r *RawResults) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*r = append(RawResults(nil), v...)
	case string:
		*r = RawResults(v)
	default:
		return errors.New("failed to scan results: invalid type")
	}
	return nil
}

func (r RawResults) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *RawResults) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// CheckResult is one entry of the per-domain results map. Each check type has
// its own variant; payloads the decoder does not recognize fall back to
// GenericResult so a malformed or novel check never fails the whole row.
type CheckResult interface {
	ResultStatus() CheckStatus
}

type BotBlockersResult struct {
	Status     CheckStatus `json:"status"`
	Blockers   []string    `json:"blockers,omitempty"`
	Accessible *bool       `json:"accessible,omitempty"`
	Detail     string      `json:"detail,omitempty"`
}

func (r BotBlockersResult) ResultStatus() CheckStatus { return r.Status }

type CrawlStatusResult struct {
	Status    CheckStatus `json:"status"`
	Crawl360  string      `json:"crawl360,omitempty"`
	CrawlWIT  string      `json:"crawlWit,omitempty"`
	CrawlSurf string      `json:"crawlSurf,omitempty"`
}

func (r CrawlStatusResult) ResultStatus() CheckStatus { return r.Status }

type ClientUsageResult struct {
	Status  CheckStatus `json:"status"`
	Clients []string    `json:"clients,omitempty"`
}

func (r ClientUsageResult) ResultStatus() CheckStatus { return r.Status }

type DomainProfileResult struct {
	Status   CheckStatus `json:"status"`
	Category string      `json:"category,omitempty"`
	Country  string      `json:"country,omitempty"`
	Traffic  string      `json:"traffic,omitempty"`
}

func (r DomainProfileResult) ResultStatus() CheckStatus { return r.Status }

type EcommercePlatformResult struct {
	Status      CheckStatus `json:"status"`
	Platform    string      `json:"platform,omitempty"`
	IsEcommerce *bool       `json:"isEcommerce,omitempty"`
}

func (r EcommercePlatformResult) ResultStatus() CheckStatus { return r.Status }

type ProductIdentifiersResult struct {
	Status        CheckStatus `json:"status"`
	EAN           bool        `json:"ean,omitempty"`
	GTIN          bool        `json:"gtin,omitempty"`
	UPC           bool        `json:"upc,omitempty"`
	MPN           bool        `json:"mpn,omitempty"`
	EANResponsive bool        `json:"eanResponsive,omitempty"`
}

func (r ProductIdentifiersResult) ResultStatus() CheckStatus { return r.Status }

// GenericResult carries checks the decoder has no dedicated variant for.
type GenericResult struct {
	Status CheckStatus
	Fields JSONB
}

func (r GenericResult) ResultStatus() CheckStatus { return r.Status }

func (r GenericResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["status"] = r.Status
	return json.Marshal(out)
}

// CheckResults is the decoded per-domain results map, keyed by check name.
type CheckResults map[string]CheckResult

// DecodeResults turns a raw results payload into typed entries. Accepts an
// object or a JSON-encoded string wrapping an object. Returns an empty map on
// any decode failure; the caller treats that as "no results yet" rather than
// an error (the workflow engine owns the payload, we just read it).
func DecodeResults(raw RawResults) CheckResults {
	if len(raw) == 0 {
		return CheckResults{}
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		// Maybe a double-encoded string.
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return CheckResults{}
		}
		if err := json.Unmarshal([]byte(s), &entries); err != nil {
			return CheckResults{}
		}
	}

	results := make(CheckResults, len(entries))
	for name, payload := range entries {
		results[name] = decodeEntry(name, payload)
	}
	return results
}

func decodeEntry(name string, payload json.RawMessage) CheckResult {
	var err error
	switch name {
	case CheckBotBlockers:
		var r BotBlockersResult
		if err = json.Unmarshal(payload, &r); err == nil {
			return r
		}
	case CheckCrawlStatus:
		var r CrawlStatusResult
		if err = json.Unmarshal(payload, &r); err == nil {
			return r
		}
	case CheckClientUsage:
		var r ClientUsageResult
		if err = json.Unmarshal(payload, &r); err == nil {
			return r
		}
	case CheckDomainProfile:
		var r DomainProfileResult
		if err = json.Unmarshal(payload, &r); err == nil {
			return r
		}
	case CheckEcommercePlatform:
		var r EcommercePlatformResult
		if err = json.Unmarshal(payload, &r); err == nil {
			return r
		}
	case CheckProductIdentifiers:
		var r ProductIdentifiersResult
		if err = json.Unmarshal(payload, &r); err == nil {
			return r
		}
	}

	var g struct {
		Status CheckStatus `json:"status"`
	}
	var fields JSONB
	_ = json.Unmarshal(payload, &g)
	_ = json.Unmarshal(payload, &fields)
	delete(fields, "status")
	return GenericResult{Status: g.Status, Fields: fields}
}

// Encode serializes the map back into the stored representation.
func (r CheckResults) Encode() RawResults {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(map[string]CheckResult(r))
	if err != nil {
		return nil
	}
	return RawResults(data)
}

// Progress computes completion as a 0-100 percentage: the share of entries
// whose own status is completed. An empty map is 0, not 100.
func (r CheckResults) Progress() int {
	if len(r) == 0 {
		return 0
	}
	completed := 0
	for _, check := range r {
		if check.ResultStatus() == CheckStatusCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(r)) * 100))
}

// Merge folds incoming entries into the receiver additively: a check already
// completed is never downgraded by a stale partial payload, and checks absent
// from the incoming map are kept as-is.
func (r CheckResults) Merge(incoming CheckResults) CheckResults {
	merged := make(CheckResults, len(r)+len(incoming))
	for name, check := range r {
		merged[name] = check
	}
	for name, check := range incoming {
		existing, ok := merged[name]
		if ok && existing.ResultStatus() == CheckStatusCompleted && check.ResultStatus() != CheckStatusCompleted {
			continue
		}
		merged[name] = check
	}
	return merged
}
