package dto

// SubmitChecksRequest starts a check run for one or more domains.
type SubmitChecksRequest struct {
	Domains          []string `json:"domains"`
	Checks           []string `json:"checks"`
	BatchName        string   `json:"batch_name"`
	BatchDescription string   `json:"batch_description"`
	UseCache         bool     `json:"use_cache"`
	User             string   `json:"user"`
}

type SubmitChecksResponse struct {
	SessionID string `json:"session_id"`
	BatchID   string `json:"batch_id,omitempty"`
}

// CreateBatchRequest records a named group of domains for reporting.
type CreateBatchRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	TotalDomains int    `json:"total_domains"`
	CreatedBy    string `json:"created_by"`
}

type UpdateBatchStatusRequest struct {
	Status           string `json:"status"`
	CompletedDomains *int   `json:"completed_domains"`
}

// SalesforceLookupRequest asks which domains map to known CRM accounts.
type SalesforceLookupRequest struct {
	Domains []string `json:"domains"`
	User    string   `json:"user"`
}

// StoreCollectionRequest mirrors the webhook payload accepted from the UI.
type StoreCollectionRequest struct {
	Method string                   `json:"method"`
	Data   StoreCollectionDataInput `json:"data"`
	User   string                   `json:"user"`
}

type StoreCollectionDataInput struct {
	Retailers    []RetailerInput `json:"retailers"`
	WebsiteURL   string          `json:"websiteUrl"`
	BrandName    string          `json:"brandName"`
	BrandCountry string          `json:"brandCountry"`
}

type RetailerInput struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Domain  string `json:"domain"`
}

// AssignRoleRequest attaches a role to a user via the admin procedures.
type AssignRoleRequest struct {
	RoleName string `json:"role_name"`
}
