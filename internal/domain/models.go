package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ==================== ENUMS ====================

type CheckStatus string

const (
	CheckStatusPending    CheckStatus = "pending"
	CheckStatusInProgress CheckStatus = "in_progress"
	CheckStatusCompleted  CheckStatus = "completed"
	CheckStatusError      CheckStatus = "error"
)

// Terminal reports whether no further updates are expected for this status.
func (s CheckStatus) Terminal() bool {
	return s == CheckStatusCompleted || s == CheckStatusError
}

type BatchStatus string

const (
	BatchStatusPending    BatchStatus = "pending"
	BatchStatusInProgress BatchStatus = "in_progress"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusStopped    BatchStatus = "stopped"
	BatchStatusError      BatchStatus = "error"
)

type StudyStatus string

const (
	StudyStatusPending    StudyStatus = "pending"
	StudyStatusInProgress StudyStatus = "in_progress"
	StudyStatusCompleted  StudyStatus = "completed"
	StudyStatusWon        StudyStatus = "won"
	StudyStatusLost       StudyStatus = "lost"
)

// ==================== JSONB TYPES ====================

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan JSONB: invalid type")
	}
	return json.Unmarshal(bytes, j)
}

// ==================== ENTITIES ====================

// DomainCheck is a row in the shared result store. The external workflow engine
// is the authoritative writer; rows written by this service are advisory.
// Multiple rows may exist per domain (history).
type DomainCheck struct {
	ID        string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Domain    string      `gorm:"size:255;not null;index" json:"domain"`
	Status    CheckStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	Results   RawResults  `gorm:"type:jsonb" json:"results"`
	BatchID   *string     `gorm:"type:uuid;index" json:"batch_id,omitempty"`
	CreatedBy *string     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `gorm:"index" json:"updated_at"`
}

// DomainBatch groups domain checks submitted together for reporting.
// Invariant: CompletedDomains <= TotalDomains; status is completed exactly
// when the two are equal.
type DomainBatch struct {
	ID               string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name             string      `gorm:"size:255;not null" json:"name"`
	Description      string      `gorm:"type:text" json:"description"`
	Status           BatchStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	TotalDomains     int         `gorm:"not null" json:"total_domains"`
	CompletedDomains int         `gorm:"not null;default:0" json:"completed_domains"`
	CreatedBy        string      `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type AppUser struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"size:100" json:"username"`
	FullName  string    `gorm:"size:255" json:"full_name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AppUser) TableName() string { return "app_users" }

type UserRole struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdminUserView maps the admin_users_view database view (user joined with its
// role assignment). Read-only.
type AdminUserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	RoleName  string    `json:"role_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (AdminUserView) TableName() string { return "admin_users_view" }

// APStudy is one avant-projet study tracked for team performance reporting.
type APStudy struct {
	ID               string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	APNumber         string      `gorm:"size:50;not null" json:"ap_number"`
	AssignedTo       string      `gorm:"type:uuid;index" json:"assigned_to"`
	Status           StudyStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	StartDate        time.Time   `json:"start_date"`
	EndDate          *time.Time  `json:"end_date,omitempty"`
	TimeSpentDays    float64     `gorm:"default:0" json:"time_spent_days"`
	OpportunityValue float64     `gorm:"default:0" json:"opportunity_value"`
	ClientName       string      `gorm:"size:255" json:"client_name"`
	Description      string      `gorm:"type:text" json:"description"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func (APStudy) TableName() string { return "ap_studies" }
