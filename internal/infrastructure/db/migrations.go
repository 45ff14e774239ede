package db

import (
	"github.com/wiserse/toolbox/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// AutoMigrate all models
	err := db.AutoMigrate(
		&domain.DomainCheck{},
		&domain.DomainBatch{},
		&domain.AppUser{},
		&domain.UserRole{},
		&domain.APStudy{},
	)
	if err != nil {
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		return err
	}

	return nil
}

func createCustomIndexes(db *gorm.DB) error {
	// The poll loop filters by domain and orders by recency; keep both in one index.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_domain_checks_domain_updated
		ON domain_checks (domain, updated_at DESC)
	`).Error; err != nil {
		return err
	}

	// Batch listing is always per creator, newest first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_domain_batches_created_by
		ON domain_batches (created_by, created_at DESC)
	`).Error; err != nil {
		return err
	}

	// Performance dashboard filters studies by assignee and start date.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_ap_studies_assigned_start
		ON ap_studies (assigned_to, start_date)
	`).Error; err != nil {
		return err
	}

	return nil
}
