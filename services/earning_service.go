package services

import (
	"time"

	"venue-backend/models"

	"gorm.io/gorm"
)

type EarningService struct {
	DB *gorm.DB
}

func NewEarningService(db *gorm.DB) *EarningService {
	return &EarningService{DB: db}
}

// List returns the tenant's ledger, optionally only rows created strictly
// after the cursor.
func (s *EarningService) List(tenantID string, since *time.Time) ([]models.Earning, error) {
	q := s.DB.Where("tenant_id = ?", tenantID)
	if since != nil {
		q = q.Where("created_at > ?", *since)
	}

	var earnings []models.Earning
	err := q.Order("created_at asc").Find(&earnings).Error
	return earnings, err
}

func (s *EarningService) Create(tenantID string, earning models.Earning) (models.Earning, error) {
	earning.ID = 0
	earning.TenantID = tenantID
	earning.CreatedAt = time.Now().UTC()
	err := s.DB.Create(&earning).Error
	return earning, err
}

// Summary aggregates the ledger per role.
func (s *EarningService) Summary(tenantID string) ([]models.EarningSummary, error) {
	var rows []models.EarningSummary
	err := s.DB.Model(&models.Earning{}).
		Select("role, COUNT(*) AS count, SUM(amount) AS total").
		Where("tenant_id = ?", tenantID).
		Group("role").
		Order("role asc").
		Scan(&rows).Error
	return rows, err
}
