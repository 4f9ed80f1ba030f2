package services

import (
	"errors"
	"time"

	"venue-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PatronService struct {
	DB *gorm.DB
}

func NewPatronService(db *gorm.DB) *PatronService {
	return &PatronService{DB: db}
}

// PatronInput is the upsert payload. Zero-valued numeric fields are treated
// as "leave alone" on merge so a sighting-only push doesn't wipe totals.
// That makes resetting a counter to zero impossible through this path;
// explicit resets go through the id-scoped PUT /api/patrons/:id update,
// which applies zero values verbatim.
type PatronInput struct {
	Name            string         `json:"name" binding:"required"`
	World           string         `json:"world"`
	Status          string         `json:"status"`
	VisitCount      int            `json:"visitCount"`
	LifetimeSpend   int64          `json:"lifetimeSpend"`
	Notes           string         `json:"notes"`
	BlacklistReason string         `json:"blacklistReason"`
	Tags            datatypes.JSON `json:"tags"`
}

func (s *PatronService) List(tenantID string) ([]models.Patron, error) {
	var patrons []models.Patron
	err := s.DB.Where("tenant_id = ?", tenantID).Order("name asc").Find(&patrons).Error
	return patrons, err
}

// Upsert merges by (tenant, name): first sighting inserts, repeats update
// the existing row and bump last_seen.
func (s *PatronService) Upsert(tenantID string, in PatronInput) (models.Patron, error) {
	var patron models.Patron
	now := time.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tenant_id = ? AND name = ?", tenantID, in.Name).First(&patron).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status := in.Status
			if status == "" {
				status = models.PatronNeutral
			}
			patron = models.Patron{
				TenantID:        tenantID,
				Name:            in.Name,
				World:           in.World,
				Status:          status,
				VisitCount:      in.VisitCount,
				LifetimeSpend:   in.LifetimeSpend,
				Notes:           in.Notes,
				BlacklistReason: in.BlacklistReason,
				Tags:            in.Tags,
				LastSeen:        now,
			}
			return tx.Create(&patron).Error
		}
		if err != nil {
			return err
		}

		if in.World != "" {
			patron.World = in.World
		}
		if in.Status != "" {
			patron.Status = in.Status
		}
		if in.VisitCount != 0 {
			patron.VisitCount = in.VisitCount
		}
		if in.LifetimeSpend != 0 {
			patron.LifetimeSpend = in.LifetimeSpend
		}
		if in.Notes != "" {
			patron.Notes = in.Notes
		}
		if in.BlacklistReason != "" {
			patron.BlacklistReason = in.BlacklistReason
		}
		if len(in.Tags) > 0 {
			patron.Tags = in.Tags
		}
		patron.LastSeen = now
		return tx.Save(&patron).Error
	})
	return patron, err
}

// Update mutates a patron by surrogate id, scoped to the caller's tenant.
func (s *PatronService) Update(tenantID string, id uint, fields map[string]interface{}) (models.Patron, error) {
	var patron models.Patron
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&patron).Error; err != nil {
			return err
		}

		// id, tenant and timestamps are not caller-editable
		delete(fields, "id")
		delete(fields, "tenant_id")
		delete(fields, "created_at")
		delete(fields, "updated_at")
		delete(fields, "deleted_at")

		if err := tx.Model(&patron).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&patron, patron.ID).Error
	})
	return patron, err
}
