package services

import (
	"errors"
	"time"

	"venue-backend/models"

	"gorm.io/gorm"
)

// PresenceCutoff is how long a staff member stays "online" after their last
// heartbeat.
const PresenceCutoff = 30 * time.Second

type StaffService struct {
	DB *gorm.DB
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{DB: db}
}

// HeartbeatInput is what a client pushes on every heartbeat tick.
type HeartbeatInput struct {
	CharacterName string     `json:"characterName" binding:"required"`
	Role          string     `json:"role"`
	ShiftStart    *time.Time `json:"shiftStart,omitempty"`
}

// Heartbeat upserts by (tenant, character name): always sets online=true and
// refreshes the heartbeat timestamp. The composite unique index backs the
// read-then-write, so a concurrent duplicate insert fails instead of forking
// the row.
func (s *StaffService) Heartbeat(tenantID string, in HeartbeatInput) (models.Staff, error) {
	var staff models.Staff
	now := time.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tenant_id = ? AND character_name = ?", tenantID, in.CharacterName).
			First(&staff).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			staff = models.Staff{
				TenantID:      tenantID,
				CharacterName: in.CharacterName,
				Role:          in.Role,
				Online:        true,
				ShiftStart:    in.ShiftStart,
				LastHeartbeat: now,
			}
			return tx.Create(&staff).Error
		}
		if err != nil {
			return err
		}

		staff.Online = true
		staff.LastHeartbeat = now
		if in.Role != "" {
			staff.Role = in.Role
		}
		if in.ShiftStart != nil {
			staff.ShiftStart = in.ShiftStart
		}
		return tx.Save(&staff).Error
	})
	return staff, err
}

// SetDND flips only the do-not-disturb flag, leaving presence untouched.
func (s *StaffService) SetDND(tenantID, characterName string, dnd bool) (models.Staff, error) {
	var staff models.Staff
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND character_name = ?", tenantID, characterName).
			First(&staff).Error; err != nil {
			return err
		}
		staff.DND = dnd
		return tx.Model(&staff).Update("dnd", dnd).Error
	})
	return staff, err
}

// Online returns staff with a heartbeat inside the cutoff window. Stale rows
// still flagged online are flipped to offline and persisted on the way out,
// so presence heals itself through read traffic alone.
func (s *StaffService) Online(tenantID string) ([]models.Staff, error) {
	cutoff := time.Now().UTC().Add(-PresenceCutoff)

	var online []models.Staff
	if err := s.DB.Where("tenant_id = ? AND last_heartbeat > ?", tenantID, cutoff).
		Order("character_name asc").
		Find(&online).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Staff{}).
		Where("tenant_id = ? AND online = ? AND last_heartbeat <= ?", tenantID, true, cutoff).
		Update("online", false).Error; err != nil {
		return nil, err
	}

	return online, nil
}
