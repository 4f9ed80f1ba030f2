package services

import (
	"errors"

	"venue-backend/models"

	"gorm.io/gorm"
)

type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

func (s *BookingService) List(tenantID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.Where("tenant_id = ?", tenantID).Order("updated_at desc").Find(&bookings).Error
	return bookings, err
}

// Upsert keys on the client-assigned id, so the same booking pushed twice
// lands on one row and later pushes win.
func (s *BookingService) Upsert(tenantID string, booking models.Booking) (models.Booking, error) {
	booking.TenantID = tenantID

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Booking
		err := tx.Where("tenant_id = ? AND id = ?", tenantID, booking.ID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&booking).Error
		}
		if err != nil {
			return err
		}
		booking.CreatedAt = existing.CreatedAt
		return tx.Save(&booking).Error
	})
	return booking, err
}

// Delete removes by (tenant, id). A wrong tenant gets the same not-found as
// a wrong id.
func (s *BookingService) Delete(tenantID, id string) error {
	res := s.DB.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
