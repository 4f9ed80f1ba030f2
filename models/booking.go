package models

import "time"

// Booking lifecycle states.
const (
	BookingActive          = "Active"
	BookingInactive        = "Inactive"
	BookingCompletedPaid   = "CompletedPaid"
	BookingCompletedUnpaid = "CompletedUnpaid"
)

// Booking ids are generated client-side (uuid) so repeated pushes of the
// same booking upsert one row per (tenant, id) instead of duplicating.
type Booking struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64" binding:"required"`
	TenantID  string    `json:"-" gorm:"column:tenant_id;size:32;primaryKey"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`

	PatronName    string `json:"patronName" gorm:"column:patron_name;size:100"`
	Service       string `json:"service" gorm:"size:100"`
	RoomName      string `json:"roomName" gorm:"column:room_name;size:100"`
	Price         int64  `json:"price"`
	Status        string `json:"status" gorm:"size:32"`
	AssignedStaff string `json:"assignedStaff" gorm:"column:assigned_staff;size:100"`
	DurationMin   int    `json:"durationMin" gorm:"column:duration_min"`
}
