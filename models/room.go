package models

import (
	"time"

	"gorm.io/gorm"
)

// Room status values used by the overlay.
const (
	RoomAvailable   = "Available"
	RoomOccupied    = "Occupied"
	RoomReserved    = "Reserved"
	RoomMaintenance = "Maintenance"
)

type Room struct {
	gorm.Model

	TenantID string `json:"-" gorm:"column:tenant_id;size:32;index;uniqueIndex:idx_rooms_tenant_name"`
	Name     string `json:"name" gorm:"size:100;uniqueIndex:idx_rooms_tenant_name" binding:"required"`
	Status   string `json:"status" gorm:"size:32"`

	// Occupant is the staff member working the room, Patron the guest inside.
	Occupant      string     `json:"occupant" gorm:"size:100"`
	Patron        string     `json:"patron" gorm:"size:100"`
	OccupiedSince *time.Time `json:"occupiedSince,omitempty" gorm:"column:occupied_since"`
}
