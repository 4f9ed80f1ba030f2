package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff rows are created and refreshed by the heartbeat upsert, natural key
// (tenant, character name). Rows are never hard-deleted — presence just goes
// stale and the online flag is cleared lazily by the online-staff query.
type Staff struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TenantID      string     `json:"-" gorm:"column:tenant_id;size:32;index;uniqueIndex:idx_staff_tenant_character"`
	CharacterName string     `json:"characterName" gorm:"column:character_name;size:100;uniqueIndex:idx_staff_tenant_character" binding:"required"`
	Role          string     `json:"role" gorm:"size:64"`
	Online        bool       `json:"online"`
	DND           bool       `json:"dnd" gorm:"column:dnd"`
	ShiftStart    *time.Time `json:"shiftStart,omitempty" gorm:"column:shift_start"`
	LastHeartbeat time.Time  `json:"lastHeartbeat" gorm:"column:last_heartbeat;index"`
}
