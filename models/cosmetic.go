package models

import "time"

// CosmeticSync stores one compressed appearance blob per distinct character,
// keyed by a content hash of the character identity. Deliberately not
// tenant-scoped: every venue that has seen the character shares the row.
type CosmeticSync struct {
	CharacterHash string    `json:"characterHash" gorm:"column:character_hash;primaryKey;size:64" binding:"required"`
	Data          []byte    `json:"data" gorm:"type:longblob"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
