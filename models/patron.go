package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Patron status values.
const (
	PatronNeutral     = "Neutral"
	PatronRegular     = "Regular"
	PatronVIP         = "VIP"
	PatronWarning     = "Warning"
	PatronBlacklisted = "Blacklisted"
)

// Patron is upserted by (tenant, name); repeat sightings merge into the
// existing row instead of creating a new one.
type Patron struct {
	gorm.Model

	TenantID string `json:"-" gorm:"column:tenant_id;size:32;index;uniqueIndex:idx_patrons_tenant_name"`
	Name     string `json:"name" gorm:"size:100;uniqueIndex:idx_patrons_tenant_name" binding:"required"`
	World    string `json:"world" gorm:"size:64"`
	Status   string `json:"status" gorm:"size:32"`

	VisitCount    int    `json:"visitCount" gorm:"column:visit_count"`
	LifetimeSpend int64  `json:"lifetimeSpend" gorm:"column:lifetime_spend"`
	Notes         string `json:"notes" gorm:"type:text"`

	BlacklistReason string         `json:"blacklistReason,omitempty" gorm:"column:blacklist_reason;type:text"`
	Tags            datatypes.JSON `json:"tags,omitempty" gorm:"column:tags"`
	LastSeen        time.Time      `json:"lastSeen" gorm:"column:last_seen"`
}

// PatronNote is append-only: never mutated, never deleted.
type PatronNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`

	TenantID   string `json:"-" gorm:"column:tenant_id;size:32;index"`
	PatronName string `json:"patronName" gorm:"column:patron_name;size:100;index" binding:"required"`
	AuthorName string `json:"authorName" gorm:"column:author_name;size:100"`
	AuthorRole string `json:"authorRole" gorm:"column:author_role;size:64"`
	Content    string `json:"content" gorm:"type:text" binding:"required"`
}
