package models

import "time"

// Earning is an append-only ledger entry. Amount is signed gil — negative
// entries mark payouts.
type Earning struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`

	TenantID    string `json:"-" gorm:"column:tenant_id;size:32;index"`
	Role        string `json:"role" gorm:"size:64"`
	Type        string `json:"type" gorm:"size:64"`
	PatronName  string `json:"patronName" gorm:"column:patron_name;size:100"`
	Description string `json:"description" gorm:"type:text"`
	Amount      int64  `json:"amount"`
}

// EarningSummary is one row of the per-role aggregation.
type EarningSummary struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
	Total int64  `json:"total"`
}
