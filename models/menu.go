package models

import "gorm.io/gorm"

// MenuItem and GambaPreset are list-configuration resources: each PUT
// replaces the tenant's whole list, so surrogate ids are disposable.

type MenuItem struct {
	gorm.Model

	TenantID    string `json:"-" gorm:"column:tenant_id;size:32;index"`
	Name        string `json:"name" gorm:"size:100" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	Price       int64  `json:"price"`
	Category    string `json:"category" gorm:"size:64"`
}

type GambaPreset struct {
	gorm.Model

	TenantID   string  `json:"-" gorm:"column:tenant_id;size:32;index"`
	Name       string  `json:"name" gorm:"size:100" binding:"required"`
	Rules      string  `json:"rules" gorm:"type:text"`
	Multiplier float64 `json:"multiplier"`
	Category   string  `json:"category" gorm:"size:64"`
}
