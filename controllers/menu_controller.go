package controllers

import (
	"log"
	"net/http"

	"venue-backend/config"
	"venue-backend/middleware"
	"venue-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Menu and gamba presets are list-configuration resources: editing one item
// is implemented client-side as resending the whole list. The delete+insert
// runs in one transaction so readers never see the empty window.

// GET /api/menu
func GetMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := config.DB.Where("tenant_id = ?", middleware.TenantID(c)).Order("id asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load menu", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// PUT /api/menu — replace-all
func ReplaceMenu(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var items []models.MenuItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("tenant_id = ?", tenantID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].TenantID = tenantID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		log.Printf("❌ Menu replace failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to replace menu", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GET /api/gamba/presets
func GetGambaPresets(c *gin.Context) {
	var presets []models.GambaPreset
	if err := config.DB.Where("tenant_id = ?", middleware.TenantID(c)).Order("id asc").Find(&presets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load presets", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, presets)
}

// PUT /api/gamba/presets — replace-all
func ReplaceGambaPresets(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var presets []models.GambaPreset
	if err := c.ShouldBindJSON(&presets); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("tenant_id = ?", tenantID).Delete(&models.GambaPreset{}).Error; err != nil {
			return err
		}
		for i := range presets {
			presets[i].ID = 0
			presets[i].TenantID = tenantID
		}
		if len(presets) == 0 {
			return nil
		}
		return tx.Create(&presets).Error
	})
	if err != nil {
		log.Printf("❌ Preset replace failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to replace presets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, presets)
}
