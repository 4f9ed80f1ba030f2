package controllers

import (
	"errors"
	"net/http"
	"time"

	"venue-backend/config"
	"venue-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Cosmetic blobs are keyed by character content hash and shared across
// tenants — the one collection without a tenant predicate. Auth still
// applies via the router group.

// GET /api/cosmetics[?since=ts]
func GetCosmetics(c *gin.Context) {
	since, ok := parseSince(c)
	if !ok {
		return
	}

	q := config.DB.Model(&models.CosmeticSync{})
	if since != nil {
		q = q.Where("updated_at > ?", *since)
	}

	var blobs []models.CosmeticSync
	if err := q.Order("updated_at asc").Find(&blobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load cosmetics", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, blobs)
}

// POST /api/cosmetics — upsert by content hash
func UpsertCosmetic(c *gin.Context) {
	var payload models.CosmeticSync
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	payload.UpdatedAt = time.Now().UTC()

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.CosmeticSync
		err := tx.Where("character_hash = ?", payload.CharacterHash).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&payload).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"data":       payload.Data,
			"updated_at": payload.UpdatedAt,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to store cosmetic", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, payload)
}
