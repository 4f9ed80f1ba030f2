package controllers

import (
	"log"
	"net/http"
	"time"

	"venue-backend/config"
	"venue-backend/middleware"
	"venue-backend/models"
	"venue-backend/utils"

	"github.com/gin-gonic/gin"
)

// parseSince reads the optional ?since= cursor (RFC3339 / RFC3339Nano).
func parseSince(c *gin.Context) (*time.Time, bool) {
	raw := c.Query("since")
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid since timestamp: "+err.Error())
		return nil, false
	}
	return &t, true
}

// GET /api/notes[?since=ts]
func GetNotes(c *gin.Context) {
	since, ok := parseSince(c)
	if !ok {
		return
	}

	q := config.DB.Where("tenant_id = ?", middleware.TenantID(c))
	if since != nil {
		q = q.Where("created_at > ?", *since)
	}

	var notes []models.PatronNote
	if err := q.Order("created_at asc").Find(&notes).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load notes")
		return
	}
	c.JSON(http.StatusOK, notes)
}

// POST /api/notes — append-only, never mutated afterwards
func CreateNote(c *gin.Context) {
	var note models.PatronNote
	if err := c.ShouldBindJSON(&note); err != nil {
		log.Printf("❌ Note binding error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	note.ID = 0
	note.TenantID = middleware.TenantID(c)
	note.CreatedAt = time.Now().UTC()

	if err := config.DB.Create(&note).Error; err != nil {
		log.Printf("❌ DB Error creating note: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create note", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, note)
}
