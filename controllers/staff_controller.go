package controllers

import (
	"errors"
	"net/http"

	"venue-backend/middleware"
	"venue-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StaffController struct {
	StaffSvc *services.StaffService
}

func NewStaffController(svc *services.StaffService) *StaffController {
	return &StaffController{StaffSvc: svc}
}

// GET /api/staff/online
func (sc *StaffController) GetOnlineStaff(c *gin.Context) {
	staff, err := sc.StaffSvc.Online(middleware.TenantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load staff", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, staff)
}

// POST /api/staff/heartbeat
func (sc *StaffController) Heartbeat(c *gin.Context) {
	var payload services.HeartbeatInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	staff, err := sc.StaffSvc.Heartbeat(middleware.TenantID(c), payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Heartbeat failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, staff)
}

// POST /api/staff/dnd
func (sc *StaffController) SetDND(c *gin.Context) {
	var payload struct {
		CharacterName string `json:"characterName" binding:"required"`
		DND           *bool  `json:"dnd" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	staff, err := sc.StaffSvc.SetDND(middleware.TenantID(c), payload.CharacterName, *payload.DND)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Staff member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Update failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, staff)
}
