package controllers

import (
	"errors"
	"net/http"
	"strings"

	"venue-backend/middleware"
	"venue-backend/models"
	"venue-backend/services"
	"venue-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

// GET /api/bookings
func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.BookingSvc.List(middleware.TenantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load bookings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// POST /api/bookings — upsert keyed by the client-assigned id
func (bc *BookingController) UpsertBooking(c *gin.Context) {
	var payload models.Booking
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	payload.ID = strings.TrimSpace(payload.ID)
	if payload.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Booking id is required."})
		return
	}
	if payload.Status == "" {
		payload.Status = models.BookingActive
	}

	booking, err := bc.BookingSvc.Upsert(middleware.TenantID(c), payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Upsert failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DELETE /api/bookings/:id
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	err := bc.BookingSvc.Delete(middleware.TenantID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "delete failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}
