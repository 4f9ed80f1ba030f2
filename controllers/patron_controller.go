package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"venue-backend/middleware"
	"venue-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PatronController struct {
	PatronSvc *services.PatronService
}

func NewPatronController(svc *services.PatronService) *PatronController {
	return &PatronController{PatronSvc: svc}
}

// GET /api/patrons
func (pc *PatronController) GetPatrons(c *gin.Context) {
	patrons, err := pc.PatronSvc.List(middleware.TenantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load patrons", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patrons)
}

// POST /api/patrons — natural-key upsert by name
func (pc *PatronController) UpsertPatron(c *gin.Context) {
	var payload services.PatronInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	patron, err := pc.PatronSvc.Upsert(middleware.TenantID(c), payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Upsert failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patron)
}

// PUT /api/patrons/:id
func (pc *PatronController) UpdatePatron(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid patron id"})
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	patron, err := pc.PatronSvc.Update(middleware.TenantID(c), uint(id), fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Patron not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Update failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patron)
}
