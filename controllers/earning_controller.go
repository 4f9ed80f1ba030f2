package controllers

import (
	"net/http"

	"venue-backend/middleware"
	"venue-backend/models"
	"venue-backend/services"

	"github.com/gin-gonic/gin"
)

type EarningController struct {
	EarningSvc *services.EarningService
}

func NewEarningController(svc *services.EarningService) *EarningController {
	return &EarningController{EarningSvc: svc}
}

// GET /api/earnings[?since=ts]
func (ec *EarningController) GetEarnings(c *gin.Context) {
	since, ok := parseSince(c)
	if !ok {
		return
	}

	earnings, err := ec.EarningSvc.List(middleware.TenantID(c), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load earnings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, earnings)
}

// POST /api/earnings — append-only ledger entry
func (ec *EarningController) CreateEarning(c *gin.Context) {
	var payload models.Earning
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	earning, err := ec.EarningSvc.Create(middleware.TenantID(c), payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to record earning", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, earning)
}

// GET /api/earnings/summary — count and sum per role
func (ec *EarningController) GetEarningsSummary(c *gin.Context) {
	summary, err := ec.EarningSvc.Summary(middleware.TenantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to aggregate earnings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
