package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"venue-backend/config"
	"venue-backend/middleware"
	"venue-backend/models"

	"github.com/gin-gonic/gin"
)

// ----------------------------------------------------
// 1. Get Rooms (GET /api/rooms)
// ----------------------------------------------------

func GetRooms(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var rooms []models.Room
	if err := config.DB.Where("tenant_id = ?", tenantID).Order("name asc").Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// ----------------------------------------------------
// 2. Create Room (POST /api/rooms)
// ----------------------------------------------------

func CreateRoom(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Room name is required.",
		})
		return
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}

	room.ID = 0
	room.TenantID = tenantID

	if result := config.DB.Create(&room); result.Error != nil {
		// duplicate (tenant, name) hits the unique index
		if strings.Contains(result.Error.Error(), "Duplicate entry") || strings.Contains(result.Error.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Room '%s' already exists.", room.Name),
			})
			return
		}

		log.Printf("❌ DB ERROR: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": result.Error.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ----------------------------------------------------
// 3. Update Room (PUT /api/rooms/:id)
// ----------------------------------------------------

func UpdateRoom(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	id := c.Param("id")

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	// identity and bookkeeping fields are not caller-editable
	delete(updateData, "id")
	delete(updateData, "tenant_id")
	delete(updateData, "created_at")
	delete(updateData, "updated_at")
	delete(updateData, "deleted_at")

	result := config.DB.Model(&models.Room{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(updateData)
	if result.Error != nil {
		log.Printf("❌ Update Error for Room %s: %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Update failed",
			"details": result.Error.Error(),
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("Room with ID %s not found.", id),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Room updated successfully",
	})
}

// ----------------------------------------------------
// 4. Delete Room (DELETE /api/rooms/:id)
// ----------------------------------------------------

func DeleteRoom(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	id := c.Param("id")

	result := config.DB.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.Room{})
	if result.Error != nil {
		log.Printf("❌ DB Error during deletion (ID: %s): %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete room.",
		})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("Room with ID %s not found.", id),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Room deleted successfully",
	})
}
