package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"venue-backend/config"
	"venue-backend/controllers"
	"venue-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires controller instances to routes. Everything under /api
// requires the shared-secret header; /health stays open for probes.
func SetupRouter(
	sc *controllers.StaffController,
	pc *controllers.PatronController,
	ec *controllers.EarningController,
	bc *controllers.BookingController,
	logger zerolog.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.SecretHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := config.DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.RequireSecret())
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", controllers.GetRooms)
			rooms.POST("", controllers.CreateRoom)
			rooms.PUT("/:id", controllers.UpdateRoom)
			rooms.DELETE("/:id", controllers.DeleteRoom)
		}

		staff := api.Group("/staff")
		{
			staff.GET("/online", sc.GetOnlineStaff)
			staff.POST("/heartbeat", sc.Heartbeat)
			staff.POST("/dnd", sc.SetDND)
		}

		earnings := api.Group("/earnings")
		{
			earnings.GET("", ec.GetEarnings)
			earnings.POST("", ec.CreateEarning)
			earnings.GET("/summary", ec.GetEarningsSummary)
		}

		patrons := api.Group("/patrons")
		{
			patrons.GET("", pc.GetPatrons)
			patrons.POST("", pc.UpsertPatron)
			patrons.PUT("/:id", pc.UpdatePatron)
		}

		notes := api.Group("/notes")
		{
			notes.GET("", controllers.GetNotes)
			notes.POST("", controllers.CreateNote)
		}

		menu := api.Group("/menu")
		{
			menu.GET("", controllers.GetMenu)
			menu.PUT("", controllers.ReplaceMenu)
		}

		gamba := api.Group("/gamba")
		{
			gamba.GET("/presets", controllers.GetGambaPresets)
			gamba.PUT("/presets", controllers.ReplaceGambaPresets)
		}

		cosmetics := api.Group("/cosmetics")
		{
			cosmetics.GET("", controllers.GetCosmetics)
			cosmetics.POST("", controllers.UpsertCosmetic)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", bc.GetBookings)
			bookings.POST("", bc.UpsertBooking)
			bookings.DELETE("/:id", bc.DeleteBooking)
		}
	}

	return r
}
