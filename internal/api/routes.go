package api

import (
	"github.com/cadence-tools/cadenced/internal/handlers"
	"github.com/cadence-tools/cadenced/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes configures all API routes with their middleware.
func SetupRoutes(router *gin.Engine, scheduleHandler *handlers.ScheduleHandler, occurrenceHandler *handlers.OccurrenceHandler) {
	requestLogger := logrus.New()

	router.Use(middleware.Logger(requestLogger))
	router.Use(middleware.ErrorHandler())

	router.GET("/status", handlers.StatusHandler)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	schedules := router.Group("/schedules")
	{
		schedules.POST("", scheduleHandler.CreateSchedule)
		schedules.GET("", scheduleHandler.ListSchedulesByTags)
		schedules.GET("/:id", scheduleHandler.GetSchedule)
		schedules.PUT("/:id", scheduleHandler.UpdateSchedule)
		schedules.DELETE("/:id", scheduleHandler.DeleteSchedule)
		schedules.GET("/:id/occurrences", occurrenceHandler.ListUpcoming)
	}

	router.POST("/occurrences/preview", occurrenceHandler.Preview)
}
