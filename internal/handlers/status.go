package handlers

import (
	"net/http"
	"time"

	"github.com/cadence-tools/cadenced/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var startTime = time.Now()

// StatusResponse describes the running service and the recurrence
// semantics it implements.
type StatusResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Version       string         `json:"version"`
	Recurrence    RecurrenceInfo `json:"recurrence"`
}

// RecurrenceInfo documents the rule space so API clients can validate
// input without a round trip.
type RecurrenceInfo struct {
	MinOrdinal  int    `json:"min_ordinal"`
	MaxOrdinal  int    `json:"max_ordinal"`
	DefaultTime string `json:"default_time"`
	RollForward bool   `json:"roll_forward"`
}

// StatusHandler handles the status endpoint.
func StatusHandler(c *gin.Context) {
	logger := c.MustGet(middleware.LoggerKey).(*zap.Logger)
	response := StatusResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		Version:       "1.0.0",
		Recurrence: RecurrenceInfo{
			MinOrdinal:  1,
			MaxOrdinal:  5,
			DefaultTime: "12:00",
			RollForward: true,
		},
	}
	logger.Info("Status endpoint checked", zap.Int64("uptime_seconds", response.UptimeSeconds))
	c.JSON(http.StatusOK, response)
}
