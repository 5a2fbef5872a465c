package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cadence-tools/cadenced/internal/middleware"
	"github.com/cadence-tools/cadenced/internal/models"
	"github.com/cadence-tools/cadenced/internal/recurrence"
	"github.com/cadence-tools/cadenced/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	scheduleRepo *repository.ScheduleRepository
}

func NewScheduleHandler(scheduleRepo *repository.ScheduleRepository) *ScheduleHandler {
	return &ScheduleHandler{scheduleRepo: scheduleRepo}
}

func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	logger := c.MustGet(middleware.LoggerKey).(*zap.Logger)

	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	if req.Weekday == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Weekday is required"})
		return
	}
	if _, err := recurrence.NewPicker(req.Ordinal, req.Weekday.Weekday, time.Now()); err != nil {
		if errors.Is(err, recurrence.ErrInvalidOrdinal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to validate schedule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate schedule"})
		return
	}

	timeOfDay := models.NoonTimeOfDay
	if req.TimeOfDay != nil {
		timeOfDay = *req.TimeOfDay
	}

	schedule := &models.Schedule{
		ID:        uuid.New(),
		Name:      req.Name,
		Ordinal:   req.Ordinal,
		Weekday:   *req.Weekday,
		TimeOfDay: timeOfDay,
		Tags:      req.Tags,
		Status:    models.ScheduleStatusActive,
		CreatedAt: time.Now(),
	}

	if err := h.scheduleRepo.Create(c.Request.Context(), schedule); err != nil {
		logger.Error("Failed to create schedule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	logger.Info("Schedule created",
		zap.String("id", schedule.ID.String()),
		zap.Int("ordinal", schedule.Ordinal),
		zap.String("weekday", schedule.Weekday.String()))
	c.JSON(http.StatusCreated, schedule)
}

func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	logger := c.MustGet(middleware.LoggerKey).(*zap.Logger)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	schedule, err := h.scheduleRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		logger.Error("Failed to get schedule", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get schedule"})
		return
	}
	if schedule == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) ListSchedulesByTags(c *gin.Context) {
	logger := c.MustGet(middleware.LoggerKey).(*zap.Logger)

	tags := c.QueryArray("tags")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}

	filter := models.ScheduleFilter{
		Tags:  tags,
		Page:  page,
		Limit: limit,
	}

	schedules, total, err := h.scheduleRepo.ListByTags(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list schedules", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list schedules"})
		return
	}

	response := models.PaginatedResponse{
		Data: schedules,
		Pagination: struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		}{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}

	logger.Info("Listed schedules", zap.Strings("tags", tags), zap.Int("total", total))
	c.JSON(http.StatusOK, response)
}

func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	logger := c.MustGet(middleware.LoggerKey).(*zap.Logger)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	schedule, err := h.scheduleRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		logger.Error("Failed to get schedule", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get schedule"})
		return
	}
	if schedule == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	var req models.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		schedule.Name = *req.Name
	}
	if req.Ordinal != nil {
		schedule.Ordinal = *req.Ordinal
	}
	if req.Weekday != nil {
		schedule.Weekday = *req.Weekday
	}
	if req.TimeOfDay != nil {
		schedule.TimeOfDay = *req.TimeOfDay
	}
	if req.Tags != nil {
		schedule.Tags = req.Tags
	}
	if req.Status != nil {
		switch models.ScheduleStatus(*req.Status) {
		case models.ScheduleStatusActive, models.ScheduleStatusPaused:
			schedule.Status = models.ScheduleStatus(*req.Status)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
	}

	if _, err := recurrence.NewPicker(schedule.Ordinal, schedule.Weekday.Weekday, time.Now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.scheduleRepo.Update(c.Request.Context(), schedule)
	if err != nil {
		logger.Error("Failed to update schedule", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	logger.Info("Schedule updated", zap.String("id", id.String()))
	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	logger := c.MustGet(middleware.LoggerKey).(*zap.Logger)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	ok, err := h.scheduleRepo.Delete(c.Request.Context(), id)
	if err != nil {
		logger.Error("Failed to delete schedule", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	logger.Info("Schedule deleted", zap.String("id", id.String()))
	c.Status(http.StatusNoContent)
}
