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

// OccurrenceHandler answers "when does this schedule happen next"
// queries. All date arithmetic happens in the recurrence package; this
// layer only parses parameters and attaches the caller's timezone.
type OccurrenceHandler struct {
	scheduleRepo *repository.ScheduleRepository
	defaultCount int
	maxCount     int
}

func NewOccurrenceHandler(scheduleRepo *repository.ScheduleRepository, defaultCount, maxCount int) *OccurrenceHandler {
	return &OccurrenceHandler{
		scheduleRepo: scheduleRepo,
		defaultCount: defaultCount,
		maxCount:     maxCount,
	}
}

// OccurrencesResponse lists upcoming occurrences for one rule, along
// with the reference date used and the rule's RRULE rendering.
type OccurrencesResponse struct {
	ScheduleID  *uuid.UUID          `json:"schedule_id,omitempty"`
	Name        string              `json:"name,omitempty"`
	RRule       string              `json:"rrule"`
	Reference   string              `json:"reference"`
	Timezone    string              `json:"timezone,omitempty"`
	Occurrences []models.Occurrence `json:"occurrences"`
}

// ListUpcoming handles GET /schedules/:id/occurrences.
func (h *OccurrenceHandler) ListUpcoming(c *gin.Context) {
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

	count, ok := h.parseCount(c, c.DefaultQuery("count", strconv.Itoa(h.defaultCount)))
	if !ok {
		return
	}
	reference, ok := parseReference(c, c.Query("from"))
	if !ok {
		return
	}
	loc, ok := parseTimezone(c, c.Query("tz"))
	if !ok {
		return
	}

	picker, err := schedule.PickerAt(reference)
	if err != nil {
		logger.Error("Stored schedule failed picker construction",
			zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute occurrences"})
		return
	}

	occurrences, err := computeOccurrences(picker, count, loc)
	if err != nil {
		logger.Error("Failed to compute occurrences", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute occurrences"})
		return
	}

	logger.Info("Computed occurrences",
		zap.String("schedule_id", id.String()),
		zap.Int("count", count),
		zap.String("reference", reference.Format("2006-01-02")))
	c.JSON(http.StatusOK, OccurrencesResponse{
		ScheduleID:  &schedule.ID,
		Name:        schedule.Name,
		RRule:       picker.RRuleString(),
		Reference:   picker.Reference().Format("2006-01-02"),
		Timezone:    c.Query("tz"),
		Occurrences: occurrences,
	})
}

// Preview handles POST /occurrences/preview: the same computation for
// an ad-hoc rule, without registering a schedule.
func (h *OccurrenceHandler) Preview(c *gin.Context) {
	logger := c.MustGet(middleware.LoggerKey).(*zap.Logger)

	var req models.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Weekday == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Weekday is required"})
		return
	}

	count := req.Count
	if count == 0 {
		count = h.defaultCount
	}
	if count < 1 || count > h.maxCount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Count out of range"})
		return
	}

	reference := time.Now()
	if req.From != nil {
		parsed, err := time.Parse("2006-01-02", *req.From)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date (expected YYYY-MM-DD)"})
			return
		}
		reference = parsed
	}

	loc, ok := parseTimezone(c, req.Timezone)
	if !ok {
		return
	}

	at := recurrence.Noon
	if req.TimeOfDay != nil {
		at = recurrence.TimeOfDay{Hour: req.TimeOfDay.Hour, Minute: req.TimeOfDay.Minute}
	}

	picker, err := recurrence.NewPickerAt(req.Ordinal, req.Weekday.Weekday, at, reference)
	if err != nil {
		if errors.Is(err, recurrence.ErrInvalidOrdinal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to build picker", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute occurrences"})
		return
	}

	occurrences, err := computeOccurrences(picker, count, loc)
	if err != nil {
		logger.Error("Failed to compute preview occurrences", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute occurrences"})
		return
	}

	logger.Info("Previewed occurrences",
		zap.Int("ordinal", req.Ordinal),
		zap.String("weekday", req.Weekday.String()),
		zap.Int("count", count))
	c.JSON(http.StatusOK, OccurrencesResponse{
		RRule:       picker.RRuleString(),
		Reference:   picker.Reference().Format("2006-01-02"),
		Timezone:    req.Timezone,
		Occurrences: occurrences,
	})
}

func (h *OccurrenceHandler) parseCount(c *gin.Context, raw string) (int, bool) {
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 || count > h.maxCount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Count out of range"})
		return 0, false
	}
	return count, true
}

func parseReference(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now(), true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date (expected YYYY-MM-DD)"})
		return time.Time{}, false
	}
	return parsed, true
}

func parseTimezone(c *gin.Context, name string) (*time.Location, bool) {
	if name == "" {
		return nil, true
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown timezone"})
		return nil, false
	}
	return loc, true
}

// computeOccurrences walks the next count occurrences. The zone is
// attached here, at the boundary; the picker itself stays zone-naive.
func computeOccurrences(picker *recurrence.Picker, count int, loc *time.Location) ([]models.Occurrence, error) {
	occurrences := make([]models.Occurrence, 0, count)
	for step := 0; step < count; step++ {
		dt, err := picker.NextDateTime(step)
		if err != nil {
			return nil, err
		}
		occ := models.Occurrence{
			Date:      dt.Format("2006-01-02"),
			LocalTime: dt.Format("2006-01-02T15:04"),
		}
		if loc != nil {
			zoned := time.Date(dt.Year(), dt.Month(), dt.Day(), dt.Hour(), dt.Minute(), 0, 0, loc).Format(time.RFC3339)
			occ.Zoned = &zoned
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, nil
}
