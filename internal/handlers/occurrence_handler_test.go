package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cadence-tools/cadenced/internal/middleware"
	"github.com/cadence-tools/cadenced/internal/models"
	"github.com/cadence-tools/cadenced/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOccurrenceRouter(repo *repository.ScheduleRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware(zap.NewNop()))

	handler := NewOccurrenceHandler(repo, 3, 12)
	router.GET("/schedules/:id/occurrences", handler.ListUpcoming)
	router.POST("/occurrences/preview", handler.Preview)
	return router
}

func seedSchedule(t *testing.T, repo *repository.ScheduleRepository) *models.Schedule {
	t.Helper()
	s := &models.Schedule{
		ID:        uuid.New(),
		Name:      "Monthly user group",
		Ordinal:   3,
		Weekday:   models.Weekday{Weekday: time.Wednesday},
		TimeOfDay: models.TimeOfDay{Hour: 14, Minute: 30},
		Tags:      []string{"community"},
		Status:    models.ScheduleStatusActive,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func getOccurrences(t *testing.T, router *gin.Engine, path string) (OccurrencesResponse, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	router.ServeHTTP(w, req)

	var response OccurrencesResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return response, w
}

func TestListUpcomingOccurrences(t *testing.T) {
	repo := repository.NewScheduleRepository(zap.NewNop())
	router := newOccurrenceRouter(repo)
	schedule := seedSchedule(t, repo)

	t.Run("Before this month's occurrence", func(t *testing.T) {
		response, w := getOccurrences(t, router,
			"/schedules/"+schedule.ID.String()+"/occurrences?from=2024-03-10&count=3")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.Len(t, response.Occurrences, 3)
		assert.Equal(t, "2024-03-20", response.Occurrences[0].Date)
		assert.Equal(t, "2024-04-17", response.Occurrences[1].Date)
		assert.Equal(t, "2024-05-15", response.Occurrences[2].Date)
		assert.Equal(t, "2024-03-20T14:30", response.Occurrences[0].LocalTime)
		assert.Equal(t, "FREQ=MONTHLY;BYDAY=+3WE", response.RRule)
		assert.Equal(t, "2024-03-10", response.Reference)
		assert.Nil(t, response.Occurrences[0].Zoned)
	})

	t.Run("After this month's occurrence", func(t *testing.T) {
		response, w := getOccurrences(t, router,
			"/schedules/"+schedule.ID.String()+"/occurrences?from=2024-03-25&count=1")
		require.Equal(t, http.StatusOK, w.Code)

		require.Len(t, response.Occurrences, 1)
		assert.Equal(t, "2024-04-17", response.Occurrences[0].Date)
	})

	t.Run("Timezone attached at the boundary", func(t *testing.T) {
		response, w := getOccurrences(t, router,
			"/schedules/"+schedule.ID.String()+"/occurrences?from=2024-03-10&count=1&tz=America/Toronto")
		require.Equal(t, http.StatusOK, w.Code)

		require.Len(t, response.Occurrences, 1)
		require.NotNil(t, response.Occurrences[0].Zoned)
		assert.Equal(t, "2024-03-20T14:30:00-04:00", *response.Occurrences[0].Zoned)
	})

	t.Run("Default count", func(t *testing.T) {
		response, w := getOccurrences(t, router,
			"/schedules/"+schedule.ID.String()+"/occurrences?from=2024-03-10")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, response.Occurrences, 3)
	})

	t.Run("Count out of range", func(t *testing.T) {
		for _, count := range []string{"0", "13", "-2", "lots"} {
			_, w := getOccurrences(t, router,
				"/schedules/"+schedule.ID.String()+"/occurrences?count="+count)
			assert.Equal(t, http.StatusBadRequest, w.Code, "count %s", count)
		}
	})

	t.Run("Invalid from date", func(t *testing.T) {
		_, w := getOccurrences(t, router,
			"/schedules/"+schedule.ID.String()+"/occurrences?from=March-10")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown timezone", func(t *testing.T) {
		_, w := getOccurrences(t, router,
			"/schedules/"+schedule.ID.String()+"/occurrences?tz=Mars/Olympus")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown schedule", func(t *testing.T) {
		_, w := getOccurrences(t, router, "/schedules/"+uuid.New().String()+"/occurrences")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid schedule ID", func(t *testing.T) {
		_, w := getOccurrences(t, router, "/schedules/nope/occurrences")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPreviewOccurrences(t *testing.T) {
	repo := repository.NewScheduleRepository(zap.NewNop())
	router := newOccurrenceRouter(repo)

	preview := func(body string) (OccurrencesResponse, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/occurrences/preview", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		var response OccurrencesResponse
		if w.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		}
		return response, w
	}

	t.Run("Fifth Friday rolls forward", func(t *testing.T) {
		response, w := preview(`{"ordinal":5,"weekday":"friday","from":"2025-02-01","count":2}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.Len(t, response.Occurrences, 2)
		assert.Equal(t, "2025-03-07", response.Occurrences[0].Date)
		assert.Equal(t, "2025-05-02", response.Occurrences[1].Date)
		assert.Equal(t, "FREQ=MONTHLY;BYDAY=+5FR", response.RRule)
	})

	t.Run("Explicit time of day", func(t *testing.T) {
		response, w := preview(`{"ordinal":3,"weekday":"wednesday","time_of_day":"14:30","from":"2024-03-10","count":1}`)
		require.Equal(t, http.StatusOK, w.Code)

		require.Len(t, response.Occurrences, 1)
		assert.Equal(t, "2024-03-20T14:30", response.Occurrences[0].LocalTime)
	})

	t.Run("Defaults to noon and default count", func(t *testing.T) {
		response, w := preview(`{"ordinal":3,"weekday":"wednesday","from":"2024-03-10"}`)
		require.Equal(t, http.StatusOK, w.Code)

		require.Len(t, response.Occurrences, 3)
		assert.Equal(t, "2024-03-20T12:00", response.Occurrences[0].LocalTime)
	})

	t.Run("Invalid ordinal", func(t *testing.T) {
		_, w := preview(`{"ordinal":0,"weekday":"friday"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing weekday", func(t *testing.T) {
		_, w := preview(`{"ordinal":3}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid from date", func(t *testing.T) {
		_, w := preview(`{"ordinal":3,"weekday":"friday","from":"yesterday"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Count above maximum", func(t *testing.T) {
		_, w := preview(`{"ordinal":3,"weekday":"friday","count":99}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
