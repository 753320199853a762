package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/api"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/service"
	"github.com/platewise/backend/internal/testdb"
)

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db := testdb.Open(t)

	router := gin.New()
	v1 := router.Group("/api/v1")

	planner := service.NewPlannerService(db, nil)
	api.NewPlanHandler(planner).RegisterRoutes(v1)
	api.NewDiaryHandler(service.NewDiaryService(db)).RegisterRoutes(v1)
	api.NewGoalHandler(service.NewGoalService(db)).RegisterRoutes(v1)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPlanLifecycleOverHTTP(t *testing.T) {
	router := setupRouter(t)

	// Create a plan.
	w := doJSON(t, router, http.MethodPost, "/api/v1/plans", gin.H{
		"name":       "Cut Week",
		"start_date": time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var plan models.WeekPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, "draft", plan.Status)

	// Add a slot and confirm the totals move.
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/plans/%s/slots", plan.ID), gin.H{
		"day_index": 0,
		"meal_type": "breakfast",
		"food_name": "Oatmeal",
		"amount":    80,
		"unit":      "g",
		"calories":  300,
		"protein":   11,
		"carbs":     54,
		"fat":       5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/plans/%s", plan.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.WeekPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.InDelta(t, 300, got.TotalCalories, 1e-9)
	require.Len(t, got.Slots, 1)

	// Apply the plan to the diary and verify the entry landed.
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/plans/%s/apply", plan.ID), gin.H{
		"start_date": time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusOK, w.Code)
	var applied struct {
		EntriesCreated int `json:"entries_created"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &applied))
	assert.Equal(t, 1, applied.EntriesCreated)

	w = doJSON(t, router, http.MethodGet, "/api/v1/diary?date=2025-03-10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary service.DailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Len(t, summary.Meals, 1)
	assert.InDelta(t, 300, summary.TotalCalories, 1e-9)

	// Rollup returns the dense week.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/plans/%s/nutrition", plan.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rollup service.WeeklyRollup
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rollup))
	require.Len(t, rollup.Days, 7)
	assert.Equal(t, "Total", rollup.Totals.Date)
}

func TestErrorStatusMapping(t *testing.T) {
	router := setupRouter(t)

	// Unknown plan id is a 404.
	w := doJSON(t, router, http.MethodGet, "/api/v1/plans/3e3c5dd2-54c6-44e0-9d4c-5a2b2f1f8f10", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Malformed id is a 400.
	w = doJSON(t, router, http.MethodGet, "/api/v1/plans/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid slot input is a 400 and nothing persists.
	create := doJSON(t, router, http.MethodPost, "/api/v1/plans", gin.H{
		"name":       "Validation Week",
		"start_date": time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, create.Code)
	var plan models.WeekPlan
	require.NoError(t, json.Unmarshal(create.Body.Bytes(), &plan))

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/plans/%s/slots", plan.ID), gin.H{
		"day_index": 12,
		"meal_type": "breakfast",
		"food_name": "Oatmeal",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/plans/%s", plan.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.WeekPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Empty(t, got.Slots)

	// Goals with no active record map to 404.
	w = doJSON(t, router, http.MethodGet, "/api/v1/goals/active", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
