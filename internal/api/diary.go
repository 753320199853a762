package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/service"
)

// DiaryHandler exposes food-diary endpoints.
type DiaryHandler struct {
	diary service.IDiaryService
}

// NewDiaryHandler creates a new DiaryHandler instance.
func NewDiaryHandler(diary service.IDiaryService) *DiaryHandler {
	return &DiaryHandler{diary: diary}
}

func (h *DiaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	diary := router.Group("/diary")
	{
		diary.GET("", h.DailyMeals)
		diary.POST("/meals", h.FindOrCreateMeal)
		diary.GET("/meals/:id", h.GetMeal)
		diary.DELETE("/meals/:id", h.DeleteMeal)
		diary.POST("/meals/:id/entries", h.AddEntry)
		diary.DELETE("/meals/:id/entries/:entryId", h.RemoveEntry)
	}
}

func (h *DiaryHandler) DailyMeals(c *gin.Context) {
	date, ok := parseDate(c, c.DefaultQuery("date", time.Now().Format("2006-01-02")))
	if !ok {
		return
	}
	summary, err := h.diary.DailyMeals(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type createMealRequest struct {
	Date     string `json:"date" binding:"required"`
	MealType string `json:"meal_type" binding:"required"`
}

func (h *DiaryHandler) FindOrCreateMeal(c *gin.Context) {
	var req createMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, ok := parseDate(c, req.Date)
	if !ok {
		return
	}

	meal, err := h.diary.FindOrCreateMeal(c.Request.Context(), date, req.MealType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *DiaryHandler) GetMeal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	meal, err := h.diary.GetMeal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *DiaryHandler) DeleteMeal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.diary.DeleteMeal(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DiaryHandler) AddEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var entry models.DiaryEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if entry.Amount == 0 {
		entry.Amount = 100
	}
	if entry.Unit == "" {
		entry.Unit = "g"
	}

	created, err := h.diary.AddEntry(c.Request.Context(), id, &entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DiaryHandler) RemoveEntry(c *gin.Context) {
	mealID, ok := parseID(c, "id")
	if !ok {
		return
	}
	entryID, ok := parseID(c, "entryId")
	if !ok {
		return
	}

	if err := h.diary.RemoveEntry(c.Request.Context(), mealID, entryID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseDate(c *gin.Context, raw string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}
