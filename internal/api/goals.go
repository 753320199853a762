package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/service"
)

// GoalHandler exposes nutrition-goal endpoints.
type GoalHandler struct {
	goals service.IGoalService
}

// NewGoalHandler creates a new GoalHandler instance.
func NewGoalHandler(goals service.IGoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

func (h *GoalHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.GET("/active", h.ActiveGoal)
		goals.GET("", h.History)
		goals.POST("", h.CreateGoal)
		goals.PATCH("/:id", h.UpdateGoal)
		goals.DELETE("/:id", h.DeleteGoal)
	}
}

func (h *GoalHandler) ActiveGoal(c *gin.Context) {
	goal, err := h.goals.ActiveGoal(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) History(c *gin.Context) {
	goals, err := h.goals.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

type createGoalRequest struct {
	DailyCalories float64 `json:"daily_calories" binding:"required"`
	DailyProtein  float64 `json:"daily_protein"`
	DailyCarbs    float64 `json:"daily_carbs"`
	DailyFat      float64 `json:"daily_fat"`
	Notes         string  `json:"notes"`
	IsActive      *bool   `json:"is_active"`
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal := &models.Goal{
		DailyCalories: req.DailyCalories,
		DailyProtein:  req.DailyProtein,
		DailyCarbs:    req.DailyCarbs,
		DailyFat:      req.DailyFat,
		Notes:         req.Notes,
		IsActive:      true,
	}
	if req.IsActive != nil {
		goal.IsActive = *req.IsActive
	}

	created, err := h.goals.CreateGoal(c.Request.Context(), goal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var update service.GoalUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.goals.UpdateGoal(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.goals.DeleteGoal(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
