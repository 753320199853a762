package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/service"
)

// AIHandler exposes AI suggestion endpoints. Routes are registered with
// a rate limiter since each call is a paid model invocation.
type AIHandler struct {
	suggestions service.SuggestionServiceInterface
	planner     service.IPlannerService
	goals       service.IGoalService
	limiter     *middleware.RateLimiter
}

// NewAIHandler creates a new AIHandler instance. limiter may be nil
// when Redis is unavailable; the endpoints then run unthrottled.
func NewAIHandler(suggestions service.SuggestionServiceInterface, planner service.IPlannerService, goals service.IGoalService, limiter *middleware.RateLimiter) *AIHandler {
	return &AIHandler{suggestions: suggestions, planner: planner, goals: goals, limiter: limiter}
}

func (h *AIHandler) RegisterRoutes(router *gin.RouterGroup) {
	ai := router.Group("/ai")
	if h.limiter != nil {
		// The limit lookup itself is free and stays outside the
		// throttled group.
		ai.GET("/limit", h.RateLimitStatus)
		ai.Use(h.limiter.Middleware())
	}
	{
		ai.POST("/suggest-week", h.SuggestWeek)
		ai.POST("/suggest-week/plan", h.CreatePlanFromSuggestion)
		ai.POST("/suggest-recipes", h.SuggestRecipes)
		ai.POST("/chat", h.Chat)
	}
}

type suggestWeekRequest struct {
	Targets      service.NutritionTargets `json:"targets" binding:"required"`
	Days         int                      `json:"days"`
	Preferences  []string                 `json:"preferences"`
	Restrictions []string                 `json:"restrictions"`
	Language     string                   `json:"language"`
	Name         string                   `json:"name"`
	StartDate    *time.Time               `json:"start_date"`
}

func (h *AIHandler) SuggestWeek(c *gin.Context) {
	req, ok := h.bindSuggestWeek(c)
	if !ok {
		return
	}

	week, err := h.suggestions.GenerateWeek(c.Request.Context(), req.Targets, req.Days, req.Preferences, req.Restrictions, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *AIHandler) CreatePlanFromSuggestion(c *gin.Context) {
	req, ok := h.bindSuggestWeek(c)
	if !ok {
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	startDate := time.Now()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	week, err := h.suggestions.GenerateWeek(c.Request.Context(), req.Targets, req.Days, req.Preferences, req.Restrictions, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}

	plan, err := h.planner.CreateFromSuggestedWeek(c.Request.Context(), req.Name, startDate, week)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *AIHandler) SuggestRecipes(c *gin.Context) {
	if h.suggestions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI suggestions not configured"})
		return
	}

	var req service.RecipeSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestions, err := h.suggestions.SuggestRecipes(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

type chatRequest struct {
	Message  string                `json:"message" binding:"required"`
	History  []service.ChatMessage `json:"history"`
	Language string                `json:"language"`
}

// Chat answers a nutrition question. The active goal, when one exists,
// is passed to the model as context.
func (h *AIHandler) Chat(c *gin.Context) {
	if h.suggestions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI suggestions not configured"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var targets *service.NutritionTargets
	if goal, err := h.goals.ActiveGoal(c.Request.Context()); err == nil {
		targets = &service.NutritionTargets{
			Calories: goal.DailyCalories,
			Protein:  goal.DailyProtein,
			Carbs:    goal.DailyCarbs,
			Fat:      goal.DailyFat,
		}
	} else if !errors.Is(err, service.ErrNotFound) {
		respondError(c, err)
		return
	}

	reply, err := h.suggestions.Chat(c.Request.Context(), req.Message, req.History, targets, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// RateLimitStatus reports the caller's remaining AI requests in the
// current window without consuming one.
func (h *AIHandler) RateLimitStatus(c *gin.Context) {
	remaining, resetTime, err := h.limiter.RemainingRequests(c.Request.Context(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rate limit status unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"remaining": remaining,
		"reset_at":  resetTime.Unix(),
	})
}

func (h *AIHandler) bindSuggestWeek(c *gin.Context) (*suggestWeekRequest, bool) {
	if h.suggestions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI suggestions not configured"})
		return nil, false
	}

	var req suggestWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if req.Days <= 0 || req.Days > 7 {
		req.Days = 7
	}
	if req.Targets.Calories <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targets.calories must be positive"})
		return nil, false
	}
	return &req, true
}
