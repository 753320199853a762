package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/service"
)

// PlanHandler exposes week-plan endpoints.
type PlanHandler struct {
	planner service.IPlannerService
}

// NewPlanHandler creates a new PlanHandler instance.
func NewPlanHandler(planner service.IPlannerService) *PlanHandler {
	return &PlanHandler{planner: planner}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/plans")
	{
		plans.GET("", h.ListPlans)
		plans.POST("", h.CreatePlan)
		plans.GET("/draft", h.CurrentDraft)
		plans.GET("/:id", h.GetPlan)
		plans.PATCH("/:id", h.UpdatePlan)
		plans.DELETE("/:id", h.DeletePlan)

		plans.POST("/:id/slots", h.AddSlot)
		plans.DELETE("/:id/slots/:slotId", h.RemoveSlot)
		plans.DELETE("/:id/days/:day", h.ClearDay)
		plans.POST("/:id/days/:day/regenerate", h.RegenerateDay)
		plans.POST("/:id/apply", h.ApplyToDiary)
		plans.GET("/:id/nutrition", h.NutritionRollup)
	}
}

type createPlanRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	Notes     string    `json:"notes"`
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.planner.CreatePlan(c.Request.Context(), &models.WeekPlan{
		Name:      req.Name,
		StartDate: req.StartDate,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	plans, err := h.planner.ListPlans(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *PlanHandler) CurrentDraft(c *gin.Context) {
	plan, err := h.planner.CurrentDraft(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	plan, err := h.planner.GetPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var update service.PlanUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.planner.UpdatePlan(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.planner.DeletePlan(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addSlotRequest struct {
	DayIndex    int     `json:"day_index"`
	MealType    string  `json:"meal_type" binding:"required"`
	FoodID      *string `json:"food_id"`
	RecipeID    *string `json:"recipe_id"`
	FoodName    string  `json:"food_name" binding:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

func (h *PlanHandler) AddSlot(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req addSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount == 0 {
		req.Amount = 100
	}
	if req.Unit == "" {
		req.Unit = "g"
	}

	slot := &models.PlanSlot{
		DayIndex:    req.DayIndex,
		MealType:    req.MealType,
		FoodName:    req.FoodName,
		Description: req.Description,
		Amount:      req.Amount,
		Unit:        req.Unit,
		Calories:    req.Calories,
		Protein:     req.Protein,
		Carbs:       req.Carbs,
		Fat:         req.Fat,
	}
	if req.FoodID != nil {
		foodID, err := uuid.Parse(*req.FoodID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
			return
		}
		slot.FoodID = &foodID
	}
	if req.RecipeID != nil {
		recipeID, err := uuid.Parse(*req.RecipeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}
		slot.RecipeID = &recipeID
	}

	created, err := h.planner.AddSlot(c.Request.Context(), id, slot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *PlanHandler) RemoveSlot(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	slotID, err := uuid.Parse(c.Param("slotId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot id"})
		return
	}

	if err := h.planner.RemoveSlot(c.Request.Context(), id, slotID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) ClearDay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day index"})
		return
	}

	removed, err := h.planner.ClearDay(c.Request.Context(), id, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

type regenerateDayRequest struct {
	MealType string `json:"meal_type"`
	Language string `json:"language"`
}

func (h *PlanHandler) RegenerateDay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day index"})
		return
	}

	var req regenerateDayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	plan, err := h.planner.RegenerateDay(c.Request.Context(), id, day, req.MealType, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type applyPlanRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
}

func (h *PlanHandler) ApplyToDiary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req applyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.planner.ApplyToDiary(c.Request.Context(), id, req.StartDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries_created": created})
}

func (h *PlanHandler) NutritionRollup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rollup, err := h.planner.NutritionRollup(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rollup)
}

// parseID parses a uuid path parameter, writing a 400 on failure.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}
