package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/service"
)

// FoodHandler exposes food search endpoints backed by the external food
// database and the nutrition API.
type FoodHandler struct {
	foods       service.IFoodSearchService
	ingredients *service.NutritionAPIService
}

// NewFoodHandler creates a new FoodHandler instance. ingredients may be
// nil when the nutrition API is not configured.
func NewFoodHandler(foods service.IFoodSearchService, ingredients *service.NutritionAPIService) *FoodHandler {
	return &FoodHandler{foods: foods, ingredients: ingredients}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	foods := router.Group("/foods")
	{
		foods.GET("/search", h.Search)
		foods.GET("/barcode/:code", h.ByBarcode)
		foods.GET("/ingredients", h.SearchIngredients)
		foods.GET("/custom", h.ListCustomFoods)
		foods.POST("/custom", h.CreateCustomFood)
		foods.DELETE("/custom/:id", h.DeleteCustomFood)
	}
}

func (h *FoodHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	results, err := h.foods.Search(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *FoodHandler) ByBarcode(c *gin.Context) {
	result, err := h.foods.ByBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type customFoodRequest struct {
	Name     string  `json:"name" binding:"required"`
	Brand    string  `json:"brand"`
	Barcode  string  `json:"barcode"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

func (h *FoodHandler) CreateCustomFood(c *gin.Context) {
	var req customFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := h.foods.CreateCustomFood(c.Request.Context(), &models.Food{
		Name:     req.Name,
		Brand:    req.Brand,
		Barcode:  req.Barcode,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		Fiber:    req.Fiber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (h *FoodHandler) ListCustomFoods(c *gin.Context) {
	foods, err := h.foods.ListCustomFoods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

func (h *FoodHandler) DeleteCustomFood(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.foods.DeleteCustomFood(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FoodHandler) SearchIngredients(c *gin.Context) {
	if h.ingredients == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "nutrition API not configured"})
		return
	}
	results, err := h.ingredients.SearchIngredients(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
