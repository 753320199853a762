package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/service"
)

// RecipeHandler exposes recipe endpoints.
type RecipeHandler struct {
	recipes service.IRecipeService
	photos  *service.PhotoService
}

// NewRecipeHandler creates a new RecipeHandler instance. photos may be
// nil when S3 storage is not configured.
func NewRecipeHandler(recipes service.IRecipeService, photos *service.PhotoService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, photos: photos}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.CreateRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/photo", h.UploadPhoto)
		recipes.GET("/:id/photo", h.PhotoURL)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var (
		recipes []*models.Recipe
		err     error
	)
	if query := c.Query("q"); query != "" {
		recipes, err = h.recipes.SearchRecipes(c.Request.Context(), query)
	} else {
		recipes, err = h.recipes.ListRecipes(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.recipes.CreateRecipe(c.Request.Context(), &recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.recipes.UpdateRecipe(c.Request.Context(), id, &recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PhotoURL returns a short-lived presigned URL for the recipe's photo.
func (h *RecipeHandler) PhotoURL(c *gin.Context) {
	if h.photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage not configured"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	url, err := h.photos.PresignedRecipePhotoURL(c.Request.Context(), id, 15*time.Minute)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *RecipeHandler) UploadPhoto(c *gin.Context) {
	if h.photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage not configured"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing photo file"})
		return
	}
	defer file.Close()

	url, err := h.photos.UploadRecipePhoto(c.Request.Context(), id, file, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
