package api

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupAPI wires the services and registers every route group under
// /api/v1. Optional integrations (AI provider, nutrition API, S3) are
// skipped when unconfigured and their endpoints report unavailability.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	v1 := router.Group("/api/v1")

	var suggestions service.SuggestionServiceInterface
	if cfg.GeminiAPIKey != "" {
		svc, err := service.NewSuggestionService(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("AI suggestions disabled: %v", err)
		} else {
			suggestions = svc
		}
	}

	plannerService := service.NewPlannerService(db, suggestions)
	diaryService := service.NewDiaryService(db)
	goalService := service.NewGoalService(db)
	recipeService := service.NewRecipeService(db)
	prefsService := service.NewPreferencesService(db)
	foodService := service.NewFoodSearchService(db, redisClient, cfg.OpenFoodFactsURL, cfg.OpenFoodFactsUserAgent)

	var nutritionService *service.NutritionAPIService
	if cfg.NutritionClientID != "" && cfg.NutritionClientSecret != "" {
		nutritionService = service.NewNutritionAPIService(db, cfg.NutritionClientID, cfg.NutritionClientSecret, cfg.NutritionTokenURL, cfg.NutritionBaseURL)
	}

	var photoService *service.PhotoService
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(context.Background())
		if err != nil {
			log.Printf("photo storage disabled: %v", err)
		} else {
			photoService = service.NewPhotoService(db, s3Config)
		}
	}

	var aiLimiter *middleware.RateLimiter
	if redisClient != nil {
		aiLimiter = middleware.NewSuggestionRateLimiter(redisClient)
	}

	NewPlanHandler(plannerService).RegisterRoutes(v1)
	NewDiaryHandler(diaryService).RegisterRoutes(v1)
	NewGoalHandler(goalService).RegisterRoutes(v1)
	NewRecipeHandler(recipeService, photoService).RegisterRoutes(v1)
	NewFoodHandler(foodService, nutritionService).RegisterRoutes(v1)
	NewPreferencesHandler(prefsService).RegisterRoutes(v1)
	NewAIHandler(suggestions, plannerService, goalService, aiLimiter).RegisterRoutes(v1)
}
