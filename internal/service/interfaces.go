package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/backend/internal/models"
)

// SuggestionServiceInterface is the port to the AI meal-suggestion
// provider. It is injected into the planner so tests can substitute a
// fake; suggestion calls are long-latency and must never run inside a
// plan transaction.
type SuggestionServiceInterface interface {
	GenerateWeek(ctx context.Context, targets NutritionTargets, days int, preferences, restrictions []string, language string) (*SuggestedWeek, error)
	GenerateDay(ctx context.Context, req SuggestionRequest) (*SuggestedDay, error)
	SuggestRecipes(ctx context.Context, req RecipeSuggestionRequest) (*RecipeSuggestions, error)
	Chat(ctx context.Context, message string, history []ChatMessage, goals *NutritionTargets, language string) (*ChatReply, error)
}

// IPlannerService defines the week-plan operations exposed to handlers.
type IPlannerService interface {
	CreatePlan(ctx context.Context, plan *models.WeekPlan) (*models.WeekPlan, error)
	CreateFromSuggestedWeek(ctx context.Context, name string, startDate time.Time, week *SuggestedWeek) (*models.WeekPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.WeekPlan, error)
	ListPlans(ctx context.Context, status string, offset, limit int) ([]models.WeekPlan, error)
	CurrentDraft(ctx context.Context) (*models.WeekPlan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, update PlanUpdate) (*models.WeekPlan, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error

	AddSlot(ctx context.Context, planID uuid.UUID, slot *models.PlanSlot) (*models.PlanSlot, error)
	RemoveSlot(ctx context.Context, planID, slotID uuid.UUID) error
	ClearDay(ctx context.Context, planID uuid.UUID, dayIndex int) (int, error)
	MergeSuggestedDay(ctx context.Context, planID uuid.UUID, dayIndex int, day *SuggestedDay, mealTypeFilter string) error
	RegenerateDay(ctx context.Context, planID uuid.UUID, dayIndex int, mealTypeFilter, language string) (*models.WeekPlan, error)
	ApplyToDiary(ctx context.Context, planID uuid.UUID, targetStartDate time.Time) (int, error)
	NutritionRollup(ctx context.Context, planID uuid.UUID) (*WeeklyRollup, error)
}

// IDiaryService defines the diary operations exposed to handlers.
type IDiaryService interface {
	DailyMeals(ctx context.Context, date time.Time) (*DailySummary, error)
	FindOrCreateMeal(ctx context.Context, date time.Time, mealType string) (*models.DiaryMeal, error)
	GetMeal(ctx context.Context, id uuid.UUID) (*models.DiaryMeal, error)
	AddEntry(ctx context.Context, mealID uuid.UUID, entry *models.DiaryEntry) (*models.DiaryEntry, error)
	RemoveEntry(ctx context.Context, mealID, entryID uuid.UUID) error
	DeleteMeal(ctx context.Context, id uuid.UUID) error
}

// IGoalService defines goal operations exposed to handlers.
type IGoalService interface {
	ActiveGoal(ctx context.Context) (*models.Goal, error)
	History(ctx context.Context) ([]models.Goal, error)
	CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	UpdateGoal(ctx context.Context, id uuid.UUID, update GoalUpdate) (*models.Goal, error)
	DeleteGoal(ctx context.Context, id uuid.UUID) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *models.Recipe) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	ListRecipes(ctx context.Context) ([]*models.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]*models.Recipe, error)
}

// IFoodSearchService defines the external food-database passthrough and
// the custom-food catalog.
type IFoodSearchService interface {
	Search(ctx context.Context, query string, page, pageSize int) ([]FoodSearchResult, error)
	ByBarcode(ctx context.Context, barcode string) (*FoodSearchResult, error)
	CreateCustomFood(ctx context.Context, food *models.Food) (*models.Food, error)
	ListCustomFoods(ctx context.Context) ([]models.Food, error)
	DeleteCustomFood(ctx context.Context, id uuid.UUID) error
}
