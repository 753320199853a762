package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testStartDate = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // a Monday

func newTestPlanner(t *testing.T) (*PlannerService, *gorm.DB) {
	db := testdb.Open(t)
	return NewPlannerService(db, nil), db
}

func createTestPlan(t *testing.T, svc *PlannerService) *models.WeekPlan {
	plan, err := svc.CreatePlan(context.Background(), &models.WeekPlan{
		Name:      "Test Week",
		StartDate: testStartDate,
	})
	require.NoError(t, err)
	return plan
}

func testSlot(day int, mealType string, calories, protein, carbs, fat float64) *models.PlanSlot {
	return &models.PlanSlot{
		DayIndex: day,
		MealType: mealType,
		FoodName: fmt.Sprintf("food-%d-%s", day, mealType),
		Amount:   100,
		Unit:     "g",
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}
}

// requireTotalsMatchSlots asserts the invariant the planner maintains:
// stored totals always equal the sum over the surviving slots.
func requireTotalsMatchSlots(t *testing.T, svc *PlannerService, planID uuid.UUID) *models.WeekPlan {
	t.Helper()
	plan, err := svc.GetPlan(context.Background(), planID)
	require.NoError(t, err)

	var calories, protein, carbs, fat float64
	for _, slot := range plan.Slots {
		calories += slot.Calories
		protein += slot.Protein
		carbs += slot.Carbs
		fat += slot.Fat
	}
	assert.InDelta(t, calories, plan.TotalCalories, 1e-9)
	assert.InDelta(t, protein, plan.TotalProtein, 1e-9)
	assert.InDelta(t, carbs, plan.TotalCarbs, 1e-9)
	assert.InDelta(t, fat, plan.TotalFat, 1e-9)
	return plan
}

func TestAddSlotMaintainsTotals(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	_, err := svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeBreakfast, 400, 20, 50, 12))
	require.NoError(t, err)
	_, err = svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeLunch, 600, 35, 70, 18))
	require.NoError(t, err)
	_, err = svc.AddSlot(context.Background(), plan.ID, testSlot(3, models.MealTypeSnack, 150, 5, 20, 6))
	require.NoError(t, err)

	got := requireTotalsMatchSlots(t, svc, plan.ID)
	assert.Len(t, got.Slots, 3)
	assert.InDelta(t, 1150, got.TotalCalories, 1e-9)
	assert.InDelta(t, 60, got.TotalProtein, 1e-9)
}

func TestAddSlotValidation(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	cases := []struct {
		name string
		slot *models.PlanSlot
	}{
		{"day index too high", testSlot(7, models.MealTypeLunch, 100, 0, 0, 0)},
		{"day index negative", testSlot(-1, models.MealTypeLunch, 100, 0, 0, 0)},
		{"unknown meal type", testSlot(0, "brunch", 100, 0, 0, 0)},
		{"negative calories", testSlot(0, models.MealTypeLunch, -10, 0, 0, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddSlot(context.Background(), plan.ID, tc.slot)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	zeroAmount := testSlot(0, models.MealTypeLunch, 100, 0, 0, 0)
	zeroAmount.Amount = 0
	_, err := svc.AddSlot(context.Background(), plan.ID, zeroAmount)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Nothing persisted, totals untouched.
	got := requireTotalsMatchSlots(t, svc, plan.ID)
	assert.Empty(t, got.Slots)
	assert.Zero(t, got.TotalCalories)
}

func TestAddSlotArchivedPlanRejected(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	status := models.PlanStatusArchived
	_, err := svc.UpdatePlan(context.Background(), plan.ID, PlanUpdate{Status: &status})
	require.NoError(t, err)

	_, err = svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeLunch, 100, 0, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemoveSlotMaintainsTotals(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	slot, err := svc.AddSlot(context.Background(), plan.ID, testSlot(1, models.MealTypeDinner, 700, 40, 60, 25))
	require.NoError(t, err)
	_, err = svc.AddSlot(context.Background(), plan.ID, testSlot(1, models.MealTypeSnack, 120, 3, 15, 5))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveSlot(context.Background(), plan.ID, slot.ID))

	got := requireTotalsMatchSlots(t, svc, plan.ID)
	assert.Len(t, got.Slots, 1)
	assert.InDelta(t, 120, got.TotalCalories, 1e-9)
}

func TestRemoveSlotWrongPlan(t *testing.T) {
	svc, _ := newTestPlanner(t)
	planA := createTestPlan(t, svc)
	planB, err := svc.CreatePlan(context.Background(), &models.WeekPlan{Name: "Other Week", StartDate: testStartDate})
	require.NoError(t, err)

	slot, err := svc.AddSlot(context.Background(), planA.ID, testSlot(0, models.MealTypeLunch, 500, 30, 40, 15))
	require.NoError(t, err)

	// The slot belongs to plan A; removing it through plan B must fail
	// and leave both plans untouched.
	err = svc.RemoveSlot(context.Background(), planB.ID, slot.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	gotA := requireTotalsMatchSlots(t, svc, planA.ID)
	assert.Len(t, gotA.Slots, 1)
	gotB := requireTotalsMatchSlots(t, svc, planB.ID)
	assert.Empty(t, gotB.Slots)
}

func TestClearDay(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	for _, mt := range []string{models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner} {
		_, err := svc.AddSlot(context.Background(), plan.ID, testSlot(2, mt, 500, 25, 50, 15))
		require.NoError(t, err)
	}
	_, err := svc.AddSlot(context.Background(), plan.ID, testSlot(4, models.MealTypeLunch, 650, 38, 55, 20))
	require.NoError(t, err)

	removed, err := svc.ClearDay(context.Background(), plan.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	got := requireTotalsMatchSlots(t, svc, plan.ID)
	assert.Len(t, got.Slots, 1)
	assert.Equal(t, 4, got.Slots[0].DayIndex)
	assert.InDelta(t, 650, got.TotalCalories, 1e-9)

	// Clearing an already-empty day is not an error.
	removed, err = svc.ClearDay(context.Background(), plan.ID, 2)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = svc.ClearDay(context.Background(), plan.ID, 7)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func suggestedDay(snacks ...string) *SuggestedDay {
	return &SuggestedDay{
		Day:                  1,
		Breakfast:            "Oatmeal",
		BreakfastDescription: "Rolled oats with berries",
		Lunch:                "Chicken Bowl",
		LunchDescription:     "Grilled chicken with rice",
		Dinner:               "Salmon",
		DinnerDescription:    "Baked salmon with vegetables",
		Snacks:               snacks,
		EstimatedCalories:    2000,
		EstimatedProtein:     150,
		EstimatedCarbs:       200,
		EstimatedFat:         65,
	}
}

func TestMergeSuggestedDayAllocation(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	require.NoError(t, svc.MergeSuggestedDay(context.Background(), plan.ID, 0, suggestedDay("Apple", "Yogurt"), ""))

	got := requireTotalsMatchSlots(t, svc, plan.ID)
	require.Len(t, got.Slots, 5)

	byType := map[string][]models.PlanSlot{}
	for _, slot := range got.Slots {
		byType[slot.MealType] = append(byType[slot.MealType], slot)
	}

	// 2000 kcal day: breakfast 25%, lunch 30%, dinner 35%, snacks split
	// the remaining 10% evenly.
	require.Len(t, byType[models.MealTypeBreakfast], 1)
	assert.InDelta(t, 500, byType[models.MealTypeBreakfast][0].Calories, 1e-9)
	require.Len(t, byType[models.MealTypeLunch], 1)
	assert.InDelta(t, 600, byType[models.MealTypeLunch][0].Calories, 1e-9)
	require.Len(t, byType[models.MealTypeDinner], 1)
	assert.InDelta(t, 700, byType[models.MealTypeDinner][0].Calories, 1e-9)
	require.Len(t, byType[models.MealTypeSnack], 2)
	assert.InDelta(t, 100, byType[models.MealTypeSnack][0].Calories, 1e-9)
	assert.InDelta(t, 100, byType[models.MealTypeSnack][1].Calories, 1e-9)

	assert.InDelta(t, 2000, got.TotalCalories, 1e-9)
	assert.InDelta(t, 150, got.TotalProtein, 1e-9)
}

func TestMergeSuggestedDayNoSnacks(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	require.NoError(t, svc.MergeSuggestedDay(context.Background(), plan.ID, 0, suggestedDay(), ""))

	got := requireTotalsMatchSlots(t, svc, plan.ID)
	require.Len(t, got.Slots, 3)

	// With zero snacks the 10% snack share goes unallocated: the day
	// sums to 90% of the estimate.
	assert.InDelta(t, 1800, got.TotalCalories, 1e-9)
}

func TestMergeSuggestedDayReplacesExisting(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	_, err := svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeBreakfast, 999, 99, 99, 99))
	require.NoError(t, err)
	_, err = svc.AddSlot(context.Background(), plan.ID, testSlot(1, models.MealTypeLunch, 555, 30, 40, 12))
	require.NoError(t, err)

	require.NoError(t, svc.MergeSuggestedDay(context.Background(), plan.ID, 0, suggestedDay("Nuts"), ""))

	got := requireTotalsMatchSlots(t, svc, plan.ID)
	// Day 0's old breakfast is gone, replaced by the 4 suggested slots;
	// day 1 is untouched.
	require.Len(t, got.Slots, 5)
	for _, slot := range got.Slots {
		if slot.DayIndex == 0 {
			assert.NotEqual(t, float64(999), slot.Calories)
		}
	}
	assert.InDelta(t, 2000+555, got.TotalCalories, 1e-9)
}

func TestMergeSuggestedDayMealTypeFilter(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	_, err := svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeBreakfast, 400, 20, 50, 10))
	require.NoError(t, err)
	_, err = svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeLunch, 600, 30, 70, 15))
	require.NoError(t, err)

	require.NoError(t, svc.MergeSuggestedDay(context.Background(), plan.ID, 0, suggestedDay("Apple"), models.MealTypeLunch))

	got := requireTotalsMatchSlots(t, svc, plan.ID)
	require.Len(t, got.Slots, 2)

	for _, slot := range got.Slots {
		switch slot.MealType {
		case models.MealTypeBreakfast:
			assert.InDelta(t, 400, slot.Calories, 1e-9) // untouched
		case models.MealTypeLunch:
			assert.InDelta(t, 600, slot.Calories, 1e-9) // 30% of 2000
			assert.Equal(t, "Chicken Bowl", slot.FoodName)
		default:
			t.Fatalf("unexpected meal type %s", slot.MealType)
		}
	}
}

func TestMergeSuggestedDayInvalidInput(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	assert.ErrorIs(t, svc.MergeSuggestedDay(context.Background(), plan.ID, 9, suggestedDay(), ""), ErrInvalidInput)
	assert.ErrorIs(t, svc.MergeSuggestedDay(context.Background(), plan.ID, 0, nil, ""), ErrInvalidInput)
	assert.ErrorIs(t, svc.MergeSuggestedDay(context.Background(), plan.ID, 0, suggestedDay(), "brunch"), ErrInvalidInput)
	assert.ErrorIs(t, svc.MergeSuggestedDay(context.Background(), uuid.New(), 0, suggestedDay(), ""), ErrNotFound)
}

func TestApplyToDiary(t *testing.T) {
	svc, db := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	_, err := svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeBreakfast, 400, 20, 50, 10))
	require.NoError(t, err)
	_, err = svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeBreakfast, 150, 8, 10, 7))
	require.NoError(t, err)
	_, err = svc.AddSlot(context.Background(), plan.ID, testSlot(2, models.MealTypeDinner, 700, 45, 50, 25))
	require.NoError(t, err)

	target := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	created, err := svc.ApplyToDiary(context.Background(), plan.ID, target)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	// Both day-0 breakfast slots land in the same diary meal.
	var meals []models.DiaryMeal
	require.NoError(t, db.Preload("Entries").Order("date ASC").Find(&meals).Error)
	require.Len(t, meals, 2)

	breakfast := meals[0]
	assert.Equal(t, models.MealTypeBreakfast, breakfast.MealType)
	assert.True(t, breakfast.Date.Equal(target))
	assert.Len(t, breakfast.Entries, 2)
	assert.InDelta(t, 550, breakfast.TotalCalories, 1e-9)

	dinner := meals[1]
	assert.Equal(t, models.MealTypeDinner, dinner.MealType)
	assert.True(t, dinner.Date.Equal(target.AddDate(0, 0, 2)))
	assert.Len(t, dinner.Entries, 1)

	// Plan transitions to active.
	got, err := svc.GetPlan(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusActive, got.Status)
}

func TestApplyToDiaryTwiceDoublesEntries(t *testing.T) {
	svc, db := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	_, err := svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeLunch, 600, 35, 60, 18))
	require.NoError(t, err)

	target := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = svc.ApplyToDiary(context.Background(), plan.ID, target)
	require.NoError(t, err)
	_, err = svc.ApplyToDiary(context.Background(), plan.ID, target)
	require.NoError(t, err)

	// Application is not idempotent: the same meal is reused but the
	// entries and totals double exactly.
	var meals []models.DiaryMeal
	require.NoError(t, db.Preload("Entries").Find(&meals).Error)
	require.Len(t, meals, 1)
	assert.Len(t, meals[0].Entries, 2)
	assert.InDelta(t, 1200, meals[0].TotalCalories, 1e-9)
	assert.InDelta(t, 70, meals[0].TotalProtein, 1e-9)
}

func TestApplyToDiaryUnknownPlan(t *testing.T) {
	svc, _ := newTestPlanner(t)
	_, err := svc.ApplyToDiary(context.Background(), uuid.New(), testStartDate)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckConsistencyRepairsDrift(t *testing.T) {
	svc, db := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	_, err := svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeLunch, 500, 30, 40, 15))
	require.NoError(t, err)

	// Consistent plan reports nothing.
	require.NoError(t, svc.CheckConsistency(context.Background(), plan.ID))

	// Corrupt the stored totals behind the service's back.
	require.NoError(t, db.Model(&models.WeekPlan{}).Where("id = ?", plan.ID).Update("total_calories", 9999).Error)

	err = svc.CheckConsistency(context.Background(), plan.ID)
	assert.ErrorIs(t, err, ErrInconsistent)

	got := requireTotalsMatchSlots(t, svc, plan.ID)
	assert.InDelta(t, 500, got.TotalCalories, 1e-9)

	// Repaired, so a second check passes.
	require.NoError(t, svc.CheckConsistency(context.Background(), plan.ID))
}

func TestCreateFromSuggestedWeek(t *testing.T) {
	svc, _ := newTestPlanner(t)

	week := &SuggestedWeek{
		Days:  []SuggestedDay{*suggestedDay("Apple"), *suggestedDay()},
		Notes: "Batch cook on Sunday",
	}
	plan, err := svc.CreateFromSuggestedWeek(context.Background(), "AI Week", testStartDate, week)
	require.NoError(t, err)

	assert.Equal(t, models.PlanStatusDraft, plan.Status)
	assert.Equal(t, "Batch cook on Sunday", plan.Notes)
	// Day 0 has a snack (4 slots), day 1 does not (3 slots).
	assert.Len(t, plan.Slots, 7)

	got := requireTotalsMatchSlots(t, svc, plan.ID)
	assert.InDelta(t, 2000+1800, got.TotalCalories, 1e-9)

	_, err = svc.CreateFromSuggestedWeek(context.Background(), "Empty", testStartDate, &SuggestedWeek{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlanLifecycle(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	draft, err := svc.CurrentDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, plan.ID, draft.ID)

	name := "Renamed Week"
	updated, err := svc.UpdatePlan(context.Background(), plan.ID, PlanUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Week", updated.Name)

	badStatus := "paused"
	_, err = svc.UpdatePlan(context.Background(), plan.ID, PlanUpdate{Status: &badStatus})
	assert.ErrorIs(t, err, ErrInvalidInput)

	plans, err := svc.ListPlans(context.Background(), models.PlanStatusDraft, 0, 10)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	require.NoError(t, svc.DeletePlan(context.Background(), plan.ID))
	_, err = svc.GetPlan(context.Background(), plan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.CurrentDraft(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

// fakeSuggestionService returns canned days without a model round trip.
type fakeSuggestionService struct {
	day  *SuggestedDay
	week *SuggestedWeek
	err  error

	lastRequest SuggestionRequest
}

func (f *fakeSuggestionService) GenerateWeek(ctx context.Context, targets NutritionTargets, days int, preferences, restrictions []string, language string) (*SuggestedWeek, error) {
	return f.week, f.err
}

func (f *fakeSuggestionService) GenerateDay(ctx context.Context, req SuggestionRequest) (*SuggestedDay, error) {
	f.lastRequest = req
	return f.day, f.err
}

func (f *fakeSuggestionService) SuggestRecipes(ctx context.Context, req RecipeSuggestionRequest) (*RecipeSuggestions, error) {
	return nil, f.err
}

func (f *fakeSuggestionService) Chat(ctx context.Context, message string, history []ChatMessage, goals *NutritionTargets, language string) (*ChatReply, error) {
	return nil, f.err
}

func TestRegenerateDay(t *testing.T) {
	db := testdb.Open(t)
	fake := &fakeSuggestionService{day: suggestedDay("Trail Mix")}
	svc := NewPlannerService(db, fake)

	plan := createTestPlan(t, svc)
	_, err := svc.AddSlot(context.Background(), plan.ID, testSlot(1, models.MealTypeDinner, 700, 40, 60, 22))
	require.NoError(t, err)

	// An active goal feeds the targets.
	require.NoError(t, db.Create(&models.Goal{
		ID:            uuid.New(),
		DailyCalories: 1800,
		DailyProtein:  140,
		DailyCarbs:    180,
		DailyFat:      60,
		IsActive:      true,
	}).Error)

	got, err := svc.RegenerateDay(context.Background(), plan.ID, 0, "", "en")
	require.NoError(t, err)

	assert.InDelta(t, 1800, fake.lastRequest.Targets.Calories, 1e-9)
	assert.Equal(t, 0, fake.lastRequest.DayIndex)
	// The week context covers the other days, not the regenerated one.
	require.Len(t, fake.lastRequest.WeekContext, 1)
	assert.Equal(t, 2, fake.lastRequest.WeekContext[0].Day)

	// 4 new slots for day 0 plus the untouched day-1 dinner.
	assert.Len(t, got.Slots, 5)
	requireTotalsMatchSlots(t, svc, plan.ID)
}

func TestRegenerateDayDefaultTargets(t *testing.T) {
	db := testdb.Open(t)
	fake := &fakeSuggestionService{day: suggestedDay()}
	svc := NewPlannerService(db, fake)
	plan := createTestPlan(t, svc)

	_, err := svc.RegenerateDay(context.Background(), plan.ID, 3, "", "")
	require.NoError(t, err)

	assert.InDelta(t, 2000, fake.lastRequest.Targets.Calories, 1e-9)
	assert.InDelta(t, 150, fake.lastRequest.Targets.Protein, 1e-9)
}

func TestRegenerateDaySuggestionFailure(t *testing.T) {
	db := testdb.Open(t)
	fake := &fakeSuggestionService{err: fmt.Errorf("%w: model timeout", ErrSuggestionUnavailable)}
	svc := NewPlannerService(db, fake)
	plan := createTestPlan(t, svc)

	_, err := svc.AddSlot(context.Background(), plan.ID, testSlot(0, models.MealTypeLunch, 500, 25, 45, 14))
	require.NoError(t, err)

	_, err = svc.RegenerateDay(context.Background(), plan.ID, 0, "", "")
	assert.ErrorIs(t, err, ErrSuggestionUnavailable)

	// The failed suggestion leaves the plan untouched.
	got := requireTotalsMatchSlots(t, svc, plan.ID)
	assert.Len(t, got.Slots, 1)
}

func TestRegenerateDayWithoutProvider(t *testing.T) {
	svc, _ := newTestPlanner(t)
	plan := createTestPlan(t, svc)

	_, err := svc.RegenerateDay(context.Background(), plan.ID, 0, "", "")
	assert.ErrorIs(t, err, ErrSuggestionUnavailable)
}
