package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/backend/internal/models"
	"gorm.io/gorm"
)

// mealAllocation is the share of a suggested day's estimated macros
// assigned to each meal type. The snack share is divided evenly among
// however many snacks the day carries; with zero snacks it simply goes
// unallocated.
var mealAllocation = map[string]float64{
	models.MealTypeBreakfast: 0.25,
	models.MealTypeLunch:     0.30,
	models.MealTypeDinner:    0.35,
	models.MealTypeSnack:     0.10,
}

// Default daily targets used when no goal is active.
var defaultTargets = NutritionTargets{Calories: 2000, Protein: 150, Carbs: 200, Fat: 65}

// PlanUpdate carries optional week-plan field updates.
type PlanUpdate struct {
	Name      *string    `json:"name"`
	StartDate *time.Time `json:"start_date"`
	Status    *string    `json:"status"`
	Notes     *string    `json:"notes"`
}

// PlannerService owns week plans: slot bookkeeping with always-consistent
// running totals, merging AI-suggested days into slots, and committing a
// plan into the diary. Every mutation runs in one transaction scoped to
// the plan, so concurrent writers on the same plan cannot leave totals
// that disagree with the surviving slots. Suggestion calls complete
// before any transaction opens.
type PlannerService struct {
	db          *gorm.DB
	suggestions SuggestionServiceInterface
}

// NewPlannerService creates a new PlannerService instance.
func NewPlannerService(db *gorm.DB, suggestions SuggestionServiceInterface) *PlannerService {
	return &PlannerService{db: db, suggestions: suggestions}
}

// CreatePlan creates a plan, optionally pre-populated with slots. The
// stored totals are computed from the slots before the insert.
func (s *PlannerService) CreatePlan(ctx context.Context, plan *models.WeekPlan) (*models.WeekPlan, error) {
	if plan.Status == "" {
		plan.Status = models.PlanStatusDraft
	}
	for i := range plan.Slots {
		if err := validateSlot(&plan.Slots[i]); err != nil {
			return nil, err
		}
	}

	plan.ID = uuid.New()
	plan.StartDate = dateOnly(plan.StartDate)
	plan.TotalCalories, plan.TotalProtein, plan.TotalCarbs, plan.TotalFat = 0, 0, 0, 0
	for i := range plan.Slots {
		plan.Slots[i].ID = uuid.New()
		plan.Slots[i].WeekPlanID = plan.ID
		plan.TotalCalories += plan.Slots[i].Calories
		plan.TotalProtein += plan.Slots[i].Protein
		plan.TotalCarbs += plan.Slots[i].Carbs
		plan.TotalFat += plan.Slots[i].Fat
	}

	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

// CreateFromSuggestedWeek builds a draft plan out of a suggested week,
// one batch of slots per day via the fixed allocation table.
func (s *PlannerService) CreateFromSuggestedWeek(ctx context.Context, name string, startDate time.Time, week *SuggestedWeek) (*models.WeekPlan, error) {
	if week == nil || len(week.Days) == 0 {
		return nil, fmt.Errorf("%w: suggested week has no days", ErrInvalidInput)
	}
	if len(week.Days) > 7 {
		return nil, fmt.Errorf("%w: suggested week has %d days", ErrInvalidInput, len(week.Days))
	}

	plan := &models.WeekPlan{
		Name:      name,
		StartDate: startDate,
		Status:    models.PlanStatusDraft,
		Notes:     week.Notes,
	}
	for dayIndex := range week.Days {
		plan.Slots = append(plan.Slots, slotsFromSuggestedDay(dayIndex, &week.Days[dayIndex], "")...)
	}
	return s.CreatePlan(ctx, plan)
}

// GetPlan retrieves a plan with its slots.
func (s *PlannerService) GetPlan(ctx context.Context, id uuid.UUID) (*models.WeekPlan, error) {
	var plan models.WeekPlan
	if err := s.db.WithContext(ctx).Preload("Slots").First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: week plan %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &plan, nil
}

// ListPlans lists plans, optionally filtered by status, most recently
// updated first.
func (s *PlannerService) ListPlans(ctx context.Context, status string, offset, limit int) ([]models.WeekPlan, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := s.db.WithContext(ctx).Preload("Slots").Order("updated_at DESC").Offset(offset).Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var plans []models.WeekPlan
	if err := query.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// CurrentDraft returns the most recently updated draft plan, or
// ErrNotFound when no draft exists.
func (s *PlannerService) CurrentDraft(ctx context.Context) (*models.WeekPlan, error) {
	var plan models.WeekPlan
	err := s.db.WithContext(ctx).Preload("Slots").
		Where("status = ?", models.PlanStatusDraft).
		Order("updated_at DESC").
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no draft plan", ErrNotFound)
		}
		return nil, err
	}
	return &plan, nil
}

// UpdatePlan applies the non-nil fields of update.
func (s *PlannerService) UpdatePlan(ctx context.Context, id uuid.UUID, update PlanUpdate) (*models.WeekPlan, error) {
	if update.Status != nil {
		switch *update.Status {
		case models.PlanStatusDraft, models.PlanStatusActive, models.PlanStatusArchived:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *update.Status)
		}
	}

	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.StartDate != nil {
		fields["start_date"] = dateOnly(*update.StartDate)
	}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	if update.Notes != nil {
		fields["notes"] = *update.Notes
	}

	if len(fields) > 0 {
		res := s.db.WithContext(ctx).Model(&models.WeekPlan{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: week plan %s", ErrNotFound, id)
		}
	}
	return s.GetPlan(ctx, id)
}

// DeletePlan deletes a plan and, via cascade, its slots.
func (s *PlannerService) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.WeekPlan
		if err := tx.First(&plan, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: week plan %s", ErrNotFound, id)
			}
			return err
		}
		if err := tx.Where("week_plan_id = ?", id).Delete(&models.PlanSlot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&plan).Error
	})
}

// AddSlot adds a slot to a plan and increments the plan's totals by the
// slot's values in the same transaction.
func (s *PlannerService) AddSlot(ctx context.Context, planID uuid.UUID, slot *models.PlanSlot) (*models.PlanSlot, error) {
	if err := validateSlot(slot); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := lockPlan(tx, planID)
		if err != nil {
			return err
		}
		if plan.Status == models.PlanStatusArchived {
			return fmt.Errorf("%w: plan is archived", ErrInvalidInput)
		}

		slot.ID = uuid.New()
		slot.WeekPlanID = planID
		if err := tx.Create(slot).Error; err != nil {
			return err
		}
		return addToPlanTotals(tx, planID, slot.Calories, slot.Protein, slot.Carbs, slot.Fat)
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// RemoveSlot removes a slot and decrements the plan's totals by the
// slot's stored values. The slot must belong to the given plan.
func (s *PlannerService) RemoveSlot(ctx context.Context, planID, slotID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockPlan(tx, planID); err != nil {
			return err
		}

		var slot models.PlanSlot
		if err := tx.First(&slot, "id = ? AND week_plan_id = ?", slotID, planID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: slot %s in plan %s", ErrNotFound, slotID, planID)
			}
			return err
		}

		if err := addToPlanTotals(tx, planID, -slot.Calories, -slot.Protein, -slot.Carbs, -slot.Fat); err != nil {
			return err
		}
		return tx.Delete(&slot).Error
	})
}

// ClearDay removes every slot with the given day index, subtracting
// each slot's exact stored values individually so the totals back out
// without drift. Returns the number of slots removed; zero is not an
// error.
func (s *PlannerService) ClearDay(ctx context.Context, planID uuid.UUID, dayIndex int) (int, error) {
	if dayIndex < 0 || dayIndex > 6 {
		return 0, fmt.Errorf("%w: day index %d", ErrInvalidInput, dayIndex)
	}

	removed := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockPlan(tx, planID); err != nil {
			return err
		}

		var slots []models.PlanSlot
		if err := tx.Where("week_plan_id = ? AND day_index = ?", planID, dayIndex).Find(&slots).Error; err != nil {
			return err
		}
		for i := range slots {
			if err := addToPlanTotals(tx, planID, -slots[i].Calories, -slots[i].Protein, -slots[i].Carbs, -slots[i].Fat); err != nil {
				return err
			}
			if err := tx.Delete(&slots[i]).Error; err != nil {
				return err
			}
		}
		removed = len(slots)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// MergeSuggestedDay replaces a day's slots (or just one meal type's,
// when mealTypeFilter is set) with slots derived from a suggested day.
// This is a destructive replace: old slots for the targeted types are
// deleted and backed out of the totals before the new ones are added.
func (s *PlannerService) MergeSuggestedDay(ctx context.Context, planID uuid.UUID, dayIndex int, day *SuggestedDay, mealTypeFilter string) error {
	if dayIndex < 0 || dayIndex > 6 {
		return fmt.Errorf("%w: day index %d", ErrInvalidInput, dayIndex)
	}
	if day == nil {
		return fmt.Errorf("%w: missing suggested day", ErrInvalidInput)
	}
	if mealTypeFilter != "" && !models.ValidMealType(mealTypeFilter) {
		return fmt.Errorf("%w: unknown meal type %q", ErrInvalidInput, mealTypeFilter)
	}

	mealTypes := []string{models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner, models.MealTypeSnack}
	if mealTypeFilter != "" {
		mealTypes = []string{mealTypeFilter}
	}

	newSlots := slotsFromSuggestedDay(dayIndex, day, mealTypeFilter)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := lockPlan(tx, planID)
		if err != nil {
			return err
		}
		if plan.Status == models.PlanStatusArchived {
			return fmt.Errorf("%w: plan is archived", ErrInvalidInput)
		}

		var old []models.PlanSlot
		if err := tx.Where("week_plan_id = ? AND day_index = ? AND meal_type IN ?", planID, dayIndex, mealTypes).Find(&old).Error; err != nil {
			return err
		}
		for i := range old {
			if err := addToPlanTotals(tx, planID, -old[i].Calories, -old[i].Protein, -old[i].Carbs, -old[i].Fat); err != nil {
				return err
			}
			if err := tx.Delete(&old[i]).Error; err != nil {
				return err
			}
		}

		for i := range newSlots {
			newSlots[i].ID = uuid.New()
			newSlots[i].WeekPlanID = planID
			if err := tx.Create(&newSlots[i]).Error; err != nil {
				return err
			}
			if err := addToPlanTotals(tx, planID, newSlots[i].Calories, newSlots[i].Protein, newSlots[i].Carbs, newSlots[i].Fat); err != nil {
				return err
			}
		}
		return nil
	})
}

// RegenerateDay asks the suggestion provider for a fresh day and merges
// it into the plan. Targets come from the active goal (or defaults),
// preferences/restrictions from the stored user preferences, and the
// week context from the plan's other days. The suggestion round trip
// happens before the merge transaction opens.
func (s *PlannerService) RegenerateDay(ctx context.Context, planID uuid.UUID, dayIndex int, mealTypeFilter, language string) (*models.WeekPlan, error) {
	if dayIndex < 0 || dayIndex > 6 {
		return nil, fmt.Errorf("%w: day index %d", ErrInvalidInput, dayIndex)
	}
	if mealTypeFilter != "" && !models.ValidMealType(mealTypeFilter) {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrInvalidInput, mealTypeFilter)
	}
	if s.suggestions == nil {
		return nil, fmt.Errorf("%w: no suggestion provider configured", ErrSuggestionUnavailable)
	}

	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	targets := defaultTargets
	var goal models.Goal
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at DESC").First(&goal).Error; err == nil {
		targets = NutritionTargets{Calories: goal.DailyCalories, Protein: goal.DailyProtein, Carbs: goal.DailyCarbs, Fat: goal.DailyFat}
	}

	preferences, restrictions := s.loadConstraints(ctx)

	day, err := s.suggestions.GenerateDay(ctx, SuggestionRequest{
		Targets:        targets,
		DayIndex:       dayIndex,
		WeekContext:    weekContext(plan, dayIndex),
		MealTypeFilter: mealTypeFilter,
		Preferences:    preferences,
		Restrictions:   restrictions,
		Language:       language,
	})
	if err != nil {
		if errors.Is(err, ErrSuggestionUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSuggestionUnavailable, err)
	}

	if err := s.MergeSuggestedDay(ctx, planID, dayIndex, day, mealTypeFilter); err != nil {
		return nil, err
	}
	return s.GetPlan(ctx, planID)
}

// ApplyToDiary materializes every slot of the plan into the diary:
// the slot's day index is offset from targetStartDate, the diary meal
// for that (date, meal type) is reused or created, and one entry per
// slot is added with the meal totals incremented alongside. The plan
// transitions to active. Applying the same plan twice doubles the
// entries; callers are expected to apply a plan once.
func (s *PlannerService) ApplyToDiary(ctx context.Context, planID uuid.UUID, targetStartDate time.Time) (int, error) {
	start := dateOnly(targetStartDate)

	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.WeekPlan
		if err := tx.Preload("Slots").First(&plan, "id = ?", planID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: week plan %s", ErrNotFound, planID)
			}
			return err
		}

		for i := range plan.Slots {
			slot := &plan.Slots[i]
			mealDate := start.AddDate(0, 0, slot.DayIndex)

			var meal models.DiaryMeal
			err := tx.Where("date = ? AND meal_type = ?", mealDate, slot.MealType).First(&meal).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				meal = models.DiaryMeal{ID: uuid.New(), Date: mealDate, MealType: slot.MealType}
				if err := tx.Create(&meal).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			entry := models.DiaryEntry{
				ID:          uuid.New(),
				DiaryMealID: meal.ID,
				FoodID:      slot.FoodID,
				RecipeID:    slot.RecipeID,
				FoodName:    slot.FoodName,
				Amount:      slot.Amount,
				Unit:        slot.Unit,
				Calories:    slot.Calories,
				Protein:     slot.Protein,
				Carbs:       slot.Carbs,
				Fat:         slot.Fat,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			if err := addToMealTotals(tx, meal.ID, slot.Calories, slot.Protein, slot.Carbs, slot.Fat); err != nil {
				return err
			}
			created++
		}

		return tx.Model(&plan).Update("status", models.PlanStatusActive).Error
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// CheckConsistency recomputes the plan totals from its slots. On
// disagreement it repairs the stored totals, logs, and reports
// ErrInconsistent; it never fails the process.
func (s *PlannerService) CheckConsistency(ctx context.Context, planID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := lockPlan(tx, planID)
		if err != nil {
			return err
		}

		var slots []models.PlanSlot
		if err := tx.Where("week_plan_id = ?", planID).Find(&slots).Error; err != nil {
			return err
		}

		var calories, protein, carbs, fat float64
		for i := range slots {
			calories += slots[i].Calories
			protein += slots[i].Protein
			carbs += slots[i].Carbs
			fat += slots[i].Fat
		}

		if calories == plan.TotalCalories && protein == plan.TotalProtein &&
			carbs == plan.TotalCarbs && fat == plan.TotalFat {
			return nil
		}

		log.Printf("plan %s totals drifted (stored %.4f/%.4f/%.4f/%.4f, computed %.4f/%.4f/%.4f/%.4f), repairing",
			planID, plan.TotalCalories, plan.TotalProtein, plan.TotalCarbs, plan.TotalFat,
			calories, protein, carbs, fat)
		if err := tx.Model(&models.WeekPlan{}).Where("id = ?", planID).Updates(map[string]interface{}{
			"total_calories": calories,
			"total_protein":  protein,
			"total_carbs":    carbs,
			"total_fat":      fat,
		}).Error; err != nil {
			return err
		}
		return fmt.Errorf("%w: plan %s repaired", ErrInconsistent, planID)
	})
}

func (s *PlannerService) loadConstraints(ctx context.Context) (preferences, restrictions []string) {
	var prefs models.UserPreferences
	if err := s.db.WithContext(ctx).Order("updated_at DESC").First(&prefs).Error; err != nil {
		return nil, nil
	}

	for _, food := range prefs.LikedFoods {
		preferences = append(preferences, "Include: "+food)
	}
	for _, food := range prefs.DislikedFoods {
		restrictions = append(restrictions, "Avoid: "+food)
	}
	for _, a := range prefs.Allergies {
		restrictions = append(restrictions, "ALLERGY - must avoid: "+a)
	}
	for flag, label := range map[string]string{
		"vegan":       "Vegan",
		"vegetarian":  "Vegetarian",
		"gluten_free": "Gluten-free",
		"dairy_free":  "Dairy-free",
	} {
		if prefs.DietaryRestrictions[flag] {
			restrictions = append(restrictions, label)
		}
	}
	return preferences, restrictions
}

// weekContext summarizes every day except the one being regenerated.
func weekContext(plan *models.WeekPlan, excludeDay int) []DayContext {
	var out []DayContext
	for day := 0; day < 7; day++ {
		if day == excludeDay {
			continue
		}
		var names []string
		for i := range plan.Slots {
			if plan.Slots[i].DayIndex == day {
				names = append(names, plan.Slots[i].FoodName)
			}
		}
		if len(names) > 0 {
			out = append(out, DayContext{Day: day + 1, Meals: names})
		}
	}
	return out
}

// slotsFromSuggestedDay converts a suggested day into concrete slots
// using the allocation table. When mealTypeFilter is set only that meal
// type is produced.
func slotsFromSuggestedDay(dayIndex int, day *SuggestedDay, mealTypeFilter string) []models.PlanSlot {
	want := func(mealType string) bool {
		return mealTypeFilter == "" || mealTypeFilter == mealType
	}

	var slots []models.PlanSlot

	main := []struct {
		mealType    string
		name        string
		description string
	}{
		{models.MealTypeBreakfast, day.Breakfast, day.BreakfastDescription},
		{models.MealTypeLunch, day.Lunch, day.LunchDescription},
		{models.MealTypeDinner, day.Dinner, day.DinnerDescription},
	}
	for _, m := range main {
		if !want(m.mealType) || m.name == "" {
			continue
		}
		factor := mealAllocation[m.mealType]
		slots = append(slots, models.PlanSlot{
			DayIndex:    dayIndex,
			MealType:    m.mealType,
			FoodName:    m.name,
			Description: m.description,
			Amount:      1,
			Unit:        "serving",
			Calories:    day.EstimatedCalories * factor,
			Protein:     day.EstimatedProtein * factor,
			Carbs:       day.EstimatedCarbs * factor,
			Fat:         day.EstimatedFat * factor,
		})
	}

	if want(models.MealTypeSnack) && len(day.Snacks) > 0 {
		share := mealAllocation[models.MealTypeSnack] / float64(len(day.Snacks))
		for _, snack := range day.Snacks {
			if snack == "" {
				continue
			}
			slots = append(slots, models.PlanSlot{
				DayIndex: dayIndex,
				MealType: models.MealTypeSnack,
				FoodName: snack,
				Amount:   1,
				Unit:     "serving",
				Calories: day.EstimatedCalories * share,
				Protein:  day.EstimatedProtein * share,
				Carbs:    day.EstimatedCarbs * share,
				Fat:      day.EstimatedFat * share,
			})
		}
	}

	return slots
}

func validateSlot(slot *models.PlanSlot) error {
	if slot.DayIndex < 0 || slot.DayIndex > 6 {
		return fmt.Errorf("%w: day index %d", ErrInvalidInput, slot.DayIndex)
	}
	if !models.ValidMealType(slot.MealType) {
		return fmt.Errorf("%w: unknown meal type %q", ErrInvalidInput, slot.MealType)
	}
	if slot.FoodName == "" {
		return fmt.Errorf("%w: missing food name", ErrInvalidInput)
	}
	if slot.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if slot.Calories < 0 || slot.Protein < 0 || slot.Carbs < 0 || slot.Fat < 0 {
		return fmt.Errorf("%w: nutrition values must be non-negative", ErrInvalidInput)
	}
	return nil
}

// lockPlan fetches the plan row inside tx, reporting ErrNotFound for
// unknown ids. The enclosing transaction serializes writers per plan.
func lockPlan(tx *gorm.DB, planID uuid.UUID) (*models.WeekPlan, error) {
	var plan models.WeekPlan
	if err := tx.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: week plan %s", ErrNotFound, planID)
		}
		return nil, err
	}
	return &plan, nil
}

func addToPlanTotals(tx *gorm.DB, planID uuid.UUID, calories, protein, carbs, fat float64) error {
	return tx.Model(&models.WeekPlan{}).Where("id = ?", planID).Updates(map[string]interface{}{
		"total_calories": gorm.Expr("total_calories + ?", calories),
		"total_protein":  gorm.Expr("total_protein + ?", protein),
		"total_carbs":    gorm.Expr("total_carbs + ?", carbs),
		"total_fat":      gorm.Expr("total_fat + ?", fat),
	}).Error
}

func addToMealTotals(tx *gorm.DB, mealID uuid.UUID, calories, protein, carbs, fat float64) error {
	return tx.Model(&models.DiaryMeal{}).Where("id = ?", mealID).Updates(map[string]interface{}{
		"total_calories": gorm.Expr("total_calories + ?", calories),
		"total_protein":  gorm.Expr("total_protein + ?", protein),
		"total_carbs":    gorm.Expr("total_carbs + ?", carbs),
		"total_fat":      gorm.Expr("total_fat + ?", fat),
	}).Error
}

// dateOnly truncates t to midnight UTC so date-keyed lookups compare
// equal regardless of the incoming time component.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
