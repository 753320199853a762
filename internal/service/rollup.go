package service

import (
	"context"
	"math"

	"github.com/google/uuid"
)

// DayNutrition is one row of the weekly rollup. Date is either a
// calendar date (YYYY-MM-DD) or the label of a summary row.
type DayNutrition struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// WeeklyRollup is the per-day nutrition table for a plan with appended
// total and average rows.
type WeeklyRollup struct {
	PlanID   uuid.UUID      `json:"plan_id"`
	PlanName string         `json:"plan_name"`
	Days     []DayNutrition `json:"days"`
	Totals   DayNutrition   `json:"totals"`
	Averages DayNutrition   `json:"averages"`
}

// NutritionRollup aggregates a plan's slots into one row per calendar
// day of the week starting at the plan's start date. Days without slots
// still appear with zeros. Values are accumulated at full precision and
// rounded to two decimals only when written into the result.
func (s *PlannerService) NutritionRollup(ctx context.Context, planID uuid.UUID) (*WeeklyRollup, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	var days [7]DayNutrition
	start := dateOnly(plan.StartDate)
	for i := range days {
		days[i].Date = start.AddDate(0, 0, i).Format("2006-01-02")
	}

	for i := range plan.Slots {
		slot := &plan.Slots[i]
		if slot.DayIndex < 0 || slot.DayIndex > 6 {
			continue
		}
		days[slot.DayIndex].Calories += slot.Calories
		days[slot.DayIndex].Protein += slot.Protein
		days[slot.DayIndex].Carbs += slot.Carbs
		days[slot.DayIndex].Fat += slot.Fat
	}

	var totals DayNutrition
	for i := range days {
		totals.Calories += days[i].Calories
		totals.Protein += days[i].Protein
		totals.Carbs += days[i].Carbs
		totals.Fat += days[i].Fat
	}

	rollup := &WeeklyRollup{PlanID: plan.ID, PlanName: plan.Name}
	for i := range days {
		rollup.Days = append(rollup.Days, DayNutrition{
			Date:     days[i].Date,
			Calories: round2(days[i].Calories),
			Protein:  round2(days[i].Protein),
			Carbs:    round2(days[i].Carbs),
			Fat:      round2(days[i].Fat),
		})
	}
	rollup.Totals = DayNutrition{
		Date:     "Total",
		Calories: round2(totals.Calories),
		Protein:  round2(totals.Protein),
		Carbs:    round2(totals.Carbs),
		Fat:      round2(totals.Fat),
	}

	dayCount := float64(len(days))
	rollup.Averages = DayNutrition{
		Date:     "Average",
		Calories: round2(totals.Calories / dayCount),
		Protein:  round2(totals.Protein / dayCount),
		Carbs:    round2(totals.Carbs / dayCount),
		Fat:      round2(totals.Fat / dayCount),
	}
	return rollup, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
