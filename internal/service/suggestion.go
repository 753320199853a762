package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// NutritionTargets are the daily targets a suggestion is generated for.
type NutritionTargets struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// SuggestedDay is one AI-generated day of meals. The estimated_* fields
// are day-level totals, not per-meal values; the planner splits them
// across meal types with a fixed distribution.
type SuggestedDay struct {
	Day                  int      `json:"day"`
	Breakfast            string   `json:"breakfast"`
	BreakfastDescription string   `json:"breakfast_description"`
	Lunch                string   `json:"lunch"`
	LunchDescription     string   `json:"lunch_description"`
	Dinner               string   `json:"dinner"`
	DinnerDescription    string   `json:"dinner_description"`
	Snacks               []string `json:"snacks"`
	EstimatedCalories    float64  `json:"estimated_calories"`
	EstimatedProtein     float64  `json:"estimated_protein"`
	EstimatedCarbs       float64  `json:"estimated_carbs"`
	EstimatedFat         float64  `json:"estimated_fat"`
}

// SuggestedWeek is a multi-day suggestion.
type SuggestedWeek struct {
	Days  []SuggestedDay `json:"days"`
	Notes string         `json:"notes"`
}

// DayContext summarizes one existing day of a plan so the model avoids
// repeating meals when regenerating another day.
type DayContext struct {
	Day   int      `json:"day"`
	Meals []string `json:"meals"`
}

// SuggestionRequest carries everything needed to generate a single day.
type SuggestionRequest struct {
	Targets        NutritionTargets
	DayIndex       int
	WeekContext    []DayContext
	MealTypeFilter string
	Preferences    []string
	Restrictions   []string
	Language       string
}

// RecipeIdea is one AI-suggested recipe built around available
// ingredients. The estimated_* fields are per serving.
type RecipeIdea struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Ingredients       []string `json:"ingredients"`
	Instructions      []string `json:"instructions"`
	EstimatedCalories float64  `json:"estimated_calories"`
	EstimatedProtein  float64  `json:"estimated_protein"`
	EstimatedCarbs    float64  `json:"estimated_carbs"`
	EstimatedFat      float64  `json:"estimated_fat"`
	PrepTime          string   `json:"prep_time"`
	CookTime          string   `json:"cook_time"`
}

// RecipeSuggestions is the response to a suggest-recipes request.
type RecipeSuggestions struct {
	Recipes []RecipeIdea `json:"recipes"`
}

// RecipeSuggestionRequest asks for recipes using what is on hand.
type RecipeSuggestionRequest struct {
	Ingredients []string `json:"ingredients"`
	MealType    string   `json:"meal_type"`
	Cuisine     string   `json:"cuisine"`
	MaxRecipes  int      `json:"max_recipes"`
	Language    string   `json:"language"`
}

// ChatMessage is one turn of a nutrition chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatReply is the assistant's answer plus follow-up suggestions.
type ChatReply struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

// SuggestionService generates meal suggestions from nutrition targets.
type SuggestionService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewSuggestionService creates a Gemini-backed suggestion service.
func NewSuggestionService(ctx context.Context, apiKey string) (*SuggestionService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	model.ResponseMIMEType = "application/json"

	return &SuggestionService{client: client, model: model}, nil
}

// Close closes the underlying Gemini client.
func (s *SuggestionService) Close() error {
	return s.client.Close()
}

// GenerateWeek generates a full multi-day meal plan.
func (s *SuggestionService) GenerateWeek(ctx context.Context, targets NutritionTargets, days int, preferences, restrictions []string, language string) (*SuggestedWeek, error) {
	var b strings.Builder
	writeLanguage(&b, language)
	fmt.Fprintf(&b, "Create a %d-day meal plan with these daily nutritional targets:\n", days)
	writeTargets(&b, targets)
	writeConstraints(&b, preferences, restrictions)

	b.WriteString(`
Return a JSON object with this exact structure:
{
  "days": [
    {
      "day": 1,
      "breakfast": "Meal name",
      "breakfast_description": "Brief description with main ingredients",
      "lunch": "Meal name",
      "lunch_description": "Brief description with main ingredients",
      "dinner": "Meal name",
      "dinner_description": "Brief description with main ingredients",
      "snacks": ["Snack 1", "Snack 2"],
      "estimated_calories": 2000,
      "estimated_protein": 150,
      "estimated_carbs": 200,
      "estimated_fat": 65
    }
  ],
  "notes": "Any additional tips or notes"
}

Make the meals varied, practical, and delicious. Include estimated macros for each day.
Return ONLY the JSON, no additional text.
`)

	raw, err := s.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var week SuggestedWeek
	if err := json.Unmarshal([]byte(raw), &week); err != nil {
		return nil, fmt.Errorf("%w: failed to parse week response: %v", ErrSuggestionUnavailable, err)
	}
	return &week, nil
}

// GenerateDay generates a single day, optionally constrained to one
// meal type and aware of what the rest of the week already looks like.
func (s *SuggestionService) GenerateDay(ctx context.Context, req SuggestionRequest) (*SuggestedDay, error) {
	var b strings.Builder
	writeLanguage(&b, req.Language)
	fmt.Fprintf(&b, "Create a meal plan for a SINGLE day (day %d) with these daily nutritional targets:\n", req.DayIndex+1)
	writeTargets(&b, req.Targets)
	writeConstraints(&b, req.Preferences, req.Restrictions)

	if len(req.WeekContext) > 0 {
		b.WriteString("The rest of the week looks like this (keep variety, don't repeat meals):\n")
		for _, day := range req.WeekContext {
			fmt.Fprintf(&b, "  Day %d: %s\n", day.Day, strings.Join(day.Meals, ", "))
		}
	}

	if req.MealTypeFilter != "" {
		fmt.Fprintf(&b, "IMPORTANT: Only generate the %s meal. For other meals, use empty placeholder values.\n", req.MealTypeFilter)
		fmt.Fprintf(&b, "Focus on making the %s excellent and varied from the rest of the week.\n", req.MealTypeFilter)
	}

	fmt.Fprintf(&b, `
Return a JSON object with this exact structure:
{
  "day": %d,
  "breakfast": "Meal name",
  "breakfast_description": "Brief description with main ingredients",
  "lunch": "Meal name",
  "lunch_description": "Brief description with main ingredients",
  "dinner": "Meal name",
  "dinner_description": "Brief description with main ingredients",
  "snacks": ["Snack 1", "Snack 2"],
  "estimated_calories": %d,
  "estimated_protein": %d,
  "estimated_carbs": %d,
  "estimated_fat": %d
}

Make the meals varied, practical, and delicious.
Return ONLY the JSON, no additional text.
`, req.DayIndex+1, int(req.Targets.Calories), int(req.Targets.Protein), int(req.Targets.Carbs), int(req.Targets.Fat))

	raw, err := s.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var day SuggestedDay
	if err := json.Unmarshal([]byte(raw), &day); err != nil {
		return nil, fmt.Errorf("%w: failed to parse day response: %v", ErrSuggestionUnavailable, err)
	}
	return &day, nil
}

// SuggestRecipes asks for recipes built from the given ingredients,
// optionally constrained to a meal type or cuisine.
func (s *SuggestionService) SuggestRecipes(ctx context.Context, req RecipeSuggestionRequest) (*RecipeSuggestions, error) {
	if len(req.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: no ingredients given", ErrInvalidInput)
	}
	maxRecipes := req.MaxRecipes
	if maxRecipes <= 0 || maxRecipes > 10 {
		maxRecipes = 5
	}

	var b strings.Builder
	writeLanguage(&b, req.Language)
	fmt.Fprintf(&b, "Suggest %d recipes using these ingredients: %s\n", maxRecipes, strings.Join(req.Ingredients, ", "))
	if req.MealType != "" {
		fmt.Fprintf(&b, "Meal type: %s\n", req.MealType)
	}
	if req.Cuisine != "" {
		fmt.Fprintf(&b, "Cuisine preference: %s\n", req.Cuisine)
	}

	b.WriteString(`
Return a JSON object with this exact structure:
{
  "recipes": [
    {
      "name": "Recipe name",
      "description": "Brief description",
      "ingredients": ["Ingredient 1 with amount", "Ingredient 2 with amount"],
      "instructions": ["Step 1", "Step 2", "Step 3"],
      "estimated_calories": 500,
      "estimated_protein": 30,
      "estimated_carbs": 40,
      "estimated_fat": 20,
      "prep_time": "10 minutes",
      "cook_time": "20 minutes"
    }
  ]
}

Use as many of the provided ingredients as possible.
You may add common pantry staples (salt, pepper, oil, etc.) if needed.
Return ONLY the JSON, no additional text.
`)

	raw, err := s.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var suggestions RecipeSuggestions
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: failed to parse recipe response: %v", ErrSuggestionUnavailable, err)
	}
	return &suggestions, nil
}

// Chat answers a nutrition question, carrying the conversation so far
// and the user's active goal targets as context. goals may be nil.
func (s *SuggestionService) Chat(ctx context.Context, message string, history []ChatMessage, goals *NutritionTargets, language string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidInput)
	}

	var b strings.Builder
	writeLanguage(&b, language)
	b.WriteString(`You are a helpful nutrition assistant. Help users with:
- Understanding nutrition and macronutrients
- Meal planning and food choices
- Reaching their health goals
- Recipe ideas and cooking tips

Be friendly, informative, and practical in your responses.
`)

	if goals != nil {
		b.WriteString("\nUser's current goals:\n")
		writeTargets(&b, *goals)
	}

	b.WriteString("\n")
	for _, msg := range history {
		role := "Assistant"
		if msg.Role == "user" {
			role = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", role, msg.Content)
	}
	fmt.Fprintf(&b, "User: %s\n\n", message)

	b.WriteString(`Return a JSON object with this structure:
{
  "response": "Your helpful response here",
  "suggestions": ["Follow-up question 1?", "Follow-up question 2?"]
}

Include 2-3 relevant follow-up question suggestions.
Return ONLY the JSON, no additional text.
`)

	raw, err := s.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var reply ChatReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("%w: failed to parse chat response: %v", ErrSuggestionUnavailable, err)
	}
	return &reply, nil
}

func (s *SuggestionService) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSuggestionUnavailable, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrSuggestionUnavailable)
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("%w: response is not text", ErrSuggestionUnavailable)
	}

	return StripJSONFences(string(text)), nil
}

// StripJSONFences removes markdown code fences the model sometimes
// wraps around JSON output.
func StripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func writeLanguage(b *strings.Builder, language string) {
	if language == "de" {
		b.WriteString("Respond in German.\n")
	} else {
		b.WriteString("Respond in English.\n")
	}
}

func writeTargets(b *strings.Builder, t NutritionTargets) {
	fmt.Fprintf(b, "- Calories: %.0f kcal\n- Protein: %.0fg\n- Carbohydrates: %.0fg\n- Fat: %.0fg\n", t.Calories, t.Protein, t.Carbs, t.Fat)
}

func writeConstraints(b *strings.Builder, preferences, restrictions []string) {
	if len(preferences) > 0 {
		fmt.Fprintf(b, "Preferences: %s\n", strings.Join(preferences, ", "))
	}
	if len(restrictions) > 0 {
		fmt.Fprintf(b, "Restrictions/Allergies: %s\n", strings.Join(restrictions, ", "))
	}
}
