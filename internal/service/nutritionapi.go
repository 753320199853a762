package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/backend/internal/models"
	"golang.org/x/oauth2/clientcredentials"
	"gorm.io/gorm"
)

// IngredientNutrition is one ingredient with serving-level macros as
// returned by the nutrition provider.
type IngredientNutrition struct {
	Name               string  `json:"name"`
	Brand              string  `json:"brand"`
	ServingSize        float64 `json:"serving_size"`
	ServingUnit        string  `json:"serving_unit"`
	ServingDescription string  `json:"serving_description"`
	Calories           float64 `json:"calories"`
	Protein            float64 `json:"protein"`
	Carbs              float64 `json:"carbs"`
	Fat                float64 `json:"fat"`
}

// NutritionAPIService resolves ingredient nutrition via the FatSecret
// platform API. Tokens come from the OAuth2 client-credentials flow and
// are refreshed transparently by the token source. Results found in the
// local foods table short-circuit the upstream call.
type NutritionAPIService struct {
	db      *gorm.DB
	http    *http.Client
	baseURL string
}

// NewNutritionAPIService creates a new NutritionAPIService instance.
func NewNutritionAPIService(db *gorm.DB, clientID, clientSecret, tokenURL, baseURL string) *NutritionAPIService {
	if tokenURL == "" {
		tokenURL = "https://oauth.fatsecret.com/connect/token"
	}
	if baseURL == "" {
		baseURL = "https://platform.fatsecret.com"
	}
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{"basic"},
	}
	httpClient := conf.Client(context.Background())
	httpClient.Timeout = 15 * time.Second

	return &NutritionAPIService{
		db:      db,
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type fatSecretFood struct {
	FoodName        string `json:"food_name"`
	BrandName       string `json:"brand_name"`
	FoodDescription string `json:"food_description"`
}

type fatSecretSearchResponse struct {
	Foods struct {
		Food json.RawMessage `json:"food"`
	} `json:"foods"`
}

// SearchIngredients looks up ingredients by name, preferring the local
// foods table and falling back to the upstream API. Upstream hits are
// persisted so the next search is local.
func (s *NutritionAPIService) SearchIngredients(ctx context.Context, query string) ([]IngredientNutrition, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidInput)
	}

	if local := s.localFoods(ctx, query); len(local) > 0 {
		return local, nil
	}

	results, err := s.fetchFromAPI(ctx, query)
	if err != nil {
		return nil, err
	}
	s.saveFoods(ctx, results)
	return results, nil
}

func (s *NutritionAPIService) localFoods(ctx context.Context, query string) []IngredientNutrition {
	if s.db == nil {
		return nil
	}
	var foods []models.Food
	if err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%").
		Limit(10).
		Find(&foods).Error; err != nil {
		return nil
	}

	results := make([]IngredientNutrition, 0, len(foods))
	for _, f := range foods {
		results = append(results, IngredientNutrition{
			Name:               f.Name,
			Brand:              f.Brand,
			ServingSize:        100,
			ServingUnit:        "g",
			ServingDescription: "Per 100g",
			Calories:           f.Calories,
			Protein:            f.Protein,
			Carbs:              f.Carbs,
			Fat:                f.Fat,
		})
	}
	return results
}

func (s *NutritionAPIService) fetchFromAPI(ctx context.Context, query string) ([]IngredientNutrition, error) {
	params := url.Values{}
	params.Set("search_expression", query)
	params.Set("format", "json")
	params.Set("max_results", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/rest/foods/search/v1?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nutrition API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nutrition API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var parsed fatSecretSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition API response: %w", err)
	}

	// The API returns an object instead of an array when there is a
	// single match.
	var items []fatSecretFood
	if len(parsed.Foods.Food) > 0 {
		if err := json.Unmarshal(parsed.Foods.Food, &items); err != nil {
			var single fatSecretFood
			if err := json.Unmarshal(parsed.Foods.Food, &single); err != nil {
				return nil, fmt.Errorf("failed to parse nutrition API foods: %w", err)
			}
			items = []fatSecretFood{single}
		}
	}

	var results []IngredientNutrition
	for _, item := range items {
		nutrition, ok := parseNutritionDescription(item.FoodDescription)
		if !ok {
			log.Printf("could not parse nutrition for %q", item.FoodName)
			continue
		}
		nutrition.Name = fullFoodName(item.BrandName, item.FoodName)
		nutrition.Brand = item.BrandName
		results = append(results, nutrition)
	}
	return results, nil
}

func (s *NutritionAPIService) saveFoods(ctx context.Context, results []IngredientNutrition) {
	if s.db == nil {
		return
	}
	for _, r := range results {
		var existing models.Food
		err := s.db.WithContext(ctx).
			Where("LOWER(name) = ?", strings.ToLower(r.Name)).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("failed to check food %q: %v", r.Name, err)
			continue
		}

		food := models.Food{
			ID:       uuid.New(),
			Name:     r.Name,
			Brand:    r.Brand,
			Calories: r.Calories,
			Protein:  r.Protein,
			Carbs:    r.Carbs,
			Fat:      r.Fat,
		}
		if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
			log.Printf("failed to save food %q: %v", r.Name, err)
		}
	}
}

func fullFoodName(brand, name string) string {
	name = strings.TrimSpace(name)
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return name
	}
	return brand + " " + name
}

var (
	servingRe  = regexp.MustCompile(`^Per (.+?) -`)
	sizeRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)(g|ml)`)
	numberRe   = regexp.MustCompile(`\d+(?:\.\d+)?`)
	caloriesRe = regexp.MustCompile(`(?i)Calories:\s*(\d+(?:\.\d+)?)k?cal`)
	fatRe      = regexp.MustCompile(`(?i)Fat:\s*(\d+(?:\.\d+)?)g`)
	carbsRe    = regexp.MustCompile(`(?i)Carbs?:\s*(\d+(?:\.\d+)?)g`)
	proteinRe  = regexp.MustCompile(`(?i)Protein:\s*(\d+(?:\.\d+)?)g`)
)

// parseNutritionDescription extracts macros from a description like
// "Per 100g - Calories: 147kcal | Fat: 9.94g | Carbs: 0.77g | Protein: 12.58g".
func parseNutritionDescription(description string) (IngredientNutrition, bool) {
	n := IngredientNutrition{
		ServingSize:        100,
		ServingUnit:        "g",
		ServingDescription: "Per 100g",
	}

	if m := servingRe.FindStringSubmatch(description); m != nil {
		n.ServingDescription = strings.TrimSuffix(m[0], " -")
		serving := strings.TrimSpace(m[1])
		if sm := sizeRe.FindStringSubmatch(serving); sm != nil {
			n.ServingSize, _ = strconv.ParseFloat(sm[1], 64)
			n.ServingUnit = sm[2]
		} else if nm := numberRe.FindString(serving); nm != "" {
			n.ServingSize, _ = strconv.ParseFloat(nm, 64)
			n.ServingUnit = "piece"
		}
	}

	found := false
	if m := caloriesRe.FindStringSubmatch(description); m != nil {
		n.Calories, _ = strconv.ParseFloat(m[1], 64)
		found = true
	}
	if m := fatRe.FindStringSubmatch(description); m != nil {
		n.Fat, _ = strconv.ParseFloat(m[1], 64)
		found = true
	}
	if m := carbsRe.FindStringSubmatch(description); m != nil {
		n.Carbs, _ = strconv.ParseFloat(m[1], 64)
		found = true
	}
	if m := proteinRe.FindStringSubmatch(description); m != nil {
		n.Protein, _ = strconv.ParseFloat(m[1], 64)
		found = true
	}
	return n, found
}
