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
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const foodSearchCacheTTL = 24 * time.Hour

// FoodSearchResult is one food from the external database, normalized
// to per-100g values.
type FoodSearchResult struct {
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	ImageURL   string  `json:"image_url"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Fiber      float64 `json:"fiber"`
}

// FoodSearchService queries Open Food Facts and caches results, first
// in Redis with a TTL and durably in the food cache table so repeated
// searches stay usable when the upstream is slow or down.
type FoodSearchService struct {
	db      *gorm.DB
	redis   *redis.Client
	http    *http.Client
	baseURL string
	agent   string
}

// NewFoodSearchService creates a new FoodSearchService instance.
// redisClient may be nil; the service then relies on the DB cache only.
func NewFoodSearchService(db *gorm.DB, redisClient *redis.Client, baseURL, userAgent string) *FoodSearchService {
	if baseURL == "" {
		baseURL = "https://world.openfoodfacts.org"
	}
	if userAgent == "" {
		userAgent = "platewise-backend/1.0"
	}
	return &FoodSearchService{
		db:      db,
		redis:   redisClient,
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		agent:   userAgent,
	}
}

type offProduct struct {
	Code        string `json:"code"`
	ProductName string `json:"product_name"`
	Brands      string `json:"brands"`
	ImageURL    string `json:"image_front_small_url"`
	Nutriments  struct {
		Calories float64 `json:"energy-kcal_100g"`
		Protein  float64 `json:"proteins_100g"`
		Carbs    float64 `json:"carbohydrates_100g"`
		Fat      float64 `json:"fat_100g"`
		Fiber    float64 `json:"fiber_100g"`
	} `json:"nutriments"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}

type offProductResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

// Search queries the external food database by name.
func (s *FoodSearchService) Search(ctx context.Context, query string, page, pageSize int) ([]FoodSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidInput)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	cacheKey := fmt.Sprintf("food_search:%s:%d:%d", strings.ToLower(query), page, pageSize)
	if cached := s.cachedResults(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("fields", "code,product_name,brands,image_front_small_url,nutriments")

	var parsed offSearchResponse
	if err := s.getJSON(ctx, s.baseURL+"/cgi/search.pl?"+params.Encode(), &parsed); err != nil {
		if fallback := s.dbCachedResults(ctx, query); len(fallback) > 0 {
			log.Printf("food search upstream failed, serving %d cached results for %q: %v", len(fallback), query, err)
			return fallback, nil
		}
		return nil, err
	}

	results := make([]FoodSearchResult, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if p.ProductName == "" {
			continue
		}
		results = append(results, resultFromProduct(p))
	}

	s.storeResults(ctx, cacheKey, query, results)
	return results, nil
}

// ByBarcode looks up a single product by barcode.
func (s *FoodSearchService) ByBarcode(ctx context.Context, barcode string) (*FoodSearchResult, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: empty barcode", ErrInvalidInput)
	}

	cacheKey := "food_barcode:" + barcode
	if cached := s.cachedResults(ctx, cacheKey); len(cached) == 1 {
		return &cached[0], nil
	}

	var parsed offProductResponse
	err := s.getJSON(ctx, fmt.Sprintf("%s/api/v2/product/%s.json", s.baseURL, url.PathEscape(barcode)), &parsed)
	if err != nil {
		return nil, err
	}
	if parsed.Status != 1 || parsed.Product.ProductName == "" {
		return nil, fmt.Errorf("%w: no product for barcode %s", ErrNotFound, barcode)
	}

	result := resultFromProduct(parsed.Product)
	s.storeResults(ctx, cacheKey, barcode, []FoodSearchResult{result})
	return &result, nil
}

func (s *FoodSearchService) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", s.agent)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("food database request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: food database returned 404", ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("food database returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func resultFromProduct(p offProduct) FoodSearchResult {
	return FoodSearchResult{
		ExternalID: p.Code,
		Name:       p.ProductName,
		Brand:      p.Brands,
		ImageURL:   p.ImageURL,
		Calories:   p.Nutriments.Calories,
		Protein:    p.Nutriments.Protein,
		Carbs:      p.Nutriments.Carbs,
		Fat:        p.Nutriments.Fat,
		Fiber:      p.Nutriments.Fiber,
	}
}

func (s *FoodSearchService) cachedResults(ctx context.Context, key string) []FoodSearchResult {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("food cache read failed for %s: %v", key, err)
		}
		return nil
	}
	var results []FoodSearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil
	}
	return results
}

// storeResults writes to both cache tiers. Failures are logged and
// swallowed; caching never fails a successful search.
func (s *FoodSearchService) storeResults(ctx context.Context, key, query string, results []FoodSearchResult) {
	if s.redis != nil {
		if data, err := json.Marshal(results); err == nil {
			if err := s.redis.Set(ctx, key, data, foodSearchCacheTTL).Err(); err != nil {
				log.Printf("food cache write failed for %s: %v", key, err)
			}
		}
	}

	if s.db == nil {
		return
	}
	for _, r := range results {
		entry := models.FoodCacheEntry{
			ID:         uuid.New(),
			Query:      strings.ToLower(query),
			ExternalID: r.ExternalID,
			Name:       r.Name,
			Brand:      r.Brand,
			ImageURL:   r.ImageURL,
			Calories:   r.Calories,
			Protein:    r.Protein,
			Carbs:      r.Carbs,
			Fat:        r.Fat,
			Fiber:      r.Fiber,
		}
		var existing models.FoodCacheEntry
		err := s.db.WithContext(ctx).
			Where("query = ? AND external_id = ?", entry.Query, entry.ExternalID).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("food cache table read failed for %s: %v", r.ExternalID, err)
			continue
		}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			log.Printf("food cache table write failed for %s: %v", r.ExternalID, err)
		}
	}
}

// CreateCustomFood saves a user-defined food with per-100g values.
func (s *FoodSearchService) CreateCustomFood(ctx context.Context, food *models.Food) (*models.Food, error) {
	food.Name = strings.TrimSpace(food.Name)
	if food.Name == "" {
		return nil, fmt.Errorf("%w: missing food name", ErrInvalidInput)
	}
	if food.Calories < 0 || food.Protein < 0 || food.Carbs < 0 || food.Fat < 0 || food.Fiber < 0 {
		return nil, fmt.Errorf("%w: nutrition values must be non-negative", ErrInvalidInput)
	}
	food.ID = uuid.New()
	food.IsCustom = true
	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

// ListCustomFoods returns the user-defined foods, newest first.
func (s *FoodSearchService) ListCustomFoods(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	if err := s.db.WithContext(ctx).
		Where("is_custom = ?", true).
		Order("created_at DESC").
		Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// DeleteCustomFood removes a user-defined food. Foods imported from the
// external database are not deletable.
func (s *FoodSearchService) DeleteCustomFood(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("is_custom = ?", true).Delete(&models.Food{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: custom food %s", ErrNotFound, id)
	}
	return nil
}

func (s *FoodSearchService) dbCachedResults(ctx context.Context, query string) []FoodSearchResult {
	if s.db == nil {
		return nil
	}
	var entries []models.FoodCacheEntry
	if err := s.db.WithContext(ctx).
		Where("query = ?", strings.ToLower(query)).
		Limit(50).
		Find(&entries).Error; err != nil {
		return nil
	}
	results := make([]FoodSearchResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, FoodSearchResult{
			ExternalID: e.ExternalID,
			Name:       e.Name,
			Brand:      e.Brand,
			ImageURL:   e.ImageURL,
			Calories:   e.Calories,
			Protein:    e.Protein,
			Carbs:      e.Carbs,
			Fat:        e.Fat,
			Fiber:      e.Fiber,
		})
	}
	return results
}
