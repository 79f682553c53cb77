package suggest

import (
	"context"
	"errors"
	"sync"

	"fridgemap/internal/core/pantry"
	"fridgemap/internal/core/quality"
	"fridgemap/internal/core/vision"
	"fridgemap/internal/infrastructure/config"
	"fridgemap/internal/pkg/common"

	"go.uber.org/zap"
)

// Extractor turns one image payload into raw ingredient strings.
type Extractor interface {
	ExtractIngredients(ctx context.Context, payload string) ([]string, error)
}

// Request is the parsed, validated analysis input. A non-empty Ingredients
// list bypasses vision entirely (manual-entry mode).
type Request struct {
	Images      []string
	Ingredients []string
	People      string
}

// Result is the full analysis outcome. ErrorCode is set only on a
// recognized failure path; recipes and shopping list are then left empty.
type Result struct {
	OK           bool         `json:"ok"`
	Mode         string       `json:"mode"`
	Detected     []string     `json:"ingredients_detected"`
	NonFood      []string     `json:"non_food,omitempty"`
	PeopleLabel  string       `json:"people_label,omitempty"`
	Recipes      Matches      `json:"recipes,omitempty"`
	Suggestions  []Suggestion `json:"suggestions,omitempty"`
	ShoppingList []string     `json:"shopping_list"`
	ErrorCode    string       `json:"error_code,omitempty"`
}

// Service runs the analysis pipeline: quality gate, vision extraction,
// normalization, recipe matching and shopping list assembly.
type Service struct {
	config    *config.Config
	extractor Extractor
}

// NewService creates the analysis service.
func NewService(cfg *config.Config, extractor Extractor) *Service {
	return &Service{
		config:    cfg,
		extractor: extractor,
	}
}

// Analyze handles one request. All recognized failure modes come back as a
// Result with an ErrorCode, never as an error.
func (s *Service) Analyze(ctx context.Context, req Request) *Result {
	if len(req.Ingredients) > 0 {
		return s.analyzeIngredients(req)
	}
	if len(req.Images) > 0 {
		return s.analyzeImages(ctx, req)
	}
	return &Result{
		OK:           true,
		Mode:         "empty",
		Detected:     []string{},
		ShoppingList: []string{},
		ErrorCode:    common.ErrCodeNoImages,
	}
}

// analyzeIngredients is manual-entry mode: normalize, weed out non-food,
// match directly.
func (s *Service) analyzeIngredients(req Request) *Result {
	normalized := pantry.NormalizeAll(req.Ingredients)
	food, nonFood := pantry.SplitFood(normalized)

	// Non-food words go back to the caller for pruning before any
	// matching happens, mirroring the confirm-edit-confirm flow.
	if len(nonFood) > 0 {
		return &Result{
			OK:           true,
			Mode:         "ingredients",
			Detected:     []string{},
			NonFood:      nonFood,
			ShoppingList: []string{},
		}
	}

	if len(food) == 0 {
		return &Result{
			OK:           true,
			Mode:         "ingredients",
			Detected:     []string{},
			ShoppingList: []string{},
			ErrorCode:    common.ErrCodeNoIngredientsDetected,
		}
	}

	return s.buildResult("ingredients", food, nil, req.People)
}

// analyzeImages runs the quality gate, fans extraction out across the
// selected images and merges whatever the calls produced.
func (s *Service) analyzeImages(ctx context.Context, req Request) *Result {
	if s.config.Vision.APIKey == "" {
		return &Result{
			Mode:         "images",
			Detected:     []string{},
			ShoppingList: []string{},
			ErrorCode:    common.ErrCodeNoAPIKey,
		}
	}

	images := req.Images
	if len(images) > s.config.Quality.MaxImages {
		images = images[:s.config.Quality.MaxImages]
	}

	selection := quality.SelectUsable(images, s.config.Quality.MinScore, s.config.Quality.MaxSelected)
	if !selection.OK {
		common.LogInfo("no usable images after quality gate",
			zap.Int("candidates", len(images)),
		)
		return &Result{
			OK:           true,
			Mode:         "images",
			Detected:     []string{},
			ShoppingList: []string{},
			ErrorCode:    common.ErrCodeNoUsableImages,
		}
	}

	raw, errs := s.extractAll(ctx, selection.Selected)

	// Partial success is fine; only a total wipeout surfaces as an error
	// code, and then the most specific one available.
	if len(raw) == 0 && len(errs) == len(selection.Selected) && len(errs) > 0 {
		code := common.ErrCodeAPIError
		allTooSmall := true
		for _, err := range errs {
			if errors.Is(err, vision.ErrNoAPIKey) {
				code = common.ErrCodeNoAPIKey
				allTooSmall = false
				break
			}
			if !errors.Is(err, vision.ErrImageTooSmall) {
				allTooSmall = false
			}
		}
		if allTooSmall {
			code = common.ErrCodeImageTooSmall
		}
		return &Result{
			OK:           code != common.ErrCodeNoAPIKey,
			Mode:         "images",
			Detected:     []string{},
			ShoppingList: []string{},
			ErrorCode:    code,
		}
	}

	normalized := pantry.NormalizeAll(raw)
	food, nonFood := pantry.SplitFood(normalized)

	if len(food) == 0 {
		return &Result{
			OK:           true,
			Mode:         "images",
			Detected:     []string{},
			NonFood:      nonFood,
			ShoppingList: []string{},
			ErrorCode:    common.ErrCodeNoIngredientsDetected,
		}
	}

	return s.buildResult("images", food, nonFood, req.People)
}

// extractAll calls the extractor once per selected image, in parallel.
// A failed call contributes zero ingredients and never aborts siblings.
func (s *Service) extractAll(ctx context.Context, selected []quality.Candidate) ([]string, []error) {
	perImage := make([][]string, len(selected))
	var mu sync.Mutex
	var wg sync.WaitGroup
	errs := make([]error, 0, len(selected))

	for i, candidate := range selected {
		wg.Add(1)
		go func(i int, payload string) {
			defer wg.Done()
			items, err := s.extractor.ExtractIngredients(ctx, payload)
			if err != nil {
				common.LogWarn("image analysis failed, continuing without it",
					zap.Int("image_index", i),
					zap.Error(err),
				)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			mu.Lock()
			perImage[i] = items
			mu.Unlock()
		}(i, candidate.Payload)
	}
	wg.Wait()

	merged := make([]string, 0)
	for _, items := range perImage {
		merged = append(merged, items...)
	}
	return merged, errs
}

func (s *Service) buildResult(mode string, food, nonFood []string, people string) *Result {
	set := ToSet(food)
	matches := Match(set)

	return &Result{
		OK:           true,
		Mode:         mode,
		Detected:     food,
		NonFood:      nonFood,
		PeopleLabel:  PeopleLabel(people),
		Recipes:      matches,
		Suggestions:  Rank(set, people),
		ShoppingList: BuildShoppingList(matches),
	}
}
